package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/mock/gomock"

	apiError "github.com/foodgram-app/backend/internal/api/error"
	"github.com/foodgram-app/backend/internal/api/requestid"
	"github.com/foodgram-app/backend/internal/api/token"
	"github.com/foodgram-app/backend/internal/argon2id"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/env"
	"github.com/foodgram-app/backend/internal/log"
)

type fakeDB struct {
	*database.MockQuerier
}

func (f fakeDB) WithTx(_ context.Context, fn func(database.Querier) error) error {
	return fn(f.MockQuerier)
}

func testRequest(t *testing.T, mockDB *database.MockQuerier, method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))

	e := &env.Env{
		Logger:   log.NullLogger(),
		Database: fakeDB{mockDB},
	}
	ctx := env.WithCtx(req.Context(), e)
	ctx = requestid.InjectRequestID(ctx, 12345)
	return req.WithContext(ctx), httptest.NewRecorder()
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) apiError.ErrorCode {
	t.Helper()
	var body apiError.Error
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Code
}

func TestHandleCreateUser(t *testing.T) {
	validBody := `{
		"email": "new@example.com",
		"username": "newuser",
		"first_name": "New",
		"last_name": "User",
		"password": "SecureP@ss123!"
	}`

	t.Run("successful registration", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			CreateUser(gomock.Any(), gomock.Cond(func(arg database.CreateUserParams) bool {
				return arg.Email == "new@example.com" &&
					arg.Username == "newuser" &&
					arg.Role == database.RoleUser &&
					arg.PasswordHash != "" &&
					arg.PasswordHash != "SecureP@ss123!"
			})).
			Return(database.User{
				ID:        7,
				Email:     "new@example.com",
				Username:  "newuser",
				FirstName: "New",
				LastName:  "User",
				Role:      database.RoleUser,
			}, nil)

		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users", validBody)
		HandleCreateUser(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var profile Profile
		if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if profile.ID != 7 {
			t.Errorf("expected ID 7, got %d", profile.ID)
		}
		if profile.Email != "new@example.com" {
			t.Errorf("expected email %q, got %q", "new@example.com", profile.Email)
		}
		if profile.IsSubscribed {
			t.Error("expected IsSubscribed false for a fresh account")
		}
	})

	t.Run("email already in use", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			Return(database.User{}, uniqueViolation("users_unique_email"))

		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users", validBody)
		HandleCreateUser(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != apiError.EmailConflict {
			t.Errorf("expected code %s, got %s", apiError.EmailConflict, code)
		}
	})

	t.Run("username already in use", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			Return(database.User{}, uniqueViolation("users_unique_username"))

		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users", validBody)
		HandleCreateUser(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != apiError.UsernameConflict {
			t.Errorf("expected code %s, got %s", apiError.UsernameConflict, code)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		body := `{
			"email": "new@example.com",
			"username": "newuser",
			"first_name": "New",
			"last_name": "User",
			"password": "123"
		}`
		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users", body)
		HandleCreateUser(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != apiError.WeakPassword {
			t.Errorf("expected code %s, got %s", apiError.WeakPassword, code)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		body := `{"email": "new@example.com", "password": "SecureP@ss123!"}`
		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users", body)
		HandleCreateUser(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != apiError.ValidationFailed {
			t.Errorf("expected code %s, got %s", apiError.ValidationFailed, code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		body := `{
			"email": "new@example.com",
			"username": "newuser",
			"first_name": "New",
			"last_name": "User",
			"password": "SecureP@ss123!",
			"is_staff": true
		}`
		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users", body)
		HandleCreateUser(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users", `{not json`)
		HandleCreateUser(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandleGetUser(t *testing.T) {
	stored := database.User{
		ID:        2,
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "A",
	}

	t.Run("anonymous viewer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(stored, nil)

		req, rec := testRequest(t, mockDB, http.MethodGet, "/api/users/2", "")
		req = withURLParam(req, "userID", "2")
		HandleGetUser(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var profile Profile
		if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if profile.IsSubscribed {
			t.Error("expected IsSubscribed false for anonymous viewer")
		}
	})

	t.Run("subscribed viewer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(stored, nil)
		mockDB.EXPECT().
			CheckSubscription(gomock.Any(), database.CheckSubscriptionParams{
				SubscriberID: 1,
				TargetID:     2,
			}).
			Return(true, nil)

		req, rec := testRequest(t, mockDB, http.MethodGet, "/api/users/2", "")
		req = withURLParam(req, "userID", "2")
		req = req.WithContext(token.UserIDWithCtx(req.Context(), 1))
		HandleGetUser(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var profile Profile
		if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !profile.IsSubscribed {
			t.Error("expected IsSubscribed true")
		}
	})

	t.Run("viewing own profile skips subscription check", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(2)).
			Return(stored, nil)

		req, rec := testRequest(t, mockDB, http.MethodGet, "/api/users/2", "")
		req = withURLParam(req, "userID", "2")
		req = req.WithContext(token.UserIDWithCtx(req.Context(), 2))
		HandleGetUser(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("user not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(404)).
			Return(database.User{}, pgx.ErrNoRows)

		req, rec := testRequest(t, mockDB, http.MethodGet, "/api/users/404", "")
		req = withURLParam(req, "userID", "404")
		HandleGetUser(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != apiError.UserNotFound {
			t.Errorf("expected code %s, got %s", apiError.UserNotFound, code)
		}
	})

	t.Run("malformed user id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		req, rec := testRequest(t, mockDB, http.MethodGet, "/api/users/abc", "")
		req = withURLParam(req, "userID", "abc")
		HandleGetUser(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandleSetPassword(t *testing.T) {
	currentHash, err := argon2id.EncodeHash("OldP@ssword123!", argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("failed to hash current password: %v", err)
	}
	stored := database.User{ID: 1, PasswordHash: currentHash}

	t.Run("successful change", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(1)).
			Return(stored, nil)
		mockDB.EXPECT().
			UpdateUserPassword(gomock.Any(), gomock.Cond(func(arg database.UpdateUserPasswordParams) bool {
				return arg.ID == 1 && arg.PasswordHash != "" && arg.PasswordHash != currentHash
			})).
			Return(nil)

		body := `{"current_password": "OldP@ssword123!", "new_password": "NewSecureP@ss456!"}`
		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users/set_password", body)
		req = req.WithContext(token.UserIDWithCtx(req.Context(), 1))
		HandleSetPassword(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("wrong current password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(1)).
			Return(stored, nil)

		body := `{"current_password": "not-the-password", "new_password": "NewSecureP@ss456!"}`
		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users/set_password", body)
		req = req.WithContext(token.UserIDWithCtx(req.Context(), 1))
		HandleSetPassword(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != apiError.InvalidPassword {
			t.Errorf("expected code %s, got %s", apiError.InvalidPassword, code)
		}
	})

	t.Run("weak new password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(1)).
			Return(stored, nil)

		body := `{"current_password": "OldP@ssword123!", "new_password": "123"}`
		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users/set_password", body)
		req = req.WithContext(token.UserIDWithCtx(req.Context(), 1))
		HandleSetPassword(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != apiError.WeakPassword {
			t.Errorf("expected code %s, got %s", apiError.WeakPassword, code)
		}
	})
}

func TestHandleSubscribe(t *testing.T) {
	t.Run("self subscription", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users/1/subscribe", "")
		req = withURLParam(req, "userID", "1")
		req = req.WithContext(token.UserIDWithCtx(req.Context(), 1))
		HandleSubscribe(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != apiError.SelfSubscription {
			t.Errorf("expected code %s, got %s", apiError.SelfSubscription, code)
		}
	})

	t.Run("author not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			GetUserByID(gomock.Any(), int64(404)).
			Return(database.User{}, pgx.ErrNoRows)

		req, rec := testRequest(t, mockDB, http.MethodPost, "/api/users/404/subscribe", "")
		req = withURLParam(req, "userID", "404")
		req = req.WithContext(token.UserIDWithCtx(req.Context(), 1))
		HandleSubscribe(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestParseRecipesLimit(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want *int32
	}{
		{
			name: "absent",
			url:  "/api/users/subscriptions",
			want: nil,
		},
		{
			name: "valid",
			url:  "/api/users/subscriptions?recipes_limit=3",
			want: ptr(int32(3)),
		},
		{
			name: "zero",
			url:  "/api/users/subscriptions?recipes_limit=0",
			want: ptr(int32(0)),
		},
		{
			name: "malformed",
			url:  "/api/users/subscriptions?recipes_limit=abc",
			want: nil,
		},
		{
			name: "negative",
			url:  "/api/users/subscriptions?recipes_limit=-2",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			got := parseRecipesLimit(r)

			if tt.want == nil {
				if got != nil {
					t.Errorf("expected nil, got %d", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %d, got nil", *tt.want)
			}
			if *got != *tt.want {
				t.Errorf("expected %d, got %d", *tt.want, *got)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}
