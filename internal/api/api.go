// Package api sets up and starts the API
// server with routing, middleware, and Swagger documentation.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/foodgram-app/backend/docs"
	"github.com/foodgram-app/backend/internal/api/middleware"
	"github.com/foodgram-app/backend/internal/api/routes/auth"
	"github.com/foodgram-app/backend/internal/api/routes/ingredients"
	"github.com/foodgram-app/backend/internal/api/routes/ping"
	"github.com/foodgram-app/backend/internal/api/routes/recipes"
	"github.com/foodgram-app/backend/internal/api/routes/tags"
	"github.com/foodgram-app/backend/internal/api/routes/users"
	"github.com/foodgram-app/backend/internal/env"
	"github.com/foodgram-app/backend/internal/role"
)

func addDocs(r *chi.Mux, serverAddr string) {
	swagger := httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/api/swagger/doc.json", serverAddr)),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Mount("/api/swagger", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Handle preflight
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Allow GET to serve Swagger
		if req.Method == http.MethodGet {
			swagger.ServeHTTP(w, req)
			return
		}

		// Block anything else
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
}

func addRoutes(router *chi.Mux) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auth.HandleLogin)
			r.Post("/logout", auth.HandleLogout)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.HandleListTags)
			r.Get("/{tagID}", tags.HandleGetTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ingredients.HandleSearchIngredients)
			r.Get("/{ingredientID}", ingredients.HandleGetIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			// Reads work for anonymous viewers; the viewer id only
			// toggles the is_favorited / is_in_shopping_cart flags.
			r.Group(func(r chi.Router) {
				r.Use(middleware.IdentifyViewer)

				r.Get("/", recipes.HandleListRecipes)
				r.Get("/{recipeID}", recipes.HandleGetRecipe)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthorizeRequest(role.RoleUser))

				r.Post("/", recipes.HandleCreateRecipe)
				r.Get("/download_shopping_cart", recipes.HandleDownloadShoppingCart)
				r.Patch("/{recipeID}", recipes.HandleUpdateRecipe)
				r.Delete("/{recipeID}", recipes.HandleDeleteRecipe)
				r.Post("/{recipeID}/favorite", recipes.HandleFavoriteRecipe)
				r.Delete("/{recipeID}/favorite", recipes.HandleUnfavoriteRecipe)
				r.Post("/{recipeID}/shopping_cart", recipes.HandleAddToCart)
				r.Delete("/{recipeID}/shopping_cart", recipes.HandleRemoveFromCart)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.HandleCreateUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.IdentifyViewer)

				r.Get("/{userID}", users.HandleGetUser)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthorizeRequest(role.RoleUser))

				r.Get("/me", users.HandleGetMe)
				r.Post("/set_password", users.HandleSetPassword)
				r.Get("/subscriptions", users.HandleListSubscriptions)
				r.Post("/{userID}/subscribe", users.HandleSubscribe)
				r.Delete("/{userID}/subscribe", users.HandleUnsubscribe)
			})
		})
	})
}

// Start godoc
//
//	@title						Foodgram API
//	@version					1.0
//	@description				API server for the Foodgram recipe-sharing application.
//
//	@securityDefinitions.apikey	AccessTokenCookie
//	@in							cookie
//	@name						access
//
//	@host						localhost:8080
//	@BasePath					/api
func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)
	addDocs(router, fmt.Sprintf("0.0.0.0:%d", env.Config.Port))
	http.Handle("/", router)

	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0:%d", env.Config.Port))
	env.Logger.Info(fmt.Sprintf("Swagger UI available at http://0.0.0.0:%d/api/swagger/index.html", env.Config.Port))
	return http.ListenAndServe(fmt.Sprintf(":%d", env.Config.Port), nil)
}
