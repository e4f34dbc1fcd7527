// Package argon2id hashes and verifies passwords using argon2id in
// the standard PHC string format.
package argon2id

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidHash         = errors.New("the encoded hash is not in the correct format")
	ErrIncompatibleVersion = errors.New("incompatible version of argon2")
)

// ArgonParams are the cost and size parameters for a hash. They are
// embedded in the encoded string so old hashes stay verifiable after
// the defaults change.
type ArgonParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultParams = ArgonParams{
	Memory:      64 * 1024,
	Iterations:  1,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// EncodeHash hashes the password with a fresh random salt and returns
// the PHC-encoded string.
func EncodeHash(password string, p ArgonParams) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return encode(derive(password, p, salt), salt, p), nil
}

// ComparePassword reports whether the password matches the encoded
// hash. The comparison of the derived keys is constant time.
func ComparePassword(password, encodedHash string) (bool, error) {
	p, salt, hash, err := decode(encodedHash)
	if err != nil {
		return false, err
	}
	candidate := derive(password, p, salt)
	return subtle.ConstantTimeCompare(hash, candidate) == 1, nil
}

func derive(password string, p ArgonParams, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
}

func encode(hash, salt []byte, p ArgonParams) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

func decode(encodedHash string) (p ArgonParams, salt, hash []byte, err error) {
	fail := func(err error) (ArgonParams, []byte, []byte, error) {
		return ArgonParams{}, nil, nil, err
	}

	rest, ok := strings.CutPrefix(encodedHash, "$argon2id$")
	if !ok {
		return fail(ErrInvalidHash)
	}
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return fail(ErrInvalidHash)
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil {
		return fail(err)
	}
	if version != argon2.Version {
		return fail(ErrIncompatibleVersion)
	}

	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return fail(err)
	}

	if salt, err = base64.RawStdEncoding.Strict().DecodeString(fields[2]); err != nil {
		return fail(err)
	}
	p.SaltLength = uint32(len(salt))

	if hash, err = base64.RawStdEncoding.Strict().DecodeString(fields[3]); err != nil {
		return fail(err)
	}
	p.KeyLength = uint32(len(hash))
	return p, salt, hash, nil
}
