// Package stdlib registers the standard-library modules spec.md §1
// names as an external collaborator with only a stated interface.
// pkg/eval never imports this package directly — everything here
// reaches a script through the registry's ModuleStore/FunctionRegistry
// contracts, matching how the teacher keeps its HTTP/auth/websocket
// helpers out of the core evaluation loop.
package stdlib

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"vela/pkg/registry"
	"vela/pkg/value"
)

// installAuth registers the `auth` module: password hashing
// (auth_helpers.go's bcrypt wrapper) and JWT sign/verify, returning
// claims as a Vela Map the way value.FromJSON would.
func installAuth(reg *registry.Registry) {
	mod := registry.NewModule()

	mod.Functions["hash_password"] = func(args []value.DynVal) (value.DynVal, error) {
		password, mismatch := requireString(args, 0, "auth::hash_password")
		if mismatch != "" {
			return nil, argError(mismatch)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		return value.NewString(string(hashed)), nil
	}

	mod.Functions["verify_password"] = func(args []value.DynVal) (value.DynVal, error) {
		password, mismatch := requireString(args, 0, "auth::verify_password")
		if mismatch != "" {
			return nil, argError(mismatch)
		}
		hash, mismatch := requireString(args, 1, "auth::verify_password")
		if mismatch != "" {
			return nil, argError(mismatch)
		}
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		return value.NewBool(err == nil), nil
	}

	mod.Functions["sign"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 3 {
			return nil, argError("auth::sign expects (payload: Map, secret: String, expires_in: String)")
		}
		m, ok := value.Unwrap(args[0]).(*value.MapVal)
		if !ok {
			return nil, argError("auth::sign payload must be a Map")
		}
		secret, mismatch := requireString(args, 1, "auth::sign")
		if mismatch != "" {
			return nil, argError(mismatch)
		}
		expiresIn, mismatch := requireString(args, 2, "auth::sign")
		if mismatch != "" {
			return nil, argError(mismatch)
		}

		claims := jwt.MapClaims{}
		for _, e := range m.Entries() {
			native, err := value.ToJSON(e.Value)
			if err != nil {
				return nil, err
			}
			claims[e.Key] = native
		}
		duration, err := time.ParseDuration(expiresIn)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", expiresIn, err)
		}
		claims["exp"] = time.Now().Add(duration).Unix()

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			return nil, err
		}
		return value.NewString(signed), nil
	}

	mod.Functions["verify"] = func(args []value.DynVal) (value.DynVal, error) {
		tok, mismatch := requireString(args, 0, "auth::verify")
		if mismatch != "" {
			return nil, argError(mismatch)
		}
		secret, mismatch := requireString(args, 1, "auth::verify")
		if mismatch != "" {
			return nil, argError(mismatch)
		}
		parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			return nil, err
		}
		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok || !parsed.Valid {
			return nil, fmt.Errorf("invalid token")
		}
		out := value.NewMap()
		for k, v := range claims {
			out.Set(k, value.FromJSON(v))
		}
		return out, nil
	}

	reg.DefineModule("auth", mod)
}

func requireString(args []value.DynVal, i int, fn string) (string, string) {
	if i >= len(args) {
		return "", fmt.Sprintf("%s expects at least %d arguments", fn, i+1)
	}
	s, mismatch := value.AsString(args[i])
	if mismatch != "" {
		return "", fmt.Sprintf("%s argument %d must be String, got %s", fn, i, mismatch)
	}
	return s, ""
}

func argError(msg string) error { return fmt.Errorf("%s", msg) }
