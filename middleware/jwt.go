// middleware/jwt.go
package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"p9e.in/combustibles/config"
	"p9e.in/combustibles/models"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// Claims is the JWT payload. The acting account travels here, in the
// request, instead of in any server-side session state: handlers read the
// funcionario and role from the context the middleware fills in.
type Claims struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Funcionario string `json:"funcionario"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// unexported type prevents collisions in context
type ctxKey int

const (
	userClaimsKey ctxKey = iota
)

// GenerateToken creates a signed JWT valid for 24 h
func GenerateToken(userID, username, funcionario, role string) (string, error) {
	claims := Claims{
		UserID:      userID,
		Username:    username,
		Funcionario: funcionario,
		Role:        role,

		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// JWTMiddleware validates the token and stashes the Claims in ctx
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid auth header", http.StatusUnauthorized)
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(t *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin guards the admin subrouter: user management, bulk import
// and export are admin-only operations. The role comes from the account
// row, not the token, so a role change applies to tokens already issued.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if !user.IsAdmin() {
			http.Error(w, "acceso denegado", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims pulls the *Claims out of the request context (or nil)
func GetClaims(r *http.Request) *Claims {
	if c, ok := r.Context().Value(userClaimsKey).(*Claims); ok {
		return c
	}
	return nil
}

func GetFuncionario(r *http.Request) string {
	if c := GetClaims(r); c != nil {
		return c.Funcionario
	}
	return ""
}

func GetUsername(r *http.Request) string {
	if c := GetClaims(r); c != nil {
		return c.Username
	}
	return ""
}

// GetUser loads the full account behind the claims, falling back to a
// minimal record built from the token when the row is gone.
func GetUser(r *http.Request) models.User {
	if c := GetClaims(r); c != nil {
		var user models.User
		if err := config.DB.First(&user, "id = ?", c.UserID).Error; err == nil {
			return user
		}
		return models.User{
			Username:    c.Username,
			Funcionario: c.Funcionario,
			Role:        c.Role,
		}
	}
	return models.User{}
}
