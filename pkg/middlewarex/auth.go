package middlewarex

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
	"luckywheel/pkg/httpx/reply"
	"luckywheel/pkg/logx"
)

const bearerSchema = "Bearer "

type authError struct {
	code        errcodes.ErrorCode
	description string
}

func (e authError) Error() string { return e.description }
func (e authError) ErrorCode() errcodes.ErrorCode { return e.code }
func (e authError) Description() string { return e.description }

// Auth verifies an HMAC-signed JWT and puts its subject and the raw token
// into the request context.
func Auth(secret []byte) func(next http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	}))

	keyFunc := func(*jwt.Token) (any, error) {
		return secret, nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" && isWebsocketUpgrade(r) {
				// Browsers cannot set headers on a websocket handshake.
				if token := r.URL.Query().Get("access_token"); token != "" {
					header = bearerSchema + token
				}
			}

			if !strings.HasPrefix(header, bearerSchema) {
				reply.Error(ctx, w, authError{code: errcodes.Unauthorized, description: "Authorization header must start with Bearer"})
				return
			}

			raw := strings.TrimPrefix(header, bearerSchema)

			var claims jwt.RegisteredClaims

			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
				code := errcodes.AccessTokenInvalid
				if errors.Is(err, jwt.ErrTokenExpired) {
					code = errcodes.AccessTokenExpired
				}

				reply.Error(ctx, w, authError{code: code, description: "Invalid access token"})

				return
			}

			if claims.Subject == "" {
				reply.Error(ctx, w, authError{code: errcodes.AccessTokenInvalid, description: "Token has no subject"})
				return
			}

			userID := contextx.UserID(claims.Subject)

			ctx = contextx.WithUserID(ctx, userID)
			ctx = contextx.WithBearerToken(ctx, contextx.BearerToken(raw))
			ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.Stringer(logx.FieldUserID, userID)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminToken guards operator endpoints with a static token header.
func AdminToken(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get("X-Admin-Token")

			if token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				reply.Error(r.Context(), w, authError{code: errcodes.Forbidden, description: "Admin token required"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
