package middleware

import (
	"fmt"
	"net/http"
	"time"

	"foodtruck/internal/common"
	"foodtruck/internal/services"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// tokenContextKey is where echo-jwt leaves the parsed token.
const tokenContextKey = "user"

// NewJWKS fetches the signing keys of an external identity provider and keeps
// them refreshed in the background. Call EndBackground on shutdown.
func NewJWKS(url string) (*keyfunc.JWKS, error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn().Err(err).Str("jwks_url", url).Msg("jwks refresh failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load jwks from %s: %w", url, err)
	}
	return jwks, nil
}

// KeyFunc verifies HS256 tokens with the local secret. Asymmetric tokens are
// checked against jwks when one is configured and refused otherwise.
func KeyFunc(secret []byte, jwks *keyfunc.JWKS) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
			}
			return secret, nil
		}
		if jwks == nil {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return jwks.Keyfunc(token)
	}
}

// JWTConfig builds the echo-jwt configuration for bearer tokens.
func JWTConfig(secret []byte, jwks *keyfunc.JWKS) echojwt.Config {
	return echojwt.Config{
		KeyFunc:    KeyFunc(secret, jwks),
		ContextKey: tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Invalid or missing token", nil))
		},
	}
}

// Authenticate is the protected-route chain: verify the bearer token, then put
// the caller's identity on the request context.
func Authenticate(secret []byte, jwks *keyfunc.JWKS) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{echojwt.WithConfig(JWTConfig(secret, jwks)), LoadActor()}
}

// LoadActor copies the verified claims into the request context.
func LoadActor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			claims, ok := token.Claims.(*services.TokenClaims)
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			actor, err := claims.Actor()
			if err != nil {
				log.Ctx(c.Request().Context()).Debug().Err(err).Msg("rejecting token claims")
				return common.SendUnauthorizedError(c)
			}

			ctx := common.WithActor(c.Request().Context(), actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
