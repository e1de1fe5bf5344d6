package middlewares

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/mmfintech/bytebank_backend/config"
	"github.com/mmfintech/bytebank_backend/utils"
)

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
}

// AuthMiddleware requires a valid bearer token and loads the caller's
// identity into the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			abortUnauthorized(c, "authorization header is required")
			return
		}

		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || token == "" {
			abortUnauthorized(c, "authorization header must be a bearer token")
			return
		}

		validated, err := utils.JwtValidate(token)
		if err != nil {
			if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
				abortUnauthorized(c, utils.ErrorTokenExpired.Error())
				return
			}
			abortUnauthorized(c, utils.ErrorInvalidToken.Error())
			return
		}

		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok || !validated.Valid {
			abortUnauthorized(c, utils.ErrorInvalidToken.Error())
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetUsernameInContext(ctx, claims.Username)
		ctx = utils.SetUserIdInContext(ctx, claims.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionMiddleware rejects tokens that were revoked by logout. Tokens are
// tracked in redis for their lifespan; an unknown token is treated as a
// dead session.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := utils.GetTokenFromContext(c.Request.Context())
		if !ok || token == "" {
			c.Next()
			return
		}

		_, exists, err := config.GetRedisValue("Token:" + token)
		if err == nil && !exists {
			abortUnauthorized(c, "session has been revoked")
			return
		}
		c.Next()
	}
}
