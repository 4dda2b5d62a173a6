package api

import (
	"net/http"
	"strings"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// RequireAuth resolves the bearer token to the identity provider's user id.
// Every failure gets the same 401 body.
func RequireAuth(v auth.Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		userID, err := v.Verify(c.Request.Context(), bearer)
		if err != nil {
			logger.Debug("bearer verification failed",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			abortUnauthorized(c)
			return
		}

		c.Set(string(userIDKey), userID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(string(userIDKey))
	if !ok {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context) {
	AbortJSONError(c, http.StatusUnauthorized, ErrorCodeUnauthorized, "missing or invalid authentication")
}
