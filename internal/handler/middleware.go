package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/netcode-labs/auth-service/internal/model"
	"github.com/netcode-labs/auth-service/internal/service"
)

const authClaimsKey = "auth_claims"

// BearerAuth extracts a bearer credential, validates it through the auth
// service and stores the decoded claims in the request context. With
// autoError disabled a missing or invalid credential simply yields no
// identity, for endpoints where authentication is optional.
func BearerAuth(svc *service.AuthService, debug, autoError bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := extractCredential(c)
		if !ok {
			if autoError {
				writeError(c, http.StatusForbidden, msgNotAuthenticated)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		claims, err := svc.Authenticate(c.Request.Context(), credential)
		if err != nil {
			if errors.Is(err, service.ErrNotAuthenticated) && !autoError {
				c.Next()
				return
			}
			writeAuthError(c, debug, err)
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// extractCredential reads the Authorization header (scheme must equal
// "Bearer", case-insensitively) or, when the header is absent, falls back to
// the token query parameter for transports that cannot set headers.
func extractCredential(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header != "" {
		scheme, credential, found := strings.Cut(header, " ")
		credential = strings.TrimSpace(credential)
		if !found || credential == "" || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		return credential, true
	}

	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", false
}

// RequireRole gates an endpoint on the role set embedded in the claims at
// issuance time. Missing identity and missing role are distinct failures.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetAuthClaims(c)
		if claims == nil {
			writeError(c, http.StatusForbidden, msgNotAuthenticated)
			c.Abort()
			return
		}
		if !claims.User.HasRole(role) {
			writeError(c, http.StatusForbidden, msgInsufficientRole)
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetAuthClaims(c *gin.Context) *model.AccessClaims {
	if value, ok := c.Get(authClaimsKey); ok {
		if claims, ok := value.(*model.AccessClaims); ok {
			return claims
		}
	}
	return nil
}

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Correlation-ID")
				c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
