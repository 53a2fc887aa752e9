package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/repodash/internal/domain/models"
	"github.com/bravo68web/repodash/internal/domain/service"
	"github.com/bravo68web/repodash/pkg/logger"
)

// IdentityContextKey is the gin context key holding the resolved *models.Identity
const IdentityContextKey = "identity"

// IdentityMiddleware resolves bearer tokens into identities
type IdentityMiddleware struct {
	resolver service.IdentityResolver
	log      *logger.Logger
}

// NewIdentityMiddleware creates a new IdentityMiddleware instance
func NewIdentityMiddleware(resolver service.IdentityResolver) *IdentityMiddleware {
	return &IdentityMiddleware{
		resolver: resolver,
		log:      logger.Get().WithFields(logger.Component("identity-middleware")),
	}
}

// RequireIdentity aborts with 401 unless the request carries a token the
// resolver accepts. Resolvers that do not require tokens let every request through.
func (m *IdentityMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		if token == "" && m.resolver.Required() {
			m.log.Warn("Identity required but no token provided",
				logger.Path(c.Request.URL.Path),
				logger.Method(c.Request.Method),
				logger.ClientIP(c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		identity, err := m.resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			m.log.Warn("Token rejected",
				logger.Path(c.Request.URL.Path),
				logger.ClientIP(c.ClientIP()),
				logger.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// GetIdentity returns the identity resolved for this request, or nil
func GetIdentity(c *gin.Context) *models.Identity {
	v, ok := c.Get(IdentityContextKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*models.Identity)
	return identity
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
