package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"place-trainer/internal/service"
)

const identityKey = "caller_identity"

// IdentityParser valida un token bearer y devuelve la identidad del llamador.
type IdentityParser interface {
	ParseIdentity(token string) (service.Identity, error)
}

// IdentityMiddleware resuelve la identidad si viene un token. La ausencia de token
// no corta la request: cada endpoint decide si la exige. Un token inválido sí.
func IdentityMiddleware(parser IdentityParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		if parser == nil || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			abortUnauthenticated(c)
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		identity, err := parser.ParseIdentity(token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// GetIdentity obtiene la identidad del llamador o nil si es anónimo.
func GetIdentity(c *gin.Context) *service.Identity {
	val, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := val.(service.Identity)
	if !ok {
		return nil
	}
	return &identity
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"status": "UNAUTHENTICATED", "message": "invalid token"},
	})
}
