package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole restringe rotas administrativas (relatórios, bloqueios,
// equipe) aos papéis informados.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient_role"})
	}
}
