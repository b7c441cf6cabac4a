package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/staffkeeper/internal/server/auth"
)

// accountIDKey is the gin context key under which requireAuth stores the
// authenticated account id.
const accountIDKey = "accountID"

// requireAuth rejects requests without a valid bearer token. It only checks
// that valid credentials exist; there are no roles.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is required"})
		return
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(accountIDKey, claims.AccountID)
	c.Next()
}
