package app

import (
	"Gin_postgres_redis_book_lending/auth"
	"Gin_postgres_redis_book_lending/db"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// AuthRequired validates the Authorization bearer token and confirms the user
// still exists before letting a request through. userID / username / isAdmin
// land in the gin context for downstream handlers.
func AuthRequired(tokens *auth.Manager, repo *db.Repo, cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		claims, err := tokens.ParseAccess(strings.TrimPrefix(h, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid token"})
			return
		}

		// 这里确认用户仍存在，并把 isAdmin 放进 Context（只查一次）
		u, err := repo.FindUserByID(c.Request.Context(), claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("username", u.Username)

		isAdmin := u.IsAdmin
		email := strings.ToLower(u.Email)
		for _, admin := range cfg.AdminEmails {
			if email == admin {
				isAdmin = true
			}
		}
		c.Set("isAdmin", isAdmin)

		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get("isAdmin"); !ok || v != true {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
