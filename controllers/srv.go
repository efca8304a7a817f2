// controllers/srv.go
package controllers

import (
	"Gin_postgres_redis_book_lending/app"
	"Gin_postgres_redis_book_lending/auth"
	"Gin_postgres_redis_book_lending/db"

	"github.com/gin-gonic/gin"
)

type Srv struct {
	Repo    *db.Repo
	Tokens  *auth.Manager
	Refresh *auth.RefreshStore
	Cfg     app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:    db.NewRepo(a.DB),
		Tokens:  a.Tokens,
		Refresh: a.Refresh,
		Cfg:     a.Config,
	}
}

// --- helpers ---

func currentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	uid, _ := v.(string)
	return uid, uid != ""
}
