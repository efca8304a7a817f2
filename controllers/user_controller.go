package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_book_lending/app"
	"Gin_postgres_redis_book_lending/db"
	"Gin_postgres_redis_book_lending/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// POST /api/register
func (uc *UserController) Register(c *gin.Context) {
	var in struct {
		Username  string `json:"username" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, db.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, app.H{"error": "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, u)
}

// POST /api/login
func (uc *UserController) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := uc.Repo.FindUserByUsername(c.Request.Context(), in.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}

	access, refresh, err := uc.issueTokenPair(c, u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	// 登录快照，不阻塞
	_ = uc.Repo.TouchUserLogin(c.Request.Context(), u.ID, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, app.H{"access": access, "refresh": refresh})
}

// POST /api/login/refresh
func (uc *UserController) RefreshToken(c *gin.Context) {
	var in struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	claims, err := uc.Tokens.ParseRefresh(in.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid refresh token"})
		return
	}
	// jti 必须仍在 Redis 里（单次使用，轮换后作废）
	owner, err := uc.Refresh.Valid(c.Request.Context(), claims.ID)
	if err != nil || owner != claims.Subject {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid refresh token"})
		return
	}

	u, err := uc.Repo.FindUserByID(c.Request.Context(), claims.Subject)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid refresh token"})
		return
	}

	access, err := uc.Tokens.IssueAccess(u.ID, u.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	refresh, jti, err := uc.Tokens.IssueRefresh(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if err := uc.Refresh.Rotate(c.Request.Context(), claims.ID, jti, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, app.H{"access": access, "refresh": refresh})
}

func (uc *UserController) issueTokenPair(c *gin.Context, u *models.User) (string, string, error) {
	access, err := uc.Tokens.IssueAccess(u.ID, u.Username)
	if err != nil {
		return "", "", err
	}
	refresh, jti, err := uc.Tokens.IssueRefresh(u.ID)
	if err != nil {
		return "", "", err
	}
	if err := uc.Refresh.Save(c.Request.Context(), jti, u.ID); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
