package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_book_lending/app"
	"Gin_postgres_redis_book_lending/db"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewController struct{ *Srv }

func NewReviewController(s *Srv) *ReviewController { return &ReviewController{Srv: s} }

// GET /api/books/:id/reviews
func (rc *ReviewController) ListReviews(c *gin.Context) {
	bookID := c.Param("id")
	if _, err := rc.Repo.FindBookByID(c.Request.Context(), bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "Book not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	reviews, err := rc.Repo.ListReviews(c.Request.Context(), bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"reviews": reviews})
}

// POST /api/books/:id/reviews/create
func (rc *ReviewController) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	bookID := c.Param("id")

	var in struct {
		Rating  *int    `json:"rating" binding:"required,min=1,max=5"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "rating must be an integer between 1 and 5"})
		return
	}

	if _, err := rc.Repo.FindBookByID(c.Request.Context(), bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "Book not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	rv, err := rc.Repo.CreateReview(c.Request.Context(), userID, bookID, *in.Rating, in.Comment)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateReview) {
			c.JSON(http.StatusBadRequest, app.H{"error": "You have already reviewed this book."})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rv)
}
