// controllers/book_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Gin_postgres_redis_book_lending/app"
	"Gin_postgres_redis_book_lending/db"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookController struct{ *Srv }

func NewBookController(s *Srv) *BookController { return &BookController{Srv: s} }

// GET /api/books?author=&genre=&is_available=
func (bc *BookController) ListBooks(c *gin.Context) {
	f := db.BookFilter{
		AuthorName: c.Query("author"),
		GenreName:  c.Query("genre"),
	}
	if v := c.Query("is_available"); v != "" {
		avail, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "is_available must be a boolean"})
			return
		}
		f.Available = &avail
	}

	books, err := bc.Repo.ListBooks(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"books": books})
}

// POST /api/books/:id/borrow
func (bc *BookController) Borrow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	bookID := c.Param("id")

	_, err := bc.Repo.BorrowBook(c.Request.Context(), userID, bookID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, app.H{"message": "Book borrowed successfully."})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "Book not found."})
	case errors.Is(err, db.ErrBookUnavailable):
		c.JSON(http.StatusBadRequest, app.H{"error": "Book is not available."})
	case errors.Is(err, db.ErrAlreadyBorrowed):
		c.JSON(http.StatusBadRequest, app.H{"error": "You have already borrowed this book."})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

// POST /api/books/:id/return
func (bc *BookController) Return(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	bookID := c.Param("id")

	_, err := bc.Repo.ReturnBook(c.Request.Context(), userID, bookID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, app.H{"message": "Book returned successfully."})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "Borrowed record not found."})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

// GET /api/my-borrowed-books
func (bc *BookController) MyBorrowedBooks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	rows, err := bc.Repo.ListMyOpenLoans(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"borrowed_books": rows})
}

// GET /api/recommendations
func (bc *BookController) Recommendations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	books, err := bc.Repo.RecommendBooks(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"recommendations": books})
}
