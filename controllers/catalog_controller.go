// controllers/catalog_controller.go
// Catalog administration: authors, genres, and books are created here and
// only mutated elsewhere by borrowing.
package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_book_lending/app"
	"Gin_postgres_redis_book_lending/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogController struct{ *Srv }

func NewCatalogController(s *Srv) *CatalogController { return &CatalogController{Srv: s} }

// POST /api/admin/authors
func (cc *CatalogController) CreateAuthor(c *gin.Context) {
	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	a := &models.Author{ID: uuid.NewString(), Name: in.Name}
	if err := cc.Repo.CreateAuthor(c.Request.Context(), a); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// POST /api/admin/genres
func (cc *CatalogController) CreateGenre(c *gin.Context) {
	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	g := &models.Genre{ID: uuid.NewString(), Name: in.Name}
	if err := cc.Repo.CreateGenre(c.Request.Context(), g); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, g)
}

// POST /api/admin/books
func (cc *CatalogController) CreateBook(c *gin.Context) {
	var in struct {
		Title    string  `json:"title" binding:"required"`
		AuthorID string  `json:"author_id" binding:"required"`
		GenreID  *string `json:"genre_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	if _, err := cc.Repo.FindAuthorByID(c.Request.Context(), in.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "Author not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if in.GenreID != nil {
		if _, err := cc.Repo.FindGenreByID(c.Request.Context(), *in.GenreID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, app.H{"error": "Genre not found."})
				return
			}
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
	}

	b := &models.Book{
		ID:          uuid.NewString(),
		Title:       in.Title,
		AuthorID:    in.AuthorID,
		GenreID:     in.GenreID,
		IsAvailable: true,
	}
	if err := cc.Repo.CreateBook(c.Request.Context(), b); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// DELETE /api/admin/authors/:id — cascades to the author's books
func (cc *CatalogController) DeleteAuthor(c *gin.Context) {
	if err := cc.Repo.DeleteAuthor(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "Author not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/admin/genres/:id — books keep existing, genre nulled
func (cc *CatalogController) DeleteGenre(c *gin.Context) {
	if err := cc.Repo.DeleteGenre(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "Genre not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
