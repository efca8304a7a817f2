package db

import (
	"Gin_postgres_redis_book_lending/models"
	"context"
	"strings"

	"gorm.io/gorm"
)

// BookRow is the API projection of a book: author/genre as display names.
type BookRow struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Genre       *string `json:"genre"`
	IsAvailable bool    `json:"is_available"`
	ReadCount   int     `json:"read_count"`
}

type BookFilter struct {
	AuthorName string
	GenreName  string
	Available  *bool
}

func (r *Repo) bookRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.BookTable+" b").
		Select(`
			b.id, b.title, b.is_available, b.read_count,
			a.name AS author,
			g.name AS genre
		`).
		Joins("JOIN "+models.AuthorTable+" a ON a.id = b.author_id").
		Joins("LEFT JOIN " + models.GenreTable + " g ON g.id = b.genre_id")
}

func (r *Repo) ListBooks(ctx context.Context, f BookFilter) ([]BookRow, error) {
	q := r.bookRows(ctx)
	if s := strings.TrimSpace(f.AuthorName); s != "" {
		q = q.Where("a.name = ?", s)
	}
	if s := strings.TrimSpace(f.GenreName); s != "" {
		q = q.Where("g.name = ?", s)
	}
	if f.Available != nil {
		q = q.Where("b.is_available = ?", *f.Available)
	}

	var rows []BookRow
	if err := q.Order("b.created_at, b.id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Catalog administration

func (r *Repo) CreateAuthor(ctx context.Context, a *models.Author) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *Repo) CreateGenre(ctx context.Context, g *models.Genre) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *Repo) FindAuthorByID(ctx context.Context, id string) (*models.Author, error) {
	var a models.Author
	if err := r.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) FindGenreByID(ctx context.Context, id string) (*models.Genre, error) {
	var g models.Genre
	if err := r.DB.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *Repo) CreateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

// DeleteAuthor removes the author and, via the FK constraint, its books.
func (r *Repo) DeleteAuthor(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Author{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteGenre removes the genre; books keep existing with genre_id nulled.
func (r *Repo) DeleteGenre(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Genre{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
