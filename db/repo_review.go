package db

import (
	"context"
	"errors"
	"time"

	"Gin_postgres_redis_book_lending/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateReview = errors.New("review already exists for this user and book")

// ReviewRow is the API projection of a review; User is the reviewer's username.
type ReviewRow struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Repo) ListReviews(ctx context.Context, bookID string) ([]ReviewRow, error) {
	var rows []ReviewRow
	err := r.DB.WithContext(ctx).
		Table(models.ReviewTable+" rv").
		Select(`rv.id, rv.rating, rv.comment, rv.created_at, u.username AS "user"`).
		Joins("JOIN "+models.UserTable+" u ON u.id = rv.user_id").
		Where("rv.book_id = ?", bookID).
		Order("rv.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateReview 一本书每个用户只允许一条评价；重复时返回 ErrDuplicateReview。
func (r *Repo) CreateReview(ctx context.Context, userID, bookID string, rating int, comment *string) (*models.Review, error) {
	rv := &models.Review{
		ID:      uuid.NewString(),
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateReview
		}
		return tx.Create(rv).Error
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}
