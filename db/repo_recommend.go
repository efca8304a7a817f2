package db

import (
	"Gin_postgres_redis_book_lending/models"
	"context"
)

const recommendationLimit = 5

// RecommendBooks builds the candidate list from the user's loan history:
// books in genres the user has borrowed from, minus every book the user has
// ever borrowed, most-read first. Users with no history get the most-read
// currently-available books instead.
func (r *Repo) RecommendBooks(ctx context.Context, userID string) ([]BookRow, error) {
	db := r.DB.WithContext(ctx)

	var genreIDs []string
	if err := db.
		Table(models.BookTable+" b").
		Distinct("b.genre_id").
		Joins("JOIN "+models.BorrowedBookTable+" bb ON bb.book_id = b.id").
		Where("bb.user_id = ? AND b.genre_id IS NOT NULL", userID).
		Pluck("b.genre_id", &genreIDs).Error; err != nil {
		return nil, err
	}

	q := r.bookRows(ctx)
	if len(genreIDs) > 0 {
		borrowed := db.
			Table(models.BorrowedBookTable).
			Select("book_id").
			Where("user_id = ?", userID)
		q = q.Where("b.genre_id IN ?", genreIDs).
			Where("b.id NOT IN (?)", borrowed)
	} else {
		q = q.Where("b.is_available = TRUE")
	}

	var rows []BookRow
	if err := q.Order("b.read_count DESC, b.id").
		Limit(recommendationLimit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
