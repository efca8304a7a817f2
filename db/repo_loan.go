package db

import (
	"context"
	"errors"
	"time"

	"Gin_postgres_redis_book_lending/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookUnavailable = errors.New("book is not available")
	ErrAlreadyBorrowed = errors.New("book already borrowed by this user")
)

// BorrowBook 借出：原子操作 = 锁住 book → 占用 is_available → 新建 loan。
// read_count 只在借出成功时 +1。
func (r *Repo) BorrowBook(ctx context.Context, userID, bookID string) (*models.BorrowedBook, error) {
	var loan *models.BorrowedBook
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 锁住该书
		var b models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", bookID).Error; err != nil {
			return err
		}
		if !b.IsAvailable {
			return ErrBookUnavailable
		}
		// 2) 防并发：该用户已有未归还 loan 则拒绝（is_available 已挡住，保险起见）
		var n int64
		if err := tx.Model(&models.BorrowedBook{}).
			Where("user_id = ? AND book_id = ? AND return_date IS NULL", userID, bookID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyBorrowed
		}
		// 3) 新建 loan
		l := &models.BorrowedBook{
			ID:         uuid.NewString(),
			UserID:     userID,
			BookID:     bookID,
			BorrowedAt: time.Now().UTC(),
		}
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		// 4) 占用 + 阅读计数
		if err := tx.Model(&models.Book{}).
			Where("id = ?", b.ID).
			Updates(map[string]interface{}{
				"is_available": false,
				"read_count":   gorm.Expr("read_count + 1"),
			}).Error; err != nil {
			return err
		}
		loan = l
		return nil
	})
	return loan, err
}

// ReturnBook 归还：原子操作 = 完成 loan → 释放 is_available。
// 没有未归还 loan 时返回 gorm.ErrRecordNotFound。
func (r *Repo) ReturnBook(ctx context.Context, userID, bookID string) (*models.BorrowedBook, error) {
	var l models.BorrowedBook
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "user_id = ? AND book_id = ? AND return_date IS NULL", userID, bookID).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		l.ReturnDate = &now
		if err := tx.Save(&l).Error; err != nil {
			return err
		}
		// 释放占用
		if err := tx.Model(&models.Book{}).
			Where("id = ?", l.BookID).
			Update("is_available", true).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// OpenLoanRow is one currently-open loan joined with its book's display data.
type OpenLoanRow struct {
	Book       BookRow   `json:"book"`
	BorrowedAt time.Time `json:"borrowed_at"`
}

type openLoanScan struct {
	BorrowedAt  time.Time
	ID          string
	Title       string
	Author      string
	Genre       *string
	IsAvailable bool
	ReadCount   int
}

func (r *Repo) ListMyOpenLoans(ctx context.Context, userID string) ([]OpenLoanRow, error) {
	var scans []openLoanScan
	err := r.DB.WithContext(ctx).
		Table(models.BorrowedBookTable+" bb").
		Select(`
			bb.borrowed_at,
			b.id, b.title, b.is_available, b.read_count,
			a.name AS author,
			g.name AS genre
		`).
		Joins("JOIN "+models.BookTable+" b ON b.id = bb.book_id").
		Joins("JOIN "+models.AuthorTable+" a ON a.id = b.author_id").
		Joins("LEFT JOIN "+models.GenreTable+" g ON g.id = b.genre_id").
		Where("bb.user_id = ? AND bb.return_date IS NULL", userID).
		Order("bb.borrowed_at DESC").
		Scan(&scans).Error
	if err != nil {
		return nil, err
	}

	rows := make([]OpenLoanRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, OpenLoanRow{
			BorrowedAt: s.BorrowedAt,
			Book: BookRow{
				ID:          s.ID,
				Title:       s.Title,
				Author:      s.Author,
				Genre:       s.Genre,
				IsAvailable: s.IsAvailable,
				ReadCount:   s.ReadCount,
			},
		})
	}
	return rows, nil
}
