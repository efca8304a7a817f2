package models

import "time"

const BorrowedBookTable = "bl_borrowed_books"

// BorrowedBook is one loan interval. ReturnDate stays NULL while the loan is
// open; a partial unique index (see db.Migrate) allows at most one open loan
// per (user, book).
type BorrowedBook struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string     `gorm:"type:uuid;index;not null" json:"user_id"`
	BookID     string     `gorm:"type:uuid;index;not null" json:"book_id"`
	BorrowedAt time.Time  `gorm:"index;not null" json:"borrowed_at"`
	ReturnDate *time.Time `gorm:"index" json:"return_date,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book Book `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (BorrowedBook) TableName() string { return BorrowedBookTable }
