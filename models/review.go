package models

import "time"

const ReviewTable = "bl_reviews"

type Review struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BookID    string    `gorm:"type:uuid;not null;uniqueIndex:uniq_review_user_book" json:"book_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:uniq_review_user_book" json:"user_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   *string   `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book Book `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string { return ReviewTable }
