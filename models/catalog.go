package models

import "time"

const (
	AuthorTable = "bl_authors"
	GenreTable  = "bl_genres"
	BookTable   = "bl_books"
)

type Author struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Books []Book `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Genre struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Books []Book `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

type Book struct {
	ID       string  `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string  `gorm:"size:200;not null" json:"title"`
	AuthorID string  `gorm:"type:uuid;index;not null" json:"author_id"`
	GenreID  *string `gorm:"type:uuid;index" json:"genre_id,omitempty"`

	IsAvailable bool `gorm:"not null;default:true" json:"is_available"`
	ReadCount   int  `gorm:"not null;default:0" json:"read_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Author) TableName() string { return AuthorTable }
func (Genre) TableName() string  { return GenreTable }
func (Book) TableName() string   { return BookTable }
