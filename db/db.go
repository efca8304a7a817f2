package db

import (
	"Gin_postgres_redis_book_lending/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.Genre{},
		&models.Book{},
		&models.BorrowedBook{},
		&models.Review{},
	); err != nil {
		return err
	}

	// 同一 (user, book) 最多一条未归还
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_user_book
	  ON %s (user_id, book_id)
	  WHERE return_date IS NULL;
	`, models.BorrowedBookTable, models.BorrowedBookTable)).Error; err != nil {
		return err
	}

	// 查询当前借出更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_book_borrowedat_desc
	  ON %s (book_id, borrowed_at DESC)
	  WHERE return_date IS NULL;
	`, models.BorrowedBookTable, models.BorrowedBookTable)).Error; err != nil {
		return err
	}

	return nil
}
