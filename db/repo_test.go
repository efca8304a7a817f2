package db_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"Gin_postgres_redis_book_lending/db"
	"Gin_postgres_redis_book_lending/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// These run against a throwaway Postgres, e.g.
// TEST_DATABASE_URL="host=127.0.0.1 user=postgres password=postgres dbname=bl_test port=5432 sslmode=disable"

type fixture struct {
	repo *db.Repo
	ctx  context.Context
}

func setupRepo(t *testing.T) *fixture {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping repo integration test")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.Exec(`
		DROP TABLE IF EXISTS bl_reviews, bl_borrowed_books, bl_books, bl_genres, bl_authors, bl_users CASCADE
	`).Error)
	require.NoError(t, db.Migrate(gdb))

	return &fixture{repo: db.NewRepo(gdb), ctx: context.Background()}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.NewString(), Username: username, PasswordHash: "x"}
	require.NoError(t, f.repo.CreateUser(f.ctx, u))
	return u
}

func (f *fixture) author(t *testing.T, name string) *models.Author {
	t.Helper()
	a := &models.Author{ID: uuid.NewString(), Name: name}
	require.NoError(t, f.repo.CreateAuthor(f.ctx, a))
	return a
}

func (f *fixture) genre(t *testing.T, name string) *models.Genre {
	t.Helper()
	g := &models.Genre{ID: uuid.NewString(), Name: name}
	require.NoError(t, f.repo.CreateGenre(f.ctx, g))
	return g
}

func (f *fixture) book(t *testing.T, title, authorID string, genreID *string, readCount int) *models.Book {
	t.Helper()
	b := &models.Book{ID: uuid.NewString(), Title: title, AuthorID: authorID, GenreID: genreID, IsAvailable: true}
	require.NoError(t, f.repo.CreateBook(f.ctx, b))
	if readCount > 0 {
		require.NoError(t, f.repo.DB.Model(&models.Book{}).
			Where("id = ?", b.ID).Update("read_count", readCount).Error)
		b.ReadCount = readCount
	}
	return b
}

func (f *fixture) reload(t *testing.T, bookID string) *models.Book {
	t.Helper()
	b, err := f.repo.FindBookByID(f.ctx, bookID)
	require.NoError(t, err)
	return b
}

func Test_BorrowBook_Lifecycle(t *testing.T) {
	f := setupRepo(t)
	u := f.user(t, "alice")
	other := f.user(t, "bob")
	a := f.author(t, "Frank Herbert")
	g := f.genre(t, "Sci-Fi")
	b := f.book(t, "Dune", a.ID, &g.ID, 0)

	// borrow succeeds, flips availability, bumps read_count
	loan, err := f.repo.BorrowBook(f.ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, loan.UserID)
	assert.Nil(t, loan.ReturnDate)
	got := f.reload(t, b.ID)
	assert.False(t, got.IsAvailable)
	assert.Equal(t, 1, got.ReadCount)

	// unavailable for everyone, including the holder
	_, err = f.repo.BorrowBook(f.ctx, other.ID, b.ID)
	assert.ErrorIs(t, err, db.ErrBookUnavailable)
	_, err = f.repo.BorrowBook(f.ctx, u.ID, b.ID)
	assert.ErrorIs(t, err, db.ErrBookUnavailable)

	// return closes the loan and flips availability back
	closed, err := f.repo.ReturnBook(f.ctx, u.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.ReturnDate)
	got = f.reload(t, b.ID)
	assert.True(t, got.IsAvailable)
	assert.Equal(t, 1, got.ReadCount, "returning must not change read_count")

	// second return finds no open loan
	_, err = f.repo.ReturnBook(f.ctx, u.ID, b.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// read_count keeps counting across repeat borrows
	_, err = f.repo.BorrowBook(f.ctx, other.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.reload(t, b.ID).ReadCount)
}

func Test_BorrowBook_NotFound(t *testing.T) {
	f := setupRepo(t)
	u := f.user(t, "alice")

	_, err := f.repo.BorrowBook(f.ctx, u.ID, uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_ReturnBook_RequiresOpenLoanOfCaller(t *testing.T) {
	f := setupRepo(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	a := f.author(t, "Mary Shelley")
	b := f.book(t, "Frankenstein", a.ID, nil, 0)

	_, err := f.repo.BorrowBook(f.ctx, alice.ID, b.ID)
	require.NoError(t, err)

	// bob never borrowed it
	_, err = f.repo.ReturnBook(f.ctx, bob.ID, b.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_ListMyOpenLoans(t *testing.T) {
	f := setupRepo(t)
	u := f.user(t, "alice")
	a := f.author(t, "Ursula K. Le Guin")
	g := f.genre(t, "Sci-Fi")
	b1 := f.book(t, "The Dispossessed", a.ID, &g.ID, 0)
	b2 := f.book(t, "The Left Hand of Darkness", a.ID, &g.ID, 0)

	_, err := f.repo.BorrowBook(f.ctx, u.ID, b1.ID)
	require.NoError(t, err)
	_, err = f.repo.BorrowBook(f.ctx, u.ID, b2.ID)
	require.NoError(t, err)
	_, err = f.repo.ReturnBook(f.ctx, u.ID, b1.ID)
	require.NoError(t, err)

	rows, err := f.repo.ListMyOpenLoans(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "The Left Hand of Darkness", rows[0].Book.Title)
	assert.Equal(t, "Ursula K. Le Guin", rows[0].Book.Author)
	require.NotNil(t, rows[0].Book.Genre)
	assert.Equal(t, "Sci-Fi", *rows[0].Book.Genre)
	assert.False(t, rows[0].BorrowedAt.IsZero())
}

func Test_ListBooks_Filters(t *testing.T) {
	f := setupRepo(t)
	u := f.user(t, "alice")
	herbert := f.author(t, "Frank Herbert")
	tolkien := f.author(t, "J.R.R. Tolkien")
	scifi := f.genre(t, "Sci-Fi")
	fantasy := f.genre(t, "Fantasy")
	dune := f.book(t, "Dune", herbert.ID, &scifi.ID, 0)
	f.book(t, "The Hobbit", tolkien.ID, &fantasy.ID, 0)

	_, err := f.repo.BorrowBook(f.ctx, u.ID, dune.ID)
	require.NoError(t, err)

	all, err := f.repo.ListBooks(f.ctx, db.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byAuthor, err := f.repo.ListBooks(f.ctx, db.BookFilter{AuthorName: "Frank Herbert"})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Dune", byAuthor[0].Title)
	assert.False(t, byAuthor[0].IsAvailable)
	assert.Equal(t, 1, byAuthor[0].ReadCount)

	byGenre, err := f.repo.ListBooks(f.ctx, db.BookFilter{GenreName: "Fantasy"})
	require.NoError(t, err)
	require.Len(t, byGenre, 1)
	assert.Equal(t, "The Hobbit", byGenre[0].Title)

	avail := true
	available, err := f.repo.ListBooks(f.ctx, db.BookFilter{Available: &avail})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "The Hobbit", available[0].Title)
}

func Test_RecommendBooks_FromGenreHistory(t *testing.T) {
	f := setupRepo(t)
	u := f.user(t, "alice")
	a := f.author(t, "Various")
	scifi := f.genre(t, "Sci-Fi")
	fantasy := f.genre(t, "Fantasy")

	dune := f.book(t, "Dune", a.ID, &scifi.ID, 10)
	hyperion := f.book(t, "Hyperion", a.ID, &scifi.ID, 3)
	neuromancer := f.book(t, "Neuromancer", a.ID, &scifi.ID, 7)
	f.book(t, "The Hobbit", a.ID, &fantasy.ID, 99)

	_, err := f.repo.BorrowBook(f.ctx, u.ID, dune.ID)
	require.NoError(t, err)
	_, err = f.repo.ReturnBook(f.ctx, u.ID, dune.ID)
	require.NoError(t, err)

	rows, err := f.repo.RecommendBooks(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2, "only unborrowed Sci-Fi books qualify")
	// read_count descending
	assert.Equal(t, neuromancer.ID, rows[0].ID)
	assert.Equal(t, hyperion.ID, rows[1].ID)
	for _, row := range rows {
		assert.NotEqual(t, dune.ID, row.ID, "never recommend a borrowed book")
	}
}

func Test_RecommendBooks_NoHistoryFallsBackToAvailable(t *testing.T) {
	f := setupRepo(t)
	fresh := f.user(t, "fresh")
	other := f.user(t, "other")
	a := f.author(t, "Various")
	g := f.genre(t, "Sci-Fi")

	taken := f.book(t, "Taken", a.ID, &g.ID, 50)
	f.book(t, "B1", a.ID, &g.ID, 5)
	f.book(t, "B2", a.ID, nil, 9)

	_, err := f.repo.BorrowBook(f.ctx, other.ID, taken.ID)
	require.NoError(t, err)

	rows, err := f.repo.RecommendBooks(f.ctx, fresh.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.True(t, row.IsAvailable, "fallback must only contain available books")
	}
	assert.Equal(t, "B2", rows[0].Title)
	assert.Equal(t, "B1", rows[1].Title)
}

func Test_RecommendBooks_CapsAtFive(t *testing.T) {
	f := setupRepo(t)
	fresh := f.user(t, "fresh")
	a := f.author(t, "Various")
	for i := 0; i < 7; i++ {
		f.book(t, "Book "+string(rune('A'+i)), a.ID, nil, i)
	}

	rows, err := f.repo.RecommendBooks(f.ctx, fresh.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func Test_Reviews(t *testing.T) {
	f := setupRepo(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	a := f.author(t, "Frank Herbert")
	b := f.book(t, "Dune", a.ID, nil, 0)

	comment := "a classic"
	rv, err := f.repo.CreateReview(f.ctx, alice.ID, b.ID, 5, &comment)
	require.NoError(t, err)
	assert.False(t, rv.CreatedAt.IsZero())

	// one review per (user, book)
	_, err = f.repo.CreateReview(f.ctx, alice.ID, b.ID, 3, nil)
	assert.ErrorIs(t, err, db.ErrDuplicateReview)

	// another user may review the same book
	_, err = f.repo.CreateReview(f.ctx, bob.ID, b.ID, 2, nil)
	require.NoError(t, err)

	rows, err := f.repo.ListReviews(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].User)
	assert.Equal(t, 5, rows[0].Rating)
	require.NotNil(t, rows[0].Comment)
	assert.Equal(t, "a classic", *rows[0].Comment)
	assert.Equal(t, "bob", rows[1].User)
	assert.Nil(t, rows[1].Comment)
}

func Test_DeleteAuthor_CascadesToBooks(t *testing.T) {
	f := setupRepo(t)
	a := f.author(t, "Doomed")
	b := f.book(t, "Gone Soon", a.ID, nil, 0)

	require.NoError(t, f.repo.DeleteAuthor(f.ctx, a.ID))
	_, err := f.repo.FindBookByID(f.ctx, b.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, f.repo.DeleteAuthor(f.ctx, uuid.NewString()), gorm.ErrRecordNotFound)
}

func Test_DeleteGenre_NullsBookGenre(t *testing.T) {
	f := setupRepo(t)
	a := f.author(t, "Various")
	g := f.genre(t, "Short-Lived")
	b := f.book(t, "Survivor", a.ID, &g.ID, 0)

	require.NoError(t, f.repo.DeleteGenre(f.ctx, g.ID))
	got := f.reload(t, b.ID)
	assert.Nil(t, got.GenreID)
}

func Test_CreateUser_DuplicateUsername(t *testing.T) {
	f := setupRepo(t)
	f.user(t, "alice")

	err := f.repo.CreateUser(f.ctx, &models.User{ID: uuid.NewString(), Username: "alice", PasswordHash: "x"})
	assert.True(t, errors.Is(err, db.ErrUsernameTaken))
}
