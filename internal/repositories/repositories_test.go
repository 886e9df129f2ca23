package repositories

import (
	"errors"
	"testing"
	"time"

	"bookhaven/internal/database"
	"bookhaven/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewConnection(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db
}

func seedBook(t *testing.T, repo *BookRepository, title string, price int) *models.Book {
	t.Helper()

	book, err := repo.Create(&models.BookCreateRequest{
		Title:           title,
		Description:     "test book",
		Language:        "English",
		Price:           price,
		PublicationDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return book
}

func seedUser(t *testing.T, repo *UserRepository, username string) *models.User {
	t.Helper()

	user, err := repo.Create(username, username+"@example.com", "not-a-real-hash")
	require.NoError(t, err)
	return user
}

func TestBookRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db.DB)
	authors := NewAuthorRepository(db.DB)
	genres := NewGenreRepository(db.DB)

	author, err := authors.Create(&models.AuthorCreateRequest{Name: "Frank Herbert"})
	require.NoError(t, err)
	genre, err := genres.Create(&models.GenreCreateRequest{Name: "Science Fiction"})
	require.NoError(t, err)

	created, err := books.Create(&models.BookCreateRequest{
		Title:           "Dune",
		Description:     "Desert planet epic",
		Language:        "English",
		Price:           1299,
		PublicationDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		AuthorIDs:       []int{author.ID},
		GenreIDs:        []int{genre.ID},
	})
	require.NoError(t, err)

	got, err := books.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 1299, got.Price)
	require.Len(t, got.Authors, 1)
	assert.Equal(t, "Frank Herbert", got.Authors[0].Name)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "Science Fiction", got.Genres[0].Name)
	assert.Nil(t, got.AvgRating)
}

func TestBookRepository_CreateRejectsUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db.DB)

	_, err := books.Create(&models.BookCreateRequest{
		Title:           "Orphan",
		Price:           500,
		PublicationDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		AuthorIDs:       []int{999},
	})
	assert.ErrorIs(t, err, models.ErrAuthorNotFound)
}

func TestBookRepository_GetByIDs_SkipsMissing(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db.DB)

	dune := seedBook(t, books, "Dune", 1299)
	foundation := seedBook(t, books, "Foundation", 999)

	got, err := books.GetByIDs([]int{dune.ID, foundation.ID, 999})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestBookRepository_Search(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db.DB)

	seedBook(t, books, "Dune", 1299)
	seedBook(t, books, "Dune Messiah", 1099)
	seedBook(t, books, "Foundation", 999)

	results, err := books.Search(BookSearchFilters{Title: "Dune"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	maxPrice := 1000
	results, err = books.Search(BookSearchFilters{PriceMax: &maxPrice})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Foundation", results[0].Title)
}

func TestBookRepository_Update(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db.DB)

	book := seedBook(t, books, "Dune", 1299)

	newPrice := 1499
	updated, err := books.Update(book.ID, &models.BookUpdateRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 1499, updated.Price)
	assert.Equal(t, "Dune", updated.Title)
}

func TestBookRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db.DB)

	book := seedBook(t, books, "Dune", 1299)
	require.NoError(t, books.Delete(book.ID))

	_, err := books.GetByID(book.ID)
	assert.ErrorIs(t, err, models.ErrBookNotFound)
	assert.ErrorIs(t, books.Delete(book.ID), models.ErrBookNotFound)
}

func TestAuthorRepository_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	authors := NewAuthorRepository(db.DB)

	_, err := authors.Create(&models.AuthorCreateRequest{Name: "Frank Herbert"})
	require.NoError(t, err)

	_, err = authors.Create(&models.AuthorCreateRequest{Name: "Frank Herbert"})
	assert.ErrorIs(t, err, models.ErrDuplicateEntry)
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db.DB)

	user := seedUser(t, users, "frank.h")
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)

	byName, err := users.GetByUsername("frank.h")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = users.Create("frank.h", "", "another-hash")
	assert.ErrorIs(t, err, models.ErrDuplicateEntry)

	_, err = users.GetByUsername("nobody")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestReviewRepository_UpsertMarksEdited(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db.DB)
	users := NewUserRepository(db.DB)
	reviews := NewReviewRepository(db.DB)

	book := seedBook(t, books, "Dune", 1299)
	user := seedUser(t, users, "frank.h")

	first, err := reviews.Upsert(user.ID, book.ID, &models.ReviewCreateRequest{Rating: 5, Comment: "Excellent"})
	require.NoError(t, err)
	assert.False(t, first.Edited)

	second, err := reviews.Upsert(user.ID, book.ID, &models.ReviewCreateRequest{Rating: 4, Comment: "Still great"})
	require.NoError(t, err)
	assert.True(t, second.Edited)
	assert.Equal(t, 4, second.Rating)

	listed, err := reviews.ListByBook(book.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "frank.h", listed[0].User.Username)

	got, err := books.GetByID(book.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AvgRating)
	assert.InDelta(t, 4.0, *got.AvgRating, 0.001)
}

func TestOrderRepository_CreateFulfilled(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db.DB)
	users := NewUserRepository(db.DB)
	orders := NewOrderRepository(db.DB)

	dune := seedBook(t, books, "Dune", 1299)
	foundation := seedBook(t, books, "Foundation", 999)
	user := seedUser(t, users, "frank.h")

	order, err := orders.CreateFulfilled(user.ID, "PAYPAL-123", []*models.Book{dune, foundation})
	require.NoError(t, err)
	assert.Equal(t, 2298, order.TotalPrice)
	assert.True(t, order.Completed)
	assert.Regexp(t, `^ORD-\d{8}-\d{6}$`, order.OrderNumber)

	owned, err := users.GetOwnedBookIDs(user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{dune.ID, foundation.ID}, owned)

	exists, err := orders.FulfillmentExists("PAYPAL-123")
	require.NoError(t, err)
	assert.True(t, exists)

	history, err := orders.GetByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Len(t, history[0].Books, 2)
}

func TestOrderRepository_DuplicateCaptureRejected(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db.DB)
	users := NewUserRepository(db.DB)
	orders := NewOrderRepository(db.DB)

	dune := seedBook(t, books, "Dune", 1299)
	user := seedUser(t, users, "frank.h")

	_, err := orders.CreateFulfilled(user.ID, "PAYPAL-123", []*models.Book{dune})
	require.NoError(t, err)

	_, err = orders.CreateFulfilled(user.ID, "PAYPAL-123", []*models.Book{dune})
	assert.True(t, errors.Is(err, models.ErrAlreadyFulfilled))

	history, err := orders.GetByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestOrderRepository_GuestFulfillment(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderRepository(db.DB)

	require.NoError(t, orders.RecordGuestFulfillment("PAYPAL-GUEST"))
	assert.ErrorIs(t, orders.RecordGuestFulfillment("PAYPAL-GUEST"), models.ErrAlreadyFulfilled)

	exists, err := orders.FulfillmentExists("PAYPAL-GUEST")
	require.NoError(t, err)
	assert.True(t, exists)
}
