package services

import (
	"errors"
	"testing"
	"time"

	"bookhaven/internal/database"
	"bookhaven/internal/models"
	"bookhaven/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	db       *database.DB
	books    *repositories.BookRepository
	users    *repositories.UserRepository
	orders   *repositories.OrderRepository
	auth     *AuthService
	email    *MockEmailService
	payments *MockPaymentService
	checkout *CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db, err := database.NewConnection(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	books := repositories.NewBookRepository(db.DB)
	users := repositories.NewUserRepository(db.DB)
	orders := repositories.NewOrderRepository(db.DB)
	auth := NewAuthService(users, "test-secret", 30*time.Minute, 30*time.Minute)
	email := NewMockEmailService()
	payments := NewMockPaymentService(nil)

	return &checkoutFixture{
		db:       db,
		books:    books,
		users:    users,
		orders:   orders,
		auth:     auth,
		email:    email,
		payments: payments,
		checkout: NewCheckoutService(books, orders, payments, auth, email),
	}
}

func (f *checkoutFixture) seedBook(t *testing.T, title string, price int) *models.Book {
	t.Helper()

	book, err := f.books.Create(&models.BookCreateRequest{
		Title:           title,
		Description:     "test",
		Language:        "English",
		Price:           price,
		PublicationDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return book
}

func (f *checkoutFixture) seedUser(t *testing.T, username, email string) *models.User {
	t.Helper()

	user, err := f.auth.Register(&models.UserCreateRequest{
		Username: username,
		Email:    email,
		Password: "valid-password-123",
	})
	require.NoError(t, err)
	return user
}

func TestBeginCheckout_ReportsMissingBooks(t *testing.T) {
	f := newCheckoutFixture(t)
	dune := f.seedBook(t, "Dune", 1299)
	foundation := f.seedBook(t, "Foundation", 999)

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{
		BookIDs: []int{dune.ID, foundation.ID, 999},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.PaymentOrderID)
	assert.Len(t, session.Books, 2)
	assert.Equal(t, 2298, session.TotalPrice)
	assert.Equal(t, []int{999}, session.MissingBookIDs)
	assert.NotEmpty(t, session.ApproveURL)
}

func TestBeginCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.BeginCheckout(&models.ShoppingCart{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.checkout.BeginCheckout(&models.ShoppingCart{BookIDs: []int{999}})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBeginCheckout_CollapsesDuplicates(t *testing.T) {
	f := newCheckoutFixture(t)
	dune := f.seedBook(t, "Dune", 1299)

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{
		BookIDs: []int{dune.ID, dune.ID, dune.ID},
	})
	require.NoError(t, err)
	assert.Len(t, session.Books, 1)
	assert.Equal(t, 1299, session.TotalPrice)
}

func TestBeginCheckout_SkipsFreeBooks(t *testing.T) {
	f := newCheckoutFixture(t)
	free := f.seedBook(t, "Freebie", 0)
	dune := f.seedBook(t, "Dune", 1299)

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{
		BookIDs: []int{free.ID, dune.ID},
	})
	require.NoError(t, err)
	require.Len(t, session.Books, 1)
	assert.Equal(t, "Dune", session.Books[0].Title)

	_, err = f.checkout.BeginCheckout(&models.ShoppingCart{BookIDs: []int{free.ID}})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCompleteCheckout_GuestGetsBuyerToken(t *testing.T) {
	f := newCheckoutFixture(t)
	dune := f.seedBook(t, "Dune", 1299)
	foundation := f.seedBook(t, "Foundation", 999)

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{
		BookIDs: []int{dune.ID, foundation.ID},
	})
	require.NoError(t, err)

	result, err := f.checkout.CompleteCheckout(session.PaymentOrderID, nil)
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", result.Status)
	assert.Nil(t, result.Order)
	require.NotEmpty(t, result.BuyerToken)

	claims, err := f.auth.ParseAnonBuyerToken(result.BuyerToken)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{dune.ID, foundation.ID}, claims.BookIDs)

	// Nothing persisted for the guest beyond the ledger entry.
	_, err = f.orders.GetByPaymentOrderID(session.PaymentOrderID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestCompleteCheckout_UserGetsPersistedOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	dune := f.seedBook(t, "Dune", 1299)
	foundation := f.seedBook(t, "Foundation", 999)
	user := f.seedUser(t, "frank.h", "frank@example.com")

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{
		BookIDs: []int{dune.ID, foundation.ID},
	})
	require.NoError(t, err)

	result, err := f.checkout.CompleteCheckout(session.PaymentOrderID, user)
	require.NoError(t, err)

	assert.Empty(t, result.BuyerToken)
	require.NotNil(t, result.Order)
	assert.Equal(t, 2298, result.Order.TotalPrice)
	assert.True(t, result.Order.Completed)
	assert.Equal(t, session.PaymentOrderID, result.Order.PaymentOrderID)

	owned, err := f.users.GetOwnedBookIDs(user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{dune.ID, foundation.ID}, owned)

	require.Len(t, f.email.Sent, 1)
	assert.Equal(t, "frank@example.com", f.email.Sent[0].To)
}

func TestCompleteCheckout_ReplayRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	dune := f.seedBook(t, "Dune", 1299)
	user := f.seedUser(t, "frank.h", "")

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{BookIDs: []int{dune.ID}})
	require.NoError(t, err)

	_, err = f.checkout.CompleteCheckout(session.PaymentOrderID, user)
	require.NoError(t, err)

	_, err = f.checkout.CompleteCheckout(session.PaymentOrderID, user)
	assert.ErrorIs(t, err, models.ErrAlreadyFulfilled)

	_, err = f.checkout.CompleteCheckout(session.PaymentOrderID, nil)
	assert.ErrorIs(t, err, models.ErrAlreadyFulfilled)

	history, err := f.orders.GetByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCompleteCheckout_UnknownOrder(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.CompleteCheckout("NO-SUCH-ORDER", nil)
	assert.Error(t, err)
}

func TestCompleteCheckout_TitleMatchPicksFirst(t *testing.T) {
	f := newCheckoutFixture(t)
	first := f.seedBook(t, "Dune", 1299)
	f.seedBook(t, "Dune", 1499) // same title, later id

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{BookIDs: []int{first.ID}})
	require.NoError(t, err)

	result, err := f.checkout.CompleteCheckout(session.PaymentOrderID, nil)
	require.NoError(t, err)
	require.Len(t, result.Books, 1)
	assert.Equal(t, first.ID, result.Books[0].ID)
}

func TestCompleteCheckout_SkipsVanishedBook_Guest(t *testing.T) {
	f := newCheckoutFixture(t)
	dune := f.seedBook(t, "Dune", 1299)
	foundation := f.seedBook(t, "Foundation", 999)

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{
		BookIDs: []int{dune.ID, foundation.ID},
	})
	require.NoError(t, err)

	// The catalog changes between approval and capture.
	require.NoError(t, f.books.Delete(foundation.ID))

	result, err := f.checkout.CompleteCheckout(session.PaymentOrderID, nil)
	require.NoError(t, err)
	require.Len(t, result.Books, 1)
	assert.Equal(t, "Dune", result.Books[0].Title)

	claims, err := f.auth.ParseAnonBuyerToken(result.BuyerToken)
	require.NoError(t, err)
	assert.Equal(t, []int{dune.ID}, claims.BookIDs)
}

func TestCompleteCheckout_SkipsVanishedBook_User(t *testing.T) {
	f := newCheckoutFixture(t)
	dune := f.seedBook(t, "Dune", 1299)
	foundation := f.seedBook(t, "Foundation", 999)
	user := f.seedUser(t, "frank.h", "")

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{
		BookIDs: []int{dune.ID, foundation.ID},
	})
	require.NoError(t, err)

	require.NoError(t, f.books.Delete(foundation.ID))

	result, err := f.checkout.CompleteCheckout(session.PaymentOrderID, user)
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Equal(t, 1299, result.Order.TotalPrice)

	owned, err := f.users.GetOwnedBookIDs(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{dune.ID}, owned)
}

// brokenSigner fails token issuance, as when the signing key is unavailable.
type brokenSigner struct {
	*AuthService
}

func (b *brokenSigner) IssueAnonBuyerToken([]int) (string, error) {
	return "", errors.New("signing key unavailable")
}

func TestCompleteCheckout_GuestRetryAfterTokenFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	dune := f.seedBook(t, "Dune", 1299)

	session, err := f.checkout.BeginCheckout(&models.ShoppingCart{BookIDs: []int{dune.ID}})
	require.NoError(t, err)

	failing := NewCheckoutService(f.books, f.orders, f.payments, &brokenSigner{f.auth}, f.email)
	_, err = failing.CompleteCheckout(session.PaymentOrderID, nil)
	require.Error(t, err)

	// The failed attempt must not mark the order fulfilled.
	result, err := f.checkout.CompleteCheckout(session.PaymentOrderID, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.BuyerToken)
}
