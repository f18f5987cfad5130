package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-api/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-api/internal/repositories/mocks"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type storeMocks struct {
	store     *mocks.Store
	users     *mocks.UserRepository
	products  *mocks.ProductRepository
	carts     *mocks.CartRepository
	orders    *mocks.OrderRepository
	wishlists *mocks.WishlistRepository
}

// newStoreMocks wires every repository accessor. Transactions are opt-in through expectTx.
func newStoreMocks() *storeMocks {
	m := &storeMocks{
		store:     new(mocks.Store),
		users:     new(mocks.UserRepository),
		products:  new(mocks.ProductRepository),
		carts:     new(mocks.CartRepository),
		orders:    new(mocks.OrderRepository),
		wishlists: new(mocks.WishlistRepository),
	}

	m.store.On("Users").Return(m.users).Maybe()
	m.store.On("Products").Return(m.products).Maybe()
	m.store.On("Carts").Return(m.carts).Maybe()
	m.store.On("Orders").Return(m.orders).Maybe()
	m.store.On("Wishlists").Return(m.wishlists).Maybe()

	return m
}

// expectTx runs the callback against the same mocked store, like a nested transaction would.
func (m *storeMocks) expectTx(isolation sql.IsolationLevel) *mock.Call {
	return m.store.On("ExecTx", mock.Anything, isolation, mock.Anything).
		Return(func(_ context.Context, _ sql.IsolationLevel, fn func(repository.Store) error) error {
			return fn(m.store)
		})
}

func (m *storeMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.store.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.products.AssertExpectations(t)
	m.carts.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.wishlists.AssertExpectations(t)
}

func assertAppError(t *testing.T, err error, code string, message string) {
	t.Helper()

	var appErr *appErrors.AppError
	if assert.True(t, errors.As(err, &appErr), "expected an AppError, got %v", err) {
		assert.Equal(t, code, appErr.Code)
		if message != "" {
			assert.Equal(t, message, appErr.Message)
		}
	}
}

func newProduct(id int64, name string, price string, stock int) *models.Product {
	return &models.Product{
		ID:       id,
		Name:     name,
		Slug:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
}

var (
	errSerialization = &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}
	errForeignKey    = &pq.Error{Code: "23503", Message: "insert or update violates foreign key constraint"}
	errOutOfRange    = &pq.Error{Code: "22003", Message: "numeric field overflow"}
)
