package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	repository "github.com/aaravmahajanofficial/storefront-api/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCartRepo(db)
	ctx := context.Background()

	cartColumns := []string{"id", "user_id", "created_at", "updated_at"}
	itemColumns := append(append([]string{}, productRowColumns...), "id", "cart_id", "product_id", "quantity")

	getCartSQL := regexp.QuoteMeta(`SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1`)
	upsertSQL := regexp.QuoteMeta(`INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING quantity`)
	listItemsSQL := regexp.QuoteMeta(`FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`)

	t.Run("GetCartByUserID_Success", func(t *testing.T) {
		// Arrange
		now := time.Now().UTC().Truncate(time.Second)
		cartID, userID := uuid.New(), uuid.New()

		mock.ExpectQuery(getCartSQL).WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(cartColumns).AddRow(cartID.String(), userID.String(), now, now))

		// Act
		cart, err := repo.GetCartByUserID(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cartID, cart.ID)
		assert.Equal(t, userID, cart.UserID)
		assert.Equal(t, now, cart.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("GetCartByUserID_NotFound", func(t *testing.T) {
		// Arrange
		userID := uuid.New()
		mock.ExpectQuery(getCartSQL).WithArgs(userID).WillReturnError(sql.ErrNoRows)

		// Act
		cart, err := repo.GetCartByUserID(ctx, userID)

		// Assert
		require.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, cart)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("LockCartByUserID_UsesRowLock", func(t *testing.T) {
		// Arrange
		now := time.Now().UTC().Truncate(time.Second)
		cartID, userID := uuid.New(), uuid.New()

		mock.ExpectQuery(getCartSQL + `\s+FOR UPDATE`).WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(cartColumns).AddRow(cartID.String(), userID.String(), now, now))

		// Act
		cart, err := repo.LockCartByUserID(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cartID, cart.ID)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("CreateCartIfNotExists_Success", func(t *testing.T) {
		// Arrange
		userID := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`)).WithArgs(userID).WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.CreateCartIfNotExists(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("UpsertItem_ReturnsMergedQuantity", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		mock.ExpectQuery(upsertSQL).WithArgs(cartID, int64(7), 2).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(5))

		// Act
		quantity, err := repo.UpsertItem(ctx, cartID, 7, 2)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 5, quantity)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("UpsertItem_DBError", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		dbError := errors.New("insert failed")
		mock.ExpectQuery(upsertSQL).WithArgs(cartID, int64(7), 1).WillReturnError(dbError)

		// Act
		_, err := repo.UpsertItem(ctx, cartID, 7, 1)

		// Assert
		require.ErrorIs(t, err, dbError)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("SetItemQuantity_Success", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE cart_items
		SET quantity = $1
		WHERE cart_id = $2 AND product_id = $3`)).
			WithArgs(4, cartID, int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.SetItemQuantity(ctx, cartID, 7, 4)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("SetItemQuantity_MissingLine", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE cart_items`)).
			WithArgs(4, cartID, int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.SetItemQuantity(ctx, cartID, 8, 4)

		// Assert
		require.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("RemoveItem_MissingLine", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`)).
			WithArgs(cartID, int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.RemoveItem(ctx, cartID, 8)

		// Assert
		require.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("ListItems_JoinsProducts", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		p1 := sampleProduct(7, "2.50", 10)
		p2 := sampleProduct(9, "4.00", 1)

		rows := sqlmock.NewRows(itemColumns).
			AddRow(append(productValues(p1), int64(1), cartID.String(), p1.ID, 3)...).
			AddRow(append(productValues(p2), int64(2), cartID.String(), p2.ID, 1)...)
		mock.ExpectQuery(listItemsSQL).WithArgs(cartID).WillReturnRows(rows)

		// Act
		items, err := repo.ListItems(ctx, cartID)

		// Assert
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(7), items[0].ProductID)
		assert.Equal(t, 3, items[0].Quantity)
		assert.Equal(t, cartID, items[0].CartID)
		require.NotNil(t, items[0].Product)
		assert.Equal(t, "2.5", items[0].Product.Price.String())
		assert.Equal(t, int64(9), items[1].Product.ID)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("ListItems_EmptyCart", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		mock.ExpectQuery(listItemsSQL).WithArgs(cartID).WillReturnRows(sqlmock.NewRows(itemColumns))

		// Act
		items, err := repo.ListItems(ctx, cartID)

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("ListItemsForCheckout_LocksRows", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		mock.ExpectQuery(listItemsSQL + regexp.QuoteMeta(`
		FOR UPDATE OF ci FOR SHARE OF p`)).WithArgs(cartID).WillReturnRows(sqlmock.NewRows(itemColumns))

		// Act
		items, err := repo.ListItemsForCheckout(ctx, cartID)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("ClearItems_ReturnsDeletedCount", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE cart_id = $1`)).
			WithArgs(cartID).WillReturnResult(sqlmock.NewResult(0, 3))

		// Act
		deleted, err := repo.ClearItems(ctx, cartID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("TouchCart_Success", func(t *testing.T) {
		// Arrange
		cartID := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE carts SET updated_at = NOW() WHERE id = $1`)).
			WithArgs(cartID).WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.TouchCart(ctx, cartID)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}
