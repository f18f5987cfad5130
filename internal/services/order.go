package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront-api/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront-api/internal/errors"
	"github.com/aaravmahajanofficial/storefront-api/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-api/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const confirmationTimeout = 5 * time.Second

type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type CheckoutOptions struct {
	// DecrementStock subtracts ordered quantities from product stock inside the checkout transaction.
	DecrementStock bool
}

type orderService struct {
	store    repository.Store
	notifier NotificationService
	opts     CheckoutOptions
}

// NewOrderService accepts a nil notifier, confirmation emails are then skipped.
func NewOrderService(store repository.Store, notifier NotificationService, opts CheckoutOptions) OrderService {
	return &orderService{store: store, notifier: notifier, opts: opts}
}

// Checkout turns the user's cart into a pending order and empties the cart, all in one serializable transaction.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx).With(slog.String("userID", userID.String()))

	var order *models.Order

	err := s.store.ExecTx(ctx, sql.LevelSerializable, func(tx repository.Store) error {

		cart, err := tx.Carts().LockCartByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.EmptyCartError("Cart is empty")
			}

			return err
		}

		items, err := tx.Carts().ListItemsForCheckout(ctx, cart.ID)
		if err != nil {
			return err
		}

		if len(items) == 0 {
			return appErrors.EmptyCartError("Cart is empty")
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))

		for _, item := range items {
			// the same price goes into the total and the snapshot
			price := item.Product.Price
			total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))

			orderItems = append(orderItems, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Quantity:    item.Quantity,
				Price:       price,
			})
		}

		if s.opts.DecrementStock {
			for _, item := range items {
				ok, err := tx.Products().DecrementStock(ctx, item.ProductID, item.Quantity)
				if err != nil {
					return err
				}

				if !ok {
					return insufficientStock(item.Product)
				}
			}
		}

		order = &models.Order{
			UserID:     userID,
			TotalPrice: total,
			Status:     models.OrderStatusPending,
			Items:      orderItems,
		}

		if err := tx.Orders().CreateOrder(ctx, order); err != nil {
			return err
		}

		if _, err := tx.Carts().ClearItems(ctx, cart.ID); err != nil {
			return err
		}

		return tx.Carts().TouchCart(ctx, cart.ID)
	})
	if err != nil {
		err = checkoutError(err)
		logger.Warn("Checkout failed", slog.Any("error", err))
		return nil, err
	}

	metrics.RecordCheckout(metrics.CheckoutSuccess)

	logger.Info("Checkout completed",
		slog.String("orderId", order.ID.String()),
		slog.String("total", order.TotalPrice.StringFixed(2)),
		slog.Int("items", len(order.Items)))

	s.sendConfirmation(ctx, logger, order)

	return order, nil
}

// checkoutError maps a failed checkout transaction to an AppError and records its outcome.
func checkoutError(err error) error {

	if appErr, ok := appErrors.IsAppError(err); ok {
		if appErr.Code == appErrors.ErrCodeEmptyCart {
			metrics.RecordCheckout(metrics.CheckoutEmptyCart)
		} else {
			metrics.RecordCheckout(metrics.CheckoutError)
		}

		return appErr
	}

	if repository.IsSerializationFailure(err) {
		metrics.RecordCheckout(metrics.CheckoutConflict)
		return appErrors.ConflictError("Cart was modified concurrently, please retry").WithError(err)
	}

	if repository.IsNumericOutOfRange(err) {
		metrics.RecordCheckout(metrics.CheckoutError)
		return appErrors.ValidationError("Order total exceeds the supported amount").WithError(err)
	}

	metrics.RecordCheckout(metrics.CheckoutError)

	return appErrors.DatabaseError("Failed to checkout cart").WithError(err)
}

// sendConfirmation never fails the checkout, the order is already committed.
func (s *orderService) sendConfirmation(ctx context.Context, logger *slog.Logger, order *models.Order) {

	if s.notifier == nil {
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), confirmationTimeout)
	defer cancel()

	if err := s.notifier.SendOrderConfirmation(sendCtx, order); err != nil {
		logger.Warn("Failed to send order confirmation", slog.String("orderId", order.ID.String()), slog.Any("error", err))
	}
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.store.Orders().GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	if order.UserID != userID {
		return nil, appErrors.ForbiddenError("You don't have permission to access this order")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	orders, total, err := s.store.Orders().ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	current, err := s.store.Orders().GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	if !current.Status.CanTransitionTo(status) {
		return nil, appErrors.ValidationError(fmt.Sprintf("Cannot change order status from %s to %s", current.Status, status))
	}

	order, err := s.store.Orders().UpdateOrderStatus(ctx, orderID, current.Status, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ConflictError("Order status was changed concurrently, please retry").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	return order, nil
}
