package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/sequence"
)

// OrderStore is the persistence surface the order service needs.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByExternalID(ctx context.Context, externalID string) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, externalID string, status model.OrderStatus) error
}

// MenuStore resolves menu items so order lines can snapshot the
// current name, price and image.
type MenuStore interface {
	GetByID(ctx context.Context, id uint64) (*model.MenuItem, error)
}

// OrderPublisher announces committed orders; best-effort like the
// reservation publisher.
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error
}

// OrderService creates orders with day-scoped sequential numbers and
// menu-denormalized items, and exposes admin status updates.
type OrderService struct {
	orders    OrderStore
	menu      MenuStore
	numbers   NumberIssuer
	publisher OrderPublisher
	now       func() time.Time
}

// NewOrderService wires the service.  publisher may be nil.
func NewOrderService(orders OrderStore, menu MenuStore, numbers NumberIssuer, publisher OrderPublisher) *OrderService {
	if orders == nil || menu == nil || numbers == nil {
		panic("nil dependency passed to NewOrderService")
	}
	return &OrderService{
		orders:    orders,
		menu:      menu,
		numbers:   numbers,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// OrderItemInput is one requested line of an order.
type OrderItemInput struct {
	MenuItemID uint64 `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CreateOrderInput carries the fields of an order request.
type CreateOrderInput struct {
	CustomerName string           `json:"customer_name"`
	TableNumber  string           `json:"table_number"`
	OrderType    string           `json:"order_type"`
	Note         string           `json:"note"`
	Items        []OrderItemInput `json:"items"`
}

// Create validates and persists a new order.  The order number is
// scoped to the creation date.  Item names, prices and images are
// copied from the menu at this moment; the total is computed from
// those snapshots rather than trusted from the client.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if in.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer_name is required", ErrIncompleteRequest)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items are required", ErrIncompleteRequest)
	}
	for _, it := range in.Items {
		if it.MenuItemID == 0 || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: each item needs a menu_item_id and a positive quantity", ErrIncompleteRequest)
		}
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	var total int64
	for _, it := range in.Items {
		m, err := s.menu.GetByID(ctx, it.MenuItemID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown menu item %d", ErrIncompleteRequest, it.MenuItemID)
		}
		if err != nil {
			return nil, fmt.Errorf("menu lookup: %w", err)
		}
		items = append(items, model.OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Quantity:   it.Quantity,
			PriceCents: m.PriceCents,
			ImageURL:   m.ImageURL,
		})
		total += m.PriceCents * int64(it.Quantity)
	}

	tableNumber := in.TableNumber
	if tableNumber == "" {
		tableNumber = "-"
	}
	orderType := in.OrderType
	if orderType == "" {
		orderType = "DINE_IN"
	}

	o := &model.Order{
		ExternalID:   uuid.NewString(),
		CustomerName: in.CustomerName,
		TableNumber:  tableNumber,
		OrderType:    orderType,
		Note:         in.Note,
		TotalCents:   total,
		Status:       model.OrderWaiting,
		Items:        items,
	}

	today := s.now()
	for attempt := 0; ; attempt++ {
		num, err := s.numbers.Next(ctx, sequence.KindOrder, today)
		if err != nil {
			return nil, err
		}
		o.OrderNumber = num
		err = s.orders.Create(ctx, o)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateNumber) && attempt < numberAttempts-1 {
			continue
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	if s.publisher != nil {
		ev := queue.OrderCreatedEvent{
			ExternalID:   o.ExternalID,
			OrderNumber:  o.OrderNumber,
			CustomerName: o.CustomerName,
			TableNumber:  o.TableNumber,
			TotalCents:   o.TotalCents,
			CreatedAt:    s.now().Format(time.RFC3339),
		}
		if err := s.publisher.PublishOrderCreated(ctx, ev); err != nil {
			log.Printf("publish order.created %s: %v", o.OrderNumber, err)
		}
	}
	return o, nil
}

// Get returns an order by external ID.
func (s *OrderService) Get(ctx context.Context, externalID string) (*model.Order, error) {
	o, err := s.orders.GetByExternalID(ctx, externalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return o, err
}

// List returns all orders, newest first.
func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus sets an order's kitchen status.
func (s *OrderService) UpdateStatus(ctx context.Context, externalID string, status model.OrderStatus) error {
	if !model.ValidOrderStatus(status) {
		return fmt.Errorf("%w: unknown order status %q", ErrIncompleteRequest, status)
	}
	err := s.orders.UpdateStatus(ctx, externalID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
