package commerce

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-commerce-core/cache"
)

// OrderService wraps the order repository with cache-aware reads and
// cache-invalidating writes. Order creation is the one cross-entity
// transaction in the system: it snapshots the product price and decrements
// stock as a single atomic unit.
type OrderService struct {
	orders   OrderRepository
	products ProductRepository
	tx       Transactor
	cache    cache.TaggedCache
	log      logrus.FieldLogger
}

// NewOrderService wires an order service.
func NewOrderService(orders OrderRepository, products ProductRepository, tx Transactor, store cache.TaggedCache, log logrus.FieldLogger) *OrderService {
	return &OrderService{orders: orders, products: products, tx: tx, cache: store, log: log}
}

// ListAll returns every order joined with its product, served through the cache.
func (s *OrderService) ListAll(ctx context.Context) ([]Order, error) {
	return cache.Remember(ctx, s.cache, AllOrdersKey, []string{OrdersTag}, func(ctx context.Context) ([]Order, error) {
		return s.orders.List(ctx)
	})
}

// Create places an order as a single atomic unit:
//
//  1. look up the referenced product (ErrProductNotFound when absent),
//  2. snapshot the unit price and compute the total,
//  3. default the order date to now when not supplied,
//  4. insert the order record,
//  5. decrement the product stock with a guarded conditional update
//     (ErrInsufficientStock when fewer units remain than requested).
//
// All five steps commit or roll back together; no partial state is ever
// visible to other readers. The affected cache tags are flushed only after
// the transaction has committed, so a racing read cannot repopulate the cache
// with pre-write data that would then never be invalidated.
func (s *OrderService) Create(ctx context.Context, data OrderData) (*Order, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	var order *Order
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		product, err := s.products.FindTx(ctx, tx, data.ProductID)
		if err != nil {
			return fmt.Errorf("find product %d: %w", data.ProductID, err)
		}
		if product == nil {
			return ErrProductNotFound
		}

		orderDate := time.Now()
		if data.OrderDate != nil {
			orderDate = *data.OrderDate
		}

		order = &Order{
			ProductID:     product.ID,
			CustomerName:  data.CustomerName,
			CustomerEmail: data.CustomerEmail,
			Quantity:      data.Quantity,
			UnitPrice:     product.Price,
			TotalPrice:    product.Price.Mul(decimal.NewFromInt(int64(data.Quantity))),
			Status:        data.Status,
			OrderDate:     orderDate,
		}
		if err := s.orders.CreateTx(ctx, tx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		decremented, err := s.products.DecrementStockTx(ctx, tx, product.ID, data.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock for product %d: %w", product.ID, err)
		}
		if !decremented {
			return ErrInsufficientStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.flush(ctx, OrdersTag, ProductTag(order.ProductID))
	return s.orders.FindWithProduct(ctx, order.ID)
}

// GetByID returns the order with its product, or (nil, nil) when it does not
// exist. The absent result is cached too.
func (s *OrderService) GetByID(ctx context.Context, id int64) (*Order, error) {
	return cache.Remember(ctx, s.cache, OrderCacheKey(id), OrderCacheTags(id), func(ctx context.Context) (*Order, error) {
		return s.orders.FindWithProduct(ctx, id)
	})
}

// Update applies the mutable subset of an order: customer name, customer
// email and status. Quantity, unit price, total price and product id are
// immutable after creation and silently ignored when supplied. It returns the
// refreshed order, or (nil, nil) when it does not exist.
//
// The write runs inside a transaction even though it touches one entity, so
// the flush ordering discipline matches Create.
func (s *OrderService) Update(ctx context.Context, id int64, data OrderUpdate) (*Order, error) {
	var order *Order
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		found, err := s.orders.FindWithProductTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("find order %d: %w", id, err)
		}
		if found == nil {
			return nil
		}

		if data.CustomerName != nil {
			found.CustomerName = *data.CustomerName
		}
		if data.CustomerEmail != nil {
			found.CustomerEmail = *data.CustomerEmail
		}
		if data.Status != nil {
			found.Status = *data.Status
		}

		if err := s.orders.UpdateTx(ctx, tx, found); err != nil {
			return fmt.Errorf("update order %d: %w", id, err)
		}
		order = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	s.flush(ctx, OrdersTag, OrderTag(id), ProductTag(order.ProductID))
	return s.orders.FindWithProduct(ctx, id)
}

// Delete removes the order. It reports false when no such order exists.
// Deleting an order does not restock the product: the decrement is not
// compensated.
func (s *OrderService) Delete(ctx context.Context, id int64) (bool, error) {
	var (
		deleted   bool
		productID int64
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		order, err := s.orders.FindWithProductTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("find order %d: %w", id, err)
		}
		if order == nil {
			return nil
		}
		productID = order.ProductID

		deleted, err = s.orders.DeleteTx(ctx, tx, order)
		if err != nil {
			return fmt.Errorf("delete order %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		s.flush(ctx, OrdersTag, OrderTag(id), ProductTag(productID))
	}
	return deleted, nil
}

func (s *OrderService) flush(ctx context.Context, tags ...string) {
	if err := s.cache.FlushTags(ctx, tags...); err != nil {
		s.log.WithError(err).WithField("tags", tags).Warn("order cache flush failed")
		return
	}
	s.log.WithField("tags", tags).Debug("order cache flushed")
}
