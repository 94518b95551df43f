package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	db "cellar/internal/database"
	"cellar/internal/query"
	"cellar/models"
)

// ProductLookup - поиск товара владельца (db.ProductRepo)
type ProductLookup interface {
	Get(ctx context.Context, ownerID, id string) (*models.Product, error)
}

// Store - хранилище заказов (db.OrderRepo)
type Store interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, ownerID, id string) (*models.Order, error)
	Save(ctx context.Context, order *models.Order, replaceItems bool) error
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string, status models.OrderStatus, s query.Sort) ([]models.Order, error)
	Stats(ctx context.Context, ownerID string) (models.OrderStats, error)
}

// ProductNotFoundError - позиция заказа ссылается на чужой или несуществующий товар
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return "Product not found: " + e.ProductID
}

// DefaultSort - новые заказы первыми
var DefaultSort = query.Sort{Column: "order_date", Desc: true}

// Composer собирает заказы: находит товары, фиксирует цены, считает итог.
// Поиск товаров и запись заказа не объединены в транзакцию: цена товара может
// измениться между ними, в заказ попадет цена на момент поиска.
type Composer struct {
	Products ProductLookup
	Orders   Store
	Now      func() time.Time
}

func NewComposer(products ProductLookup, orders Store) *Composer {
	return &Composer{Products: products, Orders: orders, Now: time.Now}
}

func validationError(field, msg string) error {
	return &models.ValidationError{Field: field, Message: msg}
}

// resolveItems превращает запрос в позиции с ценами на текущий момент.
// Первый же ненайденный товар прерывает всю операцию
func (c *Composer) resolveItems(ctx context.Context, ownerID string, reqs []models.ItemRequest) ([]models.OrderItem, error) {
	if len(reqs) == 0 {
		return nil, validationError("items", "at least one item is required")
	}
	items := make([]models.OrderItem, 0, len(reqs))
	for i, req := range reqs {
		quantity := 1
		if req.Quantity != nil && *req.Quantity != 0 {
			quantity = *req.Quantity
		}
		if quantity < 1 {
			return nil, validationError(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}

		product, err := c.Products.Get(ctx, ownerID, req.ProductID)
		if errors.Is(err, db.ErrNotFound) {
			return nil, &ProductNotFoundError{ProductID: req.ProductID}
		}
		if err != nil {
			return nil, fmt.Errorf("resolve product %s: %w", req.ProductID, err)
		}

		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			Quantity:     quantity,
			PriceAtOrder: product.PriceOrZero(),
		})
	}
	return items, nil
}

func checkStatus(s models.OrderStatus) error {
	if !s.Valid() {
		return validationError("status", "must be one of pending, collected, cancelled")
	}
	return nil
}

// Create - новый заказ из списка (товар, количество)
func (c *Composer) Create(ctx context.Context, ownerID string, req models.CreateOrderRequest) (*models.Order, error) {
	number := strings.TrimSpace(req.OrderNumber)
	if number == "" {
		return nil, validationError("orderNumber", "is required")
	}
	status := models.StatusPending
	if req.Status != nil {
		status = *req.Status
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}

	items, err := c.resolveItems(ctx, ownerID, req.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OwnerID:     ownerID,
		OrderNumber: number,
		OrderDate:   c.Now(),
		Status:      status,
		Notes:       req.Notes,
		Items:       items,
		TotalPrice:  models.SumItems(items),
	}
	if req.OrderDate != nil {
		order.OrderDate = req.OrderDate.Time
	}

	if err := c.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"owner": ownerID,
		"order": order.ID,
		"items": len(items),
		"total": order.TotalPrice.String(),
	}).Info("order created")

	return c.Orders.Get(ctx, ownerID, order.ID)
}

// Update меняет только присланные поля. Новый список позиций заменяет старый целиком,
// цены берутся заново даже для тех же товаров
func (c *Composer) Update(ctx context.Context, ownerID, id string, req models.UpdateOrderRequest) (*models.Order, error) {
	order, err := c.Orders.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	replaceItems := req.Items != nil
	if replaceItems {
		items, err := c.resolveItems(ctx, ownerID, *req.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
		order.TotalPrice = models.SumItems(items)
	}

	if req.OrderNumber != nil {
		number := strings.TrimSpace(*req.OrderNumber)
		if number == "" {
			return nil, validationError("orderNumber", "is required")
		}
		order.OrderNumber = number
	}
	if req.OrderDate != nil {
		order.OrderDate = req.OrderDate.Time
	}
	if req.Notes.Set {
		order.Notes = req.Notes.Value
	}
	if req.Status != nil {
		if err := checkStatus(*req.Status); err != nil {
			return nil, err
		}
		order.Status = *req.Status
	}

	if err := c.Orders.Save(ctx, order, replaceItems); err != nil {
		return nil, err
	}
	return c.Orders.Get(ctx, ownerID, id)
}

func (c *Composer) Get(ctx context.Context, ownerID, id string) (*models.Order, error) {
	return c.Orders.Get(ctx, ownerID, id)
}

func (c *Composer) Delete(ctx context.Context, ownerID, id string) error {
	return c.Orders.Delete(ctx, ownerID, id)
}

// List - заказы с фильтром по статусу и общая статистика владельца
func (c *Composer) List(ctx context.Context, ownerID string, status models.OrderStatus, s query.Sort) (*models.OrderListResponse, error) {
	list, err := c.Orders.List(ctx, ownerID, status, s)
	if err != nil {
		return nil, err
	}
	stats, err := c.Orders.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &models.OrderListResponse{Orders: list, Stats: stats}, nil
}
