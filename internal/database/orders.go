package db

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cellar/internal/query"
	"cellar/models"
)

// Поля товара, которые подтягиваются в позиции заказа
var itemProductColumns = []string{"id", "name", "type", "price", "picture", "country", "wine_type"}

// OrderRepo - заказы пользователей. Заказ с позициями пишется одной транзакцией
type OrderRepo struct {
	DB *gorm.DB
}

func NewOrderRepo(DB *gorm.DB) *OrderRepo {
	return &OrderRepo{DB: DB}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Select(itemProductColumns) })
}

func numberItems(order *models.Order) {
	for i := range order.Items {
		order.Items[i].ID = 0
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i
	}
}

// Create сохраняет заказ вместе с позициями
func (r *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		order.Items = items
		numberItems(order)
		if len(order.Items) > 0 {
			if err := tx.Omit("Product").Create(&order.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create order %q: %w", order.OrderNumber, err)
	}
	return nil
}

// Get - заказ владельца с позициями и данными товаров
func (r *OrderRepo) Get(ctx context.Context, ownerID, id string) (*models.Order, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var order models.Order
	err := r.DB.WithContext(ctx).
		Scopes(query.OwnedBy(ownerID), preloadItems).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// Save перезаписывает поля заказа. replaceItems - заменить позиции целиком
func (r *OrderRepo) Save(ctx context.Context, order *models.Order, replaceItems bool) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := query.OwnedBy(order.OwnerID)(tx.Model(&models.Order{})).
			Where("id = ?", order.ID).
			Updates(map[string]any{
				"order_number": order.OrderNumber,
				"order_date":   order.OrderDate,
				"status":       order.Status,
				"notes":        order.Notes,
				"total_price":  order.TotalPrice,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if !replaceItems {
			return nil
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		numberItems(order)
		if len(order.Items) > 0 {
			return tx.Omit("Product").Create(&order.Items).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save order %s: %w", order.ID, err)
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := query.OwnedBy(ownerID)(tx).Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	return nil
}

// List - заказы владельца; status "" - все статусы
func (r *OrderRepo) List(ctx context.Context, ownerID string, status models.OrderStatus, s query.Sort) ([]models.Order, error) {
	orders := []models.Order{}
	tx := r.DB.WithContext(ctx).Scopes(query.OwnedBy(ownerID), preloadItems, s.Scope())
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if err := tx.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func orderStatsQuery(db *gorm.DB, ownerID string) *gorm.DB {
	return query.OwnedBy(ownerID)(db.Model(&models.Order{})).
		Select("COUNT(*) AS total_orders, "+
			"COUNT(*) FILTER (WHERE status = ?) AS pending_orders, "+
			"COUNT(*) FILTER (WHERE status = ?) AS collected_orders, "+
			"COALESCE(SUM(total_price), 0) AS total_spent",
			models.StatusPending, models.StatusCollected)
}

// Stats - счетчики и сумма по всем заказам владельца
func (r *OrderRepo) Stats(ctx context.Context, ownerID string) (models.OrderStats, error) {
	var row struct {
		TotalOrders     int64
		PendingOrders   int64
		CollectedOrders int64
		TotalSpent      decimal.Decimal
	}
	if err := orderStatsQuery(r.DB.WithContext(ctx), ownerID).Scan(&row).Error; err != nil {
		return models.OrderStats{}, fmt.Errorf("order stats: %w", err)
	}
	return models.OrderStats{
		TotalOrders:     row.TotalOrders,
		PendingOrders:   row.PendingOrders,
		CollectedOrders: row.CollectedOrders,
		TotalSpent:      row.TotalSpent,
	}, nil
}
