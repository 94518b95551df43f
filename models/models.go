package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Суммы уходят клиенту числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true
}

// Product - позиция в личном каталоге пользователя (вино, виски и т.д.)
type Product struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string           `gorm:"not null;size:100;uniqueIndex:idx_products_owner_name,priority:1;index:idx_products_owner_created,priority:1" json:"owner"`
	Name        string           `gorm:"not null;size:255;uniqueIndex:idx_products_owner_name,priority:2" json:"name"`
	Description *string          `gorm:"type:text" json:"description,omitempty"`
	Price       *decimal.Decimal `gorm:"type:numeric(12,2)" json:"price,omitempty"`

	Liked        bool `gorm:"not null;default:false" json:"liked"`
	Bought       bool `gorm:"not null;default:false" json:"bought"`
	Reviewed     bool `gorm:"not null;default:false" json:"reviewed"`
	Interested   bool `gorm:"not null;default:false" json:"interested"`
	PickupStatus bool `gorm:"not null;default:false" json:"pickupStatus"`
	Kosher       bool `gorm:"not null;default:false" json:"kosher"`

	Type           *string          `gorm:"size:50;index" json:"type,omitempty"`
	Country        *string          `gorm:"size:100" json:"country,omitempty"`
	WineType       *string          `gorm:"size:50" json:"wineType,omitempty"`
	GrapeType      pq.StringArray   `gorm:"type:text[]" json:"grapeType,omitempty"`
	AlcoholPercent *decimal.Decimal `gorm:"type:numeric(5,2)" json:"alcoholPercent,omitempty"`

	// Складские счетчики
	Stock          *int `json:"stock,omitempty"`
	QuantityBought *int `json:"quantityBought,omitempty"`
	QuantityLeft   *int `json:"quantityLeft,omitempty"`

	DateOfPurchase *Date          `gorm:"type:date" json:"dateOfPurchase,omitempty"`
	PickupRange    *string        `gorm:"size:50" json:"pickupRange,omitempty"`
	Picture        *string        `gorm:"type:text" json:"picture,omitempty"` // base64, не разбираем
	URL            *string        `gorm:"type:text;column:url" json:"url,omitempty"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_products_owner_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PriceOrZero - цена товара, отсутствующая цена считается нулевой
func (p *Product) PriceOrZero() decimal.Decimal {
	if p.Price == nil {
		return decimal.Zero
	}
	return *p.Price
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCollected OrderStatus = "collected"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCollected, StatusCancelled:
		return true
	}
	return false
}

// Order - заказ пользователя, набор позиций с зафиксированными ценами
type Order struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string          `gorm:"not null;size:100;index:idx_orders_owner_date,priority:1" json:"owner"`
	OrderNumber string          `gorm:"not null;size:100;index" json:"orderNumber"`
	OrderDate   time.Time       `gorm:"not null;index:idx_orders_owner_date,priority:2,sort:desc" json:"orderDate"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes       *string         `gorm:"type:text" json:"notes,omitempty"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalPrice"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem - строка заказа. PriceAtOrder копируется из товара в момент заказа
type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	OrderID      string          `gorm:"type:uuid;not null;index" json:"-"`
	Position     int             `gorm:"not null" json:"-"`
	ProductID    string          `gorm:"type:uuid;not null;index" json:"productId"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity     int             `gorm:"not null;default:1;check:quantity >= 1" json:"quantity"`
	PriceAtOrder decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"priceAtOrder"`
}

// Subtotal - PriceAtOrder * Quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems пересчитывает итог заказа по позициям
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
