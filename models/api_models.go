package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DecodeNewProduct разбирает тело POST /products. Серверные поля (id, owner, даты) затираются
func DecodeNewProduct(body []byte, ownerID string) (*Product, error) {
	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, invalid("", "request body is not a valid product: %v", err)
	}
	p.ID = ""
	p.OwnerID = ownerID
	p.CreatedAt = time.Time{}
	p.UpdatedAt = time.Time{}
	p.Name = strings.TrimSpace(p.Name)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate проверяет то, что не проверяет схема БД
func (p *Product) Validate() error {
	if p.Name == "" {
		return invalid("name", "is required")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	counters := []struct {
		name  string
		value *int
	}{
		{"stock", p.Stock},
		{"quantityBought", p.QuantityBought},
		{"quantityLeft", p.QuantityLeft},
	}
	for _, c := range counters {
		if c.value != nil && *c.value < 0 {
			return invalid(c.name, "must not be negative")
		}
	}
	return nil
}

// YearStat - траты за календарный год
type YearStat struct {
	Year  int             `json:"_id"`
	Spent decimal.Decimal `json:"spent"`
	Count int64           `json:"count"`
}

// ProductStats - сводка по каталогу пользователя
type ProductStats struct {
	TotalCount  int64           `json:"totalCount"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	TotalLiked  int64           `json:"totalLiked"`
	TotalItems  int64           `json:"totalItems"`
	YearlyStats []YearStat      `json:"yearlyStats"`
}

// ProductListResponse - ответ GET /products
type ProductListResponse struct {
	Products []Product `json:"products"`
	ProductStats
}

// OrderStats - сводка по заказам, без учета фильтра по статусу
type OrderStats struct {
	TotalOrders     int64           `json:"totalOrders"`
	PendingOrders   int64           `json:"pendingOrders"`
	CollectedOrders int64           `json:"collectedOrders"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
}

type OrderListResponse struct {
	Orders []Order    `json:"orders"`
	Stats  OrderStats `json:"stats"`
}

// ItemRequest - позиция в запросе на заказ
type ItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// CreateOrderRequest - тело POST /orders
type CreateOrderRequest struct {
	OrderNumber string        `json:"orderNumber"`
	OrderDate   *Timestamp    `json:"orderDate,omitempty"`
	Items       []ItemRequest `json:"items"`
	Notes       *string       `json:"notes,omitempty"`
	Status      *OrderStatus  `json:"status,omitempty"`
}

// UpdateOrderRequest - тело PUT /orders/{id}; nil - поле не прислано.
// Notes: null стирает заметку
type UpdateOrderRequest struct {
	OrderNumber *string        `json:"orderNumber,omitempty"`
	OrderDate   *Timestamp     `json:"orderDate,omitempty"`
	Items       *[]ItemRequest `json:"items,omitempty"`
	Notes       OptionalString `json:"notes"`
	Status      *OrderStatus   `json:"status,omitempty"`
}

// OptionalString отличает отсутствующее поле (Set == false) от null (Set, Value == nil)
type OptionalString struct {
	Set   bool
	Value *string
}

func SomeString(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("must be a string or null: %w", err)
	}
	o.Value = &s
	return nil
}

// MessageResponse - {message} для удаления и ошибок
type MessageResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
