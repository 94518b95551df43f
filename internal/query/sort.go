package query

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortFields - допустимые поля сортировки: параметр API -> колонка
type SortFields map[string]string

var ProductSortFields = SortFields{
	"name":           "name",
	"price":          "price",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
	"dateOfPurchase": "date_of_purchase",
	"alcoholPercent": "alcohol_percent",
	"type":           "type",
	"country":        "country",
	"stock":          "stock",
}

var OrderSortFields = SortFields{
	"orderDate":   "order_date",
	"orderNumber": "order_number",
	"totalPrice":  "total_price",
	"status":      "status",
	"createdAt":   "created_at",
}

// Names - список полей для сообщения об ошибке
func (f SortFields) Names() []string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type Sort struct {
	Column string
	Desc   bool
}

// SortError - неизвестное поле сортировки
type SortError struct {
	Field   string
	Allowed []string
}

func (e *SortError) Error() string {
	return fmt.Sprintf("cannot sort by %q, allowed: %s", e.Field, strings.Join(e.Allowed, ", "))
}

// ParseSort: без sortBy используется def. order=desc - по убыванию, иначе по возрастанию
func ParseSort(sortBy, order string, fields SortFields, def Sort) (Sort, error) {
	if sortBy == "" {
		return def, nil
	}
	column, ok := fields[sortBy]
	if !ok {
		return Sort{}, &SortError{Field: sortBy, Allowed: fields.Names()}
	}
	return Sort{Column: column, Desc: order == "desc"}, nil
}

// Scope добавляет ORDER BY. id в конце делает порядок стабильным при равных значениях
func (s Sort) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: s.Column}, Desc: s.Desc},
			{Column: clause.Column{Name: "id"}},
		}})
	}
}
