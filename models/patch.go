package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ValidationError - ошибка входных данных, до записи в БД дело не доходит
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindRequiredString
	kindBool
	kindDecimal
	kindCount
	kindStrings
	kindDate
)

type patchField struct {
	column string
	kind   fieldKind
}

// JSON ключ -> колонка. id, owner, createdAt, updatedAt сюда не входят и молча игнорируются
var productFields = map[string]patchField{
	"name":           {"name", kindRequiredString},
	"description":    {"description", kindString},
	"price":          {"price", kindDecimal},
	"liked":          {"liked", kindBool},
	"bought":         {"bought", kindBool},
	"reviewed":       {"reviewed", kindBool},
	"interested":     {"interested", kindBool},
	"pickupStatus":   {"pickup_status", kindBool},
	"kosher":         {"kosher", kindBool},
	"type":           {"type", kindString},
	"country":        {"country", kindString},
	"wineType":       {"wine_type", kindString},
	"grapeType":      {"grape_type", kindStrings},
	"alcoholPercent": {"alcohol_percent", kindDecimal},
	"stock":          {"stock", kindCount},
	"quantityBought": {"quantity_bought", kindCount},
	"quantityLeft":   {"quantity_left", kindCount},
	"dateOfPurchase": {"date_of_purchase", kindDate},
	"pickupRange":    {"pickup_range", kindString},
	"picture":        {"picture", kindString},
	"url":            {"url", kindString},
	"tags":           {"tags", kindStrings},
}

// ProductPatch - частичное обновление товара.
// Хранит только присланные ключи: "не прислано" и "прислано пустым" различаются.
// JSON null очищает необязательное поле.
type ProductPatch struct {
	values map[string]any
}

// ParseProductPatch разбирает тело PUT запроса
func ParseProductPatch(body []byte) (ProductPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return ProductPatch{}, invalid("", "request body must be a JSON object")
	}

	patch := ProductPatch{values: make(map[string]any, len(raw))}
	for key, msg := range raw {
		field, ok := productFields[key]
		if !ok {
			continue
		}
		value, err := decodeField(key, field.kind, msg)
		if err != nil {
			return ProductPatch{}, err
		}
		patch.values[field.column] = value
	}
	return patch, nil
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

func decodeField(key string, kind fieldKind, msg json.RawMessage) (any, error) {
	null := isNull(msg)
	switch kind {
	case kindRequiredString:
		var s string
		if null || json.Unmarshal(msg, &s) != nil {
			return nil, invalid(key, "must be a string")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, invalid(key, "is required")
		}
		return s, nil

	case kindBool:
		var b bool
		if null || json.Unmarshal(msg, &b) != nil {
			return nil, invalid(key, "must be true or false")
		}
		return b, nil
	}

	if null {
		return nil, nil
	}

	switch kind {
	case kindString:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, invalid(key, "must be a string")
		}
		return s, nil

	case kindDecimal:
		var d decimal.Decimal
		if err := json.Unmarshal(msg, &d); err != nil {
			return nil, invalid(key, "must be a number")
		}
		if d.IsNegative() {
			return nil, invalid(key, "must not be negative")
		}
		return d, nil

	case kindCount:
		var n int
		if err := json.Unmarshal(msg, &n); err != nil {
			return nil, invalid(key, "must be an integer")
		}
		if n < 0 {
			return nil, invalid(key, "must not be negative")
		}
		return n, nil

	case kindStrings:
		var list []string
		if err := json.Unmarshal(msg, &list); err != nil {
			return nil, invalid(key, "must be an array of strings")
		}
		return pq.StringArray(list), nil

	case kindDate:
		var d Date
		if err := json.Unmarshal(msg, &d); err != nil {
			return nil, invalid(key, "must be a date (YYYY-MM-DD)")
		}
		return d, nil
	}
	return nil, invalid(key, "unsupported field")
}

// Empty - в запросе не было ни одного известного поля
func (p ProductPatch) Empty() bool {
	return len(p.values) == 0
}

// Has проверяет, присутствует ли колонка в обновлении
func (p ProductPatch) Has(column string) bool {
	_, ok := p.values[column]
	return ok
}

// Get возвращает значение колонки; nil означает присланный null
func (p ProductPatch) Get(column string) (any, bool) {
	v, ok := p.values[column]
	return v, ok
}

// Columns - отсортированный список колонок обновления
func (p ProductPatch) Columns() []string {
	cols := make([]string, 0, len(p.values))
	for c := range p.values {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Updates - карта для gorm Updates. nil превращается в NULL
func (p ProductPatch) Updates() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
