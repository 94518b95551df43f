package query

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// ProductFilter - фильтры списка товаров из query string.
// Пустая строка = фильтра нет. Для флагов важен сам факт наличия параметра.
type ProductFilter struct {
	Search   string
	Type     string
	Country  string
	WineType string
	Tag      string

	Liked      *bool
	Bought     *bool
	Reviewed   *bool
	Interested *bool

	// Год для статистики трат; на сам список не влияет
	Year *int
	// StatsOnly - limit=0, товары не выбираем
	StatsOnly bool
}

// flagParam: параметр присутствует -> фильтр по равенству "true"; любое другое значение = false
func flagParam(values url.Values, name string) *bool {
	if !values.Has(name) {
		return nil
	}
	b := values.Get(name) == "true"
	return &b
}

// ParseProductFilter никогда не возвращает ошибку: нераспознанные значения просто ничего не находят
func ParseProductFilter(values url.Values) ProductFilter {
	f := ProductFilter{
		Search:   strings.TrimSpace(values.Get("search")),
		Type:     values.Get("type"),
		Country:  values.Get("country"),
		WineType: values.Get("wineType"),
		Tag:      values.Get("tags"),

		Liked:      flagParam(values, "fav"),
		Bought:     flagParam(values, "purchased"),
		Reviewed:   flagParam(values, "reviewed"),
		Interested: flagParam(values, "interested"),
	}

	if y, err := strconv.Atoi(strings.TrimSpace(values.Get("year"))); err == nil {
		f.Year = &y
	}
	if l, err := strconv.Atoi(strings.TrimSpace(values.Get("limit"))); err == nil && l == 0 {
		f.StatsOnly = true
	}
	return f
}

// EscapeLike экранирует спецсимволы LIKE, чтобы поиск был подстрочным
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Contains - шаблон ILIKE "содержит подстроку"
func Contains(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// OwnedBy ограничивает выборку записями владельца
func OwnedBy(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// Scope - предикат для gorm. Все условия объединяются через AND.
// Владелец пишется прямо здесь, а не вложенным Scopes: вложенные scope gorm применяет последними
func (f ProductFilter) Scope(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ?", ownerID)

		if f.Search != "" {
			pattern := Contains(f.Search)
			db = db.Where(
				"(name ILIKE ? OR description ILIKE ? OR "+
					"EXISTS (SELECT 1 FROM unnest(grape_type) AS g WHERE g ILIKE ?) OR "+
					"EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE ?))",
				pattern, pattern, pattern, pattern,
			)
		}
		if f.Type != "" {
			db = db.Where("type = ?", f.Type)
		}
		if f.Country != "" {
			db = db.Where("country = ?", f.Country)
		}
		if f.WineType != "" {
			db = db.Where("wine_type = ?", f.WineType)
		}
		if f.Tag != "" {
			db = db.Where("? = ANY(tags)", f.Tag)
		}

		flags := []struct {
			column string
			value  *bool
		}{
			{"liked", f.Liked},
			{"bought", f.Bought},
			{"reviewed", f.Reviewed},
			{"interested", f.Interested},
		}
		for _, fl := range flags {
			if fl.value != nil {
				db = db.Where(fl.column+" = ?", *fl.value)
			}
		}
		return db
	}
}
