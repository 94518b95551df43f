package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"cellar/internal/query"
	"cellar/models"
)

// ProductRepo - товары пользователей в postgres
type ProductRepo struct {
	DB *gorm.DB
}

func NewProductRepo(DB *gorm.DB) *ProductRepo {
	return &ProductRepo{DB: DB}
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	if err := r.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create product %q: %w", p.Name, translate(err))
	}
	return nil
}

// Get - товар владельца по id
func (r *ProductRepo) Get(ctx context.Context, ownerID, id string) (*models.Product, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var p models.Product
	err := r.DB.WithContext(ctx).
		Scopes(query.OwnedBy(ownerID)).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByName - товар владельца по точному имени
func (r *ProductRepo) FindByName(ctx context.Context, ownerID, name string) (*models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).
		Scopes(query.OwnedBy(ownerID)).
		Where("name = ?", name).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Update применяет только присланные поля и возвращает обновленный товар
func (r *ProductRepo) Update(ctx context.Context, ownerID, id string, patch models.ProductPatch) (*models.Product, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	if patch.Empty() {
		return r.Get(ctx, ownerID, id)
	}

	updates := patch.Updates()
	updates["updated_at"] = time.Now()

	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(query.OwnedBy(ownerID)).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update product %s: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, ownerID, id)
}

func (r *ProductRepo) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res := r.DB.WithContext(ctx).
		Scopes(query.OwnedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List - товары по фильтру в заданном порядке
func (r *ProductRepo) List(ctx context.Context, ownerID string, f query.ProductFilter, s query.Sort) ([]models.Product, error) {
	products := []models.Product{}
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(f.Scope(ownerID), s.Scope()).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Выражения агрегатов: нет цены -> 0, нет количества -> 1
const (
	spentExpr = "COALESCE(SUM(COALESCE(price, 0) * COALESCE(quantity_bought, 1)), 0)"
	itemsExpr = "CAST(COALESCE(SUM(COALESCE(quantity_bought, 1)), 0) AS BIGINT)"
)

// boughtScope - купленные товары владельца, при year - только за этот календарный год
func boughtScope(ownerID string, year *int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ?", ownerID).Where("bought = ?", true)
		if year != nil {
			from := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
			db = db.Where("date_of_purchase >= ? AND date_of_purchase < ?",
				models.Date{Time: from}, models.Date{Time: from.AddDate(1, 0, 0)})
		}
		return db
	}
}

// Построители запросов. Scope применяются сразу, чтобы владелец всегда был первым условием

func countQuery(db *gorm.DB, ownerID string) *gorm.DB {
	return query.OwnedBy(ownerID)(db.Model(&models.Product{}))
}

func likedQuery(db *gorm.DB, ownerID string) *gorm.DB {
	return countQuery(db, ownerID).Where("liked = ?", true)
}

func spentQuery(db *gorm.DB, ownerID string, year *int) *gorm.DB {
	return boughtScope(ownerID, year)(db.Model(&models.Product{})).
		Select(spentExpr + " AS total_spent, " + itemsExpr + " AS total_items")
}

func yearlyQuery(db *gorm.DB, ownerID string) *gorm.DB {
	return boughtScope(ownerID, nil)(db.Model(&models.Product{})).
		Where("date_of_purchase IS NOT NULL").
		Select("CAST(EXTRACT(YEAR FROM date_of_purchase) AS INTEGER) AS year, " +
			spentExpr + " AS spent, COUNT(*) AS count").
		Group("year").
		Order("year DESC")
}

func namesQuery(db *gorm.DB, ownerID, pattern string, limit int) *gorm.DB {
	return query.OwnedBy(ownerID)(db.Model(&models.Product{})).
		Where("name ILIKE ?", pattern).
		Distinct("name").
		Order("name").
		Limit(limit)
}

// elementsQuery разворачивает колонку-массив (grape_type или tags) в уникальные значения.
// pattern "" - без фильтра, limit 0 - без ограничения
func elementsQuery(db *gorm.DB, ownerID, column, pattern string, limit int) *gorm.DB {
	tx := query.OwnedBy(ownerID)(db.Table("products, unnest(products." + column + ") AS elem"))
	if pattern != "" {
		tx = tx.Where("elem ILIKE ?", pattern)
	}
	tx = tx.Distinct("elem").Order("elem")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	return tx
}

// Stats считает сводку по каталогу. Фильтры списка (search, type...) на нее не влияют.
// Запросы независимы и идут параллельно
func (r *ProductRepo) Stats(ctx context.Context, ownerID string, year *int) (models.ProductStats, error) {
	stats := models.ProductStats{YearlyStats: []models.YearStat{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := countQuery(r.DB.WithContext(gctx), ownerID).Count(&stats.TotalCount).Error; err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := likedQuery(r.DB.WithContext(gctx), ownerID).Count(&stats.TotalLiked).Error; err != nil {
			return fmt.Errorf("count liked: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var spent struct {
			TotalSpent decimal.Decimal
			TotalItems int64
		}
		if err := spentQuery(r.DB.WithContext(gctx), ownerID, year).Scan(&spent).Error; err != nil {
			return fmt.Errorf("sum spent: %w", err)
		}
		stats.TotalSpent = spent.TotalSpent
		stats.TotalItems = spent.TotalItems
		return nil
	})
	g.Go(func() error {
		yearly := []models.YearStat{}
		if err := yearlyQuery(r.DB.WithContext(gctx), ownerID).Scan(&yearly).Error; err != nil {
			return fmt.Errorf("yearly stats: %w", err)
		}
		stats.YearlyStats = yearly
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.ProductStats{}, err
	}
	return stats, nil
}

// Suggestions - до 10 подсказок из имен, сортов винограда и тегов
func (r *ProductRepo) Suggestions(ctx context.Context, ownerID, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}, nil
	}
	pattern := query.Contains(q)
	tx := r.DB.WithContext(ctx)

	names := []string{}
	if err := namesQuery(tx, ownerID, pattern, query.SuggestPerSource).Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("suggest names: %w", err)
	}
	grapes := []string{}
	if err := elementsQuery(tx, ownerID, "grape_type", pattern, query.SuggestPerSource).Pluck("elem", &grapes).Error; err != nil {
		return nil, fmt.Errorf("suggest grapes: %w", err)
	}
	tags := []string{}
	if err := elementsQuery(tx, ownerID, "tags", pattern, query.SuggestPerSource).Pluck("elem", &tags).Error; err != nil {
		return nil, fmt.Errorf("suggest tags: %w", err)
	}
	return query.MergeSuggestions(names, grapes, tags), nil
}

// GrapeTypes - все сорта винограда владельца по алфавиту
func (r *ProductRepo) GrapeTypes(ctx context.Context, ownerID string) ([]string, error) {
	grapes := []string{}
	if err := elementsQuery(r.DB.WithContext(ctx), ownerID, "grape_type", "", 0).Pluck("elem", &grapes).Error; err != nil {
		return nil, fmt.Errorf("grape types: %w", err)
	}
	return grapes, nil
}
