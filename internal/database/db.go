package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cellar/internal/config"
	"cellar/models"
)

var (
	// ErrNotFound - записи нет или она принадлежит другому пользователю. Снаружи эти случаи не различаются
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateName - у владельца уже есть товар с таким именем
	ErrDuplicateName = errors.New("product with this name already exists")
)

func Connect(cfg config.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// unique_violation -> gorm.ErrDuplicatedKey
		TranslateError: true,
		// order_items.product_id без внешнего ключа: удаление товара не ломает старые заказы
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("подключение к базе %s@%s: %w", cfg.Name, cfg.Host, err)
	}
	return db, nil
}

// Migrate создает таблицы и индексы
func Migrate(DB *gorm.DB) error {
	if err := DB.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	// Составные индексы из тэгов полей
	for _, idx := range []string{"idx_products_owner_name", "idx_products_owner_created"} {
		if !DB.Migrator().HasIndex(&models.Product{}, idx) {
			if err := DB.Migrator().CreateIndex(&models.Product{}, idx); err != nil {
				return fmt.Errorf("create index %s: %w", idx, err)
			}
		}
	}
	log.Info("schema migrated")
	return nil
}

// validID: id не uuid -> такой записи точно нет, в postgres не идем
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// translate приводит ошибки gorm к ошибкам пакета
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateName
	}
	return err
}
