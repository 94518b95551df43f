package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"cellar/models"
)

// SeedProduct - запись YAML фикстуры
type SeedProduct struct {
	Name           string           `yaml:"name"`
	Description    string           `yaml:"description"`
	Price          *decimal.Decimal `yaml:"price"`
	Liked          bool             `yaml:"liked"`
	Bought         bool             `yaml:"bought"`
	Type           string           `yaml:"type"`
	Country        string           `yaml:"country"`
	WineType       string           `yaml:"wineType"`
	GrapeType      []string         `yaml:"grapeType"`
	AlcoholPercent *decimal.Decimal `yaml:"alcoholPercent"`
	QuantityBought *int             `yaml:"quantityBought"`
	DateOfPurchase *models.Date     `yaml:"dateOfPurchase"`
	Tags           []string         `yaml:"tags"`
}

type SeedFile struct {
	Products []SeedProduct `yaml:"products"`
}

// ParseSeed читает YAML фикстуру
func ParseSeed(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &f, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s SeedProduct) toProduct(ownerID string) *models.Product {
	return &models.Product{
		OwnerID:        ownerID,
		Name:           strings.TrimSpace(s.Name),
		Description:    optional(s.Description),
		Price:          s.Price,
		Liked:          s.Liked,
		Bought:         s.Bought,
		Type:           optional(s.Type),
		Country:        optional(s.Country),
		WineType:       optional(s.WineType),
		GrapeType:      s.GrapeType,
		AlcoholPercent: s.AlcoholPercent,
		QuantityBought: s.QuantityBought,
		DateOfPurchase: s.DateOfPurchase,
		Tags:           s.Tags,
	}
}

// SeedStore - то, что нужно для импорта (db.ProductRepo)
type SeedStore interface {
	FindByName(ctx context.Context, ownerID, name string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
}

// SeedProducts добавляет товары владельцу. Уже существующие по имени пропускаются,
// поэтому повторный запуск ничего не дублирует
func SeedProducts(ctx context.Context, store SeedStore, ownerID string, f *SeedFile) (int, error) {
	created := 0
	for i, sp := range f.Products {
		p := sp.toProduct(ownerID)
		if err := p.Validate(); err != nil {
			return created, fmt.Errorf("seed product #%d: %w", i+1, err)
		}

		_, err := store.FindByName(ctx, ownerID, p.Name)
		if err == nil {
			log.WithField("name", p.Name).Debug("seed: already exists")
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return created, err
		}

		if err := store.Create(ctx, p); err != nil {
			return created, err
		}
		created++
	}
	log.WithFields(log.Fields{"owner": ownerID, "created": created}).Info("seed finished")
	return created, nil
}
