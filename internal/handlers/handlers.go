package handlers

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"cellar/auth"
	db "cellar/internal/database"
	"cellar/internal/orders"
	"cellar/internal/query"
	"cellar/internal/utils"
	"cellar/models"
)

// ProductStore - операции над товарами (db.ProductRepo)
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, ownerID, id string) (*models.Product, error)
	Update(ctx context.Context, ownerID, id string, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string, f query.ProductFilter, s query.Sort) ([]models.Product, error)
	Stats(ctx context.Context, ownerID string, year *int) (models.ProductStats, error)
	Suggestions(ctx context.Context, ownerID, q string) ([]string, error)
	GrapeTypes(ctx context.Context, ownerID string) ([]string, error)
}

// OrderService - операции над заказами (orders.Composer)
type OrderService interface {
	Create(ctx context.Context, ownerID string, req models.CreateOrderRequest) (*models.Order, error)
	Update(ctx context.Context, ownerID, id string, req models.UpdateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, ownerID, id string) (*models.Order, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string, status models.OrderStatus, s query.Sort) (*models.OrderListResponse, error)
}

type Handler struct {
	Products ProductStore
	Orders   OrderService
}

func New(products ProductStore, orderService OrderService) *Handler {
	return &Handler{Products: products, Orders: orderService}
}

// owner - id пользователя, положенный authMiddleware
func owner(r *http.Request) string {
	id, _ := auth.OwnerFrom(r.Context())
	return id
}

func message(w http.ResponseWriter, status int, msg string) {
	utils.WriteJSON(w, status, models.MessageResponse{Message: msg})
}

// writeError переводит ошибки в HTTP статусы. Подробности хранилища клиенту не уходят
func writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var (
		validation *models.ValidationError
		sortErr    *query.SortError
		missing    *orders.ProductNotFoundError
	)
	switch {
	case errors.As(err, &validation):
		utils.WriteJSON(w, http.StatusBadRequest, models.MessageResponse{Message: validation.Error(), Field: validation.Field})
	case errors.As(err, &sortErr):
		utils.WriteJSON(w, http.StatusBadRequest, models.MessageResponse{Message: sortErr.Error(), Field: "sortBy"})
	case errors.Is(err, utils.ErrBodyTooLarge):
		message(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &missing):
		message(w, http.StatusNotFound, missing.Error())
	case errors.Is(err, db.ErrNotFound):
		message(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, db.ErrDuplicateName):
		utils.WriteJSON(w, http.StatusConflict, models.MessageResponse{
			Message: "Conflict: Product with this name already exists.",
			Field:   "name",
		})
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"url":    r.URL.Path,
			"owner":  owner(r),
		}).Error("request failed")
		message(w, http.StatusInternalServerError, "Internal server error")
	}
}
