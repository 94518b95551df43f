package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"cellar/internal/orders"
	"cellar/internal/query"
	"cellar/internal/utils"
	"cellar/models"
)

const orderNotFound = "Order not found"

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, asValidation(err), orderNotFound)
		return
	}
	order, err := h.Orders.Create(r.Context(), owner(r), req)
	if err != nil {
		writeError(w, r, err, orderNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, order)
}

// ListOrders - GET /orders?status=&sortBy=&order=
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	sort, err := query.ParseSort(params.Get("sortBy"), params.Get("order"), query.OrderSortFields, orders.DefaultSort)
	if err != nil {
		writeError(w, r, err, orderNotFound)
		return
	}
	res, err := h.Orders.List(r.Context(), owner(r), models.OrderStatus(params.Get("status")), sort)
	if err != nil {
		writeError(w, r, err, orderNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), owner(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, orderNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateOrderRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, asValidation(err), orderNotFound)
		return
	}
	order, err := h.Orders.Update(r.Context(), owner(r), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, r, err, orderNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Delete(r.Context(), owner(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err, orderNotFound)
		return
	}
	message(w, http.StatusOK, "Order deleted successfully")
}

// asValidation: кривой JSON - ошибка клиента, а не сервера
func asValidation(err error) error {
	if err == utils.ErrBodyTooLarge {
		return err
	}
	return &models.ValidationError{Message: err.Error()}
}
