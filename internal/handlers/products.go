package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"cellar/internal/query"
	"cellar/internal/utils"
	"cellar/models"
)

const productNotFound = "Product not found"

var defaultProductSort = query.Sort{Column: "created_at", Desc: true}

// ListProducts - GET /products: товары по фильтрам плюс статистика.
// limit=0 - только статистика
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filter := query.ParseProductFilter(params)

	// limit=0 - только статистика, сортировка не разбирается
	sort := defaultProductSort
	if !filter.StatsOnly {
		var err error
		sort, err = query.ParseSort(params.Get("sortBy"), params.Get("order"), query.ProductSortFields, defaultProductSort)
		if err != nil {
			writeError(w, r, err, productNotFound)
			return
		}
	}

	stats, err := h.Products.Stats(r.Context(), owner(r), filter.Year)
	if err != nil {
		writeError(w, r, err, productNotFound)
		return
	}

	resp := models.ProductListResponse{Products: []models.Product{}, ProductStats: stats}
	if !filter.StatsOnly {
		products, err := h.Products.List(r.Context(), owner(r), filter, sort)
		if err != nil {
			writeError(w, r, err, productNotFound)
			return
		}
		resp.Products = products
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.Get(r.Context(), owner(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// Suggestions - GET /products/suggestions?q=
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	res, err := h.Products.Suggestions(r.Context(), owner(r), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	if res == nil {
		res = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) GrapeTypes(w http.ResponseWriter, r *http.Request) {
	res, err := h.Products.GrapeTypes(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	if res == nil {
		res = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadBody(w, r)
	if err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	p, err := models.DecodeNewProduct(body, owner(r))
	if err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	if err := h.Products.Create(r.Context(), p); err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	log.WithFields(log.Fields{"owner": p.OwnerID, "product": p.ID}).Info("product added")
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadBody(w, r)
	if err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	patch, err := models.ParseProductPatch(body)
	if err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	p, err := h.Products.Update(r.Context(), owner(r), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Products.Delete(r.Context(), owner(r), id); err != nil {
		writeError(w, r, err, productNotFound)
		return
	}
	log.WithFields(log.Fields{"owner": owner(r), "product": id}).Info("product deleted")
	message(w, http.StatusOK, "Product deleted successfully")
}
