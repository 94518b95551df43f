package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"cellar/auth"
)

// Router собирает все маршруты /api. Все, кроме /healthz, требуют токен
func Router(h *Handler, validator *auth.Validator, origins []string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware(validator))

	api.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", h.AddProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/suggestions", h.Suggestions).Methods(http.MethodGet)
	api.HandleFunc("/products/grape-types", h.GrapeTypes).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.UpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)

	api.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", h.UpdateOrder).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id}", h.DeleteOrder).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return logMiddleware(c.Handler(r))
}

// authMiddleware пускает дальше только запросы с валидным токеном
func authMiddleware(validator *auth.Validator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := validator.FromRequest(r)
			if err != nil {
				log.WithError(err).WithField("url", r.URL.Path).Debug("unauthenticated request")
				message(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithOwner(r.Context(), claims.Subject)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("request")
	})
}
