package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"barbershop/internal/auth"
	"barbershop/internal/dto"
	ordercontroller "barbershop/internal/order/controller"
	"barbershop/internal/respond"
	reviewcontroller "barbershop/internal/review/controller"
)

type Handlers struct {
	Orders  *ordercontroller.OrderController
	Reviews *reviewcontroller.ReviewController
	Auth    *auth.Controller
}

type RouterConfig struct {
	ServiceName string
	CookieName  string
	LoginPath   string
}

func NewRouter(h Handlers, gate *auth.Gate, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(auth.SessionMiddleware(gate, cfg.CookieName))

	r.Get("/health", health(cfg.ServiceName, logger))
	r.Handle("/metrics", promhttp.Handler())

	r.Post(cfg.LoginPath, h.Auth.Login)
	r.Get(cfg.LoginPath+"/logout", h.Auth.Logout)

	r.Route("/api", func(r chi.Router) {
		r.Post("/order", h.Orders.Create)
		r.Post("/review", h.Reviews.Create)
		r.Get("/reviews", h.Reviews.List)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuthenticated(gate, logger))

			r.Get("/orders", h.Orders.List)
			r.Put("/order/{id}", h.Orders.UpdateStatus)
			r.Delete("/order/{id}", h.Orders.Delete)

			r.Get("/review/{id}", h.Reviews.Get)
			r.Put("/review/{id}", h.Reviews.UpdateApproval)
			r.Delete("/review/{id}", h.Reviews.Delete)
		})
	})

	return r
}

func health(service string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, logger, http.StatusOK, dto.HealthResponse{Status: "ok", Service: service})
	}
}
