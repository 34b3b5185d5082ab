package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"barbershop/internal/auth"
	"barbershop/internal/domain"
	"barbershop/internal/dto"
	apperrors "barbershop/internal/errors"
	"barbershop/internal/respond"
)

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error)
	List(ctx context.Context, sess *auth.Session) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, sess *auth.Session, id int, status *string) (*domain.Order, error)
	Delete(ctx context.Context, sess *auth.Session, id int) error
}

type OrderController struct {
	service OrderService
	logger  *zap.Logger
}

func NewOrderController(service OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{
		service: service,
		logger:  logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeInvalidBody(w, logger, traceID)
		return
	}

	order, err := c.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusCreated, order)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orders, err := c.service.List(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, orders)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sess := auth.SessionFromContext(r.Context())

	id, ok := parseID(w, r, logger, traceID)
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeInvalidBody(w, logger, traceID)
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), sess, id, req.Status)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, order)
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := parseID(w, r, logger, traceID)
	if !ok {
		return
	}

	if err := c.service.Delete(r.Context(), auth.SessionFromContext(r.Context()), id); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.Message(w, logger, "order deleted")
}

func parseID(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		logger.Warn("invalid id in path", zap.String("id", chi.URLParam(r, "id")))
		respond.Validation(w, logger, traceID, "invalid id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func writeInvalidBody(w http.ResponseWriter, logger *zap.Logger, traceID string) {
	respond.Validation(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
		Field:   "body",
		Message: "request body must be valid JSON",
	})
}
