package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"barbershop/internal/auth"
	"barbershop/internal/domain"
	"barbershop/internal/dto"
	apperrors "barbershop/internal/errors"
	"barbershop/internal/infrastructure/metrics"
	"barbershop/internal/store"
	"barbershop/internal/validation"
)

type OrderStore interface {
	Load(ctx context.Context) []domain.Order
	Mutate(ctx context.Context, fn func(orders []domain.Order) ([]domain.Order, error)) error
}

type Authorizer interface {
	Authorize(sess *auth.Session) error
}

type Validator interface {
	Struct(s interface{}) error
}

type OrderService struct {
	store      OrderStore
	authorizer Authorizer
	validator  Validator
	logger     *zap.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

func NewOrderService(store OrderStore, authorizer Authorizer, validator Validator, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:      store,
		authorizer: authorizer,
		validator:  validator,
		logger:     logger,
		tracer:     otel.Tracer("barbershop/order"),
		now:        time.Now,
	}
}

// Create validates and stores a new booking. The id, timestamp and status are
// always assigned here.
func (s *OrderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Create")
	defer span.End()

	validation.TrimStrings(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	var created domain.Order
	err := s.store.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		created = domain.Order{
			ID:        store.NextID(orders),
			Service:   req.Service,
			Date:      req.Date,
			Time:      req.Time,
			Name:      req.Name,
			Phone:     req.Phone,
			Timestamp: domain.FormatTimestamp(s.now()),
			Status:    domain.OrderStatusNew,
		}
		return append(orders, created), nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("order.id", created.ID))
	metrics.OrdersCreatedTotal.Inc()
	s.logger.Info("order created",
		zap.Int("id", created.ID),
		zap.String("name", created.Name),
		zap.String("service", created.Service),
	)

	return &created, nil
}

// List returns every booking, newest first. Orders without a timestamp sort
// last.
func (s *OrderService) List(ctx context.Context, sess *auth.Session) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer span.End()

	if err := s.authorizer.Authorize(sess); err != nil {
		return nil, err
	}

	orders := s.store.Load(ctx)
	slices.SortStableFunc(orders, func(a, b domain.Order) int {
		return strings.Compare(b.Timestamp, a.Timestamp)
	})

	return orders, nil
}

// UpdateStatus overwrites the status of order id. A nil status leaves the
// order unchanged but it is still saved and returned.
func (s *OrderService) UpdateStatus(ctx context.Context, sess *auth.Session, id int, status *string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(attribute.Int("order.id", id)))
	defer span.End()

	if err := s.authorizer.Authorize(sess); err != nil {
		return nil, err
	}

	var updated domain.Order
	err := s.store.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		i := slices.IndexFunc(orders, func(o domain.Order) bool { return o.ID == id })
		if i < 0 {
			return nil, orderNotFound(id)
		}

		if status != nil {
			from := orders[i].Status
			orders[i].Status = *status
			s.logger.Info("order status changed",
				zap.Int("id", id),
				zap.String("from", from),
				zap.String("to", *status),
			)
		}

		updated = orders[i]
		return orders, nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &updated, nil
}

func (s *OrderService) Delete(ctx context.Context, sess *auth.Session, id int) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int("order.id", id)))
	defer span.End()

	if err := s.authorizer.Authorize(sess); err != nil {
		return err
	}

	err := s.store.Mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		kept := slices.DeleteFunc(orders, func(o domain.Order) bool { return o.ID == id })
		if len(kept) == len(orders) {
			return nil, orderNotFound(id)
		}
		return kept, nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.logger.Info("order deleted", zap.Int("id", id))
	return nil
}

func orderNotFound(id int) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("order %d not found", id))
}
