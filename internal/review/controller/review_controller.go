package controller

import (
	"bytes"
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

type ReviewService interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) (*domain.Review, error)
	List(ctx context.Context, filter dto.ReviewFilter) ([]domain.Review, error)
	Get(ctx context.Context, sess *auth.Session, id int) (*domain.Review, error)
	UpdateApproval(ctx context.Context, sess *auth.Session, id int, update dto.ApprovalUpdate) (*domain.Review, error)
	Delete(ctx context.Context, sess *auth.Session, id int) error
}

type ReviewController struct {
	service ReviewService
	logger  *zap.Logger
}

func NewReviewController(service ReviewService, logger *zap.Logger) *ReviewController {
	return &ReviewController{
		service: service,
		logger:  logger,
	}
}

func (c *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeInvalidBody(w, logger, traceID)
		return
	}

	review, err := c.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusCreated, review)
}

// List serves the public review feed. Only ?approved=true enables the
// approved-only filter.
func (c *ReviewController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	filter := dto.ReviewFilter{ApprovedOnly: r.URL.Query().Get("approved") == "true"}

	reviews, err := c.service.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, reviews)
}

func (c *ReviewController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := parseID(w, r, logger, traceID)
	if !ok {
		return
	}

	review, err := c.service.Get(r.Context(), auth.SessionFromContext(r.Context()), id)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, review)
}

func (c *ReviewController) UpdateApproval(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := parseID(w, r, logger, traceID)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeInvalidBody(w, logger, traceID)
		return
	}

	update, err := approvalUpdateFrom(body)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	review, err := c.service.UpdateApproval(r.Context(), auth.SessionFromContext(r.Context()), id, update)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, review)
}

func (c *ReviewController) Delete(w http.ResponseWriter, r *http.Request) {
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

	respond.Message(w, logger, "review deleted")
}

// approvalUpdateFrom reads the approved key. A missing key yields an unset
// update; null, true and false are each kept distinct.
func approvalUpdateFrom(body map[string]json.RawMessage) (dto.ApprovalUpdate, error) {
	raw, ok := body["approved"]
	if !ok {
		return dto.ApprovalUpdate{}, nil
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return dto.ApprovalUpdate{Set: true}, nil
	}

	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		msg := "approved must be true, false or null"
		return dto.ApprovalUpdate{}, apperrors.NewValidationError(msg, apperrors.ValidationDetail{
			Field:   "approved",
			Message: msg,
		})
	}

	return dto.ApprovalUpdate{Set: true, Value: &value}, nil
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
