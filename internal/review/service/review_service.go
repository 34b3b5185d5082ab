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

type ReviewStore interface {
	Load(ctx context.Context) []domain.Review
	Mutate(ctx context.Context, fn func(reviews []domain.Review) ([]domain.Review, error)) error
}

type Authorizer interface {
	Authorize(sess *auth.Session) error
}

type Validator interface {
	Struct(s interface{}) error
}

type ReviewService struct {
	store      ReviewStore
	authorizer Authorizer
	validator  Validator
	logger     *zap.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

func NewReviewService(store ReviewStore, authorizer Authorizer, validator Validator, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		store:      store,
		authorizer: authorizer,
		validator:  validator,
		logger:     logger,
		tracer:     otel.Tracer("barbershop/review"),
		now:        time.Now,
	}
}

// Create stores a new review awaiting moderation.
func (s *ReviewService) Create(ctx context.Context, req dto.CreateReviewRequest) (*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Create")
	defer span.End()

	validation.TrimStrings(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	rating, err := parseRating(req.Rating)
	if err != nil {
		return nil, err
	}

	pending := false
	var created domain.Review
	err = s.store.Mutate(ctx, func(reviews []domain.Review) ([]domain.Review, error) {
		created = domain.Review{
			ID:       store.NextID(reviews),
			Name:     req.Name,
			Rating:   rating,
			Service:  req.Service,
			Text:     req.Text,
			Date:     domain.FormatTimestamp(s.now()),
			Approved: &pending,
		}
		return append(reviews, created), nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("review.id", created.ID))
	metrics.ReviewsCreatedTotal.Inc()
	s.logger.Info("review created", zap.Int("id", created.ID), zap.String("name", created.Name))

	return &created, nil
}

// List returns reviews newest first. With ApprovedOnly set only reviews whose
// approved flag is exactly true are returned.
func (s *ReviewService) List(ctx context.Context, filter dto.ReviewFilter) ([]domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.List", trace.WithAttributes(attribute.Bool("review.approved_only", filter.ApprovedOnly)))
	defer span.End()

	reviews := s.store.Load(ctx)
	if filter.ApprovedOnly {
		reviews = slices.DeleteFunc(reviews, func(r domain.Review) bool { return !r.IsPublic() })
	}

	slices.SortStableFunc(reviews, func(a, b domain.Review) int {
		return strings.Compare(b.Date, a.Date)
	})

	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, sess *auth.Session, id int) (*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Get", trace.WithAttributes(attribute.Int("review.id", id)))
	defer span.End()

	if err := s.authorizer.Authorize(sess); err != nil {
		return nil, err
	}

	reviews := s.store.Load(ctx)
	i := slices.IndexFunc(reviews, func(r domain.Review) bool { return r.ID == id })
	if i < 0 {
		return nil, reviewNotFound(id)
	}

	return &reviews[i], nil
}

// UpdateApproval overwrites the approved flag of review id when update.Set is
// true. An unset update leaves the review unchanged but it is still saved and
// returned.
func (s *ReviewService) UpdateApproval(ctx context.Context, sess *auth.Session, id int, update dto.ApprovalUpdate) (*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.UpdateApproval", trace.WithAttributes(attribute.Int("review.id", id)))
	defer span.End()

	if err := s.authorizer.Authorize(sess); err != nil {
		return nil, err
	}

	var updated domain.Review
	err := s.store.Mutate(ctx, func(reviews []domain.Review) ([]domain.Review, error) {
		i := slices.IndexFunc(reviews, func(r domain.Review) bool { return r.ID == id })
		if i < 0 {
			return nil, reviewNotFound(id)
		}

		if update.Set {
			from := reviews[i].Moderation()
			reviews[i].Approved = update.Value
			to := reviews[i].Moderation()

			metrics.ReviewModerationsTotal.WithLabelValues(string(to)).Inc()
			s.logger.Info("review moderated",
				zap.Int("id", id),
				zap.String("from", string(from)),
				zap.String("state", string(to)),
			)
		}

		updated = reviews[i]
		return reviews, nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, sess *auth.Session, id int) error {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Delete", trace.WithAttributes(attribute.Int("review.id", id)))
	defer span.End()

	if err := s.authorizer.Authorize(sess); err != nil {
		return err
	}

	err := s.store.Mutate(ctx, func(reviews []domain.Review) ([]domain.Review, error) {
		kept := slices.DeleteFunc(reviews, func(r domain.Review) bool { return r.ID == id })
		if len(kept) == len(reviews) {
			return nil, reviewNotFound(id)
		}
		return kept, nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.logger.Info("review deleted", zap.Int("id", id))
	return nil
}

func parseRating(in validation.RatingInput) (int, error) {
	n, ok := in.Int()
	if !ok {
		return 0, apperrors.NewValidationError("invalid rating", apperrors.ValidationDetail{
			Field:   "rating",
			Message: "rating must be an integer",
		})
	}

	if !validation.InRatingRange(n) {
		msg := fmt.Sprintf("rating must be between %d and %d", validation.MinRating, validation.MaxRating)
		return 0, apperrors.NewValidationError(msg, apperrors.ValidationDetail{
			Field:   "rating",
			Message: msg,
		})
	}

	return n, nil
}

func reviewNotFound(id int) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("review %d not found", id))
}
