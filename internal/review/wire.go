package review

import (
	"go.uber.org/zap"

	"barbershop/internal/domain"
	"barbershop/internal/review/controller"
	"barbershop/internal/review/service"
	"barbershop/internal/store"
	"barbershop/internal/validation"
)

func NewModule(reviews *store.Collection[domain.Review], authorizer service.Authorizer, validator *validation.Validator, logger *zap.Logger) *controller.ReviewController {
	logger = logger.With(zap.String("module", "review"))
	svc := service.NewReviewService(reviews, authorizer, validator, logger)
	return controller.NewReviewController(svc, logger)
}
