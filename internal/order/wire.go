package order

import (
	"go.uber.org/zap"

	"barbershop/internal/domain"
	"barbershop/internal/order/controller"
	"barbershop/internal/order/service"
	"barbershop/internal/store"
	"barbershop/internal/validation"
)

func NewModule(orders *store.Collection[domain.Order], authorizer service.Authorizer, validator *validation.Validator, logger *zap.Logger) *controller.OrderController {
	logger = logger.With(zap.String("module", "order"))
	svc := service.NewOrderService(orders, authorizer, validator, logger)
	return controller.NewOrderController(svc, logger)
}
