package dto

type CreateOrderRequest struct {
	Service string `json:"service" validate:"required"`
	Date    string `json:"date" validate:"required"`
	Time    string `json:"time" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// UpdateOrderStatusRequest carries the only order field an administrator may
// change. A nil Status leaves the order untouched.
type UpdateOrderStatusRequest struct {
	Status *string `json:"status"`
}
