package dto

import "barbershop/internal/validation"

type CreateReviewRequest struct {
	Name    string                 `json:"name" validate:"required"`
	Rating  validation.RatingInput `json:"rating" validate:"required"`
	Text    string                 `json:"text" validate:"required"`
	Service string                 `json:"service,omitempty"`
}

type ReviewFilter struct {
	ApprovedOnly bool
}

// ApprovalUpdate distinguishes an absent approved field (Set is false) from
// an explicit null (Set is true, Value is nil).
type ApprovalUpdate struct {
	Set   bool
	Value *bool
}
