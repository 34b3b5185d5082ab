package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"barbershop/internal/auth"
	"barbershop/internal/domain"
	"barbershop/internal/dto"
	apperrors "barbershop/internal/errors"
)

type mockOrderService struct {
	CreateFunc       func(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error)
	ListFunc         func(ctx context.Context, sess *auth.Session) ([]domain.Order, error)
	UpdateStatusFunc func(ctx context.Context, sess *auth.Session, id int, status *string) (*domain.Order, error)
	DeleteFunc       func(ctx context.Context, sess *auth.Session, id int) error
}

func (m *mockOrderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	return m.CreateFunc(ctx, req)
}

func (m *mockOrderService) List(ctx context.Context, sess *auth.Session) ([]domain.Order, error) {
	return m.ListFunc(ctx, sess)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, sess *auth.Session, id int, status *string) (*domain.Order, error) {
	return m.UpdateStatusFunc(ctx, sess, id, status)
}

func (m *mockOrderService) Delete(ctx context.Context, sess *auth.Session, id int) error {
	return m.DeleteFunc(ctx, sess, id)
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreate_Returns201(t *testing.T) {
	svc := &mockOrderService{
		CreateFunc: func(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
			assert.Equal(t, "Beard trim", req.Service)
			return &domain.Order{ID: 1, Service: req.Service, Status: domain.OrderStatusNew}, nil
		},
	}
	ctrl := NewOrderController(svc, zap.NewNop())

	body := `{"service":"Beard trim","date":"2026-02-15","time":"14:00","name":"Ivan","phone":"123","id":99,"status":"Done"}`
	rec := httptest.NewRecorder()
	ctrl.Create(rec, httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var order domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, 1, order.ID)
	assert.Equal(t, "New", order.Status)
}

func TestCreate_InvalidJSON(t *testing.T) {
	ctrl := NewOrderController(&mockOrderService{}, zap.NewNop())

	for _, body := range []string{"", "{", "[1,2]"} {
		rec := httptest.NewRecorder()
		ctrl.Create(rec, httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Error)
	}
}

func TestCreate_ValidationError(t *testing.T) {
	svc := &mockOrderService{
		CreateFunc: func(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
			return nil, apperrors.NewValidationError("field phone is required")
		},
	}
	ctrl := NewOrderController(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.Create(rec, httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "field phone is required", decodeError(t, rec).Message)
}

func TestList_PassesSession(t *testing.T) {
	sess := &auth.Session{ID: "s1", Authenticated: true}
	svc := &mockOrderService{
		ListFunc: func(ctx context.Context, got *auth.Session) ([]domain.Order, error) {
			assert.Equal(t, sess, got)
			return []domain.Order{{ID: 2}, {ID: 1}}, nil
		},
	}
	ctrl := NewOrderController(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req = req.WithContext(auth.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	ctrl.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var orders []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}

func TestList_Unauthorized(t *testing.T) {
	svc := &mockOrderService{
		ListFunc: func(ctx context.Context, sess *auth.Session) ([]domain.Order, error) {
			return nil, apperrors.NewAuthorizationError("authorization required")
		},
	}
	ctrl := NewOrderController(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.List(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	svc := &mockOrderService{
		UpdateStatusFunc: func(ctx context.Context, sess *auth.Session, id int, status *string) (*domain.Order, error) {
			require.NotNil(t, status)
			return &domain.Order{ID: id, Status: *status}, nil
		},
	}
	ctrl := NewOrderController(svc, zap.NewNop())

	req := withID(httptest.NewRequest(http.MethodPut, "/api/order/3", strings.NewReader(`{"status":"Confirmed","name":"ignored"}`)), "3")
	rec := httptest.NewRecorder()
	ctrl.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":3,"service":"","date":"","time":"","name":"","phone":"","timestamp":"","status":"Confirmed"}`, rec.Body.String())
}

func TestUpdateStatus_MissingStatus(t *testing.T) {
	svc := &mockOrderService{
		UpdateStatusFunc: func(ctx context.Context, sess *auth.Session, id int, status *string) (*domain.Order, error) {
			assert.Nil(t, status)
			return &domain.Order{ID: id, Status: "New"}, nil
		},
	}
	ctrl := NewOrderController(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.UpdateStatus(rec, withID(httptest.NewRequest(http.MethodPut, "/api/order/1", strings.NewReader(`{}`)), "1"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := &mockOrderService{
		UpdateStatusFunc: func(ctx context.Context, sess *auth.Session, id int, status *string) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order 999 not found")
		},
	}
	ctrl := NewOrderController(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.UpdateStatus(rec, withID(httptest.NewRequest(http.MethodPut, "/api/order/999", strings.NewReader(`{"status":"Done"}`)), "999"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error)
}

func TestInvalidID(t *testing.T) {
	ctrl := NewOrderController(&mockOrderService{}, zap.NewNop())

	for _, id := range []string{"abc", "0", "-1", "1.5"} {
		rec := httptest.NewRecorder()
		ctrl.Delete(rec, withID(httptest.NewRequest(http.MethodDelete, "/api/order/"+id, nil), id))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", id)
		body := decodeError(t, rec)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "id", body.Details[0].Field)
	}
}

func TestDelete(t *testing.T) {
	deleted := 0
	svc := &mockOrderService{
		DeleteFunc: func(ctx context.Context, sess *auth.Session, id int) error {
			deleted = id
			return nil
		},
	}
	ctrl := NewOrderController(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.Delete(rec, withID(httptest.NewRequest(http.MethodDelete, "/api/order/4", nil), "4"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, deleted)
	assert.JSONEq(t, `{"message":"order deleted"}`, rec.Body.String())
}

func TestDelete_StorageError(t *testing.T) {
	svc := &mockOrderService{
		DeleteFunc: func(ctx context.Context, sess *auth.Session, id int) error {
			return apperrors.NewStorageError("saving orders", nil)
		},
	}
	ctrl := NewOrderController(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.Delete(rec, withID(httptest.NewRequest(http.MethodDelete, "/api/order/4", nil), "4"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to save data", decodeError(t, rec).Message)
}
