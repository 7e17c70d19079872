package item_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"almoxarifado/internal/api/item"
	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/middleware"
)

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Register(ctx context.Context, actor domain.Actor, reg domain.ItemRegistration) (domain.Item, error) {
	args := m.Called(ctx, actor, reg)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemService) Get(ctx context.Context, id string) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) Entry(ctx context.Context, actor domain.Actor, id string, qty int) (domain.StockResult, error) {
	args := m.Called(ctx, actor, id, qty)
	return args.Get(0).(domain.StockResult), args.Error(1)
}

func (m *MockItemService) Withdraw(ctx context.Context, actor domain.Actor, id string, qty int) (domain.StockResult, error) {
	args := m.Called(ctx, actor, id, qty)
	return args.Get(0).(domain.StockResult), args.Error(1)
}

func (m *MockItemService) Adjust(ctx context.Context, actor domain.Actor, id string, delta int) (domain.StockResult, error) {
	args := m.Called(ctx, actor, id, delta)
	return args.Get(0).(domain.StockResult), args.Error(1)
}

func (m *MockItemService) SetMinimum(ctx context.Context, actor domain.Actor, id string, min int) (domain.Item, error) {
	args := m.Called(ctx, actor, id, min)
	return args.Get(0).(domain.Item), args.Error(1)
}

var almox = domain.Actor{ID: "u-almox", Name: "Almox", Role: domain.RoleAlmox}

func newRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithActor(req.Context(), almox))
}

func TestRegisterItemHandler_Created(t *testing.T) {
	svc := new(MockItemService)
	h := item.NewHandler(svc, logger.NewLogger("error"))

	reg := domain.ItemRegistration{Name: "Parafuso", Unit: "un", Min: 5}
	svc.On("Register", mock.Anything, almox, reg).Return(domain.Item{ID: "i-1", Name: "Parafuso", Unit: "un", Min: 5}, nil).Once()

	rec := httptest.NewRecorder()
	h.RegisterItemHandler(rec, newRequest(http.MethodPost, "/v1/items", `{"name":"Parafuso","unit":"un","min":5}`))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "i-1", got.ID)
	svc.AssertExpectations(t)
}

func TestRegisterItemHandler_InvalidJSON(t *testing.T) {
	svc := new(MockItemService)
	h := item.NewHandler(svc, logger.NewLogger("error"))

	rec := httptest.NewRecorder()
	h.RegisterItemHandler(rec, newRequest(http.MethodPost, "/v1/items", `{"name":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetItemHandler_NotFound(t *testing.T) {
	svc := new(MockItemService)
	h := item.NewHandler(svc, logger.NewLogger("error"))

	svc.On("Get", mock.Anything, "nope").Return(domain.Item{}, apperror.NewNotFoundError("item")).Once()

	req := newRequest(http.MethodGet, "/v1/items/nope", "")
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.GetItemHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}

func TestWithdrawHandler_ReportsBelowMin(t *testing.T) {
	svc := new(MockItemService)
	h := item.NewHandler(svc, logger.NewLogger("error"))

	res := domain.StockResult{Item: domain.Item{ID: "i-1", Qty: 2, Min: 5}, BelowMin: true}
	svc.On("Withdraw", mock.Anything, almox, "i-1", 3).Return(res, nil).Once()

	req := newRequest(http.MethodPost, "/v1/items/i-1/withdraw", `{"qty":3}`)
	req.SetPathValue("id", "i-1")
	rec := httptest.NewRecorder()
	h.WithdrawHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.StockResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.BelowMin)
	assert.Equal(t, 2, got.Item.Qty)
	svc.AssertExpectations(t)
}

func TestAdjustHandler_Conflict(t *testing.T) {
	svc := new(MockItemService)
	h := item.NewHandler(svc, logger.NewLogger("error"))

	svc.On("Adjust", mock.Anything, almox, "i-1", -4).Return(domain.StockResult{}, apperror.NewConflictError("versão")).Once()

	req := newRequest(http.MethodPatch, "/v1/items/i-1/adjust", `{"delta":-4}`)
	req.SetPathValue("id", "i-1")
	rec := httptest.NewRecorder()
	h.AdjustHandler(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFLICT")
	svc.AssertExpectations(t)
}

func TestSetMinimumHandler_Forbidden(t *testing.T) {
	svc := new(MockItemService)
	h := item.NewHandler(svc, logger.NewLogger("error"))

	svc.On("SetMinimum", mock.Anything, almox, "i-1", 10).Return(domain.Item{}, apperror.NewForbiddenError("papel")).Once()

	req := newRequest(http.MethodPut, "/v1/items/i-1/min", `{"min":10}`)
	req.SetPathValue("id", "i-1")
	rec := httptest.NewRecorder()
	h.SetMinimumHandler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertExpectations(t)
}
