package request_test

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

	"almoxarifado/internal/api/request"
	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/middleware"
	"almoxarifado/internal/reconciliation"
	"almoxarifado/internal/service/requestservice"
)

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) Submit(ctx context.Context, actor domain.Actor, sub domain.RequestSubmission) (domain.Request, error) {
	args := m.Called(ctx, actor, sub)
	return args.Get(0).(domain.Request), args.Error(1)
}

func (m *MockRequestService) List(ctx context.Context, actor domain.Actor, scope string) ([]domain.Request, error) {
	args := m.Called(ctx, actor, scope)
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockRequestService) Get(ctx context.Context, actor domain.Actor, id string) (domain.Request, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Request), args.Error(1)
}

func (m *MockRequestService) ApplyDelivery(ctx context.Context, actor domain.Actor, id string, d domain.Delivery) (requestservice.DeliveryResult, error) {
	args := m.Called(ctx, actor, id, d)
	return args.Get(0).(requestservice.DeliveryResult), args.Error(1)
}

func (m *MockRequestService) Revert(ctx context.Context, actor domain.Actor, id string) (domain.Request, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Request), args.Error(1)
}

type MockPDFService struct {
	mock.Mock
}

func (m *MockPDFService) RequestPDF(ctx context.Context, actor domain.Actor, id string) ([]byte, error) {
	args := m.Called(ctx, actor, id)
	var b []byte
	if v := args.Get(0); v != nil {
		b = v.([]byte)
	}
	return b, args.Error(1)
}

var almox = domain.Actor{ID: "u-almox", Name: "Almox", Role: domain.RoleAlmox}

func withActor(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), almox))
}

func TestSubmitRequestHandler_Created(t *testing.T) {
	svc := new(MockRequestService)
	h := request.NewHandler(svc, new(MockPDFService), logger.NewLogger("error"))

	svc.On("Submit", mock.Anything, almox, mock.MatchedBy(func(s domain.RequestSubmission) bool {
		return s.Pedido == "PC-1" && len(s.Lines) == 1 && s.Lines[0].Qty == 4
	})).Return(domain.Request{ID: "r-1", Status: domain.StatusPendente}, nil).Once()

	body := `{"pedido":"PC-1","lines":[{"item_id":"i-1","qty":4,"unit_price":"2.50"}]}`
	rec := httptest.NewRecorder()
	h.SubmitRequestHandler(rec, withActor(httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(body))))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"r-1"`)
	svc.AssertExpectations(t)
}

func TestListRequestsHandler_PassesScope(t *testing.T) {
	svc := new(MockRequestService)
	h := request.NewHandler(svc, new(MockPDFService), logger.NewLogger("error"))

	svc.On("List", mock.Anything, almox, "open").Return([]domain.Request{{ID: "r-1"}, {ID: "r-2"}}, nil).Once()

	rec := httptest.NewRecorder()
	h.ListRequestsHandler(rec, withActor(httptest.NewRequest(http.MethodGet, "/v1/requests?scope=open", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Request
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	svc.AssertExpectations(t)
}

func TestApplyDeliveryHandler_ReturnsSummary(t *testing.T) {
	svc := new(MockRequestService)
	h := request.NewHandler(svc, new(MockPDFService), logger.NewLogger("error"))

	res := requestservice.DeliveryResult{
		Request:    domain.Request{ID: "r-1", Status: domain.StatusParcial},
		Summary:    reconciliation.Summary{Status: domain.StatusParcial, Total: 2, Delivered: 1, Pending: 1},
		ItemDeltas: []domain.ItemDelta{{ItemID: "i-1", Delta: 10}},
	}
	svc.On("ApplyDelivery", mock.Anything, almox, "r-1", mock.MatchedBy(func(d domain.Delivery) bool {
		return len(d.Lines) == 1 && d.Lines[0].LineID == "l-1" && d.Lines[0].Qty == 10
	})).Return(res, nil).Once()

	req := withActor(httptest.NewRequest(http.MethodPost, "/v1/requests/r-1/delivery", strings.NewReader(`{"lines":[{"line_id":"l-1","qty":10}]}`)))
	req.SetPathValue("id", "r-1")
	rec := httptest.NewRecorder()
	h.ApplyDeliveryHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got requestservice.DeliveryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.StatusParcial, got.Summary.Status)
	assert.Equal(t, 10, got.ItemDeltas[0].Delta)
	svc.AssertExpectations(t)
}

func TestApplyDeliveryHandler_InvalidJSON(t *testing.T) {
	svc := new(MockRequestService)
	h := request.NewHandler(svc, new(MockPDFService), logger.NewLogger("error"))

	req := withActor(httptest.NewRequest(http.MethodPost, "/v1/requests/r-1/delivery", strings.NewReader(`[`)))
	req.SetPathValue("id", "r-1")
	rec := httptest.NewRecorder()
	h.ApplyDeliveryHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ApplyDelivery", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRevertRequestHandler_Forbidden(t *testing.T) {
	svc := new(MockRequestService)
	h := request.NewHandler(svc, new(MockPDFService), logger.NewLogger("error"))

	svc.On("Revert", mock.Anything, almox, "r-1").Return(domain.Request{}, apperror.NewForbiddenError("papel")).Once()

	req := withActor(httptest.NewRequest(http.MethodPost, "/v1/requests/r-1/revert", nil))
	req.SetPathValue("id", "r-1")
	rec := httptest.NewRecorder()
	h.RevertRequestHandler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertExpectations(t)
}

func TestRequestPDFHandler_Attachment(t *testing.T) {
	pdf := new(MockPDFService)
	h := request.NewHandler(new(MockRequestService), pdf, logger.NewLogger("error"))

	pdf.On("RequestPDF", mock.Anything, almox, "r-1").Return([]byte("%PDF-1.3"), nil).Once()

	req := withActor(httptest.NewRequest(http.MethodGet, "/v1/requests/r-1/pdf", nil))
	req.SetPathValue("id", "r-1")
	rec := httptest.NewRecorder()
	h.RequestPDFHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "requisicao-r-1.pdf")
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
	pdf.AssertExpectations(t)
}
