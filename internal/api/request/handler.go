package request

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/export"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/middleware"
	"almoxarifado/internal/pkg/respond"
	"almoxarifado/internal/service/requestservice"
)

// RequestService define o contrato que o Handler espera da camada de Serviço.
type RequestService interface {
	Submit(ctx context.Context, actor domain.Actor, sub domain.RequestSubmission) (domain.Request, error)
	List(ctx context.Context, actor domain.Actor, scope string) ([]domain.Request, error)
	Get(ctx context.Context, actor domain.Actor, id string) (domain.Request, error)
	ApplyDelivery(ctx context.Context, actor domain.Actor, id string, d domain.Delivery) (requestservice.DeliveryResult, error)
	Revert(ctx context.Context, actor domain.Actor, id string) (domain.Request, error)
}

// PDFService gera o espelho de uma requisição.
type PDFService interface {
	RequestPDF(ctx context.Context, actor domain.Actor, id string) ([]byte, error)
}

// Handler agrupa todos os métodos de Handler de requisições.
type Handler struct {
	Service RequestService
	PDF     PDFService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando os Services e o Logger.
func NewHandler(svc RequestService, pdf PDFService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		PDF:     pdf,
		Logger:  log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	respond.Handle(w, r, h.Logger, data, err, successStatus)
}

// SubmitRequestHandler lida com a requisição POST /v1/requests.
// @Summary Envia uma requisição de material
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.RequestSubmission true "Cabeçalho e linhas"
// @Success 201 {object} domain.Request
// @Failure 400 {object} domain.ErrorResponse "Linhas ausentes, item inexistente ou quantidade inválida"
// @Router /requests [post]
func (h *Handler) SubmitRequestHandler(w http.ResponseWriter, r *http.Request) {
	var sub domain.RequestSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	req, err := h.Service.Submit(r.Context(), actor, sub)
	h.handleServiceResponse(w, r, req, err, http.StatusCreated)
}

// ListRequestsHandler lida com a requisição GET /v1/requests?scope=all|mine|open.
// @Summary Lista requisições
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param scope query string false "all, mine ou open"
// @Success 200 {array} domain.Request
// @Router /requests [get]
func (h *Handler) ListRequestsHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	reqs, err := h.Service.List(r.Context(), actor, r.URL.Query().Get("scope"))
	h.handleServiceResponse(w, r, reqs, err, http.StatusOK)
}

// GetRequestHandler lida com a requisição GET /v1/requests/{id}.
// @Summary Busca uma requisição
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da requisição"
// @Success 200 {object} domain.Request
// @Failure 404 {object} domain.ErrorResponse
// @Router /requests/{id} [get]
func (h *Handler) GetRequestHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	req, err := h.Service.Get(r.Context(), actor, r.PathValue("id"))
	h.handleServiceResponse(w, r, req, err, http.StatusOK)
}

// RequestPDFHandler lida com a requisição GET /v1/requests/{id}/pdf.
// @Summary Espelho da requisição em PDF
// @Tags requests
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID da requisição"
// @Success 200 {file} binary
// @Router /requests/{id}/pdf [get]
func (h *Handler) RequestPDFHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	id := r.PathValue("id")

	doc, err := h.PDF.RequestPDF(r.Context(), actor, id)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	respond.File(w, export.ContentTypePDF, fmt.Sprintf("requisicao-%s.pdf", id), doc)
}

// ApplyDeliveryHandler lida com a requisição POST /v1/requests/{id}/delivery.
// @Summary Registra uma entrega
// @Description Soma os incrementos às linhas pendentes e ao saldo dos itens. CONCLUÍDO com linhas pendentes vira PARCIAL.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da requisição"
// @Param delivery body domain.Delivery true "Incrementos por linha"
// @Success 200 {object} requestservice.DeliveryResult
// @Failure 400 {object} domain.ErrorResponse "Linha desconhecida, status ou data inválidos"
// @Failure 409 {object} domain.ErrorResponse "Requisição modificada por outra operação"
// @Router /requests/{id}/delivery [post]
func (h *Handler) ApplyDeliveryHandler(w http.ResponseWriter, r *http.Request) {
	var d domain.Delivery
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	res, err := h.Service.ApplyDelivery(r.Context(), actor, r.PathValue("id"), d)
	h.handleServiceResponse(w, r, res, err, http.StatusOK)
}

// RevertRequestHandler lida com a requisição POST /v1/requests/{id}/revert.
// @Summary Reverte a requisição para PENDENTE
// @Description Zera os recebimentos. O saldo dos itens não é estornado.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da requisição"
// @Success 200 {object} domain.Request
// @Router /requests/{id}/revert [post]
func (h *Handler) RevertRequestHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	req, err := h.Service.Revert(r.Context(), actor, r.PathValue("id"))
	h.handleServiceResponse(w, r, req, err, http.StatusOK)
}
