package item

import (
	"context"
	"encoding/json"
	"net/http"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/middleware"
	"almoxarifado/internal/pkg/respond"
)

// ItemService define o contrato que o Handler espera da camada de Serviço.
type ItemService interface {
	Register(ctx context.Context, actor domain.Actor, reg domain.ItemRegistration) (domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id string) (domain.Item, error)
	Entry(ctx context.Context, actor domain.Actor, id string, qty int) (domain.StockResult, error)
	Withdraw(ctx context.Context, actor domain.Actor, id string, qty int) (domain.StockResult, error)
	Adjust(ctx context.Context, actor domain.Actor, id string, delta int) (domain.StockResult, error)
	SetMinimum(ctx context.Context, actor domain.Actor, id string, min int) (domain.Item, error)
}

// Handler agrupa todos os métodos de Handler de itens.
type Handler struct {
	Service ItemService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ItemService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	respond.Handle(w, r, h.Logger, data, err, successStatus)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return false
	}
	return true
}

// RegisterItemHandler lida com a requisição POST /v1/items.
// @Summary Cadastra um item
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body domain.ItemRegistration true "Dados do item"
// @Success 201 {object} domain.Item
// @Failure 400 {object} domain.ErrorResponse "Nome ausente ou payload inválido"
// @Failure 403 {object} domain.ErrorResponse "Papel sem permissão"
// @Router /items [post]
func (h *Handler) RegisterItemHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.ItemRegistration
	if !h.decode(w, r, &reg) {
		return
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	item, err := h.Service.Register(r.Context(), actor, reg)
	h.handleServiceResponse(w, r, item, err, http.StatusCreated)
}

// ListItemsHandler lida com a requisição GET /v1/items.
// @Summary Lista os itens e seus saldos
// @Tags items
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Item
// @Router /items [get]
func (h *Handler) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	h.handleServiceResponse(w, r, items, err, http.StatusOK)
}

// GetItemHandler lida com a requisição GET /v1/items/{id}.
// @Summary Busca um item
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do item"
// @Success 200 {object} domain.Item
// @Failure 404 {object} domain.ErrorResponse
// @Router /items/{id} [get]
func (h *Handler) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.Get(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, item, err, http.StatusOK)
}

// EntryHandler lida com a requisição POST /v1/items/{id}/entry.
// @Summary Entrada de estoque
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do item"
// @Param movement body domain.StockMovement true "Quantidade de entrada"
// @Success 200 {object} domain.StockResult
// @Router /items/{id}/entry [post]
func (h *Handler) EntryHandler(w http.ResponseWriter, r *http.Request) {
	var mv domain.StockMovement
	if !h.decode(w, r, &mv) {
		return
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	res, err := h.Service.Entry(r.Context(), actor, r.PathValue("id"), mv.Qty)
	h.handleServiceResponse(w, r, res, err, http.StatusOK)
}

// WithdrawHandler lida com a requisição POST /v1/items/{id}/withdraw.
// @Summary Saída de estoque
// @Description O saldo nunca fica negativo; below_min indica saldo abaixo do mínimo.
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do item"
// @Param movement body domain.StockMovement true "Quantidade de saída"
// @Success 200 {object} domain.StockResult
// @Router /items/{id}/withdraw [post]
func (h *Handler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	var mv domain.StockMovement
	if !h.decode(w, r, &mv) {
		return
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	res, err := h.Service.Withdraw(r.Context(), actor, r.PathValue("id"), mv.Qty)
	h.handleServiceResponse(w, r, res, err, http.StatusOK)
}

// AdjustHandler lida com a requisição PATCH /v1/items/{id}/adjust.
// @Summary Ajuste manual de estoque
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do item"
// @Param adjustment body domain.StockAdjustment true "Delta positivo ou negativo"
// @Success 200 {object} domain.StockResult
// @Failure 409 {object} domain.ErrorResponse "Conflito de concorrência"
// @Router /items/{id}/adjust [patch]
func (h *Handler) AdjustHandler(w http.ResponseWriter, r *http.Request) {
	var adj domain.StockAdjustment
	if !h.decode(w, r, &adj) {
		return
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	res, err := h.Service.Adjust(r.Context(), actor, r.PathValue("id"), adj.Delta)
	h.handleServiceResponse(w, r, res, err, http.StatusOK)
}

// SetMinimumHandler lida com a requisição PUT /v1/items/{id}/min.
// @Summary Altera o estoque mínimo
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do item"
// @Param minimum body domain.MinimumUpdate true "Novo mínimo"
// @Success 200 {object} domain.Item
// @Router /items/{id}/min [put]
func (h *Handler) SetMinimumHandler(w http.ResponseWriter, r *http.Request) {
	var upd domain.MinimumUpdate
	if !h.decode(w, r, &upd) {
		return
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	item, err := h.Service.SetMinimum(r.Context(), actor, r.PathValue("id"), upd.Min)
	h.handleServiceResponse(w, r, item, err, http.StatusOK)
}
