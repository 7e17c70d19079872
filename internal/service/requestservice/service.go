package requestservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/metrics"
	"almoxarifado/internal/policy"
	"almoxarifado/internal/reconciliation"
)

// Escopos aceitos por List.
const (
	ScopeAll  = "all"
	ScopeMine = "mine"
	ScopeOpen = "open"
)

// ReportInvalidator é avisado quando requisições ou saldos mudam.
type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}

// DeliveryResult é devolvido após o registro de uma entrega.
type DeliveryResult struct {
	Request    domain.Request         `json:"request"`
	Summary    reconciliation.Summary `json:"summary"`
	ItemDeltas []domain.ItemDelta     `json:"item_deltas"`
}

// Service orquestra o ciclo de vida das requisições de material.
type Service struct {
	items       domain.ItemRepository
	requests    domain.RequestRepository
	tx          domain.TxRunner
	invalidator ReportInvalidator
	logger      logger.Logger
	now         func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Requisições.
func NewService(items domain.ItemRepository, requests domain.RequestRepository, tx domain.TxRunner, invalidator ReportInvalidator, logger logger.Logger) *Service {
	return &Service{
		items:       items,
		requests:    requests,
		tx:          tx,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock troca o relógio usado na data de criação das requisições.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit cria uma requisição PENDENTE com recebimentos zerados.
// Nome, código e unidade de cada linha são copiados do item.
func (s *Service) Submit(ctx context.Context, actor domain.Actor, sub domain.RequestSubmission) (domain.Request, error) {
	// 1. Autorização
	if err := policy.Authorize(actor, policy.SubmitRequest); err != nil {
		return domain.Request{}, err
	}

	// 2. Validação das linhas
	if len(sub.Lines) == 0 {
		return domain.Request{}, apperror.NewValidationError("A requisição precisa de ao menos uma linha.")
	}

	lines := make([]domain.RequestLine, 0, len(sub.Lines))
	for i, draft := range sub.Lines {
		if draft.Qty <= 0 {
			return domain.Request{}, apperror.NewValidationError(fmt.Sprintf("Linha %d: a quantidade deve ser positiva.", i+1))
		}
		if draft.Qty > domain.MaxQty {
			return domain.Request{}, apperror.NewValidationError(fmt.Sprintf("Linha %d: a quantidade excede o máximo de %d.", i+1, domain.MaxQty))
		}
		if draft.UnitPrice.IsNegative() {
			return domain.Request{}, apperror.NewValidationError(fmt.Sprintf("Linha %d: o preço unitário não pode ser negativo.", i+1))
		}

		item, err := s.items.FindByID(ctx, draft.ItemID)
		if err != nil {
			var notFound *apperror.NotFoundError
			if errors.As(err, &notFound) {
				return domain.Request{}, apperror.NewValidationError(fmt.Sprintf("Linha %d: item %s não existe.", i+1, draft.ItemID))
			}
			return domain.Request{}, err
		}

		lines = append(lines, domain.RequestLine{
			ItemID:    item.ID,
			Name:      item.Name,
			Code:      item.Code,
			Unit:      item.Unit,
			Qty:       draft.Qty,
			UnitPrice: draft.UnitPrice,
		})
	}

	// 3. Montagem e persistência
	req := domain.Request{
		Header: domain.RequestHeader{
			Pedido:      strings.TrimSpace(sub.Pedido),
			Linha:       strings.TrimSpace(sub.Linha),
			Fornecedor:  strings.TrimSpace(sub.Fornecedor),
			Marca:       strings.TrimSpace(sub.Marca),
			CreatedBy:   actor.Name,
			CreatedByID: actor.ID,
			CreatedAt:   s.now(),
		},
		Lines:  lines,
		Status: domain.StatusPendente,
	}

	saved, err := s.requests.Save(ctx, req)
	if err != nil {
		return domain.Request{}, fmt.Errorf("falha ao salvar requisição no repositório: %w", err)
	}

	metrics.RequestsSubmitted.Inc()
	s.invalidator.Invalidate(ctx)
	s.logger.Info("Requisição enviada.", map[string]interface{}{"request_id": saved.ID, "lines": len(saved.Lines), "by": actor.ID})
	return saved, nil
}

// List devolve as requisições conforme o escopo: todas, do próprio ator ou em aberto.
func (s *Service) List(ctx context.Context, actor domain.Actor, scope string) ([]domain.Request, error) {
	if err := policy.Authorize(actor, policy.ViewRequests); err != nil {
		return nil, err
	}

	filter := domain.RequestFilter{}
	switch scope {
	case "", ScopeAll, ScopeOpen:
	case ScopeMine:
		filter.CreatedByID = actor.ID
	default:
		return nil, apperror.NewValidationError(fmt.Sprintf("Escopo '%s' inválido. Use all, mine ou open.", scope))
	}

	reqs, err := s.requests.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Request, 0, len(reqs))
	for _, r := range reqs {
		r = withDerivedStatus(r)
		if scope == ScopeOpen && r.Status == domain.StatusConcluido {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Get busca uma requisição pelo ID.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id string) (domain.Request, error) {
	if err := policy.Authorize(actor, policy.ViewRequests); err != nil {
		return domain.Request{}, err
	}

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return domain.Request{}, err
	}
	return withDerivedStatus(req), nil
}

// ApplyDelivery registra uma entrega parcial ou total e soma os incrementos
// ao saldo dos itens, tudo na mesma unidade de trabalho.
func (s *Service) ApplyDelivery(ctx context.Context, actor domain.Actor, id string, d domain.Delivery) (DeliveryResult, error) {
	s.logger.Debug("Iniciando registro de entrega.", map[string]interface{}{"request_id": id, "lines": len(d.Lines)})

	// 1. Autorização e validação do payload
	if err := policy.Authorize(actor, policy.ApplyDelivery); err != nil {
		return DeliveryResult{}, err
	}
	if d.StatusOverride != nil && !d.StatusOverride.Valid() {
		return DeliveryResult{}, apperror.NewValidationError(fmt.Sprintf("Status '%s' inválido.", *d.StatusOverride))
	}
	if d.DeliveryDate != nil && *d.DeliveryDate != "" {
		if _, err := time.Parse("2006-01-02", reconciliation.DayKey(*d.DeliveryDate)); err != nil {
			return DeliveryResult{}, apperror.NewValidationError(fmt.Sprintf("Data de entrega '%s' inválida. Use AAAA-MM-DD.", *d.DeliveryDate))
		}
	}

	var result DeliveryResult
	err := s.tx.WithinTx(ctx, func(items domain.ItemRepository, requests domain.RequestRepository) error {
		// 2. Carregar a requisição
		req, err := requests.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if unknown := reconciliation.UnknownLines(req, d); len(unknown) > 0 {
			return apperror.NewValidationError(fmt.Sprintf("Linhas não pertencem à requisição: %s", strings.Join(unknown, ", ")))
		}

		// 3. Conciliar e gravar os recebimentos
		outcome := reconciliation.ApplyDelivery(req, d)
		updated, err := requests.UpdateFulfillment(ctx, outcome.Request)
		if err != nil {
			return err
		}

		// 4. Somar os incrementos ao saldo dos itens
		for _, delta := range outcome.ItemDeltas {
			if _, err := items.AdjustQuantity(ctx, delta.ItemID, delta.Delta); err != nil {
				var notFound *apperror.NotFoundError
				if errors.As(err, &notFound) {
					s.logger.Warn("Item da linha não existe; saldo não atualizado.", map[string]interface{}{"request_id": id, "item_id": delta.ItemID, "delta": delta.Delta})
					continue
				}
				return err
			}
		}

		// A resposta carrega o status gravado, inclusive o rebaixamento para PARCIAL.
		summary := reconciliation.Summarize(updated)
		summary.Status = updated.Status

		result = DeliveryResult{
			Request:    updated,
			Summary:    summary,
			ItemDeltas: outcome.ItemDeltas,
		}
		return nil
	})
	if err != nil {
		return DeliveryResult{}, err
	}

	units := 0
	for _, delta := range result.ItemDeltas {
		units += delta.Delta
	}
	metrics.DeliveriesApplied.WithLabelValues(string(result.Request.Status)).Inc()
	metrics.UnitsReceived.Add(float64(units))
	s.invalidator.Invalidate(ctx)

	s.logger.Info("Entrega registrada.", map[string]interface{}{
		"request_id": id,
		"status":     result.Request.Status,
		"delivered":  result.Summary.Delivered,
		"pending":    result.Summary.Pending,
		"units":      units,
		"by":         actor.ID,
	})
	return result, nil
}

// Revert zera os recebimentos da requisição e a devolve para PENDENTE.
// O saldo dos itens não é estornado.
func (s *Service) Revert(ctx context.Context, actor domain.Actor, id string) (domain.Request, error) {
	if err := policy.Authorize(actor, policy.RevertRequest); err != nil {
		return domain.Request{}, err
	}

	var reverted domain.Request
	err := s.tx.WithinTx(ctx, func(_ domain.ItemRepository, requests domain.RequestRepository) error {
		req, err := requests.FindByID(ctx, id)
		if err != nil {
			return err
		}
		reverted, err = requests.UpdateFulfillment(ctx, reconciliation.Revert(req))
		return err
	})
	if err != nil {
		return domain.Request{}, err
	}

	metrics.RequestsReverted.Inc()
	s.invalidator.Invalidate(ctx)
	s.logger.Warn("Requisição revertida para PENDENTE.", map[string]interface{}{"request_id": id, "by": actor.ID})
	return reverted, nil
}

func withDerivedStatus(r domain.Request) domain.Request {
	r.Status = reconciliation.Summarize(r).Status
	return r
}
