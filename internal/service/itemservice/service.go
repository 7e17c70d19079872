package itemservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/metrics"
	"almoxarifado/internal/policy"
)

// ReportInvalidator é avisado quando o saldo ou as requisições mudam.
type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service implementa as operações do livro de itens.
type Service struct {
	repo        domain.ItemRepository
	invalidator ReportInvalidator
	logger      logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Itens.
func NewService(repo domain.ItemRepository, invalidator ReportInvalidator, logger logger.Logger) *Service {
	return &Service{repo: repo, invalidator: invalidator, logger: logger}
}

// Register cadastra um novo item. Saldo e mínimo iniciais negativos viram zero.
func (s *Service) Register(ctx context.Context, actor domain.Actor, reg domain.ItemRegistration) (domain.Item, error) {
	// 1. Autorização
	if err := policy.Authorize(actor, policy.RegisterItem); err != nil {
		return domain.Item{}, err
	}

	// 2. Validação
	name := strings.TrimSpace(reg.Name)
	if name == "" {
		return domain.Item{}, apperror.NewValidationError("O nome do item é obrigatório.")
	}

	// 3. Persistência
	item, err := s.repo.Save(ctx, domain.Item{
		Name:     name,
		Code:     strings.TrimSpace(reg.Code),
		Unit:     strings.TrimSpace(reg.Unit),
		Category: strings.TrimSpace(reg.Category),
		Location: strings.TrimSpace(reg.Location),
		Qty:      domain.ClampQty(reg.Qty),
		Min:      domain.ClampQty(reg.Min),
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("falha ao salvar item no repositório: %w", err)
	}

	s.invalidator.Invalidate(ctx)
	s.logger.Info("Item cadastrado.", map[string]interface{}{"item_id": item.ID, "name": item.Name, "by": actor.ID})
	return item, nil
}

// List devolve todos os itens ordenados por nome.
func (s *Service) List(ctx context.Context) ([]domain.Item, error) {
	return s.repo.FindAll(ctx)
}

// Get busca um item pelo ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Item, error) {
	return s.repo.FindByID(ctx, id)
}

// Entry soma qty ao saldo do item.
func (s *Service) Entry(ctx context.Context, actor domain.Actor, id string, qty int) (domain.StockResult, error) {
	if qty <= 0 {
		return domain.StockResult{}, apperror.NewValidationError("A quantidade de entrada deve ser positiva.")
	}
	return s.Adjust(ctx, actor, id, qty)
}

// Withdraw subtrai qty do saldo do item, sem deixá-lo negativo.
func (s *Service) Withdraw(ctx context.Context, actor domain.Actor, id string, qty int) (domain.StockResult, error) {
	if qty <= 0 {
		return domain.StockResult{}, apperror.NewValidationError("A quantidade de saída deve ser positiva.")
	}
	return s.Adjust(ctx, actor, id, -qty)
}

// Adjust aplica um ajuste manual (positivo ou negativo) ao saldo do item.
// O saldo resultante é limitado a zero e o resultado informa se ficou abaixo do mínimo.
func (s *Service) Adjust(ctx context.Context, actor domain.Actor, id string, delta int) (domain.StockResult, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{"item_id": id, "delta": delta})

	if err := policy.Authorize(actor, policy.AdjustStock); err != nil {
		return domain.StockResult{}, err
	}
	if delta == 0 {
		return domain.StockResult{}, apperror.NewValidationError("O ajuste de estoque (delta) não pode ser zero.")
	}

	item, err := s.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.StockResult{}, err
		}
		var conflictErr *apperror.ConflictError
		if errors.As(err, &conflictErr) {
			return domain.StockResult{}, apperror.NewConflictError(fmt.Sprintf("Falha de concorrência: %s", conflictErr.Error()))
		}
		s.logger.Error("Falha ao ajustar estoque no repositório.", err)
		return domain.StockResult{}, apperror.NewInternalError("Falha interna ao ajustar estoque.", err)
	}

	kind := "entry"
	if delta < 0 {
		kind = "withdraw"
	}
	metrics.StockMovements.WithLabelValues(kind).Inc()
	s.invalidator.Invalidate(ctx)

	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"item_id":     item.ID,
		"delta":       delta,
		"new_qty":     item.Qty,
		"new_version": item.Version,
		"below_min":   item.BelowMin(),
	})
	return domain.StockResult{Item: item, BelowMin: item.BelowMin()}, nil
}

// SetMinimum altera o estoque mínimo do item. Valores negativos viram zero.
func (s *Service) SetMinimum(ctx context.Context, actor domain.Actor, id string, min int) (domain.Item, error) {
	if err := policy.Authorize(actor, policy.SetMinimum); err != nil {
		return domain.Item{}, err
	}

	item, err := s.repo.SetMinimum(ctx, id, domain.ClampQty(min))
	if err != nil {
		return domain.Item{}, err
	}

	s.invalidator.Invalidate(ctx)
	s.logger.Info("Estoque mínimo alterado.", map[string]interface{}{"item_id": id, "min": item.Min})
	return item, nil
}
