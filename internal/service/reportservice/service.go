package reportservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"almoxarifado/internal/calendar"
	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/cache"
	"almoxarifado/internal/pkg/export"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/policy"
	"almoxarifado/internal/reconciliation"
	"almoxarifado/internal/summary"
)

// GenerationKey guarda o contador que invalida os relatórios em cache.
const GenerationKey = "report:generation"

// CalendarMonth é o calendário de entregas de um mês.
type CalendarMonth struct {
	Year  int                      `json:"year"`
	Month int                      `json:"month"`
	Days  map[string]domain.Status `json:"days"`
	Weeks [][7]int                 `json:"weeks"`
}

// DayView lista as requisições com entrega num dia.
type DayView struct {
	Day      string           `json:"day"`
	Requests []domain.Request `json:"requests"`
}

// SummaryReport consolida as requisições filtradas pela busca.
type SummaryReport struct {
	Query     string               `json:"query"`
	Items     []summary.ItemTotals `json:"items"`
	Open      []domain.Request     `json:"open"`
	Concluded []domain.Request     `json:"concluded"`
}

// Service monta os relatórios de calendário e resumo.
type Service struct {
	requests domain.RequestRepository
	cache    cache.Client
	ttl      time.Duration
	logger   logger.Logger
	now      func() time.Time
}

// NewService cria o serviço de relatórios. ttl é a validade do calendário em cache.
func NewService(requests domain.RequestRepository, cacheClient cache.Client, ttl time.Duration, logger logger.Logger) *Service {
	return &Service{
		requests: requests,
		cache:    cacheClient,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Invalidate descarta os relatórios em cache incrementando a geração.
func (s *Service) Invalidate(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, GenerationKey); err != nil {
		s.logger.Warn("Falha ao invalidar cache de relatórios.", map[string]interface{}{"error": err.Error()})
	}
}

// Calendar devolve o status mais grave de cada dia com entregas no mês.
// O resultado fica em cache até a próxima escrita em requisições ou itens.
func (s *Service) Calendar(ctx context.Context, actor domain.Actor, year, month int) (CalendarMonth, error) {
	if err := policy.Authorize(actor, policy.ViewReports); err != nil {
		return CalendarMonth{}, err
	}
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return CalendarMonth{}, apperror.NewValidationError(fmt.Sprintf("Mês %04d-%02d inválido.", year, month))
	}

	// 1. Tentar o cache
	key := s.calendarKey(ctx, year, month)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached CalendarMonth
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			s.logger.Debug("Calendário servido do cache.", map[string]interface{}{"key": key})
			return cached, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Falha ao ler calendário do cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Montar a partir das requisições
	reqs, err := s.requests.FindAll(ctx, domain.RequestFilter{})
	if err != nil {
		return CalendarMonth{}, err
	}
	result := CalendarMonth{
		Year:  year,
		Month: month,
		Days:  calendar.BuildMonth(reqs, year, time.Month(month)),
		Weeks: calendar.Grid(year, time.Month(month)),
	}

	// 3. Gravar no cache
	if raw, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.logger.Warn("Falha ao gravar calendário no cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return result, nil
}

// Day lista as requisições com entrega no dia (YYYY-MM-DD).
func (s *Service) Day(ctx context.Context, actor domain.Actor, day string) (DayView, error) {
	if err := policy.Authorize(actor, policy.ViewReports); err != nil {
		return DayView{}, err
	}
	key := reconciliation.DayKey(day)
	if _, err := time.Parse("2006-01-02", key); err != nil {
		return DayView{}, apperror.NewValidationError(fmt.Sprintf("Dia '%s' inválido. Use AAAA-MM-DD.", day))
	}

	reqs, err := s.requests.FindAll(ctx, domain.RequestFilter{})
	if err != nil {
		return DayView{}, err
	}
	return DayView{Day: key, Requests: withDerivedStatus(calendar.DayDetail(reqs, key))}, nil
}

// Summary consolida por item as requisições que casam com a busca.
func (s *Service) Summary(ctx context.Context, actor domain.Actor, query string) (SummaryReport, error) {
	if err := policy.Authorize(actor, policy.ViewReports); err != nil {
		return SummaryReport{}, err
	}

	reqs, err := s.requests.FindAll(ctx, domain.RequestFilter{})
	if err != nil {
		return SummaryReport{}, err
	}
	reqs = withDerivedStatus(summary.Filter(reqs, query))
	open, concluded := summary.Partition(reqs)

	return SummaryReport{
		Query:     query,
		Items:     summary.Ordered(summary.AggregateByItem(reqs)),
		Open:      open,
		Concluded: concluded,
	}, nil
}

// SummaryXLSX exporta o resumo como planilha.
func (s *Service) SummaryXLSX(ctx context.Context, actor domain.Actor, query string) ([]byte, error) {
	rep, err := s.Summary(ctx, actor, query)
	if err != nil {
		return nil, err
	}
	data, err := export.SummaryXLSX(rep.Items, rep.Open, rep.Concluded)
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao gerar planilha do resumo.", err)
	}
	return data, nil
}

// SummaryPDF exporta o resumo como PDF.
func (s *Service) SummaryPDF(ctx context.Context, actor domain.Actor, query string) ([]byte, error) {
	rep, err := s.Summary(ctx, actor, query)
	if err != nil {
		return nil, err
	}
	data, err := export.SummaryPDF(rep.Items, rep.Open, rep.Concluded, s.now())
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao gerar PDF do resumo.", err)
	}
	return data, nil
}

// RequestPDF exporta o espelho de uma requisição.
func (s *Service) RequestPDF(ctx context.Context, actor domain.Actor, id string) ([]byte, error) {
	if err := policy.Authorize(actor, policy.ViewRequests); err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := export.RequestPDF(req)
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao gerar PDF da requisição.", err)
	}
	return data, nil
}

func (s *Service) calendarKey(ctx context.Context, year, month int) string {
	gen, err := s.cache.GetInt(ctx, GenerationKey)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Falha ao ler geração do cache de relatórios.", map[string]interface{}{"error": err.Error()})
	}
	return fmt.Sprintf("report:calendar:%d:%04d-%02d", gen, year, month)
}

func withDerivedStatus(reqs []domain.Request) []domain.Request {
	for i := range reqs {
		reqs[i].Status = reconciliation.Summarize(reqs[i]).Status
	}
	return reqs
}
