package report

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/export"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/middleware"
	"almoxarifado/internal/pkg/respond"
	"almoxarifado/internal/service/reportservice"
)

// ReportService define o contrato que o Handler espera da camada de Serviço.
type ReportService interface {
	Calendar(ctx context.Context, actor domain.Actor, year, month int) (reportservice.CalendarMonth, error)
	Day(ctx context.Context, actor domain.Actor, day string) (reportservice.DayView, error)
	Summary(ctx context.Context, actor domain.Actor, query string) (reportservice.SummaryReport, error)
	SummaryXLSX(ctx context.Context, actor domain.Actor, query string) ([]byte, error)
	SummaryPDF(ctx context.Context, actor domain.Actor, query string) ([]byte, error)
}

// Handler agrupa os endpoints de relatórios.
type Handler struct {
	Service ReportService
	Logger  logger.Logger
	now     func() time.Time
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ReportService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
		now:     time.Now,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	respond.Handle(w, r, h.Logger, data, err, successStatus)
}

// CalendarHandler lida com a requisição GET /v1/reports/calendar?year=&month=.
// Sem parâmetros, usa o mês corrente.
// @Summary Calendário de entregas do mês
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Ano"
// @Param month query int false "Mês (1-12)"
// @Success 200 {object} reportservice.CalendarMonth
// @Failure 400 {object} domain.ErrorResponse
// @Router /reports/calendar [get]
func (h *Handler) CalendarHandler(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year, month := now.Year(), int(now.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Parâmetro 'year' deve ser numérico."), http.StatusBadRequest)
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Parâmetro 'month' deve ser numérico."), http.StatusBadRequest)
			return
		}
		month = n
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	res, err := h.Service.Calendar(r.Context(), actor, year, month)
	h.handleServiceResponse(w, r, res, err, http.StatusOK)
}

// DayHandler lida com a requisição GET /v1/reports/calendar/{day}.
// @Summary Requisições com entrega no dia
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param day path string true "Dia no formato AAAA-MM-DD"
// @Success 200 {object} reportservice.DayView
// @Router /reports/calendar/{day} [get]
func (h *Handler) DayHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	res, err := h.Service.Day(r.Context(), actor, r.PathValue("day"))
	h.handleServiceResponse(w, r, res, err, http.StatusOK)
}

// SummaryHandler lida com a requisição GET /v1/reports/summary?q=.
// @Summary Resumo por item e requisições abertas/concluídas
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busca em pedido, fornecedor, marca e linha"
// @Success 200 {object} reportservice.SummaryReport
// @Router /reports/summary [get]
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	res, err := h.Service.Summary(r.Context(), actor, r.URL.Query().Get("q"))
	h.handleServiceResponse(w, r, res, err, http.StatusOK)
}

// SummaryXLSXHandler lida com a requisição GET /v1/reports/summary.xlsx?q=.
// @Summary Resumo em planilha
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param q query string false "Busca"
// @Success 200 {file} binary
// @Router /reports/summary.xlsx [get]
func (h *Handler) SummaryXLSXHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	data, err := h.Service.SummaryXLSX(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	respond.File(w, export.ContentTypeXLSX, "resumo-"+h.now().Format("20060102")+".xlsx", data)
}

// SummaryPDFHandler lida com a requisição GET /v1/reports/summary.pdf?q=.
// @Summary Resumo em PDF
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param q query string false "Busca"
// @Success 200 {file} binary
// @Router /reports/summary.pdf [get]
func (h *Handler) SummaryPDFHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	data, err := h.Service.SummaryPDF(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	respond.File(w, export.ContentTypePDF, "resumo-"+h.now().Format("20060102")+".pdf", data)
}
