package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "almoxarifado/docs" // registra o swagger.json gerado pelo swag

	"almoxarifado/internal/api/item"
	"almoxarifado/internal/api/report"
	"almoxarifado/internal/api/request"
	"almoxarifado/internal/api/user"
	"almoxarifado/internal/pkg/cache"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/metrics"
	"almoxarifado/internal/pkg/middleware"
	"almoxarifado/internal/policy"
)

// Deps reúne os handlers e a infraestrutura usados pelo roteador.
type Deps struct {
	Items    *item.Handler
	Requests *request.Handler
	Reports  *report.Handler
	Users    *user.Handler

	TokenSvc middleware.TokenService
	Cache    cache.Client
	Logger   logger.Logger

	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
	MetricsEnabled       bool
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(d.TokenSvc, d.Logger)
	// protected exige token válido e a capacidade informada.
	protected := func(c policy.Capability, h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireCapability(c, d.Logger)(h))
	}

	// --- 1. Health check, métricas e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	if d.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// --- 2. Autenticação e usuários ---
	mux.HandleFunc("POST /v1/login", d.Users.LoginUserHandler)
	mux.HandleFunc("GET /v1/me", auth(d.Users.MeHandler))
	mux.HandleFunc("GET /v1/users", protected(policy.ManageUsers, d.Users.ListUsersHandler))
	mux.HandleFunc("POST /v1/users", protected(policy.ManageUsers, d.Users.RegisterUserHandler))
	mux.HandleFunc("PUT /v1/users/{id}/role", protected(policy.ManageUsers, d.Users.UpdateRoleHandler))
	mux.HandleFunc("DELETE /v1/users/{id}", protected(policy.ManageUsers, d.Users.DeleteUserHandler))

	// --- 3. Livro de itens ---
	mux.HandleFunc("GET /v1/items", auth(d.Items.ListItemsHandler))
	mux.HandleFunc("POST /v1/items", protected(policy.RegisterItem, d.Items.RegisterItemHandler))
	mux.HandleFunc("GET /v1/items/{id}", auth(d.Items.GetItemHandler))
	mux.HandleFunc("POST /v1/items/{id}/entry", protected(policy.AdjustStock, d.Items.EntryHandler))
	mux.HandleFunc("POST /v1/items/{id}/withdraw", protected(policy.AdjustStock, d.Items.WithdrawHandler))
	mux.HandleFunc("PATCH /v1/items/{id}/adjust", protected(policy.AdjustStock, d.Items.AdjustHandler))
	mux.HandleFunc("PUT /v1/items/{id}/min", protected(policy.SetMinimum, d.Items.SetMinimumHandler))

	// --- 4. Requisições ---
	mux.HandleFunc("GET /v1/requests", protected(policy.ViewRequests, d.Requests.ListRequestsHandler))
	mux.HandleFunc("POST /v1/requests", protected(policy.SubmitRequest, d.Requests.SubmitRequestHandler))
	mux.HandleFunc("GET /v1/requests/{id}", protected(policy.ViewRequests, d.Requests.GetRequestHandler))
	mux.HandleFunc("GET /v1/requests/{id}/pdf", protected(policy.ViewRequests, d.Requests.RequestPDFHandler))
	mux.HandleFunc("POST /v1/requests/{id}/delivery", protected(policy.ApplyDelivery, d.Requests.ApplyDeliveryHandler))
	mux.HandleFunc("POST /v1/requests/{id}/revert", protected(policy.RevertRequest, d.Requests.RevertRequestHandler))

	// --- 5. Relatórios ---
	mux.HandleFunc("GET /v1/reports/calendar", protected(policy.ViewReports, d.Reports.CalendarHandler))
	mux.HandleFunc("GET /v1/reports/calendar/{day}", protected(policy.ViewReports, d.Reports.DayHandler))
	mux.HandleFunc("GET /v1/reports/summary", protected(policy.ViewReports, d.Reports.SummaryHandler))
	mux.HandleFunc("GET /v1/reports/summary.xlsx", protected(policy.ViewReports, d.Reports.SummaryXLSXHandler))
	mux.HandleFunc("GET /v1/reports/summary.pdf", protected(policy.ViewReports, d.Reports.SummaryPDFHandler))

	// --- 6. Middlewares globais ---
	var h http.Handler = mux
	if d.RateLimitMaxRequests > 0 {
		h = middleware.RateLimiter(d.Cache, d.RateLimitMaxRequests, d.RateLimitPeriod, d.Logger)(h)
	}
	if d.MetricsEnabled {
		h = middleware.Metrics(h)
	}
	return h
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
