package user

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

// UserService define o contrato para as operações de usuários e login.
type UserService interface {
	Register(ctx context.Context, actor domain.Actor, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, username string, password string) (domain.LoginResult, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.User, error)
	UpdateRole(ctx context.Context, actor domain.Actor, id string, role domain.UserRole) (domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	respond.Handle(w, r, h.Logger, data, err, successStatus)
}

// LoginUserHandler lida com a requisição POST /v1/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe usuário/senha, verifica a validade e emite um JSON Web Token.
// @Tags users
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário"
// @Success 200 {object} domain.LoginResult "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusBadRequest)
		return
	}

	res, err := h.Service.Login(r.Context(), loginReq.Username, loginReq.Password)
	h.handleServiceResponse(w, r, res, err, http.StatusOK)
}

// MeHandler lida com a requisição GET /v1/me.
// @Summary Devolve o ator autenticado
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Actor
// @Router /me [get]
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, actor, nil, http.StatusOK)
}

// RegisterUserHandler lida com a requisição POST /v1/users.
// @Summary Cadastra um usuário
// @Description Apenas ADMIN. A senha é armazenada com bcrypt.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registration body domain.UserRegistration true "Dados do usuário"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou campos obrigatórios ausentes"
// @Failure 409 {object} domain.ErrorResponse "Usuário já cadastrado"
// @Router /users [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusBadRequest)
		return
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	// O PasswordHash não é serializado (tag json:"-").
	newUser, err := h.Service.Register(r.Context(), actor, reg)
	h.handleServiceResponse(w, r, newUser, err, http.StatusCreated)
}

// ListUsersHandler lida com a requisição GET /v1/users.
// @Summary Lista os usuários
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.User
// @Router /users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	users, err := h.Service.List(r.Context(), actor)
	h.handleServiceResponse(w, r, users, err, http.StatusOK)
}

// UpdateRoleHandler lida com a requisição PUT /v1/users/{id}/role.
// @Summary Altera o papel de um usuário
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Param role body domain.RoleUpdate true "Novo papel"
// @Success 200 {object} domain.User
// @Failure 409 {object} domain.ErrorResponse "Último ADMIN"
// @Router /users/{id}/role [put]
func (h *Handler) UpdateRoleHandler(w http.ResponseWriter, r *http.Request) {
	var upd domain.RoleUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusBadRequest)
		return
	}
	actor, _ := middleware.ActorFromContext(r.Context())

	u, err := h.Service.UpdateRole(r.Context(), actor, r.PathValue("id"), upd.Role)
	h.handleServiceResponse(w, r, u, err, http.StatusOK)
}

// DeleteUserHandler lida com a requisição DELETE /v1/users/{id}.
// @Summary Remove um usuário
// @Tags users
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 204
// @Failure 409 {object} domain.ErrorResponse "Último ADMIN"
// @Router /users/{id} [delete]
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	err := h.Service.Delete(r.Context(), actor, r.PathValue("id"))
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}
