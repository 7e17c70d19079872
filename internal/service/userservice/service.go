package userservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/policy"
)

// DefaultAdminUsername é o login criado por EnsureAdmin.
const DefaultAdminUsername = "admin"

// TokenService é o contrato da camada de token (internal/pkg/token)
type TokenService interface {
	GenerateToken(userID, name, role string) (string, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo domain.UserRepository, tokenSvc TokenService, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Register cadastra um novo usuário. Apenas ADMIN pode cadastrar.
func (s *UserService) Register(ctx context.Context, actor domain.Actor, reg domain.UserRegistration) (domain.User, error) {
	// 1. Autorização e validação básica
	if err := policy.Authorize(actor, policy.ManageUsers); err != nil {
		return domain.User{}, err
	}
	name := strings.TrimSpace(reg.Name)
	username := strings.TrimSpace(reg.Username)
	if name == "" || username == "" || reg.Password == "" {
		return domain.User{}, apperror.NewValidationError("Nome, usuário e senha são obrigatórios.")
	}
	if reg.Role == "" {
		reg.Role = domain.RoleSolicitante
	}
	if !reg.Role.Valid() {
		return domain.User{}, apperror.NewValidationError(fmt.Sprintf("Papel '%s' inválido.", reg.Role))
	}

	// 2. Hashing e persistência
	user, err := s.create(ctx, name, username, reg.Password, reg.Role)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário cadastrado.", map[string]interface{}{"user_id": user.ID, "username": user.Username, "role": user.Role, "by": actor.ID})
	return user, nil
}

func (s *UserService) create(ctx context.Context, name, username, password string, role domain.UserRole) (domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// O repositório traduz username duplicado em ConflictError (409)
	return s.UserRepo.Save(ctx, domain.User{
		Name:         name,
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	})
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, username string, password string) (domain.LoginResult, error) {
	// 1. Validação Básica
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.LoginResult{}, apperror.NewUnauthorizedError("Usuário e senha são obrigatórios.")
	}

	// 2. Buscar Usuário
	user, err := s.UserRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		// NotFound vira 401 para não revelar quais usuários existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.LoginResult{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.LoginResult{}, err
	}

	// 3. Comparar Senhas
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Tentativa de login com senha incorreta.", map[string]interface{}{"username": user.Username})
		return domain.LoginResult{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	// 4. Gerar JWT
	tokenString, err := s.TokenSvc.GenerateToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		return domain.LoginResult{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return domain.LoginResult{Token: tokenString, User: user}, nil
}

// List devolve os usuários cadastrados.
func (s *UserService) List(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if err := policy.Authorize(actor, policy.ManageUsers); err != nil {
		return nil, err
	}
	return s.UserRepo.FindAll(ctx)
}

// UpdateRole troca o papel de um usuário. O último ADMIN não pode ser rebaixado.
func (s *UserService) UpdateRole(ctx context.Context, actor domain.Actor, id string, role domain.UserRole) (domain.User, error) {
	if err := policy.Authorize(actor, policy.ManageUsers); err != nil {
		return domain.User{}, err
	}
	if !role.Valid() {
		return domain.User{}, apperror.NewValidationError(fmt.Sprintf("Papel '%s' inválido.", role))
	}

	target, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if target.Role == domain.RoleAdmin && role != domain.RoleAdmin {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return domain.User{}, err
		}
	}

	return s.UserRepo.UpdateRole(ctx, id, role)
}

// Delete remove um usuário. Não é possível remover a si mesmo nem o último ADMIN.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := policy.Authorize(actor, policy.ManageUsers); err != nil {
		return err
	}
	if id == actor.ID {
		return apperror.NewValidationError("Não é possível remover o próprio usuário.")
	}

	target, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleAdmin {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Usuário removido.", map[string]interface{}{"user_id": id, "by": actor.ID})
	return nil
}

func (s *UserService) ensureAnotherAdmin(ctx context.Context) error {
	admins, err := s.UserRepo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return apperror.NewConflictError("É necessário manter ao menos um ADMIN.")
	}
	return nil
}

// EnsureAdmin cria o usuário 'admin' quando não existe nenhum ADMIN.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) error {
	admins, err := s.UserRepo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("falha ao contar administradores: %w", err)
	}
	if admins > 0 {
		return nil
	}

	user, err := s.create(ctx, "Admin", DefaultAdminUsername, password, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("falha ao criar administrador inicial: %w", err)
	}

	s.logger.Warn("Administrador inicial criado; troque a senha padrão.", map[string]interface{}{"user_id": user.ID, "username": user.Username})
	return nil
}
