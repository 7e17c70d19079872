package domain

import (
	"context"
	"time"
)

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleAdmin       UserRole = "ADMIN"
	RoleAlmox       UserRole = "ALMOX"
	RoleSolicitante UserRole = "SOLICITANTE"
)

// Valid informa se o papel é conhecido.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAlmox, RoleSolicitante:
		return true
	}
	return false
}

// Actor é a identidade autenticada que executa uma operação.
type Actor struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

// UserRegistration representa o payload de entrada para o cadastro.
type UserRegistration struct {
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

// RoleUpdate é o payload de troca de papel.
type RoleUpdate struct {
	Role UserRole `json:"role"`
}

// LoginResult é devolvido após autenticação bem-sucedida.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id string, role UserRole) (User, error)
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role UserRole) (int, error)
}
