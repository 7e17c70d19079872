package userservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/token"
	"almoxarifado/internal/repository/memory"
	"almoxarifado/internal/service/userservice"
)

func newService(t *testing.T) (*userservice.UserService, *token.Service, domain.Actor) {
	t.Helper()
	tokens := token.NewService("segredo-de-teste", time.Hour)
	svc := userservice.NewService(memory.NewStore().Users(), tokens, logger.NewLogger("debug"))

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin"))
	res, err := svc.Login(context.Background(), "admin", "admin")
	require.NoError(t, err)

	actor := domain.Actor{ID: res.User.ID, Name: res.User.Name, Role: res.User.Role}
	return svc, tokens, actor
}

func TestEnsureAdmin_SeedsOnce(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "outra"))

	_, err := svc.Login(ctx, "admin", "outra")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestLogin_IssuesTokenWithClaims(t *testing.T) {
	svc, tokens, admin := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, admin, domain.UserRegistration{Name: "Ana", Username: "Ana.Almox", Password: "s3nha", Role: domain.RoleAlmox})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ana.almox", "s3nha")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAlmox, res.User.Role)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "ALMOX", claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin", "errada")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	_, err = svc.Login(ctx, "ninguem", "x")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	_, err = svc.Login(ctx, "", "")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestRegister_Rules(t *testing.T) {
	svc, _, admin := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, admin, domain.UserRegistration{Name: "Zé", Username: "ze", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSolicitante, u.Role)
	assert.NotEqual(t, "x", u.PasswordHash)

	_, err = svc.Register(ctx, admin, domain.UserRegistration{Name: "Outro Zé", Username: "ZE", Password: "y"})
	assert.IsType(t, &apperror.ConflictError{}, err)

	_, err = svc.Register(ctx, admin, domain.UserRegistration{Name: "Sem senha", Username: "semsenha"})
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.Register(ctx, admin, domain.UserRegistration{Name: "Chefe", Username: "chefe", Password: "x", Role: "GERENTE"})
	assert.IsType(t, &apperror.ValidationError{}, err)

	ze := domain.Actor{ID: u.ID, Name: u.Name, Role: u.Role}
	_, err = svc.Register(ctx, ze, domain.UserRegistration{Name: "Hacker", Username: "h", Password: "x"})
	assert.IsType(t, &apperror.ForbiddenError{}, err)
}

func TestUpdateRole_KeepsLastAdmin(t *testing.T) {
	svc, _, admin := newService(t)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, admin, admin.ID, domain.RoleAlmox)
	assert.IsType(t, &apperror.ConflictError{}, err)

	second, err := svc.Register(ctx, admin, domain.UserRegistration{Name: "Bia", Username: "bia", Password: "x", Role: domain.RoleAdmin})
	require.NoError(t, err)

	demoted, err := svc.UpdateRole(ctx, admin, second.ID, domain.RoleSolicitante)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSolicitante, demoted.Role)
}

func TestDelete_Rules(t *testing.T) {
	svc, _, admin := newService(t)
	ctx := context.Background()

	err := svc.Delete(ctx, admin, admin.ID)
	assert.IsType(t, &apperror.ValidationError{}, err)

	u, err := svc.Register(ctx, admin, domain.UserRegistration{Name: "Caio", Username: "caio", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, admin, u.ID))

	users, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	err = svc.Delete(ctx, admin, u.ID)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}
