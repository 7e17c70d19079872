package middleware

import (
	"context"
	"net/http"
	"strings"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/respond"
	"almoxarifado/internal/pkg/token"
	"almoxarifado/internal/policy"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
// Context Keys devem ser de um tipo único para evitar colisões.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware valida o JWT do header Authorization e anexa o ator ao contexto.
func NewAuthMiddleware(tokenSvc TokenService, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			// 2. Validar o Token
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			// 3. Anexar o ator ao contexto
			actor := domain.Actor{
				ID:   claims.UserID,
				Name: claims.Name,
				Role: domain.UserRole(claims.Role),
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
	}
}

// WithActor devolve um contexto com o ator autenticado.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, UserClaimsKey, actor)
}

// ActorFromContext extrai o ator anexado pelo NewAuthMiddleware.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(UserClaimsKey).(domain.Actor)
	return actor, ok
}

// RequireCapability rejeita com 403 atores cujo papel não possui a capacidade.
func RequireCapability(c policy.Capability, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			if err := policy.Authorize(actor, c); err != nil {
				respond.Error(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
