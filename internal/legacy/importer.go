package legacy

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
)

// BcryptHasher é o PasswordHasher usado na importação real.
func BcryptHasher(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Report conta o que foi gravado e o que já existia.
type Report struct {
	Users, Items, Requests int
	Skipped                int
}

// Importer grava um Dataset nos repositórios.
type Importer struct {
	users    domain.UserRepository
	items    domain.ItemRepository
	requests domain.RequestRepository
	logger   logger.Logger
}

func NewImporter(users domain.UserRepository, items domain.ItemRepository, requests domain.RequestRepository, logger logger.Logger) *Importer {
	return &Importer{users: users, items: items, requests: requests, logger: logger}
}

// Import grava usuários, itens e requisições, nesta ordem. Registros que já existem
// (ConflictError) são ignorados, então a importação pode ser repetida.
// Qualquer outro erro interrompe a importação.
func (im *Importer) Import(ctx context.Context, ds Dataset) (Report, error) {
	var rep Report

	for _, u := range ds.Users {
		if _, err := im.users.Save(ctx, u); err != nil {
			if !im.skip(err, "usuário", u.Username) {
				return rep, err
			}
			rep.Skipped++
			continue
		}
		rep.Users++
	}

	for _, it := range ds.Items {
		if _, err := im.items.Save(ctx, it); err != nil {
			if !im.skip(err, "item", it.ID) {
				return rep, err
			}
			rep.Skipped++
			continue
		}
		rep.Items++
	}

	for _, req := range ds.Requests {
		if _, err := im.requests.Save(ctx, req); err != nil {
			if !im.skip(err, "requisição", req.ID) {
				return rep, err
			}
			rep.Skipped++
			continue
		}
		rep.Requests++
	}

	im.logger.Info("Importação concluída.", map[string]interface{}{
		"users": rep.Users, "items": rep.Items, "requests": rep.Requests, "skipped": rep.Skipped,
	})
	return rep, nil
}

func (im *Importer) skip(err error, kind, key string) bool {
	var conflictErr *apperror.ConflictError
	if errors.As(err, &conflictErr) {
		im.logger.Warn("Registro já existe, ignorado.", map[string]interface{}{"kind": kind, "key": key})
		return true
	}
	return false
}
