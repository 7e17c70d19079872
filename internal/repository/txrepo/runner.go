package txrepo

import (
	"context"
	"database/sql"
	"time"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/repository/itemrepo"
	"almoxarifado/internal/repository/requestrepo"
)

var _ domain.TxRunner = (*Runner)(nil)

// Runner executa callbacks dentro de uma transação PostgreSQL, com os
// repositórios de itens e requisições atados à mesma transação.
type Runner struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRunner cria o runner sobre o pool de conexões.
func NewRunner(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *Runner {
	return &Runner{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// WithinTx abre a transação, executa fn e faz Commit ou Rollback.
func (r *Runner) WithinTx(ctx context.Context, fn func(items domain.ItemRepository, requests domain.RequestRepository) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação.", err)
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	items := itemrepo.NewItemRepository(tx, r.DBTimeout, r.logger)
	requests := requestrepo.NewRequestRepository(tx, r.DBTimeout, r.logger)

	if err := fn(items, requests); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação.", err)
		return apperror.NewDBError("Falha ao commitar transação", err)
	}
	return nil
}
