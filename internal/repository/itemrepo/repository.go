package itemrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"almoxarifado/internal/domain"
	"almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/database"
	"almoxarifado/internal/pkg/logger"
)

var _ domain.ItemRepository = (*ItemRepository)(nil)

const itemColumns = `id, name, code, unit, category, location, qty, min_qty, version, created_at, updated_at`

// ItemRepository implementa domain.ItemRepository sobre PostgreSQL.
type ItemRepository struct {
	DB        database.Querier
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewItemRepository cria e retorna uma nova instância do Repositório de Itens.
// db pode ser o pool (*sql.DB) ou uma transação aberta (*sql.Tx).
func NewItemRepository(db database.Querier, dbTimeout time.Duration, logger logger.Logger) *ItemRepository {
	return &ItemRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// validID evita enviar ao Postgres IDs que não são UUID (e.g., itens de requisições importadas).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanItem(s scanner) (domain.Item, error) {
	var it domain.Item
	err := s.Scan(&it.ID, &it.Name, &it.Code, &it.Unit, &it.Category, &it.Location, &it.Qty, &it.Min, &it.Version, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// Save insere um novo item com saldo e mínimo não negativos.
func (r *ItemRepository) Save(ctx context.Context, item domain.Item) (domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()

	query := `
        INSERT INTO items (id, name, code, unit, category, location, qty, min_qty, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $9)
        RETURNING ` + itemColumns

	saved, err := scanItem(r.DB.QueryRowContext(ctxTimeout, query,
		item.ID, item.Name, item.Code, item.Unit, item.Category, item.Location,
		domain.ClampQty(item.Qty), domain.ClampQty(item.Min), now,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Item{}, errors.NewConflictError(fmt.Sprintf("Item %s já existe.", item.ID))
		}
		r.logger.Error("Falha ao inserir item.", err)
		return domain.Item{}, errors.NewDBError("Falha ao inserir item", err)
	}

	r.logger.Debug("Item inserido.", map[string]interface{}{"item_id": saved.ID})
	return saved, nil
}

// FindByID busca um item pelo ID.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (domain.Item, error) {
	if !validID(id) {
		return domain.Item{}, errors.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	item, err := scanItem(r.DB.QueryRowContext(ctxTimeout, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.Item{}, errors.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar item no DB.", err)
		return domain.Item{}, errors.NewDBError("Falha ao buscar item", err)
	}
	return item, nil
}

// FindAll lista os itens ordenados por nome.
func (r *ItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+itemColumns+` FROM items ORDER BY name, id`)
	if err != nil {
		r.logger.Error("Falha ao listar itens.", err)
		return nil, errors.NewDBError("Falha ao listar itens", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar itens", err)
	}
	return items, nil
}

// AdjustQuantity soma delta ao saldo com controle de concorrência otimista (OCC).
// O saldo resultante é limitado a zero.
func (r *ItemRepository) AdjustQuantity(ctx context.Context, id string, delta int) (domain.Item, error) {
	r.logger.Debug("Ajustando saldo do item.", map[string]interface{}{"item_id": id, "delta": delta})
	if !validID(id) {
		return domain.Item{}, errors.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var updated domain.Item
	err := database.InTx(ctxTimeout, r.DB, func(q database.Querier) error {
		// 1. Bloquear a linha e ler a versão atual
		current, err := scanItem(q.QueryRowContext(ctxTimeout, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id))
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
		}
		if err != nil {
			return errors.NewDBError("Falha ao buscar item para atualização", err)
		}

		// 2. Aplicar o ajuste, saturando em [0, MaxQty]
		newQty := domain.AddQty(current.Qty, delta)

		// 3. Atualizar com OCC
		updated, err = scanItem(q.QueryRowContext(ctxTimeout, `
            UPDATE items
            SET qty = $1, version = version + 1, updated_at = $2
            WHERE id = $3 AND version = $4
            RETURNING `+itemColumns,
			newQty, time.Now(), id, current.Version,
		))
		if err == sql.ErrNoRows {
			r.logger.Warn("Conflito de concorrência ao ajustar item.", map[string]interface{}{"item_id": id, "version": current.Version})
			return errors.NewConflictError("O item foi modificado por outra operação. Tente novamente.")
		}
		if err != nil {
			return errors.NewDBError("Falha ao atualizar saldo do item", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Falha ao ajustar saldo do item.", err)
		return domain.Item{}, err
	}

	r.logger.Debug("Saldo do item atualizado.", map[string]interface{}{"item_id": id, "qty": updated.Qty, "version": updated.Version})
	return updated, nil
}

// SetMinimum altera o estoque mínimo do item.
func (r *ItemRepository) SetMinimum(ctx context.Context, id string, min int) (domain.Item, error) {
	if !validID(id) {
		return domain.Item{}, errors.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	item, err := scanItem(r.DB.QueryRowContext(ctxTimeout, `
        UPDATE items
        SET min_qty = $1, version = version + 1, updated_at = $2
        WHERE id = $3
        RETURNING `+itemColumns,
		domain.ClampQty(min), time.Now(), id,
	))
	if err == sql.ErrNoRows {
		return domain.Item{}, errors.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao alterar estoque mínimo.", err)
		return domain.Item{}, errors.NewDBError("Falha ao alterar estoque mínimo", err)
	}
	return item, nil
}
