package requestrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"almoxarifado/internal/domain"
	"almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/database"
	"almoxarifado/internal/pkg/logger"
)

var _ domain.RequestRepository = (*RequestRepository)(nil)

const requestColumns = `id, pedido, linha, fornecedor, marca, created_by, created_by_id, created_at, delivery_date, status, version, updated_at`

const lineColumns = `id, request_id, item_id, name, code, unit, qty, unit_price, received_qty, received, notes`

// RequestRepository implementa domain.RequestRepository sobre PostgreSQL.
// As linhas ficam em request_lines, ordenadas por position.
type RequestRepository struct {
	DB        database.Querier
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRequestRepository cria e retorna uma nova instância do Repositório de Requisições.
func NewRequestRepository(db database.Querier, dbTimeout time.Duration, logger logger.Logger) *RequestRepository {
	return &RequestRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(s scanner) (domain.Request, error) {
	var (
		req      domain.Request
		delivery sql.NullTime
		status   string
	)
	err := s.Scan(
		&req.ID, &req.Header.Pedido, &req.Header.Linha, &req.Header.Fornecedor, &req.Header.Marca,
		&req.Header.CreatedBy, &req.Header.CreatedByID, &req.Header.CreatedAt,
		&delivery, &status, &req.Version, &req.UpdatedAt,
	)
	if err != nil {
		return domain.Request{}, err
	}
	if delivery.Valid {
		day := delivery.Time.Format("2006-01-02")
		req.DeliveryDate = &day
	}
	req.Status = domain.Status(status)
	req.Lines = make([]domain.RequestLine, 0)
	return req, nil
}

func deliveryParam(d *string) interface{} {
	if d == nil || *d == "" {
		return nil
	}
	return *d
}

// Save insere a requisição e suas linhas numa única transação.
func (r *RequestRepository) Save(ctx context.Context, req domain.Request) (domain.Request, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	req = req.Clone()
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := time.Now()
	if req.Header.CreatedAt.IsZero() {
		req.Header.CreatedAt = now
	}

	err := database.InTx(ctxTimeout, r.DB, func(q database.Querier) error {
		_, err := q.ExecContext(ctxTimeout, `
            INSERT INTO requests (`+requestColumns+`)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11)`,
			req.ID, req.Header.Pedido, req.Header.Linha, req.Header.Fornecedor, req.Header.Marca,
			req.Header.CreatedBy, req.Header.CreatedByID, req.Header.CreatedAt,
			deliveryParam(req.DeliveryDate), string(req.Status), now,
		)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return errors.NewConflictError(fmt.Sprintf("Requisição %s já existe.", req.ID))
			}
			return errors.NewDBError("Falha ao inserir requisição", err)
		}

		for i := range req.Lines {
			l := &req.Lines[i]
			if l.ID == "" {
				l.ID = uuid.New().String()
			}
			_, err = q.ExecContext(ctxTimeout, `
                INSERT INTO request_lines (id, request_id, position, item_id, name, code, unit, qty, unit_price, received_qty, received, notes)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				l.ID, req.ID, i, l.ItemID, l.Name, l.Code, l.Unit, l.Qty, l.UnitPrice,
				l.Receipt.ReceivedQty, l.Receipt.Received, l.Receipt.Notes,
			)
			if err != nil {
				return errors.NewDBError("Falha ao inserir linha da requisição", err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Falha ao salvar requisição.", err)
		return domain.Request{}, err
	}

	req.Version = 1
	req.UpdatedAt = now
	r.logger.Debug("Requisição inserida.", map[string]interface{}{"request_id": req.ID, "lines": len(req.Lines)})
	return req, nil
}

// FindByID busca a requisição com suas linhas.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (domain.Request, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	req, err := r.findByID(ctxTimeout, r.DB, id, false)
	if err != nil {
		return domain.Request{}, err
	}
	return req, nil
}

func (r *RequestRepository) findByID(ctx context.Context, q database.Querier, id string, forUpdate bool) (domain.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Request{}, errors.NewNotFoundError(fmt.Sprintf("Requisição com ID %s não existe.", id))
	}

	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	req, err := scanRequest(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return domain.Request{}, errors.NewNotFoundError(fmt.Sprintf("Requisição com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar requisição no DB.", err)
		return domain.Request{}, errors.NewDBError("Falha ao buscar requisição", err)
	}

	lines, err := r.loadLines(ctx, q, []string{id})
	if err != nil {
		return domain.Request{}, err
	}
	req.Lines = append(req.Lines, lines[id]...)
	return req, nil
}

// FindAll lista as requisições mais recentes primeiro, opcionalmente por solicitante.
func (r *RequestRepository) FindAll(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + requestColumns + ` FROM requests`
	args := []interface{}{}
	if filter.CreatedByID != "" {
		query += ` WHERE created_by_id = $1`
		args = append(args, filter.CreatedByID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar requisições.", err)
		return nil, errors.NewDBError("Falha ao listar requisições", err)
	}
	defer rows.Close()

	reqs := make([]domain.Request, 0)
	ids := make([]string, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler requisição", err)
		}
		reqs = append(reqs, req)
		ids = append(ids, req.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar requisições", err)
	}
	if len(ids) == 0 {
		return reqs, nil
	}

	lines, err := r.loadLines(ctxTimeout, r.DB, ids)
	if err != nil {
		return nil, err
	}
	for i := range reqs {
		reqs[i].Lines = append(reqs[i].Lines, lines[reqs[i].ID]...)
	}
	return reqs, nil
}

func (r *RequestRepository) loadLines(ctx context.Context, q database.Querier, requestIDs []string) (map[string][]domain.RequestLine, error) {
	rows, err := q.QueryContext(ctx, `
        SELECT `+lineColumns+`
        FROM request_lines
        WHERE request_id = ANY($1::uuid[])
        ORDER BY request_id, position`, pq.Array(requestIDs))
	if err != nil {
		r.logger.Error("Falha ao buscar linhas das requisições.", err)
		return nil, errors.NewDBError("Falha ao buscar linhas", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.RequestLine, len(requestIDs))
	for rows.Next() {
		var (
			l         domain.RequestLine
			requestID string
		)
		if err := rows.Scan(
			&l.ID, &requestID, &l.ItemID, &l.Name, &l.Code, &l.Unit, &l.Qty, &l.UnitPrice,
			&l.Receipt.ReceivedQty, &l.Receipt.Received, &l.Receipt.Notes,
		); err != nil {
			return nil, errors.NewDBError("Falha ao ler linha", err)
		}
		out[requestID] = append(out[requestID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar linhas", err)
	}
	return out, nil
}

// UpdateFulfillment grava recebimentos, status e data de entrega com OCC.
func (r *RequestRepository) UpdateFulfillment(ctx context.Context, req domain.Request) (domain.Request, error) {
	r.logger.Debug("Atualizando atendimento da requisição.", map[string]interface{}{"request_id": req.ID, "version": req.Version})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var updated domain.Request
	err := database.InTx(ctxTimeout, r.DB, func(q database.Querier) error {
		// 1. Bloquear a requisição e conferir a versão
		current, err := r.findByID(ctxTimeout, q, req.ID, true)
		if err != nil {
			return err
		}
		if current.Version != req.Version {
			r.logger.Warn("Conflito de concorrência na requisição.", map[string]interface{}{"request_id": req.ID, "expected": req.Version, "actual": current.Version})
			return errors.NewConflictError("A requisição foi modificada por outra operação. Tente novamente.")
		}
		if len(current.Lines) != len(req.Lines) {
			return errors.NewInvariantError(fmt.Sprintf("requisição %s com %d linhas recebeu %d recebimentos", req.ID, len(current.Lines), len(req.Lines)))
		}

		// 2. Gravar o recebimento de cada linha
		for _, l := range req.Lines {
			res, err := q.ExecContext(ctxTimeout, `
                UPDATE request_lines
                SET received_qty = $1, received = $2, notes = $3
                WHERE id = $4 AND request_id = $5`,
				l.Receipt.ReceivedQty, l.Receipt.Received, l.Receipt.Notes, l.ID, req.ID,
			)
			if err != nil {
				return errors.NewDBError("Falha ao atualizar linha", err)
			}
			if n, _ := res.RowsAffected(); n != 1 {
				return errors.NewInvariantError(fmt.Sprintf("linha %s não pertence à requisição %s", l.ID, req.ID))
			}
		}

		// 3. Status, data de entrega e versão
		_, err = q.ExecContext(ctxTimeout, `
            UPDATE requests
            SET status = $1, delivery_date = $2, version = version + 1, updated_at = $3
            WHERE id = $4 AND version = $5`,
			string(req.Status), deliveryParam(req.DeliveryDate), time.Now(), req.ID, req.Version,
		)
		if err != nil {
			return errors.NewDBError("Falha ao atualizar requisição", err)
		}

		updated, err = r.findByID(ctxTimeout, q, req.ID, false)
		return err
	})
	if err != nil {
		r.logger.Error("Falha ao atualizar atendimento da requisição.", err)
		return domain.Request{}, err
	}

	r.logger.Info("Atendimento da requisição atualizado.", map[string]interface{}{"request_id": updated.ID, "status": updated.Status, "version": updated.Version})
	return updated, nil
}
