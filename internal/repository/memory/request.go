package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
)

var _ domain.RequestRepository = (*RequestRepository)(nil)

// RequestRepository guarda as requisições em memória.
type RequestRepository struct {
	store *Store
	inTx  bool
}

func (r *RequestRepository) Save(ctx context.Context, req domain.Request) (domain.Request, error) {
	defer r.store.lock(r.inTx)()
	st := r.store.st

	req = req.Clone()
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if _, exists := st.requests[req.ID]; exists {
		return domain.Request{}, apperror.NewConflictError(fmt.Sprintf("Requisição %s já existe.", req.ID))
	}
	for i := range req.Lines {
		if req.Lines[i].ID == "" {
			req.Lines[i].ID = uuid.New().String()
		}
	}

	now := r.store.now()
	if req.Header.CreatedAt.IsZero() {
		req.Header.CreatedAt = now
	}
	req.Version = 1
	req.UpdatedAt = now

	st.requests[req.ID] = req
	st.requestOrder = append(st.requestOrder, req.ID)
	return req.Clone(), nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (domain.Request, error) {
	defer r.store.lock(r.inTx)()

	req, ok := r.store.st.requests[id]
	if !ok {
		return domain.Request{}, apperror.NewNotFoundError(fmt.Sprintf("Requisição com ID %s não existe.", id))
	}
	return req.Clone(), nil
}

// FindAll devolve as requisições mais recentes primeiro.
func (r *RequestRepository) FindAll(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	defer r.store.lock(r.inTx)()

	out := make([]domain.Request, 0, len(r.store.st.requestOrder))
	for _, id := range r.store.st.requestOrder {
		req := r.store.st.requests[id]
		if filter.CreatedByID != "" && req.Header.CreatedByID != filter.CreatedByID {
			continue
		}
		out = append(out, req.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Header.CreatedAt.After(out[j].Header.CreatedAt)
	})
	return out, nil
}

func (r *RequestRepository) UpdateFulfillment(ctx context.Context, req domain.Request) (domain.Request, error) {
	defer r.store.lock(r.inTx)()

	current, ok := r.store.st.requests[req.ID]
	if !ok {
		return domain.Request{}, apperror.NewNotFoundError(fmt.Sprintf("Requisição com ID %s não existe.", req.ID))
	}
	if current.Version != req.Version {
		return domain.Request{}, apperror.NewConflictError("A requisição foi modificada por outra operação. Tente novamente.")
	}
	if len(current.Lines) != len(req.Lines) {
		return domain.Request{}, apperror.NewInvariantError(fmt.Sprintf("requisição %s com %d linhas recebeu %d recebimentos", req.ID, len(current.Lines), len(req.Lines)))
	}

	receipts := make(map[string]domain.Receipt, len(req.Lines))
	for _, l := range req.Lines {
		receipts[l.ID] = l.Receipt
	}

	updated := current.Clone()
	for i, l := range updated.Lines {
		rec, ok := receipts[l.ID]
		if !ok {
			return domain.Request{}, apperror.NewInvariantError(fmt.Sprintf("linha %s ausente na atualização", l.ID))
		}
		updated.Lines[i].Receipt = rec
	}
	updated.Status = req.Status
	updated.DeliveryDate = req.Clone().DeliveryDate
	updated.Version++
	updated.UpdatedAt = r.store.now()

	r.store.st.requests[req.ID] = updated
	return updated.Clone(), nil
}
