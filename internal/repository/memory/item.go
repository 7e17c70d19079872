package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
)

var _ domain.ItemRepository = (*ItemRepository)(nil)

// ItemRepository é o livro de itens em memória.
type ItemRepository struct {
	store *Store
	inTx  bool
}

func (r *ItemRepository) Save(ctx context.Context, item domain.Item) (domain.Item, error) {
	defer r.store.lock(r.inTx)()
	st := r.store.st

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, exists := st.items[item.ID]; exists {
		return domain.Item{}, apperror.NewConflictError(fmt.Sprintf("Item %s já existe.", item.ID))
	}

	now := r.store.now()
	item.Qty = domain.ClampQty(item.Qty)
	item.Min = domain.ClampQty(item.Min)
	item.Version = 1
	item.CreatedAt, item.UpdatedAt = now, now

	st.items[item.ID] = item
	st.itemOrder = append(st.itemOrder, item.ID)
	return item, nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (domain.Item, error) {
	defer r.store.lock(r.inTx)()

	item, ok := r.store.st.items[id]
	if !ok {
		return domain.Item{}, apperror.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}
	return item, nil
}

// FindAll devolve os itens ordenados por nome.
func (r *ItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	defer r.store.lock(r.inTx)()

	items := make([]domain.Item, 0, len(r.store.st.itemOrder))
	for _, id := range r.store.st.itemOrder {
		items = append(items, r.store.st.items[id])
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *ItemRepository) AdjustQuantity(ctx context.Context, id string, delta int) (domain.Item, error) {
	defer r.store.lock(r.inTx)()

	item, ok := r.store.st.items[id]
	if !ok {
		return domain.Item{}, apperror.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}
	item.Qty = domain.AddQty(item.Qty, delta)
	item.Version++
	item.UpdatedAt = r.store.now()
	r.store.st.items[id] = item
	return item, nil
}

func (r *ItemRepository) SetMinimum(ctx context.Context, id string, min int) (domain.Item, error) {
	defer r.store.lock(r.inTx)()

	item, ok := r.store.st.items[id]
	if !ok {
		return domain.Item{}, apperror.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe.", id))
	}
	item.Min = domain.ClampQty(min)
	item.Version++
	item.UpdatedAt = r.store.now()
	r.store.st.items[id] = item
	return item, nil
}
