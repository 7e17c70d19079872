package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
)

var _ domain.UserRepository = (*UserRepository)(nil)

// UserRepository guarda os usuários em memória. Usernames são únicos sem
// diferenciar maiúsculas.
type UserRepository struct {
	store *Store
}

func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	defer r.store.lock(false)()
	st := r.store.st

	for _, u := range st.users {
		if strings.EqualFold(u.Username, user.Username) {
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O usuário '%s' já está em uso.", user.Username))
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := r.store.now()
	user.CreatedAt, user.UpdatedAt = now, now
	st.users[user.ID] = user
	st.userOrder = append(st.userOrder, user.ID)
	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	defer r.store.lock(false)()

	for _, u := range r.store.st.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário '%s' não existe.", username))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	defer r.store.lock(false)()

	u, ok := r.store.st.users[id]
	if !ok {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", id))
	}
	return u, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	defer r.store.lock(false)()

	out := make([]domain.User, 0, len(r.store.st.userOrder))
	for _, id := range r.store.st.userOrder {
		out = append(out, r.store.st.users[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) (domain.User, error) {
	defer r.store.lock(false)()

	u, ok := r.store.st.users[id]
	if !ok {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", id))
	}
	u.Role = role
	u.UpdatedAt = r.store.now()
	r.store.st.users[id] = u
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lock(false)()
	st := r.store.st

	if _, ok := st.users[id]; !ok {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", id))
	}
	delete(st.users, id)
	for i, uid := range st.userOrder {
		if uid == id {
			st.userOrder = append(st.userOrder[:i], st.userOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.UserRole) (int, error) {
	defer r.store.lock(false)()

	n := 0
	for _, u := range r.store.st.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
