// Package memory implementa os repositórios em memória, usados com
// STORE_DRIVER=memory e nos testes de serviço.
package memory

import (
	"context"
	"sync"
	"time"

	"almoxarifado/internal/domain"
)

var _ domain.TxRunner = (*Store)(nil)

type state struct {
	items        map[string]domain.Item
	itemOrder    []string
	requests     map[string]domain.Request
	requestOrder []string
	users        map[string]domain.User
	userOrder    []string
}

func newState() *state {
	return &state{
		items:    make(map[string]domain.Item),
		requests: make(map[string]domain.Request),
		users:    make(map[string]domain.User),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v.Clone()
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.itemOrder = append([]string(nil), s.itemOrder...)
	c.requestOrder = append([]string(nil), s.requestOrder...)
	c.userOrder = append([]string(nil), s.userOrder...)
	return c
}

// Store guarda itens, requisições e usuários protegidos por um único mutex.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// NewStore cria um armazenamento vazio.
func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// Items devolve o repositório de itens.
func (s *Store) Items() *ItemRepository { return &ItemRepository{store: s} }

// Requests devolve o repositório de requisições.
func (s *Store) Requests() *RequestRepository { return &RequestRepository{store: s} }

// Users devolve o repositório de usuários.
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

// WithinTx executa fn com o armazenamento bloqueado. Se fn falhar, o estado
// anterior é restaurado.
func (s *Store) WithinTx(ctx context.Context, fn func(items domain.ItemRepository, requests domain.RequestRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	err := fn(&ItemRepository{store: s, inTx: true}, &RequestRepository{store: s, inTx: true})
	if err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// lock bloqueia o store, exceto quando o repositório já roda dentro de WithinTx.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
