package mocks

import (
	"context"
	"sync"

	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	userDomain "github.com/LeHongMinh-ST/ca-eco/internal/user/domain"
)

// InMemoryUserRepo simula UserRepository con email único.
type InMemoryUserRepo struct {
	mu     sync.Mutex
	users  map[string]*userDomain.User
	Outbox []events.DomainEvent

	// Reads cuenta las lecturas por ID, para comprobar la caché.
	Reads int
}

func NewInMemoryUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{users: make(map[string]*userDomain.User)}
}

func (r *InMemoryUserRepo) Save(ctx context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, other := range r.users {
		if id != u.ID() && other.Email() == u.Email() {
			u.DrainEvents()
			return userDomain.ErrUserAlreadyExists
		}
	}
	if _, ok := r.users[u.ID()]; u.IsPersisted() && !ok {
		u.DrainEvents()
		return userDomain.ErrUserNotFound
	}
	r.Outbox = append(r.Outbox, u.DrainEvents()...)
	u.MarkSaved()
	r.users[u.ID()] = copyUser(u)
	return nil
}

func (r *InMemoryUserRepo) FindByID(ctx context.Context, id string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	u, ok := r.users[id]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *InMemoryUserRepo) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email() == email {
			return copyUser(u), nil
		}
	}
	return nil, userDomain.ErrUserNotFound
}

// ReadCount devuelve cuántas lecturas por ID se han hecho.
func (r *InMemoryUserRepo) ReadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Reads
}

func copyUser(u *userDomain.User) *userDomain.User {
	return userDomain.ReconstituteUser(u.ID(), u.Email(), u.Name(), u.CreatedAt(), u.UpdatedAt())
}

var _ userDomain.UserRepository = (*InMemoryUserRepo)(nil)
