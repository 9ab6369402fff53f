package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/cache"
	sharedUtils "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/utils"
	"github.com/LeHongMinh-ST/ca-eco/internal/user/domain"
)

const userCacheTTL = 60

// UserView es lo que se cachea y se devuelve por HTTP.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserView(u *domain.User) *UserView {
	return &UserView{ID: u.ID(), Email: u.Email(), Name: u.Name(), CreatedAt: u.CreatedAt(), UpdatedAt: u.UpdatedAt()}
}

// UserService define los casos de uso relacionados con User.
type UserService struct {
	repo  domain.UserRepository
	cache cache.Cache
	log   *zap.Logger
}

func NewUserService(repo domain.UserRepository, c cache.Cache, log *zap.Logger) *UserService {
	return &UserService{repo: repo, cache: c, log: log}
}

// CreateUser da de alta el usuario. El carrito lo crea el módulo de carritos al recibir UserCreated.
func (s *UserService) CreateUser(ctx context.Context, email, name string) (*UserView, error) {
	u, err := domain.NewUser(sharedDomain.NewID(), email, name)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, u.Email()); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	view := NewUserView(u)
	cache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(u.ID()), view, userCacheTTL, s.log)
	s.log.Info("👤 Usuario creado", zap.String("user_id", u.ID()))
	return view, nil
}

// GetUser obtiene un usuario por ID (primero intenta desde cache).
func (s *UserService) GetUser(ctx context.Context, id string) (*UserView, error) {
	if err := sharedDomain.ValidateID("userId", id); err != nil {
		return nil, err
	}

	if s.cache != nil {
		var view UserView
		if ok, err := s.cache.Get(ctx, domain.CacheKeyByID(id), &view); err == nil && ok {
			return &view, nil
		}
	}

	var u *domain.User
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		u, err = s.repo.FindByID(ctx, id)
		if errors.Is(err, sharedDomain.ErrNotFound) {
			return sharedUtils.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	view := NewUserView(u)
	cache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(id), view, userCacheTTL, s.log)
	return view, nil
}

// ChangeEmail actualiza el email e invalida la vista cacheada.
func (s *UserService) ChangeEmail(ctx context.Context, id, email string) (*UserView, error) {
	if err := sharedDomain.ValidateID("userId", id); err != nil {
		return nil, err
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.ChangeEmail(email); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	cache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(id), s.log)
	return NewUserView(u), nil
}
