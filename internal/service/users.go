package service

import (
	"context"
	"strings"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/internal/store"
	"github.com/dmitrymomot/storefront/pkg/async"
)

// UserService looks up customers.
type UserService struct {
	users *store.Collection[domain.User]
}

func NewUserService(s *store.Store) *UserService {
	return &UserService{users: s.Users}
}

// User resolves with the user stored under id.
func (s *UserService) User(ctx context.Context, id string) *async.Future[domain.User] {
	if strings.TrimSpace(id) == "" {
		return async.Error[domain.User](domain.InvalidArgument("user id is required"))
	}
	return s.users.Get(ctx, id)
}
