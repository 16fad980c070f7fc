package ports

import (
	"context"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// AuthRepository defines persistence for users.
type AuthRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Deactivate flips the active flag; users referenced by quotations are
	// never deleted.
	Deactivate(ctx context.Context, id string) error
}

// AuthService implements registration, login and account deactivation.
type AuthService interface {
	Register(ctx context.Context, username, password, email string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Deactivate disables an account. Deactivated users fail login but stay
	// on record so quotations they own keep a resolvable owner.
	Deactivate(ctx context.Context, id string) error
}
