// Package users implements the credential store: persisted user records
// with unique usernames and emails.
package users

import (
	"context"

	"github.com/dmitrijs2005/authboard/internal/server/models"
)

// Repository is the credential store contract. Lookups return
// common.ErrorNotFound when no row matches; Create reports uniqueness
// violations as conflict errors.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, usernameOrEmail string) (bool, error)
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)

	Count(ctx context.Context) (models.UserStats, error)
	List(ctx context.Context) ([]*models.User, error)
}
