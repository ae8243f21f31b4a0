package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authboard/internal/server/models"
	"github.com/dmitrijs2005/authboard/internal/server/repositories/repomanager"
)

// DashboardView is the payload of the dashboard page.
type DashboardView struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
	Data    models.UserStats  `json:"data"`
}

// ProfileStats are derived facts about the caller's own account.
type ProfileStats struct {
	AccountAgeDays int  `json:"account_age_days"`
	IsActive       bool `json:"is_active"`
}

// ProfileView is the payload of the profile page.
type ProfileView struct {
	Profile models.PublicUser `json:"profile"`
	Stats   ProfileStats      `json:"stats"`
}

// AdminView is the payload of the admin panel.
type AdminView struct {
	Message    string              `json:"message"`
	Users      []models.PublicUser `json:"users"`
	TotalUsers int                 `json:"total_users"`
}

// PageService assembles the data behind the protected pages. Callers pass the
// user already resolved by UserService.Authenticate.
type PageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewPageService(db *sql.DB, m repomanager.RepositoryManager) *PageService {
	return &PageService{db: db, repomanager: m, now: time.Now}
}

func (s *PageService) Dashboard(ctx context.Context, user *models.User) (*DashboardView, error) {
	stats, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}

	return &DashboardView{
		Message: fmt.Sprintf("Welcome to your dashboard, %s!", user.Username),
		User:    user.Public(),
		Data:    stats,
	}, nil
}

func (s *PageService) Profile(_ context.Context, user *models.User) (*ProfileView, error) {
	return &ProfileView{
		Profile: user.Public(),
		Stats: ProfileStats{
			AccountAgeDays: accountAgeDays(user.CreatedAt, s.now()),
			IsActive:       user.IsActive,
		},
	}, nil
}

// AdminPanel lists every account; only the admin may see it.
func (s *PageService) AdminPanel(ctx context.Context, user *models.User) (*AdminView, error) {
	if err := RequireAdmin(user); err != nil {
		return nil, err
	}

	all, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	view := &AdminView{
		Message:    "Admin panel access granted",
		Users:      make([]models.PublicUser, 0, len(all)),
		TotalUsers: len(all),
	}
	for _, u := range all {
		view.Users = append(view.Users, u.Public())
	}
	return view, nil
}

// accountAgeDays counts whole days since createdAt; clock skew never makes it negative.
func accountAgeDays(createdAt, now time.Time) int {
	d := now.Sub(createdAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
