package middleware

import (
	"testing"

	"stively/internal/models"
)

func TestRoleChecks(t *testing.T) {
	tests := []struct {
		name      string
		user      *models.User
		roles     []string
		permitted bool
	}{
		{
			name:      "admin passes admin gate",
			user:      &models.User{Role: models.RoleAdmin},
			roles:     []string{models.RoleAdmin},
			permitted: true,
		},
		{
			name:      "author fails admin gate",
			user:      &models.User{Role: models.RoleAuthor},
			roles:     []string{models.RoleAdmin},
			permitted: false,
		},
		{
			name:      "author passes submission gate",
			user:      &models.User{Role: models.RoleAuthor},
			roles:     []string{models.RoleAuthor, models.RoleAdmin},
			permitted: true,
		},
		{
			name:      "admin passes submission gate",
			user:      &models.User{Role: models.RoleAdmin},
			roles:     []string{models.RoleAuthor, models.RoleAdmin},
			permitted: true,
		},
		{
			name:      "reader fails submission gate",
			user:      &models.User{Role: models.RoleReader},
			roles:     []string{models.RoleAuthor, models.RoleAdmin},
			permitted: false,
		},
		{
			name:      "unknown role fails everything",
			user:      &models.User{Role: "superuser"},
			roles:     []string{models.RoleAuthor, models.RoleAdmin},
			permitted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasRole(tt.roles...); got != tt.permitted {
				t.Errorf("HasRole(%v) = %v, want %v", tt.roles, got, tt.permitted)
			}
		})
	}
}
