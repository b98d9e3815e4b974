package app

import (
	"os"

	"go-traveldesk/internal/auth"
	"go-traveldesk/internal/travelrequest"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const outboxTableDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id TEXT,
	aggregate_type TEXT NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type TEXT NOT NULL,
	topic TEXT NOT NULL,
	payload JSONB NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created_at
	ON outbox_events (status, created_at);
`

func migrateSchema(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&auth.User{},
		&travelrequest.TravelRequest{},
	); err != nil {
		return err
	}
	return gormDB.Exec(outboxTableDDL).Error
}

// seedUsers inserts a demo admin and a demo employee when SEED_DEMO_DATA=true.
// Existing emails are left untouched.
func seedUsers(gormDB *gorm.DB) error {
	if os.Getenv("SEED_DEMO_DATA") != "true" {
		return nil
	}

	seeds := []struct {
		name, email, password, role string
	}{
		{"Admin User", "admin@example.com", "password", auth.RoleAdmin},
		{"Regular User", "user@example.com", "password", auth.RoleUser},
	}

	for _, s := range seeds {
		var count int64
		if err := gormDB.Model(&auth.User{}).Where("email = ?", s.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := auth.User{
			Name:     s.name,
			Email:    s.email,
			Password: string(hashed),
			Role:     s.role,
			IsActive: true,
		}
		if err := gormDB.Create(&user).Error; err != nil {
			return err
		}
		zap.L().Info("seeded user", zap.String("email", s.email), zap.String("role", s.role))
	}

	return nil
}
