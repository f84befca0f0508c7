package app

import (
	"context"

	"lasalleserve/db"
	"lasalleserve/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstAdmin creates the configured admin account on first
// start so approvals are possible before anyone else registers.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo, log *zap.Logger) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Error("bootstrap admin check failed", zap.Error(err))
		return
	}
	if n > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("bootstrap admin hash failed", zap.Error(err))
		return
	}
	if err := repo.CreateUser(ctx, &models.User{
		ID:       uuid.NewString(),
		Name:     "Administrator",
		Email:    cfg.BootstrapEmail,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}); err != nil {
		log.Error("bootstrap admin create failed", zap.Error(err))
		return
	}
	log.Info("bootstrap admin created", zap.String("email", cfg.BootstrapEmail))
}
