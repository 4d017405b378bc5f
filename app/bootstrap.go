package app

import (
	"context"
	"fmt"
	"strings"

	"equipment-loans/config"
	"equipment-loans/db"
	"equipment-loans/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstAdmin makes sure an administrator exists on first boot. If
// ADMIN_MATRICULA names an existing account it is promoted; otherwise the
// account is created with ADMIN_PASSWORD. Skipped once any admin exists.
func BootstrapFirstAdmin(ctx context.Context, cfg config.Config, repo *db.Repo, logger *zap.Logger) {
	if cfg.AdminMatricula == "" {
		return
	}
	if n, err := repo.CountAdmins(ctx); err != nil || n > 0 {
		return
	}

	u, err := repo.FindUserByMatricula(ctx, cfg.AdminMatricula)
	if err == nil {
		if err := repo.PromoteToAdmin(ctx, u.ID); err != nil {
			logger.Error("bootstrap: promote admin", zap.Error(err))
			return
		}
		logger.Info("bootstrap: promoted existing account to admin",
			zap.String("matricula", cfg.AdminMatricula))
		return
	}
	if !db.IsNotFound(err) {
		logger.Error("bootstrap: lookup admin account", zap.Error(err))
		return
	}

	if cfg.AdminPassword == "" {
		logger.Warn("bootstrap: ADMIN_MATRICULA set but account missing and no ADMIN_PASSWORD; skipping")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 10)
	if err != nil {
		logger.Error("bootstrap: hash admin password", zap.Error(err))
		return
	}
	admin := &models.User{
		ID:           uuid.NewString(),
		Matricula:    cfg.AdminMatricula,
		Email:        fmt.Sprintf("%s@%s", strings.ToLower(cfg.AdminMatricula), cfg.EmailDomain),
		FirstName:    "Admin",
		LastName:     "Admin",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		logger.Error("bootstrap: create admin account", zap.Error(err))
		return
	}
	logger.Info("bootstrap: created first admin account",
		zap.String("matricula", cfg.AdminMatricula))
}
