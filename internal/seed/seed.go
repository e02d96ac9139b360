package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appModels "github.com/edverse/registrar/internal/app/models"
	appRepos "github.com/edverse/registrar/internal/app/repositories"
	"github.com/edverse/registrar/internal/config"
	"github.com/edverse/registrar/internal/db"
	"github.com/edverse/registrar/internal/pkg/auth"
)

// CreateDefaultData ensures the role catalog exists and that a superadmin
// account is present. Safe to run on every startup.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, cfg *config.Config, lgr zerolog.Logger) error {
	var finalErr error

	for _, name := range appModels.AllRoles {
		_, err := database.Pool.Exec(ctx,
			`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, string(name))
		if err != nil {
			lgr.Error().Err(err).Str("role", string(name)).Msg("Error seeding role")
			finalErr = errors.Join(finalErr, err)
		}
	}

	userRepo := appRepos.NewUserRepository(database.Pool)

	exists, err := userRepo.EmailExists(ctx, cfg.Seed.SuperAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if superadmin user exists")
		return errors.Join(finalErr, err)
	}
	if exists {
		lgr.Debug().Msg("Superadmin user already exists, skipping creation")
		return finalErr
	}

	if cfg.Seed.SuperAdminPassword == "" {
		lgr.Warn().Msg("No superadmin password configured, skipping superadmin creation")
		return finalErr
	}

	lgr.Info().Msg("Creating default superadmin user...")

	hashedPassword, err := auth.HashPassword(cfg.Seed.SuperAdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing superadmin password")
		return errors.Join(finalErr, err)
	}

	var adminID int64
	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO users (email, password_hash, first_name, last_name)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			cfg.Seed.SuperAdminEmail, hashedPassword, "System", "Administrator").Scan(&adminID)
		if err != nil {
			return fmt.Errorf("failed to create superadmin user: %w", err)
		}

		// Superadmin holds every role so a fresh install can exercise any surface
		for _, name := range appModels.AllRoles {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role_id)
				 SELECT $1, id FROM roles WHERE name = $2`,
				adminID, string(name))
			if err != nil {
				return fmt.Errorf("failed to assign role %s to superadmin: %w", name, err)
			}
		}

		return nil
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating superadmin user")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default superadmin user created successfully")
	return finalErr
}
