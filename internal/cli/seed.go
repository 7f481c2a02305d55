package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/treasure-hunt/backend/internal/catalog"
	"github.com/treasure-hunt/backend/internal/config"
	"github.com/treasure-hunt/backend/internal/database"
	"github.com/treasure-hunt/backend/internal/logger"
	"github.com/treasure-hunt/backend/internal/models"
)

func newSeedCmd() *cobra.Command {
	var (
		questionsPath string
		adminEmail    string
		adminName     string
		adminPassword string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load questions from a JSON file and optionally create an admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.LogLevel)

			db, err := database.Connect(cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				return err
			}

			ctx := cmd.Context()

			if questionsPath != "" {
				raw, err := os.ReadFile(questionsPath)
				if err != nil {
					return fmt.Errorf("read questions file: %w", err)
				}
				var reqs []models.UpsertQuestionRequest
				if err := json.Unmarshal(raw, &reqs); err != nil {
					return fmt.Errorf("parse questions file: %w", err)
				}

				store := catalog.NewStore(db)
				for _, req := range reqs {
					unlockDate, err := time.Parse(time.RFC3339, req.UnlockDate)
					if err != nil {
						return fmt.Errorf("day %d: unlock_date must be RFC 3339: %w", req.Day, err)
					}
					q := &models.Question{
						Day:        req.Day,
						Text:       req.Text,
						Hint:       req.Hint,
						Answer:     req.Answer,
						Difficulty: req.Difficulty,
						Images:     req.Images,
						UnlockDate: unlockDate,
					}
					if err := store.Upsert(ctx, q); err != nil {
						return fmt.Errorf("seed day %d: %w", req.Day, err)
					}
				}
				log.Info().Int("count", len(reqs)).Msg("questions seeded")
			}

			if adminEmail != "" {
				if adminPassword == "" {
					return fmt.Errorf("--admin-password is required with --admin-email")
				}
				hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
				if err != nil {
					return err
				}
				_, err = db.ExecContext(ctx,
					`INSERT INTO admins (email, name, password)
					 VALUES ($1, $2, $3)
					 ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, password = EXCLUDED.password`,
					adminEmail, adminName, string(hashed),
				)
				if err != nil {
					return fmt.Errorf("create admin: %w", err)
				}
				log.Info().Str("email", adminEmail).Msg("admin account ready")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&questionsPath, "questions", "", "path to a JSON file of questions")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "admin account email")
	cmd.Flags().StringVar(&adminName, "admin-name", "Admin", "admin account name")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "admin account password")
	return cmd
}
