package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/portfolio-admin/skills-backend/internal/config"
	"github.com/portfolio-admin/skills-backend/internal/service"
)

func newTokenCmd() *cobra.Command {
	var ownerFlag string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Выпустить access токен для локальной разработки",
		Long: `Выпускает HS256 токен с JWT_SECRET из окружения.

В production токены выпускает провайдер идентификации, команда отказывается работать.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.IsProduction() {
				return fmt.Errorf("token: недоступно в production")
			}

			ownerID := cfg.PortfolioOwnerID
			if ownerFlag != "" {
				if ownerID, err = uuid.Parse(ownerFlag); err != nil {
					return fmt.Errorf("--owner: %w", err)
				}
			}
			if ownerID == uuid.Nil {
				return fmt.Errorf("укажите --owner или PORTFOLIO_OWNER_ID")
			}

			token, err := service.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience).IssueAccess(ownerID, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "идентификатор владельца (по умолчанию PORTFOLIO_OWNER_ID)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "срок действия токена")
	return cmd
}
