// Package cli содержит операторские команды skillctl.
package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/portfolio-admin/skills-backend/internal/config"
	"github.com/portfolio-admin/skills-backend/internal/db"
	"github.com/portfolio-admin/skills-backend/internal/logger"
)

// NewRootCmd собирает дерево команд skillctl.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skillctl",
		Short: "Операторские команды сервиса навыков",
		Long: `Операторские команды сервиса навыков портфолио.

Настройки берутся из тех же переменных окружения, что и у сервера
(DB_DRIVER, DATABASE_URL, JWT_SECRET, ...), и из файла .env, если он есть.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(cmd.ErrOrStderr())
		},
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newRepackCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newTokenCmd())

	return root
}

// Execute запускает skillctl с переданными аргументами.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// openDatabase загружает конфигурацию и открывает базу.
func openDatabase(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, conn, nil
}
