package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/backend/memory"
	"go-retail-ws/internal/console"
	"go-retail-ws/internal/repository"
	"go-retail-ws/internal/service"
	"go-retail-ws/internal/session"
	"go-retail-ws/pkg/config"
	"go-retail-ws/pkg/database"
	"go-retail-ws/pkg/logger"
)

var backendFlag string

var rootCmd = &cobra.Command{
	Use:   "retailctl",
	Short: "Retail store manager console",
	Long: `retailctl manages stores, staff, products, sales and metrics from the terminal.

Run "retailctl shell" for the interactive menu.`,
	SilenceUsage: true,
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive menu",
	Long: `Start the interactive menu.

Examples:
  # Throwaway data kept in memory
  retailctl shell --backend memory

  # Use the database configured by DATABASE_URL or DB_*
  retailctl shell --backend postgres
`,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().StringVar(&backendFlag, "backend", "", "memory or postgres (default from BACKEND)")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	logCfg := logger.ConfigFromEnv()
	if os.Getenv("LOG_LEVEL") == "" {
		logCfg.Level = "warn"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := config.FromEnv()
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}

	b, err := openBackend(cfg.Backend)
	if err != nil {
		return err
	}

	sessions := session.NewManager(session.WithTTL(cfg.SessionTTL))
	auth := service.NewAuthService(b, sessions, log.Named("auth"))
	store := service.NewStoreService(b, nil, log.Named("store"))
	store.Subscribe(func(ev service.Event) {
		log.Debug("context changed", zap.String("type", string(ev.Type)), zap.String("value", ev.Value))
	})

	return console.New(auth, store, cmd.InOrStdin(), cmd.OutOrStdout(), log).Run(cmd.Context())
}

func openBackend(kind string) (backend.Backend, error) {
	if kind != config.BackendPostgres {
		return memory.New(), nil
	}
	db, err := database.ConnectDB(database.ConfigFromEnv())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return repository.NewBackend(db), nil
}
