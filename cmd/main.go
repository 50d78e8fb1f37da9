package main

import (
	"Food-Share-Backend/cmd/config"
	migration "Food-Share-Backend/cmd/database/migrate"
	"Food-Share-Backend/internal/utils"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "foodshare",
	Short: "Food Share donation backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.LoadConfig()
		setLogLevel(utils.GetConfig("LOG_LEVEL"))
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB()
		if err != nil {
			return err
		}
		return migration.Migrate(db)
	},
}

var migrateOnStart bool

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "run migrations before serving")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if migrateOnStart {
		if err := migration.Migrate(db); err != nil {
			return err
		}
	}

	app, err := config.NewApp(db)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + utils.GetConfigOr("APP_PORT", "8080"))
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server stopped")
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}
