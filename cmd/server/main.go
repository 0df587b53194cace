package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/mouradf/it-asset-tracker/internal/config"
	"github.com/mouradf/it-asset-tracker/internal/database"
	"github.com/mouradf/it-asset-tracker/internal/handler"
	"github.com/mouradf/it-asset-tracker/internal/importer"
	"github.com/mouradf/it-asset-tracker/internal/migrate"
	"github.com/mouradf/it-asset-tracker/internal/repository"
	"github.com/mouradf/it-asset-tracker/internal/router"
	"github.com/mouradf/it-asset-tracker/internal/service"
	"github.com/mouradf/it-asset-tracker/internal/session"
	"github.com/mouradf/it-asset-tracker/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "IT asset tracker for branch hardware, parts and tasks",
	// Running the binary with no subcommand starts the HTTP server,
	// matching how the service is launched in deployment units.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := db.Bootstrap(ctx); err != nil {
			return err
		}
		applied, err := migrate.Run(ctx, db, os.DirFS(cfg.MigrationsDir))
		if err != nil {
			return err
		}
		fmt.Printf("applied %d migration(s)\n", applied)
		return nil
	},
}

var importPCsCmd = &cobra.Command{
	Use:   "import-pcs <file>",
	Short: "Import branch PC specs from a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := db.Bootstrap(ctx); err != nil {
			return err
		}
		pcs := repository.NewPCRepo(db)
		n, err := importer.ImportPCs(ctx, pcs, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("imported %d PC spec(s)\n", n)
		return nil
	},
}

func runServe() error {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := db.Bootstrap(ctx); err != nil {
		cancel()
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	if _, err := os.Stat(cfg.MigrationsDir); err == nil {
		if _, err := migrate.Run(ctx, db, os.DirFS(cfg.MigrationsDir)); err != nil {
			cancel()
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	tasks := repository.NewTaskRepo(db)
	materials := repository.NewMaterialRepo(db)
	inventory := repository.NewInventoryRepo(db)
	pcs := repository.NewPCRepo(db)
	users := repository.NewUserRepo(db)

	// Seed PC specs from the legacy CSV export on first boot only.
	if n, err := importer.ImportPCsIfNeeded(ctx, pcs, cfg.PCCSVPath); err != nil {
		fmt.Fprintf(os.Stderr, "pc import: %v\n", err)
	} else if n > 0 {
		fmt.Printf("imported %d PC spec(s) from %s\n", n, cfg.PCCSVPath)
	}
	cancel()

	// Sessions prefer redis; a single instance runs fine on the in-memory
	// store, it just forgets logins on restart.
	var sessions session.Store
	if rdb := config.NewRedisClient(); rdb != nil {
		sessions = session.NewRedisStore(rdb, time.Duration(cfg.SessionTTLHours)*time.Hour)
	} else {
		sessions = session.NewMemoryStore(time.Duration(cfg.SessionTTLHours) * time.Hour)
	}

	var objects storage.ObjectStore = storage.Disabled{}
	if cfg.MinioEndpoint != "" {
		store, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "object storage unavailable, images disabled: %v\n", err)
		} else {
			objects = store
		}
	}

	events := service.NewPublisher(cfg.AMQPURL)

	assets := handler.NewAssetHandler(tasks, materials, inventory, pcs, objects, events)
	auth := handler.NewAuthHandler(users, sessions, cfg.SessionSecret,
		time.Duration(cfg.SessionTTLHours)*time.Hour, cfg.BcryptCost)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		DB:        db,
		Assets:    assets,
		Auth:      auth,
		Sessions:  sessions,
		Secret:    cfg.SessionSecret,
		StaticDir: cfg.StaticDir,
	})

	return e.Start(":" + cfg.Port)
}

func main() {
	// Missing .env is fine; production supplies real environment variables.
	_ = godotenv.Load()

	rootCmd.AddCommand(serveCmd, migrateCmd, importPCsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
