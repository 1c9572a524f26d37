package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/light-bringer/productcat/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.New(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "text"})

	app := &cli.Command{
		Name:  "migrate",
		Usage: "apply the product catalog schema",
		Commands: []*cli.Command{
			{
				Name:  "spanner",
				Usage: "create the Spanner instance and database if needed, then apply DDL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "project",
						Usage:   "GCP project ID",
						Value:   "test-project",
						Sources: cli.EnvVars("SPANNER_PROJECT_ID"),
					},
					&cli.StringFlag{
						Name:    "instance",
						Usage:   "Spanner instance ID",
						Value:   "dev-instance",
						Sources: cli.EnvVars("SPANNER_INSTANCE_ID"),
					},
					&cli.StringFlag{
						Name:    "database",
						Usage:   "Spanner database ID",
						Value:   "product-catalog-db",
						Sources: cli.EnvVars("SPANNER_DATABASE_ID"),
					},
				},
				Action: spannerAction,
			},
			{
				Name:  "postgres",
				Usage: "apply the PostgreSQL schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dsn",
						Usage:    "PostgreSQL connection string",
						Sources:  cli.EnvVars("POSTGRES_DSN"),
						Required: true,
					},
				},
				Action: postgresAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	slog.Info("migrations completed successfully")
}
