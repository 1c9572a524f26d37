package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/urfave/cli/v3"

	"github.com/light-bringer/productcat/migrations"
)

func postgresAction(ctx context.Context, cmd *cli.Command) error {
	conn, err := pgx.Connect(ctx, cmd.String("dsn"))
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close(ctx)

	files, err := migrations.Load(migrations.Postgres)
	if err != nil {
		return err
	}

	for _, f := range files {
		slog.Info("applying migration", "file", f.Name)
		if err := pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
			for _, stmt := range f.Statements {
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to apply %s: %w", f.Name, err)
		}
	}
	return nil
}
