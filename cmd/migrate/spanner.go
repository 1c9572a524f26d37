package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/urfave/cli/v3"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/productcat/migrations"
)

type spannerTarget struct {
	project  string
	instance string
	database string
}

func (t spannerTarget) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", t.project, t.instance)
}

func (t spannerTarget) databasePath() string {
	return fmt.Sprintf("%s/databases/%s", t.instancePath(), t.database)
}

func spannerAction(ctx context.Context, cmd *cli.Command) error {
	target := spannerTarget{
		project:  cmd.String("project"),
		instance: cmd.String("instance"),
		database: cmd.String("database"),
	}

	emulator := os.Getenv("SPANNER_EMULATOR_HOST") != ""
	if emulator {
		slog.Info("using Spanner emulator", "host", os.Getenv("SPANNER_EMULATOR_HOST"))
		// Real instances are provisioned outside this tool.
		if err := ensureInstance(ctx, target); err != nil {
			return fmt.Errorf("failed to ensure instance: %w", err)
		}
	}

	if err := ensureDatabase(ctx, target, emulator); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	return applySpannerMigrations(ctx, target)
}

func ensureInstance(ctx context.Context, t spannerTarget) error {
	slog.Info("ensuring instance exists", "instance", t.instance)

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: t.instancePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to get instance: %w", err)
	}

	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + t.project,
		InstanceId: t.instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", t.project),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("failed to wait for instance creation: %w", err)
	}

	slog.Info("instance created", "instance", t.instance)
	return nil
}

func ensureDatabase(ctx context.Context, t spannerTarget, emulator bool) error {
	slog.Info("ensuring database exists", "database", t.database)

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: t.databasePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		if emulator {
			// The emulator reports some lookups oddly; the DDL step will tell.
			slog.Warn("proceeding after database lookup error", "error", err)
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          t.instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", t.database),
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}

	slog.Info("database created", "database", t.database)
	return nil
}

func applySpannerMigrations(ctx context.Context, t spannerTarget) error {
	files, err := migrations.Load(migrations.Spanner)
	if err != nil {
		return err
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	for _, f := range files {
		slog.Info("applying migration", "file", f.Name)

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   t.databasePath(),
			Statements: f.Statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", f.Name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", f.Name, err)
		}
	}
	return nil
}
