package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	migrations "github.com/dropDatabas3/authcore/migrations/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Aplica las migraciones de esquema embebidas",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate solo aplica con storage.driver postgres")
			}

			action := "up"
			if len(args) == 1 {
				action = strings.ToLower(args[0])
			}
			var suffix string
			switch action {
			case "up":
				suffix = "_up.sql"
			case "down":
				suffix = "_down.sql"
			default:
				return fmt.Errorf("acción desconocida: %q", action)
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("pgxpool: %w", err)
			}
			defer pool.Close()

			files, err := listSQL(suffix)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("sin migraciones para aplicar")
				return nil
			}

			for _, f := range files {
				if err := execSQLFile(ctx, pool, f); err != nil {
					return fmt.Errorf("exec %s: %w", f, err)
				}
				fmt.Println("aplicada:", f)
			}
			return nil
		},
	}
}

func listSQL(suffix string) ([]string, error) {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	// los down se aplican en orden inverso
	if suffix == "_down.sql" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func execSQLFile(ctx context.Context, pool *pgxpool.Pool, name string) error {
	b, err := migrations.FS.ReadFile(name)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, string(b))
	return err
}
