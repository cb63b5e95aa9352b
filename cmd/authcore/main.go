package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/authcore/internal/config"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
)

var configPath string

func main() {
	// .env opcional: en producción todo viene del entorno.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "authcore",
		Short:         "Servicio de emisión, validación y revocación de tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path al config YAML")

	root.AddCommand(serveCmd(), keysCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "authcore",
		Version:     os.Getenv("SERVICE_VERSION"),
	})
	return cfg, nil
}
