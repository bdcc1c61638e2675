package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/metalagman/arena/internal/db"
	"github.com/metalagman/arena/internal/debate"
	"github.com/metalagman/arena/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the arena HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			storeDB, workDir, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			client, retryer := newGenerator(cfg)
			server := web.NewServer(db.NewStore(storeDB), retryer, client, debate.Options{
				DefaultTemperature: cfg.Defaults.Temperature,
				DefaultMaxTokens:   cfg.Defaults.MaxTokens,
			})

			log.Info().Str("addr", cfg.Server.Addr).Str("ollama", cfg.Ollama.BaseURL).Msg("arena listening")
			return http.ListenAndServe(cfg.Server.Addr, server.Routes())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
