package main

import (
	"fmt"
	"os"

	"mini-crm/internal/config"
	"mini-crm/internal/database"
	"mini-crm/internal/server"
	"mini-crm/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db := database.Init(cfg.DBDSN)
	if cfg.SeedDemo {
		database.SeedDemo(db)
	}

	r := server.NewRouter(cfg, store.NewDB(db), logger)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info().Str("addr", addr).Msg("starting server")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
