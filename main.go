package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/duosweeper/internal/config"
	"github.com/robalobadob/duosweeper/internal/history"
	"github.com/robalobadob/duosweeper/internal/httpserver"
	"github.com/robalobadob/duosweeper/internal/question"
	"github.com/robalobadob/duosweeper/internal/store"
)

func main() {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if err := question.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load question bank")
	}

	hist, err := history.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open history")
	}
	defer hist.Close()

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, hist, cfg)
	log.Info().
		Str("port", cfg.Port).
		Int("questions", question.Count()).
		Bool("autoFinalize", cfg.AutoFinalize).
		Msg("starting duosweeper")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
