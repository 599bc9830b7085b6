package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhdewitt/static-from-tcp/internal/fileserver"
	"github.com/nhdewitt/static-from-tcp/internal/server"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	root, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("error resolving working directory")
	}
	files, err := fileserver.New(root)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening server root")
	}

	cfg := server.DefaultConfig()
	cfg.Logger = log
	srv, err := server.Serve(cfg, server.FileHandler(files))
	if err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}
	defer srv.Close()
	log.Info().Str("root", files.Root()).Msgf("Listening on %s...", cfg.Address())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Server gracefully stopped")
}
