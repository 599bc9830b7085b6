package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/nhdewitt/static-from-tcp/internal/request"
	"github.com/nhdewitt/static-from-tcp/internal/server"
)

const port = 42069

// dump prints the parsed request and answers with the hello page.
func dump(w io.Writer, req *request.Request) error {
	fmt.Println("Request line:")
	fmt.Printf("- Method: %s\n", req.RequestLine.Method)
	fmt.Printf("- Target: %s\n", req.RequestLine.Path)
	fmt.Printf("- Version: %s\n", req.RequestLine.Version)

	names := make([]string, 0, len(req.Headers))
	for name := range req.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("Headers:")
	for _, name := range names {
		fmt.Printf("- %s: %s\n", name, req.Headers[name])
	}

	return server.HelloHandler(w, req)
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := server.DefaultConfig()
	cfg.Port = port
	cfg.Logger = log
	srv, err := server.Serve(cfg, dump)
	if err != nil {
		log.Fatal().Err(err).Msg("error listening")
	}
	defer srv.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
