package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/nhdewitt/static-from-tcp/internal/fileserver"
	"github.com/nhdewitt/static-from-tcp/internal/lines"
	"github.com/nhdewitt/static-from-tcp/internal/request"
	"github.com/nhdewitt/static-from-tcp/internal/response"
)

// Server accepts connections one at a time and handles each to completion
// before accepting the next.
type Server struct {
	listener    net.Listener
	isListening atomic.Bool
	handler     Handler
	bufferSize  int
	log         zerolog.Logger
	done        sync.WaitGroup
}

// Serve validates the canned responses, binds cfg's address and starts the
// accept loop in the background.
func Serve(cfg Config, handler Handler) (*Server, error) {
	if err := response.Validate(); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("error listening on %s: %w", cfg.Address(), err)
	}

	s := &Server{
		listener:   listener,
		handler:    handler,
		bufferSize: cfg.BufferSize,
		log:        cfg.Logger,
	}
	s.isListening.Store(true)
	s.log.Info().Str("addr", listener.Addr().String()).Msg("listening")

	s.done.Add(1)
	go s.listen()

	return s, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops accepting and waits for the connection in hand to finish.
func (s *Server) Close() error {
	if !s.isListening.CompareAndSwap(true, false) {
		return nil
	}

	err := s.listener.Close()
	s.done.Wait()
	return err
}

func (s *Server) listen() {
	defer s.done.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.isListening.Load() {
				return
			}
			s.log.Error().Err(err).Msg("error accepting connection")
			continue
		}

		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	log := s.log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	log.Debug().Msg("connection accepted")

	req, err := request.ParseLines(lines.NewReader(conn, s.bufferSize))
	if err != nil {
		var perr *request.ParseError
		if errors.As(err, &perr) {
			log.Warn().Err(err).Stringer("kind", perr.Kind).Msg("bad request")
		} else {
			log.Warn().Err(err).Msg("error reading request")
		}
		if werr := response.WriteCanned(conn, response.KeyBadRequest); werr != nil {
			log.Error().Err(werr).Msg("error writing response")
		}
		return
	}

	err = s.handler(conn, req)
	switch {
	case err == nil:
		log.Info().Str("method", req.Method()).Str("path", req.Path()).Msg("request served")
	case errors.Is(err, fileserver.ErrNotFound), errors.Is(err, fileserver.ErrPathEscape):
		log.Info().Str("method", req.Method()).Str("path", req.Path()).AnErr("reason", err).Msg("not found")
	default:
		log.Error().Err(err).Str("method", req.Method()).Str("path", req.Path()).Msg("error writing response")
	}
}
