package server

import (
	"net"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nhdewitt/static-from-tcp/internal/lines"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 3000
)

type Config struct {
	Host string
	Port int
	// BufferSize is the read chunk size for the line reader.
	BufferSize int
	Logger     zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Host:       DefaultHost,
		Port:       DefaultPort,
		BufferSize: lines.DefaultBufferSize,
		Logger:     zerolog.Nop(),
	}
}

func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
