package server

import (
	"bytes"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhdewitt/static-from-tcp/internal/fileserver"
	"github.com/nhdewitt/static-from-tcp/internal/request"
	"github.com/nhdewitt/static-from-tcp/internal/response"
)

func startServer(t *testing.T, logger zerolog.Logger) *Server {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>Hello!</h1>"), 0o644))

	files, err := fileserver.New(root)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Port = 0
	cfg.Logger = logger
	s, err := Serve(cfg, FileHandler(files))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dial(t *testing.T, s *Server) *net.TCPConn {
	t.Helper()
	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn.(*net.TCPConn)
}

func roundTrip(t *testing.T, s *Server, raw string) string {
	t.Helper()
	conn := dial(t, s)
	_, err := conn.Write([]byte(raw))
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	got, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(got)
}

func canned(t *testing.T, key response.Key) string {
	t.Helper()
	b, err := response.Bytes(key)
	require.NoError(t, err)
	return string(b)
}

func TestServeScenarios(t *testing.T) {
	s := startServer(t, zerolog.Nop())

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "index",
			raw:  "GET / HTTP/1.1\r\n\r\n",
			want: "HTTP/1.1 200 OK\r\nContent-type: text/html\r\nContent-length: 15\r\n\r\n<h1>Hello!</h1>",
		},
		{
			name: "headers are accepted",
			raw:  "GET /index.html HTTP/1.1\r\nHost: localhost\r\nAccept: */*\r\n\r\n",
			want: "HTTP/1.1 200 OK\r\nContent-type: text/html\r\nContent-length: 15\r\n\r\n<h1>Hello!</h1>",
		},
		{name: "missing file", raw: "GET /missing.txt HTTP/1.1\r\n\r\n", want: canned(t, response.KeyNotFound)},
		{name: "traversal", raw: "GET /../../etc/passwd HTTP/1.1\r\n\r\n", want: canned(t, response.KeyNotFound)},
		{name: "post", raw: "POST / HTTP/1.1\r\n\r\n", want: canned(t, response.KeyMethodNotAllowed)},
		{name: "post with body", raw: "POST / HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc", want: canned(t, response.KeyMethodNotAllowed)},
		{name: "malformed request line", raw: "GET /\r\n\r\n", want: canned(t, response.KeyBadRequest)},
		{name: "malformed header", raw: "GET / HTTP/1.1\r\nbroken\r\n\r\n", want: canned(t, response.KeyBadRequest)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, roundTrip(t, s, c.raw))
		})
	}
}

func TestServeEmptyConnection(t *testing.T) {
	s := startServer(t, zerolog.Nop())

	// half-close so the 400 can still be read back
	conn := dial(t, s)
	require.NoError(t, conn.CloseWrite())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	got, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, canned(t, response.KeyBadRequest), string(got))

	// a full close must not take the accept loop down
	gone, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	require.NoError(t, gone.Close())

	assert.Contains(t, roundTrip(t, s, "GET / HTTP/1.1\r\n\r\n"), "HTTP/1.1 200 OK\r\n")
}

func TestServeIsSequential(t *testing.T) {
	s := startServer(t, zerolog.Nop())

	first := dial(t, s)
	// give the loop time to pick up first before second arrives
	time.Sleep(50 * time.Millisecond)
	second := dial(t, s)
	_, err := second.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)

	// second is queued behind first, which has not sent anything yet
	require.NoError(t, second.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, err = second.Read(make([]byte, 1))
	var nerr net.Error
	require.True(t, errors.As(err, &nerr) && nerr.Timeout(), "expected timeout, got %v", err)

	_, err = first.Write([]byte("POST / HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	require.NoError(t, first.SetReadDeadline(time.Now().Add(5*time.Second)))
	got, err := io.ReadAll(first)
	require.NoError(t, err)
	assert.Equal(t, canned(t, response.KeyMethodNotAllowed), string(got))

	require.NoError(t, second.SetReadDeadline(time.Now().Add(5*time.Second)))
	got, err = io.ReadAll(second)
	require.NoError(t, err)
	assert.Contains(t, string(got), "<h1>Hello!</h1>")
}

func TestServeLogs(t *testing.T) {
	var buf bytes.Buffer
	s := startServer(t, zerolog.New(&buf))

	roundTrip(t, s, "GET /\r\n\r\n")
	roundTrip(t, s, "GET /nope HTTP/1.1\r\n\r\n")
	require.NoError(t, s.Close())

	out := buf.String()
	assert.Contains(t, out, `"message":"listening"`)
	assert.Contains(t, out, `"kind":"malformed request line"`)
	assert.Contains(t, out, `"path":"/nope"`)
}

func TestCloseIsIdempotent(t *testing.T) {
	s := startServer(t, zerolog.Nop())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestServeRejectsBusyAddress(t *testing.T) {
	s := startServer(t, zerolog.Nop())

	cfg := DefaultConfig()
	cfg.Port = s.Addr().(*net.TCPAddr).Port
	_, err := Serve(cfg, HelloHandler)
	assert.Error(t, err)
}

func TestFileHandlerDispatch(t *testing.T) {
	root := t.TempDir()
	files, err := fileserver.New(root)
	require.NoError(t, err)
	h := FileHandler(files)

	var buf bytes.Buffer
	err = h(&buf, &request.Request{RequestLine: request.RequestLine{Method: "DELETE", Path: "/"}})
	require.NoError(t, err)
	assert.Equal(t, canned(t, response.KeyMethodNotAllowed), buf.String())

	buf.Reset()
	err = h(&buf, &request.Request{RequestLine: request.RequestLine{Method: "GET", Path: "/"}})
	require.ErrorIs(t, err, fileserver.ErrNotFound)
	assert.Equal(t, canned(t, response.KeyNotFound), buf.String())
}

func TestHelloHandler(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HelloHandler(&buf, nil))
	assert.Equal(t, canned(t, response.KeyHello), buf.String())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:3000", cfg.Address())
	assert.Equal(t, 16384, cfg.BufferSize)
}
