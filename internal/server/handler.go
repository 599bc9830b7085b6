package server

import (
	"io"

	"github.com/nhdewitt/static-from-tcp/internal/fileserver"
	"github.com/nhdewitt/static-from-tcp/internal/request"
	"github.com/nhdewitt/static-from-tcp/internal/response"
)

// Handler writes exactly one response for req to w. The returned error is
// for logging; the connection is closed either way.
type Handler func(w io.Writer, req *request.Request) error

// FileHandler answers GET requests from files and everything else with 405.
func FileHandler(files *fileserver.Server) Handler {
	return func(w io.Writer, req *request.Request) error {
		if req.Method() != "GET" {
			return response.WriteCanned(w, response.KeyMethodNotAllowed)
		}
		return files.Serve(w, req.Path())
	}
}

// HelloHandler answers every request with the canned hello page.
func HelloHandler(w io.Writer, _ *request.Request) error {
	return response.WriteCanned(w, response.KeyHello)
}
