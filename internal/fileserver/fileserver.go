package fileserver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nhdewitt/static-from-tcp/internal/response"
)

const indexPath = "/index.html"

var (
	// ErrPathEscape means the target resolved outside the root. It is
	// answered with 404 so traversal attempts look like missing files.
	ErrPathEscape = errors.New("path escapes server root")
	ErrNotFound   = errors.New("file not found")
)

type Server struct {
	root string
}

// New returns a file server rooted at the absolute, cleaned form of root.
func New(root string) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("error resolving server root %q: %w", root, err)
	}
	return &Server{root: abs}, nil
}

func (s *Server) Root() string {
	return s.root
}

// Resolve maps a raw request target to a file path under the root.
// "/" maps to /index.html. The target is not URL-decoded.
func (s *Server) Resolve(target string) (string, error) {
	if target == "" || target == "/" {
		target = indexPath
	}

	abs := filepath.Join(s.root, filepath.FromSlash(strings.TrimLeft(target, "/")))
	if !within(s.root, abs) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, target)
	}
	return abs, nil
}

// within compares path components, so /srv/www does not contain
// /srv/www-secret.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Serve writes exactly one response for target to w: the file with a 200,
// or the canned 404. A nil error means the file was sent. ErrPathEscape and
// ErrNotFound report why a 404 was written instead; any other error comes
// from writing to w.
func (s *Server) Serve(w io.Writer, target string) error {
	path, err := s.Resolve(target)
	if err != nil {
		return notFound(w, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return notFound(w, fmt.Errorf("%w: %v", ErrNotFound, err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return notFound(w, fmt.Errorf("%w: %v", ErrNotFound, err))
	}
	if !info.Mode().IsRegular() {
		return notFound(w, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, target))
	}

	rw := response.NewWriter(w)
	if err := rw.WriteStatusLine(response.StatusOK); err != nil {
		return err
	}
	if err := rw.WriteHeaders(response.FileFields(ContentType(path), info.Size())); err != nil {
		return err
	}
	n, err := rw.WriteBodyFrom(f)
	if err != nil {
		return fmt.Errorf("error sending %s after %d bytes: %w", target, n, err)
	}

	return nil
}

func notFound(w io.Writer, cause error) error {
	if err := response.WriteCanned(w, response.KeyNotFound); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
