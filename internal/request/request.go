package request

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nhdewitt/static-from-tcp/internal/headers"
	"github.com/nhdewitt/static-from-tcp/internal/lines"
)

type Request struct {
	RequestLine RequestLine
	Headers     headers.Headers
}

type RequestLine struct {
	Method  string
	Path    string
	Version string
}

func (r *Request) Method() string { return r.RequestLine.Method }
func (r *Request) Path() string   { return r.RequestLine.Path }

// Parse reads a request line and header block from reader.
func Parse(reader io.Reader) (*Request, error) {
	return ParseLines(lines.NewReader(reader, lines.DefaultBufferSize))
}

// ParseLines builds a Request from the lines left in lr. If the stream
// closes after the request line but before the blank line, the headers
// received so far are kept. Bytes past the blank line stay in lr.Remainder.
func ParseLines(lr *lines.Reader) (*Request, error) {
	first, err := lr.Next()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, lines.ErrConnectionClosed) {
			return nil, &ParseError{Kind: MissingRequestLine, Err: err}
		}
		return nil, fmt.Errorf("error reading request line: %w", err)
	}

	rl, err := requestLineFromBytes(first)
	if err != nil {
		return nil, err
	}

	r := &Request{
		RequestLine: *rl,
		Headers:     headers.NewHeaders(),
	}

	for {
		line, err := lr.Next()
		if errors.Is(err, io.EOF) || errors.Is(err, lines.ErrConnectionClosed) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading headers: %w", err)
		}

		if err := r.Headers.ParseLine(line); err != nil {
			return nil, &ParseError{Kind: MalformedHeaderLine, Line: string(line), Err: err}
		}
	}

	return r, nil
}

func requestLineFromBytes(b []byte) (*RequestLine, error) {
	if !utf8.Valid(b) {
		return nil, &ParseError{Kind: MalformedRequestLine, Line: string(b)}
	}

	s := string(b)
	parts := strings.Split(s, " ")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, &ParseError{Kind: MalformedRequestLine, Line: s}
	}

	return &RequestLine{
		Method:  cases.Upper(language.English).String(parts[0]),
		Path:    parts[1],
		Version: parts[2],
	}, nil
}
