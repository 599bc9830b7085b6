package headers

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrMalformedLine is returned by ParseLine for a header line without a
// colon or with bytes that are not valid UTF-8.
var ErrMalformedLine = errors.New("malformed header line")

// Headers maps lowercased field names to values.
type Headers map[string]string

func NewHeaders() Headers {
	return map[string]string{}
}

// ParseLine folds a single header line (CRLF already stripped) into h.
// The name is everything before the first colon, lowercased; the value is
// the rest with leading whitespace removed. A repeated name replaces the
// earlier value.
func (h Headers) ParseLine(line []byte) error {
	if !utf8.Valid(line) {
		return fmt.Errorf("%w (invalid utf-8): %q", ErrMalformedLine, line)
	}

	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return fmt.Errorf("%w (no colon): %q", ErrMalformedLine, line)
	}

	name := string(line[:colonIdx])
	value := string(bytes.TrimLeft(line[colonIdx+1:], " \t\v\f\r\n"))
	h.Set(name, value)

	return nil
}

func (h Headers) Set(key, value string) {
	h[lower(key)] = value
}

func (h Headers) Get(key string) (value string) {
	return h[lower(key)]
}

func (h Headers) Lookup(key string) (value string, ok bool) {
	value, ok = h[lower(key)]
	return value, ok
}

func (h Headers) Del(key string) {
	delete(h, lower(key))
}

func lower(key string) string {
	return cases.Lower(language.English).String(key)
}
