package response

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Key names an outcome that is answered with a fixed response.
type Key string

const (
	KeyHello            Key = "200"
	KeyBadRequest       Key = "400"
	KeyNotFound         Key = "404"
	KeyMethodNotAllowed Key = "405"
)

// Canned is a response sent verbatim. ContentLength is declared separately
// from Body so Validate can check the two agree.
type Canned struct {
	Status        StatusCode
	ContentType   string
	ContentLength int
	Body          string
}

func (c Canned) Fields() []Field {
	return []Field{
		{Name: "Content-type", Value: c.ContentType},
		{Name: "Content-length", Value: strconv.Itoa(c.ContentLength)},
	}
}

func (c Canned) validate() error {
	if c.Status.Reason() == "" {
		return fmt.Errorf("unsupported status code %d", c.Status)
	}
	if c.ContentLength != len(c.Body) {
		return fmt.Errorf("declared Content-length %d, body is %d bytes", c.ContentLength, len(c.Body))
	}
	return nil
}

var canned = map[Key]Canned{
	KeyHello: {
		Status:        StatusOK,
		ContentType:   "text/html; charset=utf-8",
		ContentLength: 15,
		Body:          "<h1>Hello!</h1>",
	},
	KeyBadRequest: {
		Status:        StatusBadRequest,
		ContentType:   "text/plain; charset=utf-8",
		ContentLength: 11,
		Body:          "Bad Request",
	},
	KeyNotFound: {
		Status:        StatusNotFound,
		ContentType:   "text/plain",
		ContentLength: 9,
		Body:          "Not Found",
	},
	KeyMethodNotAllowed: {
		Status:        StatusMethodNotAllowed,
		ContentType:   "text/plain",
		ContentLength: 18,
		Body:          "Method Not Allowed",
	},
}

// Validate checks every canned response. The server refuses to start if it
// fails.
func Validate() error {
	for key, c := range canned {
		if err := c.validate(); err != nil {
			return fmt.Errorf("canned response %s: %w", key, err)
		}
	}
	return nil
}

func Lookup(key Key) (Canned, bool) {
	c, ok := canned[key]
	return c, ok
}

// Bytes renders the complete canned response for key.
func Bytes(key Key) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCanned(&buf, key); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCanned writes the canned response for key as a single Write where
// possible, so a client never sees a partial header block.
func WriteCanned(w io.Writer, key Key) error {
	c, ok := canned[key]
	if !ok {
		return fmt.Errorf("no canned response for %q", key)
	}

	var buf bytes.Buffer
	rw := NewWriter(&buf)
	if err := rw.WriteStatusLine(c.Status); err != nil {
		return err
	}
	if err := rw.WriteHeaders(c.Fields()); err != nil {
		return err
	}
	if _, err := rw.WriteBody([]byte(c.Body)); err != nil {
		return err
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("error writing %s response: %w", key, err)
	}
	return nil
}

// FileFields are the headers sent ahead of a served file.
func FileFields(contentType string, contentLength int64) []Field {
	return []Field{
		{Name: "Content-type", Value: contentType},
		{Name: "Content-length", Value: strconv.FormatInt(contentLength, 10)},
	}
}
