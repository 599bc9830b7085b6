package response

import (
	"errors"
	"fmt"
	"io"
)

const crlf = "\r\n"

var ErrOutOfOrder = errors.New("writer state out-of-order")

type writerState int

const (
	StateWritingStatusLine writerState = iota
	StateWritingHeaders
	StateWritingBody
	StateDone
)

// Field is one header line. Fields are written in the order given.
type Field struct {
	Name  string
	Value string
}

type Writer struct {
	writer io.Writer
	state  writerState
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: w,
		state:  StateWritingStatusLine,
	}
}

func (w *Writer) WriteStatusLine(statusCode StatusCode) error {
	if w.state != StateWritingStatusLine {
		return ErrOutOfOrder
	}

	reason := statusCode.Reason()
	if reason == "" {
		return fmt.Errorf("unsupported status code: %d", statusCode)
	}
	if _, err := fmt.Fprintf(w.writer, "HTTP/1.1 %d %s%s", statusCode, reason, crlf); err != nil {
		return fmt.Errorf("error writing status line: %w", err)
	}

	w.state = StateWritingHeaders
	return nil
}

func (w *Writer) WriteHeaders(fields []Field) error {
	if w.state != StateWritingHeaders {
		return ErrOutOfOrder
	}

	block := make([]byte, 0, 64)
	for _, f := range fields {
		block = append(block, f.Name...)
		block = append(block, ": "...)
		block = append(block, f.Value...)
		block = append(block, crlf...)
	}
	block = append(block, crlf...)
	if _, err := w.writer.Write(block); err != nil {
		return fmt.Errorf("error writing headers: %w", err)
	}

	w.state = StateWritingBody
	return nil
}

func (w *Writer) WriteBody(p []byte) (int, error) {
	if w.state != StateWritingBody {
		return 0, ErrOutOfOrder
	}

	w.state = StateDone
	return w.writer.Write(p)
}

// WriteBodyFrom copies the body from r. When the underlying writer is a
// *net.TCPConn and r an *os.File this goes through sendfile.
func (w *Writer) WriteBodyFrom(r io.Reader) (int64, error) {
	if w.state != StateWritingBody {
		return 0, ErrOutOfOrder
	}

	w.state = StateDone
	return io.Copy(w.writer, r)
}
