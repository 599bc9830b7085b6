package lines

import (
	"bytes"
	"errors"
	"io"
)

const (
	DefaultBufferSize = 16384
	crlf              = "\r\n"
)

// ErrConnectionClosed is returned by Next when the peer closed the stream
// before the blank line ending the header block was received.
var ErrConnectionClosed = errors.New("connection closed before end of headers")

type readerState int

const (
	stateReading readerState = iota
	stateDone
	stateClosed
)

// Reader splits a byte stream into CRLF-terminated lines, stopping at the
// first empty line. It is one-shot: once Next has returned an error the
// Reader keeps returning that error.
type Reader struct {
	src       io.Reader
	chunk     []byte
	buf       []byte
	remainder []byte
	state     readerState
	err       error
}

func NewReader(src io.Reader, bufferSize int) *Reader {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Reader{
		src:   src,
		chunk: make([]byte, bufferSize),
		state: stateReading,
	}
}

// Next returns the next line without its CRLF. It returns io.EOF once the
// blank line has been consumed, ErrConnectionClosed if the stream ended
// first, or the underlying read error.
func (r *Reader) Next() ([]byte, error) {
	if r.state != stateReading {
		return nil, r.err
	}

	for {
		idx := bytes.Index(r.buf, []byte(crlf))
		if idx == 0 {
			r.remainder = r.buf[len(crlf):]
			r.buf = nil
			r.finish(stateDone, io.EOF)
			return nil, io.EOF
		}
		if idx > 0 {
			line := r.buf[:idx]
			r.buf = r.buf[idx+len(crlf):]
			return line, nil
		}

		n, err := r.src.Read(r.chunk)
		if n > 0 {
			// copy out of chunk so returned lines stay valid after the next read
			r.buf = append(r.buf[:len(r.buf):len(r.buf)], r.chunk[:n]...)
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = ErrConnectionClosed
			}
			r.buf = nil
			r.finish(stateClosed, err)
			return nil, err
		}
	}
}

func (r *Reader) finish(state readerState, err error) {
	r.state = state
	r.err = err
}

// Remainder returns the bytes read past the blank line. It is empty until
// Next has returned io.EOF, and stays empty if the stream closed early.
func (r *Reader) Remainder() []byte {
	return r.remainder
}

// Done reports whether the blank line terminating the headers was seen.
func (r *Reader) Done() bool {
	return r.state == stateDone
}
