package request

import "fmt"

type ParseErrorKind int

const (
	MissingRequestLine ParseErrorKind = iota
	MalformedRequestLine
	MalformedHeaderLine
)

func (k ParseErrorKind) String() string {
	switch k {
	case MissingRequestLine:
		return "request line missing"
	case MalformedRequestLine:
		return "malformed request line"
	case MalformedHeaderLine:
		return "malformed header line"
	default:
		return fmt.Sprintf("parse error kind %d", int(k))
	}
}

// Sentinels for errors.Is; any *ParseError of the same kind matches.
var (
	ErrMissingRequestLine   = &ParseError{Kind: MissingRequestLine}
	ErrMalformedRequestLine = &ParseError{Kind: MalformedRequestLine}
	ErrMalformedHeaderLine  = &ParseError{Kind: MalformedHeaderLine}
)

type ParseError struct {
	Kind ParseErrorKind
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}
