package response

type StatusCode int

const (
	StatusOK               StatusCode = 200
	StatusBadRequest       StatusCode = 400
	StatusNotFound         StatusCode = 404
	StatusMethodNotAllowed StatusCode = 405
)

func (c StatusCode) Reason() string {
	switch c {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	case StatusMethodNotAllowed:
		return "Method Not Allowed"
	default:
		return ""
	}
}
