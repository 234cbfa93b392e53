package debug

// ErrorCode categorises an error. Codes are strings so they read well in
// logs and JSON. The zero code means "no code".
type ErrorCode string

const (
	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeDatabase indicates a database operation failed.
	CodeDatabase ErrorCode = "DATABASE_ERROR"

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Coder is implemented by errors that carry an ErrorCode.
type Coder interface {
	Code() ErrorCode
}
