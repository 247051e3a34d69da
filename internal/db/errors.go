package db

import "errors"

// Sentinel errors for backend operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrBulkFailed    = errors.New("db: bulk request reported item errors")
)

// Op constants name OpenSearch API calls for error context.
const (
	OpPing          = "ping"
	OpIndexExists   = "indices.exists"
	OpCreateIndex   = "indices.create"
	OpRefresh       = "indices.refresh"
	OpBulk          = "bulk"
	OpSearch        = "search"
	OpNewConnection = "client.new"

	OpGet = "GET"
	OpSet = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
