package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrNotIndexable is returned for coordinates outside the Web Mercator
	// band Redis GEO accepts.
	ErrNotIndexable = errors.New("db: coordinate outside geo index range")
)

// MaxGeoLatitude is the highest absolute latitude Redis GEO can index.
const MaxGeoLatitude = 85.05112878

// Op constants map to Redis command names for error context.
const (
	OpDel     = "DEL"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpExists  = "EXISTS"
	OpScan    = "SCAN"
	OpGet     = "GET"
	OpSet     = "SET"

	OpGeoAdd    = "GEOADD"
	OpGeoSearch = "GEOSEARCH"
	OpZRem      = "ZREM"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
