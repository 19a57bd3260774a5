package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by repositories when a requested record does
// not exist. Backends wrap it so callers can distinguish a missing
// record from a storage failure with errors.Is.
var ErrNotFound = goerr.New("record not found")
