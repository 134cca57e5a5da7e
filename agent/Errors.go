package agent

import (
	"errors"
	"io/fs"
)

// PersistError reports a failure to save or load an agent's parameters
type PersistError struct {
	Op   string
	Path string
	Err  error
}

// Error satisfies the error interface
func (e *PersistError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *PersistError) Unwrap() error {
	return e.Err
}

// ErrMalformed is wrapped by load errors whose file exists but does not
// hold a usable parameter matrix
var ErrMalformed = errors.New("malformed parameters")

// IsMissing returns whether or not an error reports that a parameter
// file does not exist
func IsMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// IsMalformed returns whether or not an error reports that a parameter
// file could not be decoded
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
