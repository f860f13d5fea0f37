package services

import "errors"

// ErrNotFound is returned when a referenced entity does not exist. Callers
// check it with errors.Is.
var ErrNotFound = errors.New("not found")
