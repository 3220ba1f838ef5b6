package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateSession is returned when a session already has a record.
var ErrDuplicateSession = errors.New("session already recorded")
