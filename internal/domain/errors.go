// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested remote entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates the remote entity already exists.
var ErrConflict = errors.New("conflict: resource already exists")
