// Package repository provides the MySQL-backed stores: per-location
// PMS instance configuration and the denormalized booking log used for
// reporting. Sentinel errors let handlers map failures to HTTP codes
// without inspecting driver errors.
package repository

import "errors"

// ErrInstanceNotFound is returned when no pms_instances row exists for
// a location id. Handlers should translate this into an HTTP 404.
var ErrInstanceNotFound = errors.New("instance not found")
