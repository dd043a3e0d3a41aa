// Package usecase implements the dashboard state, derived statistics and fetch coordination.
package usecase

import "errors"

// ErrUnknownRange is returned when a time range outside the known set is selected.
var ErrUnknownRange = errors.New("unknown time range")
