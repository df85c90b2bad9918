package apperrors

import "errors"

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrFetch indicates that an upstream data source failed to resolve
// (transport failure, timeout or a non-2xx response).
var ErrFetch = errors.New("upstream fetch failed")

// ErrUpstreamFormat indicates that an upstream data source resolved but its
// payload did not have the expected shape.
var ErrUpstreamFormat = errors.New("unexpected upstream format")

// ErrInvalidInput indicates that the exporter received something other than a
// sequence of record objects.
var ErrInvalidInput = errors.New("the input must be an array of objects")

// ErrConflict indicates that an export is already running for this trigger.
var ErrConflict = errors.New("export already in progress")
