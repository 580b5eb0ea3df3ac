package domain

import "errors"

// ErrMalformedURL is raised inside the classifier when a URL does not parse.
// It never leaves the classifier: tagging falls back to the title.
var ErrMalformedURL = errors.New("malformed url")

// ErrNoActiveTab is returned by a tab source when there is nothing to capture.
// Capture treats it as a silent skip.
var ErrNoActiveTab = errors.New("no active tab")

// ErrInvalidImportFormat is returned when an import payload is not an array of records.
// The collection is left unchanged.
var ErrInvalidImportFormat = errors.New("invalid import format")

// ErrRecordNotFound is returned by lookups. Delete and tag edits treat a
// missing id as a no-op and never return it.
var ErrRecordNotFound = errors.New("record not found")

// ErrUnknownCommand is returned for hotkey commands other than the capture one.
var ErrUnknownCommand = errors.New("unknown command")
