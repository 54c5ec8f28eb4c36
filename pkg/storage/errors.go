package storage

import "errors"

// ErrConflict is returned by a backend commit when a staged document changed
// since it was read. The transaction function is re-run on a fresh snapshot;
// callers only ever see apperr.ErrContention once attempts run out.
var ErrConflict = errors.New("concurrent modification")
