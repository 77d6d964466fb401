package database

import "errors"

// ErrStoreUnavailable marks a transport-level failure talking to a
// backing store (network partition, connection refused). It is the only
// error class callers are expected to retry; business-rule failures are
// never wrapped in it.
var ErrStoreUnavailable = errors.New("backing store unavailable")
