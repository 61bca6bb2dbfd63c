package sec

import "errors"

// ErrNonFinite is returned by [Validate] and by [ComputeWithOptions] with
// Options.Validate set when a coordinate is NaN or infinite.
var ErrNonFinite = errors.New("sec: non-finite coordinate")
