package blur

import (
	"errors"
	"fmt"
)

// ErrDegenerateInput reports input the pipeline cannot build an image from.
var ErrDegenerateInput = errors.New("degenerate input")

// ErrNoHits is returned when an image is requested for an empty hit list.
var ErrNoHits = fmt.Errorf("%w: no hits", ErrDegenerateInput)
