package analysis

import "errors"

// ErrPlantTypeMismatch is returned when a comparison is requested for two
// plants of different technologies.
var ErrPlantTypeMismatch = errors.New("plant types differ")
