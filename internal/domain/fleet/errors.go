package fleet

import "errors"

var (
	ErrFleetNotFound = errors.New("fleet not found")
)
