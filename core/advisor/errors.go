package advisor

import (
	"errors"

	"github.com/kilianp07/evrange/core/model"
)

var (
	// ErrInvalidInput wraps snapshot validation failures.
	ErrInvalidInput = model.ErrInvalidInput
	// ErrInvalidConfig is returned for an unusable RangeConfig.
	ErrInvalidConfig = errors.New("invalid range config")
	// ErrNoChargingStations is returned when the destination is out of range
	// and there is no station to fall back to.
	ErrNoChargingStations = errors.New("no charging stations available")
	// ErrDivisionGuard is the panic value raised when a speed recommendation
	// is requested for a non-positive distance. It signals a sequencing bug in
	// the caller and is never returned as an error.
	ErrDivisionGuard = errors.New("speed recommendation requested for non-positive distance")
)
