package kitchen

import "errors"

// Reasons a shelf rejects an order, in the order Add checks them.
var (
	ErrDuplicateOrder      = errors.New("order already on shelf")
	ErrOrderNotStamped     = errors.New("order has no arrival or pickup time")
	ErrTemperatureMismatch = errors.New("order temperature does not match shelf")
	ErrShelfFull           = errors.New("shelf is full")
)

// ErrPlacementFailed means an order could not be placed even after congestion
// resolution. It signals a broken invariant, not a recoverable condition.
var ErrPlacementFailed = errors.New("placement failed")
