package models

import (
	"fmt"
	"strings"
)

// Temperature is the storage class an order must be kept at.
type Temperature string

const (
	TemperatureHot    Temperature = "hot"
	TemperatureCold   Temperature = "cold"
	TemperatureFrozen Temperature = "frozen"
)

// Temperatures lists every valid temperature in shelf display order.
var Temperatures = []Temperature{TemperatureHot, TemperatureCold, TemperatureFrozen}

// ParseTemperature is case-sensitive: only "hot", "cold" and "frozen" are accepted.
func ParseTemperature(s string) (Temperature, error) {
	switch t := Temperature(s); t {
	case TemperatureHot, TemperatureCold, TemperatureFrozen:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTemperature, s)
}

// Label is the upper-case name used on console output, e.g. "FROZEN".
func (t Temperature) Label() string {
	return strings.ToUpper(string(t))
}

// Order is an order's immutable facts plus the two lifecycle timestamps set at ingestion.
// Timestamps are simulated seconds since the start of the run.
type Order struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Temp      Temperature `json:"temp"`
	ShelfLife float64     `json:"shelfLife"` // seconds of nominal freshness
	DecayRate float64     `json:"decayRate"` // per-second value loss coefficient

	arrivedAt int
	pickupAt  int
	stamped   bool
}

func NewOrder(id, name string, temp Temperature, shelfLife, decayRate float64) *Order {
	return &Order{
		ID:        id,
		Name:      name,
		Temp:      temp,
		ShelfLife: shelfLife,
		DecayRate: decayRate,
	}
}

// Stamp sets the arrival and pickup times. It can only succeed once per order.
func (o *Order) Stamp(arrivedAt, pickupAt int) error {
	if o.stamped {
		return fmt.Errorf("%w: order %s arrived at %d", ErrAlreadyStamped, o.ID, o.arrivedAt)
	}
	if pickupAt < arrivedAt {
		return fmt.Errorf("order %s: pickup time %d before arrival %d", o.ID, pickupAt, arrivedAt)
	}
	o.arrivedAt = arrivedAt
	o.pickupAt = pickupAt
	o.stamped = true
	return nil
}

// Stamped reports whether arrival and pickup times have been set.
func (o *Order) Stamped() bool {
	return o.stamped
}

func (o *Order) ArrivedAt() int {
	return o.arrivedAt
}

func (o *Order) PickupAt() int {
	return o.pickupAt
}

// Age is the number of seconds the order has been in the kitchen at time now.
func (o *Order) Age(now int) int {
	return now - o.arrivedAt
}

// ShortID is the last dash-separated segment of the ID, used only for display.
func (o *Order) ShortID() string {
	if i := strings.LastIndex(o.ID, "-"); i >= 0 {
		return o.ID[i+1:]
	}
	return o.ID
}

// DisplayName renders the order as "shortId(TEMP)".
func (o *Order) DisplayName() string {
	return o.ShortID() + "(" + o.Temp.Label() + ")"
}

// OrderRecord is the on-disk shape of an order in an input file.
type OrderRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Temp      string  `json:"temp"`
	ShelfLife float64 `json:"shelfLife"`
	DecayRate float64 `json:"decayRate"`
}
