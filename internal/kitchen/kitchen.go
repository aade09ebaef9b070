package kitchen

import (
	"fmt"

	"github.com/chrisdamba/shelfsim/internal/models"
)

// Outcome says how an order ended up on its shelf.
type Outcome string

const (
	OutcomeNative   Outcome = "native"
	OutcomeOverflow Outcome = "overflow"
	OutcomeMigrated Outcome = "overflow-after-migration"
	OutcomeEvicted  Outcome = "overflow-after-eviction"
)

// Placement is the result of placing one order.
type Placement struct {
	Order    *models.Order
	Shelf    *Shelf
	Outcome  Outcome
	Migrated *models.Order // moved from overflow to its own shelf to make room
	Evicted  *models.Order // discarded from overflow to make room
}

// Kitchen owns the three single-temperature shelves and the overflow shelf,
// and decides where each arriving order goes.
type Kitchen struct {
	Hot      *Shelf
	Cold     *Shelf
	Frozen   *Shelf
	Overflow *Shelf

	minPickupDelay int
	maxPickupDelay int
	pickupRng      RandomSource
	evictionRng    RandomSource
}

// NewKitchen builds the shelves from cfg. pickupRng draws courier delays and
// evictionRng chooses which overflow order to discard when nothing can move.
func NewKitchen(cfg *models.Config, pickupRng, evictionRng RandomSource) *Kitchen {
	return &Kitchen{
		Hot:            NewSingleTemperatureShelf(models.TemperatureHot, cfg.HotShelfCapacity, cfg.SingleTempDecayModifier),
		Cold:           NewSingleTemperatureShelf(models.TemperatureCold, cfg.ColdShelfCapacity, cfg.SingleTempDecayModifier),
		Frozen:         NewSingleTemperatureShelf(models.TemperatureFrozen, cfg.FrozenShelfCapacity, cfg.SingleTempDecayModifier),
		Overflow:       NewOverflowShelf(cfg.OverflowShelfCapacity, cfg.OverflowDecayModifier),
		minPickupDelay: cfg.MinPickupDelay,
		maxPickupDelay: cfg.MaxPickupDelay,
		pickupRng:      pickupRng,
		evictionRng:    evictionRng,
	}
}

// Shelves returns all shelves in display order: hot, cold, frozen, overflow.
func (k *Kitchen) Shelves() []*Shelf {
	return []*Shelf{k.Hot, k.Cold, k.Frozen, k.Overflow}
}

// SetObserver attaches o to every shelf.
func (k *Kitchen) SetObserver(o Observer) {
	for _, s := range k.Shelves() {
		s.SetObserver(o)
	}
}

// ShelfFor returns the single-temperature shelf an order belongs on.
func (k *Kitchen) ShelfFor(t models.Temperature) *Shelf {
	switch t {
	case models.TemperatureHot:
		return k.Hot
	case models.TemperatureCold:
		return k.Cold
	case models.TemperatureFrozen:
		return k.Frozen
	}
	panic(fmt.Sprintf("kitchen: no shelf for temperature %q", t))
}

// Len is the number of orders on all shelves.
func (k *Kitchen) Len() int {
	n := 0
	for _, s := range k.Shelves() {
		n += s.Len()
	}
	return n
}

func (k *Kitchen) IsEmpty() bool {
	return k.Len() == 0
}

// CleanUpWasted purges spoiled orders from every shelf.
func (k *Kitchen) CleanUpWasted(now int) int {
	n := 0
	for _, s := range k.Shelves() {
		n += s.CleanUpWasted(now)
	}
	return n
}

// CleanUpDelivered purges picked-up orders from every shelf.
func (k *Kitchen) CleanUpDelivered(now int) int {
	n := 0
	for _, s := range k.Shelves() {
		n += s.CleanUpDelivered(now)
	}
	return n
}

// Dispatch stamps the order with its arrival time and a courier pickup time
// drawn uniformly from [now+min, now+max].
func (k *Kitchen) Dispatch(order *models.Order, now int) error {
	delay := k.minPickupDelay + k.pickupRng.Intn(k.maxPickupDelay-k.minPickupDelay+1)
	return order.Stamp(now, now+delay)
}

// Place dispatches a courier for the order and puts it on a shelf: its own
// shelf first, then overflow. When overflow is full it moves the least fresh
// overflow order whose own shelf has room, or failing that evicts a random
// overflow order, and retries overflow.
func (k *Kitchen) Place(order *models.Order, now int) (Placement, error) {
	if err := k.Dispatch(order, now); err != nil {
		return Placement{}, err
	}

	placement := Placement{Order: order}

	native := k.ShelfFor(order.Temp)
	if err := native.Add(order, now); err == nil {
		placement.Shelf = native
		placement.Outcome = OutcomeNative
		return placement, nil
	}
	if err := k.Overflow.Add(order, now); err == nil {
		placement.Shelf = k.Overflow
		placement.Outcome = OutcomeOverflow
		return placement, nil
	}

	if movable := k.MovableOrder(now); movable != nil {
		k.Overflow.Remove(movable, models.ReasonRemovedCongestionMigrated, now)
		if err := k.ShelfFor(movable.Temp).Add(movable, now); err != nil {
			return placement, fmt.Errorf("%w: migrating %s: %w", ErrPlacementFailed, movable.ID, err)
		}
		placement.Migrated = movable
		placement.Outcome = OutcomeMigrated
	} else {
		placement.Evicted = k.Overflow.RemoveRandomOrder(k.evictionRng, now)
		placement.Outcome = OutcomeEvicted
	}

	if err := k.Overflow.Add(order, now); err != nil {
		return placement, fmt.Errorf("%w: order %s: %w", ErrPlacementFailed, order.ID, err)
	}
	placement.Shelf = k.Overflow
	return placement, nil
}

// MovableOrder picks the overflow order with the lowest freshness (on the
// overflow shelf) among those whose own shelf has room. The first order found
// wins a tie. It returns nil when no order can move.
func (k *Kitchen) MovableOrder(now int) *models.Order {
	var picked *models.Order
	var lowest float64
	for _, o := range k.Overflow.Orders() {
		if !k.ShelfFor(o.Temp).IsAvailable() {
			continue
		}
		freshness := k.Overflow.Freshness(o, now)
		if picked == nil || freshness < lowest {
			picked = o
			lowest = freshness
		}
	}
	return picked
}
