package kitchen

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/shelfsim/internal/models"
)

// Affinity is the temperature a shelf accepts. AffinityAny is reserved for the overflow shelf.
type Affinity string

const (
	AffinityHot    Affinity = "hot"
	AffinityCold   Affinity = "cold"
	AffinityFrozen Affinity = "frozen"
	AffinityAny    Affinity = "any"
)

// AffinityFor maps an order temperature to the matching single-temperature affinity.
func AffinityFor(t models.Temperature) Affinity {
	return Affinity(t)
}

// ShelfChange describes one order entering or leaving a shelf.
type ShelfChange struct {
	Shelf     string
	Order     *models.Order
	Reason    string
	Time      int
	Freshness float64
}

// Observer receives shelf changes. It is for observability only.
type Observer interface {
	ShelfChanged(change ShelfChange)
}

// RandomSource picks a uniformly random int in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Shelf is a capacity-bounded holding area. Single-temperature shelves only
// take orders of their affinity; the overflow shelf takes any temperature and
// is the only one that supports random eviction.
type Shelf struct {
	name           string
	affinity       Affinity
	capacity       int
	decayModifier  float64
	randomEviction bool
	orders         []*models.Order
	observer       Observer
}

func NewSingleTemperatureShelf(temp models.Temperature, capacity int, decayModifier float64) *Shelf {
	return &Shelf{
		name:          temp.Label(),
		affinity:      AffinityFor(temp),
		capacity:      capacity,
		decayModifier: decayModifier,
	}
}

func NewOverflowShelf(capacity int, decayModifier float64) *Shelf {
	return &Shelf{
		name:           "OVERFLOW",
		affinity:       AffinityAny,
		capacity:       capacity,
		decayModifier:  decayModifier,
		randomEviction: true,
	}
}

// SetObserver registers the receiver of add and remove notices.
func (s *Shelf) SetObserver(o Observer) {
	s.observer = o
}

// SetCapacity overrides the capacity. It exists for configuration and tests;
// the placement engine never resizes a shelf.
func (s *Shelf) SetCapacity(capacity int) {
	s.capacity = capacity
}

func (s *Shelf) Name() string { return s.name }

func (s *Shelf) Affinity() Affinity { return s.affinity }

func (s *Shelf) Capacity() int { return s.capacity }

func (s *Shelf) DecayModifier() float64 { return s.decayModifier }

func (s *Shelf) Len() int { return len(s.orders) }

func (s *Shelf) SupportsRandomEviction() bool { return s.randomEviction }

// Orders returns the held orders in insertion order.
func (s *Shelf) Orders() []*models.Order {
	out := make([]*models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// IsAvailable reports whether the shelf has room for one more order.
func (s *Shelf) IsAvailable() bool {
	return len(s.orders) < s.capacity
}

// Contains reports whether an order with the same ID is on the shelf.
func (s *Shelf) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

// Add places an order on the shelf at time now. Rejections are checked in
// order: duplicate ID, unstamped order, temperature mismatch, full shelf.
func (s *Shelf) Add(order *models.Order, now int) error {
	if s.Contains(order.ID) {
		return fmt.Errorf("%w: %s on %s", ErrDuplicateOrder, order.ID, s.name)
	}
	if !order.Stamped() {
		return fmt.Errorf("%w: %s", ErrOrderNotStamped, order.ID)
	}
	if !s.accepts(order.Temp) {
		return fmt.Errorf("%w: %s order on %s shelf", ErrTemperatureMismatch, order.Temp, s.name)
	}
	if !s.IsAvailable() {
		return fmt.Errorf("%w: %s (%d/%d)", ErrShelfFull, s.name, len(s.orders), s.capacity)
	}
	s.orders = append(s.orders, order)
	s.notify(order, models.ReasonAdded, now)
	return nil
}

// Remove takes the order off the shelf at time now, tagging the notice with
// reason. It returns false when the order was not on the shelf.
func (s *Shelf) Remove(order *models.Order, reason string, now int) bool {
	i := s.indexOf(order.ID)
	if i < 0 {
		return false
	}
	s.removeAt(i)
	s.notify(order, reason, now)
	return true
}

// RemoveRandomOrder evicts a uniformly random order, or returns nil when the
// shelf is empty. Calling it on a shelf without random eviction is a bug.
func (s *Shelf) RemoveRandomOrder(rng RandomSource, now int) *models.Order {
	if !s.randomEviction {
		panic(fmt.Sprintf("kitchen: random eviction is not supported on the %s shelf", s.name))
	}
	if len(s.orders) == 0 {
		return nil
	}
	i := rng.Intn(len(s.orders))
	order := s.orders[i]
	s.removeAt(i)
	s.notify(order, models.ReasonRemovedCongestionEvicted, now)
	return order
}

// Freshness is the order's inherent value on this shelf at time now:
//
//	(shelfLife - age - decayRate*age*decayModifier) / shelfLife
//
// A value <= 0 means the order is wasted.
func (s *Shelf) Freshness(order *models.Order, now int) float64 {
	age := float64(order.Age(now))
	return (order.ShelfLife - age - order.DecayRate*age*s.decayModifier) / order.ShelfLife
}

// CleanUpWasted removes every order whose freshness has reached zero and
// returns how many were removed.
func (s *Shelf) CleanUpWasted(now int) int {
	return s.cleanUp(now, models.ReasonRemovedWasted, func(o *models.Order) bool {
		return s.Freshness(o, now) <= 0
	})
}

// CleanUpDelivered removes every order whose pickup time is at or before now.
func (s *Shelf) CleanUpDelivered(now int) int {
	return s.cleanUp(now, models.ReasonRemovedDelivered, func(o *models.Order) bool {
		return o.PickupAt() <= now
	})
}

func (s *Shelf) cleanUp(now int, reason string, expired func(*models.Order) bool) int {
	kept := s.orders[:0]
	var removed []*models.Order
	for _, o := range s.orders {
		if expired(o) {
			removed = append(removed, o)
			continue
		}
		kept = append(kept, o)
	}
	for i := len(kept); i < len(s.orders); i++ {
		s.orders[i] = nil
	}
	s.orders = kept

	for _, o := range removed {
		s.notify(o, reason, now)
	}
	return len(removed)
}

// ContentSummary renders the occupancy, e.g. "HOT Occupancy (2/10): 1 5".
func (s *Shelf) ContentSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Occupancy (%d/%d):", s.name, len(s.orders), s.capacity)
	if len(s.orders) == 0 {
		b.WriteString(" None")
		return b.String()
	}
	for _, o := range s.orders {
		b.WriteString(" ")
		b.WriteString(o.ShortID())
	}
	return b.String()
}

func (s *Shelf) accepts(t models.Temperature) bool {
	return s.affinity == AffinityAny || s.affinity == AffinityFor(t)
}

func (s *Shelf) indexOf(id string) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *Shelf) removeAt(i int) {
	copy(s.orders[i:], s.orders[i+1:])
	s.orders[len(s.orders)-1] = nil
	s.orders = s.orders[:len(s.orders)-1]
}

func (s *Shelf) notify(order *models.Order, reason string, now int) {
	if s.observer == nil {
		return
	}
	s.observer.ShelfChanged(ShelfChange{
		Shelf:     s.name,
		Order:     order,
		Reason:    reason,
		Time:      now,
		Freshness: s.Freshness(order, now),
	})
}
