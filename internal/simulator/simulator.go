package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/shelfsim/internal/kitchen"
	"github.com/chrisdamba/shelfsim/internal/models"
)

// State is the driver's lifecycle state.
type State int

const (
	// StateRunning: orders remain to be ingested or some shelf holds an order.
	StateRunning State = iota
	// StateDrained: every order was ingested and every shelf is empty. Terminal.
	StateDrained
)

func (s State) String() string {
	if s == StateDrained {
		return "drained"
	}
	return "running"
}

type Simulator struct {
	Config      *models.Config
	Kitchen     *kitchen.Kitchen
	Orders      []*models.Order
	CurrentTime int
	Totals      models.Totals
	RunID       string
	Seed        int64
	Rng         *PartitionedRNG
	EventQueue  *models.EventQueue

	output    OutputDestination
	ingested  int
	progress  *progressbar.ProgressBar
	startedAt time.Time
}

// NewSimulator wires a kitchen for config and prepares to ingest orders in
// slice order. A zero seed is replaced by one taken from the wall clock.
func NewSimulator(config *models.Config, orders []*models.Order, output OutputDestination) *Simulator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if output == nil {
		output = NewConsoleOutput(os.Stdout)
	}

	rng := NewPartitionedRNG(NewSimulationKey(seed))
	sim := &Simulator{
		Config:     config,
		Kitchen:    kitchen.NewKitchen(config, rng.ForSubsystem(SubsystemPickup), rng.ForSubsystem(SubsystemEviction)),
		Orders:     orders,
		RunID:      cuid.New(),
		Seed:       seed,
		Rng:        rng,
		EventQueue: models.NewEventQueue(),
		output:     output,
	}
	sim.Kitchen.SetObserver(sim)

	if config.ShowProgress {
		sim.progress = progressbar.NewOptions(len(orders),
			progressbar.OptionSetDescription("ingesting orders"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)
	}
	return sim
}

// State reports whether more ticks are needed.
func (s *Simulator) State() State {
	if s.ingested < len(s.Orders) || !s.Kitchen.IsEmpty() {
		return StateRunning
	}
	return StateDrained
}

// Run ticks until the simulator is drained, pausing TickInterval between
// ticks, then emits the final totals.
func (s *Simulator) Run(ctx context.Context) error {
	s.startedAt = time.Now()
	logrus.Infof("Simulation %s starts with %d orders, ingestion rate %d, seed %d",
		s.RunID, len(s.Orders), s.Config.IngestionRate, s.Seed)

	var ticker *time.Ticker
	if s.Config.TickInterval > 0 {
		ticker = time.NewTicker(s.Config.TickInterval)
		defer ticker.Stop()
	}

	for s.State() == StateRunning {
		if err := s.Tick(); err != nil {
			return err
		}
		if err := s.pace(ctx, ticker); err != nil {
			return err
		}
	}

	s.finish()
	return nil
}

func (s *Simulator) pace(ctx context.Context, ticker *time.Ticker) error {
	if ticker == nil {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ticker.C:
		return nil
	}
}

// Tick runs one time step: waste cleanup, delivery cleanup, ingestion of the
// next batch, snapshot, then the clock advances by one second.
func (s *Simulator) Tick() error {
	now := s.CurrentTime
	logrus.Debugf("Timestamp = %d", now)

	s.Totals.Wasted += s.Kitchen.CleanUpWasted(now)
	s.Totals.Delivered += s.Kitchen.CleanUpDelivered(now)

	batch := s.NextBatch()
	if err := s.ingest(batch, now); err != nil {
		return fmt.Errorf("tick %d: %w", now, err)
	}

	s.snapshot(now)
	s.flush(now)

	s.CurrentTime++
	return nil
}

// NextBatch returns up to IngestionRate orders that have not been ingested yet.
func (s *Simulator) NextBatch() []*models.Order {
	end := min(s.ingested+s.Config.IngestionRate, len(s.Orders))
	return s.Orders[s.ingested:end]
}

func (s *Simulator) ingest(batch []*models.Order, now int) error {
	logrus.Infof("New orders: %s", batchDisplay(batch))

	for _, order := range batch {
		s.EventQueue.Enqueue(&models.Event{Time: now, Type: models.EventOrderArrived, Data: order})
		placement, err := s.Kitchen.Place(order, now)
		if err != nil {
			return err
		}
		if placement.Evicted != nil {
			s.Totals.Discarded++
			logrus.Infof("Order removed from %s to clear space: %s", s.Kitchen.Overflow.Name(), placement.Evicted.ShortID())
		}
		s.ingested++
	}

	if s.progress != nil && len(batch) > 0 {
		_ = s.progress.Add(len(batch))
	}
	return nil
}

// ShelfChanged queues a shelf notice for the end-of-tick flush.
func (s *Simulator) ShelfChanged(change kitchen.ShelfChange) {
	logrus.Debugf("Order %s on %s: %s (after %ds)", change.Order.DisplayName(), change.Shelf, change.Reason, change.Order.Age(change.Time))
	s.EventQueue.Enqueue(&models.Event{Time: change.Time, Type: models.EventShelfChanged, Data: change})
}

func (s *Simulator) snapshot(now int) {
	for _, shelf := range s.Kitchen.Shelves() {
		logrus.Info(shelf.ContentSummary())
		s.EventQueue.Enqueue(&models.Event{Time: now, Type: models.EventShelfSnapshot, Data: shelf})
	}
}

func (s *Simulator) flush(now int) {
	for _, event := range s.EventQueue.DequeueUntil(now) {
		eventMsg, err := s.serializeEvent(event)
		if err != nil {
			logrus.Warnf("Error serializing event: %v", err)
			continue
		}
		s.write(eventMsg)
	}
}

func (s *Simulator) write(eventMsg models.EventMessage) {
	if err := s.output.WriteMessage(eventMsg.Topic, eventMsg.Message); err != nil {
		logrus.Warnf("Failed to write message to %s: %v", eventMsg.Topic, err)
	}
}

func (s *Simulator) finish() {
	if s.progress != nil {
		_ = s.progress.Finish()
	}

	summary := SimulationSummaryEvent{
		Timestamp: int64(s.CurrentTime),
		EventType: models.EventRunFinished,
		RunID:     s.RunID,
		Orders:    int64(len(s.Orders)),
		Ticks:     int64(s.CurrentTime),
		Delivered: int64(s.Totals.Delivered),
		Discarded: int64(s.Totals.Discarded),
		Wasted:    int64(s.Totals.Wasted),
	}
	if msg, err := json.Marshal(summary); err != nil {
		logrus.Warnf("Error serializing summary: %v", err)
	} else {
		s.write(models.EventMessage{Topic: models.TopicSimulationSummary, Message: msg})
	}

	logrus.Info("SUMMARY:")
	logrus.Infof("Number of orders picked up: %d", s.Totals.Delivered)
	logrus.Infof("Number of orders discarded to make room: %d", s.Totals.Discarded)
	logrus.Infof("Number of orders wasted and discarded: %d", s.Totals.Wasted)
}

// Summary describes the run so far.
func (s *Simulator) Summary() models.RunSummary {
	return models.RunSummary{
		RunID:      s.RunID,
		Seed:       s.Seed,
		Orders:     len(s.Orders),
		Ticks:      s.CurrentTime,
		Totals:     s.Totals,
		StartedAt:  s.startedAt,
		FinishedAt: time.Now(),
	}
}

func (s *Simulator) serializeEvent(event *models.Event) (models.EventMessage, error) {
	var topic string
	var eventData interface{}

	switch event.Type {
	case models.EventOrderArrived:
		order := event.Data.(*models.Order)
		eventData = OrderArrivalEvent{
			Timestamp: int64(event.Time),
			EventType: event.Type,
			RunID:     s.RunID,
			OrderID:   order.ID,
			ShortID:   order.ShortID(),
			Name:      order.Name,
			Temp:      string(order.Temp),
			PickupAt:  int64(order.PickupAt()),
		}
		topic = models.TopicOrderArrival

	case models.EventShelfChanged:
		change := event.Data.(kitchen.ShelfChange)
		eventData = ShelfEvent{
			Timestamp:  int64(event.Time),
			EventType:  event.Type,
			RunID:      s.RunID,
			OrderID:    change.Order.ID,
			ShortID:    change.Order.ShortID(),
			Temp:       string(change.Order.Temp),
			Shelf:      change.Shelf,
			Reason:     change.Reason,
			AgeSeconds: int64(change.Order.Age(change.Time)),
			Freshness:  change.Freshness,
		}
		topic = models.TopicShelf

	case models.EventShelfSnapshot:
		shelf := event.Data.(*kitchen.Shelf)
		ids := make([]string, 0, shelf.Len())
		for _, o := range shelf.Orders() {
			ids = append(ids, o.ShortID())
		}
		eventData = ShelfSnapshotEvent{
			Timestamp: int64(event.Time),
			EventType: event.Type,
			RunID:     s.RunID,
			Shelf:     shelf.Name(),
			Count:     int64(shelf.Len()),
			Capacity:  int64(shelf.Capacity()),
			OrderIDs:  strings.Join(ids, " "),
			Summary:   shelf.ContentSummary(),
		}
		topic = models.TopicShelfSnapshot

	default:
		return models.EventMessage{}, fmt.Errorf("unknown event type: %s", event.Type)
	}

	msg, err := json.Marshal(eventData)
	if err != nil {
		return models.EventMessage{}, err
	}
	return models.EventMessage{Topic: topic, Message: msg}, nil
}

func batchDisplay(batch []*models.Order) string {
	if len(batch) == 0 {
		return "None"
	}
	names := make([]string, 0, len(batch))
	for _, o := range batch {
		names = append(names, o.DisplayName())
	}
	return strings.Join(names, " ")
}
