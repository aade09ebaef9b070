package simulator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/shelfsim/internal/kitchen"
	"github.com/chrisdamba/shelfsim/internal/models"
)

func TestSimulator_RunDeliversEverything(t *testing.T) {
	out := &recordingOutput{}
	sim := NewSimulator(testConfig(), loadSample(t), out)

	require.NoError(t, sim.Run(context.Background()))

	assert.Equal(t, StateDrained, sim.State())
	assert.Equal(t, models.Totals{Delivered: 5}, sim.Totals)
	// last batch lands at t=2 and waits at most 6s
	assert.GreaterOrEqual(t, sim.CurrentTime, 5)
	assert.LessOrEqual(t, sim.CurrentTime, 9)

	assert.Len(t, out.onTopic(models.TopicOrderArrival), 5)
	assert.ElementsMatch(t, []string{
		"added", "added", "added", "added", "added",
		"removed-delivered", "removed-delivered", "removed-delivered", "removed-delivered", "removed-delivered",
	}, out.reasons())
	assert.Len(t, out.onTopic(models.TopicShelfSnapshot), 4*sim.CurrentTime)

	summaries := out.onTopic(models.TopicSimulationSummary)
	require.Len(t, summaries, 1)
	assert.Equal(t, 5.0, summaries[0].body["delivered"])
	assert.Equal(t, 0.0, summaries[0].body["discarded"])
	assert.Equal(t, 0.0, summaries[0].body["wasted"])
	assert.Equal(t, sim.RunID, summaries[0].body["runId"])
	assert.Equal(t, models.TopicSimulationSummary, out.messages[len(out.messages)-1].topic)
}

func TestSimulator_EventsAreInTimeOrder(t *testing.T) {
	out := &recordingOutput{}
	sim := NewSimulator(testConfig(), loadSample(t), out)
	require.NoError(t, sim.Run(context.Background()))

	last := -1.0
	for _, m := range out.messages {
		ts := m.body["timestamp"].(float64)
		assert.GreaterOrEqual(t, ts, last)
		last = ts
	}
}

func TestSimulator_ArrivalPrecedesAdd(t *testing.T) {
	out := &recordingOutput{}
	sim := NewSimulator(testConfig(), loadSample(t)[:1], out)
	require.NoError(t, sim.Tick())

	require.GreaterOrEqual(t, len(out.messages), 2)
	assert.Equal(t, models.TopicOrderArrival, out.messages[0].topic)
	assert.Equal(t, models.TopicShelf, out.messages[1].topic)
	assert.Equal(t, "FROZEN", out.messages[1].body["shelf"])
	assert.Equal(t, 1.0, out.messages[1].body["freshness"])
}

func TestSimulator_TickIngestsBatches(t *testing.T) {
	sim := NewSimulator(testConfig(), loadSample(t), &recordingOutput{})

	assert.Len(t, sim.NextBatch(), 2)
	require.NoError(t, sim.Tick())
	assert.Equal(t, 1, sim.CurrentTime)
	assert.Equal(t, 2, sim.Kitchen.Len())

	require.NoError(t, sim.Tick())
	assert.Equal(t, 4, sim.Kitchen.Len())

	assert.Len(t, sim.NextBatch(), 1)
	require.NoError(t, sim.Tick())
	assert.Empty(t, sim.NextBatch())

	for _, o := range sim.Orders {
		assert.True(t, o.Stamped())
		delay := o.PickupAt() - o.ArrivedAt()
		assert.GreaterOrEqual(t, delay, 2)
		assert.LessOrEqual(t, delay, 6)
	}
}

func TestSimulator_StateWithNoOrders(t *testing.T) {
	out := &recordingOutput{}
	sim := NewSimulator(testConfig(), nil, out)
	assert.Equal(t, StateDrained, sim.State())

	require.NoError(t, sim.Run(context.Background()))
	assert.Equal(t, 0, sim.CurrentTime)
	require.Len(t, out.messages, 1)
	assert.Equal(t, models.TopicSimulationSummary, out.messages[0].topic)
}

func TestSimulator_CountsDiscards(t *testing.T) {
	cfg := testConfig()
	cfg.IngestionRate = 3
	cfg.HotShelfCapacity = 0
	cfg.OverflowShelfCapacity = 1

	orders := []*models.Order{
		order("h-1", models.TemperatureHot, 1000, 0),
		order("h-2", models.TemperatureHot, 1000, 0),
		order("h-3", models.TemperatureHot, 1000, 0),
	}
	out := &recordingOutput{}
	sim := NewSimulator(cfg, orders, out)
	require.NoError(t, sim.Run(context.Background()))

	assert.Equal(t, models.Totals{Delivered: 1, Discarded: 2}, sim.Totals)
	assert.Equal(t, []string{
		"added",
		"removed-congestion-evicted", "added",
		"removed-congestion-evicted", "added",
		"removed-delivered",
	}, out.reasons())
}

func TestSimulator_CountsWaste(t *testing.T) {
	cfg := testConfig()
	cfg.MinPickupDelay = 5
	cfg.MaxPickupDelay = 5

	// freshness on a hot shelf is 1 - age, so it reaches 0 at t=1
	orders := []*models.Order{order("h-1", models.TemperatureHot, 2, 1)}
	out := &recordingOutput{}
	sim := NewSimulator(cfg, orders, out)
	require.NoError(t, sim.Run(context.Background()))

	assert.Equal(t, models.Totals{Wasted: 1}, sim.Totals)
	assert.Equal(t, 2, sim.CurrentTime)
	assert.Equal(t, []string{"added", "removed-wasted"}, out.reasons())
}

func TestSimulator_WasteIsCheckedBeforeDelivery(t *testing.T) {
	cfg := testConfig()
	cfg.MinPickupDelay = 1
	cfg.MaxPickupDelay = 1

	orders := []*models.Order{order("h-1", models.TemperatureHot, 2, 1)}
	sim := NewSimulator(cfg, orders, &recordingOutput{})
	require.NoError(t, sim.Run(context.Background()))

	assert.Equal(t, models.Totals{Wasted: 1}, sim.Totals)
}

func TestSimulator_SameSeedSamePickups(t *testing.T) {
	run := func() []int {
		orders := loadSample(t)
		sim := NewSimulator(testConfig(), orders, &recordingOutput{})
		require.NoError(t, sim.Run(context.Background()))
		pickups := make([]int, 0, len(orders))
		for _, o := range orders {
			pickups = append(pickups, o.PickupAt())
		}
		return pickups
	}
	assert.Equal(t, run(), run())
}

func TestSimulator_ZeroSeedPicksOne(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 0
	sim := NewSimulator(cfg, nil, &recordingOutput{})
	assert.NotZero(t, sim.Seed)
	assert.Equal(t, SimulationKey(sim.Seed), sim.Rng.Key())
}

func TestSimulator_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &recordingOutput{}
	sim := NewSimulator(cfg, loadSample(t), out)
	err := sim.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sim.CurrentTime)
	assert.Empty(t, out.onTopic(models.TopicSimulationSummary))
}

func TestSimulator_RunPacesTicks(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = 5 * time.Millisecond
	cfg.MinPickupDelay = 1
	cfg.MaxPickupDelay = 1

	sim := NewSimulator(cfg, loadSample(t)[:1], &recordingOutput{})
	start := time.Now()
	require.NoError(t, sim.Run(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), time.Duration(sim.CurrentTime)*cfg.TickInterval)
}

func TestSimulator_TickFailsWhenPlacementFails(t *testing.T) {
	sim := NewSimulator(testConfig(), loadSample(t)[:1], &recordingOutput{})
	sim.Kitchen.Frozen.SetCapacity(0)
	sim.Kitchen.Overflow.SetCapacity(0)

	err := sim.Tick()
	assert.ErrorIs(t, err, kitchen.ErrPlacementFailed)
	assert.Equal(t, 0, sim.CurrentTime)
}

func TestSimulator_RunReturnsPlacementFailure(t *testing.T) {
	sim := NewSimulator(testConfig(), loadSample(t)[:1], &recordingOutput{})
	sim.Kitchen.Frozen.SetCapacity(0)
	sim.Kitchen.Overflow.SetCapacity(0)

	assert.ErrorIs(t, sim.Run(context.Background()), kitchen.ErrPlacementFailed)
}

type failingOutput struct{ calls int }

func (f *failingOutput) WriteMessage(string, []byte) error {
	f.calls++
	return errors.New("broker down")
}

func (f *failingOutput) Close() error { return nil }

func TestSimulator_OutputErrorsDoNotStopTheRun(t *testing.T) {
	out := &failingOutput{}
	sim := NewSimulator(testConfig(), loadSample(t), out)
	require.NoError(t, sim.Run(context.Background()))
	assert.Equal(t, 5, sim.Totals.Delivered)
	assert.Positive(t, out.calls)
}

func TestSimulator_Logs(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	level := logrus.GetLevel()
	logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetLevel(level)

	cfg := testConfig()
	cfg.IngestionRate = 1
	orders := []*models.Order{order("0-0-0-0-7", models.TemperatureCold, 100, 0)}
	sim := NewSimulator(cfg, orders, &recordingOutput{})
	require.NoError(t, sim.Run(context.Background()))

	var lines []string
	for _, e := range hook.AllEntries() {
		lines = append(lines, e.Message)
	}
	assert.Contains(t, lines, "New orders: 7(COLD)")
	assert.Contains(t, lines, "New orders: None")
	assert.Contains(t, lines, "COLD Occupancy (1/10): 7")
	assert.Contains(t, lines, "OVERFLOW Occupancy (0/15): None")
	assert.Contains(t, lines, "Number of orders picked up: 1")
	assert.Contains(t, lines, "Number of orders discarded to make room: 0")
	assert.Contains(t, lines, "Number of orders wasted and discarded: 0")
}

func TestSimulator_Summary(t *testing.T) {
	sim := NewSimulator(testConfig(), loadSample(t), &recordingOutput{})
	require.NoError(t, sim.Run(context.Background()))

	s := sim.Summary()
	assert.Equal(t, sim.RunID, s.RunID)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 5, s.Orders)
	assert.Equal(t, sim.CurrentTime, s.Ticks)
	assert.Equal(t, sim.Totals, s.Totals)
	assert.False(t, s.StartedAt.After(s.FinishedAt))
}

func TestBatchDisplay(t *testing.T) {
	assert.Equal(t, "None", batchDisplay(nil))
	assert.Equal(t, "1(HOT) b(FROZEN)", batchDisplay([]*models.Order{
		order("a-1", models.TemperatureHot, 1, 0),
		order("b", models.TemperatureFrozen, 1, 0),
	}))
}
