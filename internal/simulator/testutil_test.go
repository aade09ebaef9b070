package simulator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/shelfsim/internal/models"
)

const sampleOrders = `[
  {"id": "a8cfcb76-7f24-4420-a5ba-d46dd77bdffd", "name": "Banana Split", "temp": "frozen", "shelfLife": 20, "decayRate": 0.63},
  {"id": "58e9b5fe-3fde-4a27-8e98-682e58a4a65d", "name": "McFlury", "temp": "frozen", "shelfLife": 375, "decayRate": 0.4},
  {"id": "2ec069e3-576f-48eb-869f-74a540ef840c", "name": "Acai Bowl", "temp": "cold", "shelfLife": 249, "decayRate": 0.3},
  {"id": "690b85f7-8c7d-4337-bd02-04e04454c826", "name": "Yogurt", "temp": "cold", "shelfLife": 263, "decayRate": 0.37},
  {"id": "972aa5b8-5d83-4d5e-8cf3-8a1a1437b18a", "name": "Chocolate Gelato", "temp": "frozen", "shelfLife": 300, "decayRate": 0.61}
]`

type message struct {
	topic string
	body  map[string]interface{}
}

// recordingOutput keeps every message in write order.
type recordingOutput struct {
	messages []message
	closed   bool
}

func (r *recordingOutput) WriteMessage(topic string, msg []byte) error {
	var body map[string]interface{}
	if err := json.Unmarshal(msg, &body); err != nil {
		return err
	}
	r.messages = append(r.messages, message{topic: topic, body: body})
	return nil
}

func (r *recordingOutput) Close() error {
	r.closed = true
	return nil
}

func (r *recordingOutput) onTopic(topic string) []message {
	var out []message
	for _, m := range r.messages {
		if m.topic == topic {
			out = append(out, m)
		}
	}
	return out
}

func (r *recordingOutput) reasons() []string {
	var out []string
	for _, m := range r.onTopic(models.TopicShelf) {
		out = append(out, m.body["reason"].(string))
	}
	return out
}

func loadSample(t *testing.T) []*models.Order {
	t.Helper()
	orders, err := models.LoadOrders(strings.NewReader(sampleOrders))
	require.NoError(t, err)
	return orders
}

func testConfig() *models.Config {
	cfg := models.DefaultConfig()
	cfg.TickInterval = 0
	cfg.Seed = 42
	return cfg
}

func order(id string, temp models.Temperature, shelfLife, decayRate float64) *models.Order {
	return models.NewOrder(id, "dish", temp, shelfLife, decayRate)
}
