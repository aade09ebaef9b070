package factories

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"

	"github.com/chrisdamba/shelfsim/internal/models"
)

var dishes = map[models.Temperature][]string{
	models.TemperatureHot: {
		"Cheese Pizza", "Pad Thai", "Chicken Tikka Masala", "Beef Madras", "Ramen",
		"BBQ Ribs", "Miso Soup", "Burrito", "Kung Pao Chicken", "Coq au Vin",
	},
	models.TemperatureCold: {
		"Caesar Salad", "Greek Salad", "Sushi Roll", "Guacamole", "Hummus",
		"Tabbouleh", "Chocolate Shake", "Cobb Salad", "Poke Bowl", "Gazpacho",
	},
	models.TemperatureFrozen: {
		"Vanilla Ice Cream", "Mango Sorbet", "Banana Split", "Frozen Yogurt", "Popsicle",
		"Mochi Ice Cream", "Gelato", "Acai Bowl", "Ice Cream Sandwich", "Frozen Custard",
	},
}

// OrderFactory produces order records the loader accepts. Two factories
// built with the same seed produce the same sequence.
type OrderFactory struct {
	fake faker.Faker
	rng  *rand.Rand
}

func NewOrderFactory(seed int64) *OrderFactory {
	return &OrderFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (f *OrderFactory) CreateOrder() models.OrderRecord {
	temp := models.Temperatures[f.fake.IntBetween(0, len(models.Temperatures)-1)]
	return models.OrderRecord{
		ID:        f.newID(),
		Name:      f.fake.RandomStringElement(dishes[temp]),
		Temp:      string(temp),
		ShelfLife: float64(f.fake.IntBetween(30, 600)),
		DecayRate: f.fake.Float64(2, 0, 1),
	}
}

func (f *OrderFactory) CreateOrders(count int) []models.OrderRecord {
	records := make([]models.OrderRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, f.CreateOrder())
	}
	return records
}

func (f *OrderFactory) newID() string {
	id, err := uuid.NewRandomFromReader(f.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
