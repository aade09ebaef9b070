package models

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadOrdersFile reads an order input file from disk.
func LoadOrdersFile(filePath string) ([]*Order, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening order file: %w", err)
	}
	defer file.Close()

	orders, err := LoadOrders(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return orders, nil
}

// LoadOrders decodes a JSON array of order records. The returned slice keeps
// the file order, which is the ingestion order.
func LoadOrders(r io.Reader) ([]*Order, error) {
	var records []OrderRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOrder, err)
	}

	seen := make(map[string]struct{}, len(records))
	orders := make([]*Order, 0, len(records))
	for i, rec := range records {
		order, err := rec.ToOrder()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[order.ID]; dup {
			return nil, fmt.Errorf("record %d: %w: duplicate id %s", i, ErrMalformedOrder, order.ID)
		}
		seen[order.ID] = struct{}{}
		orders = append(orders, order)
	}
	return orders, nil
}

// ToOrder validates the record and converts it into an unstamped Order.
func (r OrderRecord) ToOrder() (*Order, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedOrder)
	}
	temp, err := ParseTemperature(r.Temp)
	if err != nil {
		return nil, fmt.Errorf("%w: order %s: %w", ErrMalformedOrder, r.ID, err)
	}
	if r.ShelfLife <= 0 {
		return nil, fmt.Errorf("%w: order %s: shelfLife must be positive, got %v", ErrMalformedOrder, r.ID, r.ShelfLife)
	}
	if r.DecayRate < 0 {
		return nil, fmt.Errorf("%w: order %s: decayRate must not be negative, got %v", ErrMalformedOrder, r.ID, r.DecayRate)
	}
	return NewOrder(r.ID, r.Name, temp, r.ShelfLife, r.DecayRate), nil
}

// Record is the inverse of OrderRecord.ToOrder.
func (o *Order) Record() OrderRecord {
	return OrderRecord{
		ID:        o.ID,
		Name:      o.Name,
		Temp:      string(o.Temp),
		ShelfLife: o.ShelfLife,
		DecayRate: o.DecayRate,
	}
}
