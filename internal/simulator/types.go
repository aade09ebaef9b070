package simulator

import (
	"fmt"

	"github.com/chrisdamba/shelfsim/internal/models"
)

// Every record repeats the base fields instead of embedding a shared struct so
// parquet-go sees a flat schema.

// OrderArrivalEvent represents an order handed to the kitchen
type OrderArrivalEvent struct {
	Timestamp int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	RunID     string `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderID   string `json:"orderId" parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ShortID   string `json:"shortId" parquet:"name=shortId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Name      string `json:"name" parquet:"name=name,type=BYTE_ARRAY,convertedtype=UTF8"`
	Temp      string `json:"temp" parquet:"name=temp,type=BYTE_ARRAY,convertedtype=UTF8"`
	PickupAt  int64  `json:"pickupAt" parquet:"name=pickupAt,type=INT64"`
}

// ShelfEvent represents an order added to or removed from a shelf
type ShelfEvent struct {
	Timestamp  int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType  string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	RunID      string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderID    string  `json:"orderId" parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ShortID    string  `json:"shortId" parquet:"name=shortId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Temp       string  `json:"temp" parquet:"name=temp,type=BYTE_ARRAY,convertedtype=UTF8"`
	Shelf      string  `json:"shelf" parquet:"name=shelf,type=BYTE_ARRAY,convertedtype=UTF8"`
	Reason     string  `json:"reason" parquet:"name=reason,type=BYTE_ARRAY,convertedtype=UTF8"`
	AgeSeconds int64   `json:"ageSeconds" parquet:"name=ageSeconds,type=INT64"`
	Freshness  float64 `json:"freshness" parquet:"name=freshness,type=DOUBLE"`
}

// ShelfSnapshotEvent represents a shelf's occupancy at the end of a tick
type ShelfSnapshotEvent struct {
	Timestamp int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	RunID     string `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Shelf     string `json:"shelf" parquet:"name=shelf,type=BYTE_ARRAY,convertedtype=UTF8"`
	Count     int64  `json:"count" parquet:"name=count,type=INT64"`
	Capacity  int64  `json:"capacity" parquet:"name=capacity,type=INT64"`
	OrderIDs  string `json:"orderIds" parquet:"name=orderIds,type=BYTE_ARRAY,convertedtype=UTF8"`
	Summary   string `json:"summary" parquet:"name=summary,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// SimulationSummaryEvent carries the final totals of a run
type SimulationSummaryEvent struct {
	Timestamp int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	RunID     string `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Orders    int64  `json:"orders" parquet:"name=orders,type=INT64"`
	Ticks     int64  `json:"ticks" parquet:"name=ticks,type=INT64"`
	Delivered int64  `json:"delivered" parquet:"name=delivered,type=INT64"`
	Discarded int64  `json:"discarded" parquet:"name=discarded,type=INT64"`
	Wasted    int64  `json:"wasted" parquet:"name=wasted,type=INT64"`
}

// NewRecord returns an empty record of the type written to topic.
func NewRecord(topic string) (interface{}, error) {
	switch topic {
	case models.TopicOrderArrival:
		return new(OrderArrivalEvent), nil
	case models.TopicShelf:
		return new(ShelfEvent), nil
	case models.TopicShelfSnapshot:
		return new(ShelfSnapshotEvent), nil
	case models.TopicSimulationSummary:
		return new(SimulationSummaryEvent), nil
	}
	return nil, fmt.Errorf("unknown topic: %s", topic)
}
