package models

import "time"

const (
	DefaultIngestionRate           = 2
	DefaultTickInterval            = 1 * time.Second
	DefaultMinPickupDelay          = 2
	DefaultMaxPickupDelay          = 6
	DefaultSingleTempShelfCapacity = 10
	DefaultOverflowShelfCapacity   = 15
	DefaultSingleTempDecayModifier = 1.0
	DefaultOverflowDecayModifier   = 2.0
	DefaultAMQPExchange            = "kitchen_events"
)

// Reasons attached to shelf events.
const (
	ReasonAdded                     = "added"
	ReasonRemovedDelivered          = "removed-delivered"
	ReasonRemovedWasted             = "removed-wasted"
	ReasonRemovedCongestionMigrated = "removed-congestion-migrated"
	ReasonRemovedCongestionEvicted  = "removed-congestion-evicted"
)

// Output topics.
const (
	TopicOrderArrival      = "order_arrival_events"
	TopicShelf             = "shelf_events"
	TopicShelfSnapshot     = "shelf_snapshot_events"
	TopicSimulationSummary = "simulation_summary_events"
)

// Event types queued by the simulator during a tick.
const (
	EventOrderArrived  = "OrderArrived"
	EventShelfChanged  = "ShelfChanged"
	EventShelfSnapshot = "ShelfSnapshot"
	EventRunFinished   = "RunFinished"
)

const (
	OutputFormatConsole = "console"
	OutputFormatJSON    = "json"
	OutputFormatCSV     = "csv"
	OutputFormatParquet = "parquet"

	OutputDestinationLocal = "local"
	OutputDestinationCloud = "cloud"
)
