package enums

// StreamEventType names an event pushed to live subscribers.
type StreamEventType string

const (
	EventStockUpdated    StreamEventType = "stock_updated"
	EventLowStockAlert   StreamEventType = "low_stock_alert"
	EventOutOfStockAlert StreamEventType = "out_of_stock_alert"
)
