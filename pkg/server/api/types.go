package api

// submitRequest is the body of POST /v1/prices.
type submitRequest struct {
	Price      float64 `json:"price"`
	Timestamp  int64   `json:"timestamp" validate:"gt=0"`
	Source     string  `json:"source" validate:"required"`
	ReporterID string  `json:"reporter_id" validate:"required"`
}

// submitResponse answers a price submission. AggregatedPrice is present only
// when the consensus window is non-empty after the submission.
type submitResponse struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	AggregatedPrice *float64 `json:"aggregated_price,omitempty"`
	Timestamp       int64    `json:"timestamp"`
}

// healthResponse answers a health check. Healthy is always true; no unhealthy
// condition is modeled.
type healthResponse struct {
	Healthy             bool   `json:"healthy"`
	Timestamp           int64  `json:"timestamp"`
	ActiveReporterCount int    `json:"active_reporter_count"`
	Version             string `json:"version"`
}

// pricePoint is one recent submission in an aggregated price response.
type pricePoint struct {
	Price      float64 `json:"price"`
	Timestamp  int64   `json:"timestamp"`
	Source     string  `json:"source"`
	ReporterID string  `json:"reporter_id"`
}

// aggregatedResponse answers GET /v1/prices/aggregated. AggregatedPrice is 0
// when no fresh data exists; that sentinel is part of the API contract, as
// opposed to the engine's internal absent result.
type aggregatedResponse struct {
	Success         bool         `json:"success"`
	AggregatedPrice float64      `json:"aggregated_price"`
	DataPointCount  int          `json:"data_point_count"`
	LastUpdate      int64        `json:"last_update"`
	RecentPrices    []pricePoint `json:"recent_prices"`
}

// errorResponse is the standard error body.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
