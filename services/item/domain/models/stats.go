package models

// Stats is the aggregate summary served by the stats endpoint.
type Stats struct {
	Total        int
	AveragePrice float64
}
