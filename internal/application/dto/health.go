package dto

// HealthResponse represents the response of the backend health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthStatus represents possible health statuses
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// IsHealthy reports whether the backend declared itself healthy.
func (h HealthResponse) IsHealthy() bool {
	return HealthStatus(h.Status) == HealthStatusHealthy
}
