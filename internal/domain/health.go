package domain

// HealthStatus classifies a diagnostic check result.
type HealthStatus string

const (
	HealthOK   HealthStatus = "ok"
	HealthWarn HealthStatus = "warn"
	HealthFail HealthStatus = "fail"
)

// HealthCheck is one line of the doctor report.
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
}

// HealthReport aggregates the doctor checks.
type HealthReport struct {
	Checks []HealthCheck
}
