package models

import "time"

// Domain models matching the database schema in db/migrations/0001_init.sql

// TimestampLayout is the wall-clock text form used to persist event timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Default attribute values applied when an employee record omits them.
const (
	DefaultTenureMonths  = 12
	DefaultTrainingScore = 75.0
)

type Employee struct {
	ID            int64   `json:"employee_id" db:"employee_id"`
	Code          string  `json:"employee_code" db:"employee_code"`
	Department    string  `json:"department" db:"department"`
	TenureMonths  int     `json:"tenure_months" db:"tenure_months"`
	TrainingScore float64 `json:"security_training_score" db:"security_training_score"`
}

// SimulationEvent is one phishing simulation delivered to an employee.
// DayOfWeek and HourOfDay are derived from Timestamp by the store on write.
type SimulationEvent struct {
	ID                  int64     `json:"simulation_id" db:"simulation_id"`
	EmployeeID          int64     `json:"employee_id" db:"employee_id"`
	Timestamp           time.Time `json:"timestamp" db:"timestamp"`
	DayOfWeek           string    `json:"day_of_week" db:"day_of_week"`
	HourOfDay           int       `json:"hour_of_day" db:"hour_of_day"`
	DeviceType          string    `json:"device_type" db:"device_type"`
	Location            string    `json:"location" db:"location"`
	ClickedLink         bool      `json:"clicked_link" db:"clicked_link"`
	ProvidedCredentials bool      `json:"provided_credentials" db:"provided_credentials"`
	TimeToClickSeconds  *int      `json:"time_to_click_seconds,omitempty" db:"time_to_click_seconds"`
}

// ImportRun records the outcome of one reconciler invocation.
type ImportRun struct {
	RunID    string `json:"run_id" db:"run_id"`
	Kind     string `json:"kind" db:"kind"`
	Source   string `json:"source" db:"source"`
	Imported int    `json:"imported" db:"imported"`
	Skipped  int    `json:"skipped" db:"skipped"`
	Coerced  int    `json:"coerced" db:"coerced"`
	Created  int64  `json:"created" db:"created"`
}

// Counts holds the raw tallies a rate is computed from.
type Counts struct {
	Total       int64 `json:"total"`
	Clicks      int64 `json:"clicks"`
	Credentials int64 `json:"credentials"`
}

type TimeBucket struct {
	HourOfDay int
	DayOfWeek string
	Counts
}

type DeviceLocationBucket struct {
	DeviceType string
	Location   string
	Counts
}

type DepartmentBucket struct {
	Department       string
	EmployeeCount    int64
	AvgTrainingScore float64
	Counts
}

type CombinationBucket struct {
	HourOfDay  int
	DayOfWeek  string
	DeviceType string
	Location   string
	Counts
}

type EmployeeBucket struct {
	Employee Employee
	Counts
}

// Summary is the headline totals over the whole store.
type Summary struct {
	TotalEmployees int64
	Counts
}
