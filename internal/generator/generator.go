// Package generator synthesizes employee populations and phishing simulation
// outcomes from a weighted, additive risk model.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/garnizeh/riskmap/pkg/models"
	"github.com/garnizeh/riskmap/pkg/repository"
)

// ErrInvalidCount is returned for a non-positive employee count or a negative
// event count.
var ErrInvalidCount = errors.New("generator: invalid count")

var (
	Departments = []string{"Engineering", "Sales", "Marketing", "HR", "Finance", "Operations"}
	Locations   = []string{"Office", "Remote", "Coffee Shop", "Airport"}
	Devices     = []string{"Desktop", "Mobile", "Tablet"}
)

// hourWeights peak at midday and in the 15:00-17:00 band, trough overnight.
var hourWeights = []int{2, 1, 1, 1, 1, 3, 5, 8, 10, 12, 10, 15, 20, 12, 10, 18, 22, 15, 8, 5, 4, 3, 2, 2}

var deviceWeights = []int{60, 30, 10}

const (
	baseRisk        = 0.15
	credentialRate  = 0.35
	minTimeToClick  = 5
	maxTimeToClick  = 300
	maxTenureMonths = 120
	minTraining     = 60.0
	maxTraining     = 100.0
)

type Generator struct {
	store      repository.StoreRepo
	logger     *slog.Logger
	rng        *rand.Rand
	now        func() time.Time
	windowDays int
}

type Option func(*Generator)

// WithRand makes generation reproducible by fixing the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithClock overrides the clock used to anchor the event window.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithWindowDays sets how many trailing days events are spread over.
func WithWindowDays(days int) Option {
	return func(g *Generator) {
		if days > 0 {
			g.windowDays = days
		}
	}
}

func New(store repository.StoreRepo, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		store:      store,
		logger:     logger,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:        func() time.Time { return time.Now().UTC() },
		windowDays: 90,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result describes a completed generation run.
type Result struct {
	Employees   int       `json:"employees"`
	Events      int       `json:"events"`
	Clicks      int       `json:"clicks"`
	Credentials int       `json:"credentials"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// Generate resets the store and fills it with employeeCount employees and
// eventCount simulation events. An eventCount of zero is allowed and leaves
// the store with employees only.
func (g *Generator) Generate(ctx context.Context, employeeCount, eventCount int) (*Result, error) {
	if employeeCount < 1 {
		return nil, fmt.Errorf("employee count %d: %w", employeeCount, ErrInvalidCount)
	}
	if eventCount < 0 {
		return nil, fmt.Errorf("event count %d: %w", eventCount, ErrInvalidCount)
	}

	if err := g.store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset store: %w", err)
	}

	employees := g.employees(employeeCount)
	ids, err := g.store.InsertEmployees(ctx, employees)
	if err != nil {
		return nil, fmt.Errorf("insert employees: %w", err)
	}

	now := g.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -g.windowDays)

	res := &Result{Employees: len(ids), Events: eventCount, WindowStart: start, WindowEnd: end}
	events := make([]models.SimulationEvent, 0, eventCount)
	for range eventCount {
		ev := g.event(ids[g.rng.IntN(len(ids))], start)
		if ev.ClickedLink {
			res.Clicks++
		}
		if ev.ProvidedCredentials {
			res.Credentials++
		}
		events = append(events, ev)
	}

	if err := g.store.AppendEvents(ctx, events); err != nil {
		return nil, fmt.Errorf("insert events: %w", err)
	}

	g.logger.Info("dataset generated",
		slog.Int("employees", res.Employees),
		slog.Int("events", res.Events),
		slog.Int("clicks", res.Clicks),
		slog.Int("credentials", res.Credentials),
	)
	return res, nil
}

func (g *Generator) employees(n int) []models.Employee {
	out := make([]models.Employee, n)
	for i := range out {
		out[i] = models.Employee{
			Code:          fmt.Sprintf("EMP%04d", i+1),
			Department:    Departments[g.rng.IntN(len(Departments))],
			TenureMonths:  1 + g.rng.IntN(maxTenureMonths),
			TrainingScore: minTraining + g.rng.Float64()*(maxTraining-minTraining),
		}
	}
	return out
}

func (g *Generator) event(employeeID int64, start time.Time) models.SimulationEvent {
	day := g.rng.IntN(g.windowDays)
	hour := weightedIndex(g.rng, hourWeights)
	minute := g.rng.IntN(60)
	ts := start.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)

	device := Devices[weightedIndex(g.rng, deviceWeights)]
	location := Locations[g.rng.IntN(len(Locations))]

	ev := models.SimulationEvent{
		EmployeeID: employeeID,
		Timestamp:  ts,
		DeviceType: device,
		Location:   location,
	}

	p := clamp(RiskScore(ts.Hour(), ts.Weekday(), device, location))
	if g.rng.Float64() < p {
		ev.ClickedLink = true
		ev.ProvidedCredentials = g.rng.Float64() < credentialRate
		ttc := minTimeToClick + g.rng.IntN(maxTimeToClick-minTimeToClick+1)
		ev.TimeToClickSeconds = &ttc
	}
	return ev
}

// RiskScore is the additive click probability model. Bonuses are independent
// and the sum is not clamped here.
func RiskScore(hour int, day time.Weekday, device, location string) float64 {
	score := baseRisk

	if hour >= 12 && hour <= 13 {
		score += 0.10
	}
	if hour >= 16 && hour <= 18 {
		score += 0.15
	}
	if hour >= 22 || hour <= 6 {
		score += 0.08
	}

	switch day {
	case time.Monday:
		score += 0.08
	case time.Friday:
		score += 0.05
	}

	switch device {
	case "Mobile":
		score += 0.12
	case "Tablet":
		score += 0.08
	}

	if location == "Coffee Shop" || location == "Airport" {
		score += 0.10
	}

	return score
}

func clamp(p float64) float64 {
	return min(max(p, 0), 1)
}

func weightedIndex(r *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := r.IntN(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}
