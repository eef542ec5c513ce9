package generator_test

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	dbfs "github.com/garnizeh/riskmap/db"
	dbpkg "github.com/garnizeh/riskmap/internal/db"
	"github.com/garnizeh/riskmap/internal/generator"
	sqlite "github.com/garnizeh/riskmap/internal/repository/sqlite"
)

var fixedNow = time.Date(2024, 6, 1, 15, 47, 0, 0, time.UTC)

func setupStore(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	d, err := dbpkg.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.New(d, nil)
}

func newGenerator(store *sqlite.SQLiteRepo, seed uint64) *generator.Generator {
	return generator.New(store, nil,
		generator.WithRand(rand.New(rand.NewPCG(seed, seed+1))),
		generator.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestGenerate_RejectsInvalidCounts(t *testing.T) {
	store := setupStore(t)
	g := newGenerator(store, 1)
	ctx := context.Background()

	if _, err := g.Generate(ctx, 0, 100); !errors.Is(err, generator.ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount for zero employees, got %v", err)
	}
	if _, err := g.Generate(ctx, 10, -1); !errors.Is(err, generator.ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount for negative events, got %v", err)
	}
}

func TestGenerate_CountsAndDepartmentTotals(t *testing.T) {
	store := setupStore(t)
	g := newGenerator(store, 42)
	ctx := context.Background()

	res, err := g.Generate(ctx, 10, 200)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Employees != 10 || res.Events != 200 {
		t.Fatalf("unexpected result %#v", res)
	}

	if n, _ := store.CountEmployees(ctx); n != 10 {
		t.Fatalf("expected 10 employees, got %d", n)
	}
	if n, _ := store.CountEvents(ctx); n != 200 {
		t.Fatalf("expected 200 events, got %d", n)
	}

	depts, err := store.DepartmentBuckets(ctx)
	if err != nil {
		t.Fatalf("DepartmentBuckets: %v", err)
	}
	var total int64
	for _, d := range depts {
		total += d.Total
	}
	if total != 200 {
		t.Fatalf("department event totals sum to %d, want 200", total)
	}
}

func TestGenerate_EventInvariants(t *testing.T) {
	store := setupStore(t)
	g := newGenerator(store, 7)
	ctx := context.Background()

	res, err := g.Generate(ctx, 25, 1000)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	evs, err := store.ListEvents(ctx, 2000, 0)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(evs) != 1000 {
		t.Fatalf("expected 1000 events, got %d", len(evs))
	}

	clicks := 0
	for _, ev := range evs {
		if ev.ProvidedCredentials && !ev.ClickedLink {
			t.Fatalf("credentials without click: %#v", ev)
		}
		if ev.DayOfWeek != ev.Timestamp.Weekday().String() || ev.HourOfDay != ev.Timestamp.Hour() {
			t.Fatalf("derived time fields disagree with timestamp: %#v", ev)
		}
		if ev.Timestamp.Before(res.WindowStart) || !ev.Timestamp.Before(res.WindowEnd) {
			t.Fatalf("timestamp %v outside window [%v, %v)", ev.Timestamp, res.WindowStart, res.WindowEnd)
		}
		if ev.ClickedLink {
			clicks++
			if ev.TimeToClickSeconds == nil || *ev.TimeToClickSeconds < 5 || *ev.TimeToClickSeconds > 300 {
				t.Fatalf("time to click out of range: %#v", ev.TimeToClickSeconds)
			}
		} else if ev.TimeToClickSeconds != nil {
			t.Fatalf("time to click set on non-click event: %#v", ev)
		}
		switch ev.DeviceType {
		case "Desktop", "Mobile", "Tablet":
		default:
			t.Fatalf("unexpected device %q", ev.DeviceType)
		}
	}
	if clicks != res.Clicks {
		t.Fatalf("result reports %d clicks, store holds %d", res.Clicks, clicks)
	}
	if want := fixedNow.AddDate(0, 0, -90); res.WindowStart.Year() != want.Year() || res.WindowStart.YearDay() != want.YearDay() {
		t.Fatalf("window start %v, want day of %v", res.WindowStart, want)
	}

	emps, err := store.ListEmployees(ctx, 100, 0)
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	// newest first
	if emps[0].Code != "EMP0025" || emps[len(emps)-1].Code != "EMP0001" {
		t.Fatalf("unexpected employee codes %s..%s", emps[len(emps)-1].Code, emps[0].Code)
	}
	for _, e := range emps {
		if e.TenureMonths < 1 || e.TenureMonths > 120 {
			t.Fatalf("tenure out of range: %d", e.TenureMonths)
		}
		if e.TrainingScore < 60 || e.TrainingScore > 100 {
			t.Fatalf("training score out of range: %f", e.TrainingScore)
		}
	}
}

func TestGenerate_ZeroEventsAndReplacesData(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := newGenerator(store, 3).Generate(ctx, 20, 300); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	res, err := newGenerator(store, 4).Generate(ctx, 5, 0)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if res.Events != 0 {
		t.Fatalf("expected no events, got %d", res.Events)
	}
	if n, _ := store.CountEmployees(ctx); n != 5 {
		t.Fatalf("expected store reset to 5 employees, got %d", n)
	}
	if n, _ := store.CountEvents(ctx); n != 0 {
		t.Fatalf("expected 0 events, got %d", n)
	}
	if id, ok, _ := store.FindEmployeeByCode(ctx, "EMP0001"); !ok || id == 0 {
		t.Fatalf("expected regenerated EMP0001")
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	ctx := context.Background()
	a, err := newGenerator(setupStore(t), 99).Generate(ctx, 30, 500)
	if err != nil {
		t.Fatalf("Generate a: %v", err)
	}
	b, err := newGenerator(setupStore(t), 99).Generate(ctx, 30, 500)
	if err != nil {
		t.Fatalf("Generate b: %v", err)
	}
	if a.Clicks != b.Clicks || a.Credentials != b.Credentials {
		t.Fatalf("same seed produced different outcomes: %#v vs %#v", a, b)
	}
}

func TestRiskScore(t *testing.T) {
	cases := []struct {
		name     string
		hour     int
		day      time.Weekday
		device   string
		location string
		want     float64
	}{
		{"baseline", 9, time.Wednesday, "Desktop", "Office", 0.15},
		{"lunch", 12, time.Wednesday, "Desktop", "Office", 0.25},
		{"end of day", 17, time.Wednesday, "Desktop", "Remote", 0.30},
		{"overnight", 23, time.Wednesday, "Desktop", "Office", 0.23},
		{"early morning", 6, time.Wednesday, "Desktop", "Office", 0.23},
		{"monday mobile", 9, time.Monday, "Mobile", "Office", 0.35},
		{"friday tablet cafe", 9, time.Friday, "Tablet", "Coffee Shop", 0.38},
		{"worst case", 16, time.Monday, "Mobile", "Airport", 0.60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := generator.RiskScore(tc.hour, tc.day, tc.device, tc.location)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("RiskScore = %.4f, want %.4f", got, tc.want)
			}
		})
	}
}
