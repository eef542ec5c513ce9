// Package recommend turns analytical views into prioritized findings.
package recommend

import (
	"fmt"
	"io"
	"strings"

	"github.com/garnizeh/riskmap/internal/analytics"
	"github.com/garnizeh/riskmap/internal/config"
)

type Kind string

const (
	KindPeakWindow Kind = "peak_window"
	KindMobile     Kind = "mobile_devices"
	KindDepartment Kind = "department"
	KindNone       Kind = "none"
)

// Finding is one recommendation. ClickRate is the figure that triggered it.
type Finding struct {
	Kind      Kind     `json:"kind"`
	Headline  string   `json:"headline"`
	ClickRate float64  `json:"click_rate"`
	Actions   []string `json:"actions"`
}

type Recommender struct {
	cfg config.RecommendationConfig
}

func New(cfg config.RecommendationConfig) *Recommender {
	return &Recommender{cfg: cfg}
}

// Recommend derives findings from the time pattern, device/location and
// department views, in that order. Rows are expected sorted by click rate
// descending as the analytics engine returns them. When no rule fires a single
// KindNone finding is returned.
func (r *Recommender) Recommend(times []analytics.TimePatternRow, devices []analytics.DeviceLocationRow, depts []analytics.DepartmentRow) []Finding {
	var out []Finding

	if f, ok := r.peakWindow(times); ok {
		out = append(out, f)
	}
	if f, ok := r.mobile(devices); ok {
		out = append(out, f)
	}
	if len(depts) > 0 {
		d := topDepartment(depts)
		out = append(out, Finding{
			Kind:      KindDepartment,
			Headline:  fmt.Sprintf("%s department most vulnerable (%.1f%% click rate)", d.Department, d.ClickRate),
			ClickRate: d.ClickRate,
			Actions: []string{
				"Prioritize targeted training for this department",
				"Review current security protocols and access levels",
				"Assign security champions within the department",
			},
		})
	}

	if len(out) == 0 {
		out = append(out, Finding{
			Kind:     KindNone,
			Headline: "No critical vulnerabilities detected at this time",
			Actions:  []string{},
		})
	}
	return out
}

// FromReport is Recommend over the views of a full report.
func (r *Recommender) FromReport(rep *analytics.Report) []Finding {
	if rep == nil {
		return r.Recommend(nil, nil, nil)
	}
	return r.Recommend(rep.TimePatterns, rep.DeviceLocation, rep.Departments)
}

func (r *Recommender) peakWindow(times []analytics.TimePatternRow) (Finding, bool) {
	var peak *analytics.TimePatternRow
	for i := range times {
		t := &times[i]
		if t.ClickRate <= r.cfg.PeakClickRate {
			continue
		}
		if peak == nil || t.ClickRate > peak.ClickRate {
			peak = t
		}
	}
	if peak == nil {
		return Finding{}, false
	}

	return Finding{
		Kind:      KindPeakWindow,
		Headline:  fmt.Sprintf("Peak vulnerability at %d:00 on %s (%.1f%% click rate)", peak.HourOfDay, peak.DayOfWeek, peak.ClickRate),
		ClickRate: peak.ClickRate,
		Actions: []string{
			"Schedule additional training for high-risk time windows",
			"Implement extra email filtering during these hours",
		},
	}, true
}

// mobile averages the click rates of the Mobile rows without weighting them
// by sample size.
func (r *Recommender) mobile(devices []analytics.DeviceLocationRow) (Finding, bool) {
	var (
		sum float64
		n   int
	)
	for _, d := range devices {
		if d.DeviceType == "Mobile" {
			sum += d.ClickRate
			n++
		}
	}
	if n == 0 {
		return Finding{}, false
	}
	mean := sum / float64(n)
	if mean <= r.cfg.MobileClickRate {
		return Finding{}, false
	}

	return Finding{
		Kind:      KindMobile,
		Headline:  fmt.Sprintf("Mobile devices show %.1f%% average click rate", mean),
		ClickRate: mean,
		Actions: []string{
			"Deploy mobile-specific security awareness training",
			"Consider mobile device management (MDM) solutions",
			"Implement additional verification for mobile access",
		},
	}, true
}

// topDepartment returns the first row with the highest click rate.
func topDepartment(depts []analytics.DepartmentRow) analytics.DepartmentRow {
	top := depts[0]
	for _, d := range depts[1:] {
		if d.ClickRate > top.ClickRate {
			top = d
		}
	}
	return top
}

// Render writes findings as numbered blocks, one action per indented line.
func Render(w io.Writer, findings []Finding) error {
	var b strings.Builder
	for i, f := range findings {
		if f.Kind == KindNone {
			fmt.Fprintf(&b, "%s\n", f.Headline)
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, f.Headline)
		for _, a := range f.Actions {
			fmt.Fprintf(&b, "   -> %s\n", a)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
