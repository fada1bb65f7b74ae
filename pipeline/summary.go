// ABOUTME: Dashboard summary and monthly reports derived from CRM collections
// ABOUTME: Pure functions over already-fetched contacts, deals and activities

package pipeline

import (
	"sort"
	"time"

	"github.com/harperreed/dealdesk/models"
)

// RecentActivityLimit is how many activities the dashboard lists.
const RecentActivityLimit = 5

// StageCount is a stage's deal count for charts.
type StageCount struct {
	Stage string `json:"stageKey"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary is the dashboard headline view.
type Summary struct {
	TotalContacts    int               `json:"totalContacts"`
	TotalDeals       int               `json:"totalDeals"`
	TotalValue       float64           `json:"totalValue"`
	WinRate          int               `json:"winRate"`
	Stages           []StageCount      `json:"stages"`
	RecentActivities []models.Activity `json:"recentActivities"`
}

// Summarize builds the dashboard summary. TotalValue sums every deal,
// including deals with an unknown stage.
func Summarize(contacts []models.Contact, deals []models.Deal, activities []models.Activity) Summary {
	board := Aggregate(deals)

	s := Summary{
		TotalContacts:    len(contacts),
		TotalDeals:       len(deals),
		WinRate:          board.WinRate(),
		Stages:           make([]StageCount, len(board.Columns)),
		RecentActivities: RecentActivities(activities, RecentActivityLimit),
	}
	for _, d := range deals {
		s.TotalValue += d.Value
	}
	for i, c := range board.Columns {
		s.Stages[i] = StageCount{Stage: c.Stage, Label: c.Label, Count: c.Count}
	}
	return s
}

// RecentActivities returns up to n activities, newest first. Undated
// activities sort last. A negative n returns all of them. The input is not
// modified.
func RecentActivities(activities []models.Activity, n int) []models.Activity {
	sorted := make([]models.Activity, len(activities))
	copy(sorted, activities)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Date, sorted[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// MonthStat is closed-won performance for one calendar month.
type MonthStat struct {
	Month   string  `json:"month"`
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
	Deals   int     `json:"deals"`
}

// TypeCount is how many activities share a type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Report is the reporting page: headline stats for the current month plus
// trailing monthly closed-won figures and the activity mix.
type Report struct {
	Revenue        float64     `json:"revenue"`
	NewDeals       int         `json:"newDeals"`
	ClosedDeals    int         `json:"closedDeals"`
	ConversionRate int         `json:"conversionRate"`
	Months         []MonthStat `json:"months"`
	ActivityTypes  []TypeCount `json:"activityTypes"`
}

// ReportMonths is how many trailing months a report covers, current month included.
const ReportMonths = 6

// BuildReport computes the report as of now. Deals without a creation
// time count toward totals but not toward any month.
func BuildReport(deals []models.Deal, activities []models.Activity, now time.Time) Report {
	var r Report

	for _, d := range deals {
		if d.Stage == models.StageClosedWon {
			r.Revenue += d.Value
			r.ClosedDeals++
		}
		if d.CreatedAt != nil && sameMonth(d.CreatedAt.In(now.Location()), now) {
			r.NewDeals++
		}
	}
	r.ConversionRate = percent(r.ClosedDeals, len(deals))

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	r.Months = make([]MonthStat, ReportMonths)
	for i := range r.Months {
		month := start.AddDate(0, i-(ReportMonths-1), 0)
		stat := MonthStat{Month: month.Format("Jan"), Year: month.Year()}
		for _, d := range deals {
			if d.Stage != models.StageClosedWon || d.CreatedAt == nil {
				continue
			}
			if sameMonth(d.CreatedAt.In(now.Location()), month) {
				stat.Revenue += d.Value
				stat.Deals++
			}
		}
		r.Months[i] = stat
	}

	r.ActivityTypes = countActivityTypes(activities)
	return r
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// countActivityTypes orders by count descending, then type.
func countActivityTypes(activities []models.Activity) []TypeCount {
	counts := make(map[string]int)
	for _, a := range activities {
		counts[a.Type]++
	}

	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}
