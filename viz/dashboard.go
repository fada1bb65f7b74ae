// ABOUTME: Terminal dashboard, pipeline board and report rendering
// ABOUTME: Renders pipeline aggregates as plain ASCII for the CLI
package viz

import (
	"fmt"
	"strings"

	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/pipeline"
)

const (
	rule     = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"
	barWidth = 10
)

// RenderDashboard renders the dashboard summary.
func RenderDashboard(s pipeline.Summary) string {
	var out strings.Builder

	out.WriteString(rule)
	out.WriteString("  DEALDESK DASHBOARD\n")
	out.WriteString(rule + "\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  💼 %d deals  💰 %s pipeline  🏆 %d%% win rate\n\n",
		s.TotalContacts, s.TotalDeals, FormatMoney(s.TotalValue), s.WinRate))

	out.WriteString("PIPELINE OVERVIEW\n")
	maxCount := 0
	for _, st := range s.Stages {
		if st.Count > maxCount {
			maxCount = st.Count
		}
	}
	for _, st := range s.Stages {
		out.WriteString(fmt.Sprintf("  %-13s %s  %2d\n", st.Label, bar(st.Count, maxCount), st.Count))
	}
	out.WriteString("\n")

	out.WriteString("RECENT ACTIVITY\n")
	if len(s.RecentActivities) == 0 {
		out.WriteString("  No recent activity\n")
	}
	for _, a := range s.RecentActivities {
		date := "          "
		if a.Date != nil {
			date = a.Date.Format("2006-01-02")
		}
		out.WriteString(fmt.Sprintf("  %s  %-8s %s\n", date, a.Type, a.Description))
	}

	return out.String()
}

// RenderBoard renders each stage column with its deals.
func RenderBoard(b pipeline.Board) string {
	var out strings.Builder

	out.WriteString(rule)
	out.WriteString(fmt.Sprintf("  PIPELINE  %d deals  %s  win rate %d%%\n",
		b.TotalCount(), FormatMoney(b.TotalValue()), b.WinRate()))
	out.WriteString(rule)

	maxCount := 0
	for _, c := range b.Columns {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	for _, c := range b.Columns {
		out.WriteString(fmt.Sprintf("\n%-13s %s  %2d (%s)\n", strings.ToUpper(c.Label),
			bar(c.Count, maxCount), c.Count, FormatMoney(c.TotalValue)))
		for _, d := range c.Deals {
			out.WriteString(fmt.Sprintf("  #%-4d %-32s %10s  %3d%%\n",
				d.ID, truncate(d.Title, 32), FormatMoney(d.Value), d.Probability))
		}
	}

	if len(b.Excluded) > 0 {
		out.WriteString(fmt.Sprintf("\n⚠️  %d deals with an unknown stage are not shown\n", len(b.Excluded)))
	}
	return out.String()
}

// RenderReport renders the monthly report.
func RenderReport(r pipeline.Report) string {
	var out strings.Builder

	out.WriteString(rule)
	out.WriteString("  DEALDESK REPORT\n")
	out.WriteString(rule + "\n")

	out.WriteString("THIS MONTH\n")
	out.WriteString(fmt.Sprintf("  Revenue:          %s\n", FormatMoney(r.Revenue)))
	out.WriteString(fmt.Sprintf("  New deals:        %d\n", r.NewDeals))
	out.WriteString(fmt.Sprintf("  Closed deals:     %d\n", r.ClosedDeals))
	out.WriteString(fmt.Sprintf("  Conversion rate:  %d%%\n\n", r.ConversionRate))

	out.WriteString("CLOSED-WON BY MONTH\n")
	maxRevenue := 0.0
	for _, m := range r.Months {
		if m.Revenue > maxRevenue {
			maxRevenue = m.Revenue
		}
	}
	for _, m := range r.Months {
		length := 0
		if maxRevenue > 0 {
			length = int(m.Revenue * barWidth / maxRevenue)
		}
		out.WriteString(fmt.Sprintf("  %s %d  %s  %10s (%d)\n", m.Month, m.Year,
			strings.Repeat("█", length)+strings.Repeat("░", barWidth-length), FormatMoney(m.Revenue), m.Deals))
	}

	if len(r.ActivityTypes) > 0 {
		out.WriteString("\nACTIVITY MIX\n")
		for _, t := range r.ActivityTypes {
			out.WriteString(fmt.Sprintf("  %-8s %d\n", t.Type, t.Count))
		}
	}
	return out.String()
}

// StageLabel returns the display label for a stage key, or the key itself.
func StageLabel(stage string) string {
	for _, s := range models.Stages {
		if s.Key == stage {
			return s.Label
		}
	}
	return stage
}

// FormatMoney renders whole dollars with thousands separators.
func FormatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := fmt.Sprintf("%.0f", v)
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}
	return sign + "$" + grouped.String()
}

// bar scales count against max into a fixed-width block bar.
func bar(count, max int) string {
	if max == 0 {
		max = 1
	}
	length := (count * barWidth) / max
	return strings.Repeat("█", length) + strings.Repeat("░", barWidth-length)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
