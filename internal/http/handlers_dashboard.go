package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"salesdash/internal/core"
	applog "salesdash/internal/log"
)

// defaultDashboardMonth is shown when / is requested without ?month=.
const defaultDashboardMonth = core.Month(3)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

type monthOption struct {
	Value    string
	Name     string
	Selected bool
}

type bucketRow struct {
	Label string
	Count int
	Width int
}

type categoryRow struct {
	Category string
	Count    int64
	Share    float64
}

type dashboardData struct {
	Year       int
	Month      core.Month
	MonthName  string
	Months     []monthOption
	Report     core.CombinedReport
	Buckets    []bucketRow
	Categories []categoryRow
}

var templateFuncs = template.FuncMap{
	"formatPrice": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"percent":     func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"soldLabel": func(sold bool) string {
		if sold {
			return "Sold"
		}
		return "Not sold"
	},
}

// handleDashboard renders the combined report for ?month=, defaulting to March.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded")
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	month := defaultDashboardMonth
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := core.ParseMonth(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		month = m
	}
	fields := applog.NewFields().WithQuery(month.String(), "", 0, 0)

	report, err := s.reports.GetCombinedReport(r.Context(), month)
	if err != nil {
		s.eventsFor(r).LogError(r.Context(), "Dashboard report failed", err, applog.ErrorTypeDatabase, applog.OpRender, fields)
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}

	data := newDashboardData(s.reports.Year(), month, report)

	// Render into a buffer so a template error does not leave a half-written page.
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		s.eventsFor(r).LogError(r.Context(), "Dashboard template execution failed", err, applog.ErrorTypeInternal, applog.OpRender, fields)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func newDashboardData(year int, month core.Month, report core.CombinedReport) dashboardData {
	data := dashboardData{
		Year:      year,
		Month:     month,
		MonthName: monthNames[month-1],
		Report:    report,
	}

	for i, name := range monthNames {
		m := core.Month(i + 1)
		data.Months = append(data.Months, monthOption{Value: m.String(), Name: name, Selected: m == month})
	}

	peak := 0
	for _, label := range core.BucketLabels() {
		if n := report.BarChart.Count(label); n > peak {
			peak = n
		}
	}
	for _, label := range core.BucketLabels() {
		n := report.BarChart.Count(label)
		width := 0
		if peak > 0 {
			// Steps of 5 match the .fill rules in app.css.
			width = (n*100/peak + 2) / 5 * 5
		}
		data.Buckets = append(data.Buckets, bucketRow{Label: label, Count: n, Width: width})
	}

	var total int64
	for _, c := range report.PieChart {
		total += c.Count
	}
	for _, c := range report.PieChart {
		share := 0.0
		if total > 0 {
			share = float64(c.Count) / float64(total)
		}
		data.Categories = append(data.Categories, categoryRow{Category: c.Category, Count: c.Count, Share: share})
	}
	return data
}
