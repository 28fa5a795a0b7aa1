package http

import (
	"net/http"

	applog "salesdash/internal/log"
)

// handleTransactions handles GET /transactions?month=&search=&page=&perPage=.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	q, err := ParseReportQuery(r.URL.Query(), s.opts.DefaultPerPage, s.opts.MaxPerPage)
	if err != nil {
		s.writeServiceError(w, r, applog.OpListTransactions, nil, err)
		return
	}
	fields := applog.NewFields().WithQuery(q.Month.String(), q.Search, q.Page.Number(), q.Page.PerPage())

	txs, err := s.reports.ListTransactions(r.Context(), q.Month, q.Search, q.Page)
	if err != nil {
		s.writeServiceError(w, r, applog.OpListTransactions, fields, err)
		return
	}
	s.eventsFor(r).LogReport(r.Context(), applog.OpListTransactions, fields, len(txs))
	writeJSON(w, http.StatusOK, txs)
}

// handleStatistics handles GET /statistics?month=.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, applog.OpStatistics, nil, err)
		return
	}
	fields := applog.NewFields().WithQuery(month.String(), "", 0, 0)

	stats, err := s.reports.GetStatistics(r.Context(), month)
	if err != nil {
		s.writeServiceError(w, r, applog.OpStatistics, fields, err)
		return
	}
	s.eventsFor(r).LogReport(r.Context(), applog.OpStatistics, fields, int(stats.TotalSoldItems+stats.TotalNotSoldItems))
	writeJSON(w, http.StatusOK, stats)
}

// handleBarChart handles GET /bar-chart?month=.
func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, applog.OpBarChart, nil, err)
		return
	}
	fields := applog.NewFields().WithQuery(month.String(), "", 0, 0)

	h, err := s.reports.GetBarChart(r.Context(), month)
	if err != nil {
		s.writeServiceError(w, r, applog.OpBarChart, fields, err)
		return
	}
	s.eventsFor(r).LogReport(r.Context(), applog.OpBarChart, fields, h.Total())
	writeJSON(w, http.StatusOK, h)
}

// handlePieChart handles GET /pie-chart?month=.
func (s *Server) handlePieChart(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, applog.OpPieChart, nil, err)
		return
	}
	fields := applog.NewFields().WithQuery(month.String(), "", 0, 0)

	pie, err := s.reports.GetPieChart(r.Context(), month)
	if err != nil {
		s.writeServiceError(w, r, applog.OpPieChart, fields, err)
		return
	}
	s.eventsFor(r).LogReport(r.Context(), applog.OpPieChart, fields, len(pie))
	writeJSON(w, http.StatusOK, pie)
}

// handleCombinedStatistics handles GET /combined-statistics?month=. Nothing
// is written until every part of the report is available.
func (s *Server) handleCombinedStatistics(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, applog.OpCombined, nil, err)
		return
	}
	fields := applog.NewFields().WithQuery(month.String(), "", 0, 0)

	report, err := s.reports.GetCombinedReport(r.Context(), month)
	if err != nil {
		s.writeServiceError(w, r, applog.OpCombined, fields, err)
		return
	}
	fields[applog.FieldRange] = report.Range.String()
	s.eventsFor(r).LogReport(r.Context(), applog.OpCombined, fields, len(report.Transactions))
	writeJSON(w, http.StatusOK, report)
}
