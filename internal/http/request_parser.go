package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"salesdash/internal/core"
)

// maxSearchLength bounds the search term; longer input is rejected.
const maxSearchLength = 100

// ReportQuery holds the validated query parameters of a report request.
type ReportQuery struct {
	Month  core.Month
	Search string
	Page   core.Page
}

// ParseMonthParam reads the required month selector.
func ParseMonthParam(q url.Values) (core.Month, error) {
	raw := q.Get("month")
	if strings.TrimSpace(raw) == "" {
		return 0, core.ErrInvalidMonth
	}
	return core.ParseMonth(raw)
}

// ParsePageParams reads page and perPage. Missing values take the defaults;
// perPage above maxPerPage is clamped.
func ParsePageParams(q url.Values, defaultPerPage, maxPerPage int) (core.Page, error) {
	page, err := intParam(q, "page", 1, core.ErrInvalidPage)
	if err != nil {
		return core.Page{}, err
	}
	perPage, err := intParam(q, "perPage", defaultPerPage, core.ErrInvalidPerPage)
	if err != nil {
		return core.Page{}, err
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return core.NewPage(page, perPage)
}

// ParseSearchParam trims the search term and strips control characters.
func ParseSearchParam(q url.Values) (string, error) {
	s := sanitizeInput(q.Get("search"))
	if len(s) > maxSearchLength {
		return "", fmt.Errorf("%w: search must be at most %d characters", core.ErrInvalidInput, maxSearchLength)
	}
	return s, nil
}

// ParseReportQuery reads month, search and paging for the transactions listing.
func ParseReportQuery(q url.Values, defaultPerPage, maxPerPage int) (ReportQuery, error) {
	month, err := ParseMonthParam(q)
	if err != nil {
		return ReportQuery{}, err
	}
	search, err := ParseSearchParam(q)
	if err != nil {
		return ReportQuery{}, err
	}
	page, err := ParsePageParams(q, defaultPerPage, maxPerPage)
	if err != nil {
		return ReportQuery{}, err
	}
	return ReportQuery{Month: month, Search: search, Page: page}, nil
}

func intParam(q url.Values, key string, def int, invalid error) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, invalid
	}
	return n, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}
