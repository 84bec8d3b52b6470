package model

import "time"

// DateLayout is the ISO calendar-date format used by Cost Explorer.
const DateLayout = "2006-01-02"

// DefaultWindowDays is the length of the trailing report window.
const DefaultWindowDays = 30

// TagFilter selects resources carrying a single key=value tag.
type TagFilter struct {
	Key   string `json:"tag_key" yaml:"tag_key"`
	Value string `json:"tag_value" yaml:"tag_value"`
}

// String renders the filter as key=value.
func (f TagFilter) String() string {
	return f.Key + "=" + f.Value
}

// DateRange is a pair of calendar dates at UTC midnight.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// StartDate returns the start as an ISO date string.
func (r DateRange) StartDate() string { return r.Start.Format(DateLayout) }

// EndDate returns the end as an ISO date string.
func (r DateRange) EndDate() string { return r.End.Format(DateLayout) }

// CostReport is the outcome of a single report run.
type CostReport struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty" db:"id"`
	Tag       TagFilter `json:"tag" yaml:"tag"`
	Range     DateRange `json:"range" yaml:"range"`
	TotalCost float64   `json:"total_cost" yaml:"total_cost" db:"total_cost"`
	Currency  string    `json:"currency" yaml:"currency" db:"currency"`
	Message   string    `json:"message" yaml:"message" db:"message"`
	Notifier  string    `json:"notifier,omitempty" yaml:"notifier,omitempty" db:"notifier"`
	SentAt    time.Time `json:"sent_at,omitempty" yaml:"sent_at,omitempty" db:"sent_at"`
}

// HistoryFilter controls which stored reports are listed.
type HistoryFilter struct {
	TagKey   string `json:"tag_key,omitempty"`
	TagValue string `json:"tag_value,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// TrailingWindow returns the date range ending on today's UTC calendar date
// and starting the given number of days earlier.
func TrailingWindow(today time.Time, days int) DateRange {
	today = today.UTC()
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return DateRange{
		Start: end.AddDate(0, 0, -days),
		End:   end,
	}
}
