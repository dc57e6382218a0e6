package utils

import (
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-07:00",
	time.RFC3339,
}

func IsValidDate(dateStr string) bool {
	_, ok := ParseDate(dateStr)
	return ok
}

func ParseDate(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if parsed, err := time.Parse(format, dateStr); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// Period is an optional [From, Until] window. A zero bound is open.
type Period struct {
	From  time.Time
	Until time.Time
}

// ParsePeriod reads the "from" and "until" query parameters. Invalid
// dates are ignored. A date-only "until" covers the whole day.
func ParsePeriod(params url.Values) Period {
	period := Period{}

	if from, ok := ParseDate(params.Get("from")); ok {
		period.From = from
	}

	untilStr := params.Get("until")
	if until, ok := ParseDate(untilStr); ok {
		if len(untilStr) == len("2006-01-02") {
			until = until.Add(24*time.Hour - time.Nanosecond)
		}
		period.Until = until
	}

	return period
}

func (p Period) IsZero() bool {
	return p.From.IsZero() && p.Until.IsZero()
}

// Key identifies the period in cache keys.
func (p Period) Key() string {
	from, until := "-", "-"
	if !p.From.IsZero() {
		from = p.From.UTC().Format(time.RFC3339)
	}
	if !p.Until.IsZero() {
		until = p.Until.UTC().Format(time.RFC3339)
	}
	return from + "_" + until
}

// Filter returns the range condition on field, or an empty document
// when the period is open on both sides.
func (p Period) Filter(field string) bson.D {
	condition := bson.D{}
	if !p.From.IsZero() {
		condition = append(condition, bson.E{Key: "$gte", Value: p.From})
	}
	if !p.Until.IsZero() {
		condition = append(condition, bson.E{Key: "$lte", Value: p.Until})
	}
	if len(condition) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: field, Value: condition}}
}

func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
