package utils

import (
	"math"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	DEFAULT_PAGE_LIMIT = 10
	MAX_PAGE_LIMIT     = 100
)

type Pagination struct {
	Page  int64
	Limit int64
}

func ParsePagination(params url.Values) Pagination {
	p := Pagination{Page: 1, Limit: DEFAULT_PAGE_LIMIT}

	if parsedPage, err := strconv.ParseInt(params.Get("page"), 10, 64); err == nil && parsedPage > 0 {
		p.Page = parsedPage
	}

	if parsedLimit, err := strconv.ParseInt(params.Get("limit"), 10, 64); err == nil && parsedLimit > 0 {
		p.Limit = min(parsedLimit, MAX_PAGE_LIMIT)
	}

	return p
}

func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// FindOptions combines the page window with sort.
func (p Pagination) FindOptions(sort bson.D) *options.FindOptionsBuilder {
	return options.Find().SetSkip(p.Skip()).SetLimit(p.Limit).SetSort(sort)
}

// Envelope builds the list response body.
func (p Pagination) Envelope(items any, totalItems int64) map[string]any {
	totalPages := int64(math.Ceil(float64(totalItems) / float64(p.Limit)))

	return map[string]any{
		"items": items,
		"pagination": map[string]any{
			"page":        p.Page,
			"limit":       p.Limit,
			"total_items": totalItems,
			"total_pages": totalPages,
		},
	}
}

// ParseSort reads "sort" as a comma separated list of fields, "-" prefix
// meaning descending. Fields outside allowed are dropped; fallback is
// used when nothing usable remains.
func ParseSort(params url.Values, allowed []string, fallback bson.D) bson.D {
	sort := bson.D{}

	for _, raw := range strings.Split(params.Get("sort"), ",") {
		field := strings.TrimSpace(raw)
		direction := 1
		if strings.HasPrefix(field, "-") {
			direction = -1
			field = field[1:]
		}
		if field == "" || !slices.Contains(allowed, field) {
			continue
		}
		sort = append(sort, bson.E{Key: field, Value: direction})
	}

	if len(sort) == 0 {
		return fallback
	}

	return sort
}

// SearchFilter matches term case-insensitively against any of fields.
func SearchFilter(term string, fields ...string) bson.E {
	pattern := regexp.QuoteMeta(strings.TrimSpace(term))

	or := bson.A{}
	for _, field := range fields {
		or = append(or, bson.D{{Key: field, Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}})
	}

	return bson.E{Key: "$or", Value: or}
}
