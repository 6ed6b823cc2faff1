package content

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/db"
)

const maxListLimit = 100

var jsonNull = []byte("null")

// ApplyPatch writes the updatable keys present in body onto row and returns the columns written.
// Keys outside updatable are ignored, so ids, guild and timestamps cannot be changed this way.
func ApplyPatch(row interface{}, body []byte, updatable, nullable, dates map[string]bool) ([]string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, apperr.Validation("invalid JSON body: %v", err)
	}

	present := make(map[string]json.RawMessage, len(fields))
	for key, raw := range fields {
		if !updatable[key] {
			continue
		}
		isNull := bytes.Equal(bytes.TrimSpace(raw), jsonNull)
		if isNull && !nullable[key] {
			return nil, apperr.Validation("%s cannot be null", key)
		}
		if dates[key] && !isNull {
			if err := checkDate(key, raw); err != nil {
				return nil, err
			}
		}
		present[key] = raw
	}
	if len(present) == 0 {
		return nil, nil
	}

	filtered, err := json.Marshal(present)
	if err != nil {
		return nil, apperr.Validation("invalid JSON body: %v", err)
	}
	if err := json.Unmarshal(filtered, row); err != nil {
		return nil, apperr.Validation("invalid field value: %v", err)
	}

	columns := make([]string, 0, len(present))
	for key := range present {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns, nil
}

func checkDate(key string, raw json.RawMessage) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return apperr.Validation("%s must be a date string", key)
	}
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return apperr.Validation("%s must be formatted YYYY-MM-DD", key)
	}
	return nil
}

// ListQuery carries the optional list parameters of a request
type ListQuery struct {
	Order   string
	Limit   string
	Filters map[string]string
}

// Resolve validates q against the collection and builds repository options
func (c Collection) Resolve(q ListQuery) (db.ListOptions, error) {
	opts := db.ListOptions{Order: c.DefaultOrder}

	if q.Order != "" {
		order, err := c.parseOrder(q.Order)
		if err != nil {
			return opts, err
		}
		opts.Order = order
	}

	if q.Limit != "" {
		limit, err := strconv.Atoi(q.Limit)
		if err != nil || limit < 1 {
			return opts, apperr.Validation("limit must be a positive integer")
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}
		opts.Limit = limit
	}

	for key, raw := range q.Filters {
		kind, ok := c.Filterable[key]
		if !ok {
			continue
		}
		if opts.Filters == nil {
			opts.Filters = map[string]interface{}{}
		}
		switch kind {
		case FilterBool:
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return opts, apperr.Validation("%s must be true or false", key)
			}
			opts.Filters[key] = v
		case FilterInt:
			v, err := strconv.Atoi(raw)
			if err != nil {
				return opts, apperr.Validation("%s must be an integer", key)
			}
			opts.Filters[key] = v
		default:
			opts.Filters[key] = raw
		}
	}
	return opts, nil
}

// parseOrder reads "col.asc,col2.desc"
func (c Collection) parseOrder(raw string) ([]db.OrderBy, error) {
	var order []db.OrderBy
	for _, term := range strings.Split(raw, ",") {
		col, dir, _ := strings.Cut(strings.TrimSpace(term), ".")
		if !c.Orderable[col] {
			return nil, apperr.Validation("cannot order %s by %q", c.Name, col)
		}
		switch dir {
		case "", "asc":
			order = append(order, db.OrderBy{Column: col})
		case "desc":
			order = append(order, db.OrderBy{Column: col, Desc: true})
		default:
			return nil, apperr.Validation("order direction must be asc or desc")
		}
	}
	return order, nil
}

// cacheKey identifies a resolved listing
func (q ListQuery) cacheKey() string {
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{q.Order, q.Limit}
	for _, k := range keys {
		parts = append(parts, k+"="+q.Filters[k])
	}
	return strings.Join(parts, "&")
}
