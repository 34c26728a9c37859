package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
)

const dateLayout = "2006-01-02"

// idParam parses the positive integer URL parameter name.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("Invalid " + name)
	}
	return id, nil
}

// int64Query parses an optional integer query parameter, 0 when absent.
func int64Query(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.BadRequest("Invalid " + name + ": must be a non-negative integer")
	}
	return n, nil
}

// pageQuery reads limit and offset. Missing or zero limits are filled in by
// the services.
func pageQuery(r *http.Request) (domain.Page, error) {
	limit, err := int64Query(r, "limit")
	if err != nil {
		return domain.Page{}, err
	}
	offset, err := int64Query(r, "offset")
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{Limit: int(limit), Offset: int(offset)}, nil
}

// timeQuery accepts RFC 3339 timestamps and plain dates.
func timeQuery(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return &t, nil
	}
	return nil, errors.BadRequest("Invalid " + name + ": expected RFC 3339 time or YYYY-MM-DD")
}

// parseDate parses an already validated YYYY-MM-DD string, empty means none.
func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, errors.BadRequest("Invalid date: expected YYYY-MM-DD")
	}
	return &t, nil
}
