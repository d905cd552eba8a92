package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/jobly/internal/errs"
	"github.com/deppfellow/jobly/internal/query"
)

// DeletedResponse reports the key of a removed record.
type DeletedResponse[K any] struct {
	Deleted K `json:"deleted"`
}

// filtersFromQuery collects every query parameter as a raw filter value.
// Empty parameters are treated as absent. Names are not checked here; the
// filter spec of the listing rejects unknown ones.
func filtersFromQuery(c echo.Context) (query.FilterValues, error) {
	filters := query.FilterValues{}

	for name, values := range c.QueryParams() {
		if len(values) > 1 {
			return nil, errs.NewValidationError(name, "must be given at most once")
		}
		if values[0] == "" {
			continue
		}
		filters[name] = values[0]
	}

	return filters, nil
}

// decodeStrict decodes the JSON body into v and rejects fields v does not
// declare. An empty body leaves v untouched.
func decodeStrict(c echo.Context, v any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errs.NewValidationError(typeErr.Field, "must be of type %s", jsonType(typeErr.Type.Kind().String()))
	}

	if rest, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		field, uerr := strconv.Unquote(rest)
		if uerr != nil {
			field = rest
		}
		return errs.NewValidationError(field, "is not a recognized field")
	}

	return errs.NewValidationError("", "malformed JSON body")
}

func jsonType(kind string) string {
	switch {
	case strings.HasPrefix(kind, "int"), strings.HasPrefix(kind, "uint"):
		return "integer"
	case strings.HasPrefix(kind, "float"):
		return "number"
	case kind == "bool":
		return "boolean"
	default:
		return kind
	}
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errs.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}
