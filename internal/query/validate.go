package query

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/deppfellow/jobly/internal/errs"
)

// ValidateUpdate checks that req assigns at least one field, that every field
// name is non-blank, and that no field is assigned twice.
//
// The values themselves are not inspected; range and type rules for
// individual fields belong to the calling service.
func ValidateUpdate(req UpdateRequest) error {
	if len(req) == 0 {
		return errs.NewValidationError("", "no fields to update")
	}

	seen := make(map[string]struct{}, len(req))
	for _, a := range req {
		if strings.TrimSpace(a.Field) == "" {
			return errs.NewValidationError("", "update field name must not be blank")
		}
		if _, dup := seen[a.Field]; dup {
			return errs.NewValidationError(a.Field, "is assigned more than once")
		}
		seen[a.Field] = struct{}{}
	}

	return nil
}

// ValidateFilters checks values against spec and returns them normalized:
// pattern values as string, numeric values as int64 (Integer filters) or
// float64, gate values as bool.
//
// It fails with *errs.ValidationError when
//   - a name is not declared in spec
//   - a value has the wrong type for its filter (e.g. "abc" for a bound)
//   - a numeric value is negative for a NonNegative filter, above Max, or
//     fractional or outside the int64 range for an Integer filter
//   - a lower bound is greater than the upper bound of the same Range
//
// Equal bounds are accepted. A Range with only one side supplied is never
// inverted.
func ValidateFilters(spec FilterSpec, values FilterValues) (FilterValues, error) {
	// Sorted so the reported error does not depend on map iteration order.
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if _, ok := spec.Lookup(name); !ok {
			return nil, errs.NewValidationError(name, "is not a supported filter")
		}
	}

	normalized := make(FilterValues, len(values))
	for _, f := range spec.Filters {
		raw, ok := values[f.Name]
		if !ok {
			continue
		}

		value, err := f.normalize(raw)
		if err != nil {
			return nil, err
		}
		normalized[f.Name] = value
	}

	if err := checkRanges(spec, normalized); err != nil {
		return nil, err
	}

	return normalized, nil
}

func (f Filter) normalize(raw any) (any, error) {
	switch f.Kind {
	case Pattern:
		s, ok := raw.(string)
		if !ok {
			return nil, errs.NewValidationError(f.Name, "must be text")
		}
		return s, nil

	case Gate:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, errs.NewValidationError(f.Name, "must be a boolean")
			}
			return b, nil
		default:
			return nil, errs.NewValidationError(f.Name, "must be a boolean")
		}

	case LowerBound, UpperBound:
		n, ok := toNumber(raw)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, errs.NewValidationError(f.Name, "must be a number")
		}
		if f.NonNegative && n < 0 {
			return nil, errs.NewValidationError(f.Name, "must not be negative")
		}
		if f.Max != 0 && n > float64(f.Max) {
			return nil, errs.NewValidationError(f.Name, "must not exceed %d", f.Max)
		}
		if f.Integer {
			if n != math.Trunc(n) {
				return nil, errs.NewValidationError(f.Name, "must be an integer")
			}
			// float64(math.MaxInt64) is 2^63, the first value int64 cannot hold.
			if n < math.MinInt64 || n >= float64(math.MaxInt64) {
				return nil, errs.NewValidationError(f.Name, "is out of range")
			}
			return int64(n), nil
		}
		return n, nil

	default:
		return nil, errs.NewValidationError(f.Name, "has an unknown filter kind")
	}
}

func checkRanges(spec FilterSpec, normalized FilterValues) error {
	for _, lower := range spec.Filters {
		if lower.Kind != LowerBound || lower.Range == "" {
			continue
		}
		lv, ok := normalized[lower.Name]
		if !ok {
			continue
		}

		for _, upper := range spec.Filters {
			if upper.Kind != UpperBound || upper.Range != lower.Range {
				continue
			}
			uv, ok := normalized[upper.Name]
			if !ok {
				continue
			}

			l, _ := toNumber(lv)
			u, _ := toNumber(uv)
			if l > u {
				return errs.NewValidationError(lower.Name, "cannot be greater than %s", upper.Name)
			}
		}
	}

	return nil
}

// toNumber accepts the numeric shapes a filter value arrives in: Go numbers
// from typed callers, json.Number from decoded bodies, and strings from URL
// query parameters.
func toNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
