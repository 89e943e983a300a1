package matching

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"brokercrm/server/config"

	"github.com/go-playground/validator/v10"
)

// Criteria is the comparable form of a client's stated preferences. Nil bounds
// and empty sets mean the client expressed no constraint on that dimension.
type Criteria struct {
	MinBudget   *float64 `json:"min_budget,omitempty" validate:"omitempty,gte=0"`
	MaxBudget   *float64 `json:"max_budget,omitempty" validate:"omitempty,gte=0"`
	MinBedrooms *int     `json:"min_bedrooms,omitempty" validate:"omitempty,gte=0"`
	MaxBedrooms *int     `json:"max_bedrooms,omitempty" validate:"omitempty,gte=0"`
	MinArea     *float64 `json:"min_area,omitempty" validate:"omitempty,gte=0"`
	MaxArea     *float64 `json:"max_area,omitempty" validate:"omitempty,gte=0"`

	PreferredLocations     []string `json:"preferred_locations,omitempty"`
	PreferredPropertyTypes []string `json:"preferred_property_types,omitempty"`
}

// LocationExpander resolves a location that names a group of cities.
// *config.LocationGroups implements it.
type LocationExpander interface {
	Expand(location string) []string
}

// HasBudget reports whether a budget bound is set
func (c Criteria) HasBudget() bool { return c.MinBudget != nil || c.MaxBudget != nil }

// HasBedrooms reports whether a bedroom bound is set
func (c Criteria) HasBedrooms() bool { return c.MinBedrooms != nil || c.MaxBedrooms != nil }

// HasArea reports whether an area bound is set
func (c Criteria) HasArea() bool { return c.MinArea != nil || c.MaxArea != nil }

// HasLocations reports whether at least one preferred location is set
func (c Criteria) HasLocations() bool { return len(c.PreferredLocations) > 0 }

// HasPropertyTypes reports whether at least one preferred property type is set
func (c Criteria) HasPropertyTypes() bool { return len(c.PreferredPropertyTypes) > 0 }

// IsEmpty reports whether no dimension is constrained at all.
func (c Criteria) IsEmpty() bool {
	return !c.HasBudget() && !c.HasBedrooms() && !c.HasArea() && !c.HasLocations() && !c.HasPropertyTypes()
}

// Normalize returns a copy whose location and type sets are trimmed, lower
// cased, de-duplicated and sorted. Locations naming a group known to groups
// are replaced by the group's cities. groups may be nil.
func (c Criteria) Normalize(groups LocationExpander) Criteria {
	out := c

	var locations []string
	for _, location := range c.PreferredLocations {
		if groups != nil {
			if cities := groups.Expand(location); len(cities) > 0 {
				locations = append(locations, cities...)
				continue
			}
		}
		locations = append(locations, location)
	}

	out.PreferredLocations = normalizeSet(locations)
	out.PreferredPropertyTypes = normalizeSet(c.PreferredPropertyTypes)
	return out
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		key := config.NormalizeLocation(value)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// ValidationError maps criteria fields to a human readable problem.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "invalid criteria"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid criteria: " + strings.Join(fields, ", ")
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate rejects negative bounds and inverted min/max pairs. It returns nil
// or a *ValidationError.
func (c Criteria) Validate() error {
	verr := &ValidationError{}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			verr.add(fe.Field(), "must not be negative")
		}
	}

	if !floatRangeValid(c.MinBudget, c.MaxBudget) {
		verr.add("max_budget", "must be greater than or equal to min_budget")
	}
	if !intRangeValid(c.MinBedrooms, c.MaxBedrooms) {
		verr.add("max_bedrooms", "must be greater than or equal to min_bedrooms")
	}
	if !floatRangeValid(c.MinArea, c.MaxArea) {
		verr.add("max_area", "must be greater than or equal to min_area")
	}

	if len(verr.FieldErrors) > 0 {
		return verr
	}
	return nil
}

func floatRangeValid(lo, hi *float64) bool {
	return lo == nil || hi == nil || *lo <= *hi
}

func intRangeValid(lo, hi *int) bool {
	return lo == nil || hi == nil || *lo <= *hi
}
