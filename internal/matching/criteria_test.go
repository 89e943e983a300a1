package matching

import (
	"testing"

	"brokercrm/server/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaIsEmpty(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{PreferredLocations: []string{}}.IsEmpty())
	assert.False(t, Criteria{MinArea: f64(0)}.IsEmpty())
	assert.False(t, Criteria{PreferredPropertyTypes: []string{"villa"}}.IsEmpty())
}

func TestCriteriaNormalize(t *testing.T) {
	groups := config.NewLocationGroups(config.LocationGroup{
		Name:   "Greater Cairo",
		Cities: []string{"Cairo", "Giza"},
	})

	original := Criteria{
		PreferredLocations:     []string{"greater cairo", " Giza ", "Alexandria", ""},
		PreferredPropertyTypes: []string{"Villa", "villa", "  "},
	}

	normalized := original.Normalize(groups)

	assert.Equal(t, []string{"alexandria", "cairo", "giza"}, normalized.PreferredLocations)
	assert.Equal(t, []string{"villa"}, normalized.PreferredPropertyTypes)
	assert.Equal(t, "greater cairo", original.PreferredLocations[0], "input must not be modified")
}

func TestCriteriaNormalize_WithoutGroups(t *testing.T) {
	normalized := Criteria{PreferredLocations: []string{"Greater Cairo"}}.Normalize(nil)
	assert.Equal(t, []string{"greater cairo"}, normalized.PreferredLocations)

	blank := Criteria{PreferredLocations: []string{" "}}.Normalize(nil)
	assert.Nil(t, blank.PreferredLocations)
	assert.True(t, blank.IsEmpty())
}

func TestCriteriaValidate(t *testing.T) {
	tests := []struct {
		name       string
		criteria   Criteria
		wantFields []string
	}{
		{name: "empty is valid", criteria: Criteria{}},
		{name: "equal bounds are valid", criteria: Criteria{MinBudget: f64(5), MaxBudget: f64(5)}},
		{name: "open range is valid", criteria: Criteria{MinBedrooms: intp(2)}},
		{
			name:       "inverted budget",
			criteria:   Criteria{MinBudget: f64(10), MaxBudget: f64(5)},
			wantFields: []string{"max_budget"},
		},
		{
			name:       "inverted bedrooms and area",
			criteria:   Criteria{MinBedrooms: intp(4), MaxBedrooms: intp(2), MinArea: f64(300), MaxArea: f64(100)},
			wantFields: []string{"max_bedrooms", "max_area"},
		},
		{
			name:       "negative bound",
			criteria:   Criteria{MinArea: f64(-1)},
			wantFields: []string{"min_area"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.criteria.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.FieldErrors, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.FieldErrors, field)
			}
			assert.Contains(t, verr.Error(), tt.wantFields[0])
		})
	}
}
