package config

import (
	"strings"
	"unicode"
)

// LocationGroup names a set of cities that a client may refer to as a whole,
// e.g. "Greater Cairo".
type LocationGroup struct {
	Name   string   `json:"name" binding:"required"`
	Cities []string `json:"cities" binding:"required,min=1,dive,required"`
}

// DefaultLocationGroups is used when no location groups file exists yet
var DefaultLocationGroups = []LocationGroup{
	{
		Name:   "Greater Cairo",
		Cities: []string{"Cairo", "Giza", "New Cairo", "6th of October", "Sheikh Zayed"},
	},
	{
		Name:   "North Coast",
		Cities: []string{"Alamein", "Sidi Abdel Rahman", "Marsa Matrouh"},
	},
}

// NormalizeLocation brings a city, district or group name to the form used for
// comparisons: trimmed, inner whitespace collapsed to a single space, lower case.
func NormalizeLocation(name string) string {
	fields := strings.FieldsFunc(name, unicode.IsSpace)
	return strings.ToLower(strings.Join(fields, " "))
}
