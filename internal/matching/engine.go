package matching

import (
	"slices"

	"brokercrm/server/config"

	"golang.org/x/sync/errgroup"
)

// Weights of the scored dimensions. Area takes part in the hard filter only.
const (
	WeightBudget        = 40
	WeightLocation      = 30
	WeightBedrooms      = 20
	WeightPropertyTypes = 10
)

// DefaultLimit is the number of ranked matches returned when none is requested.
const DefaultLimit = 10

// Criterion names a dimension reported in MatchResult.Details.
type Criterion string

const (
	CriterionBudget       Criterion = "budget"
	CriterionLocation     Criterion = "location"
	CriterionBedrooms     Criterion = "bedrooms"
	CriterionArea         Criterion = "area"
	CriterionPropertyType Criterion = "property_type"
)

// Outcome is the per-criterion verdict.
type Outcome string

const (
	Matched    Outcome = "matched"
	NotMatched Outcome = "not matched"
)

func outcome(ok bool) Outcome {
	if ok {
		return Matched
	}
	return NotMatched
}

// PropertySnapshot is the part of a listing the engine compares against.
type PropertySnapshot struct {
	ID           string   `json:"id"`
	Price        float64  `json:"price"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	BuiltArea    *float64 `json:"built_area,omitempty"`
	City         string   `json:"city"`
	PropertyType string   `json:"property_type"`
	Status       string   `json:"status"`
}

// MatchResult is the outcome of comparing one property with one client.
// Score does not depend on IsMatch.
type MatchResult struct {
	IsMatch bool                  `json:"is_match"`
	Score   float64               `json:"score"`
	Details map[Criterion]Outcome `json:"details"`
}

// RankedMatch pairs a candidate with its result.
type RankedMatch struct {
	Property PropertySnapshot `json:"property"`
	MatchResult
}

// verdicts holds the per-dimension satisfaction of one property.
type verdicts struct {
	budget, bedrooms, area, location, propertyType bool
}

// evaluator is a Criteria with its sets indexed, reused across a batch.
type evaluator struct {
	criteria  Criteria
	locations map[string]struct{}
	types     map[string]struct{}
}

func newEvaluator(c Criteria) evaluator {
	return evaluator{
		criteria:  c,
		locations: indexSet(c.PreferredLocations),
		types:     indexSet(c.PreferredPropertyTypes),
	}
}

func indexSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[config.NormalizeLocation(value)] = struct{}{}
	}
	return set
}

func (e evaluator) check(p PropertySnapshot) verdicts {
	c := e.criteria

	bedrooms := 0
	if p.Bedrooms != nil {
		bedrooms = *p.Bedrooms
	}
	area := 0.0
	if p.BuiltArea != nil {
		area = *p.BuiltArea
	}

	_, locationOK := e.locations[config.NormalizeLocation(p.City)]
	_, typeOK := e.types[config.NormalizeLocation(p.PropertyType)]

	return verdicts{
		budget:       inFloatRange(p.Price, c.MinBudget, c.MaxBudget),
		bedrooms:     inIntRange(bedrooms, c.MinBedrooms, c.MaxBedrooms),
		area:         inFloatRange(area, c.MinArea, c.MaxArea),
		location:     locationOK,
		propertyType: typeOK,
	}
}

// inFloatRange is false for an inverted pair: no value can satisfy it.
func inFloatRange(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}

func inIntRange(v int, lo, hi *int) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}

func (e evaluator) evaluate(p PropertySnapshot) MatchResult {
	v := e.check(p)
	return MatchResult{
		IsMatch: e.isMatch(v),
		Score:   e.score(v),
		Details: e.details(v),
	}
}

func (e evaluator) isMatch(v verdicts) bool {
	c := e.criteria
	if c.HasBudget() && !v.budget {
		return false
	}
	if c.HasBedrooms() && !v.bedrooms {
		return false
	}
	if c.HasArea() && !v.area {
		return false
	}
	if c.HasLocations() && !v.location {
		return false
	}
	if c.HasPropertyTypes() && !v.propertyType {
		return false
	}
	return true
}

func (e evaluator) score(v verdicts) float64 {
	c := e.criteria
	specified, satisfied := 0, 0

	add := func(isSet, ok bool, weight int) {
		if !isSet {
			return
		}
		specified += weight
		if ok {
			satisfied += weight
		}
	}
	add(c.HasBudget(), v.budget, WeightBudget)
	add(c.HasLocations(), v.location, WeightLocation)
	add(c.HasBedrooms(), v.bedrooms, WeightBedrooms)
	add(c.HasPropertyTypes(), v.propertyType, WeightPropertyTypes)

	if specified == 0 {
		return 100
	}
	return float64(satisfied) / float64(specified) * 100
}

func (e evaluator) details(v verdicts) map[Criterion]Outcome {
	c := e.criteria
	details := make(map[Criterion]Outcome, 5)
	if c.HasBudget() {
		details[CriterionBudget] = outcome(v.budget)
	}
	if c.HasLocations() {
		details[CriterionLocation] = outcome(v.location)
	}
	if c.HasBedrooms() {
		details[CriterionBedrooms] = outcome(v.bedrooms)
	}
	if c.HasArea() {
		details[CriterionArea] = outcome(v.area)
	}
	if c.HasPropertyTypes() {
		details[CriterionPropertyType] = outcome(v.propertyType)
	}
	return details
}

// Evaluate compares a single property with the criteria. It never fails:
// missing property fields count as zero and an inverted bound pair is
// unsatisfiable.
func Evaluate(c Criteria, p PropertySnapshot) MatchResult {
	return newEvaluator(c).evaluate(p)
}

// Engine ranks candidate properties for a client.
type Engine struct {
	workers      int
	defaultLimit int
}

// NewEngine returns an engine evaluating up to workers properties at a time.
func NewEngine(workers, defaultLimit int) *Engine {
	if workers <= 0 {
		workers = 1
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Engine{workers: workers, defaultLimit: defaultLimit}
}

// Rank evaluates every candidate, keeps those scoring above zero and returns
// at most limit of them by descending score. Equal scores keep the order of
// candidates.
func (e *Engine) Rank(c Criteria, candidates []PropertySnapshot, limit int) []RankedMatch {
	if limit <= 0 {
		limit = e.defaultLimit
	}

	ev := newEvaluator(c)
	results := make([]MatchResult, len(candidates))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range candidates {
		g.Go(func() error {
			results[i] = ev.evaluate(candidates[i])
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]RankedMatch, 0, len(candidates))
	for i, result := range results {
		if result.Score > 0 {
			ranked = append(ranked, RankedMatch{Property: candidates[i], MatchResult: result})
		}
	}

	slices.SortStableFunc(ranked, func(a, b RankedMatch) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
