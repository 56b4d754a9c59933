package cards

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jyl33/cardscanner-backend/pkg/db/models"
)

// defaultMaxPrice is the floor for the derived price ceiling so the price
// slider always has a sane range, even for an empty or low-value collection.
var defaultMaxPrice = decimal.NewFromInt(1000)

// FilterOptions holds the selectable filter values derived from a loaded
// collection.
type FilterOptions struct {
	Grades   []string        `json:"grades"`
	Statuses []string        `json:"statuses"`
	Years    []string        `json:"years"`
	MaxPrice decimal.Decimal `json:"max_price"`
	MinYear  string          `json:"min_year"`
	MaxYear  string          `json:"max_year"`
}

// FilterState is the current set of narrowing criteria. Bounds are kept as
// strings: blank or unparseable bounds leave the matching range predicate
// inactive.
type FilterState struct {
	Query    string
	Grades   map[string]struct{}
	Statuses map[string]struct{}
	MinPrice string
	MaxPrice string
	MinYear  string
	MaxYear  string
}

// NewFilterState returns a state seeded from the derived options: empty
// sets, blank query, price bounds [0, maxPrice] and year bounds
// [minYear, maxYear].
func NewFilterState(options FilterOptions) FilterState {
	state := FilterState{}
	state.Reset(options)
	return state
}

// Reset clears both selection sets and the query, and restores the range
// bounds from the derived options.
func (s *FilterState) Reset(options FilterOptions) {
	s.Query = ""
	s.Grades = make(map[string]struct{})
	s.Statuses = make(map[string]struct{})
	s.MinPrice = "0"
	s.MaxPrice = options.MaxPrice.String()
	s.MinYear = options.MinYear
	s.MaxYear = options.MaxYear
}

// Seed fills blank bounds from the derived options, leaving bounds the user
// already set alone.
func (s *FilterState) Seed(options FilterOptions) {
	if s.Grades == nil {
		s.Grades = make(map[string]struct{})
	}
	if s.Statuses == nil {
		s.Statuses = make(map[string]struct{})
	}
	if s.MinPrice == "" {
		s.MinPrice = "0"
	}
	if s.MaxPrice == "" {
		s.MaxPrice = options.MaxPrice.String()
	}
	if s.MinYear == "" {
		s.MinYear = options.MinYear
	}
	if s.MaxYear == "" {
		s.MaxYear = options.MaxYear
	}
}

// ToggleGrade adds the grade to the selection set, or removes it when
// already selected.
func (s *FilterState) ToggleGrade(grade string) {
	if s.Grades == nil {
		s.Grades = make(map[string]struct{})
	}
	if _, ok := s.Grades[grade]; ok {
		delete(s.Grades, grade)
		return
	}
	s.Grades[grade] = struct{}{}
}

// ToggleStatus adds the status to the selection set, or removes it when
// already selected.
func (s *FilterState) ToggleStatus(status string) {
	if s.Statuses == nil {
		s.Statuses = make(map[string]struct{})
	}
	if _, ok := s.Statuses[status]; ok {
		delete(s.Statuses, status)
		return
	}
	s.Statuses[status] = struct{}{}
}

// DeriveFilterOptions collects the distinct grade/status labels verbatim,
// the distinct year strings, the numeric year bounds and the numeric value
// ceiling from the collection. Pure function of its input.
func DeriveFilterOptions(cards []models.Card) FilterOptions {
	options := FilterOptions{
		Grades:   []string{},
		Statuses: []string{},
		Years:    []string{},
		MaxPrice: defaultMaxPrice,
	}
	if len(cards) == 0 {
		return options
	}

	grades := make(map[string]struct{})
	statuses := make(map[string]struct{})
	years := make(map[string]struct{})
	maxValue := decimal.Zero
	minYear, maxYear := 0, 0
	haveYear := false

	for _, card := range cards {
		if card.Grade != "" {
			grades[card.Grade] = struct{}{}
		}
		if card.Status != "" {
			statuses[string(card.Status)] = struct{}{}
		}
		if year, err := strconv.Atoi(card.Year); err == nil {
			years[card.Year] = struct{}{}
			if !haveYear || year < minYear {
				minYear = year
			}
			if !haveYear || year > maxYear {
				maxYear = year
			}
			haveYear = true
		}
		if card.Value.Valid() && card.Value.Decimal().GreaterThan(maxValue) {
			maxValue = card.Value.Decimal()
		}
	}

	for grade := range grades {
		options.Grades = append(options.Grades, grade)
	}
	for status := range statuses {
		options.Statuses = append(options.Statuses, status)
	}
	for year := range years {
		options.Years = append(options.Years, year)
	}
	sort.Strings(options.Grades)
	sort.Strings(options.Statuses)
	sort.Slice(options.Years, func(i, j int) bool {
		a, _ := strconv.Atoi(options.Years[i])
		b, _ := strconv.Atoi(options.Years[j])
		return a > b
	})

	if maxValue.GreaterThan(defaultMaxPrice) {
		options.MaxPrice = maxValue
	}
	if haveYear {
		options.MinYear = strconv.Itoa(minYear)
		options.MaxYear = strconv.Itoa(maxYear)
	}
	return options
}

// ApplyFilters narrows the collection to cards passing every active
// predicate. The relative order of the input is preserved; the input slice
// is never mutated.
func ApplyFilters(cards []models.Card, state FilterState) []models.Card {
	query := strings.ToLower(strings.TrimSpace(state.Query))
	minYear, hasMinYear := parseYear(state.MinYear)
	maxYear, hasMaxYear := parseYear(state.MaxYear)
	minPrice, hasMinPrice := parsePrice(state.MinPrice)
	maxPrice, hasMaxPrice := parsePrice(state.MaxPrice)

	filtered := make([]models.Card, 0, len(cards))
	for _, card := range cards {
		if query != "" && !matchesQuery(card, query) {
			continue
		}
		if len(state.Grades) > 0 {
			if _, ok := state.Grades[card.Grade]; !ok || card.Grade == "" {
				continue
			}
		}
		if len(state.Statuses) > 0 {
			if _, ok := state.Statuses[string(card.Status)]; !ok || card.Status == "" {
				continue
			}
		}
		if hasMinYear || hasMaxYear {
			year, err := strconv.Atoi(card.Year)
			if err != nil {
				continue
			}
			if hasMinYear && year < minYear {
				continue
			}
			if hasMaxYear && year > maxYear {
				continue
			}
		}
		if hasMinPrice || hasMaxPrice {
			if !card.Value.Valid() {
				continue
			}
			value := card.Value.Decimal()
			if hasMinPrice && value.LessThan(minPrice) {
				continue
			}
			if hasMaxPrice && value.GreaterThan(maxPrice) {
				continue
			}
		}
		filtered = append(filtered, card)
	}
	return filtered
}

// ActiveCount reports how many filter dimensions currently narrow the
// collection. Each dimension contributes at most one.
func (s FilterState) ActiveCount(options FilterOptions) int {
	count := 0
	if len(s.Grades) > 0 {
		count++
	}
	if len(s.Statuses) > 0 {
		count++
	}
	if minPrice, ok := parsePrice(s.MinPrice); ok && minPrice.GreaterThan(decimal.Zero) {
		count++
	}
	if maxPrice, ok := parsePrice(s.MaxPrice); ok && maxPrice.LessThan(options.MaxPrice) {
		count++
	}
	if minYear, ok := parseYear(s.MinYear); ok {
		if floor, floorOK := parseYear(options.MinYear); !floorOK && minYear > 0 || floorOK && minYear > floor {
			count++
		}
	}
	if maxYear, ok := parseYear(s.MaxYear); ok {
		ceiling := 9999
		if c, ceilOK := parseYear(options.MaxYear); ceilOK {
			ceiling = c
		}
		if maxYear < ceiling {
			count++
		}
	}
	return count
}

func matchesQuery(card models.Card, query string) bool {
	if strings.Contains(strings.ToLower(card.Year), query) {
		return true
	}
	if strings.Contains(strings.ToLower(card.Brand), query) {
		return true
	}
	if strings.Contains(strings.ToLower(card.Subject), query) {
		return true
	}
	if strings.Contains(strings.ToLower(card.Grade), query) {
		return true
	}
	combined := strings.ToLower(card.Year + " " + card.Brand + " " + card.Subject)
	return strings.Contains(combined, query)
}

func parseYear(value string) (int, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	year, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return year, true
}

func parsePrice(value string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false
	}
	return price, true
}
