package cards

import (
	"reflect"
	"testing"

	"github.com/jyl33/cardscanner-backend/pkg/db/models"
	"github.com/jyl33/cardscanner-backend/pkg/enums"
	"github.com/jyl33/cardscanner-backend/pkg/types"
)

func sampleCollection() []models.Card {
	return []models.Card{
		{
			Year:    "2020",
			Brand:   "Topps",
			Subject: "X",
			Grade:   "9",
			Value:   types.MoneyFromString("50"),
			Status:  enums.CardStatusInStock,
		},
		{
			Year:    "2021",
			Brand:   "Panini",
			Subject: "Y",
			Grade:   "10",
			Value:   types.MoneyFromString("200"),
			Status:  enums.CardStatusSold,
		},
	}
}

func TestApplyFiltersEmptyStateIsIdentity(t *testing.T) {
	cards := append(sampleCollection(), models.Card{
		Year:    "unknown",
		Brand:   "Fleer",
		Subject: "Z",
		Grade:   "8",
		Value:   types.MoneyFromString("not-a-number"),
		Status:  enums.CardStatusInStock,
	})

	got := ApplyFilters(cards, FilterState{})
	if !reflect.DeepEqual(got, cards) {
		t.Fatalf("empty state must be identity, got %d of %d cards", len(got), len(cards))
	}
}

func TestDeriveFilterOptionsEmptyCollection(t *testing.T) {
	options := DeriveFilterOptions(nil)
	if len(options.Grades) != 0 || len(options.Statuses) != 0 || len(options.Years) != 0 {
		t.Fatalf("expected empty option lists, got %+v", options)
	}
	if !options.MaxPrice.Equal(defaultMaxPrice) {
		t.Fatalf("expected default max price 1000, got %s", options.MaxPrice)
	}
	if options.MinYear != "" || options.MaxYear != "" {
		t.Fatalf("expected empty year bounds")
	}
}

func TestDeriveFilterOptionsMaxPriceFloor(t *testing.T) {
	options := DeriveFilterOptions(sampleCollection())
	if options.MaxPrice.String() != "1000" {
		t.Fatalf("max price below 1000 must floor at 1000, got %s", options.MaxPrice)
	}

	rich := append(sampleCollection(), models.Card{Year: "1952", Value: types.MoneyFromString("2500.50")})
	options = DeriveFilterOptions(rich)
	if options.MaxPrice.String() != "2500.5" {
		t.Fatalf("expected derived ceiling 2500.5, got %s", options.MaxPrice)
	}
}

func TestDeriveFilterOptionsSorting(t *testing.T) {
	cards := []models.Card{
		{Year: "2021", Grade: "9", Status: enums.CardStatusSold},
		{Year: "1999", Grade: "10", Status: enums.CardStatusInStock},
		{Year: "2020", Grade: "8.5", Status: enums.CardStatusInStock},
		{Year: "mystery", Grade: "8.5", Status: enums.CardStatusInStock},
	}
	options := DeriveFilterOptions(cards)

	if !reflect.DeepEqual(options.Grades, []string{"10", "8.5", "9"}) {
		t.Fatalf("grades must sort lexicographically, got %v", options.Grades)
	}
	if !reflect.DeepEqual(options.Statuses, []string{"In Stock", "Sold"}) {
		t.Fatalf("unexpected statuses %v", options.Statuses)
	}
	if !reflect.DeepEqual(options.Years, []string{"2021", "2020", "1999"}) {
		t.Fatalf("years must sort numerically descending, got %v", options.Years)
	}
	if options.MinYear != "1999" || options.MaxYear != "2021" {
		t.Fatalf("non-numeric years must not move the bounds: %q..%q", options.MinYear, options.MaxYear)
	}
}

func TestApplyFiltersIdempotent(t *testing.T) {
	cards := sampleCollection()
	state := FilterState{Statuses: map[string]struct{}{"In Stock": {}}}

	once := ApplyFilters(cards, state)
	twice := ApplyFilters(once, state)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("applying the same state twice changed the result")
	}
}

func TestApplyFiltersStatusScenario(t *testing.T) {
	cards := sampleCollection()
	state := FilterState{Statuses: map[string]struct{}{"In Stock": {}}}

	got := ApplyFilters(cards, state)
	if len(got) != 1 || got[0].Brand != "Topps" {
		t.Fatalf("expected only the In Stock card, got %+v", got)
	}
}

func TestApplyFiltersYearScenario(t *testing.T) {
	cards := sampleCollection()
	state := FilterState{MinYear: "2021"}

	got := ApplyFilters(cards, state)
	if len(got) != 1 || got[0].Brand != "Panini" {
		t.Fatalf("expected only the 2021 card, got %+v", got)
	}
}

func TestApplyFiltersQueryScenario(t *testing.T) {
	cards := sampleCollection()
	state := FilterState{Query: "2020 topps"}

	got := ApplyFilters(cards, state)
	if len(got) != 1 || got[0].Subject != "X" {
		t.Fatalf("query over the concatenated name should match only the first card, got %+v", got)
	}
}

func TestApplyFiltersNonNumericFailsActiveRanges(t *testing.T) {
	cards := []models.Card{
		{Year: "vintage", Brand: "Fleer", Value: types.MoneyFromString("50"), Status: enums.CardStatusInStock},
		{Year: "2020", Brand: "Topps", Value: types.MoneyFromString("oops"), Status: enums.CardStatusInStock},
	}

	if got := ApplyFilters(cards, FilterState{MinYear: "1900"}); len(got) != 1 || got[0].Brand != "Topps" {
		t.Fatalf("non-numeric year must fail an active year range, got %+v", got)
	}
	if got := ApplyFilters(cards, FilterState{MinPrice: "0"}); len(got) != 1 || got[0].Brand != "Fleer" {
		t.Fatalf("invalid value must fail an active price range, got %+v", got)
	}
	if got := ApplyFilters(cards, FilterState{Query: "2020"}); len(got) != 1 || got[0].Brand != "Topps" {
		t.Fatalf("text predicate must still see cards with bad numerics, got %+v", got)
	}
}

func TestToggleGradeInvolution(t *testing.T) {
	state := NewFilterState(DeriveFilterOptions(sampleCollection()))

	state.ToggleGrade("9")
	if _, ok := state.Grades["9"]; !ok {
		t.Fatalf("expected grade selected after first toggle")
	}
	state.ToggleGrade("9")
	if len(state.Grades) != 0 {
		t.Fatalf("toggling twice must restore the original set, got %v", state.Grades)
	}
}

func TestActiveCountDimensions(t *testing.T) {
	options := DeriveFilterOptions(sampleCollection())
	state := NewFilterState(options)

	if got := state.ActiveCount(options); got != 0 {
		t.Fatalf("freshly seeded state should count 0 active filters, got %d", got)
	}

	state.ToggleGrade("9")
	state.ToggleStatus("Sold")
	state.MinPrice = "10"
	state.MaxPrice = "500"
	state.MinYear = "2021"
	state.MaxYear = "2020"
	if got := state.ActiveCount(options); got != 6 {
		t.Fatalf("expected all six dimensions active, got %d", got)
	}
}

func TestResetRestoresSeededBounds(t *testing.T) {
	options := DeriveFilterOptions(sampleCollection())
	state := NewFilterState(options)
	state.Query = "topps"
	state.ToggleGrade("9")
	state.MinPrice = "25"
	state.MaxYear = "2020"

	state.Reset(options)
	if state.Query != "" || len(state.Grades) != 0 || len(state.Statuses) != 0 {
		t.Fatalf("reset must clear query and sets")
	}
	if state.MinPrice != "0" || state.MaxPrice != options.MaxPrice.String() {
		t.Fatalf("reset must restore price bounds, got [%s, %s]", state.MinPrice, state.MaxPrice)
	}
	if state.MinYear != options.MinYear || state.MaxYear != options.MaxYear {
		t.Fatalf("reset must restore year bounds, got [%s, %s]", state.MinYear, state.MaxYear)
	}
}

func TestSeedOnlyFillsBlanks(t *testing.T) {
	options := DeriveFilterOptions(sampleCollection())
	state := FilterState{MinYear: "2015"}
	state.Seed(options)

	if state.MinYear != "2015" {
		t.Fatalf("seed must not overwrite a user-set bound")
	}
	if state.MaxYear != options.MaxYear || state.MinPrice != "0" || state.MaxPrice != options.MaxPrice.String() {
		t.Fatalf("seed must fill blank bounds from options: %+v", state)
	}
}
