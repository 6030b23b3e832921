// ABOUTME: DailyAggregator folds nutrition records into a date-ordered Summary.
// ABOUTME: Totals, per-day averages, macro-calorie shares and a daily calorie series.
package analysis

import (
	"math"
	"slices"

	"github.com/harperreed/diet/internal/models"
)

// AggregationError reports a record collection that cannot be summarised.
type AggregationError struct {
	Msg string
}

func (e *AggregationError) Error() string {
	return "summarize: " + e.Msg
}

// ErrNoEntries is returned for an empty collection, which is distinct from a
// collection whose totals happen to be zero.
var ErrNoEntries error = &AggregationError{Msg: "no entries to summarize"}

// MacroPercent is the share of macro-derived energy from each macro.
type MacroPercent struct {
	Protein float64 `json:"protein" yaml:"protein"`
	Carbs   float64 `json:"carbs" yaml:"carbs"`
	Fat     float64 `json:"fat" yaml:"fat"`
}

// Sum is the total of the three shares.
func (m MacroPercent) Sum() float64 {
	return m.Protein + m.Carbs + m.Fat
}

// DayTotals holds everything logged on one calendar date.
type DayTotals struct {
	Date    models.Date `json:"date" yaml:"date"`
	Entries int         `json:"entries" yaml:"entries"`
	models.Nutrients `yaml:",inline"`
}

// Summary is derived once from a non-empty record collection and never
// modified afterwards.
type Summary struct {
	StartDate     models.Date      `json:"start_date" yaml:"start_date"`
	EndDate       models.Date      `json:"end_date" yaml:"end_date"`
	EntryCount    int              `json:"entries_count" yaml:"entries_count"`
	DayCount      int              `json:"days_count" yaml:"days_count"`
	Totals        models.Nutrients `json:"totals" yaml:"totals"`
	Averages      models.Nutrients `json:"averages" yaml:"averages"`
	MacroPercent  MacroPercent     `json:"macro_percent" yaml:"macro_percent"`
	DailyCalories DailySeries      `json:"daily_calories" yaml:"daily_calories"`
	Days          []DayTotals      `json:"days" yaml:"days"`
}

// Summarize groups records by calendar date and computes totals, per-day
// averages (total / distinct days) and macro-calorie percentages. The input
// slice is not modified.
func Summarize(records []models.NutritionRecord) (*Summary, error) {
	if len(records) == 0 {
		return nil, ErrNoEntries
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.NutritionRecord) int {
		return a.Date.Time().Compare(b.Date.Time())
	})

	s := &Summary{
		StartDate:  sorted[0].Date,
		EndDate:    sorted[len(sorted)-1].Date,
		EntryCount: len(sorted),
	}

	for _, r := range sorted {
		n := r.Nutrients()
		s.Totals = s.Totals.Add(n)

		last := len(s.Days) - 1
		if last < 0 || !s.Days[last].Date.Equal(r.Date) {
			s.Days = append(s.Days, DayTotals{Date: r.Date})
			last++
		}
		s.Days[last].Entries++
		s.Days[last].Nutrients = s.Days[last].Nutrients.Add(n)
	}

	s.DayCount = len(s.Days)
	s.Averages = s.Totals.Div(float64(s.DayCount))
	s.MacroPercent = macroPercent(s.Totals)

	s.DailyCalories = make(DailySeries, 0, len(s.Days))
	for _, d := range s.Days {
		s.DailyCalories = append(s.DailyCalories, DayCalories{
			Date:     d.Date,
			Calories: RoundHalfUp(d.Calories),
		})
	}

	return s, nil
}

func macroPercent(totals models.Nutrients) MacroPercent {
	protein := totals.ProteinG * models.KcalPerGramProtein
	carbs := totals.CarbsG * models.KcalPerGramCarbs
	fat := totals.FatG * models.KcalPerGramFat
	denom := math.Max(1, protein+carbs+fat)
	return MacroPercent{
		Protein: 100 * protein / denom,
		Carbs:   100 * carbs / denom,
		Fat:     100 * fat / denom,
	}
}

// RoundHalfUp rounds to the nearest integer with ties going towards +Inf.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
