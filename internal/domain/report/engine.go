package report

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"eval360/internal/domain/criteria"
	"eval360/internal/domain/evaluation"
)

// The engine is a set of pure functions over a slice of response records.
// Callers pre-filter the log (years, department, employee) through the
// store; nothing here keeps state between calls. Means are carried at full
// precision; rounding to two decimals happens only at the presentation
// boundary (dashboard payloads, PDF) via Round2.

type CriterionScore struct {
	Criteria string  `json:"criteria"`
	Score    float64 `json:"score"`
}

type YearScore struct {
	Year  int     `json:"year"`
	Score float64 `json:"score"`
}

// Comparison pairs the Self mean with the mean over every other evaluator
// type. A nil side means no such evaluations exist and must be rendered as
// missing, never as zero.
type Comparison struct {
	Self   *float64 `json:"self"`
	Others *float64 `json:"others"`
}

type TextEntry struct {
	Year int    `json:"year"`
	Text string `json:"text"`
}

// TextSummary carries the non-empty free-text answers for one criterion
// plus how many explicit empty responses were filed alongside them.
type TextSummary struct {
	Responses  []TextEntry `json:"responses"`
	EmptyCount int         `json:"emptyCount"`
}

func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

// AveragesByCriterion computes the mean score per criterion over rating and
// numeric records. Text records carry no number and are excluded entirely,
// so a criterion answered only in text never appears in the result.
func AveragesByCriterion(records []evaluation.Response) map[string]float64 {
	grouped := make(map[string][]float64)
	for _, r := range records {
		if value, ok := r.Value(); ok {
			grouped[r.Criteria] = append(grouped[r.Criteria], value)
		}
	}
	averages := make(map[string]float64, len(grouped))
	for key, values := range grouped {
		averages[key] = mean(values)
	}
	return averages
}

// AveragesByYear is AveragesByCriterion grouped by evaluation year.
func AveragesByYear(records []evaluation.Response) map[int]map[string]float64 {
	byYear := make(map[int][]evaluation.Response)
	for _, r := range records {
		byYear[r.Year] = append(byYear[r.Year], r)
	}
	averages := make(map[int]map[string]float64, len(byYear))
	for year, group := range byYear {
		averages[year] = AveragesByCriterion(group)
	}
	return averages
}

// AveragesByEvaluator is AveragesByCriterion grouped by evaluator type.
func AveragesByEvaluator(records []evaluation.Response) map[evaluation.EvaluatorType]map[string]float64 {
	byType := make(map[evaluation.EvaluatorType][]evaluation.Response)
	for _, r := range records {
		byType[r.EvaluatorType] = append(byType[r.EvaluatorType], r)
	}
	averages := make(map[evaluation.EvaluatorType]map[string]float64, len(byType))
	for evaluatorType, group := range byType {
		averages[evaluatorType] = AveragesByCriterion(group)
	}
	return averages
}

// TopBottom picks the n best and n worst criteria from an average map.
// order is the resolved-criteria order and doubles as the tie-break: equal
// scores keep their first-seen position rather than being re-sorted
// alphabetically. Criteria present in averages but absent from order are
// appended after the ordered ones, sorted by key for determinism.
func TopBottom(averages map[string]float64, order []string, n int) (top, bottom []CriterionScore) {
	scores := make([]CriterionScore, 0, len(averages))
	seen := make(map[string]struct{}, len(averages))
	for _, key := range order {
		if score, ok := averages[key]; ok {
			scores = append(scores, CriterionScore{Criteria: key, Score: score})
			seen[key] = struct{}{}
		}
	}
	var rest []string
	for key := range averages {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		scores = append(scores, CriterionScore{Criteria: key, Score: averages[key]})
	}

	descending := make([]CriterionScore, len(scores))
	copy(descending, scores)
	sort.SliceStable(descending, func(i, j int) bool { return descending[i].Score > descending[j].Score })

	ascending := make([]CriterionScore, len(scores))
	copy(ascending, scores)
	sort.SliceStable(ascending, func(i, j int) bool { return ascending[i].Score < ascending[j].Score })

	if n > len(scores) {
		n = len(scores)
	}
	return descending[:n], ascending[:n]
}

// SelfVsOthers compares, per criterion, the mean given by the employee
// themselves against the mean over all other evaluator types.
func SelfVsOthers(records []evaluation.Response) map[string]Comparison {
	selfValues := make(map[string][]float64)
	otherValues := make(map[string][]float64)
	keys := make(map[string]struct{})

	for _, r := range records {
		value, ok := r.Value()
		if !ok {
			continue
		}
		keys[r.Criteria] = struct{}{}
		if r.EvaluatorType == evaluation.EvaluatorSelf {
			selfValues[r.Criteria] = append(selfValues[r.Criteria], value)
		} else {
			otherValues[r.Criteria] = append(otherValues[r.Criteria], value)
		}
	}

	comparisons := make(map[string]Comparison, len(keys))
	for key := range keys {
		var comparison Comparison
		if values := selfValues[key]; len(values) > 0 {
			m := mean(values)
			comparison.Self = &m
		}
		if values := otherValues[key]; len(values) > 0 {
			m := mean(values)
			comparison.Others = &m
		}
		comparisons[key] = comparison
	}
	return comparisons
}

// Trend returns the yearly mean for one criterion, ascending by year.
// Years with no matching records are omitted, never interpolated.
func Trend(records []evaluation.Response, criterion string) []YearScore {
	byYear := make(map[int][]float64)
	for _, r := range records {
		if r.Criteria != criterion {
			continue
		}
		if value, ok := r.Value(); ok {
			byYear[r.Year] = append(byYear[r.Year], value)
		}
	}

	trend := make([]YearScore, 0, len(byYear))
	for year, values := range byYear {
		trend = append(trend, YearScore{Year: year, Score: mean(values)})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Year < trend[j].Year })
	return trend
}

// Progress computes mean(numeric)/target capped at 1.0. An absent or zero
// target, or a criterion with no numeric records, cannot be computed and
// is reported as a distinct error rather than a ratio.
func Progress(records []evaluation.Response, criterion string, target *float64) (float64, error) {
	if target == nil || *target == 0 {
		return 0, ErrNoTarget
	}
	var values []float64
	for _, r := range records {
		if r.Criteria != criterion || r.Numeric == nil {
			continue
		}
		values = append(values, *r.Numeric)
	}
	if len(values) == 0 {
		return 0, ErrNoData
	}
	return math.Min(mean(values)/(*target), 1.0), nil
}

// TextResponses gathers the free-text answers for one criterion, newest
// year first. Empty answers are excluded from the list but counted, so
// callers can still report "N empty responses".
func TextResponses(records []evaluation.Response, criterion string, year *int) TextSummary {
	var summary TextSummary
	for _, r := range records {
		if r.Criteria != criterion || r.Type != criteria.AnswerText || r.Text == nil {
			continue
		}
		if year != nil && r.Year != *year {
			continue
		}
		if *r.Text == "" {
			summary.EmptyCount++
			continue
		}
		summary.Responses = append(summary.Responses, TextEntry{Year: r.Year, Text: *r.Text})
	}
	sort.SliceStable(summary.Responses, func(i, j int) bool {
		return summary.Responses[i].Year > summary.Responses[j].Year
	})
	return summary
}

// EvaluatorCount counts distinct evaluators in the record set.
func EvaluatorCount(records []evaluation.Response) int {
	evaluators := make(map[string]struct{})
	for _, r := range records {
		evaluators[r.EvaluatorID] = struct{}{}
	}
	return len(evaluators)
}

// Round2 rounds for presentation. Internal aggregation never rounds, so
// successive aggregations do not compound rounding error.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
