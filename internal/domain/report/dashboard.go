package report

import (
	"context"
	"sort"

	"eval360/internal/domain/criteria"
	"eval360/internal/domain/employee"
	"eval360/internal/domain/evaluation"
)

// Service is the dashboard query layer: it translates filter selections
// into store reads and engine calls and merges resolver captions for
// display. It holds no business rules of its own.
type Service struct {
	Employees   *employee.Store
	Criteria    *criteria.Service
	Evaluations *evaluation.Store
	ReportsDir  string
}

func NewService(employees *employee.Store, criteriaSvc *criteria.Service, evaluations *evaluation.Store, reportsDir string) *Service {
	return &Service{Employees: employees, Criteria: criteriaSvc, Evaluations: evaluations, ReportsDir: reportsDir}
}

type CriterionRow struct {
	Criteria  string  `json:"criteria"`
	CaptionEN string  `json:"captionEng"`
	CaptionTH string  `json:"captionTh"`
	Score     float64 `json:"score"`
}

type ComparisonRow struct {
	Criteria string   `json:"criteria"`
	Caption  string   `json:"caption"`
	Self     *float64 `json:"self"`
	Others   *float64 `json:"others"`
}

// EmployeeDashboard is the per-employee view: averages in form order,
// strengths and opportunities, self-vs-others. HasData false means no
// evaluations matched the filter; callers must render an explicit "no
// data" state instead of zeros.
type EmployeeDashboard struct {
	Employee       employee.Employee      `json:"employee"`
	Years          []int                  `json:"years"`
	HasData        bool                   `json:"hasData"`
	EvaluatorCount int                    `json:"evaluatorCount"`
	Averages       []CriterionRow         `json:"averages"`
	AveragesByYear map[int][]CriterionRow `json:"averagesByYear"`
	TopStrengths   []CriterionScore       `json:"topStrengths"`
	Opportunities  []CriterionScore       `json:"opportunities"`
	SelfVsOthers   []ComparisonRow        `json:"selfVsOthers"`
}

func (s *Service) EmployeeDashboard(ctx context.Context, employeeID string, years []int) (EmployeeDashboard, error) {
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return EmployeeDashboard{}, err
	}
	resolved, err := s.resolveActive(ctx, emp.Department)
	if err != nil {
		return EmployeeDashboard{}, err
	}
	records, err := s.Evaluations.List(ctx, evaluation.Filter{EmployeeID: employeeID, Years: years})
	if err != nil {
		return EmployeeDashboard{}, err
	}
	return buildEmployeeDashboard(emp, resolved, records), nil
}

func buildEmployeeDashboard(emp employee.Employee, resolved []criteria.Definition, records []evaluation.Response) EmployeeDashboard {
	dashboard := EmployeeDashboard{
		Employee:       emp,
		Years:          []int{},
		Averages:       []CriterionRow{},
		AveragesByYear: map[int][]CriterionRow{},
		TopStrengths:   []CriterionScore{},
		Opportunities:  []CriterionScore{},
		SelfVsOthers:   []ComparisonRow{},
	}

	// Records whose criteria key is no longer in the resolved set stay in
	// the log but are not shown on the per-employee dashboard.
	inScope := records[:0:0]
	keys := make(map[string]struct{}, len(resolved))
	for _, def := range resolved {
		keys[def.Key] = struct{}{}
	}
	for _, r := range records {
		if _, ok := keys[r.Criteria]; ok {
			inScope = append(inScope, r)
		}
	}
	if len(inScope) == 0 {
		return dashboard
	}

	dashboard.HasData = true
	dashboard.EvaluatorCount = EvaluatorCount(inScope)

	yearSet := make(map[int]struct{})
	for _, r := range inScope {
		yearSet[r.Year] = struct{}{}
	}
	for year := range yearSet {
		dashboard.Years = append(dashboard.Years, year)
	}
	sort.Ints(dashboard.Years)

	averages := AveragesByCriterion(inScope)
	dashboard.Averages = captionedRows(resolved, averages)

	for year, byCriterion := range AveragesByYear(inScope) {
		dashboard.AveragesByYear[year] = captionedRows(resolved, byCriterion)
	}

	top, bottom := TopBottom(averages, criteria.Keys(resolved), 3)
	dashboard.TopStrengths = roundScores(top)
	dashboard.Opportunities = roundScores(bottom)

	comparisons := SelfVsOthers(inScope)
	for _, def := range resolved {
		comparison, ok := comparisons[def.Key]
		if !ok {
			continue
		}
		dashboard.SelfVsOthers = append(dashboard.SelfVsOthers, ComparisonRow{
			Criteria: def.Key,
			Caption:  def.CaptionEN,
			Self:     roundPtr(comparison.Self),
			Others:   roundPtr(comparison.Others),
		})
	}

	return dashboard
}

// CompanyDashboard is the company-wide view for one year and one criteria
// group (a department value from the active criteria set, including Core).
type CompanyDashboard struct {
	Year     int            `json:"year"`
	Group    string         `json:"group"`
	HasData  bool           `json:"hasData"`
	Averages []CriterionRow `json:"averages"`
	Top      *CriterionRow  `json:"top,omitempty"`
	Bottom   *CriterionRow  `json:"bottom,omitempty"`
}

func (s *Service) CompanyDashboard(ctx context.Context, year int, group string) (CompanyDashboard, error) {
	source, err := s.Criteria.ActiveSource(ctx)
	if err != nil {
		return CompanyDashboard{}, err
	}
	defs, err := s.Criteria.Definitions(ctx, source)
	if err != nil {
		return CompanyDashboard{}, err
	}
	var groupDefs []criteria.Definition
	for _, def := range defs {
		if def.Department == group {
			groupDefs = append(groupDefs, def)
		}
	}

	dashboard := CompanyDashboard{Year: year, Group: group, Averages: []CriterionRow{}}
	if len(groupDefs) == 0 {
		return dashboard, nil
	}

	records, err := s.Evaluations.List(ctx, evaluation.Filter{
		Years:    []int{year},
		Criteria: keysOf(groupDefs),
	})
	if err != nil {
		return CompanyDashboard{}, err
	}

	averages := AveragesByCriterion(records)
	if len(averages) == 0 {
		return dashboard, nil
	}

	dashboard.HasData = true
	rows := captionedRows(groupDefs, averages)
	// Ascending by score, matching the horizontal insight chart: the last
	// row is the top strength, the first the improvement area.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score < rows[j].Score })
	dashboard.Averages = rows
	bottom := rows[0]
	top := rows[len(rows)-1]
	dashboard.Top = &top
	dashboard.Bottom = &bottom
	return dashboard, nil
}

type YearSeries struct {
	Year int            `json:"year"`
	Rows []CriterionRow `json:"rows"`
}

// DepartmentFocus compares a department's criterion averages across the
// selected years.
type DepartmentFocus struct {
	Department string       `json:"department"`
	Years      []int        `json:"years"`
	HasData    bool         `json:"hasData"`
	Series     []YearSeries `json:"series"`
}

func (s *Service) DepartmentFocus(ctx context.Context, department string, years []int) (DepartmentFocus, error) {
	resolved, err := s.resolveActive(ctx, department)
	if err != nil {
		return DepartmentFocus{}, err
	}
	records, err := s.Evaluations.List(ctx, evaluation.Filter{Department: department, Years: years})
	if err != nil {
		return DepartmentFocus{}, err
	}

	focus := DepartmentFocus{Department: department, Years: years, Series: []YearSeries{}}
	byYear := AveragesByYear(records)
	if len(byYear) == 0 {
		return focus, nil
	}
	focus.HasData = true

	var presentYears []int
	for year := range byYear {
		presentYears = append(presentYears, year)
	}
	sort.Ints(presentYears)
	for _, year := range presentYears {
		focus.Series = append(focus.Series, YearSeries{Year: year, Rows: captionedRows(resolved, byYear[year])})
	}
	return focus, nil
}

type TrendSeries struct {
	Criteria string      `json:"criteria"`
	Caption  string      `json:"caption"`
	Points   []YearScore `json:"points"`
}

// TrendOverTime returns the yearly mean per selected criterion, company
// wide or narrowed to one employee. It always reads the full log fresh.
func (s *Service) TrendOverTime(ctx context.Context, criteriaKeys []string, employeeID string) ([]TrendSeries, error) {
	records, err := s.Evaluations.List(ctx, evaluation.Filter{EmployeeID: employeeID, Criteria: criteriaKeys})
	if err != nil {
		return nil, err
	}
	captions, err := s.activeCaptions(ctx)
	if err != nil {
		return nil, err
	}

	series := make([]TrendSeries, 0, len(criteriaKeys))
	for _, key := range criteriaKeys {
		points := Trend(records, key)
		for i := range points {
			points[i].Score = Round2(points[i].Score)
		}
		caption := captions[key]
		if caption == "" {
			// Historical criteria keys survive criteria edits; label them
			// by key.
			caption = key
		}
		series = append(series, TrendSeries{Criteria: key, Caption: caption, Points: points})
	}
	return series, nil
}

type ProgressReport struct {
	Criteria string  `json:"criteria"`
	Caption  string  `json:"caption"`
	Target   float64 `json:"target"`
	Mean     float64 `json:"mean"`
	Ratio    float64 `json:"ratio"`
}

// GoalProgress reports how far a department's mean numeric result is
// toward the criterion's configured target. ErrNoTarget and ErrNoData pass
// through so callers can render "cannot compute" instead of a fake zero.
func (s *Service) GoalProgress(ctx context.Context, criterion, department string, years []int) (ProgressReport, error) {
	resolved, err := s.resolveActive(ctx, department)
	if err != nil {
		return ProgressReport{}, err
	}
	var target *float64
	caption := criterion
	for _, def := range resolved {
		if def.Key == criterion {
			target = def.Target
			caption = def.CaptionEN
			break
		}
	}

	records, err := s.Evaluations.List(ctx, evaluation.Filter{
		Department: department,
		Years:      years,
		Criteria:   []string{criterion},
	})
	if err != nil {
		return ProgressReport{}, err
	}

	ratio, err := Progress(records, criterion, target)
	if err != nil {
		return ProgressReport{}, err
	}

	progressReport := ProgressReport{
		Criteria: criterion,
		Caption:  caption,
		Target:   *target,
		Ratio:    Round2(ratio),
	}
	if m, ok := AveragesByCriterion(records)[criterion]; ok {
		progressReport.Mean = Round2(m)
	}
	return progressReport, nil
}

type TextFeedback struct {
	Criteria string      `json:"criteria"`
	Caption  string      `json:"caption"`
	Year     *int        `json:"year,omitempty"`
	Summary  TextSummary `json:"summary"`
}

func (s *Service) TextFeedback(ctx context.Context, criterion string, year *int) (TextFeedback, error) {
	records, err := s.Evaluations.List(ctx, evaluation.Filter{Criteria: []string{criterion}})
	if err != nil {
		return TextFeedback{}, err
	}
	captions, err := s.activeCaptions(ctx)
	if err != nil {
		return TextFeedback{}, err
	}
	caption := captions[criterion]
	if caption == "" {
		caption = criterion
	}
	return TextFeedback{
		Criteria: criterion,
		Caption:  caption,
		Year:     year,
		Summary:  TextResponses(records, criterion, year),
	}, nil
}

func (s *Service) resolveActive(ctx context.Context, department string) ([]criteria.Definition, error) {
	source, err := s.Criteria.ActiveSource(ctx)
	if err != nil {
		return nil, err
	}
	return s.Criteria.ResolveForDepartment(ctx, department, source)
}

func (s *Service) activeCaptions(ctx context.Context) (map[string]string, error) {
	source, err := s.Criteria.ActiveSource(ctx)
	if err != nil {
		return nil, err
	}
	defs, err := s.Criteria.Definitions(ctx, source)
	if err != nil {
		return nil, err
	}
	captions := make(map[string]string, len(defs))
	for _, def := range defs {
		if def.CaptionEN != "" {
			captions[def.Key] = def.CaptionEN
		} else {
			captions[def.Key] = def.Key
		}
	}
	return captions, nil
}

// captionedRows merges an averages map with resolved definitions, keeping
// the resolved presentation order and rounding for display.
func captionedRows(resolved []criteria.Definition, averages map[string]float64) []CriterionRow {
	rows := make([]CriterionRow, 0, len(averages))
	for _, def := range resolved {
		score, ok := averages[def.Key]
		if !ok {
			continue
		}
		row := CriterionRow{
			Criteria:  def.Key,
			CaptionEN: def.CaptionEN,
			CaptionTH: def.CaptionTH,
			Score:     Round2(score),
		}
		if row.CaptionEN == "" {
			row.CaptionEN = def.Key
		}
		if row.CaptionTH == "" {
			row.CaptionTH = def.Key
		}
		rows = append(rows, row)
	}
	return rows
}

func keysOf(defs []criteria.Definition) []string {
	keys := make([]string, 0, len(defs))
	for _, def := range defs {
		keys = append(keys, def.Key)
	}
	return keys
}

func roundScores(scores []CriterionScore) []CriterionScore {
	rounded := make([]CriterionScore, len(scores))
	for i, s := range scores {
		rounded[i] = CriterionScore{Criteria: s.Criteria, Score: Round2(s.Score)}
	}
	return rounded
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := Round2(*v)
	return &rounded
}
