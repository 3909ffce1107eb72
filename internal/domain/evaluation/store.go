package evaluation

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eval360/internal/domain/criteria"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

// AppendAll writes every row of one submission in a single transaction.
// The log is append-only: there is no update or delete path, and a
// re-submission by the same evaluator simply adds more rows.
func (s *Store) AppendAll(ctx context.Context, responses []Response) error {
	if len(responses) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range responses {
		_, err := tx.Exec(ctx, `
      INSERT INTO evaluation_responses
        (employee_id, evaluator_id, evaluator_type, evaluation_year, criteria, answer_type, score, value, text_response)
      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, r.EmployeeID, r.EvaluatorID, string(r.EvaluatorType), r.Year, r.Criteria, string(r.Type), r.Rating, r.Numeric, r.Text)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Filter narrows a full-log read. Zero values mean "no constraint";
// Department filters through the employee registry.
type Filter struct {
	EmployeeID string
	Department string
	Years      []int
	Criteria   []string
}

func (s *Store) List(ctx context.Context, f Filter) ([]Response, error) {
	query := `
    SELECT r.employee_id, r.evaluator_id, r.evaluator_type, r.evaluation_year,
           r.criteria, r.answer_type, r.score, r.value, r.text_response, r.submitted_at
    FROM evaluation_responses r
  `
	var args []any
	var where []string

	if f.Department != "" {
		query += " JOIN employees e ON e.employee_id = r.employee_id"
		args = append(args, f.Department)
		where = append(where, "e.department = $"+strconv.Itoa(len(args)))
	}
	if f.EmployeeID != "" {
		args = append(args, f.EmployeeID)
		where = append(where, "r.employee_id = $"+strconv.Itoa(len(args)))
	}
	if len(f.Years) > 0 {
		args = append(args, f.Years)
		where = append(where, "r.evaluation_year = ANY($"+strconv.Itoa(len(args))+")")
	}
	if len(f.Criteria) > 0 {
		args = append(args, f.Criteria)
		where = append(where, "r.criteria = ANY($"+strconv.Itoa(len(args))+")")
	}

	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY r.submitted_at, r.id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []Response
	for rows.Next() {
		var r Response
		var evaluatorType, answerType string
		if err := rows.Scan(&r.EmployeeID, &r.EvaluatorID, &evaluatorType, &r.Year,
			&r.Criteria, &answerType, &r.Rating, &r.Numeric, &r.Text, &r.SubmittedAt); err != nil {
			return nil, err
		}
		r.EvaluatorType = EvaluatorType(evaluatorType)
		r.Type = criteria.AnswerType(answerType)
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// Years lists the distinct evaluation years present in the log, most
// recent first.
func (s *Store) Years(ctx context.Context) ([]int, error) {
	rows, err := s.DB.Query(ctx, "SELECT DISTINCT evaluation_year FROM evaluation_responses ORDER BY evaluation_year DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

