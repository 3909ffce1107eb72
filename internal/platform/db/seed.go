package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"eval360/internal/platform/config"
)

type seedCriterion struct {
	department string
	criteria   string
	captionEng string
	captionTh  string
	answerType string
	target     *float64
}

func floatPtr(v float64) *float64 { return &v }

// defaultCriteria is the read-only criteria set shipped with the service.
// Core rows apply to every department; the rest apply to their own
// department only. Row order here fixes the form and report order.
var defaultCriteria = []seedCriterion{
	{"Core", "Teamwork", "Works well with colleagues toward shared goals", "การทำงานเป็นทีม", "rating", nil},
	{"Core", "Punctuality", "Arrives on time and meets deadlines", "ความตรงต่อเวลา", "rating", nil},
	{"Core", "Communication", "Communicates clearly with the team and stakeholders", "การสื่อสาร", "rating", nil},
	{"Core", "Responsibility", "Takes ownership of assigned work", "ความรับผิดชอบ", "rating", nil},
	{"Finance/Accounting", "Accuracy", "Produces accurate and reliable figures", "ความถูกต้องของข้อมูล", "rating", nil},
	{"HR", "Recruitment", "Sources and screens candidates effectively", "การสรรหาบุคลากร", "rating", nil},
	{"IT", "ProblemSolving", "Diagnoses and resolves technical issues", "การแก้ไขปัญหา", "rating", nil},
	{"Marketing", "Creativity", "Brings fresh ideas to campaigns", "ความคิดสร้างสรรค์", "rating", nil},
	{"Sales", "Negotiation", "Negotiates effectively with customers", "การเจรจาต่อรอง", "rating", nil},
	{"Sales", "SalesTarget", "Yearly sales volume against target", "ยอดขายเทียบกับเป้าหมาย", "numeric", floatPtr(100)},
	{"Sales", "CustomerFeedback", "Notable customer feedback this year", "ความคิดเห็นจากลูกค้า", "text", nil},
	{"Operations", "ProcessImprovement", "Improves day-to-day processes", "การปรับปรุงกระบวนการ", "rating", nil},
}

// Seed populates the default criteria set and the use_custom setting on an
// empty database. Existing rows are left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM criteria_defaults").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		for position, row := range defaultCriteria {
			_, err := pool.Exec(ctx, `
        INSERT INTO criteria_defaults (department, criteria, caption_eng, caption_th, answer_type, target_value, position)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
      `, row.department, row.criteria, row.captionEng, row.captionTh, row.answerType, row.target, position)
			if err != nil {
				return err
			}
		}
		slog.Info("seeded default criteria", "rows", len(defaultCriteria))
	}

	_, err := pool.Exec(ctx, `
    INSERT INTO app_settings (key, value) VALUES ('use_custom', 'false')
    ON CONFLICT (key) DO NOTHING
  `)
	return err
}
