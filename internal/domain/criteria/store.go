package criteria

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) ListDefaults(ctx context.Context) ([]Definition, error) {
	return s.list(ctx, "criteria_defaults")
}

func (s *Store) ListCustom(ctx context.Context) ([]Definition, error) {
	return s.list(ctx, "criteria_custom")
}

func (s *Store) list(ctx context.Context, table string) ([]Definition, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT department, criteria, caption_eng, caption_th, answer_type, target_value
    FROM `+table+`
    ORDER BY position
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var def Definition
		var answerType string
		if err := rows.Scan(&def.Department, &def.Key, &def.CaptionEN, &def.CaptionTH, &answerType, &def.Target); err != nil {
			return nil, err
		}
		def.Type = AnswerType(answerType)
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// ReplaceCustom swaps the whole custom set in one transaction, keeping row
// order as the stored position. The default set is never written here.
func (s *Store) ReplaceCustom(ctx context.Context, defs []Definition) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM criteria_custom"); err != nil {
		return err
	}
	for position, def := range defs {
		_, err := tx.Exec(ctx, `
      INSERT INTO criteria_custom (department, criteria, caption_eng, caption_th, answer_type, target_value, position)
      VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, def.Department, def.Key, def.CaptionEN, def.CaptionTH, string(def.Type), def.Target, position)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UseCustom reads the persisted set-selection flag. A missing row means the
// default set.
func (s *Store) UseCustom(ctx context.Context) (bool, error) {
	var value string
	err := s.DB.QueryRow(ctx, "SELECT value FROM app_settings WHERE key = 'use_custom'").Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return parseUseCustom(value)
}

// parseUseCustom rejects a corrupted setting value instead of silently
// falling back to the default set.
func parseUseCustom(value string) (bool, error) {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid use_custom setting %q: %w", value, err)
	}
	return parsed, nil
}

func (s *Store) SetUseCustom(ctx context.Context, useCustom bool) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO app_settings (key, value) VALUES ('use_custom', $1)
    ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
  `, strconv.FormatBool(useCustom))
	return err
}
