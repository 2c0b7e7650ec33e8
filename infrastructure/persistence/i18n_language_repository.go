package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"tube-catalog/domain/model"
)

// EnsureI18nLanguageSchema creates the i18n_languages table if not exists
func EnsureI18nLanguageSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS i18n_languages (
        code TEXT PRIMARY KEY,
        language TEXT NOT NULL,
        native_name TEXT NOT NULL DEFAULT ''
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create i18n_languages table: %w", err)
	}
	return nil
}

// I18nLanguageRepository persists the language reference table

type I18nLanguageRepository struct{ db *sql.DB }

func NewI18nLanguageRepository(db *sql.DB) *I18nLanguageRepository {
	return &I18nLanguageRepository{db: db}
}

const languageUpsert = `INSERT INTO i18n_languages(code, language, native_name)
          VALUES ($1,$2,$3)
          ON CONFLICT (code) DO UPDATE SET language=EXCLUDED.language, native_name=EXCLUDED.native_name`

func (r *I18nLanguageRepository) Save(ctx context.Context, language *model.Language) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, languageUpsert, language.Code, language.Language, language.NativeName)
	return err
}

func (r *I18nLanguageRepository) SaveAll(ctx context.Context, languages []model.Language) error {
	if r.db == nil || len(languages) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, languageUpsert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := range languages {
		if _, err = stmt.ExecContext(ctx, languages[i].Code, languages[i].Language, languages[i].NativeName); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *I18nLanguageRepository) FindAll(ctx context.Context) ([]model.Language, error) {
	if r.db == nil {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT code, language, native_name FROM i18n_languages`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Language
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.Code, &l.Language, &l.NativeName); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *I18nLanguageRepository) GetByCode(ctx context.Context, code string) (*model.Language, error) {
	if r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT code, language, native_name FROM i18n_languages WHERE code=$1`, code)
	var l model.Language
	if err := row.Scan(&l.Code, &l.Language, &l.NativeName); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *I18nLanguageRepository) DeleteByCode(ctx context.Context, code string) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM i18n_languages WHERE code=$1`, code)
	return err
}
