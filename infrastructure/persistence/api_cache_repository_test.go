package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"tube-catalog/domain/model"
)

const apiCacheSelect = `SELECT fingerprint, request_json::text, response_json::text, created_at FROM api_response_cache WHERE fingerprint=$1`

const apiCacheInsert = `INSERT INTO api_response_cache(fingerprint, request_json, response_json, created_at)
          VALUES ($1,$2,$3,$4)
          ON CONFLICT (fingerprint) DO NOTHING`

func testEntry() *model.CacheEntry {
	return &model.CacheEntry{
		Fingerprint:  "fp-1",
		RequestJSON:  `{"method":"get","kind":"channel","ids":["abc"]}`,
		ResponseJSON: `{"kind":"channel","id":"abc"}`,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAPICacheRepository_FindByFingerprint(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAPICacheRepository(db)
	entry := testEntry()

	mock.ExpectQuery(regexp.QuoteMeta(apiCacheSelect)).
		WithArgs("fp-1").
		WillReturnRows(sqlmock.NewRows([]string{"fingerprint", "request_json", "response_json", "created_at"}).
			AddRow(entry.Fingerprint, entry.RequestJSON, entry.ResponseJSON, entry.CreatedAt))

	res, err := repository.FindByFingerprint(context.Background(), "fp-1")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, entry, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPICacheRepository_FindByFingerprint_Miss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAPICacheRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(apiCacheSelect)).
		WithArgs("fp-missing").
		WillReturnRows(sqlmock.NewRows([]string{"fingerprint", "request_json", "response_json", "created_at"}))

	res, err := repository.FindByFingerprint(context.Background(), "fp-missing")
	require.NoError(t, err)
	require.Nil(t, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPICacheRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAPICacheRepository(db)
	entry := testEntry()

	mock.ExpectExec(regexp.QuoteMeta(apiCacheInsert)).
		WithArgs(entry.Fingerprint, entry.RequestJSON, entry.ResponseJSON, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.Insert(context.Background(), entry)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPICacheRepository_Insert_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAPICacheRepository(db)
	entry := testEntry()

	// ON CONFLICT DO NOTHING reports zero affected rows for a duplicate.
	mock.ExpectExec(regexp.QuoteMeta(apiCacheInsert)).
		WithArgs(entry.Fingerprint, entry.RequestJSON, entry.ResponseJSON, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repository.Insert(context.Background(), entry)
	require.ErrorIs(t, err, model.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPICacheRepository_InsertBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAPICacheRepository(db)
	first := *testEntry()
	second := *testEntry()
	second.Fingerprint = "fp-2"

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(apiCacheInsert))
	prep.ExpectExec().
		WithArgs(first.Fingerprint, first.RequestJSON, first.ResponseJSON, first.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(second.Fingerprint, second.RequestJSON, second.ResponseJSON, second.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repository.InsertBatch(context.Background(), []model.CacheEntry{first, second})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPICacheRepository_InsertBatch_ConflictRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAPICacheRepository(db)
	first := *testEntry()
	dup := *testEntry()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(apiCacheInsert))
	prep.ExpectExec().
		WithArgs(first.Fingerprint, first.RequestJSON, first.ResponseJSON, first.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(dup.Fingerprint, dup.RequestJSON, dup.ResponseJSON, dup.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repository.InsertBatch(context.Background(), []model.CacheEntry{first, dup})
	require.ErrorIs(t, err, model.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPICacheRepository_Delete_Idempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAPICacheRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM api_response_cache WHERE fingerprint=$1`)).
		WithArgs("fp-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repository.Delete(context.Background(), "fp-missing")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPICacheRepository_NilDB(t *testing.T) {
	repository := NewAPICacheRepository(nil)

	res, err := repository.FindByFingerprint(context.Background(), "fp")
	require.NoError(t, err)
	require.Nil(t, res)
	require.NoError(t, repository.Insert(context.Background(), testEntry()))
	require.NoError(t, repository.Delete(context.Background(), "fp"))
}
