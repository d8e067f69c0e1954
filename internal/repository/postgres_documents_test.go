package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagecraft/internal/domain"
)

func TestPostgresProfileConfigs_GetConfig(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresProfileConfigsRepository(db)

	mock.ExpectQuery(`SELECT config FROM profile_configs`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"config"}).AddRow([]byte(`{"name":"Dana"}`)))

	doc, err := repo.GetConfig(context.Background(), "u-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Dana"}`, string(doc))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProfileConfigs_GetConfig_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresProfileConfigsRepository(db)

	mock.ExpectQuery(`SELECT config FROM profile_configs`).
		WithArgs("u-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetConfig(context.Background(), "u-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProfileConfigs_UpsertConfig(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresProfileConfigsRepository(db)

	mock.ExpectExec(`INSERT INTO profile_configs`).
		WithArgs("u-1", `{"name":"Dana"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertConfig(context.Background(), "u-1", json.RawMessage(`{"name":"Dana"}`))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProfileConfigs_UpsertConfig_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresProfileConfigsRepository(db)

	mock.ExpectExec(`INSERT INTO profile_configs`).WillReturnError(errors.New("connection reset"))

	err := repo.UpsertConfig(context.Background(), "u-1", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProfileConfigs_UpsertConfig_SlugTaken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresProfileConfigsRepository(db)

	mock.ExpectExec(`INSERT INTO profile_configs`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint \"profile_configs_slug_uniq\""})

	err := repo.UpsertConfig(context.Background(), "u-2", json.RawMessage(`{"landingPage":{"slug":"dana","published":false}}`))
	assert.True(t, errors.Is(err, domain.ErrSlugTaken))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProfileConfigs_FindBySlug(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresProfileConfigsRepository(db)

	mock.ExpectQuery(`ORDER BY \(config->'landingPage'->>'published'\)::boolean IS TRUE DESC`).
		WithArgs("dana").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "config"}).
			AddRow("u-1", []byte(`{"landingPage":{"slug":"dana","published":true}}`)))

	userID, doc, err := repo.FindBySlug(context.Background(), "dana")
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Contains(t, string(doc), `"published":true`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProfileConfigs_FindBySlug_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresProfileConfigsRepository(db)

	_, _, err := repo.FindBySlug(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPages_RoundTrip(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresPagesRepository(db)

	editor := domain.NewPageEditor()
	_, err := editor.Insert(domain.ComponentHero)
	require.NoError(t, err)
	doc := editor.Document()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO pages`).
		WithArgs("u-1", string(raw)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT document FROM pages`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(raw))

	require.NoError(t, repo.UpsertPage(context.Background(), "u-1", doc))
	got, err := repo.GetPage(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, doc, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPages_GetPage_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresPagesRepository(db)

	mock.ExpectQuery(`SELECT document FROM pages`).WithArgs("u-1").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPage(context.Background(), "u-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
