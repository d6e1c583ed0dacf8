package datamart

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lock"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestProjectUpsertsDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	key, err := lock.NewResourceKey("ENTITY", "100")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO entity_documents").
		WithArgs(key.CanonicalString(), []byte(`{"hello":"world"}`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dm := New(db)
	require.NoError(t, dm.Project(context.Background(), key, []byte(`{"hello":"world"}`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectNilDocumentDeletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	key, err := lock.NewResourceKey("ENTITY", "100")
	require.NoError(t, err)

	mock.ExpectExec("DELETE FROM entity_documents").
		WithArgs(key.CanonicalString()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dm := New(db)
	require.NoError(t, dm.Project(context.Background(), key, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectChangeEventDeletedOperationDeletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM entity_documents").
		WithArgs("ENTITY:100").
		WillReturnResult(sqlmock.NewResult(0, 1))

	dm := New(db)
	event := &types.ChangeEvent{EntityID: "100", Operation: types.ChangeOperationDeleted}
	require.NoError(t, dm.ProjectChangeEvent(context.Background(), event))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectChangeEventCreatedOperationProjectsDocumentVerbatim(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO entity_documents").
		WithArgs("ENTITY:100", []byte(`{"name":"Alice"}`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dm := New(db)
	event := &types.ChangeEvent{
		EntityID:  "100",
		Operation: types.ChangeOperationCreated,
		Document:  []byte(`{"name":"Alice"}`),
	}
	require.NoError(t, dm.ProjectChangeEvent(context.Background(), event))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupReturnsFalseWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	key, err := lock.NewResourceKey("ENTITY", "missing")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT resource_key, document, projected_at").
		WithArgs(key.CanonicalString()).
		WillReturnRows(sqlmock.NewRows([]string{"resource_key", "document", "projected_at"}))

	dm := New(db)
	_, found, err := dm.Lookup(context.Background(), key)
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}
