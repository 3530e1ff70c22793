package db

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema_CreatesOnlyMissingTables(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	tableQuery := regexp.QuoteMeta("FROM information_schema.tables")
	for _, table := range Tables() {
		if table == "bookings" {
			mock.ExpectQuery(tableQuery).WithArgs(table).
				WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
			mock.ExpectExec("CREATE TABLE IF NOT EXISTS bookings").
				WillReturnResult(sqlmock.NewResult(0, 0))
			continue
		}
		mock.ExpectQuery(tableQuery).WithArgs(table).
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow(table))
	}

	require.NoError(t, EnsureSchema(context.Background(), conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchema_TableNamesAndPaymentReferenceIndex(t *testing.T) {
	assert.Equal(t, []string{"users", "profiles", "routes", "shuttles", "shuttle_schedules", "bookings", "notifications", "feedback"}, Tables())

	for _, s := range schema {
		if s.table == "bookings" {
			assert.Contains(t, s.ddl, "UNIQUE KEY uq_bookings_payment_reference (payment_reference)")
		}
	}
}

func TestJSONHelpers(t *testing.T) {
	assert.Equal(t, []string{"Main Gate", "Library"}, JSONStrings([]byte(`["Main Gate","Library"]`)))
	assert.Equal(t, []string{}, JSONStrings(nil))
	assert.Equal(t, []int{1, 3, 7}, JSONInts([]byte(`[1,3,7]`)))
	assert.Equal(t, []int{}, JSONInts([]byte(`nope`)))
	assert.Equal(t, `["a"]`, string(MarshalJSON([]string{"a"})))
	assert.Nil(t, NullIfEmpty("  "))
	assert.Equal(t, "x", NullIfEmpty("x"))
}
