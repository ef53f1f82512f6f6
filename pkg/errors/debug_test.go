package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDumpCollectsPostgresDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "reviews_booking_id_key", TableName: "reviews"}
	err := Wrap(CodeConflict, fmt.Errorf("insert review: %w", pgErr), "booking already reviewed")

	dump := Dump(err)
	assert.Equal(t, CodeConflict, dump.Code)
	assert.Equal(t, http.StatusConflict, dump.HTTPStatus)
	assert.Equal(t, "23505", dump.PGCode)
	assert.Equal(t, "reviews_booking_id_key", dump.PGConstraint)
	assert.Len(t, dump.Chain, 3)

	fields := dump.Fields()
	assert.Equal(t, "reviews", fields["pg_table"])
	assert.NotContains(t, fields, "pg_detail")
}

func TestDumpDefaultsUntypedErrorsToInternal(t *testing.T) {
	dump := Dump(fmt.Errorf("boom"))
	assert.Equal(t, CodeInternal, dump.Code)
	assert.True(t, dump.Retryable)
	assert.NotContains(t, dump.Fields(), "error_chain")
	assert.Equal(t, ErrorDump{}, Dump(nil))
}
