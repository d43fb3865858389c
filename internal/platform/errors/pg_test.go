package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code}
}

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},    // unique violation
		{"23502", ErrorCodeValidation},      // not null
		{"23514", ErrorCodeValidation},      // check
		{"22001", ErrorCodeInvalidArgument}, // string truncation
		{"22P02", ErrorCodeInvalidArgument}, // invalid text representation
		{"42P01", ErrorCodeUnavailable},     // undefined table
		{"25006", ErrorCodeUnavailable},     // read-only
		{"57P03", ErrorCodeUnavailable},     // cannot connect now
		{"XXXXX", ErrorCodeDB},              // default branch
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pg(c.code))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}

	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}

	wrapped := fmt.Errorf("exec: %w", pg("23505"))
	err := FromPostgresf(wrapped, "insert entry %d", 5000001)
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("code = %v, want duplicate_key", CodeOf(err))
	}
	if pgErr, ok := ExtractPgError(err); !ok || pgErr.Code != "23505" {
		t.Fatalf("ExtractPgError should see through wrapping")
	}

	plain := FromPostgres(stderrs.New("conn reset"), "insert")
	if !IsCode(plain, ErrorCodeDB) {
		t.Fatalf("non-pg error should map to db, got %v", CodeOf(plain))
	}
}
