package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TestValuesList verifies placeholder numbering for multi-row inserts.
func TestValuesList(t *testing.T) {
	tests := []struct {
		rows, cols int
		want       string
	}{
		{1, 1, "($1)"},
		{1, 3, "($1,$2,$3)"},
		{2, 2, "($1,$2),($3,$4)"},
		{3, 7, "($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14),($15,$16,$17,$18,$19,$20,$21)"},
		{0, 4, ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d", tt.rows, tt.cols), func(t *testing.T) {
			if got := valuesList(tt.rows, tt.cols); got != tt.want {
				t.Errorf("valuesList(%d, %d) = %q, want %q", tt.rows, tt.cols, got, tt.want)
			}
		})
	}
}

// TestTruncInterval verifies bucket names map to date_trunc fields.
func TestTruncInterval(t *testing.T) {
	tests := map[string]string{
		"1 day":   "day",
		"1 week":  "week",
		"1 month": "month",
		"":        "month",
		"1 year":  "month",
	}
	for bucket, want := range tests {
		if got := truncInterval(bucket); got != want {
			t.Errorf("truncInterval(%q) = %q, want %q", bucket, got, want)
		}
	}
}

// TestNotFound verifies missing rows map to ErrNotFound and other errors do not.
func TestNotFound(t *testing.T) {
	if err := notFound(pgx.ErrNoRows, "workout"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ErrNoRows mapped to %v", err)
	}
	other := errors.New("connection reset")
	err := notFound(other, "workout")
	if errors.Is(err, ErrNotFound) {
		t.Error("unrelated error mapped to ErrNotFound")
	}
	if !errors.Is(err, other) {
		t.Error("unrelated error not wrapped")
	}
}

// TestIsUniqueViolation verifies the SQLSTATE check.
func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Error("23505 not detected")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation reported as unique")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Error("plain error reported as unique")
	}
}
