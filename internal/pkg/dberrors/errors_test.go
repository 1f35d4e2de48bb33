package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	wrap := func(code, constraint string) error {
		return fmt.Errorf("error writing documents: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"duplicate leaf", wrap(CodeUniqueViolation, "documents_pkey"), true},
		{"other constraint", wrap(CodeUniqueViolation, "users_email_key"), false},
		{"serialization failure", wrap(CodeSerializationFailure, ""), true},
		{"deadlock", wrap(CodeDeadlockDetected, ""), true},
		{"syntax error", wrap("42601", ""), false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err, "documents_pkey"))
		})
	}
}
