package db

import (
  "fmt"
  "testing"

  "github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
  dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
  if !IsUniqueViolation(dup) {
    t.Fatalf("expected code 23505 to be a unique violation")
  }
  if !IsUniqueViolation(fmt.Errorf("Failed to create user in postgres: %w", dup)) {
    t.Fatalf("expected wrapped pg error to be recognized")
  }
  if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
    t.Fatalf("foreign key violation is not a unique violation")
  }
  if IsUniqueViolation(fmt.Errorf("plain error")) {
    t.Fatalf("plain error is not a unique violation")
  }
  if IsUniqueViolation(nil) {
    t.Fatalf("nil is not a unique violation")
  }
}
