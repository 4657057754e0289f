package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// nullText maps a nil or empty string pointer to SQL NULL
func nullText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// textPtr maps SQL NULL back to a nil pointer
func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
