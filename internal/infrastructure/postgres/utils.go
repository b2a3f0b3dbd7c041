package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullString convierte "" a NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullClock serializa la hora del movimiento como "HH:MM:SS" (NULL si no se
// registró hora).
func nullClock(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format("15:04:05")
	return &s
}

// parseClock combina la fecha del movimiento con su hora "HH:MM:SS".
func parseClock(clock string, day time.Time) time.Time {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		return time.Time{}
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, day.Location())
}
