// Package fines holds the overdue-fine policy. The same formula backs the
// Go computation used at return time and the set-level SQL used by the
// recalculation worker.
package fines

import "time"

const (
	// GraceDays is the number of days after borrowing before fines accrue.
	GraceDays = 14
	// DailyRate is charged per overdue day, in currency units.
	DailyRate = 1.0
)

// Compute returns the fine owed for a book borrowed at borrowDate and still
// out at the given moment: max(0, wholeDays(at-borrowDate) - grace) * rate.
func Compute(borrowDate, at time.Time) float64 {
	if !at.After(borrowDate) {
		return 0
	}
	days := int(at.Sub(borrowDate) / (24 * time.Hour))
	overdue := days - GraceDays
	if overdue < 0 {
		return 0
	}
	return float64(overdue) * DailyRate
}
