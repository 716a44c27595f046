package fines_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/librisys/librisys/internal/fines"
)

func TestCompute(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		borrowDate time.Time
		want       float64
	}{
		{
			name:       "20 days out accrues 6",
			borrowDate: now.AddDate(0, 0, -20),
			want:       6,
		},
		{
			name:       "within grace period",
			borrowDate: now.AddDate(0, 0, -5),
			want:       0,
		},
		{
			name:       "grace boundary exactly 14 days",
			borrowDate: now.AddDate(0, 0, -14),
			want:       0,
		},
		{
			name:       "first overdue day",
			borrowDate: now.AddDate(0, 0, -15),
			want:       1,
		},
		{
			name:       "borrowed just now",
			borrowDate: now,
			want:       0,
		},
		{
			name:       "partial day does not count",
			borrowDate: now.AddDate(0, 0, -15).Add(time.Hour),
			want:       0,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, fines.Compute(tt.borrowDate, now))
		})
	}
}

func TestComputeIdempotent(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	borrowDate := now.AddDate(0, 0, -30)

	first := fines.Compute(borrowDate, now)
	second := fines.Compute(borrowDate, now)
	require.Equal(t, first, second)
	require.Equal(t, float64(16), first)
}
