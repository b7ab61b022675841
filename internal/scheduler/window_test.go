package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveWindow(t *testing.T) {
	cases := []struct {
		name       string
		start, end *time.Time
		qs, qe     time.Time
		want       *Window
	}{
		{"plan inside query", ptr(d(2024, 2, 1)), ptr(d(2024, 2, 10)), d(2024, 1, 1), d(2024, 3, 1),
			&Window{d(2024, 2, 1), d(2024, 2, 10)}},
		{"query inside plan", ptr(d(2024, 1, 1)), ptr(d(2024, 12, 31)), d(2024, 5, 1), d(2024, 5, 7),
			&Window{d(2024, 5, 1), d(2024, 5, 7)}},
		{"open end", ptr(d(2024, 1, 1)), nil, d(2023, 12, 1), d(2024, 1, 3),
			&Window{d(2024, 1, 1), d(2024, 1, 3)}},
		{"open start", nil, ptr(d(2024, 1, 10)), d(2024, 1, 5), d(2024, 2, 1),
			&Window{d(2024, 1, 5), d(2024, 1, 10)}},
		{"single day", ptr(d(2024, 1, 10)), ptr(d(2024, 1, 10)), d(2024, 1, 1), d(2024, 1, 31),
			&Window{d(2024, 1, 10), d(2024, 1, 10)}},
		{"disjoint", ptr(d(2024, 1, 1)), ptr(d(2024, 1, 31)), d(2024, 2, 1), d(2024, 2, 28), nil},
		{"inverted query", ptr(d(2024, 1, 1)), ptr(d(2024, 12, 31)), d(2024, 3, 1), d(2024, 2, 1), nil},
		{"zero query bound", ptr(d(2024, 1, 1)), nil, time.Time{}, d(2024, 2, 1), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := rulePlan(nil, tc.start, tc.end)
			got, ok := EffectiveWindow(p, tc.qs, tc.qe).Get()
			if tc.want == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, *tc.want, got)
		})
	}
}

func TestEffectiveWindow_NilPlan(t *testing.T) {
	assert.True(t, EffectiveWindow(nil, d(2024, 1, 1), d(2024, 1, 2)).IsAbsent())
}

func TestWindow_DaysAndContains(t *testing.T) {
	w := Window{Start: d(2024, 2, 28), End: d(2024, 3, 1)}
	assert.Equal(t, 3, w.Days())
	assert.True(t, w.Contains(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(d(2024, 3, 2)))
	assert.Equal(t, 1, Window{Start: d(2024, 1, 1), End: d(2024, 1, 1)}.Days())
}
