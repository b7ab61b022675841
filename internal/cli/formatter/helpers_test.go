package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/cadence/internal/domain"
)

func TestStatusPill(t *testing.T) {
	tests := []struct {
		status   domain.PlanStatus
		contains string
	}{
		{domain.PlanOpen, "Open"},
		{domain.PlanCompleted, "Done"},
		{domain.PlanStatus("paused"), "paused"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := StatusPill(tt.status)
			assert.Contains(t, got, tt.contains)
		})
	}
}

func TestTruncID(t *testing.T) {
	id := "a1b2c3d4-e5f6-7890-abcd-ef1234567890"
	got := TruncID(id)
	assert.Contains(t, got, "a1b2c3d4")
	assert.NotContains(t, got, "e5f6")

	// Short IDs should be returned as-is (dimmed)
	got = TruncID("short")
	assert.Contains(t, got, "short")
}

func TestFormatDate(t *testing.T) {
	d := domain.Date(2024, 2, 29)
	assert.Equal(t, "2024-02-29", FormatDate(&d))
	assert.Contains(t, FormatDate(nil), "--")
}

func TestDayLabel(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{domain.Date(2024, 1, 1), "Mon 2024-01-01"},
		{domain.Date(2024, 9, 13), "Fri 2024-09-13"},
		{domain.Date(2023, 12, 31), "Sun 2023-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DayLabel(tt.date))
		})
	}
}

func TestRenderBox(t *testing.T) {
	result := RenderBox("TEST", "content here")
	assert.Contains(t, result, "TEST")
	assert.Contains(t, result, "content here")
	// Should contain rounded border characters
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╰")
}

func TestRenderBoxWithoutTitle(t *testing.T) {
	result := RenderBox("", "just content")
	assert.Contains(t, result, "just content")
	assert.Contains(t, result, "╭")
}
