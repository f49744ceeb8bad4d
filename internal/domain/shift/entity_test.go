package shift

import (
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowHours(t *testing.T) {
	tests := []struct {
		start, end string
		want       float64
	}{
		{"08:00", "16:00", 8},
		{"22:00", "06:00", 8},
		{"09:00", "09:00", 24},
		{"08:00", "08:20", 0.33},
	}

	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			got, err := WindowHours(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoveragePercent(t *testing.T) {
	assert.Equal(t, 70.0, CoveragePercent(7, 10))
	assert.Equal(t, 100.0, CoveragePercent(12, 10))
	assert.Equal(t, 33.3, CoveragePercent(1, 3))
	assert.Zero(t, CoveragePercent(0, 10))
	assert.Zero(t, CoveragePercent(3, 0))
}

func TestUpdateShiftRequest_Apply(t *testing.T) {
	current := Shift{
		ID:            "shift-1",
		Code:          "MOR",
		Name:          "Morning",
		Type:          ShiftTypeMorning,
		StartTime:     "08:00",
		EndTime:       "16:00",
		DurationHours: 8,
		MaxEmployees:  5,
	}

	t.Run("moving the window recomputes duration", func(t *testing.T) {
		start := "10:00"
		req := UpdateShiftRequest{StartTime: &start}

		merged, err := req.Apply(current)

		require.NoError(t, err)
		assert.Equal(t, 6.0, merged.DurationHours)
		assert.Equal(t, "shift-1", merged.ID)
	})

	t.Run("explicit duration must match", func(t *testing.T) {
		duration := 5.0
		req := UpdateShiftRequest{DurationHours: &duration}

		_, err := req.Apply(current)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "duration_hours")
	})

	t.Run("capacity below one", func(t *testing.T) {
		capacity := 0
		req := UpdateShiftRequest{MaxEmployees: &capacity}

		_, err := req.Apply(current)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "max_employees")
	})

	t.Run("blank code is rejected", func(t *testing.T) {
		code := "  "
		req := UpdateShiftRequest{Code: &code}

		_, err := req.Apply(current)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "must not be empty", verrs.ToMap()["code"])
	})

	t.Run("omitted code is kept", func(t *testing.T) {
		name := "Early"
		req := UpdateShiftRequest{Name: &name}

		merged, err := req.Apply(current)

		require.NoError(t, err)
		assert.Equal(t, "MOR", merged.Code)
		assert.Equal(t, "Early", merged.Name)
	})
}
