package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	errShiftNotFound := NotFound("shift not found")
	errNoCheckIn := Dependency("no check-in recorded")

	wrapped := fmt.Errorf("failed to update shift: %w", errShiftNotFound)

	assert.True(t, errors.Is(wrapped, errShiftNotFound))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrDependency))

	assert.Equal(t, ErrNotFound, Kind(wrapped))
	assert.Equal(t, ErrDependency, Kind(errNoCheckIn))
	assert.Equal(t, ErrConflict, Kind(Conflict("duplicate")))
	assert.Nil(t, Kind(errors.New("boom")))
}

func TestWrapf(t *testing.T) {
	assert.Nil(t, Wrapf(nil, "ignored"))

	err := Wrapf(ErrConflict, "payroll %s", "p-1")
	assert.EqualError(t, err, "payroll p-1: conflict")
	assert.ErrorIs(t, err, ErrConflict)
}
