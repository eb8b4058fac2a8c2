package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "nil", err: nil, expected: ""},
		{name: "plain error", err: errors.New("boom"), expected: ""},
		{name: "sold out time", err: SoldOutTime("2025-12-24", "14:00"), expected: KindSoldOutTime},
		{name: "wrapped persistence", err: fmt.Errorf("confirm: %w", Persistence(errors.New("db down"))), expected: KindPersistence},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, KindOf(tc.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := PaymentCapturedNotRecorded("pi_123", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindPersistence))
	assert.Equal(t, true, err.Data["payment_captured"])
	assert.Equal(t, "persistence_error: Payment captured but order not recorded, contact support: connection refused", err.Error())
}

func TestSoldOutDayHasNoCause(t *testing.T) {
	err := SoldOutDay("2025-12-24")

	assert.Nil(t, errors.Unwrap(err))
	assert.Equal(t, "sold_out_day: Selected day is sold out", err.Error())
}
