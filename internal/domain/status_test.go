package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusPending, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusDelivered, StatusDelivered, true},
		{StatusCancelled, StatusCancelled, true},
		{StatusDelivered, StatusShipped, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusPending, "lost", false},
	}
	for _, tc := range cases {
		err := tc.from.CheckTransition(tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.ErrorIs(t, err, ErrValidation, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestCancellable(t *testing.T) {
	for _, s := range OrderStatuses() {
		want := s == StatusPending || s == StatusProcessing
		assert.Equal(t, want, s.Cancellable(), s)
	}
}

func TestParse(t *testing.T) {
	s, ok := ParseOrderStatus("shipped")
	assert.True(t, ok)
	assert.Equal(t, StatusShipped, s)
	_, ok = ParseOrderStatus("SHIPPED")
	assert.False(t, ok)

	m, ok := ParsePaymentMethod("cash_on_delivery")
	assert.True(t, ok)
	assert.Equal(t, PaymentCashOnDelivery, m)
	_, ok = ParsePaymentMethod("")
	assert.False(t, ok)
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("order %s not found", "o1"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("disk on fire")))
	assert.Equal(t, "wrapped: order o1 not found", err.Error())
}
