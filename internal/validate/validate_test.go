package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	id, ok := ID("  console-001 ")
	assert.True(t, ok)
	assert.Equal(t, "console-001", id)

	for _, bad := range []string{"", "a b", "../etc", strings.Repeat("x", 65), "id;drop"} {
		_, ok := ID(bad)
		assert.False(t, ok, bad)
	}
}

func TestQtyInRange(t *testing.T) {
	assert.True(t, QtyInRange(1, 1))
	assert.False(t, QtyInRange(0, 1))
	assert.True(t, QtyInRange(0, 0))
	assert.True(t, QtyInRange(1500, 1))
	assert.True(t, QtyInRange(MaxQty, 1))
	assert.False(t, QtyInRange(MaxQty+1, 0))
	assert.False(t, QtyInRange(-1, 0))
}

func TestShippingAddress(t *testing.T) {
	_, ok := ShippingAddress("  ")
	assert.False(t, ok)
	_, ok = ShippingAddress(strings.Repeat("a", 501))
	assert.False(t, ok)
	s, ok := ShippingAddress(" 1 Main St ")
	assert.True(t, ok)
	assert.Equal(t, "1 Main St", s)
}

func TestPassword(t *testing.T) {
	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))
	assert.False(t, Password("Sh0rt!"))
	assert.False(t, Password("NoDigits!!"))
}

func TestEmail(t *testing.T) {
	s, ok := Email("  carol@example.com ")
	assert.True(t, ok)
	assert.Equal(t, "carol@example.com", s)
	_, ok = Email("carol@localhost")
	assert.False(t, ok)
	_, ok = Email("not-an-email")
	assert.False(t, ok)
}
