package log

import (
	"bytes"
	"encoding/json"
	stdlog "log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func capture(t *testing.T, fn func()) []Entry {
	t.Helper()
	var buf bytes.Buffer
	oldW, oldFlags := stdlog.Writer(), stdlog.Flags()
	stdlog.SetOutput(&buf)
	stdlog.SetFlags(0)
	defer func() {
		stdlog.SetOutput(oldW)
		stdlog.SetFlags(oldFlags)
	}()
	fn()

	var out []Entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		out = append(out, e)
	}
	return out
}

func TestEntryCarriesRequestAndUser(t *testing.T) {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("requestid", "rid-1")
		c.Locals("user", &domain.User{ID: "u-staff", IsStaff: true})
		Denied(c, "order", map[string]any{"order_id": "o1"})
		Error(c, "orders.view.fail", domain.NotFound("order o1 not found"), nil)
		return c.SendStatus(fiber.StatusNoContent)
	})

	entries := capture(t, func() {
		_, err := app.Test(httptest.NewRequest("GET", "/x", nil))
		require.NoError(t, err)
	})
	require.Len(t, entries, 2)

	d := entries[0]
	assert.Equal(t, LevelWarn, d.Level)
	assert.Equal(t, "access.denied.order", d.Action)
	assert.Equal(t, "rid-1", d.ReqID)
	assert.Equal(t, "u-staff", d.UserID)
	assert.True(t, d.Staff)
	assert.Equal(t, "/x", d.Path)
	assert.Equal(t, "o1", d.Fields["order_id"])

	e := entries[1]
	assert.Equal(t, LevelError, e.Level)
	assert.Equal(t, domain.KindNotFound, e.Kind)
	assert.Equal(t, "order o1 not found", e.Err)
}

func TestEntryWithoutContext(t *testing.T) {
	entries := capture(t, func() { Audit(nil, "seed", nil) })
	require.Len(t, entries, 1)
	assert.Equal(t, LevelAudit, entries[0].Level)
	assert.Empty(t, entries[0].Path)
}
