package log

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelAudit Level = "audit"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is one JSON log line. Request attributes are filled from the fiber
// context when there is one.
type Entry struct {
	TS     string         `json:"ts"`
	Level  Level          `json:"level"`
	ReqID  string         `json:"req_id,omitempty"`
	IP     string         `json:"ip,omitempty"`
	Method string         `json:"method,omitempty"`
	Path   string         `json:"path,omitempty"`
	UserID string         `json:"user_id,omitempty"`
	Staff  bool           `json:"staff,omitempty"`
	Action string         `json:"action,omitempty"`
	Status int            `json:"status,omitempty"`
	Kind   domain.Kind    `json:"kind,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

func fromCtx(level Level, c *fiber.Ctx, action string, fields map[string]any) Entry {
	e := Entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, Action: action, Fields: fields}
	if c == nil {
		return e
	}
	e.IP, e.Method, e.Path = c.IP(), c.Method(), c.Path()
	e.Status = c.Response().StatusCode()
	if rid, ok := c.Locals("requestid").(string); ok {
		e.ReqID = rid
	}
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		e.UserID = u.ID
		e.Staff = u.IsStaff || u.IsSuperuser
	}
	return e
}

func emit(e Entry) {
	b, err := json.Marshal(e)
	if err != nil {
		log.Printf(`{"level":"error","action":"log.encode","err":%q}`, err.Error())
		return
	}
	log.Println(string(b))
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	emit(fromCtx(LevelInfo, c, action, fields))
}

// Audit records a successful state change.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	emit(fromCtx(LevelAudit, c, action, fields))
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	emit(fromCtx(LevelWarn, c, action, fields))
}

// Denied logs a refused access as access.denied.<scope>.
func Denied(c *fiber.Ctx, scope string, fields map[string]any) {
	Security(c, "access.denied."+scope, fields)
}

// Error logs err; business failures carry their kind.
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := fromCtx(LevelError, c, action, fields)
	if err != nil {
		e.Err = err.Error()
		e.Kind = domain.KindOf(err)
	}
	emit(e)
}
