package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/aqgrid/internal/adapters/http"
)

// captureLog routes the default logger into a buffer for the test's duration.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestAccessLog_StatusFromHandlerError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"plain error", errors.New("json: unsupported value: NaN"), 500},
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "short and stout"), 418},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLog(t)

			app := fiber.New(fiber.Config{DisableStartupMessage: true})
			app.Use(handler.AccessLogMiddleware())
			app.Get("/boom", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("expected response %d, got %d", tc.status, resp.StatusCode)
			}

			var entry struct {
				Level  string `json:"level"`
				Status int    `json:"status"`
				Error  string `json:"error"`
			}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("decode log line %q: %v", buf.String(), err)
			}
			if entry.Status != tc.status {
				t.Errorf("logged status %d, want %d", entry.Status, tc.status)
			}
			if entry.Level != "ERROR" || entry.Error == "" {
				t.Errorf("expected error-level entry with error, got %+v", entry)
			}
		})
	}
}

func TestAccessLog_SuccessStatus(t *testing.T) {
	buf := captureLog(t)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(handler.AccessLogMiddleware())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.Status(fiber.StatusCreated).SendString("ok") })

	if _, err := app.Test(httptest.NewRequest("GET", "/ok", nil), -1); err != nil {
		t.Fatal(err)
	}

	var entry struct {
		Level  string `json:"level"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry.Status != 201 || entry.Level != "INFO" {
		t.Errorf("unexpected entry %+v", entry)
	}
}
