package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"ia-papeleria/internal/model"
	"ia-papeleria/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailStatus(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"not found":    {fmt.Errorf("load: %w", model.ErrProductNotFound), fiber.StatusNotFound},
		"duplicate":    {service.ErrDuplicateProduct, fiber.StatusConflict},
		"sold":         {fmt.Errorf("%w: Regla has 2", service.ErrProductHasSales), fiber.StatusConflict},
		"stock":        {&model.StockError{Product: "Regla", Available: 1, Requested: 4}, fiber.StatusConflict},
		"invalid":      {fmt.Errorf("%w: bad", service.ErrInvalidRequest), fiber.StatusBadRequest},
		"unclassified": {errors.New("disk full"), fiber.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return fail(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		since, err := querySince(c, "since")
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		out := fiber.Map{"days": queryInt(c, "days", 7)}
		if since != nil {
			out["since"] = since.Format("2006-01-02")
		}
		return c.JSON(out)
	})

	cases := []struct {
		query  string
		status int
		body   string
	}{
		{"", 200, `{"days":7}`},
		{"?days=30", 200, `{"days":30}`},
		{"?days=-2", 200, `{"days":7}`},
		{"?days=abc", 200, `{"days":7}`},
		{"?since=2024-03-01", 200, `{"days":7,"since":"2024-03-01"}`},
		{"?since=2024-03-01T10:00:00Z", 200, `{"days":7,"since":"2024-03-01"}`},
		{"?since=yesterday", 400, ""},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.query)
		if tc.body != "" {
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.JSONEq(t, tc.body, string(raw), tc.query)
		}
	}
}
