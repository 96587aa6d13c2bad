package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeSlugChecker struct {
	taken map[string]bool
}

func (f *fakeSlugChecker) SlugExists(_ context.Context, slug string, _ uuid.UUID) (bool, error) {
	return f.taken[slug], nil
}

func checkSlugApp(taken map[string]bool) *fiber.App {
	app := fiber.New()
	h := &ArticleHandler{slugs: &fakeSlugChecker{taken: taken}}
	app.Post("/api/blogs/check-slug", h.CheckSlug)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	envelope := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("invalid response body %q: %v", raw, err)
		}
	}
	return resp, envelope
}

func TestCheckSlug_InvalidFormatRejected(t *testing.T) {
	app := checkSlugApp(nil)

	// Malformed input is rejected outright, never normalized into an answer.
	for _, body := range []string{`{"slug":"My Slug!"}`, `{"slug":"-leading"}`, `{"slug":"double--hyphen"}`} {
		resp, envelope := postJSON(t, app, "/api/blogs/check-slug", body)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", body, resp.StatusCode, fiber.StatusBadRequest)
		}
		if envelope["status"] != "error" {
			t.Errorf("%s: envelope status = %v, want error", body, envelope["status"])
		}
	}
}

func TestCheckSlug_TakenIsConflict(t *testing.T) {
	app := checkSlugApp(map[string]bool{"harbour-report": true})

	resp, envelope := postJSON(t, app, "/api/blogs/check-slug", `{"slug":"harbour-report"}`)
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusConflict)
	}
	if envelope["status"] != "error" {
		t.Errorf("envelope status = %v, want error", envelope["status"])
	}
}

func TestCheckSlug_Available(t *testing.T) {
	app := checkSlugApp(nil)

	resp, envelope := postJSON(t, app, "/api/blogs/check-slug", `{"slug":"harbour-report"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["available"] != true || data["slug"] != "harbour-report" {
		t.Errorf("data = %v, want available harbour-report", data)
	}
}

func TestCheckSlug_SuggestsFromTitle(t *testing.T) {
	app := checkSlugApp(map[string]bool{"harbour-report": true})

	resp, envelope := postJSON(t, app, "/api/blogs/check-slug", `{"title":"Harbour Report"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["slug"] != "harbour-report-1" {
		t.Errorf("suggested slug = %v, want harbour-report-1", data["slug"])
	}
}

func TestCheckSlug_MissingInput(t *testing.T) {
	app := checkSlugApp(nil)

	resp, _ := postJSON(t, app, "/api/blogs/check-slug", `{}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
}
