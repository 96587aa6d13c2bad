package api

import (
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"stively/internal/models"
)

func reviseApp(user *models.User) *fiber.App {
	app := fiber.New()
	h := NewSubmissionHandler(nil, nil)
	app.Post("/api/submissions/:id/revise", func(c fiber.Ctx) error {
		if user != nil {
			c.Locals("user", user)
		}
		return h.Revise(c)
	})
	return app
}

func TestRevise_EmptyNotesRejected(t *testing.T) {
	// The handler holds no store here, so the rejection must happen
	// before any lookup or state change.
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, Email: "admin@example.com"}
	app := reviseApp(admin)
	path := "/api/submissions/" + uuid.NewString() + "/revise"

	for _, body := range []string{`{"notes":""}`, `{"notes":"   \n\t"}`, `{}`} {
		resp, envelope := postJSON(t, app, path, body)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", body, resp.StatusCode, fiber.StatusBadRequest)
		}
		if envelope["status"] != "error" {
			t.Errorf("%s: envelope status = %v, want error", body, envelope["status"])
		}
	}
}

func TestRevise_Unauthenticated(t *testing.T) {
	app := reviseApp(nil)

	resp, _ := postJSON(t, app, "/api/submissions/"+uuid.NewString()+"/revise", `{"notes":"tighten the intro"}`)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestRevise_InvalidID(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, Email: "admin@example.com"}
	app := reviseApp(admin)

	resp, _ := postJSON(t, app, "/api/submissions/not-a-uuid/revise", `{"notes":"tighten the intro"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
}
