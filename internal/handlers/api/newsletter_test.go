package api

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestUnsubscribe_RequiresToken(t *testing.T) {
	app := fiber.New()
	h := NewNewsletterHandler(nil, nil, nil)
	app.Get("/api/newsletter/unsubscribe", h.Unsubscribe)

	// No token, and no email fallback either: the address alone must not
	// remove a subscription.
	for _, target := range []string{
		"/api/newsletter/unsubscribe",
		"/api/newsletter/unsubscribe?email=reader@example.com",
	} {
		req, _ := http.NewRequest("GET", target, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", target, resp.StatusCode, fiber.StatusBadRequest)
		}
	}
}
