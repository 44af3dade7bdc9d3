package cart

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeAppWithCartHandler(cHandler *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	cHandler.RegisterProtectedRoutes(app)
	return app
}

func newTestCartApp(seed []Cart) *fiber.App {
	service := NewService(NewInMemoryRepository(seed), catalog(), nil)
	return makeAppWithCartHandler(NewHandler(service))
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, userID int) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(userID))
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("invalid json from %s %s: %s", method, path, raw)
		}
	}
	return res.StatusCode, out
}

func TestCartRoutes_Basic(t *testing.T) {
	app := newTestCartApp(nil)

	// ensure routes registered
	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{
		"GET /api/v1/cart",
		"POST /api/v1/cart",
		"PATCH /api/v1/cart",
		"DELETE /api/v1/cart",
		"DELETE /api/v1/cart/:productId<[0-9]+>",
		"POST /api/v1/cart/swap",
	} {
		if !routes[want] {
			t.Fatalf("expected route %q to be registered", want)
		}
	}

	// unauthorized access should be blocked
	status, _ := doJSON(t, app, "GET", "/api/v1/cart", "", 0)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", status)
	}
	status, _ = doJSON(t, app, "POST", "/api/v1/cart", `{"product_id":1}`, 0)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated POST, got %d", status)
	}

	// empty cart for a new user
	status, body := doJSON(t, app, "GET", "/api/v1/cart", "", 7)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["cart_eco_score"].(float64) != 0 || body["item_count"].(float64) != 0 {
		t.Fatalf("unexpected empty cart %v", body)
	}
	if items := body["items"].([]any); len(items) != 0 {
		t.Fatalf("expected no items, got %v", items)
	}
}

func TestCartRoutes_AddUpdateRemove(t *testing.T) {
	app := newTestCartApp(nil)

	status, body := doJSON(t, app, "POST", "/api/v1/cart", `{"product_id":1,"quantity":2}`, 42)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 on add, got %d (%v)", status, body)
	}
	status, body = doJSON(t, app, "POST", "/api/v1/cart", `{"product_id":3}`, 42)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 on add, got %d", status)
	}
	// (40*2 + 90) / 3 = 56.67
	if body["cart_eco_score"].(float64) != 57 {
		t.Fatalf("expected cart score 57, got %v", body["cart_eco_score"])
	}
	if body["item_count"].(float64) != 3 {
		t.Fatalf("expected 3 items, got %v", body["item_count"])
	}

	status, body = doJSON(t, app, "PATCH", "/api/v1/cart", `{"product_id":1,"quantity":1}`, 42)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 on patch, got %d", status)
	}
	if body["cart_eco_score"].(float64) != 65 {
		t.Fatalf("expected cart score 65, got %v", body["cart_eco_score"])
	}

	status, body = doJSON(t, app, "DELETE", "/api/v1/cart/3", "", 42)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", status)
	}
	if body["cart_eco_score"].(float64) != 40 {
		t.Fatalf("expected cart score 40, got %v", body["cart_eco_score"])
	}

	status, _ = doJSON(t, app, "DELETE", "/api/v1/cart/3", "", 42)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 removing a missing line, got %d", status)
	}

	status, body = doJSON(t, app, "DELETE", "/api/v1/cart", "", 42)
	if status != fiber.StatusOK || body["item_count"].(float64) != 0 {
		t.Fatalf("expected cleared cart, got %d %v", status, body)
	}
}

func TestCartRoutes_Validation(t *testing.T) {
	app := newTestCartApp(nil)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{"POST", "/api/v1/cart", `{"quantity":1}`, fiber.StatusBadRequest},
		{"POST", "/api/v1/cart", `{"product_id":1,"quantity":0}`, fiber.StatusBadRequest},
		{"POST", "/api/v1/cart", `{"product_id":999}`, fiber.StatusNotFound},
		{"PATCH", "/api/v1/cart", `{"product_id":1}`, fiber.StatusBadRequest},
		{"PATCH", "/api/v1/cart", `{"product_id":1,"quantity":2}`, fiber.StatusNotFound},
		{"POST", "/api/v1/cart/swap", `{"old_product_id":1}`, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		status, body := doJSON(t, app, tc.method, tc.path, tc.body, 5)
		if status != tc.want {
			t.Fatalf("%s %s %s: expected %d, got %d (%v)", tc.method, tc.path, tc.body, tc.want, status, body)
		}
		if _, ok := body["message"]; !ok {
			t.Fatalf("%s %s: expected message in error body, got %v", tc.method, tc.path, body)
		}
	}
}

func TestCartRoutes_Swap(t *testing.T) {
	app := newTestCartApp([]Cart{{
		UserID:  42,
		Items:   []Line{{ProductID: 1, Quantity: 2, LockedPrice: 100, EcoScoreSnapshot: 40}},
		Version: 1,
	}})

	status, body := doJSON(t, app, "POST", "/api/v1/cart/swap", `{"old_product_id":1,"new_product_id":3}`, 42)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for a cross-category swap, got %d (%v)", status, body)
	}

	status, _ = doJSON(t, app, "POST", "/api/v1/cart/swap", `{"old_product_id":2,"new_product_id":1}`, 42)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 when the old product is not in the cart, got %d", status)
	}

	status, body = doJSON(t, app, "POST", "/api/v1/cart/swap", `{"old_product_id":1,"new_product_id":2}`, 42)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 on swap, got %d (%v)", status, body)
	}
	if body["message"] != "Product swapped successfully" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	cart := body["cart"].(map[string]any)
	if cart["cart_eco_score"].(float64) != 85 {
		t.Fatalf("expected cart score 85 after swap, got %v", cart["cart_eco_score"])
	}
	line := cart["items"].([]any)[0].(map[string]any)
	if line["product_id"].(float64) != 2 || line["quantity"].(float64) != 2 || line["locked_price"].(float64) != 110 {
		t.Fatalf("unexpected swapped line %v", line)
	}
	if cart["version"].(float64) != 2 {
		t.Fatalf("expected version 2, got %v", cart["version"])
	}
}
