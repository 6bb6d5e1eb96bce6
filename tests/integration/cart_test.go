//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func newSession() string {
	return "it-" + uuid.New().String()
}

func addItem(t *testing.T, sessionID string, body map[string]any) cartResponse {
	t.Helper()

	resp := doReq(t, http.MethodPost, "/api/cart/items", sessionID, body, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d", resp.StatusCode)
	}
	return decodeJSON[cartResponse](t, resp)
}

func TestCart_AddAndGet(t *testing.T) {
	sid := newSession()

	cart := addItem(t, sid, map[string]any{
		"productId": 1,
		"name":      "Oversized Tee Black",
		"size":      "M",
		"price_inr": 999,
		"price_usd": 14,
	})
	if cart.Count != 1 {
		t.Fatalf("count: got %d, want 1", cart.Count)
	}

	resp := doSessionGet(t, "/api/cart", sid)
	defer resp.Body.Close()

	cart = decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Price.Currency != "INR" {
		t.Errorf("currency: got %q, want INR", cart.Items[0].Price.Currency)
	}
	if cart.Items[0].Price.Amount != 999 {
		t.Errorf("price: got %v, want 999", cart.Items[0].Price.Amount)
	}
}

func TestCart_MergeSameLine(t *testing.T) {
	sid := newSession()
	line := map[string]any{"productId": 1, "size": "M", "price_inr": 999}

	addItem(t, sid, line)
	cart := addItem(t, sid, line)

	if len(cart.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Qty != 2 {
		t.Errorf("qty: got %d, want 2", cart.Items[0].Qty)
	}
	if cart.Count != 2 {
		t.Errorf("count: got %d, want 2", cart.Count)
	}
	if cart.Items[0].LineTotal.Amount != 1998 {
		t.Errorf("lineTotal: got %v, want 1998", cart.Items[0].LineTotal.Amount)
	}
}

func TestCart_SizesAreDistinctLines(t *testing.T) {
	sid := newSession()

	addItem(t, sid, map[string]any{"productId": 1, "size": "M", "price_inr": 999})
	cart := addItem(t, sid, map[string]any{"productId": 1, "size": "L", "price_inr": 999})

	if len(cart.Items) != 2 {
		t.Fatalf("items: got %d, want 2", len(cart.Items))
	}
	if cart.Count != 2 {
		t.Errorf("count: got %d, want 2", cart.Count)
	}
}

func TestCart_RegionSwitchRepricesLines(t *testing.T) {
	sid := newSession()

	addItem(t, sid, map[string]any{
		"productId": 1,
		"size":      "M",
		"price_inr": 999,
		"price_usd": 14,
	})

	resp := doSessionGet(t, "/api/cart?region=US", sid)
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Price.Currency != "USD" {
		t.Errorf("currency: got %q, want USD", cart.Items[0].Price.Currency)
	}
	if cart.Items[0].Price.Amount != 14 {
		t.Errorf("price: got %v, want 14", cart.Items[0].Price.Amount)
	}
	if len(cart.Totals) != 1 || cart.Totals[0].Currency != "USD" {
		t.Fatalf("totals: got %+v, want a single USD total", cart.Totals)
	}
}

func TestCart_RemoveLine(t *testing.T) {
	sid := newSession()

	addItem(t, sid, map[string]any{"productId": 1, "size": "M", "price_inr": 999})
	addItem(t, sid, map[string]any{"productId": 1, "size": "L", "price_inr": 999})

	resp := doReq(t, http.MethodDelete, "/api/cart/items", sid,
		map[string]any{"productId": 1, "size": "M"}, nil)
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Size != "L" {
		t.Errorf("remaining size: got %q, want L", cart.Items[0].Size)
	}
}

func TestCart_Clear(t *testing.T) {
	sid := newSession()

	addItem(t, sid, map[string]any{"productId": 1, "size": "M", "price_inr": 999})

	resp := doReq(t, http.MethodDelete, "/api/cart", sid, nil, nil)
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 0 || cart.Count != 0 {
		t.Fatalf("cart not empty after clear: %+v", cart)
	}
}

func TestCart_InvalidAddIgnored(t *testing.T) {
	sid := newSession()

	// Missing size: the add is silently rejected, cart stays empty.
	cart := addItem(t, sid, map[string]any{"productId": 1, "price_inr": 999})
	if len(cart.Items) != 0 {
		t.Fatalf("items: got %d, want 0", len(cart.Items))
	}
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	first, second := newSession(), newSession()

	addItem(t, first, map[string]any{"productId": 1, "size": "M", "price_inr": 999})

	resp := doSessionGet(t, "/api/cart", second)
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 0 {
		t.Fatalf("second session sees %d items, want 0", len(cart.Items))
	}
}

func TestCart_SurvivesRegionSelection(t *testing.T) {
	sid := newSession()

	addItem(t, sid, map[string]any{
		"productId": 1,
		"size":      "M",
		"price_inr": 999,
		"price_usd": 14,
	})

	// Persist a region selection for the session, then read the cart without
	// an explicit region: the stored selection drives pricing.
	resp := doReq(t, http.MethodPut, "/api/region", sid, map[string]any{"region": "US"}, nil)
	resp.Body.Close()

	resp = doSessionGet(t, "/api/cart", sid)
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Price.Currency != "USD" {
		t.Errorf("currency: got %q, want USD", cart.Items[0].Price.Currency)
	}
}
