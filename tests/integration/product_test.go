//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 6 {
		t.Fatalf("expected 6 products, got %d", len(products))
	}
}

func TestListProducts_DefaultRegionPricing(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)

	tee := findBySlug(products, "oversized-tee-black")
	if tee == nil {
		t.Fatal("product oversized-tee-black not found")
	}
	if tee.Name != "Oversized Tee Black" {
		t.Errorf("name: got %q, want %q", tee.Name, "Oversized Tee Black")
	}
	if !tee.BestSeller {
		t.Error("bestSeller: got false, want true")
	}
	if tee.Price.Currency != "INR" {
		t.Errorf("currency: got %q, want INR", tee.Price.Currency)
	}
	if tee.Price.Amount != 999 {
		t.Errorf("price: got %v, want 999", tee.Price.Amount)
	}
	if tee.Price.Formatted != "₹999" {
		t.Errorf("formatted: got %q, want %q", tee.Price.Formatted, "₹999")
	}
	if len(tee.Sizes) != 4 {
		t.Errorf("sizes: got %d, want 4", len(tee.Sizes))
	}
	if len(tee.Images) == 0 || tee.Images[0] == "" {
		t.Error("images: empty")
	}
}

func TestListProducts_USRegionPricing(t *testing.T) {
	resp := doGet(t, "/api/products?region=US")
	defer resp.Body.Close()

	products := decodeJSON[[]productResponse](t, resp)

	tee := findBySlug(products, "oversized-tee-black")
	if tee == nil {
		t.Fatal("product oversized-tee-black not found")
	}
	if tee.Price.Currency != "USD" {
		t.Errorf("currency: got %q, want USD", tee.Price.Currency)
	}
	if tee.Price.Amount != 14 {
		t.Errorf("price: got %v, want 14", tee.Price.Amount)
	}

	// A product with no USD price falls back to INR even in the US region.
	crop := findBySlug(products, "boxy-crop-top-lilac")
	if crop == nil {
		t.Fatal("product boxy-crop-top-lilac not found")
	}
	if crop.Price.Currency != "INR" {
		t.Errorf("crop currency: got %q, want INR", crop.Price.Currency)
	}
	if crop.Price.Amount != 799 {
		t.Errorf("crop price: got %v, want 799", crop.Price.Amount)
	}
}

func TestListProducts_DiscountBadge(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	products := decodeJSON[[]productResponse](t, resp)

	tee := findBySlug(products, "oversized-tee-black")
	if tee == nil {
		t.Fatal("product oversized-tee-black not found")
	}
	if tee.MRP == nil {
		t.Fatal("mrp: missing")
	}
	if tee.MRP.Amount != 1499 {
		t.Errorf("mrp: got %v, want 1499", tee.MRP.Amount)
	}
	if tee.DiscountPercent == nil || *tee.DiscountPercent != 33 {
		t.Errorf("discountPercent: got %v, want 33", tee.DiscountPercent)
	}

	// Zero MRP means "not set": no badge at all.
	monsoon := findBySlug(products, "graphic-tee-monsoon")
	if monsoon == nil {
		t.Fatal("product graphic-tee-monsoon not found")
	}
	if monsoon.MRP != nil {
		t.Errorf("mrp: got %v, want absent", monsoon.MRP)
	}
	if monsoon.DiscountPercent != nil {
		t.Errorf("discountPercent: got %v, want absent", monsoon.DiscountPercent)
	}
}

func TestListProducts_CategoryFilter(t *testing.T) {
	resp := doGet(t, "/api/products?category=hoodies")
	defer resp.Body.Close()

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 1 {
		t.Fatalf("expected 1 hoodie, got %d", len(products))
	}
	if products[0].Slug != "relaxed-hoodie-forest" {
		t.Errorf("slug: got %q, want relaxed-hoodie-forest", products[0].Slug)
	}
}

func TestGetProductBySlug(t *testing.T) {
	resp := doGet(t, "/api/products/slug/cargo-joggers-olive")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	product := decodeJSON[productResponse](t, resp)
	if product.Name != "Cargo Joggers Olive" {
		t.Errorf("name: got %q, want %q", product.Name, "Cargo Joggers Olive")
	}
	if product.Price.Amount != 1899 {
		t.Errorf("price: got %v, want 1899", product.Price.Amount)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/999999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Code != 404 {
		t.Errorf("error code: got %d, want 404", errResp.Code)
	}
}
