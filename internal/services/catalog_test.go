package services

import (
	"testing"

	"github.com/diewo77/quotes-app/internal/models"
)

func sampleCatalog() []models.Product {
	return []models.Product{
		{ID: 1, Name: "USB-C Cable", SKU: "USB-100", UnitPrice: 12.5},
		{ID: 2, Name: "HDMI Cable", UnitPrice: 8},
		{ID: 3, Name: "Laptop Stand", SKU: "LS-1", UnitPrice: 30},
		{ID: 4, Name: "Hub usb", UnitPrice: 20},
	}
}

func TestProductLabel(t *testing.T) {
	cat := sampleCatalog()
	if got := ProductLabel(cat[0]); got != "USB-C Cable (USB-100)" {
		t.Fatalf("got %q", got)
	}
	if got := ProductLabel(cat[1]); got != "HDMI Cable" {
		t.Fatalf("sku-less label must be the bare name, got %q", got)
	}
}

func TestFilterCatalogCaseInsensitiveSubstring(t *testing.T) {
	got := FilterCatalog(sampleCatalog(), "usb")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(got), got)
	}
	// stable filter: catalog order preserved, no re-ranking
	if got[0].ID != 1 || got[1].ID != 4 {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestFilterCatalogMatchesSKUSuffix(t *testing.T) {
	got := FilterCatalog(sampleCatalog(), "ls-1")
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected SKU match, got %v", got)
	}
}

func TestFilterCatalogEmptyQuery(t *testing.T) {
	cat := sampleCatalog()
	if got := FilterCatalog(cat, "  "); len(got) != len(cat) {
		t.Fatalf("empty query must return the full catalog, got %d", len(got))
	}
}

func TestCatalogPaletteItems(t *testing.T) {
	items := CatalogPaletteItems(sampleCatalog())
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if items[0].ID != 1 || items[0].Label != "USB-C Cable (USB-100)" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}
