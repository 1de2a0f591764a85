package services

import (
	"strings"

	"github.com/diewo77/quotes-app/internal/models"
	"github.com/diewo77/quotes-app/internal/widgets"
)

// ProductLabel composes the picker label: the product name plus the SKU in
// parentheses when one is set.
func ProductLabel(p models.Product) string {
	if strings.TrimSpace(p.SKU) == "" {
		return p.Name
	}
	return p.Name + " (" + p.SKU + ")"
}

// FilterCatalog returns the products whose composed label contains query,
// case-insensitively, in original catalog order (stable filter, no
// re-ranking). An empty query returns the full catalog unfiltered.
func FilterCatalog(products []models.Product, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	var out []models.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(ProductLabel(p)), q) {
			out = append(out, p)
		}
	}
	return out
}

// CatalogPaletteItems adapts the catalog for the command palette widget.
func CatalogPaletteItems(products []models.Product) []widgets.PaletteItem {
	items := make([]widgets.PaletteItem, 0, len(products))
	for _, p := range products {
		items = append(items, widgets.PaletteItem{ID: p.ID, Label: ProductLabel(p)})
	}
	return items
}
