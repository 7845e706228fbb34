// Package a declares an Item that clashes with package b.
package a

// Item is stocked by warehouse a.
type Item struct {
	SKU string `json:"sku"`
}
