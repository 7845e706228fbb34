// Package b declares an Item that clashes with package a.
package b

// Item is stocked by warehouse b.
type Item struct {
	Code int64 `json:"code"`
}
