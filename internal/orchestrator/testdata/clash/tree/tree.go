// Package tree holds two instantiations of one recursive generic.
package tree

import (
	"github.com/griffnb/core-schemagen/internal/orchestrator/testdata/clash/a"
	"github.com/griffnb/core-schemagen/internal/orchestrator/testdata/clash/b"
)

// Node is a recursive generic tree.
type Node[T any] struct {
	Value    T         `json:"value"`
	Children []Node[T] `json:"children"`
}

// Root holds a tree per warehouse.
type Root struct {
	A Node[a.Item] `json:"a"`
	B Node[b.Item] `json:"b"`
}
