// Package models is a loader fixture.
package models

import (
	"strconv"
	"time"
)

// Status is the lifecycle state of an account.
type Status string

const (
	// StatusActive accounts can log in.
	StatusActive Status = "active"
	StatusBanned Status = "banned"
	// StatusPending accounts await confirmation.
	StatusPending Status = "pending"
)

// Priority is an integer enum.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityHigh
)

// Base holds audit fields shared by every record.
type Base struct {
	// When the record was created.
	CreatedAt time.Time `json:"created_at"`
	internal  string
}

// User is an account holder.
type User struct {
	Base
	// Unique identifier.
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required,min=2,max=64"`
	Email    string `binding:"required"`
	Password string `json:"-"`
	Secret   string `json:"secret" schemaignore:"true"`
	Status   Status `json:"status"`
	Tags     Tags   `json:"tags,omitempty"`
	Manager  *User  `json:"manager"`
	Avatar   []byte `json:"avatar"`
	note     string
}

// Tags is a named collection.
type Tags []string

// Tree is a self referencing map.
type Tree map[string]Tree

// Page is a generic page of results.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int32 `json:"total"`
}

// Node is a recursive generic tree.
type Node[T any] struct {
	Value    T         `json:"value"`
	Children []Node[T] `json:"children"`
}

// Stamp marshals itself as text.
type Stamp struct {
	unix int64
}

// MarshalText implements encoding.TextMarshaler.
func (s Stamp) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatInt(s.unix, 10)), nil
}

// Directory is a root holding a generic tree.
type Directory struct {
	Root    Node[User]  `json:"root"`
	Users   Page[*User] `json:"users"`
	Level   Priority    `json:"level"`
	Updated Stamp       `json:"updated"`
}

// Account is exposed through its getters.
type Account interface {
	// GetName returns the display name.
	GetName() string
	IsActive() bool
	GetOwner() *User
	Close() error
	GetByID(id int64) *User
}

type hidden struct {
	Value string
}
