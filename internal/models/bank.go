package models

import (
	"fmt"
)

// Bank records how many trees a user owns.
type Bank struct {
	ID           uint64  `gorm:"primarykey" json:"id"`
	TreesOwned   *int    `json:"treesOwned"`
	AssignedToID *uint64 `gorm:"uniqueIndex" json:"assignedToId,omitempty"`

	// Relations
	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
}

func (b *Bank) GetID() uint64           { return b.ID }
func (b *Bank) SetID(id uint64)         { b.ID = id }
func (b *Bank) EntityName() string      { return "bank" }
func (b *Bank) AssignedUserID() *uint64 { return b.AssignedToID }

// WithTreesOwned sets the owned tree count and returns the bank.
func (b *Bank) WithTreesOwned(n int) *Bank {
	b.TreesOwned = &n
	return b
}

// WithAssignedTo links the bank to user, or clears the link when user is nil.
func (b *Bank) WithAssignedTo(user *User) *Bank {
	b.AssignedTo = user
	b.AssignedToID = nil
	if user != nil {
		id := user.ID
		b.AssignedToID = &id
	}
	return b
}

// Equal reports whether both banks have been persisted under the same id.
func (b *Bank) Equal(other *Bank) bool {
	if b == nil || other == nil {
		return false
	}
	if b == other {
		return true
	}
	return sameIdentity(b.ID, other.ID)
}

func (b *Bank) String() string {
	return fmt.Sprintf("Bank{id=%d, treesOwned=%s}", b.ID, formatInt(b.TreesOwned))
}

func formatInt(v *int) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(*v)
}
