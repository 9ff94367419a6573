package models

import "errors"

// Entity is implemented by the pointer types of every record that carries a
// store-generated identity and an optional owning user.
type Entity interface {
	GetID() uint64
	SetID(id uint64)
	// EntityName is the lower-case singular name used in error payloads and cache keys.
	EntityName() string
	// AssignedUserID returns the referenced user id, if any.
	AssignedUserID() *uint64
}

// EntityPtr constrains a type parameter to the pointer of a concrete entity struct.
type EntityPtr[T any] interface {
	*T
	Entity
}

var (
	ErrInvalidTimerStatus = errors.New("invalid timer status")
	ErrInvalidTreeType    = errors.New("invalid tree type")
)

// sameIdentity implements the identity rule shared by all entities: two
// records are equal only when both have been assigned the same id.
func sameIdentity(a, b uint64) bool {
	return a != 0 && a == b
}
