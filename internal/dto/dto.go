package dto

import (
	"github.com/yukikurage/tree-api/internal/models"
)

// Payload is implemented by request bodies that decode into an entity
type Payload[T any] interface {
	// Identity returns the id sent by the client, nil when absent or null
	Identity() *uint64
	ToModel() *T
}

// UserDTO represents a user in API responses. Login is only present when the
// user was loaded together with the entity referencing it.
type UserDTO struct {
	ID    uint64 `json:"id"`
	Login string `json:"login,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Login: user.Login,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDTO(u))
	}
	return out
}

// toAssignedTo includes the full user if preloaded, otherwise only its id.
func toAssignedTo(id *uint64, user *models.User) *UserDTO {
	if user != nil && user.ID != 0 {
		dto := ToUserDTO(*user)
		return &dto
	}
	if id != nil {
		return &UserDTO{ID: *id}
	}
	return nil
}

func assignedToID(user *UserDTO) *uint64 {
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}

func idPtr(id uint64) *uint64 {
	return &id
}

func idValue(id *uint64) uint64 {
	if id == nil {
		return 0
	}
	return *id
}

// ToDTOs converts entities with convert, keeping an empty list as [] in JSON
func ToDTOs[T any, D any](items []T, convert func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}
