package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

type TreeType string

const (
	TreeTypeDogwood   TreeType = "Dogwood"
	TreeTypeWillow    TreeType = "Willow"
	TreeTypePalm      TreeType = "Palm"
	TreeTypeCherry    TreeType = "Cherry"
	TreeTypeCedar     TreeType = "Cedar"
	TreeTypeMahogony  TreeType = "Mahogony"
	TreeTypeCork      TreeType = "Cork"
	TreeTypeMaple     TreeType = "Maple"
	TreeTypeBirch     TreeType = "Birch"
	TreeTypeWalnut    TreeType = "Walnut"
	TreeTypePine      TreeType = "Pine"
	TreeTypeEvergreen TreeType = "Evergreen"
)

// TreeTypes lists every species in declaration order.
var TreeTypes = []TreeType{
	TreeTypeDogwood,
	TreeTypeWillow,
	TreeTypePalm,
	TreeTypeCherry,
	TreeTypeCedar,
	TreeTypeMahogony,
	TreeTypeCork,
	TreeTypeMaple,
	TreeTypeBirch,
	TreeTypeWalnut,
	TreeTypePine,
	TreeTypeEvergreen,
}

func (t TreeType) IsValid() bool {
	for _, v := range TreeTypes {
		if t == v {
			return true
		}
	}
	return false
}

func (t *TreeType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	species := TreeType(raw)
	if !species.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTreeType, raw)
	}
	*t = species
	return nil
}

// Tree is a single planted tree. A user may own many.
type Tree struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Trees        *TreeType `gorm:"type:varchar(20)" json:"trees"`
	AssignedToID *uint64   `gorm:"index" json:"assignedToId,omitempty"`

	// Relations
	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
}

func (t *Tree) GetID() uint64           { return t.ID }
func (t *Tree) SetID(id uint64)         { t.ID = id }
func (t *Tree) EntityName() string      { return "tree" }
func (t *Tree) AssignedUserID() *uint64 { return t.AssignedToID }

func (t *Tree) WithTrees(species TreeType) *Tree {
	t.Trees = &species
	return t
}

func (t *Tree) WithAssignedTo(user *User) *Tree {
	t.AssignedTo = user
	t.AssignedToID = nil
	if user != nil {
		id := user.ID
		t.AssignedToID = &id
	}
	return t
}

// Equal reports whether both trees have been persisted under the same id.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return false
	}
	if t == other {
		return true
	}
	return sameIdentity(t.ID, other.ID)
}

func (t *Tree) BeforeSave(tx *gorm.DB) error {
	if t.Trees != nil && !t.Trees.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTreeType, *t.Trees)
	}
	return nil
}

func (t *Tree) String() string {
	species := "null"
	if t.Trees != nil {
		species = string(*t.Trees)
	}
	return fmt.Sprintf("Tree{id=%d, trees='%s'}", t.ID, species)
}
