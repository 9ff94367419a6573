package dto

import "github.com/yukikurage/tree-api/internal/models"

// TreeDTO is the request and response body of /api/trees
type TreeDTO struct {
	ID         *uint64          `json:"id"`
	Trees      *models.TreeType `json:"trees" binding:"omitempty,enum"`
	AssignedTo *UserDTO         `json:"assignedTo"`
}

func (d TreeDTO) Identity() *uint64 { return d.ID }

func (d TreeDTO) ToModel() *models.Tree {
	return &models.Tree{
		ID:           idValue(d.ID),
		Trees:        d.Trees,
		AssignedToID: assignedToID(d.AssignedTo),
	}
}

// ToTreeDTO converts a Tree model to TreeDTO
func ToTreeDTO(tree models.Tree) TreeDTO {
	return TreeDTO{
		ID:         idPtr(tree.ID),
		Trees:      tree.Trees,
		AssignedTo: toAssignedTo(tree.AssignedToID, tree.AssignedTo),
	}
}
