package dto

import "github.com/yukikurage/tree-api/internal/models"

// BankDTO is the request and response body of /api/banks
type BankDTO struct {
	ID         *uint64  `json:"id"`
	TreesOwned *int     `json:"treesOwned"`
	AssignedTo *UserDTO `json:"assignedTo"`
}

func (d BankDTO) Identity() *uint64 { return d.ID }

func (d BankDTO) ToModel() *models.Bank {
	return &models.Bank{
		ID:           idValue(d.ID),
		TreesOwned:   d.TreesOwned,
		AssignedToID: assignedToID(d.AssignedTo),
	}
}

// ToBankDTO converts a Bank model to BankDTO
func ToBankDTO(bank models.Bank) BankDTO {
	return BankDTO{
		ID:         idPtr(bank.ID),
		TreesOwned: bank.TreesOwned,
		AssignedTo: toAssignedTo(bank.AssignedToID, bank.AssignedTo),
	}
}
