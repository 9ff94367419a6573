package services

import (
	"gorm.io/gorm"

	"github.com/yukikurage/tree-api/internal/models"
	"github.com/yukikurage/tree-api/internal/repository"
)

type (
	BankService  = CRUDService[models.Bank, *models.Bank]
	TimerService = CRUDService[models.Timer, *models.Timer]
	TreeService  = CRUDService[models.Tree, *models.Tree]
)

// NewBankService creates a new BankService
func NewBankService(db *gorm.DB, repo repository.BankRepository, users repository.UserRepository) *BankService {
	return NewCRUDService[models.Bank, *models.Bank](db, repo, users, MergeBank)
}

// NewTimerService creates a new TimerService
func NewTimerService(db *gorm.DB, repo repository.TimerRepository, users repository.UserRepository) *TimerService {
	return NewCRUDService[models.Timer, *models.Timer](db, repo, users, MergeTimer)
}

// NewTreeService creates a new TreeService
func NewTreeService(db *gorm.DB, repo repository.TreeRepository, users repository.UserRepository) *TreeService {
	return NewCRUDService[models.Tree, *models.Tree](db, repo, users, MergeTree)
}

func MergeBank(dst, src *models.Bank) {
	if src.TreesOwned != nil {
		dst.TreesOwned = src.TreesOwned
	}
}

func MergeTimer(dst, src *models.Timer) {
	if src.Duration != nil {
		dst.Duration = src.Duration
	}
	if src.ExpirationTime != nil {
		dst.ExpirationTime = src.ExpirationTime
	}
	if src.Status != nil {
		dst.Status = src.Status
	}
}

func MergeTree(dst, src *models.Tree) {
	if src.Trees != nil {
		dst.Trees = src.Trees
	}
}
