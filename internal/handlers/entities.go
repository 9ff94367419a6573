package handlers

import (
	"github.com/yukikurage/tree-api/internal/dto"
	apierrors "github.com/yukikurage/tree-api/internal/errors"
	"github.com/yukikurage/tree-api/internal/models"
)

const (
	BanksPath  = "/api/banks"
	TimersPath = "/api/timers"
	TreesPath  = "/api/trees"
)

var (
	bankSortColumns = map[string]string{
		"id":         "id",
		"treesOwned": "trees_owned",
	}
	timerSortColumns = map[string]string{
		"id":             "id",
		"duration":       "duration",
		"expirationTime": "expiration_time",
		"status":         "status",
	}
	treeSortColumns = map[string]string{
		"id":    "id",
		"trees": "trees",
	}
)

type (
	BankHandler  = Resource[models.Bank, dto.BankDTO]
	TimerHandler = Resource[models.Timer, dto.TimerDTO]
	TreeHandler  = Resource[models.Tree, dto.TreeDTO]
)

func NewBankHandler(service EntityService[models.Bank], reporter *apierrors.Reporter) *BankHandler {
	return NewResource(service, dto.ToBankDTO, BanksPath, bankSortColumns, reporter)
}

func NewTimerHandler(service EntityService[models.Timer], reporter *apierrors.Reporter) *TimerHandler {
	return NewResource(service, dto.ToTimerDTO, TimersPath, timerSortColumns, reporter)
}

func NewTreeHandler(service EntityService[models.Tree], reporter *apierrors.Reporter) *TreeHandler {
	return NewResource(service, dto.ToTreeDTO, TreesPath, treeSortColumns, reporter)
}
