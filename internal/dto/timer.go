package dto

import (
	"time"

	"github.com/yukikurage/tree-api/internal/models"
)

// TimerDTO is the request and response body of /api/timers
type TimerDTO struct {
	ID             *uint64             `json:"id"`
	Duration       *int                `json:"duration"`
	ExpirationTime *time.Time          `json:"expirationTime"`
	Status         *models.TimerStatus `json:"status" binding:"omitempty,enum"`
	AssignedTo     *UserDTO            `json:"assignedTo"`
}

func (d TimerDTO) Identity() *uint64 { return d.ID }

func (d TimerDTO) ToModel() *models.Timer {
	return &models.Timer{
		ID:             idValue(d.ID),
		Duration:       d.Duration,
		ExpirationTime: d.ExpirationTime,
		Status:         d.Status,
		AssignedToID:   assignedToID(d.AssignedTo),
	}
}

// ToTimerDTO converts a Timer model to TimerDTO
func ToTimerDTO(timer models.Timer) TimerDTO {
	return TimerDTO{
		ID:             idPtr(timer.ID),
		Duration:       timer.Duration,
		ExpirationTime: timer.ExpirationTime,
		Status:         timer.Status,
		AssignedTo:     toAssignedTo(timer.AssignedToID, timer.AssignedTo),
	}
}
