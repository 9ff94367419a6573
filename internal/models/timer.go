package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type TimerStatus string

const (
	TimerStatusRunning TimerStatus = "Running"
	TimerStatusExpired TimerStatus = "Expired"
	TimerStatusPaused  TimerStatus = "Paused"
)

// TimerStatuses lists every accepted status in declaration order.
var TimerStatuses = []TimerStatus{TimerStatusRunning, TimerStatusExpired, TimerStatusPaused}

// IsValid reports whether s is one of the declared statuses.
func (s TimerStatus) IsValid() bool {
	for _, v := range TimerStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// UnmarshalJSON rejects statuses outside the enumeration.
func (s *TimerStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status := TimerStatus(raw)
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTimerStatus, raw)
	}
	*s = status
	return nil
}

// Timer is a stored countdown description. Nothing in the service counts it down.
type Timer struct {
	ID             uint64       `gorm:"primarykey" json:"id"`
	Duration       *int         `json:"duration"`
	ExpirationTime *time.Time   `gorm:"precision:6" json:"expirationTime"`
	Status         *TimerStatus `gorm:"type:varchar(20)" json:"status"`
	AssignedToID   *uint64      `gorm:"uniqueIndex" json:"assignedToId,omitempty"`

	// Relations
	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
}

func (t *Timer) GetID() uint64           { return t.ID }
func (t *Timer) SetID(id uint64)         { t.ID = id }
func (t *Timer) EntityName() string      { return "timer" }
func (t *Timer) AssignedUserID() *uint64 { return t.AssignedToID }

func (t *Timer) WithDuration(d int) *Timer {
	t.Duration = &d
	return t
}

func (t *Timer) WithExpirationTime(at time.Time) *Timer {
	t.ExpirationTime = &at
	return t
}

func (t *Timer) WithStatus(s TimerStatus) *Timer {
	t.Status = &s
	return t
}

func (t *Timer) WithAssignedTo(user *User) *Timer {
	t.AssignedTo = user
	t.AssignedToID = nil
	if user != nil {
		id := user.ID
		t.AssignedToID = &id
	}
	return t
}

// Equal reports whether both timers have been persisted under the same id.
func (t *Timer) Equal(other *Timer) bool {
	if t == nil || other == nil {
		return false
	}
	if t == other {
		return true
	}
	return sameIdentity(t.ID, other.ID)
}

// BeforeSave normalizes the expiration time to UTC and guards the status column.
func (t *Timer) BeforeSave(tx *gorm.DB) error {
	if t.Status != nil && !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTimerStatus, *t.Status)
	}
	if t.ExpirationTime != nil {
		utc := t.ExpirationTime.UTC()
		t.ExpirationTime = &utc
	}
	return nil
}

func (t *Timer) String() string {
	expiration := "null"
	if t.ExpirationTime != nil {
		expiration = t.ExpirationTime.Format(time.RFC3339)
	}
	status := "null"
	if t.Status != nil {
		status = string(*t.Status)
	}
	return fmt.Sprintf("Timer{id=%d, duration=%s, expirationTime='%s', status='%s'}",
		t.ID, formatInt(t.Duration), expiration, status)
}
