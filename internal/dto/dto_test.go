package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/tree-api/internal/models"
)

func TestToBankDTO_AssignedTo(t *testing.T) {
	user := &models.User{ID: 2, Login: "user"}

	eager := ToBankDTO(*(&models.Bank{ID: 1}).WithTreesOwned(3).WithAssignedTo(user))
	require.NotNil(t, eager.AssignedTo)
	assert.Equal(t, UserDTO{ID: 2, Login: "user"}, *eager.AssignedTo)

	userID := uint64(2)
	plain := ToBankDTO(models.Bank{ID: 1, AssignedToID: &userID})
	require.NotNil(t, plain.AssignedTo)
	assert.Equal(t, UserDTO{ID: 2}, *plain.AssignedTo)

	none := ToBankDTO(models.Bank{ID: 1})
	assert.Nil(t, none.AssignedTo)
}

func TestBankDTO_JSON(t *testing.T) {
	userID := uint64(2)
	body, err := json.Marshal(ToBankDTO(models.Bank{ID: 1, AssignedToID: &userID}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"treesOwned":null,"assignedTo":{"id":2}}`, string(body))
}

func TestBankDTO_ToModel(t *testing.T) {
	var payload BankDTO
	require.NoError(t, json.Unmarshal([]byte(`{"treesOwned":5,"assignedTo":{"id":1,"login":"admin"}}`), &payload))

	assert.Nil(t, payload.Identity())
	bank := payload.ToModel()
	assert.Zero(t, bank.ID)
	assert.Equal(t, 5, *bank.TreesOwned)
	assert.Equal(t, uint64(1), *bank.AssignedToID)
	assert.Nil(t, bank.AssignedTo)
}

func TestTimerDTO_RejectsUnknownStatus(t *testing.T) {
	var payload TimerDTO
	err := json.Unmarshal([]byte(`{"status":"Stopped"}`), &payload)
	assert.ErrorIs(t, err, models.ErrInvalidTimerStatus)
}

func TestTimerDTO_RoundTrip(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	timer := (&models.Timer{ID: 3}).WithDuration(60).WithExpirationTime(at).WithStatus(models.TimerStatusRunning)

	body, err := json.Marshal(ToTimerDTO(*timer))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":3,"duration":60,"expirationTime":"2024-01-02T03:04:05Z","status":"Running","assignedTo":null}`,
		string(body))

	var decoded TimerDTO
	require.NoError(t, json.Unmarshal(body, &decoded))
	model := decoded.ToModel()
	assert.Equal(t, uint64(3), model.ID)
	assert.True(t, at.Equal(*model.ExpirationTime))
	assert.Equal(t, models.TimerStatusRunning, *model.Status)
}

func TestTreeDTO_ToModel(t *testing.T) {
	var payload TreeDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"trees":"Walnut"}`), &payload))

	require.NotNil(t, payload.Identity())
	assert.Equal(t, uint64(4), *payload.Identity())
	tree := payload.ToModel()
	assert.Equal(t, models.TreeTypeWalnut, *tree.Trees)
	assert.Nil(t, tree.AssignedToID)
}

func TestToDTOs_EmptyIsNotNil(t *testing.T) {
	out := ToDTOs([]models.Tree{}, ToTreeDTO)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
