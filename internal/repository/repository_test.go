package repository

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"ponto-bot/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "ponto.db"), logger)
	require.NoError(t, err)

	store, err := NewStore(db, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func createUser(t *testing.T, store *Store, chatID int64, role models.Role) *models.User {
	t.Helper()
	user := &models.User{ChatID: chatID, FirstName: "Ana", Role: string(role)}
	require.NoError(t, store.Users.Create(user))
	return user
}

func TestClockEventRepository_CreateAndList(t *testing.T) {
	store := newTestStore(t)
	user := createUser(t, store, 100, models.RoleEmployee)
	brt := time.FixedZone("BRT", -3*60*60)

	later := &models.ClockEvent{UserID: user.ID, Type: "saida", Timestamp: time.Date(2026, 3, 10, 17, 0, 0, 0, brt)}
	earlier := &models.ClockEvent{UserID: user.ID, Type: "entrada", Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, brt)}
	require.NoError(t, store.Events.Create(later))
	require.NoError(t, store.Events.Create(earlier))

	assert.NotEqual(t, uuid.Nil, later.ID)

	events, err := store.Events.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "entrada", events[0].Type)
	assert.True(t, events[0].Timestamp.Equal(earlier.Timestamp))

	last, err := store.Events.LastByUser(user.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, later.ID, last.ID)
}

func TestClockEventRepository_RejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	user := createUser(t, store, 100, models.RoleEmployee)

	err := store.Events.Create(&models.ClockEvent{UserID: user.ID, Type: "lanche", Timestamp: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	err = store.Events.Create(&models.ClockEvent{UserID: user.ID, Type: "entrada"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestClockEventRepository_RangeAcrossZones(t *testing.T) {
	store := newTestStore(t)
	user := createUser(t, store, 100, models.RoleEmployee)
	brt := time.FixedZone("BRT", -3*60*60)

	// 22:30 BRT 10 марта = 01:30 UTC 11 марта
	late := &models.ClockEvent{UserID: user.ID, Type: "saida", Timestamp: time.Date(2026, 3, 10, 22, 30, 0, 0, brt)}
	next := &models.ClockEvent{UserID: user.ID, Type: "entrada", Timestamp: time.Date(2026, 3, 11, 8, 0, 0, 0, brt)}
	require.NoError(t, store.Events.Create(late))
	require.NoError(t, store.Events.Create(next))

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, brt)
	events, err := store.Events.ListByUserBetween(user.ID, from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, late.ID, events[0].ID)
}

func TestClockEventRepository_UpdateDeleteShortID(t *testing.T) {
	store := newTestStore(t)
	user := createUser(t, store, 100, models.RoleEmployee)

	event := &models.ClockEvent{UserID: user.ID, Type: "entrada", Timestamp: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Events.Create(event))

	found, err := store.Events.FindByShortID(user.ID, event.ShortID())
	require.NoError(t, err)
	require.NotNil(t, found)

	found.Observation = "esqueci o crachá"
	found.Timestamp = found.Timestamp.Add(-15 * time.Minute)
	require.NoError(t, store.Events.Update(found))

	reloaded, err := store.Events.GetByID(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "esqueci o crachá", reloaded.Observation)
	assert.True(t, reloaded.Timestamp.Equal(time.Date(2026, 3, 10, 11, 45, 0, 0, time.UTC)))

	// чужая отметка не находится
	other, err := store.Events.FindByShortID(user.ID+1, event.ShortID())
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, store.Events.Delete(event.ID))
	assert.ErrorIs(t, store.Events.Delete(event.ID), ErrEventNotFound)

	missing, err := store.Events.GetByID(event.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.ErrorIs(t, store.Events.Update(event), ErrEventNotFound)
}

func TestUserRepository(t *testing.T) {
	store := newTestStore(t)
	createUser(t, store, 1, models.RoleEmployee)
	createUser(t, store, 2, models.RoleIntern)
	createUser(t, store, 3, models.RoleHR)

	assert.ErrorIs(t, store.Users.Create(&models.User{ChatID: 1, FirstName: "Dup"}), ErrUserExists)

	user, err := store.Users.GetByChatID(404)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, store.Users.UpdateRole(1, models.RoleManager))
	assert.ErrorIs(t, store.Users.UpdateRole(404, models.RoleManager), ErrUserNotFound)

	managers, err := store.Users.GetManagers()
	require.NoError(t, err)
	assert.Len(t, managers, 2)

	total, interns, err := store.Users.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, interns)

	require.NoError(t, store.Users.Delete(2))
	assert.ErrorIs(t, store.Users.Delete(2), ErrUserNotFound)
}

func TestRequestRepository_ConflictAndReview(t *testing.T) {
	store := newTestStore(t)
	user := createUser(t, store, 1, models.RoleEmployee)
	reviewer := createUser(t, store, 2, models.RoleHR)

	vacation := &models.Request{
		UserID:    user.ID,
		Type:      models.RequestTypeVacation,
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
		Status:    models.RequestStatusPending,
	}
	require.NoError(t, store.Requests.Create(vacation))

	conflict, err := store.Requests.CheckPeriodConflict(user.ID,
		time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC), time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = store.Requests.CheckPeriodConflict(user.ID,
		time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, conflict)

	pending, err := store.Requests.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, user.ID, pending[0].User.ID)

	now := time.Now()
	require.NoError(t, store.Requests.Review(vacation.ID, reviewer.ID, models.RequestStatusRejected, "período de fechamento", now))
	assert.ErrorIs(t, store.Requests.Review(vacation.ID, reviewer.ID, models.RequestStatusApproved, "", now), ErrRequestNotFound)

	// отклоненная заявка больше не блокирует период
	conflict, err = store.Requests.CheckPeriodConflict(user.ID,
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestBroadcastRepository(t *testing.T) {
	store := newTestStore(t)
	sender := createUser(t, store, 1, models.RoleAdmin)

	require.NoError(t, store.Broadcasts.Create(&models.Broadcast{SenderID: sender.ID, Text: "um", Recipients: 3}))
	require.NoError(t, store.Broadcasts.Create(&models.Broadcast{SenderID: sender.ID, Text: "dois", Recipients: 3}))

	recent, err := store.Broadcasts.ListRecent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, sender.ID, recent[0].Sender.ID)
}
