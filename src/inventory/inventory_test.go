package inventory

import (
	"context"
	"encoding/json"
	"mepass/src/models"
	"mepass/src/types"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.Event{}))
	return gdb
}

func seedEvent(t *testing.T, gdb *gorm.DB, capacity, booked uint) models.Event {
	t.Helper()
	event := models.Event{
		Title:    "Open Mic",
		Price:    150,
		Capacity: capacity,
		IsActive: true,
		Date:     time.Now().Add(time.Hour),
	}
	require.NoError(t, gdb.Create(&event).Error)
	if booked > 0 {
		require.NoError(t, gdb.
			Model(&models.Event{}).
			Where("id = ?", event.ID).
			UpdateColumn("booked_count", booked).
			Error)
	}
	return event
}

func bookedCount(t *testing.T, gdb *gorm.DB, id uint) uint {
	t.Helper()
	var event models.Event
	require.NoError(t, gdb.First(&event, id).Error)
	return event.BookedCount
}

func TestReserve(t *testing.T) {
	gdb := newTestDB(t)
	inv := New(gdb, nil)
	event := seedEvent(t, gdb, 10, 0)

	require.NoError(t, inv.Reserve(gdb, event.ID, 4))
	assert.Equal(t, uint(4), bookedCount(t, gdb, event.ID))

	// exact fit still passes
	require.NoError(t, inv.Reserve(gdb, event.ID, 6))
	assert.Equal(t, uint(10), bookedCount(t, gdb, event.ID))

	err := inv.Reserve(gdb, event.ID, 1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, uint(10), bookedCount(t, gdb, event.ID))
}

func TestReserveMissingEvent(t *testing.T) {
	gdb := newTestDB(t)
	inv := New(gdb, nil)

	err := inv.Reserve(gdb, 9999, 1)
	assert.ErrorIs(t, err, ErrEventMissing)
}

func TestRelease(t *testing.T) {
	gdb := newTestDB(t)
	inv := New(gdb, nil)
	event := seedEvent(t, gdb, 10, 7)

	require.NoError(t, inv.Release(gdb, event.ID, 3))
	assert.Equal(t, uint(4), bookedCount(t, gdb, event.ID))
}

func TestReleaseClampsToZero(t *testing.T) {
	gdb := newTestDB(t)
	inv := New(gdb, nil)
	event := seedEvent(t, gdb, 10, 2)

	require.NoError(t, inv.Release(gdb, event.ID, 5))
	assert.Equal(t, uint(0), bookedCount(t, gdb, event.ID))
}

func TestReleaseMissingEvent(t *testing.T) {
	gdb := newTestDB(t)
	inv := New(gdb, nil)

	// recovery path: log and carry on
	require.NoError(t, inv.Release(gdb, 9999, 2))
}

func TestAvailability(t *testing.T) {
	gdb := newTestDB(t)
	inv := New(gdb, nil)
	event := seedEvent(t, gdb, 10, 4)

	snap, err := inv.Availability(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, snap.EventID)
	assert.Equal(t, uint(10), snap.Capacity)
	assert.Equal(t, uint(4), snap.BookedCount)
	assert.Equal(t, uint(6), snap.Available)

	_, err = inv.Availability(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrEventMissing)
}

func TestAvailabilityOverbookedClamps(t *testing.T) {
	gdb := newTestDB(t)
	inv := New(gdb, nil)
	event := seedEvent(t, gdb, 10, 12)

	snap, err := inv.Availability(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(0), snap.Available)
}

func TestAvailabilityCache(t *testing.T) {
	gdb := newTestDB(t)
	rdb, mock := redismock.NewClientMock()
	inv := New(gdb, rdb)
	event := seedEvent(t, gdb, 10, 4)

	key := availabilityKey(event.ID)
	snap := types.AvailabilityResponse{
		EventID:     event.ID,
		Capacity:    10,
		BookedCount: 4,
		Available:   6,
	}
	payload, err := json.Marshal(&snap)
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, payload, availabilityTTL).SetVal("OK")

	got, err := inv.Availability(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, *got)

	// warm cache short-circuits the database
	mock.ExpectGet(key).SetVal(string(payload))
	got, err = inv.Availability(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, *got)

	mock.ExpectDel(key).SetVal(1)
	inv.Invalidate(context.Background(), event.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
