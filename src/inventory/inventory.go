package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mepass/src/models"
	"mepass/src/types"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrCapacityExceeded = errors.New("not enough tickets available")
	ErrEventMissing     = errors.New("event not found")
)

const availabilityTTL = 5 * time.Second

// Inventory owns the booked-count side of every event. The counter is
// only ever mutated through Reserve and Release, both single guarded
// UPDATE statements, so two concurrent bookings can never both pass a
// capacity check and overshoot together.
type Inventory struct {
	db    *gorm.DB
	cache *redis.Client
}

// New returns an inventory bound to the shared db handle. cache may be
// nil; availability reads then always hit the database.
func New(db *gorm.DB, cache *redis.Client) *Inventory {
	return &Inventory{db: db, cache: cache}
}

func availabilityKey(eventID uint) string {
	return fmt.Sprintf("event:%d:availability", eventID)
}

// Reserve increments an event's booked-count by qty, but only when the
// post-increment value still fits the capacity. Check and increment are
// one conditional UPDATE. Callers pass their transaction so the
// increment commits or rolls back together with their own writes.
func (i *Inventory) Reserve(tx *gorm.DB, eventID uint, qty uint) error {
	res := tx.
		Model(&models.Event{}).
		Where("id = ? AND booked_count + ? <= capacity", eventID, qty).
		UpdateColumn("booked_count", gorm.Expr("booked_count + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrEventMissing
		}
		return ErrCapacityExceeded
	}
	return nil
}

// Release hands qty tickets back. The guarded UPDATE never drives
// booked-count below zero; when the stored counter is already smaller
// than qty the value is clamped to zero and the violation is logged for
// operators instead of failing the cancellation. Exactly-once per
// cancellation is the caller's responsibility.
func (i *Inventory) Release(tx *gorm.DB, eventID uint, qty uint) error {
	res := tx.
		Model(&models.Event{}).
		Where("id = ? AND booked_count >= ?", eventID, qty).
		UpdateColumn("booked_count", gorm.Expr("booked_count - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			log.Printf("[inventory] consistency warning: released %d tickets against missing event [%d]\n", qty, eventID)
			return nil
		}
		log.Printf("[inventory] consistency warning: booked_count of event [%d] below released qty %d, clamping to zero\n", eventID, qty)
		if err := tx.
			Model(&models.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("booked_count", 0).
			Error; err != nil {
			return err
		}
	}
	return nil
}

// Availability reports {capacity, bookedCount, available} for an event,
// served from the cache when one is configured.
func (i *Inventory) Availability(ctx context.Context, eventID uint) (*types.AvailabilityResponse, error) {
	key := availabilityKey(eventID)
	if i.cache != nil {
		if cached, err := i.cache.Get(ctx, key).Result(); err == nil {
			var snap types.AvailabilityResponse
			if err := json.Unmarshal([]byte(cached), &snap); err == nil {
				return &snap, nil
			}
		}
	}

	var event models.Event
	if err := i.db.WithContext(ctx).
		Select("id", "capacity", "booked_count").
		First(&event, eventID).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventMissing
		}
		return nil, err
	}
	snap := &types.AvailabilityResponse{
		EventID:     event.ID,
		Capacity:    event.Capacity,
		BookedCount: event.BookedCount,
		Available:   event.AvailableTickets(),
	}
	if i.cache != nil {
		if b, err := json.Marshal(snap); err == nil {
			if err := i.cache.Set(ctx, key, b, availabilityTTL).Err(); err != nil {
				log.Printf("[redis] Error caching availability for event [%d]: %s\n", eventID, err.Error())
			}
		}
	}
	return snap, nil
}

// Invalidate drops the cached availability snapshot after a counter
// mutation has committed.
func (i *Inventory) Invalidate(ctx context.Context, eventID uint) {
	if i.cache == nil {
		return
	}
	if err := i.cache.Del(ctx, availabilityKey(eventID)).Err(); err != nil {
		log.Printf("[redis] Error invalidating availability for event [%d]: %s\n", eventID, err.Error())
	}
}
