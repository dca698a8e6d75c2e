package bookings

import (
	"context"
	"errors"
	"log"
	"mepass/src/inventory"
	"mepass/src/models"
	"mepass/src/types"

	"gorm.io/gorm"
)

const (
	minTickets        = 1
	maxTickets        = 10
	maxCreateAttempts = 4
)

// Service is the booking ledger. Every mutation of an event's
// booked-count in the system goes through Create and Cancel here.
type Service struct {
	db  *gorm.DB
	inv *inventory.Inventory
}

func NewService(db *gorm.DB, inv *inventory.Inventory) *Service {
	return &Service{db: db, inv: inv}
}

// Create books qty tickets on an event for a user. The capacity check,
// the counter increment and the booking row commit as one transaction;
// either the booking exists with its inventory reserved, or nothing
// happened. The total price is computed from the event's price at this
// moment and never recomputed. A booking-code collision rolls the whole
// transaction back and retries with a fresh code, a bounded number of
// times.
func (s *Service) Create(ctx context.Context, userID uint, eventID uint, qty uint) (*models.Booking, error) {
	if qty < minTickets || qty > maxTickets {
		return nil, ErrInvalidQuantity
	}

	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		var booking models.Booking
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var event models.Event
			if err := tx.First(&event, eventID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrEventNotFound
				}
				return err
			}
			if err := s.inv.Reserve(tx, eventID, qty); err != nil {
				if errors.Is(err, inventory.ErrEventMissing) {
					return ErrEventNotFound
				}
				return err
			}
			booking = models.Booking{
				Code:          NewBookingCode(),
				UserID:        userID,
				EventID:       eventID,
				Tickets:       qty,
				TotalPrice:    event.Price * float64(qty),
				Status:        types.BOOKING_CONFIRMED,
				PaymentStatus: types.PAYMENT_COMPLETED,
			}
			if err := tx.Create(&booking).Error; err != nil {
				return err
			}
			return nil
		})
		if err == nil {
			s.inv.Invalidate(ctx, eventID)
			if err := s.db.WithContext(ctx).
				Preload("Event").
				First(&booking, booking.ID).
				Error; err != nil {
				return nil, err
			}
			return &booking, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			lastErr = err
			continue
		}
		return nil, err
	}
	log.Printf("Could not settle booking code for event [%d] after %d attempts: %s\n", eventID, maxCreateAttempts, lastErr.Error())
	return nil, ErrConflictRetryExhausted
}

// ListForUser returns the caller's bookings, most recent first, with
// event summaries resolved.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var list []models.Booking
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(&models.Booking{UserID: userID}).
		Preload("Event").
		Order("booking_date DESC").
		Find(&list).
		Error
	return list, err
}

// Get returns one booking with full event and user detail. Only the
// owner or an admin may see it.
func (s *Service) Get(ctx context.Context, id uint, callerID uint, callerRole types.Role) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		First(&booking, id).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != callerID && callerRole != types.ROLE_ADMIN {
		return nil, ErrForbidden
	}
	return &booking, nil
}

// Cancel flips a booking to cancelled/refunded and releases its tickets
// back to the event, exactly once. The status flip is guarded so a
// racing second cancel loses and sees AlreadyCancelled instead of
// releasing the tickets twice.
func (s *Service) Cancel(ctx context.Context, id uint, callerID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.UserID != callerID {
			return ErrForbidden
		}
		if booking.Status == types.BOOKING_CANCELLED {
			return ErrAlreadyCancelled
		}
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND status <> ?", id, types.BOOKING_CANCELLED).
			Updates(map[string]any{
				"status":         types.BOOKING_CANCELLED,
				"payment_status": types.PAYMENT_REFUNDED,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCancelled
		}
		return s.inv.Release(tx, booking.EventID, booking.Tickets)
	})
	if err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx, booking.EventID)
	if err := s.db.WithContext(ctx).
		Preload("Event").
		First(&booking, booking.ID).
		Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// AuditInventory recomputes each event's booked-count from its
// non-cancelled bookings and logs every mismatch. It never repairs
// anything; it makes invariant violations visible to operators.
func (s *Service) AuditInventory(ctx context.Context) (int, error) {
	type auditRow struct {
		ID          uint
		BookedCount uint
		Actual      uint
	}
	var rows []auditRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT e.id, e.booked_count, COALESCE(SUM(b.tickets), 0) AS actual
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id AND b.status <> ? AND b.deleted_at IS NULL
		WHERE e.deleted_at IS NULL
		GROUP BY e.id, e.booked_count`, types.BOOKING_CANCELLED).
		Scan(&rows).
		Error
	if err != nil {
		return 0, err
	}
	mismatches := 0
	for _, row := range rows {
		if row.BookedCount != row.Actual {
			mismatches++
			log.Printf("[audit] consistency warning: event [%d] booked_count=%d but non-cancelled bookings sum to %d\n", row.ID, row.BookedCount, row.Actual)
		}
	}
	return mismatches, nil
}
