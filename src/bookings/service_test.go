package bookings

import (
	"context"
	"errors"
	"mepass/src/inventory"
	"mepass/src/models"
	"mepass/src/types"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServiceSuite struct {
	suite.Suite
	DB  *gorm.DB
	Svc *Service

	user      models.User
	otherUser models.User
	admin     models.User
	event     models.Event
}

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
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.Event{},
		&models.Booking{},
	))
	return gdb
}

func (s *ServiceSuite) SetupTest() {
	s.DB = newTestDB(s.T())
	s.Svc = NewService(s.DB, inventory.New(s.DB, nil))

	s.user = models.User{Name: "Asha", Email: "asha@example.com", Role: string(types.ROLE_USER)}
	s.otherUser = models.User{Name: "Ravi", Email: "ravi@example.com", Role: string(types.ROLE_USER)}
	s.admin = models.User{Name: "Admin", Email: "admin@example.com", Role: string(types.ROLE_ADMIN)}
	s.Require().NoError(s.DB.Create(&s.user).Error)
	s.Require().NoError(s.DB.Create(&s.otherUser).Error)
	s.Require().NoError(s.DB.Create(&s.admin).Error)

	city := models.City{Name: "Mumbai", State: "Maharashtra"}
	s.Require().NoError(s.DB.Create(&city).Error)
	s.event = models.Event{
		Title:    "Indie Night",
		CityID:   city.ID,
		CityName: city.Name,
		Date:     time.Now().Add(48 * time.Hour),
		Price:    250,
		Capacity: 10,
		IsActive: true,
	}
	s.Require().NoError(s.DB.Create(&s.event).Error)
}

func (s *ServiceSuite) bookedCount() uint {
	var event models.Event
	s.Require().NoError(s.DB.First(&event, s.event.ID).Error)
	return event.BookedCount
}

func (s *ServiceSuite) TestCreateBooking() {
	booking, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 3)
	s.Require().NoError(err)

	s.Equal(uint(3), booking.Tickets)
	s.Equal(float64(750), booking.TotalPrice)
	s.Equal(types.BOOKING_CONFIRMED, booking.Status)
	s.Equal(types.PAYMENT_COMPLETED, booking.PaymentStatus)
	s.NotEmpty(booking.Code)
	s.Require().NotNil(booking.Event)
	s.Equal(s.event.ID, booking.Event.ID)
	s.Equal(uint(3), s.bookedCount())
}

func (s *ServiceSuite) TestCreateFrozenPrice() {
	booking, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 2)
	s.Require().NoError(err)

	s.Require().NoError(s.DB.
		Model(&models.Event{}).
		Where("id = ?", s.event.ID).
		Update("price", 999).
		Error)

	got, err := s.Svc.Get(context.Background(), booking.ID, s.user.ID, types.ROLE_USER)
	s.Require().NoError(err)
	s.Equal(float64(500), got.TotalPrice)
}

func (s *ServiceSuite) TestCreateCapacityExceeded() {
	_, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 3)
	s.Require().NoError(err)

	_, err = s.Svc.Create(context.Background(), s.otherUser.ID, s.event.ID, 8)
	s.Require().ErrorIs(err, ErrCapacityExceeded)
	s.Equal(uint(3), s.bookedCount())
}

func (s *ServiceSuite) TestCancelFreesCapacity() {
	booking, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 3)
	s.Require().NoError(err)

	cancelled, err := s.Svc.Cancel(context.Background(), booking.ID, s.user.ID)
	s.Require().NoError(err)
	s.Equal(types.BOOKING_CANCELLED, cancelled.Status)
	s.Equal(types.PAYMENT_REFUNDED, cancelled.PaymentStatus)
	s.Equal(uint(0), s.bookedCount())

	_, err = s.Svc.Create(context.Background(), s.otherUser.ID, s.event.ID, 8)
	s.Require().NoError(err)
	s.Equal(uint(8), s.bookedCount())
}

func (s *ServiceSuite) TestCreateInvalidQuantity() {
	for _, qty := range []uint{0, 11} {
		_, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, qty)
		s.Require().ErrorIs(err, ErrInvalidQuantity)
	}
	s.Equal(uint(0), s.bookedCount())
}

func (s *ServiceSuite) TestCreateMissingEvent() {
	_, err := s.Svc.Create(context.Background(), s.user.ID, 9999, 2)
	s.Require().ErrorIs(err, ErrEventNotFound)
}

func (s *ServiceSuite) TestGetAccess() {
	booking, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 1)
	s.Require().NoError(err)

	_, err = s.Svc.Get(context.Background(), booking.ID, s.otherUser.ID, types.ROLE_USER)
	s.Require().ErrorIs(err, ErrForbidden)

	got, err := s.Svc.Get(context.Background(), booking.ID, s.admin.ID, types.ROLE_ADMIN)
	s.Require().NoError(err)
	s.Equal(booking.ID, got.ID)

	_, err = s.Svc.Get(context.Background(), 9999, s.user.ID, types.ROLE_USER)
	s.Require().ErrorIs(err, ErrBookingNotFound)
}

func (s *ServiceSuite) TestCancelAccess() {
	booking, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 2)
	s.Require().NoError(err)

	_, err = s.Svc.Cancel(context.Background(), booking.ID, s.otherUser.ID)
	s.Require().ErrorIs(err, ErrForbidden)
	s.Equal(uint(2), s.bookedCount())

	_, err = s.Svc.Cancel(context.Background(), 9999, s.user.ID)
	s.Require().ErrorIs(err, ErrBookingNotFound)
}

func (s *ServiceSuite) TestCancelTwice() {
	booking, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 2)
	s.Require().NoError(err)

	_, err = s.Svc.Cancel(context.Background(), booking.ID, s.user.ID)
	s.Require().NoError(err)

	_, err = s.Svc.Cancel(context.Background(), booking.ID, s.user.ID)
	s.Require().ErrorIs(err, ErrAlreadyCancelled)
	s.Equal(uint(0), s.bookedCount())
}

func (s *ServiceSuite) TestListForUserOrdering() {
	first, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 1)
	s.Require().NoError(err)
	second, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 1)
	s.Require().NoError(err)
	_, err = s.Svc.Create(context.Background(), s.otherUser.ID, s.event.ID, 1)
	s.Require().NoError(err)

	s.Require().NoError(s.DB.
		Model(&models.Booking{}).
		Where("id = ?", first.ID).
		Update("booking_date", time.Now().Add(-time.Hour)).
		Error)

	list, err := s.Svc.ListForUser(context.Background(), s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)
	s.Require().NotNil(list[0].Event)
}

func (s *ServiceSuite) TestConcurrentCreateNeverOversells() {
	const (
		workers = 10
		qty     = 3
	)
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, qty)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.Require().ErrorIs(err, ErrCapacityExceeded)
	}
	// capacity 10 holds exactly three bookings of three tickets
	s.Equal(3, succeeded)
	s.Equal(uint(succeeded*qty), s.bookedCount())
}

func (s *ServiceSuite) TestAuditInventory() {
	_, err := s.Svc.Create(context.Background(), s.user.ID, s.event.ID, 3)
	s.Require().NoError(err)

	mismatches, err := s.Svc.AuditInventory(context.Background())
	s.Require().NoError(err)
	s.Equal(0, mismatches)

	s.Require().NoError(s.DB.
		Model(&models.Event{}).
		Where("id = ?", s.event.ID).
		UpdateColumn("booked_count", 7).
		Error)

	mismatches, err = s.Svc.AuditInventory(context.Background())
	s.Require().NoError(err)
	s.Equal(1, mismatches)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func TestCreateCodeCollisionRetries(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewService(gdb, inventory.New(gdb, nil))

	user := models.User{Name: "Asha", Email: "asha@example.com"}
	require.NoError(t, gdb.Create(&user).Error)
	event := models.Event{Title: "Indie Night", Price: 100, Capacity: 10, IsActive: true, Date: time.Now().Add(time.Hour)}
	require.NoError(t, gdb.Create(&event).Error)

	booking, err := svc.Create(context.Background(), user.ID, event.ID, 1)
	require.NoError(t, err)

	// a second booking with the same code must surface as a duplicate,
	// which Create absorbs by regenerating
	dup := models.Booking{
		Code:    booking.Code,
		UserID:  user.ID,
		EventID: event.ID,
		Tickets: 1,
	}
	err = gdb.Create(&dup).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	again, err := svc.Create(context.Background(), user.ID, event.ID, 1)
	require.NoError(t, err)
	assert.NotEqual(t, booking.Code, again.Code)
}
