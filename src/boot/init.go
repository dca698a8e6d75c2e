package boot

import (
	"context"
	"log"
	"mepass/src/bookings"
	"mepass/src/lib"
	"mepass/src/models"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

const auditInterval = 15 * time.Minute

func InitDb(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.Event{},
		&models.Booking{},
	)
	if err != nil {
		log.Printf("error migration: %s\n", err.Error())
		return err
	}
	return nil
}

// InitScheduler starts the background scheduler with a periodic
// inventory audit that cross-checks booked counts against the ledger.
func InitScheduler(svc *bookings.Service) (gocron.Scheduler, error) {
	sched, err := lib.NewScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.DurationJob(auditInterval),
		gocron.NewTask(func() {
			mismatches, err := svc.AuditInventory(context.Background())
			if err != nil {
				log.Printf("Error auditing inventory: %s\n", err.Error())
				return
			}
			if mismatches > 0 {
				log.Printf("Inventory audit found %d mismatched event(s)\n", mismatches)
			}
		}),
	)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return nil, err
	}
	log.Printf("Job ID: %s %s\n", j.Name(), j.ID().String())
	sched.Start()
	return sched, nil
}

func StopScheduler(sched gocron.Scheduler) {
	if sched == nil {
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("Error shutting down Scheduler: %s\n", err.Error())
	}
}
