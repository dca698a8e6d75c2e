package lib

import (
	"log"

	"github.com/go-co-op/gocron/v2"
)

// NewScheduler builds a local background scheduler. Jobs are registered
// by the caller and run until Shutdown.
func NewScheduler() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	return sched, nil
}
