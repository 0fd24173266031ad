package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Broadcaster delivers the daily practice to every known user.
type Broadcaster interface {
	BroadcastDaily()
}

// Scheduler runs the daily broadcast at a configured local time.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	broadcaster Broadcaster
	dailyTime   string
}

// New creates a scheduler firing at dailyTime ("HH:MM") in the given
// timezone. An unknown timezone falls back to UTC rather than failing.
func New(broadcaster Broadcaster, dailyTime, timezone string) *Scheduler {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("scheduler: unknown timezone %q, using UTC: %v", timezone, err)
		loc = time.UTC
	}

	return &Scheduler{
		scheduler:   gocron.NewScheduler(loc),
		broadcaster: broadcaster,
		dailyTime:   dailyTime,
	}
}

// Start schedules the daily job and begins running it asynchronously.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.dailyTime).Do(s.runBroadcast)
	if err != nil {
		return fmt.Errorf("failed to schedule daily broadcast: %v", err)
	}

	s.scheduler.StartAsync()
	log.Printf("Scheduler started. Daily broadcast at %s %s", s.dailyTime, s.scheduler.Location())
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runBroadcast() {
	log.Println("Starting daily practice broadcast...")
	s.broadcaster.BroadcastDaily()
}
