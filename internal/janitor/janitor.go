package janitor

import (
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/clientdesk/clientdesk-backend/internal/syncstore"
)

// Janitor periodically evicts cache entries nobody has touched in a while.
// The sync store never evicts on its own; without this, entries for users
// who signed out without hitting the signout endpoint would live forever.
type Janitor struct {
	cron   *cron.Cron
	store  *syncstore.Store
	maxAge time.Duration
}

func New(store *syncstore.Store, maxAge time.Duration) *Janitor {
	return &Janitor{
		cron:   cron.New(),
		store:  store,
		maxAge: maxAge,
	}
}

// Start registers the sweep on the given cron schedule (e.g. "@hourly")
// and starts the scheduler in its own goroutine.
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) sweep() {
	evicted := j.store.Sweep(j.maxAge)
	if evicted > 0 {
		log.WithField("evicted", evicted).Info("cache sweep")
	}
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}
