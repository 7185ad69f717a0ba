package scheduler

import (
	"context"
	"sort"
	"time"

	"PinFlow/internal/ports"
)

// TimesScheduler fires the job once at each configured time-of-day.
type TimesScheduler struct {
	times    []string
	location *time.Location
	stop     chan struct{}
}

var _ ports.Scheduler = (*TimesScheduler)(nil)

// NewTimesScheduler builds a scheduler from "HH:MM" strings in the given
// timezone.
func NewTimesScheduler(times []string, location *time.Location) *TimesScheduler {
	if location == nil {
		location = time.UTC
	}
	sorted := append([]string(nil), times...)
	sort.Strings(sorted)
	return &TimesScheduler{times: sorted, location: location}
}

// Start begins waiting for the next configured trigger.
func (s *TimesScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil || len(s.times) == 0 {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		for {
			next := s.nextTrigger(time.Now().In(s.location))
			timer := time.NewTimer(time.Until(next))
			select {
			case t := <-timer.C:
				job(t)
			case <-ctx.Done():
				timer.Stop()
				return
			case <-s.stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the trigger goroutine.
func (s *TimesScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}

// nextTrigger finds the earliest configured time strictly after now,
// rolling over to the first time tomorrow.
func (s *TimesScheduler) nextTrigger(now time.Time) time.Time {
	for _, spec := range s.times {
		parsed, err := time.ParseInLocation("15:04", spec, s.location)
		if err != nil {
			continue
		}
		candidate := time.Date(now.Year(), now.Month(), now.Day(),
			parsed.Hour(), parsed.Minute(), 0, 0, s.location)
		if candidate.After(now) {
			return candidate
		}
	}

	first, err := time.ParseInLocation("15:04", s.times[0], s.location)
	if err != nil {
		return now.Add(24 * time.Hour)
	}
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(),
		first.Hour(), first.Minute(), 0, 0, s.location)
}
