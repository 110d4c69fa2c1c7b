// Package store holds the latest known value of every tracked dashboard
// field.
//
// The store is the single in-memory state shared by the refresh jobs, the
// ingest path, and the snapshot builder. Each field group is written by
// exactly one job (or the ingest path); writes replace the whole group
// atomically under the lock, so readers never observe a partially updated
// group. There is no persistence: a restart starts empty and the readiness
// gate keeps the snapshot unserved until the required sources have loaded.
package store

import (
	"sync"
	"time"
)

// Store is the mutable dashboard state. Construct with New and share by
// reference; all methods are safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	v  View
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// TravelStatus is the travel job's field group: current location, the next
// city, and the list of future stays.
type TravelStatus struct {
	CurrentCity string
	Lat         float64
	Lng         float64
	Moving      bool
	NextCity    string
	NextCityIn  string
	Stays       []Stay
}

// SetTravel replaces the travel field group and marks the travel source
// loaded. The stays list is fully replaced, never merged.
func (s *Store) SetTravel(t TravelStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.CurrentCity = t.CurrentCity
	s.v.Lat = t.Lat
	s.v.Lng = t.Lng
	s.v.Moving = t.Moving
	s.v.NextCity = t.NextCity
	s.v.NextCityIn = t.NextCityIn
	s.v.NextStays = append([]Stay(nil), t.Stays...)
	s.v.TravelLoaded = true
}

// SetCheckin replaces the latest check-in and marks the check-in source
// loaded.
func (s *Store) SetCheckin(c Checkin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc := c
	s.v.Checkin = &cc
	s.v.CheckinLoaded = true
}

// SetMood replaces the mood record.
func (s *Store) SetMood(m Mood) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mc := m
	s.v.Mood = &mc
}

// SetCommit replaces the last-commit record.
func (s *Store) SetCommit(c Commit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Commit = c
}

// SetContributionsChart replaces the raw contributions chart fragment.
func (s *Store) SetContributionsChart(svg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.ContributionsChart = svg
}

// SetWorkTodos replaces the work board's open-card count. Independent of the
// personal count so one board's failure never blocks the other's result.
func (s *Store) SetWorkTodos(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.WorkTodos = &n
}

// SetPersonalTodos replaces the personal board's open-card count.
func (s *Store) SetPersonalTodos(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.PersonalTodos = &n
}

// SetNutrition replaces the macro totals and the food item list together.
func (s *Store) SetNutrition(m Macros, items []FoodItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mc := m
	s.v.Macros = &mc
	s.v.FoodItems = append([]FoodItem(nil), items...)
}

// SetEvents replaces the upcoming-events list in one write. Callers commit
// the fully merged, sorted list; the store does not reorder.
func (s *Store) SetEvents(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Events = append([]Event(nil), events...)
}

// SetConferences replaces the upcoming-conferences list.
func (s *Store) SetConferences(conferences []Conference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Conferences = append([]Conference(nil), conferences...)
}

// SetPhotos replaces the recent-photos list.
func (s *Store) SetPhotos(photos []Photo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Photos = append([]Photo(nil), photos...)
}

// SetActivity replaces the ingest-owned group: last workout (nil clears it),
// the per-day activity list, and the update stamp.
func (s *Store) SetActivity(w *Workout, days []ActivityDay, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w != nil {
		wc := *w
		s.v.LastWorkout = &wc
	} else {
		s.v.LastWorkout = nil
	}
	s.v.Activity = append([]ActivityDay(nil), days...)
	at = at.UTC()
	s.v.ActivityUpdatedAt = &at
}

// Ready reports whether the aggregate snapshot is fit to serve: the travel
// and check-in sources have each loaded at least once and a last commit
// message is present. All other sources are best-effort. The loaded flags
// are monotonic; readiness never reverts once reached, even if a required
// source later starts failing.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.TravelLoaded && s.v.CheckinLoaded && s.v.Commit.Message != ""
}

// View returns a copy of the current state. Slices and records are copied so
// the caller can never mutate the store through the view.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.v
	v.NextStays = append([]Stay(nil), s.v.NextStays...)
	v.FoodItems = append([]FoodItem(nil), s.v.FoodItems...)
	v.Events = append([]Event(nil), s.v.Events...)
	v.Conferences = append([]Conference(nil), s.v.Conferences...)
	v.Photos = append([]Photo(nil), s.v.Photos...)
	v.Activity = append([]ActivityDay(nil), s.v.Activity...)
	if s.v.Checkin != nil {
		c := *s.v.Checkin
		v.Checkin = &c
	}
	if s.v.Mood != nil {
		m := *s.v.Mood
		m.Raw = copyRaw(s.v.Mood.Raw)
		v.Mood = &m
	}
	if s.v.Macros != nil {
		m := *s.v.Macros
		v.Macros = &m
	}
	if s.v.WorkTodos != nil {
		n := *s.v.WorkTodos
		v.WorkTodos = &n
	}
	if s.v.PersonalTodos != nil {
		n := *s.v.PersonalTodos
		v.PersonalTodos = &n
	}
	if s.v.LastWorkout != nil {
		w := *s.v.LastWorkout
		v.LastWorkout = &w
	}
	if s.v.ActivityUpdatedAt != nil {
		t := *s.v.ActivityUpdatedAt
		v.ActivityUpdatedAt = &t
	}
	return v
}

func copyRaw(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	out := make(map[string]any, len(raw))
	for k, val := range raw {
		out[k] = val
	}
	return out
}
