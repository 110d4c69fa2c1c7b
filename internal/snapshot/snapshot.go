// Package snapshot assembles the externally visible dashboard response.
package snapshot

import (
	"fmt"
	"net/url"
	"time"

	"github.com/fyrsmithlabs/lifedash/internal/store"
	"github.com/fyrsmithlabs/lifedash/internal/timeutil"
)

const staticMapBaseURL = "https://maps.googleapis.com/maps/api/staticmap"

// Config holds the presentation settings the builder derives fields from.
type Config struct {
	MapsKey           string
	ProfilePictureURL string
	OffsetHours       int
}

// Builder turns the store's state into a Snapshot. It only reads; it always
// succeeds and returns whatever is currently known, with unloaded fields as
// null.
type Builder struct {
	store *store.Store
	cfg   Config
	now   func() time.Time
}

// NewBuilder creates a snapshot builder.
func NewBuilder(st *store.Store, cfg Config) *Builder {
	return &Builder{store: st, cfg: cfg, now: time.Now}
}

// Snapshot is the merged dashboard response. Field names are the public
// API contract.
type Snapshot struct {
	CurrentCityText           string              `json:"currentCityText"`
	NextCityText              *string             `json:"nextCityText"`
	NextCityDate              *string             `json:"nextCityDate"`
	CurrentMoodLevel          *string             `json:"currentMoodLevel"`
	CurrentMoodEmoji          *string             `json:"currentMoodEmoji"`
	CurrentMoodRelativeTime   *string             `json:"currentMoodRelativeTime"`
	OtherFxLifeData           map[string]any      `json:"otherFxLifeData"`
	NextConferences           []store.Conference  `json:"nextConferences"`
	NextEvents                []store.Event       `json:"nextEvents"`
	NextStays                 []store.Stay        `json:"nextStays"`
	IsMoving                  bool                `json:"isMoving"`
	NumberOfPersonalTodoItems *int                `json:"numberOfPersonalTodoItems"`
	NumberOfWorkTodoItems     *int                `json:"numberOfWorkTodoItems"`
	LatestSwarmCheckin        *store.Checkin      `json:"latestSwarmCheckin"`
	LastCommitMessage         string              `json:"lastCommitMessage"`
	LastCommitRepo            string              `json:"lastCommitRepo"`
	LastCommitLink            string              `json:"lastCommitLink"`
	LastCommitTimestamp       time.Time           `json:"lastCommitTimestamp"`
	GithubContributionsChart  *string             `json:"githubContributionsChart"`
	TodaysMacros              *store.Macros       `json:"todaysMacros"`
	TodaysFoodItems           []store.FoodItem    `json:"todaysFoodItems"`
	LastWorkout               *store.Workout      `json:"lastWorkout"`
	LastActivities            []store.ActivityDay `json:"lastActivities"`
	LastActivityUpdate        *time.Time          `json:"lastActivityUpdate"`
	MapsURL                   string              `json:"mapsUrl"`
	LocalTime                 string              `json:"localTime"`
	ProfilePictureURL         string              `json:"profilePictureUrl"`
	RecentPhotos              []store.Photo       `json:"recentPhotos"`
}

// Build reads the store once and derives the map URL and local-time string.
func (b *Builder) Build() Snapshot {
	v := b.store.View()

	s := Snapshot{
		CurrentCityText:           v.CurrentCity,
		NextConferences:           v.Conferences,
		NextEvents:                v.Events,
		NextStays:                 v.NextStays,
		IsMoving:                  v.Moving,
		NumberOfPersonalTodoItems: v.PersonalTodos,
		NumberOfWorkTodoItems:     v.WorkTodos,
		LatestSwarmCheckin:        v.Checkin,
		LastCommitMessage:         v.Commit.Message,
		LastCommitRepo:            v.Commit.Repo,
		LastCommitLink:            v.Commit.Link,
		LastCommitTimestamp:       v.Commit.Timestamp,
		TodaysMacros:              v.Macros,
		TodaysFoodItems:           v.FoodItems,
		LastWorkout:               v.LastWorkout,
		LastActivities:            v.Activity,
		LastActivityUpdate:        v.ActivityUpdatedAt,
		MapsURL:                   b.mapsURL(v.CurrentCity),
		LocalTime:                 timeutil.LocalClock(b.now(), b.cfg.OffsetHours),
		ProfilePictureURL:         b.cfg.ProfilePictureURL,
		RecentPhotos:              v.Photos,
	}

	if v.NextCity != "" {
		s.NextCityText = &v.NextCity
		s.NextCityDate = &v.NextCityIn
	}
	if v.Mood != nil {
		s.CurrentMoodLevel = &v.Mood.Level
		s.CurrentMoodEmoji = &v.Mood.Emoji
		s.CurrentMoodRelativeTime = &v.Mood.RelativeTime
		s.OtherFxLifeData = v.Mood.Raw
	}
	if v.ContributionsChart != "" {
		s.GithubContributionsChart = &v.ContributionsChart
	}

	return s
}

// mapsURL templates the static-map image URL from the current city text.
func (b *Builder) mapsURL(city string) string {
	return fmt.Sprintf("%s?center=%s&zoom=10&size=1200x190&scale=2&maptype=roadmap&key=%s",
		staticMapBaseURL, url.QueryEscape(city), b.cfg.MapsKey)
}
