package store

import "time"

// View is a point-in-time copy of the store's state.
//
// Pointer and slice fields are nil until their owning job has succeeded at
// least once; they serialize as null, matching the pre-load response shape.
type View struct {
	TravelLoaded  bool
	CheckinLoaded bool

	CurrentCity string
	Lat         float64
	Lng         float64
	Moving      bool
	NextCity    string
	NextCityIn  string
	NextStays   []Stay

	Checkin *Checkin
	Mood    *Mood
	Commit  Commit

	ContributionsChart string

	WorkTodos     *int
	PersonalTodos *int

	Macros    *Macros
	FoodItems []FoodItem

	Events      []Event
	Conferences []Conference
	Photos      []Photo

	LastWorkout       *Workout
	Activity          []ActivityDay
	ActivityUpdatedAt *time.Time
}

// Stay is one future trip from the travel tracker.
type Stay struct {
	Name     string    `json:"name"`
	From     string    `json:"from"`
	For      string    `json:"for"`
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`
}

// Checkin is the most recent venue check-in.
type Checkin struct {
	Name             string `json:"name"`
	FormattedAddress string `json:"formattedAddress"`
	When             string `json:"when"`
}

// Mood is the latest self-reported mood.
type Mood struct {
	Level        string
	Emoji        string
	RelativeTime string
	Raw          map[string]any
}

// Commit is the most recent non-merge commit from the activity feed.
type Commit struct {
	Message   string
	Repo      string
	Link      string
	Timestamp time.Time
}

// Macros are one day's nutrition totals.
type Macros struct {
	KCal    float64 `json:"kcal"`
	Carbs   float64 `json:"carbs"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
}

// FoodItem is one logged food entry.
type FoodItem struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Event is one upcoming calendar event.
type Event struct {
	RawStart time.Time `json:"rawStart"`
	Start    string    `json:"start"`
	End      string    `json:"end"`
	Duration float64   `json:"duration"`
}

// Conference is one upcoming conference appearance.
type Conference struct {
	Location string `json:"location"`
	Dates    string `json:"dates"`
	Name     string `json:"name"`
	Link     string `json:"link"`
}

// Photo is one recent photo-feed entry.
type Photo struct {
	Text   string    `json:"text"`
	URL    string    `json:"url"`
	Link   string    `json:"link"`
	Posted time.Time `json:"posted"`
}

// Workout is the most recent workout from the health export.
type Workout struct {
	Timestamp    time.Time `json:"timestamp"`
	ActiveEnergy int       `json:"activeEnergy"`
	Name         string    `json:"name"`
}

// ActivityDay is one day of health-export activity. Energy and exercise are
// rounded to whole units; stand hours keep the reported precision.
type ActivityDay struct {
	ActiveEnergy int     `json:"activeEnergy"`
	ExerciseTime int     `json:"exerciseTime"`
	StandHour    float64 `json:"standHour"`
}
