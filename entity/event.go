package entity

import (
	"fmt"
	"time"

	"github.com/klauspost/lctime"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CompetitionType string

const (
	CompetitionIndividual CompetitionType = "individual"
	CompetitionTeam       CompetitionType = "team"
)

// Subevent is a named competition track inside an event. TeamSize is the
// maximum roster size and is meaningful only for team competitions.
type Subevent struct {
	Name            string          `bson:"name" json:"name"`
	Description     string          `bson:"description,omitempty" json:"description,omitempty"`
	CompetitionType CompetitionType `bson:"competitionType" json:"competitionType"`
	TeamSize        int             `bson:"teamSize,omitempty" json:"teamSize,omitempty"`
}

type Event struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title,omitempty" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Location    string        `bson:"location,omitempty" json:"location,omitempty"`
	ImageURL    string        `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`

	StartDateTime time.Time `bson:"startDateTime,omitempty" json:"startDateTime"`
	EndDateTime   time.Time `bson:"endDateTime,omitempty" json:"endDateTime"`

	Price  string `bson:"price,omitempty" json:"price,omitempty"`
	IsFree bool   `bson:"isFree,omitempty" json:"isFree"`
	URL    string `bson:"url,omitempty" json:"url,omitempty"`

	Subevents []Subevent `bson:"subevents,omitempty" json:"subevents,omitempty"`

	CategoryID bson.ObjectID `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	Category   *Category     `bson:"category,omitempty" json:"category,omitempty"`

	OrganizerID bson.ObjectID `bson:"organizerId,omitempty" json:"organizerId,omitempty"`
	Organizer   *User         `bson:"organizer,omitempty" json:"organizer,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Subevent returns the descriptor with the given name, nil if there is none.
// Names are unique within an event.
func (e *Event) Subevent(name string) *Subevent {
	for i := range e.Subevents {
		if e.Subevents[i].Name == name {
			return &e.Subevents[i]
		}
	}
	return nil
}

// When renders the event start for display in the given locale.
func (e *Event) When(lang string) string {
	format := "%A, %d.%m.%Y %H:%M"
	if e.StartDateTime.Hour() == 0 && e.StartDateTime.Minute() == 0 {
		format = "%A, %d.%m.%Y"
	}
	t, err := lctime.StrftimeLoc(lang, format, e.StartDateTime)
	if err != nil {
		return e.StartDateTime.Format("Monday, 02.01.2006 15:04")
	}
	return t
}

// Alias is a short display string for rosters and listings.
func (e *Event) Alias(lang string) string {
	return fmt.Sprintf("%s (%s)", e.Title, e.When(lang))
}

// Snapshot captures the event's display fields as they are right now.
func (e *Event) Snapshot() EventSnapshot {
	return EventSnapshot{
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		ImageURL:      e.ImageURL,
		StartDateTime: e.StartDateTime,
		EndDateTime:   e.EndDateTime,
		Price:         e.Price,
		IsFree:        e.IsFree,
	}
}
