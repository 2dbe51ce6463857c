package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type TeamMember struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// AdditionalInfo is free text supplied by the registrant. It is stored as-is
// and never validated against a university or department enumeration.
type AdditionalInfo struct {
	ID         string `bson:"id,omitempty" json:"id,omitempty"`
	University string `bson:"university,omitempty" json:"university,omitempty"`
	Department string `bson:"department,omitempty" json:"department,omitempty"`
	Year       string `bson:"year,omitempty" json:"year,omitempty"`
}

// EventSnapshot is a denormalized copy of an event's display fields taken at
// registration time. It is written once and never re-synchronized, so a
// registration stays displayable after its event is edited or deleted.
type EventSnapshot struct {
	Title         string    `bson:"title,omitempty" json:"title,omitempty"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	Location      string    `bson:"location,omitempty" json:"location,omitempty"`
	ImageURL      string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	StartDateTime time.Time `bson:"startDateTime,omitempty" json:"startDateTime,omitempty"`
	EndDateTime   time.Time `bson:"endDateTime,omitempty" json:"endDateTime,omitempty"`
	Price         string    `bson:"price,omitempty" json:"price,omitempty"`
	IsFree        bool      `bson:"isFree,omitempty" json:"isFree,omitempty"`
}

// Registration ties a user to an event, optionally to one of its sub-events,
// and optionally to a team roster. The event reference is weak: the populated
// Event is nil once the source event is deleted, and display then falls back
// to EventSnapshot.
type Registration struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	UserID bson.ObjectID `bson:"userId,omitempty" json:"userId"`
	User   *User         `bson:"user,omitempty" json:"user,omitempty"`

	EventID bson.ObjectID `bson:"eventId,omitempty" json:"eventId,omitempty"`
	Event   *Event        `bson:"event,omitempty" json:"event,omitempty"`

	// SubeventName is a denormalized identifier, not a reference. It is
	// matched against the event's sub-event list, which keeps names unique.
	SubeventName string `bson:"subeventName,omitempty" json:"subeventName,omitempty"`

	TeamName    string       `bson:"teamName,omitempty" json:"teamName,omitempty"`
	TeamMembers []TeamMember `bson:"teamMembers,omitempty" json:"teamMembers,omitempty"`

	AdditionalInfo AdditionalInfo `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`

	EventSnapshot EventSnapshot `bson:"eventSnapshot,omitempty" json:"eventSnapshot,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt"`
}

// EventRef resolves the registration's event exactly once: either the live
// event or the snapshot taken at creation.
func (r *Registration) EventRef() EventRef {
	return EventRef{live: r.Event, snapshot: r.EventSnapshot}
}

// EventRef is a tagged union over a live event and a deleted event's
// snapshot. Accessors prefer the live document and degrade to the snapshot,
// returning zero values when a field is present in neither. They never fail.
type EventRef struct {
	live     *Event
	snapshot EventSnapshot
}

// Live reports whether the source event still exists.
func (ref EventRef) Live() bool {
	return ref.live != nil
}

func (ref EventRef) Title() string {
	if ref.live != nil {
		return ref.live.Title
	}
	return ref.snapshot.Title
}

func (ref EventRef) Description() string {
	if ref.live != nil {
		return ref.live.Description
	}
	return ref.snapshot.Description
}

func (ref EventRef) Location() string {
	if ref.live != nil {
		return ref.live.Location
	}
	return ref.snapshot.Location
}

func (ref EventRef) ImageURL() string {
	if ref.live != nil {
		return ref.live.ImageURL
	}
	return ref.snapshot.ImageURL
}

func (ref EventRef) StartDateTime() time.Time {
	if ref.live != nil {
		return ref.live.StartDateTime
	}
	return ref.snapshot.StartDateTime
}

func (ref EventRef) EndDateTime() time.Time {
	if ref.live != nil {
		return ref.live.EndDateTime
	}
	return ref.snapshot.EndDateTime
}

func (ref EventRef) Price() string {
	if ref.live != nil {
		return ref.live.Price
	}
	return ref.snapshot.Price
}

func (ref EventRef) IsFree() bool {
	if ref.live != nil {
		return ref.live.IsFree
	}
	return ref.snapshot.IsFree
}
