package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lokhacodes/UComp/entity"
	"github.com/lokhacodes/UComp/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type eventFixture struct {
	router *gin.Engine
	events *memoryEventReader
	event  *entity.Event
}

func newEventFixture() *eventFixture {
	events := newMemoryEventReader()
	event := events.put(entity.Event{
		Title:         "Tech Carnival",
		CategoryID:    bson.NewObjectID(),
		StartDateTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
	})

	c := &EventController{
		EventService:    service.NewEventService(events, newMemoryCategoryRepo()),
		CategoryService: service.NewCategoryService(newMemoryCategoryRepo()),
	}

	r := gin.New()
	r.GET("/api/events", c.List)
	r.GET("/api/events/:id", c.Get)
	r.GET("/api/events/:id/related", c.Related)

	return &eventFixture{router: r, events: events, event: event}
}

func (f *eventFixture) get(t *testing.T, path string) map[string]any {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetEventRendersLocalizedDate(t *testing.T) {
	f := newEventFixture()

	body := f.get(t, "/api/events/"+f.event.ID.Hex())
	assert.Equal(t, "Tech Carnival", body["title"])
	assert.Equal(t, "Tuesday, 10.03.2026 09:00", body["when"])
	assert.Equal(t, "Tech Carnival (Tuesday, 10.03.2026 09:00)", body["label"])
}

func TestGetEventUnknownLangStillRenders(t *testing.T) {
	f := newEventFixture()

	// An unsupported locale degrades to the plain Go time format.
	body := f.get(t, "/api/events/"+f.event.ID.Hex()+"?lang=xx_YY")
	assert.Equal(t, f.event.StartDateTime.Format("Monday, 02.01.2006 15:04"), body["when"])
}

func TestListEventsIncludesDisplayFields(t *testing.T) {
	f := newEventFixture()

	body := f.get(t, "/api/events")
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(1), body["totalPages"])

	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	item, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Tuesday, 10.03.2026 09:00", item["when"])
	assert.NotEmpty(t, item["label"])
}

func TestRelatedEventsIncludeDisplayFields(t *testing.T) {
	f := newEventFixture()

	sibling := entity.Event{
		Title:         "Robotics Expo",
		CategoryID:    f.event.CategoryID,
		StartDateTime: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	f.events.put(sibling)

	body := f.get(t, "/api/events/"+f.event.ID.Hex()+"/related")
	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	item, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Robotics Expo", item["title"])
	// Midnight start renders date-only.
	assert.Equal(t, "Wednesday, 01.04.2026", item["when"])
}

func TestGetEventInvalidID(t *testing.T) {
	f := newEventFixture()

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/nonsense", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
