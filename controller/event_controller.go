package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lokhacodes/UComp/entity"
	"github.com/lokhacodes/UComp/service"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type EventController struct {
	EventService    *service.EventService
	CategoryService *service.CategoryService
}

// defaultLocale drives date rendering when the client sends no lang query.
const defaultLocale = "en_US"

// eventResponse decorates an event with display strings rendered for the
// requested locale: When is the localized start date and Label the short
// listing form.
type eventResponse struct {
	*entity.Event
	When  string `json:"when"`
	Label string `json:"label"`
}

func newEventResponse(event *entity.Event, lang string) eventResponse {
	return eventResponse{
		Event: event,
		When:  event.When(lang),
		Label: event.Alias(lang),
	}
}

func newEventResponses(events []*entity.Event, lang string) []eventResponse {
	responses := make([]eventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, newEventResponse(event, lang))
	}
	return responses
}

type eventRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Location      string            `json:"location"`
	ImageURL      string            `json:"imageUrl"`
	StartDateTime time.Time         `json:"startDateTime"`
	EndDateTime   time.Time         `json:"endDateTime"`
	Price         string            `json:"price"`
	IsFree        bool              `json:"isFree"`
	URL           string            `json:"url"`
	CategoryID    string            `json:"categoryId"`
	Subevents     []entity.Subevent `json:"subevents"`
}

func (r *eventRequest) toEntity() (entity.Event, error) {
	event := entity.Event{
		Title:         r.Title,
		Description:   r.Description,
		Location:      r.Location,
		ImageURL:      r.ImageURL,
		StartDateTime: r.StartDateTime,
		EndDateTime:   r.EndDateTime,
		Price:         r.Price,
		IsFree:        r.IsFree,
		URL:           r.URL,
		Subevents:     r.Subevents,
	}

	if r.CategoryID != "" {
		categoryID, err := bson.ObjectIDFromHex(r.CategoryID)
		if err != nil {
			return entity.Event{}, err
		}
		event.CategoryID = categoryID
	}

	return event, nil
}

func (c *EventController) List(ctx *gin.Context) {
	page := intQuery(ctx, "page", 1)
	limit := intQuery(ctx, "limit", 6)

	result, err := c.EventService.GetAll(ctx.Request.Context(), ctx.Query("query"), ctx.Query("category"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      newEventResponses(result.Items, ctx.DefaultQuery("lang", defaultLocale)),
		"total":      result.Total,
		"page":       result.Page,
		"pageSize":   result.PageSize,
		"totalPages": result.TotalPages,
	})
}

func (c *EventController) Get(ctx *gin.Context) {
	eventID, err := bson.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := c.EventService.FindOneByID(ctx.Request.Context(), eventID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newEventResponse(event, ctx.DefaultQuery("lang", defaultLocale)))
}

func (c *EventController) Related(ctx *gin.Context) {
	eventID, err := bson.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := c.EventService.FindOneByID(ctx.Request.Context(), eventID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	page := intQuery(ctx, "page", 1)
	limit := intQuery(ctx, "limit", 3)

	related, err := c.EventService.FindRelated(ctx.Request.Context(), event.CategoryID, event.ID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": newEventResponses(related, ctx.DefaultQuery("lang", defaultLocale))})
}

func (c *EventController) Create(ctx *gin.Context) {
	var req eventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := req.toEntity()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	created, err := c.EventService.Create(ctx.Request.Context(), CurrentUser(ctx).ID, event)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (c *EventController) Update(ctx *gin.Context) {
	eventID, err := bson.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req eventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := req.toEntity()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	event.ID = eventID

	updated, err := c.EventService.Update(ctx.Request.Context(), CurrentUser(ctx).ID, event)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (c *EventController) Delete(ctx *gin.Context) {
	eventID, err := bson.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := c.EventService.Delete(ctx.Request.Context(), CurrentUser(ctx).ID, eventID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *EventController) ListCategories(ctx *gin.Context) {
	categories, err := c.CategoryService.FindAll(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": categories})
}

func (c *EventController) CreateCategory(ctx *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category, err := c.CategoryService.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

func intQuery(ctx *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
