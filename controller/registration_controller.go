package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/lokhacodes/UComp/entity"
	"github.com/lokhacodes/UComp/service"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var formDecoder = schema.NewDecoder()

func init() {
	formDecoder.IgnoreUnknownKeys(true)
}

type RegistrationController struct {
	RegistrationService *service.RegistrationService
}

type teamMemberRequest struct {
	Name  string `json:"name" schema:"name"`
	Email string `json:"email" schema:"email"`
	Phone string `json:"phone" schema:"phone"`
}

type createRegistrationRequest struct {
	EventID      string              `json:"eventId" schema:"eventId"`
	SubeventName string              `json:"subeventName" schema:"subeventName"`
	TeamName     string              `json:"teamName" schema:"teamName"`
	TeamMembers  []teamMemberRequest `json:"teamMembers" schema:"teamMembers"`

	ID         string `json:"id" schema:"id"`
	University string `json:"university" schema:"university"`
	Department string `json:"department" schema:"department"`
	Year       string `json:"year" schema:"year"`
}

// Create registers the calling user for an event. The registration form posts
// either JSON or urlencoded form data (team members as teamMembers.N.name and
// so on); the caller's identity always comes from the resolved user, never
// from the payload.
func (c *RegistrationController) Create(ctx *gin.Context) {
	var req createRegistrationRequest

	if strings.HasPrefix(ctx.ContentType(), "application/x-www-form-urlencoded") {
		if err := ctx.Request.ParseForm(); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}
		if err := formDecoder.Decode(&req, ctx.Request.PostForm); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}
	} else if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	eventID, err := bson.ObjectIDFromHex(req.EventID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	members := make([]entity.TeamMember, 0, len(req.TeamMembers))
	for _, m := range req.TeamMembers {
		members = append(members, entity.TeamMember{Name: m.Name, Email: m.Email, Phone: m.Phone})
	}

	registration, err := c.RegistrationService.Create(ctx.Request.Context(), CurrentUser(ctx).ID, eventID, service.CreateRegistrationInput{
		SubeventName: req.SubeventName,
		TeamName:     req.TeamName,
		TeamMembers:  members,
		AdditionalInfo: entity.AdditionalInfo{
			ID:         req.ID,
			University: req.University,
			Department: req.Department,
			Year:       req.Year,
		},
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, registration)
}

// My lists the caller's own registrations. The query is scoped to the
// resolved identity, so one user can never see another's rows.
func (c *RegistrationController) My(ctx *gin.Context) {
	registrations, err := c.RegistrationService.FindManyByUserID(ctx.Request.Context(), CurrentUser(ctx).ID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": registrations})
}

// ListByEvent is the admin roster for one event, groupable client-side by
// sub-event name.
func (c *RegistrationController) ListByEvent(ctx *gin.Context) {
	eventID, err := bson.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	registrations, err := c.RegistrationService.FindManyByEventID(ctx.Request.Context(), eventID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": registrations})
}

// ListAll is the paginated admin roster across all events.
func (c *RegistrationController) ListAll(ctx *gin.Context) {
	page := intQuery(ctx, "page", 1)
	limit := intQuery(ctx, "limit", 10)

	result, err := c.RegistrationService.FindAllPaginated(ctx.Request.Context(), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
