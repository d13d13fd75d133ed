package handlers

import (
	"net/http"

	"interviewhub/internal/logger"
	"interviewhub/internal/middleware"
	"interviewhub/internal/models"
	"interviewhub/internal/services"
	"interviewhub/internal/utils"

	"github.com/gin-gonic/gin"
)

type ExperienceHandler struct {
	base
	experiences *services.ExperienceService
	tracker     *services.Tracker
}

func NewExperienceHandler(log *logger.Logger, details bool, experiences *services.ExperienceService, tracker *services.Tracker) *ExperienceHandler {
	return &ExperienceHandler{
		base:        newBase(log, "ExperienceHandler", details),
		experiences: experiences,
		tracker:     tracker,
	}
}

// List GET /experiences
func (h *ExperienceHandler) List(c *gin.Context) {
	h.tracker.TrackVisit(c.Request.Context(), models.SiteVisit{
		UserID:    middleware.CurrentUserID(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		PageURL:   c.Request.URL.RequestURI(),
		Referrer:  c.Request.Referer(),
		SessionID: middleware.VisitorID(c),
	})

	filter := services.ListFilter{
		Search:  c.Query("search"),
		Result:  c.Query("result"),
		Company: c.Query("company"),
		Page:    utils.PositiveInt(c.Query("page"), services.DefaultPage),
		Limit:   utils.PositiveInt(c.Query("limit"), services.DefaultLimit),
	}
	res, err := h.experiences.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Detail GET /experiences/:id
func (h *ExperienceHandler) Detail(c *gin.Context) {
	id, err := experienceID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	viewer := services.Viewer{
		UserID: middleware.CurrentUserID(c),
		IP:     c.ClientIP(),
	}
	detail, err := h.experiences.Get(c.Request.Context(), id, viewer)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Create POST /experiences
func (h *ExperienceHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var in services.CreateExperienceInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	exp, err := h.experiences.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Experience created successfully",
		"experience": exp,
	})
}
