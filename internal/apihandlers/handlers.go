package apihandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"reelmatch/internal/app"
	"reelmatch/internal/catalog"
	"reelmatch/internal/models"
	"reelmatch/internal/services"
	"reelmatch/internal/sharelink"
	"reelmatch/internal/store"
	"reelmatch/internal/viewstate"
	"reelmatch/pkg/recommender"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a}
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(a *app.App) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Logging(), Recovery())

	h := NewAPIHandler(a)
	router.GET("/health", h.HealthHandler)
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

// RegisterRoutes mounts the API under r.
func (h *APIHandler) RegisterRoutes(r gin.IRouter) {
	recGroup := r.Group("/recommendations")
	{
		recGroup.POST("", h.RecommendHandler)
		recGroup.POST("/jobs", h.EnqueueRecommendationHandler)
	}
	r.GET("/jobs/:id", h.GetJobHandler)

	r.GET("/services", h.ListServicesHandler)
	r.GET("/services/:id", h.GetServiceHandler)
	r.GET("/categories", h.ListCategoriesHandler)

	savedGroup := r.Group("/saved")
	{
		savedGroup.GET("", h.ListSavedHandler)
		savedGroup.POST("", h.SaveHandler)
		savedGroup.DELETE("/:serviceId", h.DeleteSavedHandler)
	}

	shareGroup := r.Group("/share")
	{
		shareGroup.POST("", h.CreateShareLinkHandler)
		shareGroup.GET("/resolve", h.ResolveShareLinkHandler)
	}

	r.GET("/history", h.ListHistoryHandler)
}

// --- Recommendations ---

type RecommendRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

// RecommendResponse is also the shape of a completed job's resolution.
type RecommendResponse struct {
	Query           string                      `json:"query"`
	Source          string                      `json:"source"`
	State           viewstate.State             `json:"state"`
	Recommendations []models.RecommendationItem `json:"recommendations"`
	Cards           []viewstate.Card            `json:"cards"`
}

// newRecommendResponse renders res through session, which must already hold it.
func newRecommendResponse(res recommender.Resolution, session *viewstate.Session) RecommendResponse {
	items := res.Result.Recommendations
	if items == nil {
		items = []models.RecommendationItem{}
	}
	return RecommendResponse{
		Query:           res.Query,
		Source:          res.Source,
		State:           session.State(),
		Recommendations: items,
		Cards:           session.Cards(),
	}
}

// bindOptionalJSON accepts an empty body as the zero value.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *APIHandler) RecommendHandler(c *gin.Context) {
	var req RecommendRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Category != "" && !catalog.IsCategory(req.Category) {
		BadRequest(c, fmt.Sprintf("Unknown category %q", req.Category))
		return
	}

	session := viewstate.NewSession()
	res, err := h.App.RecommendationService.RecommendSession(c.Request.Context(), session, req.Query)
	if err != nil {
		if errors.Is(err, services.ErrResolutionAborted) {
			ServiceUnavailable(c, "Recommendation was aborted before it completed")
			return
		}
		Internal(c, fmt.Sprintf("RecommendHandler: %v", err))
		return
	}
	session.SelectCategory(req.Category)
	c.JSON(http.StatusOK, gin.H{"data": newRecommendResponse(res, session)})
}

func (h *APIHandler) EnqueueRecommendationHandler(c *gin.Context) {
	var req RecommendRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	jobID, err := h.App.JobService.EnqueueRecommendation(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, services.ErrJobsDisabled) {
			ServiceUnavailable(c, "Background jobs are disabled")
			return
		}
		Internal(c, fmt.Sprintf("EnqueueRecommendationHandler: %v", err))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{
		"job_id": jobID,
		"state":  viewstate.StateForJobStatus(models.JobStatusEnqueued),
	}})
}

type JobResponse struct {
	Job        *models.BackgroundJob `json:"job"`
	State      viewstate.State       `json:"state"`
	Resolution *RecommendResponse    `json:"resolution,omitempty"`
}

func (h *APIHandler) GetJobHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "Invalid job ID")
		return
	}

	job, err := h.App.JobService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "Job not found")
			return
		}
		Internal(c, fmt.Sprintf("GetJobHandler: %v", err))
		return
	}

	resp := JobResponse{Job: job, State: viewstate.StateForJobStatus(job.Status)}
	if job.Status == models.JobStatusCompleted && len(job.Result) > 0 {
		var res recommender.Resolution
		if err := json.Unmarshal(job.Result, &res); err != nil {
			log.WithError(err).WithField("job_id", id).Warn("Stored job result is not a resolution")
		} else {
			session := viewstate.NewSession()
			ticket, _ := session.Submit(res.Query)
			session.Resolve(ticket, res.Result)
			rr := newRecommendResponse(res, session)
			resp.Resolution = &rr
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// --- Catalog ---

func (h *APIHandler) ListServicesHandler(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !catalog.IsCategory(category) {
		BadRequest(c, fmt.Sprintf("Unknown category %q", category))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": viewstate.FilterCards(viewstate.BrowseCards(), category)})
}

func (h *APIHandler) GetServiceHandler(c *gin.Context) {
	svc, ok := catalog.Lookup(c.Param("id"))
	if !ok {
		NotFound(c, "Service not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": svc})
}

func (h *APIHandler) ListCategoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": catalog.Categories()})
}

// --- Saved ---

type SaveRequest struct {
	ServiceID string `json:"serviceId"`
	Reason    string `json:"reason"`
}

func (h *APIHandler) ListSavedHandler(c *gin.Context) {
	cards, err := h.App.SavedService.Cards(c.Request.Context())
	if err != nil {
		Internal(c, fmt.Sprintf("ListSavedHandler: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cards})
}

func (h *APIHandler) SaveHandler(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	saved, existed, err := h.App.SavedService.Save(c.Request.Context(), req.ServiceID, req.Reason)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			BadRequest(c, err.Error())
			return
		}
		Internal(c, fmt.Sprintf("SaveHandler: %v", err))
		return
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"data": gin.H{"saved": saved, "existed": existed}})
}

func (h *APIHandler) DeleteSavedHandler(c *gin.Context) {
	err := h.App.SavedService.Delete(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "Saved recommendation not found")
			return
		}
		Internal(c, fmt.Sprintf("DeleteSavedHandler: %v", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Share links ---

type ShareRequest struct {
	ServiceID string `json:"serviceId"`
	Reason    string `json:"reason"`
	BaseURL   string `json:"base_url"`
}

func (h *APIHandler) CreateShareLinkHandler(c *gin.Context) {
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !catalog.Exists(req.ServiceID) {
		BadRequest(c, fmt.Sprintf("Unknown service %q", req.ServiceID))
		return
	}
	base := req.BaseURL
	if base == "" {
		base = h.App.Config.Server.BaseURL
	}

	link, err := sharelink.Encode(base, req.ServiceID, req.Reason)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"url": link}})
}

func (h *APIHandler) ResolveShareLinkHandler(c *gin.Context) {
	result, err := sharelink.FromValues(c.Query(sharelink.ParamServiceID), c.Query(sharelink.ParamReason))
	if err != nil {
		if errors.Is(err, models.ErrUnknownService) {
			NotFound(c, err.Error())
			return
		}
		BadRequest(c, err.Error())
		return
	}
	session := viewstate.NewSession()
	if !session.LoadShared(result.Recommendations[0]) {
		NotFound(c, "Shared service is not in the catalog")
		return
	}
	res := recommender.Resolution{Query: session.Query(), Source: models.SourceShared, Result: session.Result()}
	c.JSON(http.StatusOK, gin.H{"data": newRecommendResponse(res, session)})
}

// --- History ---

func (h *APIHandler) ListHistoryHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			BadRequest(c, "Invalid limit parameter")
			return
		}
		limit = n
	}

	queries, err := h.App.HistoryService.List(c.Request.Context(), limit)
	if err != nil {
		Internal(c, fmt.Sprintf("ListHistoryHandler: %v", err))
		return
	}
	if queries == nil {
		queries = []*models.RecommendationQuery{}
	}
	c.JSON(http.StatusOK, gin.H{"data": queries})
}

// --- Health ---

func (h *APIHandler) HealthHandler(c *gin.Context) {
	code, status, storeStatus := http.StatusOK, "ok", "ok"
	if err := h.App.Store.Ping(c.Request.Context()); err != nil {
		log.WithError(err).Warn("Health check: store ping failed")
		code, status, storeStatus = http.StatusServiceUnavailable, "degraded", err.Error()
	}
	cs := h.App.CompletionService
	c.JSON(code, gin.H{
		"status": status,
		"store":  storeStatus,
		"ai": gin.H{
			"provider": cs.Name(),
			"model":    cs.ModelName(),
			"status":   cs.Status().String(),
		},
		"jobs_enabled": h.App.JobService.Enabled(),
	})
}
