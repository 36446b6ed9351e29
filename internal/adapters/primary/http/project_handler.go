package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/sharmaasahill/ticket-dashboard/internal/adapters/primary/http/middleware"
	"github.com/sharmaasahill/ticket-dashboard/internal/adapters/primary/validation"
	"github.com/sharmaasahill/ticket-dashboard/internal/auth"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// ProjectHandler handles HTTP requests for projects, their memberships,
// their tickets and their activity feed.
type ProjectHandler struct {
	projectService  ports.ProjectService
	ticketService   ports.TicketService
	activityService ports.ActivityService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	projectService ports.ProjectService,
	ticketService ports.TicketService,
	activityService ports.ActivityService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		ticketService:   ticketService,
		activityService: activityService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "project"),
	}
}

// Router sets up a new chi Router for all project-related routes.
func (h *ProjectHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all project endpoints.
func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListProjects)
	r.Post("/", h.HandleCreateProject)

	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", h.HandleGetProject)
		r.Patch("/", h.HandleUpdateProject)
		r.Delete("/", h.HandleDeleteProject)

		r.Get("/members", h.HandleListMembers)
		r.Post("/members", h.HandleAddMember)

		r.Get("/tickets", h.HandleListProjectTickets)
		r.Get("/activities", h.HandleListActivities)
	})
}

// --- Request/Response DTOs ---

// CreateProjectRequest defines the expected JSON body for creating a project
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate validates the create project request
func (r *CreateProjectRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, domain.MaxProjectNameLength)

	v.MaxLength("description", r.Description, domain.MaxDescriptionLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateProjectRequest defines the expected JSON body for project updates.
// Absent fields are left untouched.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Validate validates the update project request
func (r *UpdateProjectRequest) Validate() error {
	v := validation.NewValidator()

	if r.Name != nil {
		v.Required("name", *r.Name).
			MaxLength("name", *r.Name, domain.MaxProjectNameLength)
	}
	if r.Description != nil {
		v.MaxLength("description", *r.Description, domain.MaxDescriptionLength)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AddMemberRequest defines the expected JSON body for adding a member
type AddMemberRequest struct {
	UserID string `json:"userId"`
}

// Validate validates the add member request
func (r *AddMemberRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("userId", r.UserID).
		UUID("userId", r.UserID)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ProjectDTO defines the JSON response for projects.
type ProjectDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OwnerID     string  `json:"ownerId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

func toProjectDTO(project *domain.Project) ProjectDTO {
	var updatedAt *string
	if project.UpdatedAt != nil {
		value := project.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return ProjectDTO{
		ID:          project.ID.String(),
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID.String(),
		CreatedAt:   project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   updatedAt,
	}
}

// MemberDTO defines the JSON response for project members.
type MemberDTO struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func toMemberDTOs(members []*domain.Member) []MemberDTO {
	response := make([]MemberDTO, 0, len(members))
	for _, member := range members {
		response = append(response, MemberDTO{
			UserID: member.UserID.String(),
			Email:  member.Email,
			Name:   member.Name,
		})
	}
	return response
}

// ActivityDTO defines the JSON response for activity feed entries.
type ActivityDTO struct {
	ID        int64   `json:"id"`
	ProjectID string  `json:"projectId"`
	TicketID  *string `json:"ticketId"`
	ActorID   string  `json:"actorId"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	CreatedAt string  `json:"createdAt"`
}

func toActivityDTOs(activities []*domain.Activity) []ActivityDTO {
	response := make([]ActivityDTO, 0, len(activities))
	for _, activity := range activities {
		var ticketID *string
		if activity.TicketID != nil {
			value := activity.TicketID.String()
			ticketID = &value
		}

		response = append(response, ActivityDTO{
			ID:        activity.ID,
			ProjectID: activity.ProjectID.String(),
			TicketID:  ticketID,
			ActorID:   activity.ActorID.String(),
			Type:      string(activity.Type),
			Message:   activity.Message,
			CreatedAt: activity.CreatedAt.Format(time.RFC3339),
		})
	}
	return response
}

// --- Handlers ---

// HandleListProjects handles GET /projects
func (h *ProjectHandler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	projects, err := h.projectService.ListProjects(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]ProjectDTO, 0, len(projects))
	for _, project := range projects {
		response = append(response, toProjectDTO(project))
	}

	WriteList(w, response)
}

// HandleCreateProject handles POST /projects
func (h *ProjectHandler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateProjectRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), ports.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     claims.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project created",
		"project_id", project.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toProjectDTO(project))
}

// HandleGetProject handles GET /projects/{projectID}
func (h *ProjectHandler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.GetProject(r.Context(), projectID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toProjectDTO(project))
}

// HandleUpdateProject handles PATCH /projects/{projectID}
func (h *ProjectHandler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateProjectRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), ports.UpdateProjectParams{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project updated",
		"project_id", projectID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toProjectDTO(project))
}

// HandleDeleteProject handles DELETE /projects/{projectID}
func (h *ProjectHandler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), projectID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project deleted",
		"project_id", projectID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleListMembers handles GET /projects/{projectID}/members
func (h *ProjectHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	members, err := h.projectService.ListMembers(r.Context(), projectID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toMemberDTOs(members))
}

// HandleAddMember handles POST /projects/{projectID}/members
func (h *ProjectHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[AddMemberRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.projectService.AddMember(r.Context(), projectID, userID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("member added",
		"project_id", projectID,
		"member_id", userID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, SuccessResponse{Message: "Member added"})
}

// HandleListProjectTickets handles GET /projects/{projectID}/tickets
func (h *ProjectHandler) HandleListProjectTickets(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	tickets, err := h.ticketService.ListProjectTickets(r.Context(), projectID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toTicketDTOs(tickets))
}

// HandleListActivities handles GET /projects/{projectID}/activities
func (h *ProjectHandler) HandleListActivities(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	activities, err := h.activityService.ListRecent(r.Context(), projectID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toActivityDTOs(activities))
}

// --- Helper methods ---

func (h *ProjectHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

func (h *ProjectHandler) parseProjectID(r *http.Request) (uuid.UUID, error) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		v := validation.NewValidator()
		v.Custom("projectID", false, "Invalid project ID")
		return uuid.Nil, v.Errors()
	}
	return projectID, nil
}
