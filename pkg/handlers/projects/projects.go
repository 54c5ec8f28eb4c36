package projects

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/commands"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/respond"
	"github.com/chris/freelance-credit-ledger/pkg/lifecycle"
	"github.com/chris/freelance-credit-ledger/pkg/mapping"
	"github.com/chris/freelance-credit-ledger/pkg/metrics"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Engine is what the project handlers need from the lifecycle engine.
type Engine interface {
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	GetAgreement(ctx context.Context, agreementID string) (*models.Agreement, error)
	PostProject(ctx context.Context, clientID string, spec lifecycle.ProjectSpec) (*lifecycle.Posting, error)
	UpdateProject(ctx context.Context, projectID, clientID string, upd lifecycle.ProjectUpdate) (*models.Project, error)
	AssignFreelancer(ctx context.Context, projectID, freelancerID string) (*lifecycle.Assignment, error)
	AcceptAgreement(ctx context.Context, agreementID, freelancerID string) (*models.Agreement, error)
	CompleteProject(ctx context.Context, projectID string) (*lifecycle.Settlement, error)
	CancelProject(ctx context.Context, projectID string) (*lifecycle.Settlement, error)
	ApplyToProject(ctx context.Context, projectID, freelancerID string) (*models.Project, error)
}

// ProjectsHandler holds the dependencies for project and agreement handlers.
// Commands is optional; without it async requests are rejected.
type ProjectsHandler struct {
	Engine   Engine
	Commands commands.Sender
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewProjectsHandler creates a new ProjectsHandler.
func NewProjectsHandler(engine Engine, sender commands.Sender, m *metrics.Metrics, logger *slog.Logger) *ProjectsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectsHandler{Engine: engine, Commands: sender, Metrics: m, Logger: logger}
}

// PostProject creates an Open project.
func (h *ProjectsHandler) PostProject(w http.ResponseWriter, r *http.Request) {
	var in api.NewProject
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if in.ClientId == "" {
		respond.Error(w, r, h.Logger, apperr.Validation("client_id is required"))
		return
	}

	start := time.Now()
	posting, err := h.Engine.PostProject(r.Context(), in.ClientId, mapping.ToDomainProjectSpec(&in))
	h.Metrics.ObserveOperation("post_project", start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiPosting(posting))
}

// GetProject returns a single project.
func (h *ProjectsHandler) GetProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID) {
	project, err := h.Engine.GetProject(r.Context(), projectId.String())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiProject(project))
}

// UpdateProject edits an Open project on behalf of its client.
func (h *ProjectsHandler) UpdateProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID) {
	var in api.ProjectEdit
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if in.ClientId == "" {
		respond.Error(w, r, h.Logger, apperr.Validation("client_id is required"))
		return
	}

	start := time.Now()
	project, err := h.Engine.UpdateProject(r.Context(), projectId.String(), in.ClientId, mapping.ToDomainProjectUpdate(&in))
	h.Metrics.ObserveOperation("update_project", start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiProject(project))
}

// AssignFreelancer moves an Open project to In Progress, escrowing the budget.
func (h *ProjectsHandler) AssignFreelancer(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID, params api.LifecycleParams) {
	var in api.FreelancerRef
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if in.FreelancerId == "" {
		respond.Error(w, r, h.Logger, apperr.Validation("freelancer_id is required"))
		return
	}

	cmd := commands.Command{Action: commands.ActionAssignFreelancer, ProjectID: projectId.String(), FreelancerID: in.FreelancerId}
	if isAsync(params) {
		h.enqueue(w, r, cmd)
		return
	}

	start := time.Now()
	assignment, err := h.Engine.AssignFreelancer(r.Context(), cmd.ProjectID, cmd.FreelancerID)
	h.Metrics.ObserveOperation(string(cmd.Action), start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiAssignment(assignment))
}

// CompleteProject pays the escrow to the freelancer.
func (h *ProjectsHandler) CompleteProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID, params api.LifecycleParams) {
	h.settle(w, r, commands.Command{Action: commands.ActionCompleteProject, ProjectID: projectId.String()}, params, h.Engine.CompleteProject)
}

// CancelProject refunds any escrow to the client.
func (h *ProjectsHandler) CancelProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID, params api.LifecycleParams) {
	h.settle(w, r, commands.Command{Action: commands.ActionCancelProject, ProjectID: projectId.String()}, params, h.Engine.CancelProject)
}

func (h *ProjectsHandler) settle(w http.ResponseWriter, r *http.Request, cmd commands.Command, params api.LifecycleParams,
	op func(ctx context.Context, projectID string) (*lifecycle.Settlement, error)) {
	if isAsync(params) {
		h.enqueue(w, r, cmd)
		return
	}

	start := time.Now()
	settlement, err := op(r.Context(), cmd.ProjectID)
	h.Metrics.ObserveOperation(string(cmd.Action), start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSettlement(settlement))
}

// ApplyToProject records a freelancer's application to an Open project.
func (h *ProjectsHandler) ApplyToProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID) {
	var in api.FreelancerRef
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	project, err := h.Engine.ApplyToProject(r.Context(), projectId.String(), in.FreelancerId)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiProject(project))
}

// GetAgreement returns a single agreement.
func (h *ProjectsHandler) GetAgreement(w http.ResponseWriter, r *http.Request, agreementId openapi_types.UUID) {
	agreement, err := h.Engine.GetAgreement(r.Context(), agreementId.String())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiAgreement(agreement))
}

// AcceptAgreement lets the assigned freelancer accept a Pending agreement.
func (h *ProjectsHandler) AcceptAgreement(w http.ResponseWriter, r *http.Request, agreementId openapi_types.UUID) {
	var in api.FreelancerRef
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	start := time.Now()
	agreement, err := h.Engine.AcceptAgreement(r.Context(), agreementId.String(), in.FreelancerId)
	h.Metrics.ObserveOperation(string(commands.ActionAcceptAgreement), start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiAgreement(agreement))
}

func (h *ProjectsHandler) enqueue(w http.ResponseWriter, r *http.Request, cmd commands.Command) {
	if h.Commands == nil {
		respond.Error(w, r, h.Logger, apperr.Validation("async processing is not configured"))
		return
	}
	if err := h.Commands.Send(r.Context(), cmd); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusAccepted, api.Queued{Status: "queued", Action: string(cmd.Action), ProjectId: cmd.ProjectID})
}

func isAsync(params api.LifecycleParams) bool {
	return params.Async != nil && *params.Async
}
