// Package lifecycle drives projects through Open, In Progress, Completed and
// Cancelled, moving the escrowed budget through the ledger on each step.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/events"
	"github.com/chris/freelance-credit-ledger/pkg/ledger"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
	"github.com/google/uuid"
)

// maxKeyRefreshes bounds how often an operation re-derives its lock keys when
// the project's parties changed between the pre-read and the locked read.
const maxKeyRefreshes = 3

var errStaleKeys = errors.New("project parties changed since keys were taken")

// Repository is what the engine needs from storage.
type Repository interface {
	storage.Reader
	storage.Transactor
}

// ProjectSpec describes a project to post.
type ProjectSpec struct {
	Title       string
	Description string
	Budget      int64
	Deadline    *time.Time
	Categories  []string
}

// ProjectUpdate lists the fields a client may change on an Open project.
// Nil fields are left as they are. Status is not editable.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Budget      *int64
	Deadline    *time.Time
	Categories  *[]string
}

// Posting is the result of PostProject.
type Posting struct {
	Project models.Project      `json:"project"`
	Fee     *models.Transaction `json:"fee,omitempty"`
}

// Assignment is the result of AssignFreelancer.
type Assignment struct {
	Project       models.Project     `json:"project"`
	Agreement     models.Agreement   `json:"agreement"`
	Escrow        models.Transaction `json:"escrow"`
	ClientBalance int64              `json:"client_balance"`
}

// Settlement is the result of CompleteProject and CancelProject. Transaction
// is the payment or refund, nil when no escrow was held.
type Settlement struct {
	Project     models.Project      `json:"project"`
	Agreement   *models.Agreement   `json:"agreement,omitempty"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// Engine implements the project lifecycle operations.
type Engine struct {
	repo       Repository
	publisher  events.Publisher
	logger     *slog.Logger
	postingFee int64
	now        func() time.Time
}

// NewEngine creates an Engine. postingFee is debited from the client on every
// PostProject; zero makes posting free.
func NewEngine(repo Repository, publisher events.Publisher, logger *slog.Logger, postingFee int64) *Engine {
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if postingFee < 0 {
		postingFee = 0
	}
	return &Engine{
		repo:       repo,
		publisher:  publisher,
		logger:     logger,
		postingFee: postingFee,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetProject returns the current state of a project.
func (e *Engine) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	return e.repo.GetProject(ctx, projectID)
}

// GetAgreement returns the current state of an agreement.
func (e *Engine) GetAgreement(ctx context.Context, agreementID string) (*models.Agreement, error) {
	return e.repo.GetAgreement(ctx, agreementID)
}

// PostProject creates an Open project owned by clientID. The budget is not
// checked against the client's balance here; it is escrowed at assignment.
func (e *Engine) PostProject(ctx context.Context, clientID string, spec ProjectSpec) (*Posting, error) {
	if strings.TrimSpace(spec.Title) == "" {
		return nil, apperr.Validation("project title is required")
	}
	if spec.Budget <= 0 {
		return nil, apperr.Validation("project budget must be positive, got %d", spec.Budget)
	}

	now := e.now()
	project := &models.Project{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Title:       spec.Title,
		Description: spec.Description,
		Budget:      spec.Budget,
		Deadline:    spec.Deadline,
		Categories:  slices.Clone(spec.Categories),
		Status:      models.ProjectOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var (
		staged *models.Project
		fee    *models.Transaction
	)
	err := e.repo.Transaction(ctx, []string{clientID, project.ID}, func(ctx context.Context, tx storage.Tx) error {
		client, err := tx.GetAccount(ctx, clientID)
		if err != nil {
			return err
		}
		if !client.IsClient() {
			return apperr.Validation("account %s is not a client", clientID)
		}

		fee = nil
		if e.postingFee > 0 {
			fee, err = ledger.Apply(ctx, tx, ledger.Entry{
				AccountID: clientID,
				Amount:    -e.postingFee,
				Reason:    models.ReasonPostingFee,
				ProjectID: project.ID,
			}, now)
			if err != nil {
				return err
			}
		}

		staged = project.Clone()
		if err := tx.SaveProject(ctx, staged); err != nil {
			return err
		}
		return tx.AppendToCollection(ctx, storage.EntityAccount, clientID, models.FieldProjects, project.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to post project for client %s: %w", clientID, err)
	}
	posting := &Posting{Project: *staged, Fee: fee}

	events.Notify(ctx, e.logger, e.publisher,
		events.New(events.ProjectPosted, project.ID, now).
			WithAccount(clientID, project.Budget).
			WithStatus(string(models.ProjectOpen)))
	e.logger.InfoContext(ctx, "project posted", "project_id", project.ID, "client_id", clientID, "budget", project.Budget)
	return posting, nil
}

// AssignFreelancer escrows the budget from the client, creates a Pending
// agreement and moves the project to In Progress. Only Open projects can be
// assigned.
func (e *Engine) AssignFreelancer(ctx context.Context, projectID, freelancerID string) (*Assignment, error) {
	var (
		project   *models.Project
		agreement *models.Agreement
		escrow    *models.Transaction
		balance   int64
	)
	err := e.withProject(ctx, projectID, []string{freelancerID}, func(ctx context.Context, tx storage.Tx, p *models.Project) error {
		project = p
		if err := checkTransition(project, models.ProjectInProgress, "assign"); err != nil {
			return err
		}
		freelancer, err := tx.GetAccount(ctx, freelancerID)
		if err != nil {
			return err
		}
		if !freelancer.IsFreelancer() {
			return apperr.Validation("account %s is not a freelancer", freelancerID)
		}

		now := e.now()
		escrow, err = ledger.Apply(ctx, tx, ledger.Entry{
			AccountID: project.ClientID,
			Amount:    -project.Budget,
			Reason:    models.ReasonEscrow,
			ProjectID: project.ID,
		}, now)
		if err != nil {
			return err
		}

		agreement = &models.Agreement{
			ID:           uuid.NewString(),
			ClientID:     project.ClientID,
			FreelancerID: freelancerID,
			ProjectID:    project.ID,
			Title:        project.Title,
			Description:  project.Description,
			Status:       models.AgreementPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.SaveAgreement(ctx, agreement); err != nil {
			return err
		}

		project.FreelancerID = freelancerID
		project.AgreementID = agreement.ID
		project.Escrow = &models.Escrow{TransactionID: escrow.ID, Amount: project.Budget, Status: models.EscrowHeld}
		project.Status = models.ProjectInProgress
		project.UpdatedAt = now
		if err := tx.SaveProject(ctx, project); err != nil {
			return err
		}

		links := []struct{ account, field, ref string }{
			{project.ClientID, models.FieldAgreements, agreement.ID},
			{freelancerID, models.FieldAgreements, agreement.ID},
			{freelancerID, models.FieldProjects, project.ID},
		}
		for _, l := range links {
			if err := tx.AppendToCollection(ctx, storage.EntityAccount, l.account, l.field, l.ref); err != nil {
				return err
			}
		}

		client, err := tx.GetAccount(ctx, project.ClientID)
		if err != nil {
			return err
		}
		balance = client.Credits
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign freelancer %s to project %s: %w", freelancerID, projectID, err)
	}
	result := &Assignment{
		Project:       *project,
		Agreement:     *agreement,
		Escrow:        *escrow,
		ClientBalance: balance,
	}

	events.Notify(ctx, e.logger, e.publisher,
		events.New(events.ProjectAssigned, projectID, result.Escrow.Timestamp).
			WithAccount(result.Project.ClientID, result.Escrow.Amount).
			WithStatus(string(result.Project.Status)))
	e.logger.InfoContext(ctx, "freelancer assigned",
		"project_id", projectID,
		"freelancer_id", freelancerID,
		"agreement_id", result.Agreement.ID,
		"escrow", result.Project.Budget)
	return result, nil
}

// AcceptAgreement lets the assigned freelancer move a Pending agreement to
// Active while its project is In Progress.
func (e *Engine) AcceptAgreement(ctx context.Context, agreementID, freelancerID string) (*models.Agreement, error) {
	pre, err := e.repo.GetAgreement(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	var accepted *models.Agreement
	err = e.repo.Transaction(ctx, []string{pre.ProjectID, freelancerID}, func(ctx context.Context, tx storage.Tx) error {
		agreement, err := tx.GetAgreement(ctx, agreementID)
		if err != nil {
			return err
		}
		accepted = agreement
		if agreement.FreelancerID != freelancerID {
			return apperr.Validation("agreement %s is not addressed to freelancer %s", agreementID, freelancerID)
		}
		if agreement.Status != models.AgreementPending {
			return &apperr.StateError{Entity: "agreement", ID: agreementID, Current: string(agreement.Status), Op: "accept",
				Allowed: []string{string(models.AgreementPending)}}
		}
		project, err := tx.GetProject(ctx, agreement.ProjectID)
		if err != nil {
			return err
		}
		if project.Status != models.ProjectInProgress {
			return &apperr.StateError{Entity: "project", ID: project.ID, Current: string(project.Status), Op: "accept agreement for",
				Allowed: []string{string(models.ProjectInProgress)}}
		}

		agreement.Status = models.AgreementActive
		agreement.UpdatedAt = e.now()
		return tx.SaveAgreement(ctx, agreement)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept agreement %s: %w", agreementID, err)
	}

	events.Notify(ctx, e.logger, e.publisher,
		events.New(events.AgreementAccepted, agreementID, accepted.UpdatedAt).
			WithAccount(freelancerID, 0).
			WithStatus(string(accepted.Status)))
	return accepted, nil
}

// CompleteProject pays the escrowed budget to the freelancer and moves the
// project and its agreement to Completed. Only In Progress projects can be
// completed.
func (e *Engine) CompleteProject(ctx context.Context, projectID string) (*Settlement, error) {
	var (
		project   *models.Project
		agreement *models.Agreement
		payment   *models.Transaction
	)
	err := e.withProject(ctx, projectID, nil, func(ctx context.Context, tx storage.Tx, p *models.Project) error {
		project = p
		if err := checkTransition(project, models.ProjectCompleted, "complete"); err != nil {
			return err
		}
		var err error
		agreement, err = tx.GetAgreement(ctx, project.AgreementID)
		if err != nil {
			return err
		}
		if !agreement.Status.Open() {
			return &apperr.StateError{Entity: "agreement", ID: agreement.ID, Current: string(agreement.Status), Op: "complete",
				Allowed: []string{string(models.AgreementPending), string(models.AgreementActive)}}
		}
		if project.Escrow == nil || project.Escrow.Status != models.EscrowHeld {
			return &apperr.StateError{Entity: "escrow", ID: project.ID, Current: escrowStatus(project.Escrow), Op: "release",
				Allowed: []string{string(models.EscrowHeld)}}
		}

		now := e.now()
		payment, err = ledger.Apply(ctx, tx, ledger.Entry{
			AccountID: project.FreelancerID,
			Amount:    project.Escrow.Amount,
			Reason:    models.ReasonProjectPayment,
			ProjectID: project.ID,
		}, now)
		if err != nil {
			return err
		}

		project.Escrow.Status = models.EscrowReleased
		project.Status = models.ProjectCompleted
		project.UpdatedAt = now
		agreement.Status = models.AgreementCompleted
		agreement.UpdatedAt = now
		if err := tx.SaveProject(ctx, project); err != nil {
			return err
		}
		return tx.SaveAgreement(ctx, agreement)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete project %s: %w", projectID, err)
	}
	a := *agreement
	result := &Settlement{Project: *project, Agreement: &a, Transaction: payment}

	events.Notify(ctx, e.logger, e.publisher,
		events.New(events.ProjectCompleted, projectID, result.Transaction.Timestamp).
			WithAccount(result.Project.FreelancerID, result.Transaction.Amount).
			WithStatus(string(result.Project.Status)))
	e.logger.InfoContext(ctx, "project completed",
		"project_id", projectID,
		"freelancer_id", result.Project.FreelancerID,
		"payment", result.Transaction.Amount)
	return result, nil
}

// CancelProject refunds any held escrow to the client, terminates the
// agreement if there is one and moves the project to Cancelled. Open and In
// Progress projects can be cancelled. A posting fee is not refunded.
func (e *Engine) CancelProject(ctx context.Context, projectID string) (*Settlement, error) {
	var (
		project   *models.Project
		agreement *models.Agreement
		refund    *models.Transaction
	)
	err := e.withProject(ctx, projectID, nil, func(ctx context.Context, tx storage.Tx, p *models.Project) error {
		project, agreement, refund = p, nil, nil
		if err := checkTransition(project, models.ProjectCancelled, "cancel"); err != nil {
			return err
		}

		now := e.now()
		if project.Escrow != nil && project.Escrow.Status == models.EscrowHeld {
			var err error
			refund, err = ledger.Apply(ctx, tx, ledger.Entry{
				AccountID: project.ClientID,
				Amount:    project.Escrow.Amount,
				Reason:    models.ReasonEscrowRefund,
				ProjectID: project.ID,
			}, now)
			if err != nil {
				return err
			}
			project.Escrow.Status = models.EscrowRefunded
		}

		if project.AgreementID != "" {
			var err error
			agreement, err = tx.GetAgreement(ctx, project.AgreementID)
			if err != nil {
				return err
			}
			if agreement.Status.Open() {
				agreement.Status = models.AgreementTerminated
				agreement.UpdatedAt = now
				if err := tx.SaveAgreement(ctx, agreement); err != nil {
					return err
				}
			}
		}

		project.Status = models.ProjectCancelled
		project.UpdatedAt = now
		return tx.SaveProject(ctx, project)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel project %s: %w", projectID, err)
	}
	result := &Settlement{Project: *project, Transaction: refund}
	if agreement != nil {
		a := *agreement
		result.Agreement = &a
	}

	evt := events.New(events.ProjectCancelled, projectID, result.Project.UpdatedAt).
		WithStatus(string(result.Project.Status))
	if result.Transaction != nil {
		evt = evt.WithAccount(result.Project.ClientID, result.Transaction.Amount)
	}
	events.Notify(ctx, e.logger, e.publisher, evt)
	e.logger.InfoContext(ctx, "project cancelled", "project_id", projectID, "refunded", result.Transaction != nil)
	return result, nil
}

// ApplyToProject records a freelancer's application to an Open project.
// Applying twice is a no-op.
func (e *Engine) ApplyToProject(ctx context.Context, projectID, freelancerID string) (*models.Project, error) {
	var applied *models.Project
	err := e.repo.Transaction(ctx, []string{projectID, freelancerID}, func(ctx context.Context, tx storage.Tx) error {
		project, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return err
		}
		if project.Status != models.ProjectOpen {
			return &apperr.StateError{Entity: "project", ID: projectID, Current: string(project.Status), Op: "apply to",
				Allowed: []string{string(models.ProjectOpen)}}
		}
		freelancer, err := tx.GetAccount(ctx, freelancerID)
		if err != nil {
			return err
		}
		if !freelancer.IsFreelancer() {
			return apperr.Validation("account %s is not a freelancer", freelancerID)
		}

		if err := tx.AppendToCollection(ctx, storage.EntityAccount, freelancerID, models.FieldAppliedProjects, projectID); err != nil {
			return err
		}
		applied = project
		return tx.AppendToCollection(ctx, storage.EntityProject, projectID, models.FieldApplicants, freelancerID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply to project %s: %w", projectID, err)
	}

	events.Notify(ctx, e.logger, e.publisher,
		events.New(events.ProjectApplied, projectID, e.now()).WithAccount(freelancerID, 0))
	return applied, nil
}

// UpdateProject lets the owning client edit an Open project. Once a
// freelancer is assigned the budget is escrowed and the terms are fixed.
func (e *Engine) UpdateProject(ctx context.Context, projectID, clientID string, upd ProjectUpdate) (*models.Project, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, apperr.Validation("project title is required")
	}
	if upd.Budget != nil && *upd.Budget <= 0 {
		return nil, apperr.Validation("project budget must be positive, got %d", *upd.Budget)
	}

	var updated *models.Project
	err := e.repo.Transaction(ctx, []string{projectID}, func(ctx context.Context, tx storage.Tx) error {
		project, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return err
		}
		if project.ClientID != clientID {
			return apperr.Validation("only the client of project %s may edit it", projectID)
		}
		if project.Status != models.ProjectOpen {
			return &apperr.StateError{Entity: "project", ID: projectID, Current: string(project.Status), Op: "edit",
				Allowed: []string{string(models.ProjectOpen)}}
		}

		if upd.Title != nil {
			project.Title = *upd.Title
		}
		if upd.Description != nil {
			project.Description = *upd.Description
		}
		if upd.Budget != nil {
			project.Budget = *upd.Budget
		}
		if upd.Deadline != nil {
			d := *upd.Deadline
			project.Deadline = &d
		}
		if upd.Categories != nil {
			project.Categories = slices.Clone(*upd.Categories)
		}
		project.UpdatedAt = e.now()
		updated = project
		return tx.SaveProject(ctx, project)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", projectID, err)
	}

	events.Notify(ctx, e.logger, e.publisher,
		events.New(events.ProjectUpdated, projectID, updated.UpdatedAt).
			WithAccount(clientID, updated.Budget).
			WithStatus(string(updated.Status)))
	return updated, nil
}

// withProject runs fn in a transaction holding the project, its client, its
// freelancer and any extra keys. The parties are learnt from a pre-read; if
// they changed by the time the project is read under lock, the keys are
// re-derived and fn is run again.
func (e *Engine) withProject(ctx context.Context, projectID string, extra []string, fn func(ctx context.Context, tx storage.Tx, project *models.Project) error) error {
	for attempt := 1; ; attempt++ {
		pre, err := e.repo.GetProject(ctx, projectID)
		if err != nil {
			return err
		}

		keys := append([]string{projectID, pre.ClientID}, extra...)
		if pre.FreelancerID != "" {
			keys = append(keys, pre.FreelancerID)
		}

		err = e.repo.Transaction(ctx, keys, func(ctx context.Context, tx storage.Tx) error {
			project, err := tx.GetProject(ctx, projectID)
			if err != nil {
				return err
			}
			if project.ClientID != pre.ClientID || (project.FreelancerID != "" && !slices.Contains(keys, project.FreelancerID)) {
				return errStaleKeys
			}
			return fn(ctx, tx, project)
		})
		if !errors.Is(err, errStaleKeys) {
			return err
		}
		if attempt >= maxKeyRefreshes {
			return fmt.Errorf("%w: %w", apperr.ErrContention, err)
		}
	}
}

func escrowStatus(e *models.Escrow) string {
	if e == nil {
		return "none"
	}
	return string(e.Status)
}
