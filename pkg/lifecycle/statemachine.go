package lifecycle

import (
	"slices"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/models"
)

// transitions lists, per state, the states a project may move to.
// Completed and Cancelled are terminal.
var transitions = map[models.ProjectStatus][]models.ProjectStatus{
	models.ProjectOpen:       {models.ProjectInProgress, models.ProjectCancelled},
	models.ProjectInProgress: {models.ProjectCompleted, models.ProjectCancelled},
}

// CanTransition reports whether a project in from may move to to.
func CanTransition(from, to models.ProjectStatus) bool {
	return slices.Contains(transitions[from], to)
}

// sourcesOf returns the states from which to is reachable, in a stable order.
func sourcesOf(to models.ProjectStatus) []string {
	var out []string
	for _, from := range []models.ProjectStatus{models.ProjectOpen, models.ProjectInProgress} {
		if CanTransition(from, to) {
			out = append(out, string(from))
		}
	}
	return out
}

// checkTransition returns a StateError carrying the project's current state
// when op may not move it to to.
func checkTransition(p *models.Project, to models.ProjectStatus, op string) error {
	if CanTransition(p.Status, to) {
		return nil
	}
	return &apperr.StateError{
		Entity:  "project",
		ID:      p.ID,
		Current: string(p.Status),
		Op:      op,
		Allowed: sourcesOf(to),
	}
}
