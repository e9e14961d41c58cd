package adapters

import (
	"context"
	"fmt"

	id "tally/pkg/domain"
)

// LedgerCounter counts recounts and partial results that reference the
// assignments.
type LedgerCounter interface {
	CountAttributed(ctx context.Context, tenant id.TenantID, assignments []id.OfficerAssignmentID) (int, error)
}

// VoterCounter counts booth voters registered under the assignments.
type VoterCounter interface {
	CountVotersByAssignments(ctx context.Context, tenant id.TenantID, assignments []id.OfficerAssignmentID) (int, error)
}

// AttributionAdapter answers whether any ledger record or voter still points
// at a set of officer assignments, so the scheduling service can refuse to
// retract a shift that has been worked.
type AttributionAdapter struct {
	ledger LedgerCounter
	voters VoterCounter
}

func NewAttributionAdapter(ledger LedgerCounter, voters VoterCounter) *AttributionAdapter {
	return &AttributionAdapter{ledger: ledger, voters: voters}
}

func (a *AttributionAdapter) CountAttributed(ctx context.Context, tenant id.TenantID, assignments []id.OfficerAssignmentID) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}
	records, err := a.ledger.CountAttributed(ctx, tenant, assignments)
	if err != nil {
		return 0, fmt.Errorf("count ledger records: %w", err)
	}
	if records > 0 {
		return records, nil
	}
	voters, err := a.voters.CountVotersByAssignments(ctx, tenant, assignments)
	if err != nil {
		return 0, fmt.Errorf("count voters: %w", err)
	}
	return voters, nil
}
