package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tally/internal/catalog/models"
	id "tally/pkg/domain"
	txcontext "tally/pkg/platform/tx"
)

func nullableUUID[T ~[16]byte](v *T) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}

func (s *PostgresStore) UpsertTenant(ctx context.Context, tenant id.TenantID, name string) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO tenants (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, uuid.UUID(tenant), name)
	if err != nil {
		return fmt.Errorf("upsert tenant: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertPoll(ctx context.Context, p models.Poll) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO polls (tenant_id, id, name, starts_at, ends_at, budget_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			name = EXCLUDED.name, starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at, budget_id = EXCLUDED.budget_id
	`, uuid.UUID(p.TenantID), uuid.UUID(p.ID), p.Name, p.StartsAt, p.EndsAt, nullableUUID(p.BudgetID))
	if err != nil {
		return fmt.Errorf("upsert poll: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertBooth(ctx context.Context, b models.Booth) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO booths (tenant_id, id, name) VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, id) DO UPDATE SET name = EXCLUDED.name
	`, uuid.UUID(b.TenantID), uuid.UUID(b.ID), b.Name)
	if err != nil {
		return fmt.Errorf("upsert booth: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertBoothAssignment(ctx context.Context, ba models.BoothAssignment) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO booth_assignments (tenant_id, id, poll_id, booth_id) VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, id) DO NOTHING
	`, uuid.UUID(ba.TenantID), uuid.UUID(ba.ID), uuid.UUID(ba.PollID), uuid.UUID(ba.BoothID))
	if err != nil {
		return fmt.Errorf("upsert booth assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertOfficer(ctx context.Context, o models.Officer) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO officers (tenant_id, id, user_id, name, email) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			user_id = EXCLUDED.user_id, name = EXCLUDED.name, email = EXCLUDED.email
	`, uuid.UUID(o.TenantID), uuid.UUID(o.ID), nullableUUID(o.UserID), o.Name, o.Email)
	if err != nil {
		return fmt.Errorf("upsert officer: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertUser(ctx context.Context, u models.User) error {
	var gender any
	if u.Gender != "" {
		gender = u.Gender
	}
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO users (tenant_id, id, gender, date_of_birth, geozone_id, hidden)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			gender = EXCLUDED.gender, date_of_birth = EXCLUDED.date_of_birth,
			geozone_id = EXCLUDED.geozone_id, hidden = EXCLUDED.hidden
	`, uuid.UUID(u.TenantID), uuid.UUID(u.ID), gender, u.DateOfBirth, nullableUUID(u.GeozoneID), u.Hidden)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertGeozone(ctx context.Context, g models.Geozone) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO geozones (tenant_id, id, name) VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, id) DO UPDATE SET name = EXCLUDED.name
	`, uuid.UUID(g.TenantID), uuid.UUID(g.ID), g.Name)
	if err != nil {
		return fmt.Errorf("upsert geozone: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertBudget(ctx context.Context, b models.Budget) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO budgets (tenant_id, id, name, phase, selecting_ends_at, balloting_ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			name = EXCLUDED.name, phase = EXCLUDED.phase, selecting_ends_at = EXCLUDED.selecting_ends_at,
			balloting_ends_at = EXCLUDED.balloting_ends_at
	`, uuid.UUID(b.TenantID), uuid.UUID(b.ID), b.Name, string(b.Phase), b.SelectingEndsAt, b.BallotingEndsAt)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertHeading(ctx context.Context, h models.Heading) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO budget_headings (tenant_id, id, budget_id, name, population)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			name = EXCLUDED.name, population = EXCLUDED.population
	`, uuid.UUID(h.TenantID), uuid.UUID(h.ID), uuid.UUID(h.BudgetID), h.Name, h.Population)
	if err != nil {
		return fmt.Errorf("upsert heading: %w", err)
	}
	return nil
}
