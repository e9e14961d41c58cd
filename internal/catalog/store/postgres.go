package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"tally/internal/catalog/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/sentinel"
	txcontext "tally/pkg/platform/tx"
)

// PostgresStore reads reference records written by the surrounding
// application. The Upsert methods exist for fixtures and imports.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListTenants(ctx context.Context) ([]id.TenantID, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `SELECT id FROM tenants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var out []id.TenantID
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, id.TenantID(u))
	}
	return out, rows.Err()
}

const pollColumns = `id, tenant_id, name, starts_at, ends_at, budget_id`

func scanPoll(row interface{ Scan(...any) error }) (models.Poll, error) {
	var (
		p                models.Poll
		pollID, tenantID uuid.UUID
		budgetID         uuid.NullUUID
	)
	if err := row.Scan(&pollID, &tenantID, &p.Name, &p.StartsAt, &p.EndsAt, &budgetID); err != nil {
		return models.Poll{}, err
	}
	p.ID = id.PollID(pollID)
	p.TenantID = id.TenantID(tenantID)
	if budgetID.Valid {
		b := id.BudgetID(budgetID.UUID)
		p.BudgetID = &b
	}
	return p, nil
}

func (s *PostgresStore) FindPoll(ctx context.Context, tenant id.TenantID, poll id.PollID) (*models.Poll, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+pollColumns+` FROM polls WHERE tenant_id = $1 AND id = $2`,
		uuid.UUID(tenant), uuid.UUID(poll))
	p, err := scanPoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find poll: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) PollsForBudget(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.Poll, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT `+pollColumns+` FROM polls WHERE tenant_id = $1 AND budget_id = $2 ORDER BY id`,
		uuid.UUID(tenant), uuid.UUID(budget))
	if err != nil {
		return nil, fmt.Errorf("list budget polls: %w", err)
	}
	defer rows.Close()
	var out []models.Poll
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PollsAtBooth(ctx context.Context, tenant id.TenantID, booth id.BoothID) ([]models.BoothPoll, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT ba.id, ba.poll_id, ba.booth_id,
		       p.id, p.tenant_id, p.name, p.starts_at, p.ends_at, p.budget_id
		FROM booth_assignments ba
		JOIN polls p ON p.tenant_id = ba.tenant_id AND p.id = ba.poll_id
		WHERE ba.tenant_id = $1 AND ba.booth_id = $2
		ORDER BY ba.id
	`, uuid.UUID(tenant), uuid.UUID(booth))
	if err != nil {
		return nil, fmt.Errorf("list booth polls: %w", err)
	}
	defer rows.Close()
	var out []models.BoothPoll
	for rows.Next() {
		var (
			baID, pollID, boothID uuid.UUID
			p                     models.Poll
			pID, tID              uuid.UUID
			budgetID              uuid.NullUUID
		)
		if err := rows.Scan(&baID, &pollID, &boothID, &pID, &tID, &p.Name, &p.StartsAt, &p.EndsAt, &budgetID); err != nil {
			return nil, fmt.Errorf("scan booth poll: %w", err)
		}
		p.ID = id.PollID(pID)
		p.TenantID = id.TenantID(tID)
		if budgetID.Valid {
			b := id.BudgetID(budgetID.UUID)
			p.BudgetID = &b
		}
		out = append(out, models.BoothPoll{
			Assignment: models.BoothAssignment{
				ID:       id.BoothAssignmentID(baID),
				TenantID: tenant,
				PollID:   id.PollID(pollID),
				BoothID:  id.BoothID(boothID),
			},
			Poll: p,
		})
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindBoothAssignment(ctx context.Context, tenant id.TenantID, ba id.BoothAssignmentID) (*models.BoothAssignment, error) {
	var pollID, boothID uuid.UUID
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT poll_id, booth_id FROM booth_assignments WHERE tenant_id = $1 AND id = $2`,
		uuid.UUID(tenant), uuid.UUID(ba)).Scan(&pollID, &boothID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booth assignment: %w", err)
	}
	return &models.BoothAssignment{ID: ba, TenantID: tenant, PollID: id.PollID(pollID), BoothID: id.BoothID(boothID)}, nil
}

func (s *PostgresStore) ListBoothAssignments(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]models.BoothAssignment, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT id, booth_id FROM booth_assignments WHERE tenant_id = $1 AND poll_id = $2 ORDER BY id`,
		uuid.UUID(tenant), uuid.UUID(poll))
	if err != nil {
		return nil, fmt.Errorf("list booth assignments: %w", err)
	}
	defer rows.Close()
	var out []models.BoothAssignment
	for rows.Next() {
		var baID, boothID uuid.UUID
		if err := rows.Scan(&baID, &boothID); err != nil {
			return nil, fmt.Errorf("scan booth assignment: %w", err)
		}
		out = append(out, models.BoothAssignment{ID: id.BoothAssignmentID(baID), TenantID: tenant, PollID: poll, BoothID: id.BoothID(boothID)})
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindOfficer(ctx context.Context, tenant id.TenantID, officer id.OfficerID) (*models.Officer, error) {
	var (
		o      = models.Officer{ID: officer, TenantID: tenant}
		userID uuid.NullUUID
	)
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT user_id, name, email FROM officers WHERE tenant_id = $1 AND id = $2`,
		uuid.UUID(tenant), uuid.UUID(officer)).Scan(&userID, &o.Name, &o.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find officer: %w", err)
	}
	if userID.Valid {
		u := id.UserID(userID.UUID)
		o.UserID = &u
	}
	return &o, nil
}

func (s *PostgresStore) UsersByID(ctx context.Context, tenant id.TenantID, ids []id.UserID) (map[id.UserID]models.User, error) {
	out := make(map[id.UserID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, u := range ids {
		raw[i] = u.String()
	}
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT id, gender, date_of_birth, geozone_id, hidden
		FROM users
		WHERE tenant_id = $1 AND id = ANY($2::uuid[])
	`, uuid.UUID(tenant), pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			userID    uuid.UUID
			gender    sql.NullString
			dob       sql.NullTime
			geozoneID uuid.NullUUID
			u         = models.User{TenantID: tenant}
		)
		if err := rows.Scan(&userID, &gender, &dob, &geozoneID, &u.Hidden); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.ID = id.UserID(userID)
		u.Gender = gender.String
		if dob.Valid {
			t := dob.Time
			u.DateOfBirth = &t
		}
		if geozoneID.Valid {
			g := id.GeozoneID(geozoneID.UUID)
			u.GeozoneID = &g
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListGeozones(ctx context.Context, tenant id.TenantID) ([]models.Geozone, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT id, name FROM geozones WHERE tenant_id = $1 ORDER BY name`, uuid.UUID(tenant))
	if err != nil {
		return nil, fmt.Errorf("list geozones: %w", err)
	}
	defer rows.Close()
	var out []models.Geozone
	for rows.Next() {
		var g = models.Geozone{TenantID: tenant}
		var gid uuid.UUID
		if err := rows.Scan(&gid, &g.Name); err != nil {
			return nil, fmt.Errorf("scan geozone: %w", err)
		}
		g.ID = id.GeozoneID(gid)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindBudget(ctx context.Context, tenant id.TenantID, budget id.BudgetID) (*models.Budget, error) {
	var (
		b                  = models.Budget{ID: budget, TenantID: tenant}
		phase              string
		selecting, ballots sql.NullTime
	)
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT name, phase, selecting_ends_at, balloting_ends_at FROM budgets WHERE tenant_id = $1 AND id = $2`,
		uuid.UUID(tenant), uuid.UUID(budget)).Scan(&b.Name, &phase, &selecting, &ballots)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find budget: %w", err)
	}
	b.Phase = models.Phase(phase)
	b.SelectingEndsAt = nullTime(selecting)
	b.BallotingEndsAt = nullTime(ballots)
	return &b, nil
}

func (s *PostgresStore) ListHeadings(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.Heading, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT id, name, population FROM budget_headings WHERE tenant_id = $1 AND budget_id = $2 ORDER BY name`,
		uuid.UUID(tenant), uuid.UUID(budget))
	if err != nil {
		return nil, fmt.Errorf("list headings: %w", err)
	}
	defer rows.Close()
	var out []models.Heading
	for rows.Next() {
		var (
			h   = models.Heading{TenantID: tenant, BudgetID: budget}
			hid uuid.UUID
			pop sql.NullInt64
		)
		if err := rows.Scan(&hid, &h.Name, &pop); err != nil {
			return nil, fmt.Errorf("scan heading: %w", err)
		}
		h.ID = id.HeadingID(hid)
		if pop.Valid {
			n := int(pop.Int64)
			h.Population = &n
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
