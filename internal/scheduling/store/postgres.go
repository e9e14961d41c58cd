package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"tally/internal/scheduling/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/sentinel"
	txcontext "tally/pkg/platform/tx"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint breach.
const uniqueViolation = "23505"

// PostgresStore persists shifts and officer assignments. The shift_id column
// on officer_assignments is the ownership index.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const shiftColumns = `id, tenant_id, booth_id, officer_id, officer_name, officer_email, date, task, created_at`

func scanShift(row interface{ Scan(...any) error }) (*models.Shift, error) {
	var (
		sh                                models.Shift
		shiftID, tenantID, boothID, offID uuid.UUID
		task                              string
	)
	if err := row.Scan(&shiftID, &tenantID, &boothID, &offID, &sh.OfficerName, &sh.OfficerEmail, &sh.Date, &task, &sh.CreatedAt); err != nil {
		return nil, err
	}
	sh.ID = id.ShiftID(shiftID)
	sh.TenantID = id.TenantID(tenantID)
	sh.BoothID = id.BoothID(boothID)
	sh.OfficerID = id.OfficerID(offID)
	sh.Date = id.DateOf(sh.Date)
	sh.Task = models.Task(task)
	return &sh, nil
}

const assignmentColumns = `id, tenant_id, officer_id, booth_assignment_id, date, final, officer_name, officer_email, shift_id, created_at`

func scanAssignment(row interface{ Scan(...any) error }) (*models.OfficerAssignment, error) {
	var (
		a                                   models.OfficerAssignment
		aID, tenantID, offID, baID, shiftID uuid.UUID
	)
	if err := row.Scan(&aID, &tenantID, &offID, &baID, &a.Date, &a.Final, &a.OfficerName, &a.OfficerEmail, &shiftID, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.ID = id.OfficerAssignmentID(aID)
	a.TenantID = id.TenantID(tenantID)
	a.OfficerID = id.OfficerID(offID)
	a.BoothAssignmentID = id.BoothAssignmentID(baID)
	a.ShiftID = id.ShiftID(shiftID)
	a.Date = id.DateOf(a.Date)
	return &a, nil
}

func (s *PostgresStore) FindShift(ctx context.Context, tenant id.TenantID, shiftID id.ShiftID) (*models.Shift, error) {
	sh, err := scanShift(txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE tenant_id = $1 AND id = $2`,
		uuid.UUID(tenant), uuid.UUID(shiftID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find shift: %w", err)
	}
	return sh, nil
}

func (s *PostgresStore) FindShiftByTuple(ctx context.Context, shift models.Shift) (*models.Shift, error) {
	sh, err := scanShift(txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts
		 WHERE tenant_id = $1 AND booth_id = $2 AND officer_id = $3 AND date = $4 AND task = $5`,
		uuid.UUID(shift.TenantID), uuid.UUID(shift.BoothID), uuid.UUID(shift.OfficerID),
		id.DateOf(shift.Date), string(shift.Task)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find shift by tuple: %w", err)
	}
	return sh, nil
}

func (s *PostgresStore) AssignmentExists(ctx context.Context, tenant id.TenantID, key models.AssignmentKey) (bool, error) {
	var exists bool
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM officer_assignments
			WHERE tenant_id = $1 AND officer_id = $2 AND booth_assignment_id = $3 AND date = $4 AND final = $5
		)
	`, uuid.UUID(tenant), uuid.UUID(key.OfficerID), uuid.UUID(key.BoothAssignmentID), key.Date, key.Final).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check officer assignment: %w", err)
	}
	return exists, nil
}

// CreateShift inserts the shift and its assignments in one transaction.
// Unique violations on either table map to sentinel.ErrConflict.
func (s *PostgresStore) CreateShift(ctx context.Context, shift *models.Shift, assignments []*models.OfficerAssignment) error {
	return txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.Exec(ctx, s.db)
		_, err := exec.ExecContext(ctx, `
			INSERT INTO shifts (`+shiftColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.UUID(shift.ID), uuid.UUID(shift.TenantID), uuid.UUID(shift.BoothID), uuid.UUID(shift.OfficerID),
			shift.OfficerName, shift.OfficerEmail, id.DateOf(shift.Date), string(shift.Task), shift.CreatedAt)
		if err != nil {
			return mapConflict("insert shift", err)
		}
		for _, a := range assignments {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO officer_assignments (`+assignmentColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`, uuid.UUID(a.ID), uuid.UUID(a.TenantID), uuid.UUID(a.OfficerID), uuid.UUID(a.BoothAssignmentID),
				id.DateOf(a.Date), a.Final, a.OfficerName, a.OfficerEmail, uuid.UUID(a.ShiftID), a.CreatedAt)
			if err != nil {
				return mapConflict("insert officer assignment", err)
			}
		}
		return nil
	})
}

func mapConflict(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *PostgresStore) AssignmentsOwnedBy(ctx context.Context, tenant id.TenantID, shiftID id.ShiftID) ([]*models.OfficerAssignment, error) {
	if _, err := s.FindShift(ctx, tenant, shiftID); err != nil {
		return nil, err
	}
	return s.queryAssignments(ctx, `WHERE tenant_id = $1 AND shift_id = $2 ORDER BY id`, uuid.UUID(tenant), uuid.UUID(shiftID))
}

// DeleteShift removes the shift and the assignments it owns, locking the
// shift row first so a concurrent retract of the same shift waits.
func (s *PostgresStore) DeleteShift(ctx context.Context, tenant id.TenantID, shiftID id.ShiftID) (int, error) {
	var removed int
	err := txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.Exec(ctx, s.db)
		var locked uuid.UUID
		err := exec.QueryRowContext(ctx,
			`SELECT id FROM shifts WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
			uuid.UUID(tenant), uuid.UUID(shiftID)).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock shift: %w", err)
		}
		res, err := exec.ExecContext(ctx,
			`DELETE FROM officer_assignments WHERE tenant_id = $1 AND shift_id = $2`,
			uuid.UUID(tenant), uuid.UUID(shiftID))
		if err != nil {
			return fmt.Errorf("delete officer assignments: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("count deleted assignments: %w", err)
		}
		removed = int(n)
		if _, err := exec.ExecContext(ctx,
			`DELETE FROM shifts WHERE tenant_id = $1 AND id = $2`,
			uuid.UUID(tenant), uuid.UUID(shiftID)); err != nil {
			return fmt.Errorf("delete shift: %w", err)
		}
		return nil
	})
	return removed, err
}

func (s *PostgresStore) FindAssignment(ctx context.Context, tenant id.TenantID, assignment id.OfficerAssignmentID) (*models.OfficerAssignment, error) {
	a, err := scanAssignment(txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM officer_assignments WHERE tenant_id = $1 AND id = $2`,
		uuid.UUID(tenant), uuid.UUID(assignment)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find officer assignment: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListAssignments(ctx context.Context, tenant id.TenantID, officer id.OfficerID) ([]*models.OfficerAssignment, error) {
	return s.queryAssignments(ctx, `WHERE tenant_id = $1 AND officer_id = $2 ORDER BY date, id`, uuid.UUID(tenant), uuid.UUID(officer))
}

func (s *PostgresStore) queryAssignments(ctx context.Context, where string, args ...any) ([]*models.OfficerAssignment, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `SELECT `+assignmentColumns+` FROM officer_assignments `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query officer assignments: %w", err)
	}
	defer rows.Close()
	var out []*models.OfficerAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan officer assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ShiftsForBooth(ctx context.Context, tenant id.TenantID, booth id.BoothID) ([]*models.Shift, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE tenant_id = $1 AND booth_id = $2 ORDER BY date, id`,
		uuid.UUID(tenant), uuid.UUID(booth))
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()
	var out []*models.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}
