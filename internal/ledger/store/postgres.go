package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"tally/internal/ledger/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/sentinel"
	txcontext "tally/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists ledgered records. Lookups made inside a transaction
// take a row lock so a read-revise-write cycle is not interleaved.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func lockClause(ctx context.Context) string {
	if _, ok := txcontext.From(ctx); ok {
		return " FOR UPDATE"
	}
	return ""
}

// nullID stores a nil typed id as SQL NULL.
func nullID[T ~[16]byte](v T) uuid.NullUUID {
	u := uuid.UUID(v)
	if u == uuid.Nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: u, Valid: true}
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

const recountColumns = `id, tenant_id, poll_id, booth_assignment_id, date, origin,
	total_amount, white_amount, null_amount, total_amount_log, white_amount_log, null_amount_log,
	officer_assignment_id, officer_assignment_id_log, author_id, author_id_log`

func scanRecount(row interface{ Scan(...any) error }) (*models.Recount, error) {
	var (
		r                           models.Recount
		rid, tenantID, pollID, baID uuid.UUID
		origin                      string
		totalLog, whiteLog, nullLog string
		assignment, author          uuid.NullUUID
		assignmentLog, authorLog    string
	)
	err := row.Scan(&rid, &tenantID, &pollID, &baID, &r.Date, &origin,
		&r.Total.Value, &r.White.Value, &r.Null.Value, &totalLog, &whiteLog, &nullLog,
		&assignment, &assignmentLog, &author, &authorLog)
	if err != nil {
		return nil, err
	}
	r.ID = id.RecountID(rid)
	r.TenantID = id.TenantID(tenantID)
	r.PollID = id.PollID(pollID)
	r.BoothAssignmentID = id.BoothAssignmentID(baID)
	r.Date = id.DateOf(r.Date)
	r.Origin = id.Origin(origin)
	r.Total.Log, r.White.Log, r.Null.Log = models.Log(totalLog), models.Log(whiteLog), models.Log(nullLog)
	r.Attribution = attributionFrom(assignment, assignmentLog, author, authorLog)
	return &r, nil
}

func attributionFrom(assignment uuid.NullUUID, assignmentLog string, author uuid.NullUUID, authorLog string) models.Attribution {
	a := models.Attribution{AssignmentLog: models.Log(assignmentLog), AuthorLog: models.Log(authorLog)}
	if assignment.Valid {
		a.AssignmentID = id.OfficerAssignmentID(assignment.UUID)
	}
	if author.Valid {
		a.AuthorID = id.UserID(author.UUID)
	}
	return a
}

func (s *PostgresStore) FindRecount(ctx context.Context, tenant id.TenantID, recount id.RecountID) (*models.Recount, error) {
	r, err := scanRecount(txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+recountColumns+` FROM recounts WHERE tenant_id = $1 AND id = $2`+lockClause(ctx),
		uuid.UUID(tenant), uuid.UUID(recount)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find recount: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) FindRecountBySlot(ctx context.Context, tenant id.TenantID, ba id.BoothAssignmentID, date time.Time) (*models.Recount, error) {
	r, err := scanRecount(txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+recountColumns+` FROM recounts
		 WHERE tenant_id = $1 AND booth_assignment_id = $2 AND date = $3`+lockClause(ctx),
		uuid.UUID(tenant), uuid.UUID(ba), id.DateOf(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find recount by slot: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) SaveRecount(ctx context.Context, r *models.Recount) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO recounts (`+recountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			origin = EXCLUDED.origin,
			total_amount = EXCLUDED.total_amount,
			white_amount = EXCLUDED.white_amount,
			null_amount = EXCLUDED.null_amount,
			total_amount_log = EXCLUDED.total_amount_log,
			white_amount_log = EXCLUDED.white_amount_log,
			null_amount_log = EXCLUDED.null_amount_log,
			officer_assignment_id = EXCLUDED.officer_assignment_id,
			officer_assignment_id_log = EXCLUDED.officer_assignment_id_log,
			author_id = EXCLUDED.author_id,
			author_id_log = EXCLUDED.author_id_log
	`, uuid.UUID(r.ID), uuid.UUID(r.TenantID), uuid.UUID(r.PollID), uuid.UUID(r.BoothAssignmentID),
		id.DateOf(r.Date), string(r.Origin),
		r.Total.Value, r.White.Value, r.Null.Value,
		string(r.Total.Log), string(r.White.Log), string(r.Null.Log),
		nullID(r.Attribution.AssignmentID), string(r.Attribution.AssignmentLog),
		nullID(r.Attribution.AuthorID), string(r.Attribution.AuthorLog))
	if err != nil {
		return mapWriteError("save recount", err)
	}
	return nil
}

func (s *PostgresStore) ListRecounts(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]*models.Recount, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT `+recountColumns+` FROM recounts WHERE tenant_id = $1 AND poll_id = $2 ORDER BY id`,
		uuid.UUID(tenant), uuid.UUID(poll))
	if err != nil {
		return nil, fmt.Errorf("list recounts: %w", err)
	}
	defer rows.Close()
	var out []*models.Recount
	for rows.Next() {
		r, err := scanRecount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recount: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const resultColumns = `id, tenant_id, poll_id, question_id, booth_assignment_id, date, answer, origin,
	amount, amount_log, officer_assignment_id, officer_assignment_id_log, author_id, author_id_log`

func scanPartialResult(row interface{ Scan(...any) error }) (*models.PartialResult, error) {
	var (
		p                                models.PartialResult
		pid, tenantID, pollID, qID, baID uuid.UUID
		origin, amountLog                string
		assignment, author               uuid.NullUUID
		assignmentLog, authorLog         string
	)
	err := row.Scan(&pid, &tenantID, &pollID, &qID, &baID, &p.Date, &p.Answer, &origin,
		&p.Amount.Value, &amountLog, &assignment, &assignmentLog, &author, &authorLog)
	if err != nil {
		return nil, err
	}
	p.ID = id.PartialResultID(pid)
	p.TenantID = id.TenantID(tenantID)
	p.PollID = id.PollID(pollID)
	p.QuestionID = id.QuestionID(qID)
	p.BoothAssignmentID = id.BoothAssignmentID(baID)
	p.Date = id.DateOf(p.Date)
	p.Origin = id.Origin(origin)
	p.Amount.Log = models.Log(amountLog)
	p.Attribution = attributionFrom(assignment, assignmentLog, author, authorLog)
	return &p, nil
}

func (s *PostgresStore) FindPartialResult(ctx context.Context, tenant id.TenantID, pr id.PartialResultID) (*models.PartialResult, error) {
	p, err := scanPartialResult(txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM partial_results WHERE tenant_id = $1 AND id = $2`+lockClause(ctx),
		uuid.UUID(tenant), uuid.UUID(pr)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find partial result: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindPartialResultBySlot(ctx context.Context, tenant id.TenantID, ba id.BoothAssignmentID, question id.QuestionID, answer string, date time.Time) (*models.PartialResult, error) {
	p, err := scanPartialResult(txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM partial_results
		 WHERE tenant_id = $1 AND booth_assignment_id = $2 AND question_id = $3 AND answer = $4 AND date = $5`+lockClause(ctx),
		uuid.UUID(tenant), uuid.UUID(ba), uuid.UUID(question), answer, id.DateOf(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find partial result by slot: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) SavePartialResult(ctx context.Context, p *models.PartialResult) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO partial_results (`+resultColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			origin = EXCLUDED.origin,
			amount = EXCLUDED.amount,
			amount_log = EXCLUDED.amount_log,
			officer_assignment_id = EXCLUDED.officer_assignment_id,
			officer_assignment_id_log = EXCLUDED.officer_assignment_id_log,
			author_id = EXCLUDED.author_id,
			author_id_log = EXCLUDED.author_id_log
	`, uuid.UUID(p.ID), uuid.UUID(p.TenantID), uuid.UUID(p.PollID), uuid.UUID(p.QuestionID),
		uuid.UUID(p.BoothAssignmentID), id.DateOf(p.Date), p.Answer, string(p.Origin),
		p.Amount.Value, string(p.Amount.Log),
		nullID(p.Attribution.AssignmentID), string(p.Attribution.AssignmentLog),
		nullID(p.Attribution.AuthorID), string(p.Attribution.AuthorLog))
	if err != nil {
		return mapWriteError("save partial result", err)
	}
	return nil
}

func (s *PostgresStore) ListPartialResults(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]*models.PartialResult, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT `+resultColumns+` FROM partial_results WHERE tenant_id = $1 AND poll_id = $2 ORDER BY id`,
		uuid.UUID(tenant), uuid.UUID(poll))
	if err != nil {
		return nil, fmt.Errorf("list partial results: %w", err)
	}
	defer rows.Close()
	var out []*models.PartialResult
	for rows.Next() {
		p, err := scanPartialResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partial result: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountAttributed(ctx context.Context, tenant id.TenantID, assignments []id.OfficerAssignmentID) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}
	ids := make([]string, len(assignments))
	for i, a := range assignments {
		ids[i] = a.String()
	}
	var n int
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM recounts WHERE tenant_id = $1 AND officer_assignment_id = ANY($2::uuid[])) +
			(SELECT COUNT(*) FROM partial_results WHERE tenant_id = $1 AND officer_assignment_id = ANY($2::uuid[]))
	`, uuid.UUID(tenant), pq.Array(ids)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attributed records: %w", err)
	}
	return n, nil
}
