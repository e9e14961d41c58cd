package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"tally/internal/participation/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/sentinel"
	txcontext "tally/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists participation records.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func uuidArray[T ~[16]byte](ids []T) any {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = uuid.UUID(v).String()
	}
	return pq.Array(out)
}

func nullable[T ~[16]byte](v *T) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}

func (s *PostgresStore) AddVoter(ctx context.Context, v *models.Voter) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO voters (tenant_id, id, poll_id, user_id, origin, booth_assignment_id, officer_assignment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(v.TenantID), uuid.UUID(v.ID), uuid.UUID(v.PollID), uuid.UUID(v.UserID), string(v.Origin),
		nullable(v.BoothAssignmentID), nullable(v.OfficerAssignmentID), v.CreatedAt)
	if err != nil {
		return mapWriteError("add voter", err)
	}
	return nil
}

func (s *PostgresStore) ListVoters(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]models.Voter, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT id, poll_id, user_id, origin, booth_assignment_id, officer_assignment_id, created_at
		FROM voters WHERE tenant_id = $1 AND poll_id = $2
		ORDER BY created_at, id`, uuid.UUID(tenant), uuid.UUID(poll))
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	defer rows.Close()

	var out []models.Voter
	for rows.Next() {
		v := models.Voter{TenantID: tenant}
		var (
			vid, pollID, userID uuid.UUID
			origin              string
			ba, oa              uuid.NullUUID
		)
		if err := rows.Scan(&vid, &pollID, &userID, &origin, &ba, &oa, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan voter: %w", err)
		}
		v.ID = id.VoterID(vid)
		v.PollID = id.PollID(pollID)
		v.UserID = id.UserID(userID)
		v.Origin = id.Origin(origin)
		if ba.Valid {
			b := id.BoothAssignmentID(ba.UUID)
			v.BoothAssignmentID = &b
		}
		if oa.Valid {
			o := id.OfficerAssignmentID(oa.UUID)
			v.OfficerAssignmentID = &o
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PostgresStore) VoterPolls(ctx context.Context, tenant id.TenantID) ([]id.PollID, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT DISTINCT poll_id FROM voters WHERE tenant_id = $1 ORDER BY poll_id`, uuid.UUID(tenant))
	if err != nil {
		return nil, fmt.Errorf("list voter polls: %w", err)
	}
	defer rows.Close()

	var out []id.PollID
	for rows.Next() {
		var poll uuid.UUID
		if err := rows.Scan(&poll); err != nil {
			return nil, fmt.Errorf("scan voter poll: %w", err)
		}
		out = append(out, id.PollID(poll))
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteVoters(ctx context.Context, tenant id.TenantID, ids []id.VoterID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`DELETE FROM voters WHERE tenant_id = $1 AND id = ANY($2::uuid[])`,
		uuid.UUID(tenant), uuidArray(ids))
	if err != nil {
		return 0, fmt.Errorf("delete voters: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *PostgresStore) CountVotersByAssignments(ctx context.Context, tenant id.TenantID, assignments []id.OfficerAssignmentID) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}
	var n int
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM voters WHERE tenant_id = $1 AND officer_assignment_id = ANY($2::uuid[])`,
		uuid.UUID(tenant), uuidArray(assignments)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count voters: %w", err)
	}
	return n, nil
}

// AddQuestion stores the question together with its options and their
// translated titles.
func (s *PostgresStore) AddQuestion(ctx context.Context, q *models.Question) error {
	return txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.Exec(ctx, s.db)
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO questions (tenant_id, id, poll_id) VALUES ($1, $2, $3)`,
			uuid.UUID(q.TenantID), uuid.UUID(q.ID), uuid.UUID(q.PollID)); err != nil {
			return mapWriteError("add question", err)
		}
		for _, o := range q.Options {
			if _, err := exec.ExecContext(ctx,
				`INSERT INTO question_options (tenant_id, id, question_id) VALUES ($1, $2, $3)`,
				uuid.UUID(q.TenantID), uuid.UUID(o.ID), uuid.UUID(q.ID)); err != nil {
				return mapWriteError("add option", err)
			}
			for locale, title := range o.Titles {
				if _, err := exec.ExecContext(ctx, `
					INSERT INTO question_option_translations (tenant_id, option_id, locale, title)
					VALUES ($1, $2, $3, $4)`,
					uuid.UUID(q.TenantID), uuid.UUID(o.ID), locale, title); err != nil {
					return mapWriteError("add option title", err)
				}
			}
		}
		return nil
	})
}

func (s *PostgresStore) ListQuestions(ctx context.Context, tenant id.TenantID, scope models.Scope) ([]models.Question, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT q.id, q.poll_id, o.id, t.locale, t.title
		FROM questions q
		LEFT JOIN question_options o ON o.tenant_id = q.tenant_id AND o.question_id = q.id
		LEFT JOIN question_option_translations t ON t.tenant_id = o.tenant_id AND t.option_id = o.id
		WHERE q.tenant_id = $1
		  AND ($2::uuid IS NULL OR q.poll_id = $2)
		  AND ($3::uuid IS NULL OR q.id = $3)
		ORDER BY q.id, o.id`,
		uuid.UUID(tenant), nullable(scope.PollID), nullable(scope.QuestionID))
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		var (
			qid, pollID   uuid.UUID
			optID         uuid.NullUUID
			locale, title sql.NullString
		)
		if err := rows.Scan(&qid, &pollID, &optID, &locale, &title); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].ID != id.QuestionID(qid) {
			out = append(out, models.Question{ID: id.QuestionID(qid), TenantID: tenant, PollID: id.PollID(pollID)})
		}
		if !optID.Valid {
			continue
		}
		q := &out[len(out)-1]
		if n := len(q.Options); n == 0 || q.Options[n-1].ID != id.OptionID(optID.UUID) {
			q.Options = append(q.Options, models.Option{
				ID:         id.OptionID(optID.UUID),
				QuestionID: q.ID,
				Titles:     make(map[string]string),
			})
		}
		if locale.Valid {
			q.Options[len(q.Options)-1].Titles[locale.String] = title.String
		}
	}
	return out, rows.Err()
}

func (s *PostgresStore) AddAnswer(ctx context.Context, a *models.Answer) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO answers (tenant_id, id, question_id, author_id, answer, option_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(a.TenantID), uuid.UUID(a.ID), uuid.UUID(a.QuestionID), uuid.UUID(a.AuthorID),
		a.Text, nullable(a.OptionID), a.CreatedAt)
	if err != nil {
		return mapWriteError("add answer", err)
	}
	return nil
}

func (s *PostgresStore) ListAnswers(ctx context.Context, tenant id.TenantID, questions []id.QuestionID) ([]models.Answer, error) {
	if len(questions) == 0 {
		return nil, nil
	}
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT id, question_id, author_id, answer, option_id, created_at
		FROM answers WHERE tenant_id = $1 AND question_id = ANY($2::uuid[])
		ORDER BY created_at, id`, uuid.UUID(tenant), uuidArray(questions))
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var out []models.Answer
	for rows.Next() {
		a := models.Answer{TenantID: tenant}
		var (
			aid, qid, author uuid.UUID
			option           uuid.NullUUID
		)
		if err := rows.Scan(&aid, &qid, &author, &a.Text, &option, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		a.ID = id.AnswerID(aid)
		a.QuestionID = id.QuestionID(qid)
		a.AuthorID = id.UserID(author)
		if option.Valid {
			o := id.OptionID(option.UUID)
			a.OptionID = &o
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteAnswers(ctx context.Context, tenant id.TenantID, ids []id.AnswerID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`DELETE FROM answers WHERE tenant_id = $1 AND id = ANY($2::uuid[])`,
		uuid.UUID(tenant), uuidArray(ids))
	if err != nil {
		return 0, fmt.Errorf("delete answers: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *PostgresStore) SetAnswerOption(ctx context.Context, tenant id.TenantID, answer id.AnswerID, option id.OptionID) (bool, error) {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`UPDATE answers SET option_id = $3 WHERE tenant_id = $1 AND id = $2 AND option_id IS NULL`,
		uuid.UUID(tenant), uuid.UUID(answer), uuid.UUID(option))
	if err != nil {
		return false, fmt.Errorf("set answer option: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *PostgresStore) AddInvestment(ctx context.Context, inv *models.Investment) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO investments (tenant_id, id, budget_id, heading_id, author_id, selected, feasibility)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(inv.TenantID), uuid.UUID(inv.ID), uuid.UUID(inv.BudgetID), uuid.UUID(inv.HeadingID),
		nullable(inv.AuthorID), inv.Selected, string(inv.Feasibility))
	if err != nil {
		return mapWriteError("add investment", err)
	}
	return nil
}

func (s *PostgresStore) AddSupport(ctx context.Context, sup models.Support) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`INSERT INTO investment_supports (tenant_id, investment_id, user_id) VALUES ($1, $2, $3)`,
		uuid.UUID(sup.TenantID), uuid.UUID(sup.InvestmentID), uuid.UUID(sup.UserID))
	if err != nil {
		return mapWriteError("add support", err)
	}
	return nil
}

func (s *PostgresStore) AddBallotLine(ctx context.Context, line models.BallotLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO ballot_lines (tenant_id, id, budget_id, heading_id, investment_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(line.TenantID), line.ID, uuid.UUID(line.BudgetID), uuid.UUID(line.HeadingID),
		uuid.UUID(line.InvestmentID), uuid.UUID(line.UserID))
	if err != nil {
		return mapWriteError("add ballot line", err)
	}
	return nil
}

func (s *PostgresStore) ListInvestments(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.Investment, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT id, heading_id, author_id, selected, feasibility
		FROM investments WHERE tenant_id = $1 AND budget_id = $2 ORDER BY id`,
		uuid.UUID(tenant), uuid.UUID(budget))
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var out []models.Investment
	for rows.Next() {
		inv := models.Investment{TenantID: tenant, BudgetID: budget}
		var (
			iid, heading uuid.UUID
			author       uuid.NullUUID
			feasibility  string
		)
		if err := rows.Scan(&iid, &heading, &author, &inv.Selected, &feasibility); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		inv.ID = id.InvestmentID(iid)
		inv.HeadingID = id.HeadingID(heading)
		inv.Feasibility = models.Feasibility(feasibility)
		if author.Valid {
			a := id.UserID(author.UUID)
			inv.AuthorID = &a
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListSupports(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.Support, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT s.investment_id, i.heading_id, s.user_id
		FROM investment_supports s
		JOIN investments i ON i.tenant_id = s.tenant_id AND i.id = s.investment_id
		WHERE s.tenant_id = $1 AND i.budget_id = $2`,
		uuid.UUID(tenant), uuid.UUID(budget))
	if err != nil {
		return nil, fmt.Errorf("list supports: %w", err)
	}
	defer rows.Close()

	var out []models.Support
	for rows.Next() {
		var inv, heading, user uuid.UUID
		if err := rows.Scan(&inv, &heading, &user); err != nil {
			return nil, fmt.Errorf("scan support: %w", err)
		}
		out = append(out, models.Support{
			TenantID:     tenant,
			InvestmentID: id.InvestmentID(inv),
			HeadingID:    id.HeadingID(heading),
			UserID:       id.UserID(user),
		})
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListBallotLines(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.BallotLine, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT id, heading_id, investment_id, user_id
		FROM ballot_lines WHERE tenant_id = $1 AND budget_id = $2`,
		uuid.UUID(tenant), uuid.UUID(budget))
	if err != nil {
		return nil, fmt.Errorf("list ballot lines: %w", err)
	}
	defer rows.Close()

	var out []models.BallotLine
	for rows.Next() {
		line := models.BallotLine{TenantID: tenant, BudgetID: budget}
		var heading, inv, user uuid.UUID
		if err := rows.Scan(&line.ID, &heading, &inv, &user); err != nil {
			return nil, fmt.Errorf("scan ballot line: %w", err)
		}
		line.HeadingID = id.HeadingID(heading)
		line.InvestmentID = id.InvestmentID(inv)
		line.UserID = id.UserID(user)
		out = append(out, line)
	}
	return out, rows.Err()
}
