package postgres

// schema is applied in order by Migrate. Every table is partitioned by
// tenant_id and every query filters on it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS polls (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		starts_at TIMESTAMPTZ NOT NULL,
		ends_at TIMESTAMPTZ NOT NULL,
		budget_id UUID,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS booths (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS booth_assignments (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		poll_id UUID NOT NULL,
		booth_id UUID NOT NULL,
		PRIMARY KEY (tenant_id, id),
		UNIQUE (tenant_id, poll_id, booth_id)
	)`,
	`CREATE TABLE IF NOT EXISTS officers (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		user_id UUID,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		booth_id UUID NOT NULL,
		officer_id UUID NOT NULL,
		officer_name TEXT NOT NULL DEFAULT '',
		officer_email TEXT NOT NULL DEFAULT '',
		date DATE NOT NULL,
		task TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (tenant_id, id),
		UNIQUE (tenant_id, booth_id, officer_id, date, task)
	)`,
	`CREATE TABLE IF NOT EXISTS officer_assignments (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		officer_id UUID NOT NULL,
		booth_assignment_id UUID NOT NULL,
		date DATE NOT NULL,
		final BOOLEAN NOT NULL DEFAULT FALSE,
		officer_name TEXT NOT NULL DEFAULT '',
		officer_email TEXT NOT NULL DEFAULT '',
		shift_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (tenant_id, id),
		UNIQUE (tenant_id, officer_id, booth_assignment_id, date, final)
	)`,
	`CREATE INDEX IF NOT EXISTS officer_assignments_shift_idx
		ON officer_assignments (tenant_id, shift_id)`,
	`CREATE TABLE IF NOT EXISTS recounts (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		poll_id UUID NOT NULL,
		booth_assignment_id UUID NOT NULL,
		date DATE NOT NULL,
		origin TEXT NOT NULL,
		total_amount INTEGER NOT NULL DEFAULT 0,
		white_amount INTEGER NOT NULL DEFAULT 0,
		null_amount INTEGER NOT NULL DEFAULT 0,
		total_amount_log TEXT NOT NULL DEFAULT '',
		white_amount_log TEXT NOT NULL DEFAULT '',
		null_amount_log TEXT NOT NULL DEFAULT '',
		officer_assignment_id UUID,
		officer_assignment_id_log TEXT NOT NULL DEFAULT '',
		author_id UUID,
		author_id_log TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (tenant_id, id),
		UNIQUE (tenant_id, booth_assignment_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS partial_results (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		poll_id UUID NOT NULL,
		question_id UUID NOT NULL,
		booth_assignment_id UUID NOT NULL,
		date DATE NOT NULL,
		answer TEXT NOT NULL,
		origin TEXT NOT NULL,
		amount INTEGER NOT NULL DEFAULT 0,
		amount_log TEXT NOT NULL DEFAULT '',
		officer_assignment_id UUID,
		officer_assignment_id_log TEXT NOT NULL DEFAULT '',
		author_id UUID,
		author_id_log TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (tenant_id, id),
		UNIQUE (tenant_id, booth_assignment_id, question_id, answer, date)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		gender TEXT,
		date_of_birth DATE,
		geozone_id UUID,
		hidden BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS geozones (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS voters (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		poll_id UUID NOT NULL,
		user_id UUID NOT NULL,
		origin TEXT NOT NULL,
		booth_assignment_id UUID,
		officer_assignment_id UUID,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS voters_poll_user_idx ON voters (tenant_id, poll_id, user_id)`,
	`CREATE TABLE IF NOT EXISTS questions (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		poll_id UUID NOT NULL,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS question_options (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		question_id UUID NOT NULL,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS question_option_translations (
		tenant_id UUID NOT NULL,
		option_id UUID NOT NULL,
		locale TEXT NOT NULL,
		title TEXT NOT NULL,
		PRIMARY KEY (tenant_id, option_id, locale)
	)`,
	`CREATE TABLE IF NOT EXISTS answers (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		question_id UUID NOT NULL,
		author_id UUID NOT NULL,
		answer TEXT NOT NULL,
		option_id UUID,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS answers_question_author_idx ON answers (tenant_id, question_id, author_id)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		phase TEXT NOT NULL,
		selecting_ends_at TIMESTAMPTZ,
		balloting_ends_at TIMESTAMPTZ,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS budget_headings (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		budget_id UUID NOT NULL,
		name TEXT NOT NULL,
		population INTEGER,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS investments (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		budget_id UUID NOT NULL,
		heading_id UUID NOT NULL,
		author_id UUID,
		selected BOOLEAN NOT NULL DEFAULT FALSE,
		feasibility TEXT NOT NULL DEFAULT 'undecided',
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS investment_supports (
		tenant_id UUID NOT NULL,
		investment_id UUID NOT NULL,
		user_id UUID NOT NULL,
		PRIMARY KEY (tenant_id, investment_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS ballot_lines (
		tenant_id UUID NOT NULL,
		id UUID NOT NULL,
		budget_id UUID NOT NULL,
		heading_id UUID NOT NULL,
		investment_id UUID NOT NULL,
		user_id UUID NOT NULL,
		PRIMARY KEY (tenant_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS outbox (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		published_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS outbox_unpublished_idx ON outbox (created_at) WHERE published_at IS NULL`,
}
