package repo

import (
	"context"
	_ "embed"

	"tomotrip/internal/core/guidefilter"
	"tomotrip/internal/modkit/repokit"
	perr "tomotrip/internal/platform/errors"
)

//go:embed schema.sql
var schemaSQL string

// Repo is the postgres contract for the guide catalog
type Repo interface {
	Source
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, records []guidefilter.GuideRecord) (int, error)
	Prune(ctx context.Context, keep []string) (int, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Name() string { return "pg" }

func (r *queries) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schemaSQL); err != nil {
		return perr.FromPostgres(err, "ensure guide schema")
	}
	return nil
}

// Load reads the catalog in position order; ties break on id so order is stable
func (r *queries) Load(ctx context.Context) ([]guidefilter.GuideRecord, error) {
	const sql = `
select id, name, location, languages, hourly_fee, keywords, description, verification_status
from guide_profiles
order by position, id
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "load guides")
	}
	defer rows.Close()

	out := make([]guidefilter.GuideRecord, 0, 64)
	for rows.Next() {
		var (
			g      guidefilter.GuideRecord
			status string
		)
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Location,
			&g.Languages,
			&g.HourlyFee,
			&g.Keywords,
			&g.Description,
			&status,
		); err != nil {
			return nil, perr.FromPostgres(err, "scan guide")
		}
		g.Verification = guidefilter.VerificationStatus(status)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "load guides")
	}
	return out, nil
}

// Upsert writes records with position set to their slice index
// callers wanting all or nothing run it under repokit.WithTx
func (r *queries) Upsert(ctx context.Context, records []guidefilter.GuideRecord) (int, error) {
	const sql = `
insert into guide_profiles (id, position, name, location, languages, hourly_fee, keywords, description, verification_status, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
on conflict (id) do update set
    position = excluded.position,
    name = excluded.name,
    location = excluded.location,
    languages = excluded.languages,
    hourly_fee = excluded.hourly_fee,
    keywords = excluded.keywords,
    description = excluded.description,
    verification_status = excluded.verification_status,
    updated_at = now()
`
	n := 0
	for i, g := range records {
		status := string(g.Verification)
		if status == "" {
			status = string(guidefilter.VerificationUnverified)
		}
		kw := g.Keywords
		if kw == nil {
			kw = []string{}
		}
		if _, err := r.q.Exec(ctx, sql,
			g.ID, i, g.Name, g.Location, g.Languages, g.HourlyFee, kw, g.Description, status,
		); err != nil {
			return n, perr.FromPostgresf(err, "upsert guide %s", g.ID)
		}
		n++
	}
	return n, nil
}

// Prune deletes every guide whose id is not in keep
func (r *queries) Prune(ctx context.Context, keep []string) (int, error) {
	if keep == nil {
		keep = []string{}
	}
	tag, err := r.q.Exec(ctx, `delete from guide_profiles where not (id = any($1))`, keep)
	if err != nil {
		return 0, perr.FromPostgres(err, "prune guides")
	}
	return int(tag.RowsAffected()), nil
}
