// Package postgres provides the Postgres-backed subject store.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"partnerscout/internal/scout"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for subject rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// querier is the subset of pgxpool.Pool the store needs; pgxmock
// satisfies it in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements scout.SubjectStore over a subjects table.
//
// Expected schema:
//
//	CREATE TABLE subjects (
//	    id               TEXT PRIMARY KEY,
//	    name             TEXT NOT NULL,
//	    website          TEXT NOT NULL UNIQUE,
//	    status           TEXT NOT NULL DEFAULT 'Pending',
//	    outreach_status  TEXT NOT NULL DEFAULT 'Needs Contact',
//	    notes            TEXT NOT NULL DEFAULT '',
//	    affiliate_url    TEXT NOT NULL DEFAULT '',
//	    commission       TEXT NOT NULL DEFAULT '',
//	    cookie_duration  TEXT NOT NULL DEFAULT '',
//	    payout_type      TEXT NOT NULL DEFAULT '',
//	    contact_email    TEXT NOT NULL DEFAULT '',
//	    contact_page_url TEXT NOT NULL DEFAULT '',
//	    favicon_url      TEXT NOT NULL DEFAULT '',
//	    logo_url         TEXT NOT NULL DEFAULT '',
//	    image_url        TEXT NOT NULL DEFAULT '',
//	    social_links     JSONB NOT NULL DEFAULT '[]',
//	    tags             TEXT[] NOT NULL DEFAULT '{}',
//	    use_cases        TEXT[] NOT NULL DEFAULT '{}',
//	    features         TEXT[] NOT NULL DEFAULT '{}',
//	    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type Store struct {
	pool  querier
	table string
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "subjects"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool querier, table string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "subjects"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

const fullProjection = `id, name, website, status, outreach_status, notes,
affiliate_url, commission, cookie_duration, payout_type,
contact_email, contact_page_url, favicon_url, logo_url, image_url,
social_links, tags, use_cases, features`

// ListPending returns up to limit Pending subjects in insertion order.
func (s *Store) ListPending(ctx context.Context, limit int) ([]scout.Subject, error) {
	query := fmt.Sprintf(
		`SELECT id, name, website FROM %s WHERE status = $1 ORDER BY created_at LIMIT $2`,
		s.table,
	)
	rows, err := s.pool.Query(ctx, query, string(scout.StatusPending), limit)
	if err != nil {
		return nil, fmt.Errorf("list pending subjects: %w", err)
	}
	defer rows.Close()

	var subjects []scout.Subject
	for rows.Next() {
		var sub scout.Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Website); err != nil {
			return nil, fmt.Errorf("scan pending subject: %w", err)
		}
		sub.Status = scout.StatusPending
		subjects = append(subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending subjects: %w", err)
	}
	return subjects, nil
}

// Get returns the full projection for one subject.
func (s *Store) Get(ctx context.Context, id string) (scout.Subject, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fullProjection, s.table)
	row := s.pool.QueryRow(ctx, query, id)

	var (
		sub        scout.Subject
		socialJSON []byte
	)
	err := row.Scan(
		&sub.ID, &sub.Name, &sub.Website, &sub.Status, &sub.Outreach, &sub.Notes,
		&sub.Facts.AffiliateURL, &sub.Facts.Commission, &sub.Facts.CookieDuration, &sub.Facts.PayoutType,
		&sub.Facts.ContactEmail, &sub.Facts.ContactPageURL, &sub.Facts.FaviconURL, &sub.Facts.LogoURL, &sub.Facts.ImageURL,
		&socialJSON, &sub.Facts.Tags, &sub.Facts.UseCases, &sub.Facts.Features,
	)
	if err != nil {
		return scout.Subject{}, fmt.Errorf("get subject %s: %w", id, err)
	}
	if len(socialJSON) > 0 {
		if err := json.Unmarshal(socialJSON, &sub.Facts.SocialLinks); err != nil {
			return scout.Subject{}, fmt.Errorf("decode social links for %s: %w", id, err)
		}
	}
	return sub, nil
}

// CountPending reports how many subjects still await discovery.
func (s *Store) CountPending(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE status = $1`, s.table)
	var count int
	if err := s.pool.QueryRow(ctx, query, string(scout.StatusPending)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending subjects: %w", err)
	}
	return count, nil
}

// Update applies a partial update: only fields set in upd touch columns.
func (s *Store) Update(ctx context.Context, id string, upd scout.Update) error {
	sets, args := buildSets(upd)
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE id = $%d`,
		s.table, strings.Join(sets, ", "), len(args),
	)
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update subject %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update subject %s: no such row", id)
	}
	return nil
}

// buildSets translates the non-nil fields of an Update into SET clauses.
func buildSets(upd scout.Update) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Status != nil {
		add("status", string(*upd.Status))
	}
	if upd.Outreach != nil {
		add("outreach_status", string(*upd.Outreach))
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if upd.AffiliateURL != nil {
		add("affiliate_url", *upd.AffiliateURL)
	}
	if upd.Commission != nil {
		add("commission", *upd.Commission)
	}
	if upd.CookieDuration != nil {
		add("cookie_duration", *upd.CookieDuration)
	}
	if upd.PayoutType != nil {
		add("payout_type", *upd.PayoutType)
	}
	if upd.ContactEmail != nil {
		add("contact_email", *upd.ContactEmail)
	}
	if upd.ContactPageURL != nil {
		add("contact_page_url", *upd.ContactPageURL)
	}
	if upd.FaviconURL != nil {
		add("favicon_url", *upd.FaviconURL)
	}
	if upd.LogoURL != nil {
		add("logo_url", *upd.LogoURL)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.SocialLinks != nil {
		encoded, err := json.Marshal(upd.SocialLinks)
		if err == nil {
			add("social_links", encoded)
		}
	}
	if upd.Tags != nil {
		add("tags", upd.Tags)
	}
	if upd.UseCases != nil {
		add("use_cases", upd.UseCases)
	}
	if upd.Features != nil {
		add("features", upd.Features)
	}
	return sets, args
}

// Insert creates a new subject row.
func (s *Store) Insert(ctx context.Context, sub scout.Subject) error {
	socialJSON, err := json.Marshal(orEmptyLinks(sub.Facts.SocialLinks))
	if err != nil {
		return fmt.Errorf("encode social links: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES
($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		s.table, fullProjection)
	_, err = s.pool.Exec(ctx, query,
		sub.ID, sub.Name, sub.Website, string(sub.Status), string(sub.Outreach), sub.Notes,
		sub.Facts.AffiliateURL, sub.Facts.Commission, sub.Facts.CookieDuration, sub.Facts.PayoutType,
		sub.Facts.ContactEmail, sub.Facts.ContactPageURL, sub.Facts.FaviconURL, sub.Facts.LogoURL, sub.Facts.ImageURL,
		socialJSON, orEmpty(sub.Facts.Tags), orEmpty(sub.Facts.UseCases), orEmpty(sub.Facts.Features),
	)
	if err != nil {
		return fmt.Errorf("insert subject %s: %w", sub.ID, err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, used by the importer to count duplicates.
func (s *Store) IsUniqueViolation(err error) bool {
	return IsUniqueViolation(err)
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

// ListAll returns the full projection of every subject, for the duplicate
// scan. Not paged; the catalog is expected to stay modest.
func (s *Store) ListAll(ctx context.Context) ([]scout.Subject, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at`, fullProjection, s.table)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []scout.Subject
	for rows.Next() {
		var (
			sub        scout.Subject
			socialJSON []byte
		)
		err := rows.Scan(
			&sub.ID, &sub.Name, &sub.Website, &sub.Status, &sub.Outreach, &sub.Notes,
			&sub.Facts.AffiliateURL, &sub.Facts.Commission, &sub.Facts.CookieDuration, &sub.Facts.PayoutType,
			&sub.Facts.ContactEmail, &sub.Facts.ContactPageURL, &sub.Facts.FaviconURL, &sub.Facts.LogoURL, &sub.Facts.ImageURL,
			&socialJSON, &sub.Facts.Tags, &sub.Facts.UseCases, &sub.Facts.Features,
		)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		if len(socialJSON) > 0 {
			if err := json.Unmarshal(socialJSON, &sub.Facts.SocialLinks); err != nil {
				return nil, fmt.Errorf("decode social links: %w", err)
			}
		}
		subjects = append(subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return subjects, nil
}

// Delete removes one subject row (duplicate purge only; discovery never
// destroys subjects).
func (s *Store) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table)
	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete subject %s: %w", id, err)
	}
	return nil
}

// UpdateWhereStatus applies the same partial update to every row with the
// given status and returns how many rows changed. Used by bulk resets.
func (s *Store) UpdateWhereStatus(ctx context.Context, status scout.Status, upd scout.Update) (int, error) {
	sets, args := buildSets(upd)
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, string(status))
	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE status = $%d`,
		s.table, strings.Join(sets, ", "), len(args),
	)
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update by status %q: %w", status, err)
	}
	return int(tag.RowsAffected()), nil
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func orEmptyLinks(links []scout.SocialLink) []scout.SocialLink {
	if links == nil {
		return []scout.SocialLink{}
	}
	return links
}
