// Package store persists business profiles and generated strategies in
// SQLite. Businesses are upserted on (owner, name); strategies are an
// append-only history with a well-defined latest row per business.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/growthplot/strategy-agent/internal/models"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("strategy not found")

// PersistenceError wraps a storage failure so callers can decide to
// log-and-continue instead of failing the request.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// StaleBusiness is a business whose latest strategy predates the refresh
// cutoff.
type StaleBusiness struct {
	BusinessID int64
	OwnerID    string
	Profile    models.BusinessProfile
}

// Store wraps the SQLite database.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open initializes the SQLite database at the given path and applies the
// schema.
func Open(path string, log *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("failed to set journal_mode=WAL", zap.Error(err))
	}

	if _, err := db.Exec(SchemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info("store opened", zap.String("path", path))
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so the upsert and insert
// helpers can run standalone or inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UpsertBusiness inserts the profile for the owner, or updates all non-key
// fields if (owner, name) already exists. Returns the stable business id.
func (s *Store) UpsertBusiness(ctx context.Context, profile models.BusinessProfile, ownerID string) (int64, error) {
	id, err := upsertBusiness(ctx, s.db, profile, ownerID)
	if err != nil {
		return 0, &PersistenceError{Op: "upsert business", Err: err}
	}
	return id, nil
}

func upsertBusiness(ctx context.Context, q dbtx, profile models.BusinessProfile, ownerID string) (int64, error) {
	_, err := q.ExecContext(ctx, `
		INSERT INTO businesses (user_id, name, industry, niche, audience, goals, challenges)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, name) DO UPDATE SET
			industry = excluded.industry,
			niche = excluded.niche,
			audience = excluded.audience,
			goals = excluded.goals,
			challenges = excluded.challenges,
			updated_at = CURRENT_TIMESTAMP`,
		ownerID, profile.Name, profile.Industry, profile.Niche, profile.Audience, profile.Goals, profile.Challenges)
	if err != nil {
		return 0, err
	}

	var id int64
	err = q.QueryRowContext(ctx,
		`SELECT id FROM businesses WHERE user_id = ? AND name = ?`,
		ownerID, profile.Name).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SaveStrategy appends an immutable strategy row for the business. Prior
// rows are never overwritten.
func (s *Store) SaveStrategy(ctx context.Context, strategy *models.Strategy, businessID int64) error {
	if err := insertStrategy(ctx, s.db, strategy, businessID); err != nil {
		return &PersistenceError{Op: "save strategy", Err: err}
	}
	return nil
}

func insertStrategy(ctx context.Context, q dbtx, strategy *models.Strategy, businessID int64) error {
	cols, err := marshalNested(strategy)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO strategies (
			id, business_id, summary, growth_score, target_audience,
			marketing_channels, sales_funnel, content_calendar,
			pricing_strategy, competitors, kpis, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strategy.ID, businessID, strategy.Summary, strategy.GrowthScore,
		cols.targetAudience, cols.marketingChannels, cols.salesFunnel, cols.contentCalendar,
		cols.pricingStrategy, cols.competitors, cols.kpis,
		strategy.GeneratedAt.UnixMilli())
	return err
}

// SaveGeneration persists the result of one generation atomically: user
// sync, business upsert, and strategy insert either all commit or none are
// visible.
func (s *Store) SaveGeneration(ctx context.Context, strategy *models.Strategy, profile models.BusinessProfile, ownerID, email string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING`,
		ownerID, email)
	if err != nil {
		return &PersistenceError{Op: "sync user", Err: err}
	}

	businessID, err := upsertBusiness(ctx, tx, profile, ownerID)
	if err != nil {
		return &PersistenceError{Op: "upsert business", Err: err}
	}

	if err := insertStrategy(ctx, tx, strategy, businessID); err != nil {
		return &PersistenceError{Op: "save strategy", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit", Err: err}
	}

	s.log.Info("strategy saved",
		zap.String("strategy_id", strategy.ID),
		zap.Int64("business_id", businessID))
	return nil
}

const strategyColumns = `id, summary, growth_score, target_audience, marketing_channels,
	sales_funnel, content_calendar, pricing_strategy, competitors, kpis, generated_at`

// GetByID returns the strategy with the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Strategy, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+strategyColumns+` FROM strategies WHERE id = ?`, id)
	return scanStrategy(row)
}

// LatestForBusiness returns the most recently generated strategy for the
// named business, or ErrNotFound.
func (s *Store) LatestForBusiness(ctx context.Context, name string) (*models.Strategy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.summary, s.growth_score, s.target_audience, s.marketing_channels,
		       s.sales_funnel, s.content_calendar, s.pricing_strategy, s.competitors, s.kpis, s.generated_at
		FROM strategies s
		JOIN businesses b ON s.business_id = b.id
		WHERE b.name = ?
		ORDER BY s.generated_at DESC
		LIMIT 1`, name)
	return scanStrategy(row)
}

// ListStale returns distinct businesses whose latest strategy predates
// now-olderThan, oldest first. A non-positive limit means no cap.
func (s *Store) ListStale(ctx context.Context, olderThan time.Duration, limit int) ([]StaleBusiness, error) {
	cutoff := time.Now().UTC().Add(-olderThan).UnixMilli()
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.name, b.industry, b.niche, b.audience, b.goals, b.challenges,
		       MAX(s.generated_at) AS last_generated
		FROM businesses b
		JOIN strategies s ON s.business_id = b.id
		GROUP BY b.id
		HAVING last_generated < ?
		ORDER BY last_generated ASC
		LIMIT ?`, cutoff, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list stale businesses", Err: err}
	}
	defer rows.Close()

	var stale []StaleBusiness
	for rows.Next() {
		var sb StaleBusiness
		var lastGenerated int64
		err := rows.Scan(&sb.BusinessID, &sb.OwnerID,
			&sb.Profile.Name, &sb.Profile.Industry, &sb.Profile.Niche,
			&sb.Profile.Audience, &sb.Profile.Goals, &sb.Profile.Challenges,
			&lastGenerated)
		if err != nil {
			return nil, &PersistenceError{Op: "scan stale business", Err: err}
		}
		stale = append(stale, sb)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list stale businesses", Err: err}
	}
	return stale, nil
}

type nestedColumns struct {
	targetAudience, marketingChannels, salesFunnel, contentCalendar string
	pricingStrategy, competitors, kpis                              string
}

func marshalNested(strategy *models.Strategy) (nestedColumns, error) {
	var cols nestedColumns
	for _, field := range []struct {
		dst *string
		src any
	}{
		{&cols.targetAudience, strategy.TargetAudience},
		{&cols.marketingChannels, strategy.MarketingChannels},
		{&cols.salesFunnel, strategy.SalesFunnel},
		{&cols.contentCalendar, strategy.ContentCalendar},
		{&cols.pricingStrategy, strategy.PricingStrategy},
		{&cols.competitors, strategy.Competitors},
		{&cols.kpis, strategy.KPIs},
	} {
		data, err := json.Marshal(field.src)
		if err != nil {
			return cols, err
		}
		*field.dst = string(data)
	}
	return cols, nil
}

func scanStrategy(row *sql.Row) (*models.Strategy, error) {
	var strategy models.Strategy
	var cols nestedColumns
	var generatedAt int64
	err := row.Scan(&strategy.ID, &strategy.Summary, &strategy.GrowthScore,
		&cols.targetAudience, &cols.marketingChannels, &cols.salesFunnel,
		&cols.contentCalendar, &cols.pricingStrategy, &cols.competitors, &cols.kpis,
		&generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "scan strategy", Err: err}
	}

	strategy.GeneratedAt = time.UnixMilli(generatedAt).UTC()
	for _, field := range []struct {
		src string
		dst any
	}{
		{cols.targetAudience, &strategy.TargetAudience},
		{cols.marketingChannels, &strategy.MarketingChannels},
		{cols.salesFunnel, &strategy.SalesFunnel},
		{cols.contentCalendar, &strategy.ContentCalendar},
		{cols.pricingStrategy, &strategy.PricingStrategy},
		{cols.competitors, &strategy.Competitors},
		{cols.kpis, &strategy.KPIs},
	} {
		if field.src == "" {
			continue
		}
		if err := json.Unmarshal([]byte(field.src), field.dst); err != nil {
			return nil, &PersistenceError{Op: "decode strategy column", Err: err}
		}
	}
	return &strategy, nil
}
