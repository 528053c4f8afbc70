package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"keydoctor/db"
	"keydoctor/internal/probe"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// Record is one probe_history row.
type Record struct {
	ID          string `db:"id" json:"id" validate:"required"`
	Fingerprint string `db:"fingerprint" json:"fingerprint" validate:"required,len=12,hexadecimal"`
	Outcome     string `db:"outcome" json:"outcome" validate:"required,oneof=success auth_failure other_failure"`
	ErrorKind   string `db:"error_kind" json:"error_kind,omitempty"`
	Detail      string `db:"detail" json:"detail,omitempty"`
	Model       string `db:"model" json:"model" validate:"required"`
	DurationMS  int64  `db:"duration_ms" json:"duration_ms" validate:"gte=0"`
	CreatedAtMS int64  `db:"created_at_ms" json:"created_at_ms" validate:"gt=0"`
}

func FromEvent(ev probe.Event) Record {
	return Record{
		ID:          ev.ID,
		Fingerprint: ev.Fingerprint,
		Outcome:     string(ev.Outcome),
		ErrorKind:   ev.Kind,
		Detail:      ev.Detail,
		Model:       ev.Model,
		DurationMS:  ev.Duration.Milliseconds(),
		CreatedAtMS: ev.CreatedAt.UnixMilli(),
	}
}

func (r Record) CreatedAt() time.Time {
	return time.UnixMilli(r.CreatedAtMS).UTC()
}

// Store persists probe outcomes. A Store over a nil db is valid and
// reports db.ErrDisabled from Recent.
type Store struct {
	db       *sqlx.DB
	logger   *zap.SugaredLogger
	validate *validator.Validate
}

type NewStoreParams struct {
	fx.In

	DB     *sqlx.DB `optional:"true"`
	Logger *zap.SugaredLogger
}

func NewStore(p NewStoreParams) *Store {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{db: p.DB, logger: logger, validate: validator.New()}
}

func (s *Store) Enabled() bool { return s.db != nil }

// ObserveProbe records ev. With history disabled it does nothing.
func (s *Store) ObserveProbe(ctx context.Context, ev probe.Event) error {
	if s.db == nil {
		return nil
	}
	rec := FromEvent(ev)
	if err := s.validate.Struct(rec); err != nil {
		return fmt.Errorf("invalid probe record: %w", err)
	}

	q := s.db.Rebind(`INSERT INTO probe_history
		(id, fingerprint, outcome, error_kind, detail, model, duration_ms, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	err := db.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			rec.ID, rec.Fingerprint, rec.Outcome, rec.ErrorKind, rec.Detail,
			rec.Model, rec.DurationMS, rec.CreatedAtMS)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert probe_history %s: %w", rec.ID, err)
	}

	s.logger.Debugw("probe_history_saved", "id", rec.ID, "fingerprint", rec.Fingerprint, "outcome", rec.Outcome)
	return nil
}

// Recent returns up to limit records, newest first. limit is clamped to
// [1, MaxLimit]; zero or negative means DefaultLimit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s.db == nil {
		return nil, db.ErrDisabled
	}
	limit = ClampLimit(limit)

	q := s.db.Rebind(`SELECT id, fingerprint, outcome, error_kind, detail, model, duration_ms, created_at_ms
		FROM probe_history
		ORDER BY created_at_ms DESC, id DESC
		LIMIT ?`)

	out := []Record{}
	if err := s.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("select probe_history: %w", err)
	}
	return out, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func IsDisabled(err error) bool {
	return errors.Is(err, db.ErrDisabled)
}
