// Package statusstore persists request statuses in sqlite or postgres.
package statusstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure Go sqlite driver (no CGO required)

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package globals.
var migrationMutex sync.Mutex

var _ executor.StatusStore = (*Store)(nil)

type Store struct {
	db   *sqlx.DB
	lggr logger.Logger
}

type statusRow struct {
	ID           string `db:"id"`
	SrcChain     uint16 `db:"src_chain"`
	TxHash       string `db:"tx_hash"`
	LogIndex     int64  `db:"log_index"`
	RequestType  string `db:"request_type"`
	Status       string `db:"status"`
	Signatures   string `db:"signatures"`
	FailureCause string `db:"failure_cause"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`
}

// New opens the database for driver and brings its schema up to date.
func New(ctx context.Context, lggr logger.Logger, driver, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn cannot be empty")
	}

	var (
		db  *sqlx.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = sqlx.ConnectContext(ctx, DriverSQLite, dsn+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
		if err == nil {
			// Single writer.
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		db, err = sqlx.ConnectContext(ctx, DriverPostgres, dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err = runMigrations(db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, lggr: logger.With(lggr, "component", "StatusStore", "driver", driver)}
	s.lggr.Infow("Status store initialized")
	return s, nil
}

func runMigrations(db *sqlx.DB, driver string) error {
	migrationMutex.Lock()
	defer migrationMutex.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations/"+driver); err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", driver, err)
	}
	return nil
}

// Put upserts rec. CreatedAt is kept from the first write.
func (s *Store) Put(ctx context.Context, rec executor.StatusRecord) error {
	sigs := rec.Signatures
	if sigs == nil {
		sigs = []string{}
	}
	sigJSON, err := json.Marshal(sigs)
	if err != nil {
		return fmt.Errorf("failed to encode signatures: %w", err)
	}

	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = updated
	}

	stmt := s.db.Rebind(`INSERT INTO request_statuses
			(id, src_chain, tx_hash, log_index, request_type, status, signatures, failure_cause, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			request_type = excluded.request_type,
			status = excluded.status,
			signatures = excluded.signatures,
			failure_cause = excluded.failure_cause,
			updated_at = excluded.updated_at`)

	_, err = s.db.ExecContext(ctx, stmt,
		rec.ID.String(),
		uint16(rec.SrcChain),
		rec.TxHash,
		int64(rec.LogIndex), //nolint:gosec // log indices are far below 2^63
		rec.RequestType,
		string(rec.Status),
		string(sigJSON),
		rec.FailureCause,
		created.UnixMilli(),
		updated.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert status for request %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id executor.RequestID) (*executor.StatusRecord, error) {
	var row statusRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM request_statuses WHERE id = ?`), id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, executor.ErrStatusNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query status for request %s: %w", id, err)
	}
	return row.toRecord()
}

func (s *Store) ListByStatus(ctx context.Context, status executor.Status, limit int) ([]executor.StatusRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	var rows []statusRow
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind(`SELECT * FROM request_statuses WHERE status = ? ORDER BY created_at, id LIMIT ?`),
		string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s requests: %w", status, err)
	}

	out := make([]executor.StatusRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (r statusRow) toRecord() (*executor.StatusRecord, error) {
	var sigs []string
	if err := json.Unmarshal([]byte(r.Signatures), &sigs); err != nil {
		return nil, fmt.Errorf("failed to decode signatures for request %s: %w", r.ID, err)
	}
	if len(sigs) == 0 {
		sigs = nil
	}
	return &executor.StatusRecord{
		ID:           executor.RequestID(r.ID),
		SrcChain:     protocol.ChainID(r.SrcChain),
		TxHash:       r.TxHash,
		LogIndex:     uint64(r.LogIndex), //nolint:gosec // written from a uint64
		RequestType:  r.RequestType,
		Status:       executor.Status(r.Status),
		Signatures:   sigs,
		FailureCause: r.FailureCause,
		CreatedAt:    time.UnixMilli(r.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(r.UpdatedAt).UTC(),
	}, nil
}
