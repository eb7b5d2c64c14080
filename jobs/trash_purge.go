package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subcore/company-service/internal/platform/db"
)

// TrashPurgeJob removes soft-deleted companies and members whose
// deleted_at is older than the retention window. Purged rows are gone
// for good; restore only works inside the window.
type TrashPurgeJob struct {
	pool      *pgxpool.Pool
	retention time.Duration
	logger    *slog.Logger
}

// NewTrashPurgeJob constructs the job.
func NewTrashPurgeJob(pool *pgxpool.Pool, retention time.Duration, logger *slog.Logger) *TrashPurgeJob {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrashPurgeJob{pool: pool, retention: retention, logger: logger}
}

// Handle processes TaskTrashPurge tasks.
func (j *TrashPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload TrashPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	olderThan := payload.OlderThan
	if olderThan <= 0 {
		olderThan = j.retention
	}
	cutoff := time.Now().Add(-olderThan)

	var membersPurged, companiesPurged int64
	err := db.WithTx(ctx, j.pool, func(tx pgx.Tx) error {
		// Members first so company purges never trip the FK.
		members, err := tx.Exec(ctx,
			`DELETE FROM company_members WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
		if err != nil {
			return err
		}
		companies, err := tx.Exec(ctx,
			`DELETE FROM companies WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
		if err != nil {
			return err
		}
		membersPurged = members.RowsAffected()
		companiesPurged = companies.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}

	j.logger.Info("trash purge completed",
		slog.Int64("members_purged", membersPurged),
		slog.Int64("companies_purged", companiesPurged),
		slog.Time("cutoff", cutoff))
	return nil
}
