package repository

import (
	"context"

	"garage-booking/internal/infra"
	"garage-booking/internal/infra/db"
	"garage-booking/internal/infra/pgsql"
	"garage-booking/internal/pkg/clock"
	"garage-booking/internal/pkg/pgconv"
	"garage-booking/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type NotificationRepository struct {
	db    db.DBTX
	clock clock.Clock
}

func NewNotificationRepository(tx db.DBTX, clk clock.Clock) *NotificationRepository {
	return &NotificationRepository{
		db:    tx,
		clock: clk,
	}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, job shared.NotificationJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = shared.NotificationStatusQueued
	}
	if job.RunAt.IsZero() {
		job.RunAt = r.clock.Now()
	}

	query, args, err := pgsql.Build(
		pgsql.Dialect().Insert(pgsql.TableNotificationJobs).
			Rows(goqu.Record{
				"id":      job.ID,
				"kind":    job.Kind,
				"topic":   job.Topic,
				"key":     job.Key,
				"payload": goqu.L("?::jsonb", string(job.Payload)),
				"status":  job.Status,
				"run_at":  job.RunAt,
			}),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to build notification job insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

func (r *NotificationRepository) FetchQueued(ctx context.Context, limit int) ([]shared.NotificationJob, error) {
	query, args, err := pgsql.Build(
		pgsql.Dialect().From(pgsql.TableNotificationJobs).
			Select("id", "kind", "topic", "key", "payload", "status", "attempts", "last_error", "run_at", "created_at").
			Where(
				goqu.C("status").Eq(shared.NotificationStatusQueued),
				goqu.C("run_at").Lte(r.clock.Now()),
			).
			Order(goqu.C("run_at").Asc(), goqu.C("created_at").Asc()).
			Limit(uint(limit)).
			ForUpdate(exp.SkipLocked),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build notification fetch", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to fetch notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var (
			job       shared.NotificationJob
			attempts  int32
			lastError pgtype.Text
			runAt     pgtype.Timestamptz
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.Key, &job.Payload, &job.Status, &attempts, &lastError, &runAt, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		job.Attempts = int(attempts)
		if lastError.Valid {
			job.LastError = &lastError.String
		}
		job.RunAt = pgconv.TimeFromPgtype(runAt)
		job.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := pgsql.Build(
		pgsql.Dialect().Update(pgsql.TableNotificationJobs).
			Set(goqu.Record{
				"status":     shared.NotificationStatusSent,
				"updated_at": r.clock.Now(),
			}).
			Where(goqu.C("id").In(ids)),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to build notification update", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to mark notification jobs sent", err)
	}
	return nil
}

// MarkAttemptFailed keeps the job queued until maxAttempts is reached.
func (r *NotificationRepository) MarkAttemptFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int) error {
	query, args, err := pgsql.Build(
		pgsql.Dialect().Update(pgsql.TableNotificationJobs).
			Set(goqu.Record{
				"attempts":   goqu.L(`"attempts" + 1`),
				"last_error": lastError,
				"status": goqu.Case().
					When(goqu.L(`"attempts" + 1 >= ?`, maxAttempts), shared.NotificationStatusFailed).
					Else(shared.NotificationStatusQueued),
				"updated_at": r.clock.Now(),
			}).
			Where(goqu.C("id").Eq(id)),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to build notification update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to record notification failure", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "notification job not found")
	}
	return nil
}
