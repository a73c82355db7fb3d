package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"

	"odoo_gallery/internal/domain/models"
)

const journalTable = "gallery_journal"

type PgJournalRepo struct {
	db *pgxpool.Pool
}

func NewPgJournalRepo(db *pgxpool.Pool) *PgJournalRepo {
	return &PgJournalRepo{db: db}
}

// AppendEntry сохраняет запись аудита об изменении галереи
func (r *PgJournalRepo) AppendEntry(ctx context.Context, entry models.JournalEntry) error {
	const op = "repository.PgJournalRepo.AppendEntry"

	query, args, err := sq.Insert(journalTable).
		Columns(
			"id",
			"user_id",
			"operation",
			"product_id",
			"image_id",
			"detail",
			"created_at",
		).
		Values(
			entry.ID,
			entry.UserID,
			entry.Operation,
			entry.ProductID,
			entry.ImageID,
			entry.Detail,
			entry.CreatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RecentEntries возвращает последние записи журнала, новые впереди
func (r *PgJournalRepo) RecentEntries(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	const op = "repository.PgJournalRepo.RecentEntries"

	query, args, err := sq.Select("id", "user_id", "operation", "product_id", "image_id", "detail", "created_at").
		From(journalTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Operation, &e.ProductID, &e.ImageID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: can't scan entry: %w", op, err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}
