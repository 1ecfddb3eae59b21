package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/poolside/bracket-pool/models"
)

type LogRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.LogEntry) error
	ListByPool(ctx context.Context, exec SQLExecutor, poolID int, category *models.LogCategory, userID *int) ([]*models.LogEntry, error)
}

type postgresLogRepository struct {
	db *sql.DB
}

func NewPostgresLogRepository(db *sql.DB) LogRepository {
	return &postgresLogRepository{db: db}
}

func (r *postgresLogRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresLogRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.LogEntry) error {
	executor := r.getExecutor(exec)
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	query := `
		INSERT INTO log_entries (category, user_id, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		entry.Category, entry.UserID, entry.Description, entry.Timestamp,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

func (r *postgresLogRepository) ListByPool(ctx context.Context, exec SQLExecutor, poolID int, category *models.LogCategory, userID *int) ([]*models.LogEntry, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT l.id, l.category, l.user_id, l.description, l.created_at, u.full_name
		FROM log_entries l
		JOIN users u ON u.id = l.user_id
		WHERE u.pool_id = $1`)

	args := []interface{}{poolID}
	placeholderIndex := 2

	if category != nil {
		queryBuilder.WriteString(" AND l.category = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *category)
		placeholderIndex++
	}
	if userID != nil {
		queryBuilder.WriteString(" AND l.user_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *userID)
	}
	queryBuilder.WriteString(" ORDER BY l.created_at DESC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query log entries for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	entries := make([]*models.LogEntry, 0)
	for rows.Next() {
		var entry models.LogEntry
		if scanErr := rows.Scan(
			&entry.ID, &entry.Category, &entry.UserID,
			&entry.Description, &entry.Timestamp, &entry.UserFullName,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan log entry row: %w", scanErr)
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during log entry rows iteration: %w", err)
	}
	return entries, nil
}
