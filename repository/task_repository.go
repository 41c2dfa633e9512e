package repository

import (
	"context"
	"fmt"

	"exion/database"
	"exion/models"
	"github.com/jackc/pgx/v5"
)

// TaskRepository implements the TaskRepository interface
type TaskRepository struct {
	q queryable
}

// NewTaskRepository creates a new social task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{q: db.Pool}
}

// newTaskRepositoryWithTx creates a new social task repository with a transaction
func newTaskRepositoryWithTx(tx queryable) *TaskRepository {
	return &TaskRepository{q: tx}
}

// GetByID retrieves a social task definition, or nil if absent
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.SocialTask, error) {
	query := `
		SELECT id, title, description, link, points, icon, created_at, updated_at
		FROM social_tasks
		WHERE id = $1
	`

	var task models.SocialTask
	err := r.q.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Link,
		&task.Points,
		&task.Icon,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get social task %s: %w", id, err)
	}

	return &task, nil
}

// GetAll returns all social task definitions
func (r *TaskRepository) GetAll(ctx context.Context) ([]*models.SocialTask, error) {
	query := `
		SELECT id, title, description, link, points, icon, created_at, updated_at
		FROM social_tasks
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get social tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.SocialTask
	for rows.Next() {
		var task models.SocialTask
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Link,
			&task.Points,
			&task.Icon,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan social task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate social tasks: %w", err)
	}

	return tasks, nil
}

// Upsert creates or replaces a social task definition
func (r *TaskRepository) Upsert(ctx context.Context, task *models.SocialTask) error {
	query := `
		INSERT INTO social_tasks (id, title, description, link, points, icon)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			link = EXCLUDED.link,
			points = EXCLUDED.points,
			icon = EXCLUDED.icon,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Link,
		task.Points,
		task.Icon,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert social task %s: %w", task.ID, err)
	}

	return nil
}

// Delete removes a social task definition
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.Exec(ctx, `DELETE FROM social_tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete social task %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("social task %s not found", id)
	}
	return nil
}
