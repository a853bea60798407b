package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/day-weaver-api/internal/model"
)

var (
	ErrorNotFound    = errors.New("not found")
	ErrorConflict    = errors.New("conflict")
	ErrorUnavailable = errors.New("store unavailable")
)

const taskColumns = "id, text, deadline, priority, note, is_completed, reactions, created_at"

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Create(ctx context.Context, d model.TaskDraft) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, text, deadline, priority, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+taskColumns+`
	`, uuid.NewString(), d.Text, d.Deadline, string(d.Priority), d.Note)

	t, err := scanTask(row)
	return t, r.mapError(err)
}

func (r *TaskRepo) Get(ctx context.Context, id string) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

// List возвращает всю коллекцию, новые задачи первыми.
// id в сортировке — стабильный tie-break при равных created_at.
func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrorUnavailable, err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrorUnavailable, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrorUnavailable, err)
	}
	return tasks, nil
}

// Update меняет только поля, заданные в patch
func (r *TaskRepo) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	set := make([]string, 0, 5)
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Text != nil {
		add("text", *patch.Text)
	}
	if patch.Deadline != nil {
		add("deadline", *patch.Deadline)
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	if patch.Note != nil {
		add("note", *patch.Note)
	}
	if patch.IsCompleted != nil {
		add("is_completed", *patch.IsCompleted)
	}

	if len(set) == 0 { // пустой патч — просто вернуть текущее состояние
		return r.Get(ctx, id)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET `+strings.Join(set, ", ")+`
		WHERE id = $1
		RETURNING `+taskColumns+`
	`, args...)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, r.mapError(err)
}

// AddReaction атомарно инкрементит счетчик эмодзи внутри jsonb
func (r *TaskRepo) AddReaction(ctx context.Context, id, emoji string) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET reactions = reactions || jsonb_build_object(
			$2::text, COALESCE((reactions->>$2)::int, 0) + 1
		)
		WHERE id = $1
		RETURNING `+taskColumns+`
	`, id, emoji)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, r.mapError(err)
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

// DeleteAll удаляет всю коллекцию батчем в одной транзакции — все или ничего
func (r *TaskRepo) DeleteAll(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrorUnavailable, err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, "SELECT id FROM tasks")
	if err != nil {
		return err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return tx.Commit(ctx)
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue("DELETE FROM tasks WHERE id = $1", id)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *TaskRepo) SaveIdempotencyKey(ctx context.Context, key string, resourceID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (key, resource_id) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`, key, resourceID)
	return err
}

func (r *TaskRepo) GetIdempotencyKey(ctx context.Context, key string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		SELECT resource_id FROM idempotency_keys WHERE key = $1
	`, key).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrorNotFound
	}
	return id, err
}

func (r *TaskRepo) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE is_completed),
		       count(*) FILTER (WHERE NOT is_completed)
		FROM tasks
	`).Scan(&s.Total, &s.Completed, &s.Open)
	return s, err
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.Text, &t.Deadline, &t.Priority,
		&t.Note, &t.IsCompleted, &t.Reactions, &t.CreatedAt,
	)
	return t, err
}

func (r *TaskRepo) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return ErrorConflict
		}
	}
	return err
}
