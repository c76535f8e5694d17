// Command seed loads a compact demo dataset (departments, roles, users with
// manager links, tags, and a handful of tasks) so the API is explorable
// end to end. Safe to run repeatedly: reference rows upsert, tasks are
// skipped when a task with the same title already exists.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/taskhub/internal/config"
	"github.com/lalith-99/taskhub/internal/db"
	"github.com/lalith-99/taskhub/internal/observ"
	"go.uber.org/zap"
)

var departments = []string{"Engineering", "Product", "Design", "Data"}

var roles = map[string][]string{
	"Engineering": {"Developer", "DevOps"},
	"Product":     {"PM"},
	"Design":      {"UX Designer"},
	"Data":        {"Data Scientist"},
}

type seedUser struct {
	first, last, email string
	dept, role         string
	managerEmail       string
}

var users = []seedUser{
	{"Medhini", "Sridharr", "medhini@example.com", "Engineering", "Developer", ""},
	{"Aarav", "Khan", "aarav.khan@example.com", "Engineering", "DevOps", "medhini@example.com"},
	{"Isha", "Patel", "isha.patel@example.com", "Product", "PM", ""},
	{"Ravi", "Menon", "ravi.menon@example.com", "Data", "Data Scientist", "isha.patel@example.com"},
	{"Anya", "Roy", "anya.roy@example.com", "Design", "UX Designer", "isha.patel@example.com"},
}

var tags = []string{"backend", "bug", "customer-A", "ux", "research"}

type seedTask struct {
	title, description string
	status, priority   string
	dueInDays          int
	creatorEmail       string
	tagNames           []string
	assigneeEmails     []string
}

var tasks = []seedTask{
	{"Build auth module", "Implement JWT-based auth with refresh tokens.",
		"in_progress", "high", 7, "medhini@example.com",
		[]string{"backend"}, []string{"medhini@example.com", "aarav.khan@example.com"}},
	{"Fix login bug", "Users get 500 on Safari - investigate and patch.",
		"todo", "urgent", 2, "medhini@example.com",
		[]string{"bug", "customer-A"}, []string{"aarav.khan@example.com"}},
	{"Usability test - onboarding", "Run 5 user sessions for new onboarding flow.",
		"blocked", "normal", 10, "isha.patel@example.com",
		[]string{"ux"}, []string{"anya.roy@example.com"}},
	{"Churn analysis MVP", "Baseline churn model; set up cohort tables.",
		"in_progress", "high", 14, "isha.patel@example.com",
		[]string{"research"}, []string{"ravi.menon@example.com"}},
	{"Groom Q4 backlog", "Prioritize epics and align dependencies.",
		"todo", "low", 21, "isha.patel@example.com",
		nil, []string{"medhini@example.com", "isha.patel@example.com"}},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()
	pool := database.Pool()

	deptIDs := make(map[string]uuid.UUID)
	for _, name := range departments {
		var id uuid.UUID
		err := pool.QueryRow(ctx, `
			INSERT INTO departments (id, name)
			VALUES (uuid_generate_v4(), $1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, name).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed department %s: %w", name, err)
		}
		deptIDs[name] = id
	}

	roleIDs := make(map[string]uuid.UUID)
	for dept, names := range roles {
		for _, name := range names {
			var id uuid.UUID
			err := pool.QueryRow(ctx, `
				INSERT INTO roles (id, department_id, name)
				VALUES (uuid_generate_v4(), $1, $2)
				ON CONFLICT (department_id, name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, deptIDs[dept], name).Scan(&id)
			if err != nil {
				return fmt.Errorf("seed role %s/%s: %w", dept, name, err)
			}
			roleIDs[dept+"/"+name] = id
		}
	}

	userIDs := make(map[string]uuid.UUID)
	for _, u := range users {
		var id uuid.UUID
		err := pool.QueryRow(ctx, `
			INSERT INTO users (id, first_name, last_name, email, department_id, role_id)
			VALUES (uuid_generate_v4(), $1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name
			RETURNING id`,
			u.first, u.last, u.email, deptIDs[u.dept], roleIDs[u.dept+"/"+u.role]).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
		userIDs[u.email] = id
	}

	// Second pass: manager links need every user row to exist first.
	for _, u := range users {
		if u.managerEmail == "" {
			continue
		}
		_, err := pool.Exec(ctx, `UPDATE users SET reports_to = $1 WHERE id = $2`,
			userIDs[u.managerEmail], userIDs[u.email])
		if err != nil {
			return fmt.Errorf("link manager for %s: %w", u.email, err)
		}
	}

	tagIDs := make(map[string]uuid.UUID)
	for _, name := range tags {
		var id uuid.UUID
		err := pool.QueryRow(ctx, `
			INSERT INTO tags (id, name)
			VALUES (uuid_generate_v4(), $1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, name).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed tag %s: %w", name, err)
		}
		tagIDs[name] = id
	}

	created := 0
	for _, t := range tasks {
		var n int
		if err := pool.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE title = $1`, t.title).Scan(&n); err != nil {
			return fmt.Errorf("check task %q: %w", t.title, err)
		}
		if n > 0 {
			continue
		}
		if err := insertTask(ctx, pool, t, userIDs, tagIDs); err != nil {
			return err
		}
		created++
	}

	logger.Info("seed complete",
		zap.Int("departments", len(deptIDs)),
		zap.Int("roles", len(roleIDs)),
		zap.Int("users", len(userIDs)),
		zap.Int("tags", len(tagIDs)),
		zap.Int("tasks_created", created),
	)
	return nil
}

func insertTask(ctx context.Context, pool *pgxpool.Pool, t seedTask, userIDs, tagIDs map[string]uuid.UUID) error {
	dueAt := time.Now().UTC().AddDate(0, 0, t.dueInDays)

	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, created_at, due_at, updated_at, created_by)
		VALUES (uuid_generate_v4(), $1, $2, $3::task_status, $4::task_priority, now(), $5, now(), $6)
		RETURNING id`,
		t.title, t.description, t.status, t.priority, dueAt, userIDs[t.creatorEmail]).Scan(&id)
	if err != nil {
		return fmt.Errorf("seed task %q: %w", t.title, err)
	}

	for _, email := range t.assigneeEmails {
		_, err := pool.Exec(ctx, `
			INSERT INTO task_assignees (task_id, user_id, assigned_at)
			VALUES ($1, $2, now())`, id, userIDs[email])
		if err != nil {
			return fmt.Errorf("assign %s to %q: %w", email, t.title, err)
		}
	}
	for _, name := range t.tagNames {
		_, err := pool.Exec(ctx, `
			INSERT INTO task_tags (task_id, tag_id)
			VALUES ($1, $2)`, id, tagIDs[name])
		if err != nil {
			return fmt.Errorf("tag %q on %q: %w", name, t.title, err)
		}
	}
	return nil
}
