package ingest

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"missionctl/internal/platform/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindAgentsByName(name string) ([]*models.Agent, error) {
	rows, err := r.db.Query(`SELECT id, tenant_id, name, role, level, avatar, created_at FROM agents WHERE name = ?`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAgents(rows)
}

func (r *Repository) CreateAgent(agent *models.Agent) error {
	if agent.ID == "" {
		agent.ID = "agent_" + uuid.New().String()
	}
	agent.CreatedAt = time.Now().UnixMilli()

	_, err := r.db.Exec(
		`INSERT INTO agents (id, tenant_id, name, role, level, avatar, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		agent.ID, agent.TenantID, agent.Name, agent.Role, agent.Level, agent.Avatar, agent.CreatedAt,
	)
	return err
}

func (r *Repository) FindTasksByTitle(title string) ([]*models.Task, error) {
	rows, err := r.db.Query(`SELECT id, tenant_id, title, description, status, assignee_id, created_at, updated_at FROM tasks WHERE title = ?`, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *Repository) CreateTask(task *models.Task) error {
	if task.ID == "" {
		task.ID = "task_" + uuid.New().String()
	}
	now := time.Now().UnixMilli()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO tasks (id, tenant_id, title, description, status, assignee_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.TenantID, task.Title, task.Description, task.Status, task.AssigneeID, task.CreatedAt, task.UpdatedAt,
	)
	return err
}

func (r *Repository) UpdateTaskStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UnixMilli(), id)
	return err
}

func (r *Repository) CreateActivity(activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = "act_" + uuid.New().String()
	}
	activity.CreatedAt = time.Now().UnixMilli()

	_, err := r.db.Exec(
		`INSERT INTO activities (id, tenant_id, type, agent_id, message, target_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		activity.ID, activity.TenantID, activity.Type, activity.AgentID, activity.Message, activity.TargetID, activity.CreatedAt,
	)
	return err
}

// Tenant-filtered listings backing the board API. Untagged rows surface only
// when unscoped access is allowed.

func (r *Repository) ListAgents(tenantID string, allowUnscoped bool) ([]*models.Agent, error) {
	rows, err := r.db.Query(
		`SELECT id, tenant_id, name, role, level, avatar, created_at FROM agents WHERE tenant_id = ? OR (tenant_id = '' AND ?) ORDER BY created_at ASC`,
		tenantID, allowUnscoped,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAgents(rows)
}

func (r *Repository) ListTasks(tenantID string, allowUnscoped bool) ([]*models.Task, error) {
	rows, err := r.db.Query(
		`SELECT id, tenant_id, title, description, status, assignee_id, created_at, updated_at FROM tasks WHERE tenant_id = ? OR (tenant_id = '' AND ?) ORDER BY created_at DESC`,
		tenantID, allowUnscoped,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *Repository) ListActivities(tenantID string, allowUnscoped bool, limit int) ([]*models.Activity, error) {
	rows, err := r.db.Query(
		`SELECT id, tenant_id, type, agent_id, message, target_id, created_at FROM activities WHERE tenant_id = ? OR (tenant_id = '' AND ?) ORDER BY created_at DESC LIMIT ?`,
		tenantID, allowUnscoped, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Type, &a.AgentID, &a.Message, &a.TargetID, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

func collectAgents(rows *sql.Rows) ([]*models.Agent, error) {
	var agents []*models.Agent
	for rows.Next() {
		var a models.Agent
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Name, &a.Role, &a.Level, &a.Avatar, &a.CreatedAt); err != nil {
			return nil, err
		}
		agents = append(agents, &a)
	}
	return agents, rows.Err()
}

func collectTasks(rows *sql.Rows) ([]*models.Task, error) {
	var tasks []*models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Title, &t.Description, &t.Status, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}
