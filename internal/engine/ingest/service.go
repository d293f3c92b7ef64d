package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"missionctl/internal/platform/models"
	"missionctl/internal/platform/tenant"
)

const defaultAgentName = "OpenClaw"

// Service applies the business effects of an inbound automation event: it
// upserts the reporting agent, resolves or creates the referenced task, moves
// it through the pipeline, and appends an activity feed entry. The gateway
// forwards the raw event body plus the tenant identity it resolved; all
// record access here goes through the uniform tenant rule.
type Service struct {
	repo     *Repository
	resolver *tenant.Resolver
}

func NewService(repo *Repository, resolver *tenant.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) ReceiveAgentEvent(ctx context.Context, event map[string]interface{}, tenantID string) error {
	agentName := stringField(event, "agent")
	if agentName == "" {
		agentName = defaultAgentName
	}

	agent, err := s.resolveAgent(agentName, tenantID)
	if err != nil {
		return fmt.Errorf("resolve agent %q: %w", agentName, err)
	}

	task, err := s.resolveTask(event, tenantID)
	if err != nil {
		return err
	}

	activity := &models.Activity{
		Type:     eventType(event, task),
		AgentID:  agent.ID,
		Message:  activityMessage(event, task),
		TenantID: tenantID,
	}
	if task != nil {
		activity.TargetID = task.ID
	}

	if err := s.repo.CreateActivity(activity); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	log.Debug().
		Str("agent", agentName).
		Str("type", activity.Type).
		Str("tenant_id", tenantID).
		Msg("agent event ingested")
	return nil
}

func (s *Service) ListAgents(tenantID string) ([]*models.Agent, error) {
	return s.repo.ListAgents(tenantID, s.resolver.AllowUnscoped())
}

func (s *Service) ListTasks(tenantID string) ([]*models.Task, error) {
	return s.repo.ListTasks(tenantID, s.resolver.AllowUnscoped())
}

func (s *Service) ListActivities(tenantID string, limit int) ([]*models.Activity, error) {
	return s.repo.ListActivities(tenantID, s.resolver.AllowUnscoped(), limit)
}

// resolveAgent returns the first agent with this name the caller may see, or
// creates one owned by the caller's tenant. Records outside the caller's
// scope are treated as absent, never attached to.
func (s *Service) resolveAgent(name, tenantID string) (*models.Agent, error) {
	candidates, err := s.repo.FindAgentsByName(name)
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		if tenant.CanAccessRecord(candidate.TenantID, tenantID, s.resolver.AllowUnscoped()) {
			return candidate, nil
		}
	}

	agent := &models.Agent{
		TenantID: tenantID,
		Name:     name,
		Role:     "Agent",
	}
	if err := s.repo.CreateAgent(agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *Service) resolveTask(event map[string]interface{}, tenantID string) (*models.Task, error) {
	title := stringField(event, "task")
	if title == "" {
		return nil, nil
	}

	status := stringField(event, "status")

	candidates, err := s.repo.FindTasksByTitle(title)
	if err != nil {
		return nil, fmt.Errorf("resolve task %q: %w", title, err)
	}
	for _, candidate := range candidates {
		if !tenant.CanAccessRecord(candidate.TenantID, tenantID, s.resolver.AllowUnscoped()) {
			continue
		}
		if models.ValidTaskStatus(status) && status != candidate.Status {
			if err := s.repo.UpdateTaskStatus(candidate.ID, status); err != nil {
				return nil, fmt.Errorf("update task status: %w", err)
			}
			candidate.Status = status
		}
		return candidate, nil
	}

	task := &models.Task{
		TenantID:    tenantID,
		Title:       title,
		Description: stringField(event, "description"),
		Status:      models.TaskStatusInbox,
	}
	if models.ValidTaskStatus(status) {
		task.Status = status
	}
	if err := s.repo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("create task %q: %w", title, err)
	}
	return task, nil
}

func eventType(event map[string]interface{}, task *models.Task) string {
	if t := stringField(event, "type"); t != "" {
		return t
	}
	if stringField(event, "status") != "" && task != nil {
		return "status_update"
	}
	if stringField(event, "message") != "" {
		return "message"
	}
	return "task_update"
}

func activityMessage(event map[string]interface{}, task *models.Task) string {
	if m := stringField(event, "message"); m != "" {
		return m
	}
	if task != nil {
		if status := stringField(event, "status"); status != "" {
			return fmt.Sprintf("moved %q to %s", task.Title, status)
		}
		return fmt.Sprintf("updated %q", task.Title)
	}
	return "reported an event"
}

func stringField(event map[string]interface{}, key string) string {
	value, _ := event[key].(string)
	return value
}
