package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/interfaces"
	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	Project     string              `json:"project"`
	AssignedTo  string              `json:"assignedTo"`
}

// TaskService owns task CRUD. graph and notifier are optional.
type TaskService struct {
	tasks    TaskStore
	projects *ProjectService
	graph    interfaces.DependencyGraph
	notifier Notifier
	now      func() time.Time
}

func NewTaskService(tasks TaskStore, projects *ProjectService, graph interfaces.DependencyGraph, notifier Notifier) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, graph: graph, notifier: notifier, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, caller Caller, in TaskInput) (*models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperrors.InvalidArgument("task title is required")
	}
	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	if !in.Status.Valid() {
		return nil, apperrors.InvalidArgument("invalid task status %q", in.Status)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, apperrors.InvalidArgument("invalid task priority %q", in.Priority)
	}

	project, err := s.projects.Get(ctx, caller, in.Project)
	if err != nil {
		return nil, err
	}

	var assignee *primitive.ObjectID
	if in.AssignedTo != "" {
		id, err := s.teamMember(project, in.AssignedTo)
		if err != nil {
			return nil, err
		}
		assignee = &id
	}

	now := s.now().UTC()
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Project:     project.ID,
		AssignedTo:  assignee,
		CreatedBy:   caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}

	if s.graph != nil {
		if err := s.graph.EnsureTaskNode(ctx, taskNode(task)); err != nil {
			logging.Logger.Warnf("Event ID: TASK_NODE_FAILED, Description: Task %s saved but not registered in the dependency graph: %v", task.ID.Hex(), err)
		}
	}
	if assignee != nil {
		s.notify(ctx, *assignee, fmt.Sprintf("You have been assigned to task %q in project %q", task.Title, project.Name))
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s", task.ID.Hex(), project.ID.Hex())
	return task, nil
}

// Get loads a task whose project the caller can see.
func (s *TaskService) Get(ctx context.Context, caller Caller, taskID string) (*models.Task, error) {
	task, _, err := s.load(ctx, caller, taskID)
	return task, err
}

func (s *TaskService) load(ctx context.Context, caller Caller, taskID string) (*models.Task, *models.Project, error) {
	id, err := models.ParseID("task", taskID)
	if err != nil {
		return nil, nil, err
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.projects.Get(ctx, caller, task.Project.Hex())
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

func (s *TaskService) Update(ctx context.Context, caller Caller, taskID string, upd models.TaskUpdate) (*models.Task, error) {
	task, project, err := s.load(ctx, caller, taskID)
	if err != nil {
		return nil, err
	}
	previousStatus := task.Status
	previousAssignee := task.AssignedTo

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, apperrors.InvalidArgument("task title is required")
		}
		task.Title = title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Priority != nil {
		if !upd.Priority.Valid() {
			return nil, apperrors.InvalidArgument("invalid task priority %q", *upd.Priority)
		}
		task.Priority = *upd.Priority
	}
	if upd.DueDate != nil {
		task.DueDate = upd.DueDate
	}
	if upd.AssignedTo != nil {
		if !project.OnTeam(*upd.AssignedTo) {
			return nil, apperrors.InvalidArgument("assignee %s is not on the project team", upd.AssignedTo.Hex())
		}
		task.AssignedTo = upd.AssignedTo
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, apperrors.InvalidArgument("invalid task status %q", *upd.Status)
		}
		if *upd.Status == models.StatusInProgress && previousStatus != models.StatusInProgress {
			if err := s.ensureUnblocked(ctx, task.ID.Hex()); err != nil {
				return nil, err
			}
		}
		task.Status = *upd.Status
	}
	task.UpdatedAt = s.now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if s.graph != nil && task.Status != previousStatus {
		if err := s.graph.SyncTaskStatus(ctx, task.ID.Hex(), string(task.Status)); err != nil {
			logging.Logger.Warnf("Event ID: TASK_NODE_FAILED, Description: Status of task %s not synced to the dependency graph: %v", task.ID.Hex(), err)
		}
	}
	if task.AssignedTo != nil && (previousAssignee == nil || *previousAssignee != *task.AssignedTo) {
		s.notify(ctx, *task.AssignedTo, fmt.Sprintf("You have been assigned to task %q in project %q", task.Title, project.Name))
	}
	return task, nil
}

// Delete is allowed to the task's creator, the project owner and admins.
func (s *TaskService) Delete(ctx context.Context, caller Caller, taskID string) error {
	task, project, err := s.load(ctx, caller, taskID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && caller.ID != project.Owner && caller.ID != task.CreatedBy {
		return apperrors.Forbidden("only the creator or the project owner can delete task %s", taskID)
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}
	if s.graph != nil {
		if err := s.graph.DeleteTaskNode(ctx, task.ID.Hex()); err != nil {
			logging.Logger.Warnf("Event ID: TASK_NODE_FAILED, Description: Task %s deleted but its graph node remains: %v", task.ID.Hex(), err)
		}
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", task.ID.Hex())
	return nil
}

func (s *TaskService) ensureUnblocked(ctx context.Context, taskID string) error {
	if s.graph == nil {
		return nil
	}
	blocked, err := s.graph.IsBlocked(ctx, taskID)
	if err != nil {
		return err
	}
	if blocked {
		return apperrors.Conflict("cannot start task %s due to unfinished dependency", taskID)
	}
	return nil
}

func (s *TaskService) teamMember(project *models.Project, raw string) (primitive.ObjectID, error) {
	id, err := models.ParseID("assignee", raw)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !project.OnTeam(id) {
		return primitive.NilObjectID, apperrors.InvalidArgument("assignee %s is not on the project team", raw)
	}
	return id, nil
}

func (s *TaskService) notify(ctx context.Context, userID primitive.ObjectID, message string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, message)
	}
}

func taskNode(task *models.Task) models.TaskNode {
	return models.TaskNode{
		ID:        task.ID.Hex(),
		ProjectID: task.Project.Hex(),
		Title:     task.Title,
		Status:    string(task.Status),
	}
}
