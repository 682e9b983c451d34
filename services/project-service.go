package services

import (
	"context"
	"strings"
	"time"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     time.Time            `json:"endDate"`
	Status      models.ProjectStatus `json:"status"`
	Members     []string             `json:"members"`
}

type ProjectUpdate struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	StartDate   *time.Time            `json:"startDate,omitempty"`
	EndDate     *time.Time            `json:"endDate,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
}

type ProjectService struct {
	projects ProjectStore
	tasks    TaskStore
	users    UserStore
	now      func() time.Time
}

func NewProjectService(projects ProjectStore, tasks TaskStore, users UserStore) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, users: users, now: time.Now}
}

func (s *ProjectService) Create(ctx context.Context, caller Caller, in ProjectInput) (*models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperrors.InvalidArgument("project name is required")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, apperrors.InvalidArgument("end date must be after start date")
	}
	if in.Status == "" {
		in.Status = models.ProjectPlanning
	}
	if !in.Status.Valid() {
		return nil, apperrors.InvalidArgument("invalid project status %q", in.Status)
	}

	members, err := s.existingUsers(ctx, in.Members)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		Status:      in.Status,
		Owner:       caller.ID,
		Members:     withoutID(members, caller.ID),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.projects.Insert(ctx, project); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by %s", project.ID.Hex(), caller.ID.Hex())
	return project, nil
}

func (s *ProjectService) ListForUser(ctx context.Context, caller Caller) ([]models.Project, error) {
	return s.projects.FindByMember(ctx, caller.ID)
}

// Get loads a project the caller owns or belongs to. Admins see every project.
func (s *ProjectService) Get(ctx context.Context, caller Caller, projectID string) (*models.Project, error) {
	id, err := models.ParseID("project", projectID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !project.OnTeam(caller.ID) {
		return nil, apperrors.Forbidden("not a member of project %s", projectID)
	}
	return project, nil
}

func (s *ProjectService) manage(ctx context.Context, caller Caller, projectID string) (*models.Project, error) {
	project, err := s.Get(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && project.Owner != caller.ID {
		return nil, apperrors.Forbidden("only the project owner can change project %s", projectID)
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, caller Caller, projectID string, upd ProjectUpdate) (*models.Project, error) {
	project, err := s.manage(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperrors.InvalidArgument("project name is required")
		}
		project.Name = name
	}
	if upd.Description != nil {
		project.Description = *upd.Description
	}
	if upd.StartDate != nil {
		project.StartDate = upd.StartDate.UTC()
	}
	if upd.EndDate != nil {
		project.EndDate = upd.EndDate.UTC()
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, apperrors.InvalidArgument("invalid project status %q", *upd.Status)
		}
		project.Status = *upd.Status
	}
	if !project.EndDate.After(project.StartDate) {
		return nil, apperrors.InvalidArgument("end date must be after start date")
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) AddMembers(ctx context.Context, caller Caller, projectID string, memberIDs []string) (*models.Project, error) {
	if len(memberIDs) == 0 {
		return nil, apperrors.InvalidArgument("memberIds must not be empty")
	}
	project, err := s.manage(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	members, err := s.existingUsers(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	members = withoutID(members, project.Owner)
	if len(members) == 0 {
		return project, nil
	}

	if err := s.projects.AddMembers(ctx, project.ID, members); err != nil {
		return nil, err
	}
	for _, m := range members {
		if !project.OnTeam(m) {
			project.Members = append(project.Members, m)
		}
	}
	logging.Logger.Infof("Event ID: PROJECT_MEMBERS_ADDED, Description: %d member(s) added to project %s", len(members), project.ID.Hex())
	return project, nil
}

// RemoveMember refuses while the member still has tasks in progress on the project.
func (s *ProjectService) RemoveMember(ctx context.Context, caller Caller, projectID, memberID string) error {
	project, err := s.manage(ctx, caller, projectID)
	if err != nil {
		return err
	}
	member, err := models.ParseID("member", memberID)
	if err != nil {
		return err
	}
	if member == project.Owner {
		return apperrors.InvalidArgument("the project owner cannot be removed")
	}
	if !project.OnTeam(member) {
		return apperrors.NotFound("user %s is not a member of project %s", memberID, projectID)
	}

	active, err := s.tasks.CountByAssignee(ctx, project.ID, member, models.StatusInProgress)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperrors.Conflict("member %s still has %d task(s) in progress", memberID, active)
	}

	if err := s.projects.RemoveMember(ctx, project.ID, member); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: PROJECT_MEMBER_REMOVED, Description: Member %s removed from project %s", memberID, projectID)
	return nil
}

func (s *ProjectService) Tasks(ctx context.Context, caller Caller, projectID string) ([]models.Task, error) {
	project, err := s.Get(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	return s.tasks.FindByProject(ctx, project.ID)
}

// existingUsers parses ids and checks every one of them belongs to a stored user.
func (s *ProjectService) existingUsers(ctx context.Context, ids []string) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return []primitive.ObjectID{}, nil
	}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	parsed := make([]primitive.ObjectID, 0, len(ids))
	for _, raw := range ids {
		id, err := models.ParseID("member", raw)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			parsed = append(parsed, id)
		}
	}

	users, err := s.users.FindByIDs(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if len(users) != len(parsed) {
		found := make(map[primitive.ObjectID]bool, len(users))
		for _, u := range users {
			found[u.ID] = true
		}
		for _, id := range parsed {
			if !found[id] {
				return nil, apperrors.NotFound("user %s not found", id.Hex())
			}
		}
	}
	return parsed, nil
}

func withoutID(ids []primitive.ObjectID, drop primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
