package services

import (
	"context"
	"errors"
	"strings"

	dto "taskgroups.com/taskgroups/internal/data_models"
	apperrors "taskgroups.com/taskgroups/internal/errors"
	model "taskgroups.com/taskgroups/internal/models"
	"taskgroups.com/taskgroups/internal/store"
)

// GroupService owns the group business rules. Every call is scoped to the
// authenticated user's id; a group that exists but belongs to someone else
// is indistinguishable from one that does not exist.
type GroupService struct {
	store store.Store
}

func NewGroupService(st store.Store) *GroupService {
	return &GroupService{store: st}
}

func (s *GroupService) List(ctx context.Context, userID int) ([]model.GroupWithCount, error) {
	return s.store.GroupsByUser(ctx, userID)
}

func (s *GroupService) Get(ctx context.Context, userID, id int) (*model.GroupDetail, error) {
	group, err := s.store.GroupByID(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.TasksByGroup(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &model.GroupDetail{Group: *group, Tasks: tasks}, nil
}

func (s *GroupService) Create(ctx context.Context, userID int, req dto.CreateGroupRequest) (*model.GroupWithCount, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.ErrNameRequired
	}

	group, err := s.store.CreateGroup(ctx, userID, req.Name, req.Color)
	if err != nil {
		return nil, err
	}
	return &model.GroupWithCount{Group: *group, TaskCount: 0}, nil
}

func (s *GroupService) Update(ctx context.Context, userID, id int, req dto.UpdateGroupRequest) (*model.GroupWithCount, error) {
	// Existence first: an unowned id stays a 404 even with invalid input.
	if _, err := s.store.GroupByID(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.ErrNameEmpty
	}

	update := store.GroupUpdate{
		Name:     req.Name,
		Color:    req.Color.Value,
		SetColor: req.Color.Set,
	}
	if err := s.store.UpdateGroup(ctx, userID, id, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, err
	}

	// Re-fetch so the response reflects post-mutation state, including the
	// live task count.
	group, err := s.store.GroupByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	count, err := s.store.GroupTaskCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.GroupWithCount{Group: *group, TaskCount: count}, nil
}

// Delete removes the group. Its tasks survive with their group reference
// cleared.
func (s *GroupService) Delete(ctx context.Context, userID, id int) error {
	err := s.store.DeleteGroup(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.ErrGroupNotFound
	}
	return err
}
