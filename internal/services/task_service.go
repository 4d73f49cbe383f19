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

// TaskService owns the task business rules: title validation, group
// ownership checks, and the updated_at contract. Scoping works as in
// GroupService: cross-user access is always a not-found.
type TaskService struct {
	store store.Store
}

func NewTaskService(st store.Store) *TaskService {
	return &TaskService{store: st}
}

func (s *TaskService) List(ctx context.Context, userID int, filter store.TaskFilter) ([]model.TaskWithGroup, error) {
	return s.store.TasksByUser(ctx, userID, filter)
}

func (s *TaskService) Get(ctx context.Context, userID, id int) (*model.TaskWithGroup, error) {
	task, err := s.store.TaskByID(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, userID int, req dto.CreateTaskRequest) (*model.TaskWithGroup, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if req.GroupID != nil {
		if err := s.checkGroupOwnership(ctx, userID, *req.GroupID); err != nil {
			return nil, err
		}
	}

	task, err := s.store.CreateTask(ctx, userID, store.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		GroupID:     req.GroupID,
	})
	if err != nil {
		return nil, err
	}
	return s.store.TaskByID(ctx, userID, task.ID)
}

func (s *TaskService) Update(ctx context.Context, userID, id int, req dto.UpdateTaskRequest) (*model.TaskWithGroup, error) {
	if _, err := s.store.TaskByID(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	// Setting group_id to null clears the group; a concrete id must name a
	// group owned by the same user.
	if req.GroupID.Set && req.GroupID.Value != nil {
		if err := s.checkGroupOwnership(ctx, userID, *req.GroupID.Value); err != nil {
			return nil, err
		}
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, apperrors.ErrTitleEmpty
	}

	update := store.TaskUpdate{
		Title:          req.Title,
		Description:    req.Description.Value,
		SetDescription: req.Description.Set,
		Deadline:       req.Deadline.Value,
		SetDeadline:    req.Deadline.Set,
		GroupID:        req.GroupID.Value,
		SetGroupID:     req.GroupID.Set,
		Completed:      req.Completed,
	}
	if err := s.store.UpdateTask(ctx, userID, id, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return s.store.TaskByID(ctx, userID, id)
}

func (s *TaskService) Delete(ctx context.Context, userID, id int) error {
	err := s.store.DeleteTask(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.ErrTaskNotFound
	}
	return err
}

// SetCompleted flips the completion flag and refreshes updated_at.
func (s *TaskService) SetCompleted(ctx context.Context, userID, id int, completed bool) (*model.TaskWithGroup, error) {
	err := s.store.UpdateTask(ctx, userID, id, store.TaskUpdate{Completed: &completed})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.store.TaskByID(ctx, userID, id)
}

func (s *TaskService) checkGroupOwnership(ctx context.Context, userID, groupID int) error {
	_, err := s.store.GroupByID(ctx, userID, groupID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.ErrInvalidGroup
	}
	return err
}
