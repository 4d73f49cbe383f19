package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "taskgroups.com/taskgroups/internal/data_models"
	apperrors "taskgroups.com/taskgroups/internal/errors"
	middleware "taskgroups.com/taskgroups/internal/http/middlewares"
	"taskgroups.com/taskgroups/internal/http/validators"
	"taskgroups.com/taskgroups/internal/services"
	"taskgroups.com/taskgroups/internal/store"
)

type Handler struct {
	groupService *services.GroupService
	taskService  *services.TaskService
}

func NewHandler(groupService *services.GroupService, taskService *services.TaskService) *Handler {
	return &Handler{
		groupService: groupService,
		taskService:  taskService,
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) ListGroups(c echo.Context) error {
	groups, err := h.groupService.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *Handler) GetGroup(c echo.Context) error {
	id, err := validators.IDParam(c, apperrors.ErrGroupNotFound)
	if err != nil {
		return err
	}
	group, err := h.groupService.Get(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, group)
}

func (h *Handler) CreateGroup(c echo.Context) error {
	var req dto.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidBody
	}
	group, err := h.groupService.Create(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, group)
}

func (h *Handler) UpdateGroup(c echo.Context) error {
	id, err := validators.IDParam(c, apperrors.ErrGroupNotFound)
	if err != nil {
		return err
	}
	var req dto.UpdateGroupRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidBody
	}
	group, err := h.groupService.Update(c.Request().Context(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, group)
}

func (h *Handler) DeleteGroup(c echo.Context) error {
	id, err := validators.IDParam(c, apperrors.ErrGroupNotFound)
	if err != nil {
		return err
	}
	if err := h.groupService.Delete(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListTasks(c echo.Context) error {
	filter := taskFilterFromQuery(c)
	tasks, err := h.taskService.List(c.Request().Context(), middleware.UserID(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// taskFilterFromQuery reads the optional group_id and completed filters.
// A non-numeric group_id matches nothing (id 0 is never assigned), and any
// completed value other than "true" selects incomplete tasks.
func taskFilterFromQuery(c echo.Context) store.TaskFilter {
	var filter store.TaskFilter
	if raw := c.QueryParam("group_id"); raw != "" {
		groupID, err := strconv.Atoi(raw)
		if err != nil {
			groupID = 0
		}
		filter.GroupID = &groupID
	}
	if raw := c.QueryParam("completed"); raw != "" {
		completed := raw == "true"
		filter.Completed = &completed
	}
	return filter
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := validators.IDParam(c, apperrors.ErrTaskNotFound)
	if err != nil {
		return err
	}
	task, err := h.taskService.Get(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidBody
	}
	task, err := h.taskService.Create(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := validators.IDParam(c, apperrors.ErrTaskNotFound)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidBody
	}
	task, err := h.taskService.Update(c.Request().Context(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := validators.IDParam(c, apperrors.ErrTaskNotFound)
	if err != nil {
		return err
	}
	if err := h.taskService.Delete(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CompleteTask(c echo.Context) error {
	var req dto.CompleteTaskRequest
	if err := c.Bind(&req); err != nil {
		// A non-boolean completed fails the bind; same contract violation.
		return apperrors.ErrCompletedBoolean
	}
	if err := validators.ValidateCompleteTaskRequest(&req); err != nil {
		return err
	}

	id, err := validators.IDParam(c, apperrors.ErrTaskNotFound)
	if err != nil {
		return err
	}
	task, err := h.taskService.SetCompleted(c.Request().Context(), middleware.UserID(c), id, *req.Completed)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}
