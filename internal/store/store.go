package store

import (
	"context"
	"errors"
	"time"

	model "taskgroups.com/taskgroups/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("username already taken")
)

// TaskFilter narrows TasksByUser. Nil fields are ignored.
type TaskFilter struct {
	GroupID   *int
	Completed *bool
}

// NewTask holds the writable fields of a task at creation time.
type NewTask struct {
	Title       string
	Description *string
	Deadline    *time.Time
	GroupID     *int
}

// TaskUpdate applies a partial update. Nil pointer fields are left
// unchanged; the Set* flags distinguish "clear this field" from "keep it".
// UpdatedAt is refreshed on every call regardless of the field set.
type TaskUpdate struct {
	Title          *string
	Description    *string
	SetDescription bool
	Deadline       *time.Time
	SetDeadline    bool
	GroupID        *int
	SetGroupID     bool
	Completed      *bool
}

// GroupUpdate applies a partial update to a group. Groups carry no
// updated_at, so an empty update is a pure no-op.
type GroupUpdate struct {
	Name     *string
	Color    *string
	SetColor bool
}

// Store is the persistence adapter: named storage operations with no
// business rules. Scoping user ids are passed explicitly by the caller and
// a scoped miss is always ErrNotFound. Generated ids are positive and
// monotonically assigned per collection. Every mutation durably persists
// before returning.
type Store interface {
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	UserByID(ctx context.Context, id int) (*model.User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)
	// DeleteUser removes the user and cascades to all owned groups and tasks.
	DeleteUser(ctx context.Context, id int) error
	CountUsers(ctx context.Context) (int64, error)

	GroupsByUser(ctx context.Context, userID int) ([]model.GroupWithCount, error)
	GroupByID(ctx context.Context, userID, id int) (*model.Group, error)
	GroupTaskCount(ctx context.Context, groupID int) (int64, error)
	CreateGroup(ctx context.Context, userID int, name string, color *string) (*model.Group, error)
	UpdateGroup(ctx context.Context, userID, id int, update GroupUpdate) error
	// DeleteGroup clears group_id on every task referencing the group, then
	// removes the group row. Tasks themselves survive.
	DeleteGroup(ctx context.Context, userID, id int) error

	TasksByUser(ctx context.Context, userID int, filter TaskFilter) ([]model.TaskWithGroup, error)
	TasksByGroup(ctx context.Context, userID, groupID int) ([]model.Task, error)
	TaskByID(ctx context.Context, userID, id int) (*model.TaskWithGroup, error)
	CreateTask(ctx context.Context, userID int, task NewTask) (*model.Task, error)
	UpdateTask(ctx context.Context, userID, id int, update TaskUpdate) error
	DeleteTask(ctx context.Context, userID, id int) error

	Close() error
}
