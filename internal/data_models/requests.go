package data_models

import "time"

type CreateGroupRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type UpdateGroupRequest struct {
	Name  *string        `json:"name"`
	Color OptionalString `json:"color"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	GroupID     *int       `json:"group_id"`
}

type UpdateTaskRequest struct {
	Title       *string        `json:"title"`
	Description OptionalString `json:"description"`
	Deadline    OptionalTime   `json:"deadline"`
	GroupID     OptionalInt    `json:"group_id"`
	Completed   *bool          `json:"completed"`
}

type CompleteTaskRequest struct {
	Completed *bool `json:"completed"`
}
