package model

import "time"

type User struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type Group struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID          int        `gorm:"primaryKey" json:"id"`
	UserID      int        `gorm:"index;not null" json:"user_id"`
	GroupID     *int       `gorm:"index" json:"group_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Completed   bool       `gorm:"not null;default:false;index" json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskWithGroup carries the display fields of the task's current group,
// resolved at read time.
type TaskWithGroup struct {
	Task       `gorm:"embedded"`
	GroupName  *string `json:"group_name"`
	GroupColor *string `json:"group_color"`
}

// GroupWithCount annotates a group with a live count of tasks referencing it.
type GroupWithCount struct {
	Group     `gorm:"embedded"`
	TaskCount int64 `json:"task_count"`
}

// GroupDetail is the single-group read model: the group plus its tasks.
type GroupDetail struct {
	Group
	Tasks []Task `json:"tasks"`
}
