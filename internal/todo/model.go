package todo

import "time"

// Todo is a single checklist item. Active items carry a manual sort
// position maintained by drag-and-drop reordering.
type Todo struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `gorm:"type:date" json:"due_date,omitempty"`
	ByWho       string     `gorm:"size:100" json:"by_who"`
	Priority    string     `gorm:"size:20;default:medium" json:"priority"`
	Completed   bool       `gorm:"not null;default:false;index" json:"completed"`
	Deleted     bool       `gorm:"not null;default:false;index" json:"deleted"`
	Position    int        `gorm:"not null;default:0;index" json:"position"`
	CreatedBy   uint       `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Todo) TableName() string {
	return "todos"
}

// TodoView is a Todo enriched with due-date flags computed against a
// reference date at read time.
type TodoView struct {
	Todo
	Overdue bool `json:"overdue"`
	DueSoon bool `json:"due_soon"`
}

// CreateTodoRequest is the payload for new items.
type CreateTodoRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	ByWho       string `json:"by_who"`
	Priority    string `json:"priority"`
}

// UpdateTodoRequest is the payload for edits.
type UpdateTodoRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	ByWho       string `json:"by_who"`
	Priority    string `json:"priority"`
}

// BulkRequest names the items a bulk action touches.
type BulkRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ReorderRequest moves one active item to a new list position.
type ReorderRequest struct {
	TodoID      uint `json:"todo_id" binding:"required"`
	NewPosition int  `json:"new_position"`
}
