package challenge

import "time"

// Challenge is a time-boxed group activity. Completed is derived from
// the end time and refreshed on demand rather than on every read.
type Challenge struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	StartTime    time.Time `gorm:"not null" json:"start_time"`
	EndTime      time.Time `gorm:"not null;index" json:"end_time"`
	Participants string    `gorm:"size:500" json:"participants"`
	Completed    bool      `gorm:"not null;default:false;index" json:"completed"`
	Deleted      bool      `gorm:"not null;default:false;index" json:"deleted"`
	CreatedBy    uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeRequest is the write payload for creates and edits.
type ChallengeRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	Participants string `json:"participants"`
}
