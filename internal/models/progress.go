package models

// UserProgress records per-user, per-lesson completion state. At most one
// row exists per (user, lesson); the unique index enforces it at the
// store layer.
type UserProgress struct {
	BaseModel
	UserID       string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson"`
	LessonID     string `json:"lesson_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson"`
	Completed    bool   `json:"completed" gorm:"default:false"`
	LastPosition int    `json:"last_position" gorm:"default:0"` // seconds into the video
}
