package services

import (
	"errors"
	"fmt"

	"member-portal/internal/database"
	"member-portal/internal/models"

	"gorm.io/gorm"
)

// ProgressService tracks per-lesson completion and derives aggregate
// course progress
type ProgressService struct {
	db *gorm.DB
}

// NewProgressService creates a progress service on the global database
func NewProgressService() *ProgressService {
	return &ProgressService{db: database.GetDB()}
}

// NewProgressServiceWith creates a progress service on an explicit database
func NewProgressServiceWith(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// SetCompletion flips the completion state of a lesson. The caller passes
// its last-known completed flag; an existing row is set to the negation
// of that flag. A never-seen (user, lesson) pair always gets a new row
// with completed = true, whatever flag the caller passed. The asymmetry
// is surprising but load-bearing: the first click on "mark complete"
// must complete the lesson even when the client's flag is stale.
func (s *ProgressService) SetCompletion(userID, lessonID string, currentlyCompleted bool) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := s.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if err == nil {
		if updErr := s.db.Model(&progress).Update("completed", !currentlyCompleted).Error; updErr != nil {
			return nil, fmt.Errorf("failed to update progress: %w", updErr)
		}
		progress.Completed = !currentlyCompleted
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up progress: %w", err)
	}

	progress = models.UserProgress{
		UserID:       userID,
		LessonID:     lessonID,
		Completed:    true,
		LastPosition: 0,
	}
	if err := s.db.Create(&progress).Error; err != nil {
		return nil, fmt.Errorf("failed to create progress: %w", err)
	}
	return &progress, nil
}

// CourseProgress is the aggregate completion state of one course for one
// user
type CourseProgress struct {
	TotalLessons     int     `json:"total_lessons"`
	CompletedLessons int     `json:"completed_lessons"`
	Percentage       float64 `json:"percentage"`
	ResumeModuleID   string  `json:"resume_module_id,omitempty"`
	ResumeLessonID   string  `json:"resume_lesson_id,omitempty"`
}

// GetCourseProgress loads a course's modules and the user's progress rows
// and computes the aggregate
func (s *ProgressService) GetCourseProgress(userID, productID string) (*CourseProgress, error) {
	modules, err := database.GetCourseModules(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course modules: %w", err)
	}

	var lessonIDs []string
	for _, module := range modules {
		for _, lesson := range module.Lessons {
			lessonIDs = append(lessonIDs, lesson.ID)
		}
	}

	rows, err := database.GetUserProgressForLessons(userID, lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	return ComputeCourseProgress(modules, rows), nil
}

// ComputeCourseProgress derives the aggregate from position-ordered
// modules and the user's progress rows. The resume lesson is the first
// lesson in module-then-position order without a completed row; when the
// course is fully complete it falls back to the first lesson of the
// first module. A course with no lessons reports zero progress.
func ComputeCourseProgress(modules []models.Module, rows []models.UserProgress) *CourseProgress {
	completed := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.Completed {
			completed[row.LessonID] = true
		}
	}

	result := &CourseProgress{}
	for _, module := range modules {
		for _, lesson := range module.Lessons {
			result.TotalLessons++
			if completed[lesson.ID] {
				result.CompletedLessons++
			} else if result.ResumeLessonID == "" {
				result.ResumeModuleID = module.ID
				result.ResumeLessonID = lesson.ID
			}
		}
	}

	if result.TotalLessons > 0 {
		result.Percentage = float64(result.CompletedLessons) / float64(result.TotalLessons) * 100
	}

	// Everything done: resume from the top
	if result.ResumeLessonID == "" && len(modules) > 0 && len(modules[0].Lessons) > 0 {
		result.ResumeModuleID = modules[0].ID
		result.ResumeLessonID = modules[0].Lessons[0].ID
	}

	return result
}
