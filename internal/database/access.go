package database

import (
	"member-portal/internal/models"

	"gorm.io/gorm"
)

// GetProfileByID looks a profile up by its provider-issued ID
func GetProfileByID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := DB.Where("id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// HasAccessGrant checks whether a user may view a product
func HasAccessGrant(userID, productID string) (bool, error) {
	var count int64
	err := DB.Model(&models.UserProduct{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserProgress returns the progress row for (user, lesson), if any
func GetUserProgress(userID, lessonID string) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// GetUserProgressForLessons returns the user's progress rows for a set of
// lessons
func GetUserProgressForLessons(userID string, lessonIDs []string) ([]models.UserProgress, error) {
	var rows []models.UserProgress
	if len(lessonIDs) == 0 {
		return rows, nil
	}
	err := DB.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).Find(&rows).Error
	return rows, err
}

// GetCourseModules returns a course's modules with lessons, both in
// position order
func GetCourseModules(productID string) ([]models.Module, error) {
	var modules []models.Module
	err := DB.Where("product_id = ?", productID).
		Order("position ASC").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&modules).Error
	return modules, err
}

// GetLessonByID looks a lesson up by ID
func GetLessonByID(lessonID string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := DB.Where("id = ?", lessonID).First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}
