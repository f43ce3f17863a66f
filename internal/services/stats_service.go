package services

import (
	"member-portal/internal/database"
	"member-portal/internal/models"

	"gorm.io/gorm"
)

// StatsService aggregates the counts shown on the admin dashboard
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a stats service on the global database
func NewStatsService() *StatsService {
	return &StatsService{db: database.GetDB()}
}

// NewStatsServiceWith creates a stats service on an explicit database
func NewStatsServiceWith(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// GetPlatformStats returns user/product/grant totals plus the five most
// recent rows of each
func (s *StatsService) GetPlatformStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var usersCount int64
	if err := s.db.Model(&models.Profile{}).Count(&usersCount).Error; err != nil {
		return nil, err
	}
	stats["users_count"] = usersCount

	var productsCount int64
	if err := s.db.Model(&models.Product{}).Count(&productsCount).Error; err != nil {
		return nil, err
	}
	stats["products_count"] = productsCount

	var grantsCount int64
	if err := s.db.Model(&models.UserProduct{}).Count(&grantsCount).Error; err != nil {
		return nil, err
	}
	stats["grants_count"] = grantsCount

	var unprocessedEvents int64
	if err := s.db.Model(&models.WebhookEvent{}).Where("processed = ?", false).Count(&unprocessedEvents).Error; err != nil {
		return nil, err
	}
	stats["unprocessed_webhook_events"] = unprocessedEvents

	var recentUsers []models.Profile
	if err := s.db.Order("created_at DESC").Limit(5).Find(&recentUsers).Error; err != nil {
		return nil, err
	}
	stats["recent_users"] = recentUsers

	var recentProducts []models.Product
	if err := s.db.Order("created_at DESC").Limit(5).Find(&recentProducts).Error; err != nil {
		return nil, err
	}
	stats["recent_products"] = recentProducts

	var recentGrants []models.UserProduct
	if err := s.db.Order("created_at DESC").Limit(5).Find(&recentGrants).Error; err != nil {
		return nil, err
	}
	stats["recent_grants"] = recentGrants

	return stats, nil
}
