package services

import (
	"errors"
	"fmt"

	"member-portal/internal/database"
	"member-portal/internal/models"

	"gorm.io/gorm"
)

// Library tab filters
const (
	TabAll        = "all"
	TabCourses    = "courses"
	TabEbooks     = "ebooks"
	TabMaterials  = "materials"
	TabAccessible = "accessible"
	TabBlocked    = "blocked"
)

// CatalogService serves the product catalog and the per-user library view
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog service on the global database
func NewCatalogService() *CatalogService {
	return &CatalogService{db: database.GetDB()}
}

// NewCatalogServiceWith creates a catalog service on an explicit database
func NewCatalogServiceWith(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ProductListItem is a catalog product annotated with the session user's
// access state
type ProductListItem struct {
	models.Product
	Accessible bool `json:"accessible"`
}

// ListProducts returns the library view: all products matching the search
// and tab filters, newest first, each flagged with whether the user holds
// a grant
func (s *CatalogService) ListProducts(userID, search, tab string) ([]ProductListItem, error) {
	var ownedIDs []string
	err := s.db.Model(&models.UserProduct{}).
		Where("user_id = ?", userID).
		Pluck("product_id", &ownedIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user grants: %w", err)
	}

	owned := make(map[string]bool, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = true
	}

	query := s.db.Model(&models.Product{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	switch tab {
	case TabCourses:
		query = query.Where("is_course = ?", true)
	case TabEbooks:
		query = query.Where("is_ebook = ?", true)
	case TabMaterials:
		query = query.Where("is_material = ?", true)
	case TabAccessible:
		if len(ownedIDs) == 0 {
			return []ProductListItem{}, nil
		}
		query = query.Where("id IN ?", ownedIDs)
	case TabBlocked:
		if len(ownedIDs) > 0 {
			query = query.Where("id NOT IN ?", ownedIDs)
		}
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	items := make([]ProductListItem, 0, len(products))
	for _, product := range products {
		items = append(items, ProductListItem{
			Product:    product,
			Accessible: owned[product.ID],
		})
	}
	return items, nil
}

// GetProduct looks a product up by ID
func (s *CatalogService) GetProduct(productID string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetCourseLessonSequence returns a course's lessons flattened into
// module-then-position order
func (s *CatalogService) GetCourseLessonSequence(productID string) ([]models.Lesson, error) {
	modules, err := database.GetCourseModules(productID)
	if err != nil {
		return nil, err
	}

	var lessons []models.Lesson
	for _, module := range modules {
		lessons = append(lessons, module.Lessons...)
	}
	return lessons, nil
}

// GetProductForLesson resolves the product that owns a lesson via its
// module
func (s *CatalogService) GetProductForLesson(lessonID string) (*models.Product, *models.Lesson, error) {
	lesson, err := database.GetLessonByID(lessonID)
	if err != nil {
		return nil, nil, err
	}

	var module models.Module
	if err := s.db.Where("id = ?", lesson.ModuleID).First(&module).Error; err != nil {
		return nil, nil, err
	}

	product, err := s.GetProduct(module.ProductID)
	if err != nil {
		return nil, nil, err
	}
	return product, lesson, nil
}

// GetCourseMaterials returns the materials attached directly to a
// product, newest first
func (s *CatalogService) GetCourseMaterials(productID string) ([]models.Material, error) {
	var materials []models.Material
	err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&materials).Error
	return materials, err
}

// GetLessonMaterials returns the materials attached to a lesson
func (s *CatalogService) GetLessonMaterials(lessonID string) ([]models.Material, error) {
	var materials []models.Material
	err := s.db.Where("lesson_id = ?", lessonID).Find(&materials).Error
	return materials, err
}

// GetMaterial looks a material up by ID
func (s *CatalogService) GetMaterial(materialID string) (*models.Material, error) {
	var material models.Material
	if err := s.db.Where("id = ?", materialID).First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// Fixed IDs so re-running the seed and replaying the sample webhook stay
// consistent with each other
const (
	seedCourseID = "37710ed6-2828-4a60-9495-52c81c59d73e"
	seedEbookID  = "201a28e2-de38-4bd4-8c56-3394a294f456"
)

// SeedSampleCatalog inserts a small demo catalog: one course with two
// modules and three lessons, one e-book, and a couple of materials.
// Idempotent: a second run is a no-op.
func (s *CatalogService) SeedSampleCatalog() error {
	var existing models.Product
	err := s.db.Where("id = ?", seedCourseID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check seed state: %w", err)
	}

	niche := models.Niche{
		Name:        "Investing",
		Description: "Courses and materials on investing and personal finance",
	}
	if err := s.db.Create(&niche).Error; err != nil {
		return fmt.Errorf("failed to create niche: %w", err)
	}

	language := models.Language{Name: "Portuguese", Code: "pt-BR"}
	if err := s.db.Create(&language).Error; err != nil {
		return fmt.Errorf("failed to create language: %w", err)
	}

	course := models.Product{
		BaseModel:   models.BaseModel{ID: seedCourseID},
		Name:        "Stock Market Fundamentals",
		Description: "The core concepts of equities and how exchanges work",
		NicheID:     niche.ID,
		LanguageID:  language.ID,
		IsCourse:    true,
	}
	ebook := models.Product{
		BaseModel:   models.BaseModel{ID: seedEbookID},
		Name:        "Spreadsheets for Investors",
		Description: "A practical guide to managing your portfolio in a spreadsheet",
		NicheID:     niche.ID,
		LanguageID:  language.ID,
		IsEbook:     true,
	}
	if err := s.db.Create(&course).Error; err != nil {
		return fmt.Errorf("failed to create course product: %w", err)
	}
	if err := s.db.Create(&ebook).Error; err != nil {
		return fmt.Errorf("failed to create ebook product: %w", err)
	}

	intro := models.Module{
		ProductID:   course.ID,
		Title:       "Introduction to the Stock Market",
		Description: "Basic concepts",
		Position:    1,
	}
	analysis := models.Module{
		ProductID:   course.ID,
		Title:       "Fundamental Analysis",
		Description: "Evaluating companies with fundamental indicators",
		Position:    2,
	}
	if err := s.db.Create(&intro).Error; err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}
	if err := s.db.Create(&analysis).Error; err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	lessons := []models.Lesson{
		{ModuleID: intro.ID, Title: "What are stocks?", Position: 1, Duration: 600},
		{ModuleID: intro.ID, Title: "How exchanges work", Position: 2, Duration: 720},
		{ModuleID: analysis.ID, Title: "Fundamental indicators", Position: 1, Duration: 900},
	}
	for i := range lessons {
		if err := s.db.Create(&lessons[i]).Error; err != nil {
			return fmt.Errorf("failed to create lesson: %w", err)
		}
	}

	glossary := models.Material{
		LessonID: &lessons[0].ID,
		Title:    "Market glossary",
		FileURL:  "https://example.com/glossary.pdf",
		FileType: "PDF",
	}
	sheet := models.Material{
		ProductID: &ebook.ID,
		Title:     "Portfolio tracking spreadsheet",
		FileURL:   "https://example.com/portfolio.xlsx",
		FileType:  "XLSX",
	}
	if err := s.db.Create(&glossary).Error; err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	if err := s.db.Create(&sheet).Error; err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}

	return nil
}
