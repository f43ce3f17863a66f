package models

// Niche groups products by subject area
type Niche struct {
	BaseModel
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
}

// Language is the content language of a product
type Language struct {
	BaseModel
	Name string `json:"name" gorm:"not null"`
	Code string `json:"code" gorm:"size:10;not null"`
}

// Product is a catalog entry: a course, an e-book or a downloadable
// material pack. Products are pre-existing; the purchase webhook never
// creates them, it only grants access to the ones it recognizes.
type Product struct {
	BaseModel
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	NicheID     string `json:"niche_id" gorm:"type:uuid;index"`
	LanguageID  string `json:"language_id" gorm:"type:uuid;index"`
	IsCourse    bool   `json:"is_course" gorm:"default:false"`
	IsEbook     bool   `json:"is_ebook" gorm:"default:false"`
	IsMaterial  bool   `json:"is_material" gorm:"default:false"`
}

// Module is an ordered section of a course
type Module struct {
	BaseModel
	ProductID   string   `json:"product_id" gorm:"type:uuid;not null;index"`
	Title       string   `json:"title" gorm:"not null"`
	Description string   `json:"description"`
	Position    int      `json:"position" gorm:"not null"`
	Lessons     []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}

// Lesson is a single video lesson inside a module
type Lesson struct {
	BaseModel
	ModuleID    string `json:"module_id" gorm:"type:uuid;not null;index"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Position    int    `json:"position" gorm:"not null"`
	Duration    int    `json:"duration"` // seconds
}

// Material is a downloadable file attached to a lesson or directly to a
// product (one of LessonID/ProductID is set).
type Material struct {
	BaseModel
	LessonID    *string `json:"lesson_id,omitempty" gorm:"type:uuid;index"`
	ProductID   *string `json:"product_id,omitempty" gorm:"type:uuid;index"`
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description"`
	FileURL     string  `json:"file_url" gorm:"not null"`
	FileType    string  `json:"file_type" gorm:"size:20"`
}
