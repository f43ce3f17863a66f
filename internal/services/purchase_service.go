package services

import (
	"errors"
	"fmt"
	"time"

	"member-portal/internal/database"
	"member-portal/internal/models"
	"member-portal/pkg/logging"

	"gorm.io/gorm"
)

// StatusApproved is the only payment-platform status that triggers
// provisioning; every other status is acknowledged and ignored.
const StatusApproved = "APPROVED"

// WebhookSource identifies the payment platform in stored events
const WebhookSource = "payment_platform"

// ErrMissingCustomerEmail is returned when an approved payload carries no
// customer email. The stored event stays unprocessed.
var ErrMissingCustomerEmail = errors.New("purchase payload has no customer email")

// PurchasePayload is the inbound payment-platform notification. The raw
// body is stored verbatim for audit; this struct is the validated view
// the provisioning workflow operates on.
type PurchasePayload struct {
	Event         string            `json:"event"`
	Status        string            `json:"status"`
	CheckoutID    string            `json:"checkout_id"`
	SaleID        string            `json:"sale_id"`
	PaymentMethod string            `json:"payment_method"`
	TotalPrice    string            `json:"total_price"`
	Customer      PurchaseCustomer  `json:"customer"`
	Products      []PurchaseProduct `json:"products"`
}

// PurchaseCustomer is the buyer block of a purchase payload
type PurchaseCustomer struct {
	Name        string `json:"name"`
	Document    string `json:"document"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// PurchaseProduct is one purchased item. Only the ID matters for
// provisioning; unknown IDs are skipped, never errored.
type PurchaseProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OfferID     string `json:"offer_id"`
	OfferName   string `json:"offer_name"`
	Price       string `json:"price"`
	IsOrderBump bool   `json:"is_order_bump"`
}

// Approved reports whether the payload should trigger provisioning
func (p *PurchasePayload) Approved() bool {
	return p.Status == StatusApproved
}

// IdentityProvider creates pre-confirmed accounts at the external
// identity service
type IdentityProvider interface {
	CreateUser(email, name string) (*IdentityUser, error)
}

// PurchaseService runs the webhook provisioning workflow: store the raw
// event, resolve or create the buyer, grant access per product, then mark
// the event processed. Every step is check-before-write, so re-delivery
// of the same payload is safe.
type PurchaseService struct {
	db       *gorm.DB
	identity IdentityProvider
}

// NewPurchaseService creates a purchase service on the global database
// and the configured identity provider
func NewPurchaseService() *PurchaseService {
	return &PurchaseService{
		db:       database.GetDB(),
		identity: NewIdentityService(),
	}
}

// NewPurchaseServiceWith creates a purchase service with explicit
// dependencies
func NewPurchaseServiceWith(db *gorm.DB, identity IdentityProvider) *PurchaseService {
	return &PurchaseService{db: db, identity: identity}
}

// ProcessPurchase provisions access for an approved purchase. The raw
// payload is persisted before any other side effect, so a failed run
// still leaves an unprocessed event for audit and retry. The returned
// event reflects the final processed flag.
func (s *PurchaseService) ProcessPurchase(rawPayload []byte, payload *PurchasePayload) (*models.WebhookEvent, error) {
	eventType := payload.Event
	if eventType == "" {
		eventType = "unknown"
	}

	event := &models.WebhookEvent{
		Source:    WebhookSource,
		EventType: eventType,
		Payload:   string(rawPayload),
		Processed: false,
	}
	if err := s.db.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to register webhook event: %w", err)
	}

	if payload.Customer.Email == "" {
		return event, ErrMissingCustomerEmail
	}

	user, err := s.resolveUser(payload.Customer)
	if err != nil {
		return event, err
	}

	for _, item := range payload.Products {
		if err := s.grantProduct(user.ID, item.ID); err != nil {
			return event, err
		}
	}

	if err := s.db.Model(event).Update("processed", true).Error; err != nil {
		return event, fmt.Errorf("failed to mark webhook event processed: %w", err)
	}
	event.Processed = true

	logging.Infof("Purchase processed - sale: %s, customer: %s, products: %d",
		payload.SaleID, payload.Customer.Email, len(payload.Products))

	return event, nil
}

// resolveUser finds the profile for the buyer's email, creating the
// identity account and profile on first purchase. A provider failure
// aborts the request so no profile ever references a missing identity.
func (s *PurchaseService) resolveUser(customer PurchaseCustomer) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Where("email = ?", customer.Email).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	idUser, err := s.identity.CreateUser(customer.Email, customer.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity account: %w", err)
	}

	// The provider may have provisioned the profile row itself; update the
	// name in that case instead of inserting a duplicate.
	var existing models.Profile
	err = s.db.Where("id = ?", idUser.ID).First(&existing).Error
	if err == nil {
		if updErr := s.db.Model(&existing).Update("full_name", customer.Name).Error; updErr != nil {
			return nil, fmt.Errorf("failed to update profile: %w", updErr)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	profile = models.Profile{
		BaseModel: models.BaseModel{ID: idUser.ID},
		Email:     customer.Email,
		FullName:  customer.Name,
	}
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	logging.Infof("Created user for %s via webhook", customer.Email)
	return &profile, nil
}

// grantProduct grants access to one purchased product. Unknown products
// and existing grants are skipped silently; only an insert failure is an
// error.
func (s *PurchaseService) grantProduct(userID, productID string) error {
	var product models.Product
	err := s.db.Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Infof("Product %s not in catalog, skipping", productID)
			return nil
		}
		return fmt.Errorf("failed to look up product %s: %w", productID, err)
	}

	var count int64
	err = s.db.Model(&models.UserProduct{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check access for product %s: %w", productID, err)
	}
	if count > 0 {
		return nil
	}

	grant := models.UserProduct{
		UserID:          userID,
		ProductID:       productID,
		AccessGrantedAt: time.Now(),
	}
	if err := s.db.Create(&grant).Error; err != nil {
		return fmt.Errorf("failed to grant access to product %s: %w", productID, err)
	}

	return nil
}
