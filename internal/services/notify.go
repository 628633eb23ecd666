package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"os"

	"carnet-api/internal/models"
	"carnet-api/internal/utils"
)

// NotificationService emails every subscriber when a new post is
// published. Fan-out is fully decoupled from the triggering request:
// it runs detached, and a failed delivery to one subscriber is logged
// without aborting delivery to the rest, rolling anything back, or
// retrying.
type NotificationService struct {
	subscribers *SubscriberService
	mailer      Mailer
	logger      *log.Logger
}

// NewNotificationService wires the fan-out. mailer may be nil when SMTP
// credentials are not configured; fan-out then degrades to a log line.
func NewNotificationService(subscribers *SubscriberService, mailer Mailer) *NotificationService {
	return &NotificationService{
		subscribers: subscribers,
		mailer:      mailer,
		logger:      log.New(os.Stdout, "[Notify] ", log.LstdFlags),
	}
}

// Dispatch starts fan-out for a freshly created post and returns
// immediately. The HTTP response to the create request never waits on,
// or observes, delivery outcomes.
func (s *NotificationService) Dispatch(post *models.Post) {
	go s.Notify(context.Background(), post)
}

// Notify performs the fan-out synchronously: load the subscriber set,
// render one notification per recipient, and attempt each delivery in
// isolation.
func (s *NotificationService) Notify(ctx context.Context, post *models.Post) {
	if s.mailer == nil {
		s.logger.Printf("mail disabled, skipping notifications for post %s", post.ID)
		return
	}

	recipients, err := s.subscribers.List(ctx)
	if err != nil {
		s.logger.Printf("failed to load subscribers: %v", err)
		return
	}
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Carnet de voyage — %s", post.City)
	delivered := 0
	for _, recipient := range recipients {
		body := renderNotification(post, recipient)
		if err := s.mailer.Send(recipient, subject, body); err != nil {
			s.logger.Printf("delivery failed: %v", err)
			continue
		}
		delivered++
	}

	s.logger.Printf("post %s: delivered %d/%d notifications", post.ID, delivered, len(recipients))
}

// Renders the per-recipient HTML payload: city, French-formatted
// timestamp and the recipient address the mail was sent to.
func renderNotification(post *models.Post, recipient string) string {
	return fmt.Sprintf(
		"<p>Nouvelle publication depuis <strong>%s</strong></p>"+
			"<p>%s</p>"+
			"<p style=\"color:#888;font-size:12px\">Cet email a été envoyé à %s.</p>",
		html.EscapeString(post.City),
		html.EscapeString(utils.FormatDatetimeFR(post.Datetime.Time)),
		html.EscapeString(recipient),
	)
}
