package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/logger"
)

type sendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewSendGridSender creates the SendGrid-backed EmailSender.
func NewSendGridSender(apiKey, fromEmail, fromName string) EmailSender {
	return &sendGridSender{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridSender) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)
	if htmlContent == "" {
		htmlContent = plainText
	}
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return &domain.DeliveryError{Recipient: toEmail, Err: err}
	}
	if response.StatusCode >= 400 {
		return &domain.DeliveryError{
			Recipient: toEmail,
			Err:       fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body),
		}
	}
	return nil
}

// EmailNotifier turns committed lifecycle transitions into owner-facing mail.
// Send failures are logged and never propagated: the status change is durable
// whether or not the mail goes out.
type EmailNotifier struct {
	sender EmailSender
}

func NewEmailNotifier(sender EmailSender) *EmailNotifier {
	return &EmailNotifier{sender: sender}
}

func (n *EmailNotifier) OnTransition(ctx context.Context, event TransitionEvent) {
	switch event.To {
	case domain.ProfileStatusApproved:
		subject := "Votre profil alumni est en ligne"
		body := fmt.Sprintf(
			"Bonjour %s,\n\nBonne nouvelle : votre profil a été validé et apparaît désormais dans l'annuaire des alumni.\n\nÀ bientôt,\nL'équipe Passerelle",
			event.Name,
		)
		err := n.sender.SendEmail(ctx, event.Email, event.Name, subject, body, "")
		logger.EmailResult("profile-approved", event.Email, err)
	case domain.ProfileStatusRejected:
		subject := "Votre profil alumni n'a pas été validé"
		body := fmt.Sprintf(
			"Bonjour %s,\n\nVotre profil n'a pas pu être validé pour la raison suivante :\n\n%s\n\nVous pouvez le modifier et le soumettre à nouveau.\n\nL'équipe Passerelle",
			event.Name, event.Reason,
		)
		err := n.sender.SendEmail(ctx, event.Email, event.Name, subject, body, "")
		logger.EmailResult("profile-rejected", event.Email, err)
	case domain.ProfileStatusDraft, domain.ProfileStatusPending:
		// submission and draft edits do not notify the owner
	}
}
