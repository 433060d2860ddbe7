// Package contact handles the public contact form.
package contact

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/revive-underground/smart-booking/internal/notify"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

const (
	SuccessMessage    = "Thank you for your message! We will get back to you soon."
	ValidationMessage = "Validation failed. Please check your input."
)

// Form is a contact form submission. Phone is optional.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate trims the form in place and returns every field problem.
func (f *Form) Validate() []FieldError {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)

	var errs []FieldError
	if utf8.RuneCountInString(f.Name) < 2 {
		errs = append(errs, FieldError{"name", "Name must be at least 2 characters."})
	}
	if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
		errs = append(errs, FieldError{"email", "Invalid email address."})
	}
	if utf8.RuneCountInString(f.Subject) < 5 {
		errs = append(errs, FieldError{"subject", "Subject must be at least 5 characters."})
	}
	if utf8.RuneCountInString(f.Message) < 10 {
		errs = append(errs, FieldError{"message", "Message must be at least 10 characters."})
	}
	return errs
}

// Result mirrors the booking result shape.
type Result struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Notifier is the subset of notify.Service used here.
type Notifier interface {
	Chat(ctx context.Context, text string) notify.Outcome
	SMS(ctx context.Context, to, body string) notify.Outcome
}

type Service struct {
	notifier   Notifier
	ownerPhone string
	logger     *logging.Logger
}

func NewService(notifier Notifier, ownerPhone string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{notifier: notifier, ownerPhone: strings.TrimSpace(ownerPhone), logger: logger}
}

// Submit validates the form and notifies the team. Notification problems
// never fail a valid submission.
func (s *Service) Submit(ctx context.Context, form Form) Result {
	if errs := form.Validate(); len(errs) > 0 {
		return Result{Success: false, Message: ValidationMessage, Errors: errs}
	}

	if s.notifier != nil {
		outcomes := []notify.Outcome{s.notifier.Chat(ctx, chatMessage(form))}
		if form.Phone != "" {
			outcomes = append(outcomes, s.notifier.SMS(ctx, form.Phone,
				fmt.Sprintf("Hi %s, thank you for contacting Revive 2.0 Underground. We've received your message and will get back to you shortly.", form.Name)))
			if s.ownerPhone != "" {
				outcomes = append(outcomes, s.notifier.SMS(ctx, s.ownerPhone,
					fmt.Sprintf("New Contact Form: %s (%s). Subject: %s.", form.Name, form.Phone, form.Subject)))
			}
		} else if s.ownerPhone != "" {
			outcomes = append(outcomes, s.notifier.SMS(ctx, s.ownerPhone,
				fmt.Sprintf("New Contact Form (no phone provided): %s. Subject: %s.", form.Name, form.Subject)))
		}
		for _, o := range outcomes {
			if !o.Delivered {
				s.logger.Warn("contact: notification not delivered", "outcome", o.String())
			}
		}
	}

	s.logger.Info("contact form received", "email", form.Email)
	return Result{Success: true, Message: SuccessMessage}
}

func chatMessage(f Form) string {
	phone := f.Phone
	if phone == "" {
		phone = "Not provided"
	}
	return fmt.Sprintf("*New Contact Form Submission*\n\n*Name:* %s\n*Email:* %s\n*Phone:* %s\n*Subject:* %s\n\n*Message:*\n%s",
		notify.EscapeMarkdown(f.Name), notify.EscapeMarkdown(f.Email), notify.EscapeMarkdown(phone),
		notify.EscapeMarkdown(f.Subject), notify.EscapeMarkdown(f.Message))
}
