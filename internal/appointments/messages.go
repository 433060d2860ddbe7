package appointments

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/revive-underground/smart-booking/internal/journey"
	"github.com/revive-underground/smart-booking/internal/notify"
)

const FailureMessage = "We're sorry, but there was a critical error booking your appointment. Our team has been notified of the issue. Please try contacting us directly via phone or email while we resolve this."

// Per-field caps keep the operator alert under the Telegram message limit.
const (
	maxShortField  = 120
	maxAnswerField = 300
	maxAIField     = 700
)

// md renders an untrusted value as plain text inside a Markdown message.
func md(v string, limit int) string {
	return notify.EscapeMarkdown(notify.Clip(v, limit))
}

// code renders an untrusted value inside a code entity.
func code(v string) string {
	return notify.CodeSafe(notify.Clip(v, maxShortField))
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

// bookingAlert is the operator chat message for a stored booking. The program
// line reflects what the client asked for, before defaulting.
func bookingAlert(id string, req LogRequest, rec Record, labels *journey.Registry) string {
	programContext := "via Smart Booking"
	if p := strings.TrimSpace(req.ProgramName); p != "" {
		programContext = fmt.Sprintf("for the *%s* program", md(p, maxShortField))
	}
	duration := "N/A"
	if rec.PainDuration != "" {
		duration = rec.PainDuration
		if labels != nil {
			duration = labels.OptionLabel(journey.QuestionPainDuration, rec.PainDuration)
		}
	}

	var b strings.Builder
	b.WriteString("✅ *New Appointment Booked - Manual UPI*\n")
	fmt.Fprintf(&b, "*Booking ID:* `%s`\n", code(id))
	b.WriteString("*Status:* Payment Pending Verification\n")
	b.WriteString(programContext + "\n\n")
	fmt.Fprintf(&b, "*UPI Transaction ID:* `%s`\n", code(rec.UPITransactionID))
	b.WriteString("*ACTION REQUIRED: Please verify this payment.*\n\n")
	b.WriteString("*Client Contact:*\n")
	fmt.Fprintf(&b, "- *Name:* %s\n", md(rec.Name, maxShortField))
	fmt.Fprintf(&b, "- *Phone:* `%s`\n", code(rec.Phone))
	fmt.Fprintf(&b, "- *Email:* %s\n", md(rec.Email, maxShortField))
	fmt.Fprintf(&b, "- *City:* %s\n", md(rec.City, maxShortField))
	fmt.Fprintf(&b, "- *Profession:* %s\n\n", md(orNA(rec.Profession), maxShortField))
	b.WriteString("*Health Assessment Details:*\n")
	fmt.Fprintf(&b, "- *Primary Issue:* %s\n", md(orNA(rec.PainPoint), maxAnswerField))
	fmt.Fprintf(&b, "- *Duration:* %s\n", md(duration, maxShortField))
	fmt.Fprintf(&b, "- *Goals:* %s\n", md(orNA(rec.Goals), maxAnswerField))
	fmt.Fprintf(&b, "- *Previous Treatments:* %s\n\n", md(orNA(rec.PreviousTreatments), maxAnswerField))
	b.WriteString("*Rudra AI Analysis:*\n")
	fmt.Fprintf(&b, "- *Summary:* %s\n", md(rec.AISummary, maxAIField))
	fmt.Fprintf(&b, "- *Recommendation:* %s", md(rec.AIRecommendation, maxAIField))
	return b.String()
}

func clientSMS(rec Record) string {
	return fmt.Sprintf("Hi %s, your Revive 2.0 Underground appointment request is received! To finalize, please share your payment screenshot on our WhatsApp. We'll confirm your session once verified.", rec.Name)
}

func ownerSMS(rec Record) string {
	return fmt.Sprintf("New UPI Booking: %s (%s). Txn ID: %s. PLEASE VERIFY.", rec.Name, rec.Phone, rec.UPITransactionID)
}

func successMessage(id string, rec Record) string {
	return fmt.Sprintf("Thank you, %s! Your appointment request has been submitted with Transaction ID %s. To complete the process, please share a screenshot of your successful payment on our WhatsApp. Our team will contact you to confirm. Your Booking ID is %s.", rec.Name, rec.UPITransactionID, id)
}

func failureAlert(req LogRequest, cause error) string {
	var b strings.Builder
	b.WriteString("‼️ *CRITICAL: FAILED Appointment Booking* ‼️\n")
	b.WriteString("A new booking was submitted, but it *FAILED* to save to the database or send notifications.\n")
	b.WriteString("*Reason:*\n```\n")
	b.WriteString(notify.CodeSafe(notify.Clip(cause.Error(), maxAnswerField)))
	b.WriteString("\n```\n")
	b.WriteString("*Submitted Data:*\n")
	fmt.Fprintf(&b, "- *Name:* %s\n", md(req.Name, maxShortField))
	fmt.Fprintf(&b, "- *Email:* %s\n", md(req.Email, maxShortField))
	fmt.Fprintf(&b, "- *Phone:* %s\n", md(req.Phone, maxShortField))
	b.WriteString("*ACTION REQUIRED:* Please follow up with this person manually. The underlying issue MUST be fixed.")
	return b.String()
}

var confirmationHTML = template.Must(template.New("confirmation").Option("missingkey=error").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <p>Hi {{.Name}},</p>
  <p>We have received your appointment request for <strong>{{.Program}}</strong>.</p>
  <table cellpadding="4">
    <tr><td>Booking ID</td><td><code>{{.ID}}</code></td></tr>
    <tr><td>UPI Transaction ID</td><td><code>{{.UPI}}</code></td></tr>
    <tr><td>Status</td><td>Payment Pending Verification</td></tr>
  </table>
  <h3>Rudra AI summary</h3>
  <p>{{.Summary}}</p>
  <h3>Recommended pathway</h3>
  <p>{{.Recommendation}}</p>
  <p>To finalize, please share your payment screenshot on our WhatsApp. We'll confirm your session once verified.</p>
  <p>Revive 2.0 Underground</p>
</body>
</html>`))

type confirmationData struct {
	ID             string
	Name           string
	Program        string
	UPI            string
	Summary        string
	Recommendation string
}

// confirmationEmail is the client receipt for a stored booking. The HTML
// part is left empty if rendering fails; senders then derive it from text.
func confirmationEmail(id string, rec Record) notify.EmailMessage {
	msg := notify.EmailMessage{
		To:      rec.Email,
		ToName:  rec.Name,
		Subject: fmt.Sprintf("Your Revive 2.0 Underground booking %s", id),
		Kind:    notify.EmailKindConfirmation,
	}
	msg.Body = fmt.Sprintf(`Hi %s,

We have received your appointment request for %s.

Booking ID: %s
UPI Transaction ID: %s
Status: Payment Pending Verification

Rudra AI summary: %s
Recommended pathway: %s

To finalize, please share your payment screenshot on our WhatsApp. We'll confirm your session once verified.

Revive 2.0 Underground`, rec.Name, rec.ProgramName, id, rec.UPITransactionID, rec.AISummary, rec.AIRecommendation)

	var buf bytes.Buffer
	err := confirmationHTML.Execute(&buf, confirmationData{
		ID:             id,
		Name:           rec.Name,
		Program:        rec.ProgramName,
		UPI:            rec.UPITransactionID,
		Summary:        rec.AISummary,
		Recommendation: rec.AIRecommendation,
	})
	if err == nil {
		msg.HTML = buf.String()
	}
	return msg
}
