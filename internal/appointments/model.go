package appointments

import (
	"strings"
	"time"
)

const (
	// StatusPendingVerification is the status of every new booking. Operators
	// move it on manually once the UPI payment is verified.
	StatusPendingVerification = "booked_payment_pending_verification"

	DefaultProgramName = "General Inquiry"
)

// LogRequest is the booking submitted at the end of the journey.
type LogRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	WhatsApp           string `json:"whatsapp,omitempty"`
	City               string `json:"city"`
	Profession         string `json:"profession,omitempty"`
	PainPoint          string `json:"pain_point,omitempty"`
	PainDuration       string `json:"pain_duration,omitempty"`
	Goals              string `json:"goals,omitempty"`
	PreviousTreatments string `json:"previous_treatments,omitempty"`
	AISummary          string `json:"aiSummary"`
	AIRecommendation   string `json:"aiRecommendation"`
	ProgramName        string `json:"selectedProgramName,omitempty"`
	ProgramSlug        string `json:"selectedProgramSlug,omitempty"`
	UPITransactionID   string `json:"upiTransactionId"`
}

// Validate reports every missing required field.
func (r LogRequest) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", r.Name},
		{"email", r.Email},
		{"phone", r.Phone},
		{"city", r.City},
		{"aiSummary", r.AISummary},
		{"aiRecommendation", r.AIRecommendation},
		{"upiTransactionId", r.UPITransactionID},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Record is a persisted appointment. Every field is always present; optional
// intake fields are stored as "".
type Record struct {
	ID                 string    `json:"id" firestore:"-" dynamodbav:"id"`
	Name               string    `json:"name" firestore:"name" dynamodbav:"name"`
	Email              string    `json:"email" firestore:"email" dynamodbav:"email"`
	Phone              string    `json:"phone" firestore:"phone" dynamodbav:"phone"`
	WhatsApp           string    `json:"whatsapp" firestore:"whatsapp" dynamodbav:"whatsapp"`
	City               string    `json:"city" firestore:"city" dynamodbav:"city"`
	Profession         string    `json:"profession" firestore:"profession" dynamodbav:"profession"`
	PainPoint          string    `json:"pain_point" firestore:"pain_point" dynamodbav:"pain_point"`
	PainDuration       string    `json:"pain_duration" firestore:"pain_duration" dynamodbav:"pain_duration"`
	Goals              string    `json:"goals" firestore:"goals" dynamodbav:"goals"`
	PreviousTreatments string    `json:"previous_treatments" firestore:"previous_treatments" dynamodbav:"previous_treatments"`
	AISummary          string    `json:"aiSummary" firestore:"aiSummary" dynamodbav:"aiSummary"`
	AIRecommendation   string    `json:"aiRecommendation" firestore:"aiRecommendation" dynamodbav:"aiRecommendation"`
	ProgramName        string    `json:"selectedProgramName" firestore:"selectedProgramName" dynamodbav:"selectedProgramName"`
	ProgramSlug        string    `json:"selectedProgramSlug" firestore:"selectedProgramSlug" dynamodbav:"selectedProgramSlug"`
	UPITransactionID   string    `json:"upiTransactionId" firestore:"upiTransactionId" dynamodbav:"upiTransactionId"`
	Status             string    `json:"status" firestore:"status" dynamodbav:"status"`
	CreatedAt          time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp" dynamodbav:"createdAt"`
}

// NewRecord normalizes a request into the record that gets written. ID and
// CreatedAt are assigned by the store.
func NewRecord(req LogRequest) Record {
	program := strings.TrimSpace(req.ProgramName)
	if program == "" {
		program = DefaultProgramName
	}
	return Record{
		Name:               strings.TrimSpace(req.Name),
		Email:              strings.TrimSpace(req.Email),
		Phone:              strings.TrimSpace(req.Phone),
		WhatsApp:           strings.TrimSpace(req.WhatsApp),
		City:               strings.TrimSpace(req.City),
		Profession:         strings.TrimSpace(req.Profession),
		PainPoint:          strings.TrimSpace(req.PainPoint),
		PainDuration:       strings.TrimSpace(req.PainDuration),
		Goals:              strings.TrimSpace(req.Goals),
		PreviousTreatments: strings.TrimSpace(req.PreviousTreatments),
		AISummary:          strings.TrimSpace(req.AISummary),
		AIRecommendation:   strings.TrimSpace(req.AIRecommendation),
		ProgramName:        program,
		ProgramSlug:        strings.TrimSpace(req.ProgramSlug),
		UPITransactionID:   strings.TrimSpace(req.UPITransactionID),
		Status:             StatusPendingVerification,
	}
}

// Result is returned to the booking client.
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	InquiryID string `json:"inquiryId,omitempty"`
}
