package journey

// Question ids of the Smart Booking Journey.
const (
	QuestionPainPoint          = "pain_point"
	QuestionPainDuration       = "pain_duration"
	QuestionGoals              = "goals"
	QuestionPreviousTreatments = "previous_treatments"
	QuestionProfession         = "profession"
	QuestionName               = "name"
	QuestionEmail              = "email"
	QuestionPhone              = "phone"
	QuestionWhatsApp           = "whatsapp"
	QuestionCity               = "city"
)

func next(id string) *string { return &id }

// SmartBookingQuestions is the ordered transition table of the journey.
func SmartBookingQuestions() []Question {
	return []Question{
		{
			ID:             QuestionPainPoint,
			Text:           "To start, what's the primary physical challenge or pain point you're looking to address?",
			Type:           InputTextarea,
			Placeholder:    `e.g., "Persistent lower back pain from sitting", "Stiff neck and shoulders from stress", "Knee pain when running"`,
			HelperText:     "Be specific. This helps Rudra AI understand the core issue.",
			NextQuestionID: next(QuestionPainDuration),
		},
		{
			ID:   QuestionPainDuration,
			Text: "How long have you been experiencing this primary challenge?",
			Type: InputRadio,
			Options: []Option{
				{Value: "less_than_1_month", Label: "Less than 1 month"},
				{Value: "1_to_3_months", Label: "1 to 3 months"},
				{Value: "3_to_12_months", Label: "3 to 12 months"},
				{Value: "more_than_1_year", Label: "More than 1 year"},
			},
			HelperText:     "Select the duration that best describes your experience.",
			NextQuestionID: next(QuestionGoals),
		},
		{
			ID:             QuestionGoals,
			Text:           "What does a successful outcome look like for you? What specific improvements are you seeking?",
			Type:           InputTextarea,
			Placeholder:    `e.g., "Complete pain relief", "To run without knee pain", "Better posture and confidence", "Enhanced athletic performance"`,
			NextQuestionID: next(QuestionPreviousTreatments),
		},
		{
			ID:             QuestionPreviousTreatments,
			Text:           "Have you tried any other treatments or therapies for this issue? If so, what were they and were they effective?",
			Type:           InputTextarea,
			Placeholder:    `e.g., 'Physiotherapy (temporary relief)', "Painkillers (don't want to rely on them)", "None"`,
			NextQuestionID: next(QuestionProfession),
		},
		{
			ID:             QuestionProfession,
			Text:           "What is your primary profession or daily occupation? (Optional)",
			Type:           InputText,
			Placeholder:    "e.g., Software Engineer, Athlete, Teacher, Homemaker, Retired",
			HelperText:     "Understanding your daily physical demands helps Rudra AI tailor insights.",
			NextQuestionID: next(QuestionName),
		},
		{
			ID:             QuestionName,
			Text:           "Understood. To prepare your personalized R8 Blueprint, what is your full name?",
			Type:           InputText,
			Placeholder:    "Your Full Name",
			IsPersonalInfo: true,
			NextQuestionID: next(QuestionEmail),
		},
		{
			ID:             QuestionEmail,
			Text:           "And your email address, to send your appointment confirmation and R8 Blueprint?",
			Type:           InputEmail,
			Placeholder:    "your.email@example.com",
			IsPersonalInfo: true,
			NextQuestionID: next(QuestionPhone),
		},
		{
			ID:             QuestionPhone,
			Text:           "Your primary phone number for appointment reminders? Please include your country code (e.g., +91).",
			Type:           InputTel,
			Placeholder:    "+91 XXXXX XXXXX",
			IsPersonalInfo: true,
			NextQuestionID: next(QuestionWhatsApp),
		},
		{
			ID:             QuestionWhatsApp,
			Text:           "And your WhatsApp number (if different, or leave blank if same/not preferred)?",
			Type:           InputTel,
			Placeholder:    "+91 XXXXX XXXXX (Optional)",
			IsPersonalInfo: true,
			NextQuestionID: next(QuestionCity),
		},
		{
			ID:             QuestionCity,
			Text:           "Finally, which city are you primarily located in?",
			Type:           InputText,
			Placeholder:    "e.g., Narnaul, Gurgaon, Delhi",
			IsPersonalInfo: true,
		},
	}
}

// DefaultRegistry returns the validated Smart Booking Journey.
func DefaultRegistry() *Registry {
	return MustRegistry(SmartBookingQuestions())
}
