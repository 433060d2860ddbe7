package journey

import (
	"fmt"
	"strings"
)

// InputType is the UI control a question renders as.
type InputType string

const (
	InputText     InputType = "text"
	InputTextarea InputType = "textarea"
	InputRadio    InputType = "radio"
	InputEmail    InputType = "email"
	InputTel      InputType = "tel"
)

func (t InputType) valid() bool {
	switch t {
	case InputText, InputTextarea, InputRadio, InputEmail, InputTel:
		return true
	}
	return false
}

// Option is one radio choice.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is a single node of the booking journey.
type Question struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	Type           InputType `json:"type"`
	Options        []Option  `json:"options,omitempty"`
	Placeholder    string    `json:"placeholder,omitempty"`
	HelperText     string    `json:"helperText,omitempty"`
	NextQuestionID *string   `json:"nextQuestionId"`
	IsPersonalInfo bool      `json:"isPersonalInfo"`
}

// Terminal reports whether the question ends the journey.
func (q Question) Terminal() bool {
	return q.NextQuestionID == nil
}

// OptionLabel maps a radio value to its label.
func (q Question) OptionLabel(value string) (string, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt.Label, true
		}
	}
	return "", false
}

// Registry is an immutable, validated question chain.
type Registry struct {
	byID  map[string]Question
	order []string
}

// NewRegistry validates a transition table and freezes it. The table must form
// one finite linear chain starting at questions[0] with exactly one terminal.
func NewRegistry(questions []Question) (*Registry, error) {
	if len(questions) == 0 {
		return nil, invalid("", "registry has no questions")
	}

	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		id := strings.TrimSpace(q.ID)
		if id == "" || id != q.ID {
			return nil, invalid(q.ID, "question id must be non-blank and untrimmed")
		}
		if _, dup := byID[id]; dup {
			return nil, invalid(id, "duplicate question id")
		}
		if !q.Type.valid() {
			return nil, invalid(id, fmt.Sprintf("unsupported input type %q", q.Type))
		}
		if (q.Type == InputRadio) != (len(q.Options) > 0) {
			return nil, invalid(id, "options are required for radio questions and only for them")
		}
		byID[id] = cloneQuestion(q)
	}

	terminals := 0
	successorOf := make(map[string]string, len(questions))
	for _, q := range questions {
		if q.NextQuestionID == nil {
			terminals++
			continue
		}
		next := *q.NextQuestionID
		if _, ok := byID[next]; !ok {
			return nil, invalid(q.ID, fmt.Sprintf("next question %q does not exist", next))
		}
		if prev, taken := successorOf[next]; taken {
			return nil, invalid(q.ID, fmt.Sprintf("question %q is already the successor of %q", next, prev))
		}
		successorOf[next] = q.ID
	}
	if terminals != 1 {
		return nil, invalid("", fmt.Sprintf("expected exactly one terminal question, found %d", terminals))
	}

	first := questions[0].ID
	if prev, ok := successorOf[first]; ok {
		return nil, invalid(first, fmt.Sprintf("first question is the successor of %q", prev))
	}

	order := make([]string, 0, len(questions))
	seen := make(map[string]bool, len(questions))
	for id := first; ; {
		if seen[id] {
			return nil, invalid(id, "cycle detected")
		}
		seen[id] = true
		order = append(order, id)
		next := byID[id].NextQuestionID
		if next == nil {
			break
		}
		id = *next
	}
	if len(order) != len(questions) {
		return nil, invalid(first, fmt.Sprintf("only %d of %d questions are reachable from the first question", len(order), len(questions)))
	}

	return &Registry{byID: byID, order: order}, nil
}

// MustRegistry is NewRegistry for built-in tables.
func MustRegistry(questions []Question) *Registry {
	reg, err := NewRegistry(questions)
	if err != nil {
		panic(err)
	}
	return reg
}

// Lookup returns a copy of the question with the given id.
func (r *Registry) Lookup(id string) (Question, bool) {
	q, ok := r.byID[id]
	if !ok {
		return Question{}, false
	}
	return cloneQuestion(q), true
}

// Next returns the successor of id, if any.
func (r *Registry) Next(id string) (Question, bool) {
	q, ok := r.byID[id]
	if !ok || q.NextQuestionID == nil {
		return Question{}, false
	}
	return r.Lookup(*q.NextQuestionID)
}

// First returns the entry question.
func (r *Registry) First() Question {
	q, _ := r.Lookup(r.order[0])
	return q
}

// Questions returns the chain in order.
func (r *Registry) Questions() []Question {
	out := make([]Question, 0, len(r.order))
	for _, id := range r.order {
		q, _ := r.Lookup(id)
		out = append(out, q)
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

// OptionLabel maps a stored radio value to its label. Unknown questions or
// values come back unchanged.
func (r *Registry) OptionLabel(questionID, value string) string {
	q, ok := r.byID[questionID]
	if !ok {
		return value
	}
	if label, ok := q.OptionLabel(value); ok {
		return label
	}
	return value
}

func cloneQuestion(q Question) Question {
	if q.Options != nil {
		q.Options = append([]Option(nil), q.Options...)
	}
	if q.NextQuestionID != nil {
		next := *q.NextQuestionID
		q.NextQuestionID = &next
	}
	return q
}

func invalid(id, reason string) error {
	return &ConfigError{QuestionID: id, Reason: reason, Err: ErrInvalidRegistry}
}
