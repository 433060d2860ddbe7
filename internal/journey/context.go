package journey

import "strings"

const notAnswered = "Not answered"

// BuildContext renders the non-personal answers as the synthesis context:
//
//	User details:
//	- <question label>: <answer>
//
// Lines follow chain order. Answers keyed by unknown ids are ignored, radio
// values become labels and a blank profession is left out.
func BuildContext(reg *Registry, answers map[string]string) string {
	var b strings.Builder
	b.WriteString("User details:\n")

	for _, q := range reg.Questions() {
		if q.IsPersonalInfo {
			continue
		}
		raw, answered := answers[q.ID]
		if !answered {
			continue
		}

		answer := strings.TrimSpace(raw)
		if q.Type == InputRadio {
			if label, ok := q.OptionLabel(answer); ok {
				answer = label
			}
		}
		if q.ID == QuestionProfession && (answer == "" || answer == notAnswered) {
			continue
		}
		if answer == "" {
			answer = notAnswered
		}

		b.WriteString("- ")
		b.WriteString(questionLabel(q.Text))
		b.WriteString(": ")
		b.WriteString(answer)
		b.WriteString("\n")
	}
	return b.String()
}

// questionLabel strips the trailing question mark, the optional marker and
// the assistant's name from a prompt.
func questionLabel(text string) string {
	text = strings.TrimSuffix(text, "?")
	text = strings.Replace(text, " (Optional)", "", 1)
	text = strings.Replace(text, "Rudra AI", "", 1)
	return strings.TrimSpace(text)
}
