package journey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_ChainTerminates(t *testing.T) {
	reg := DefaultRegistry()
	require.Equal(t, 10, reg.Len())

	steps := 0
	q := reg.First()
	assert.Equal(t, QuestionPainPoint, q.ID)
	for !q.Terminal() {
		next, ok := reg.Next(q.ID)
		require.True(t, ok, "successor of %s must resolve", q.ID)
		q = next
		steps++
		require.LessOrEqual(t, steps, reg.Len(), "chain must terminate within registry size")
	}
	assert.Equal(t, QuestionCity, q.ID)
	assert.Equal(t, reg.Len()-1, steps)
}

func TestDefaultRegistry_PersonalInfoFlags(t *testing.T) {
	reg := DefaultRegistry()
	personal := map[string]bool{}
	for _, q := range reg.Questions() {
		if q.IsPersonalInfo {
			personal[q.ID] = true
		}
	}
	assert.Equal(t, map[string]bool{
		QuestionName: true, QuestionEmail: true, QuestionPhone: true, QuestionWhatsApp: true, QuestionCity: true,
	}, personal)
}

func TestRegistry_LookupReturnsCopies(t *testing.T) {
	reg := DefaultRegistry()
	q, ok := reg.Lookup(QuestionPainDuration)
	require.True(t, ok)
	q.Options[0].Label = "mutated"
	*q.NextQuestionID = "mutated"

	again, _ := reg.Lookup(QuestionPainDuration)
	assert.Equal(t, "Less than 1 month", again.Options[0].Label)
	assert.Equal(t, QuestionGoals, *again.NextQuestionID)

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)
}

func TestRegistry_OptionLabel(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, "3 to 12 months", reg.OptionLabel(QuestionPainDuration, "3_to_12_months"))
	assert.Equal(t, "forever", reg.OptionLabel(QuestionPainDuration, "forever"))
	assert.Equal(t, "x", reg.OptionLabel("unknown", "x"))
}

func TestNewRegistry_RejectsBrokenChains(t *testing.T) {
	q := func(id string, nextID *string) Question {
		return Question{ID: id, Text: id, Type: InputText, NextQuestionID: nextID}
	}
	s := func(v string) *string { return &v }

	tests := []struct {
		name      string
		questions []Question
	}{
		{"empty", nil},
		{"blank id", []Question{q("", nil)}},
		{"duplicate id", []Question{q("a", s("b")), q("b", nil), q("a", nil)}},
		{"dangling successor", []Question{q("a", s("missing")), q("b", nil)}},
		{"two terminals", []Question{q("a", nil), q("b", nil)}},
		{"no terminal", []Question{q("a", s("b")), q("b", s("a"))}},
		{"shared successor", []Question{q("a", s("c")), q("b", s("c")), q("c", nil)}},
		{"first is a successor", []Question{q("b", s("c")), q("a", s("b")), q("c", nil)}},
		{"unreachable cycle", []Question{q("a", s("b")), q("b", nil), q("c", s("d")), q("d", s("c"))}},
		{"radio without options", []Question{{ID: "a", Type: InputRadio}}},
		{"options on text", []Question{{ID: "a", Type: InputText, Options: []Option{{Value: "v", Label: "l"}}}}},
		{"unknown type", []Question{{ID: "a", Type: "slider"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.questions)
			require.Error(t, err)
			assert.Nil(t, reg)
			assert.True(t, errors.Is(err, ErrInvalidRegistry))
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestNewRegistry_SingleQuestion(t *testing.T) {
	reg, err := NewRegistry([]Question{{ID: "only", Text: "Only?", Type: InputText}})
	require.NoError(t, err)
	assert.True(t, reg.First().Terminal())
	_, ok := reg.Next("only")
	assert.False(t, ok)
}

func TestMustRegistryPanics(t *testing.T) {
	assert.Panics(t, func() { MustRegistry(nil) })
}
