package journey

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revive-underground/smart-booking/internal/recommend"
)

func TestHandlerAdvance(t *testing.T) {
	synth := &stubSynthesizer{rec: recommend.Recommendation{Summary: "stub", Recommendation: "stub: R8 Reclaim"}}
	h := NewHandler(newTestMachine(synth), nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "bootstrap",
			body:       `{"currentQuestionId":"pain_point","previousAnswers":{},"userResponse":""}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var res StepResult
				require.NoError(t, json.Unmarshal(body, &res))
				require.NotNil(t, res.NextQuestion)
				assert.Equal(t, QuestionPainPoint, res.NextQuestion.ID)
			},
		},
		{
			name:       "terminal",
			body:       `{"currentQuestionId":"city","previousAnswers":{"name":"Asha"},"userResponse":"Delhi"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var res StepResult
				require.NoError(t, json.Unmarshal(body, &res))
				assert.True(t, res.ConversationComplete)
				assert.Nil(t, res.NextQuestion)
				assert.Equal(t, "stub", res.Summary)
			},
		},
		{
			name:       "unknown question",
			body:       `{"currentQuestionId":"bogus","previousAnswers":{},"userResponse":"x"}`,
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), "Please restart.")
			},
		},
		{name: "malformed json", body: `{"currentQuestionId":`, wantStatus: http.StatusBadRequest},
		{name: "missing id", body: `{"previousAnswers":{}}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/booking/advance", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Advance(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.check != nil {
				tt.check(t, rec.Body.Bytes())
			}
		})
	}
}

func TestHandlerQuestions(t *testing.T) {
	h := NewHandler(newTestMachine(nil), nil)
	rec := httptest.NewRecorder()
	h.Questions(rec, httptest.NewRequest(http.MethodGet, "/api/booking/questions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		FirstQuestionID string     `json:"firstQuestionId"`
		Questions       []Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, QuestionPainPoint, body.FirstQuestionID)
	assert.Len(t, body.Questions, 10)
	assert.Nil(t, body.Questions[len(body.Questions)-1].NextQuestionID)
}
