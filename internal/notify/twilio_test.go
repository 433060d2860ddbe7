package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTwilio(baseURL string) *TwilioSMSSender {
	s := NewTwilioSMSSender(TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15005550006",
		BaseURL:    baseURL,
	}, nil)
	s.backoff = func(int) time.Duration { return 0 }
	return s
}

func TestTwilioSMSSender_Unconfigured(t *testing.T) {
	s := NewTwilioSMSSender(TwilioConfig{AccountSID: "AC1", AuthToken: "x"}, nil)
	o := s.SendSMS(context.Background(), "+919876543210", "hi")
	assert.Equal(t, "failed", o.Result())
	assert.Contains(t, o.Detail, "FROM number is missing")
}

func TestTwilioSMSSender_NormalizesTenDigits(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "+919876543210", r.PostForm.Get("To"))
		assert.Equal(t, "+15005550006", r.PostForm.Get("From"))
		assert.Equal(t, "Hi Asha", r.PostForm.Get("Body"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM42","status":"queued"}`))
	}))
	defer srv.Close()

	o := newTestTwilio(srv.URL).SendSMS(context.Background(), "9876543210", "Hi Asha")
	assert.True(t, o.Delivered, o.String())
	assert.Equal(t, "SM42", o.Detail)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestTwilioSMSSender_InvalidNumberNoNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	o := newTestTwilio(srv.URL).SendSMS(context.Background(), "12345", "hi")
	assert.Equal(t, "failed", o.Result())
	assert.Contains(t, o.Detail, `"12345"`)
	assert.Contains(t, o.Detail, "E.164")
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestTwilioSMSSender_Retries(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{"unavailable retried", http.StatusServiceUnavailable, 3},
		{"rate limit retried", http.StatusTooManyRequests, 3},
		{"client error not retried", http.StatusBadRequest, 1},
		{"internal error not retried", http.StatusInternalServerError, 1},
		{"bad gateway not retried", http.StatusBadGateway, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not valid."}`))
			}))
			defer srv.Close()

			o := newTestTwilio(srv.URL).SendSMS(context.Background(), "+919876543210", "hi")
			assert.False(t, o.Delivered)
			assert.Contains(t, o.Detail, "code 21211")
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestTwilioSMSSender_RecoversAfterTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM2"}`))
	}))
	defer srv.Close()

	o := newTestTwilio(srv.URL).SendSMS(context.Background(), "+919876543210", "hi")
	assert.True(t, o.Delivered)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestFormatTwilioError(t *testing.T) {
	assert.Equal(t, "status 500", formatTwilioError(500, nil))
	assert.Equal(t, "status 400: nope", formatTwilioError(400, []byte(`{"message":"nope"}`)))
	assert.Equal(t, "status 502: <html>", formatTwilioError(502, []byte(" <html> ")))
}

func TestTwilioSMSSender_BackoffStopsOnCancel(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := newTestTwilio(srv.URL)
	s.backoff = func(int) time.Duration {
		cancel()
		return time.Hour
	}

	start := time.Now()
	o := s.SendSMS(ctx, "+919876543210", "hi")
	assert.False(t, o.Delivered)
	assert.Contains(t, o.Detail, "context canceled")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Less(t, time.Since(start), 5*time.Second)
}
