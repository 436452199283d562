package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
)

func TestNotifyPostsEvent(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, nil)
	wh.Notify(context.Background(), schemas.Notification{
		Event:       "autofill-complete",
		URL:         "https://jobs.example.com/apply",
		FilledCount: 4,
		Success:     true,
	})
	assert.Contains(t, string(got), `"autofill-complete"`)
	assert.Contains(t, string(got), `"filledCount":4`)
}

func TestNotifySwallowsDeliveryFailure(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	wh := NewWebhook(url, nil)
	assert.NotPanics(t, func() {
		wh.Notify(context.Background(), schemas.Notification{Event: "autofill-complete"})
	})
}

func TestNotifyDisabledWithoutURL(t *testing.T) {
	wh := NewWebhook("", nil)
	assert.NotPanics(t, func() {
		wh.Notify(context.Background(), schemas.Notification{Event: "autofill-complete"})
	})
}
