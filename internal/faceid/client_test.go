package faceid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req verifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "emp-1", req.EmployeeID)
		assert.Equal(t, "checkin", req.CheckType)

		json.NewEncoder(w).Encode(VerifyResult{Verified: true, Confidence: 0.97})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())

	result := c.Verify(context.Background(), "emp-1", "photos/1.jpg", "checkin")
	assert.True(t, result.Verified)
	assert.Equal(t, 0.97, result.Confidence)
}

func TestVerify_Non200DegradesToUnverified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())

	result := c.Verify(context.Background(), "emp-1", "photos/1.jpg", "checkin")
	assert.False(t, result.Verified)
}

func TestVerify_TimeoutDegradesToUnverified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	result := c.Verify(context.Background(), "emp-1", "photos/1.jpg", "checkin")
	assert.False(t, result.Verified)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestVerify_MalformedBodyDegradesToUnverified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())

	result := c.Verify(context.Background(), "emp-1", "photos/1.jpg", "checkin")
	assert.False(t, result.Verified)
}

func TestVerify_DisabledClient(t *testing.T) {
	result := Disabled{}.Verify(context.Background(), "emp-1", "photos/1.jpg", "checkin")
	assert.False(t, result.Verified)
}
