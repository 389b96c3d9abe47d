// ABOUTME: Tests for the workoutlog HTTP client.
// ABOUTME: Runs against the real server handler and against canned responses.
package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/server"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T, initSheet bool) *httptest.Server {
	t.Helper()
	repo := storage.NewSheetRepository(storage.NewMemoryWorkbook(), storage.DefaultSheetName)
	if initSheet {
		require.NoError(t, repo.Init(context.Background()))
	}
	srv := httptest.NewServer(server.New(server.Config{Repo: repo}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestAppendAndList(t *testing.T) {
	ctx := context.Background()
	c := New(setupServer(t, true).URL + "/")

	require.NoError(t, c.Append(ctx, models.NewRecord("alice", "2025-01-30", "squat").WithSets(5).WithWeight(80).WithReps(5)))
	require.NoError(t, c.Append(ctx, models.NewRecord("alice", "2025-01-31", "bench press").WithMemo("PR")))
	require.NoError(t, c.Append(ctx, models.NewRecord("bob user", "2025-02-01", "run")))

	records, err := c.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "bench press", records[0].Exercise)
	assert.Equal(t, "PR", records[0].Memo)
	assert.Equal(t, models.Quantity("80"), records[1].Weight)
	assert.NotEmpty(t, records[1].CreatedAt)

	records, err = c.List(ctx, "bob user")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = c.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestAppendMissingSheet(t *testing.T) {
	c := New(setupServer(t, false).URL)

	err := c.Append(context.Background(), models.NewRecord("alice", "2025-01-31", "run"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, "Sheet not found", apiErr.Message)
}

func TestListMissingSheet(t *testing.T) {
	c := New(setupServer(t, false).URL)

	records, err := c.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).List(context.Background(), "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, "server error: boom", apiErr.Error())
}

func TestNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).Append(context.Background(), models.NewRecord("a", "b", "c"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "server error (502): bad gateway", apiErr.Error())
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL).WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond})
	_, err := c.List(context.Background(), "")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestDefaultTimeout(t *testing.T) {
	c := New("http://localhost:8080")
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}
