package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(ts *httptest.Server, token string) *GitHubAPI {
	return &GitHubAPI{
		token:   token,
		baseUrl: ts.URL,
		client:  &http.Client{Timeout: time.Second},
	}
}

func TestLookupUser(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat", r.URL.Path)
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"login": "octocat",
			"name": "The Octocat",
			"avatar_url": "https://avatars.example.com/u/1",
			"html_url": "https://github.com/octocat",
			"bio": "b",
			"company": "GitHub",
			"location": "San Francisco",
			"followers": 100,
			"public_repos": 8
		}`))
	}))
	defer ts.Close()

	user, err := newTestAPI(ts, "").LookupUser(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, "The Octocat", user.Name)
	assert.Equal(t, "https://avatars.example.com/u/1", user.AvatarURL)
	assert.Equal(t, "https://github.com/octocat", user.ProfileURL)
	assert.Equal(t, "b", user.Bio)
	assert.Equal(t, "GitHub", user.Company)
	assert.Equal(t, "San Francisco", user.Location)
	assert.Equal(t, 100, user.Followers)
	assert.Equal(t, 8, user.PublicRepos)
}

func TestLookupUserNameFallsBackToLogin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login": "ghost", "name": null, "html_url": "https://github.com/ghost"}`))
	}))
	defer ts.Close()

	user, err := newTestAPI(ts, "").LookupUser(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, "ghost", user.Name)
	assert.Empty(t, user.Bio)
}

func TestLookupUserNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newTestAPI(ts, "").LookupUser(context.Background(), "no-such-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLookupUserBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := newTestAPI(ts, "").LookupUser(context.Background(), "octocat")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestLookupUserEscapesLogin(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"login": "x"}`))
	}))
	defer ts.Close()

	_, err := newTestAPI(ts, "").LookupUser(context.Background(), "oct/ocat?x=1")
	require.NoError(t, err)
	assert.Equal(t, "/users/oct%2Focat%3Fx=1", gotPath)
}

func TestLookupUserSendsToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"login": "octocat"}`))
	}))
	defer ts.Close()

	_, err := newTestAPI(ts, "tok").LookupUser(context.Background(), "octocat")
	require.NoError(t, err)
}

func TestLookupUserCancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAPI(ts, "").LookupUser(ctx, "octocat")
	assert.Error(t, err)
}
