package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"userlens-bot/internal/model"
)

// ErrUserNotFound is returned when the lookup endpoint answers 404.
var ErrUserNotFound = errors.New("user not found")

type GitHubAPI struct {
	token   string
	baseUrl string
	client  *http.Client
}

func NewGitHubAPI(token string) *GitHubAPI {
	return &GitHubAPI{
		token:   token,
		baseUrl: "https://api.github.com",
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *GitHubAPI) doRequest(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Add("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Add("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, result)
}

// LookupUser fetches the public profile for login. The login is
// percent-encoded before it is placed in the path segment.
func (g *GitHubAPI) LookupUser(ctx context.Context, login string) (*model.User, error) {
	slog.Debug("Started LookupUser", "login", login)
	lookupUrl := fmt.Sprintf("%s/users/%s", g.baseUrl, url.PathEscape(login))

	var data UserResponse
	if err := g.doRequest(ctx, lookupUrl, &data); err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			slog.Error("LookupUser fetch err", "login", login, "error", err)
		}
		return nil, err
	}

	user := &model.User{
		Login:       data.Login,
		Name:        data.Name,
		AvatarURL:   data.AvatarURL,
		ProfileURL:  data.HTMLURL,
		Bio:         data.Bio,
		Company:     data.Company,
		Location:    data.Location,
		Followers:   data.Followers,
		PublicRepos: data.PublicRepos,
	}
	if user.Name == "" {
		user.Name = data.Login
	}
	slog.Debug("Ended LookupUser", "login", login)
	return user, nil
}
