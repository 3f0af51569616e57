package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"teamsync-project/backend/workspace-service/logging"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var GoogleScopes = []string{"profile", "email"}

type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// OAuthProvider is the part of the Google flow the auth handler needs.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

type GoogleProvider struct {
	config      *oauth2.Config
	breaker     *gobreaker.CircuitBreaker
	userInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       GoogleScopes,
			Endpoint:     endpoints.Google,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "GoogleOAuthCB",
			MaxRequests: 1,
			Timeout:     5 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
			},
		}),
		userInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		token, err := p.config.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("code exchange failed: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := p.config.Client(ctx, token).Do(req)
		if err != nil {
			return nil, fmt.Errorf("userinfo request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("userinfo returned %s", resp.Status)
		}

		var profile GoogleProfile
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			return nil, fmt.Errorf("failed to decode userinfo: %w", err)
		}
		return &profile, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*GoogleProfile), nil
}
