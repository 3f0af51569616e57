package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"teamsync-project/backend/workspace-service/dialog"
	"teamsync-project/backend/workspace-service/forms"
	"teamsync-project/backend/workspace-service/generator"
	"teamsync-project/backend/workspace-service/handlers"
	"teamsync-project/backend/workspace-service/metrics"
	"teamsync-project/backend/workspace-service/middleware"
	"teamsync-project/backend/workspace-service/routes"
	"teamsync-project/backend/workspace-service/services"
	"teamsync-project/backend/workspace-service/store/memory"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const frontendCallback = "http://localhost:5173/google/oauth/callback"

type fakeGoogle struct {
	profile *services.GoogleProfile
	err     error
}

func (g *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?" + url.Values{"state": {state}}.Encode()
}

func (g *fakeGoogle) Exchange(_ context.Context, code string) (*services.GoogleProfile, error) {
	if g.err != nil {
		return nil, g.err
	}
	if code != "good-code" {
		return nil, errors.New("bad code")
	}
	return g.profile, nil
}

type appOptions struct {
	delay     time.Duration
	google    services.OAuthProvider
	rateLimit float64
	rateBurst int
}

func newApp(t *testing.T, opts appOptions) http.Handler {
	t.Helper()
	if opts.delay == 0 {
		opts.delay = 5 * time.Millisecond
	}
	if opts.rateLimit == 0 {
		opts.rateLimit, opts.rateBurst = 1000, 1000
	}

	stores := memory.New()
	reg := prometheus.NewRegistry()
	appMetrics := metrics.New(reg)

	workspaces := services.NewWorkspaceService(stores)
	projects := services.NewProjectService(stores, workspaces)
	tasks := services.NewTaskService(stores, projects, workspaces)
	jwtService := services.NewJWTService("test-secret", time.Hour)
	auth := services.NewAuthService(stores.Users, workspaces, jwtService, services.NewCacheRevocationStore(), map[string]bool{"Password1!": true})

	generators := generator.NewRegistry(generator.RegistryOptions{Delay: opts.delay, TTL: time.Minute, Observer: appMetrics})
	dialogs := dialog.NewRegistry(&forms.Factory{
		Workspaces: workspaces,
		Projects:   projects,
		Tasks:      tasks,
		Generator:  generators,
	}, time.Minute)

	return routes.NewRouter(routes.Deps{
		Auth:          handlers.NewAuthHandler(auth, opts.google, frontendCallback),
		Users:         handlers.NewUserHandler(auth, workspaces),
		Workspaces:    handlers.NewWorkspaceHandler(workspaces),
		Projects:      handlers.NewProjectHandler(projects),
		Tasks:         handlers.NewTaskHandler(tasks),
		Dialogs:       handlers.NewDialogHandler(dialogs),
		Generator:     handlers.NewGeneratorHandler(generators, 2*time.Second),
		Authenticator: auth,
		AuthLimiter:   middleware.NewIPRateLimiter(opts.rateLimit, opts.rateBurst),
		Metrics:       appMetrics,
		Gatherer:      reg,
		CORSOrigin:    "http://localhost:5173",
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body err=%v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)
	return rr
}

func doUpload(t *testing.T, h http.Handler, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generator/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

type authResponse struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID               string `json:"id"`
		Email            string `json:"email"`
		CurrentWorkspace string `json:"currentWorkspace"`
	} `json:"user"`
}

func register(t *testing.T, h http.Handler, name, email string) authResponse {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[authResponse](t, rr)
}
