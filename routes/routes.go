package routes

import (
	"net/http"

	"teamsync-project/backend/workspace-service/handlers"
	"teamsync-project/backend/workspace-service/metrics"
	"teamsync-project/backend/workspace-service/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Auth       *handlers.AuthHandler
	Users      *handlers.UserHandler
	Workspaces *handlers.WorkspaceHandler
	Projects   *handlers.ProjectHandler
	Tasks      *handlers.TaskHandler
	Dialogs    *handlers.DialogHandler
	Generator  *handlers.GeneratorHandler

	Authenticator middleware.Authenticator
	AuthLimiter   *middleware.IPRateLimiter
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	CORSOrigin    string
}

func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	// Public auth routes
	authRouter := api.PathPrefix("/auth").Subrouter()
	limited := func(h http.HandlerFunc) http.Handler {
		if d.AuthLimiter == nil {
			return h
		}
		return d.AuthLimiter.Middleware(h)
	}
	authRouter.Handle("/register", limited(d.Auth.Register)).Methods(http.MethodPost)
	authRouter.Handle("/login", limited(d.Auth.Login)).Methods(http.MethodPost)
	authRouter.HandleFunc("/google", d.Auth.GoogleLogin).Methods(http.MethodGet)
	authRouter.HandleFunc("/google/callback", d.Auth.GoogleCallback).Methods(http.MethodGet)

	// Everything below requires a bearer token
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.JWTAuthMiddleware(d.Authenticator))

	protected.HandleFunc("/auth/logout", d.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/users/current", d.Users.Current).Methods(http.MethodGet)

	protected.HandleFunc("/workspaces", d.Workspaces.Create).Methods(http.MethodPost)
	protected.HandleFunc("/workspaces", d.Workspaces.List).Methods(http.MethodGet)
	protected.HandleFunc("/workspaces/join/{inviteCode}", d.Workspaces.Join).Methods(http.MethodPost)
	protected.HandleFunc("/workspaces/{id}", d.Workspaces.Get).Methods(http.MethodGet)
	protected.HandleFunc("/workspaces/{id}", d.Workspaces.Update).Methods(http.MethodPut)
	protected.HandleFunc("/workspaces/{id}", d.Workspaces.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/workspaces/{id}/members", d.Workspaces.Members).Methods(http.MethodGet)
	protected.HandleFunc("/workspaces/{id}/members/{memberId}", d.Workspaces.RemoveMember).Methods(http.MethodDelete)

	protected.HandleFunc("/workspaces/{id}/projects", d.Projects.Create).Methods(http.MethodPost)
	protected.HandleFunc("/workspaces/{id}/projects", d.Projects.List).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id}", d.Projects.Get).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id}", d.Projects.Update).Methods(http.MethodPut)
	protected.HandleFunc("/projects/{id}", d.Projects.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/projects/{id}/tasks", d.Tasks.Create).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{id}/tasks", d.Tasks.List).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", d.Tasks.Get).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", d.Tasks.Update).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id}", d.Tasks.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/dialogs", d.Dialogs.List).Methods(http.MethodGet)
	protected.HandleFunc("/dialogs/{kind}", d.Dialogs.Get).Methods(http.MethodGet)
	protected.HandleFunc("/dialogs/{kind}/open", d.Dialogs.Open).Methods(http.MethodPost)
	protected.HandleFunc("/dialogs/{kind}/close", d.Dialogs.Close).Methods(http.MethodPost)
	protected.HandleFunc("/dialogs/{kind}/submit", d.Dialogs.Submit).Methods(http.MethodPost)

	protected.HandleFunc("/generator", d.Generator.State).Methods(http.MethodGet)
	protected.HandleFunc("/generator/members", d.Generator.Members).Methods(http.MethodGet)
	protected.HandleFunc("/generator/file", d.Generator.Upload).Methods(http.MethodPost)
	protected.HandleFunc("/generator/generate", d.Generator.Generate).Methods(http.MethodPost)
	protected.HandleFunc("/generator/tasks/{taskId}/assign", d.Generator.Assign).Methods(http.MethodPost)
	protected.HandleFunc("/generator/tasks/{taskId}/unassign", d.Generator.Unassign).Methods(http.MethodPost)
	protected.HandleFunc("/generator/reset", d.Generator.Reset).Methods(http.MethodPost)
	protected.HandleFunc("/generator/finish", d.Generator.Finish).Methods(http.MethodPost)

	return middleware.EnableCORS(d.CORSOrigin)(middleware.RequestLogger(r))
}
