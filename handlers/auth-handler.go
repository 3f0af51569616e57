package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"teamsync-project/backend/workspace-service/logging"
	"teamsync-project/backend/workspace-service/middleware"
	"teamsync-project/backend/workspace-service/services"
	"teamsync-project/backend/workspace-service/utils"
)

type AuthHandler struct {
	service             *services.AuthService
	google              services.OAuthProvider
	frontendCallbackURL string
}

// NewAuthHandler builds the auth endpoints. google may be nil when Google
// sign-in is not configured.
func NewAuthHandler(service *services.AuthService, google services.OAuthProvider, frontendCallbackURL string) *AuthHandler {
	return &AuthHandler{service: service, google: google, frontendCallbackURL: frontendCallbackURL}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.service.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &creds); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.service.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.service.Logout(r.Context(), claims); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

type oauthState struct {
	ReturnURL string `json:"returnUrl"`
}

// GoogleLogin redirects to Google. The caller's returnUrl travels in the
// OAuth state parameter.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.Error(w, "Google sign-in is not configured", http.StatusServiceUnavailable)
		return
	}
	returnURL := r.URL.Query().Get("returnUrl")
	if returnURL == "" {
		returnURL = "/"
	}
	state, err := json.Marshal(oauthState{ReturnURL: returnURL})
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, h.google.AuthCodeURL(string(state)), http.StatusFound)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	if h.google == nil || code == "" || query.Get("error") != "" {
		logging.Logger.Warnf("Event ID: GOOGLE_AUTH_FAILED, Description: Callback without code (error=%q)", query.Get("error"))
		h.redirectFailure(w, r)
		return
	}

	var state oauthState
	if raw := query.Get("state"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			logging.Logger.Warnf("Event ID: GOOGLE_AUTH_BAD_STATE, Description: %v", err)
		}
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		logging.Logger.Warnf("Event ID: GOOGLE_AUTH_FAILED, Description: %v", err)
		h.redirectFailure(w, r)
		return
	}
	result, err := h.service.LoginOrCreateGoogle(r.Context(), profile)
	if err != nil {
		logging.Logger.Warnf("Event ID: GOOGLE_AUTH_FAILED, Description: %v", err)
		h.redirectFailure(w, r)
		return
	}

	params := url.Values{}
	params.Set("status", "success")
	params.Set("access_token", result.AccessToken)
	if result.User.CurrentWorkspace != nil {
		params.Set("current_workspace", result.User.CurrentWorkspace.Hex())
	}
	params.Set("returnUrl", utils.SafeReturnURL(state.ReturnURL))

	logging.Logger.Infof("Event ID: GOOGLE_AUTH_SUCCESS, Description: User %s signed in with Google", result.User.Email)
	http.Redirect(w, r, h.frontendCallbackURL+"?"+params.Encode(), http.StatusFound)
}

func (h *AuthHandler) redirectFailure(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.frontendCallbackURL+"?status=failure", http.StatusFound)
}
