package pages

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aulavid/aulavid/internal/api"
	"github.com/aulavid/aulavid/internal/auth"
	"github.com/aulavid/aulavid/internal/shell"
	"github.com/aulavid/aulavid/internal/validate"
)

var loginView = shell.NewView(`{{define "content"}}
<div class="card narrow">
    <h1>Log in</h1>
    {{if .Error}}<div class="error" role="alert">{{.Error}}</div>{{end}}
    <form method="post" action="/login">
        <label for="username">Username</label>
        <input id="username" name="username" type="text" value="{{.Username}}" maxlength="{{.Limits.username}}" autocomplete="username" required>
        <label for="password">Password</label>
        <input id="password" name="password" type="password" maxlength="{{.Limits.password}}" autocomplete="current-password" required>
        <button type="submit" class="primary">Log in</button>
    </form>
</div>
{{end}}`)

type loginData struct {
	Username string
	Error    string
	Limits   map[string]int
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginData) {
	data.Limits = validate.FieldLimits()
	loginView.Render(w, r, shell.Page{Title: "Log in", Status: status, Data: data})
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.FromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, h.homePath, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, loginData{})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, loginData{Error: "invalid form"})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if msg := validate.Username(username); msg != "" {
		h.renderLogin(w, r, http.StatusBadRequest, loginData{Username: username, Error: msg})
		return
	}
	if msg := validate.Password(password); msg != "" {
		h.renderLogin(w, r, http.StatusBadRequest, loginData{Username: username, Error: msg})
		return
	}

	result, err := h.api.Login(r.Context(), username, password)
	if err != nil {
		if rejectedCredentials(err) {
			h.renderLogin(w, r, http.StatusUnauthorized, loginData{Username: username, Error: msgInvalidCredentials})
			return
		}
		slog.Error("login request failed", "error", err)
		h.renderLogin(w, r, http.StatusBadGateway, loginData{Username: username, Error: msgGeneric})
		return
	}

	auth.FromContext(r.Context()).LoginWithTokens(result.Tokens.Access, result.Tokens.Refresh)
	slog.Info("user logged in", "username", result.User.Username)
	http.Redirect(w, r, h.homePath, http.StatusSeeOther)
}

func rejectedCredentials(err error) bool {
	if errors.Is(err, api.ErrUnauthorized) {
		return true
	}
	var se *api.StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusBadRequest
}

// TooManyAttempts is shown when the login form is rate limited.
func (h *Handler) TooManyAttempts(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusTooManyRequests, loginData{
		Username: r.PostFormValue("username"),
		Error:    "Too many login attempts. Please wait a moment and try again.",
	})
}
