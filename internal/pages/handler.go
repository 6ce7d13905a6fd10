// Package pages holds the view pages that sit below the route guard: login,
// dashboard, gallery, video detail and upload. Each page talks to the remote
// API on its own with the bearer token from the session; none of them retry.
package pages

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aulavid/aulavid/internal/api"
	"github.com/aulavid/aulavid/internal/auth"
	"github.com/aulavid/aulavid/internal/shell"
)

const (
	msgGeneric            = "Something went wrong. Please try again later."
	msgInvalidCredentials = "Invalid username or password."
	msgVideoNotFound      = "Video not found."
)

// VideoAPI is the slice of the remote API the pages use.
type VideoAPI interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	ListVideos(ctx context.Context, token string) ([]api.Video, error)
	GetVideo(ctx context.Context, token string, id int) (*api.Video, error)
	CreateVideo(ctx context.Context, token string, in api.UploadInput) (*api.Video, error)
	Stats(ctx context.Context, token string) (*api.Stats, error)
	ProcessingStatus(ctx context.Context, token string, id int) (*api.ProcessingStatus, error)
	StartProcessing(ctx context.Context, token string, id int) (*api.ProcessingStarted, error)
	Summary(ctx context.Context, token string, id int) (*api.Summary, error)
	Transcript(ctx context.Context, token string, id int) (*api.Transcript, error)
	Segments(ctx context.Context, token string, id int) ([]api.Segment, error)
	Reanalyze(ctx context.Context, token string, id int) (*api.ProcessingStarted, error)
}

type Handler struct {
	api            VideoAPI
	maxUploadBytes int64
	homePath       string
}

func NewHandler(client VideoAPI, maxUploadBytes int64) *Handler {
	return &Handler{api: client, maxUploadBytes: maxUploadBytes, homePath: "/"}
}

// errorPage is the body of every page that could not load its data.
type errorPage struct {
	Message string
}

var errorView = shell.NewView(`{{define "content"}}<div class="error" role="alert">{{.Message}}</div>{{end}}`)

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	errorView.Render(w, r, shell.Page{Title: title, Status: status, Data: errorPage{Message: message}})
}

// remoteFailure logs err and renders the generic message. A 401 from the API
// is shown the same way; the session flag is left alone.
func (h *Handler) remoteFailure(w http.ResponseWriter, r *http.Request, title string, err error) {
	slog.Error("remote api call failed", "path", r.URL.Path, "error", err)
	h.renderError(w, r, http.StatusBadGateway, title, msgGeneric)
}

func token(r *http.Request) string {
	return auth.FromContext(r.Context()).AccessToken()
}

func videoID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func isNotFound(err error) bool {
	return errors.Is(err, api.ErrNotFound)
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Not found", "Page not found.")
}
