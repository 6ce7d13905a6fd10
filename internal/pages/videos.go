package pages

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aulavid/aulavid/internal/api"
	"github.com/aulavid/aulavid/internal/shell"
)

var videoListView = shell.NewView(`{{define "content"}}
<h1>Videos</h1>
{{if .}}
<div class="grid">
    {{range .}}
    <a class="video card" href="/videos/{{.ID}}">
        {{if .ThumbnailURL}}<img class="thumb" src="{{.ThumbnailURL}}" alt="">{{end}}
        <h3>{{.Title}}</h3>
        <p class="muted">{{.Stage.Label}}{{if .Duration}} · {{.Duration}}{{end}}</p>
    </a>
    {{end}}
</div>
{{else}}
<div class="card"><p class="muted">No videos yet. <a href="/upload">Upload one</a>.</p></div>
{{end}}
{{end}}`)

var videoDetailView = shell.NewView(`{{define "content"}}
<h1>{{.Video.Title}}</h1>
{{if eq .Notice "started"}}<div class="notice">Analysis started.</div>{{end}}
{{if eq .Notice "reanalyzing"}}<div class="notice">Re-analysis started.</div>{{end}}
{{if eq .Notice "failed"}}<div class="error" role="alert">Could not start the analysis. Please try again later.</div>{{end}}
<div class="card">
    <p class="muted">Source: {{.Source}}{{if .Video.Duration}} · {{.Video.Duration}}{{end}}{{if not .Video.UploadedAt.IsZero}} · uploaded {{.Video.UploadedAt.Format "Jan 2, 2006"}}{{end}}</p>
    {{if .Video.OriginalURL}}<p><a href="{{.Video.OriginalURL}}" rel="noopener noreferrer">{{.Video.OriginalURL}}</a></p>{{end}}
</div>
<div class="card">
    <h2>Analysis</h2>
    <p id="stage">{{.Stage.Label}}</p>
    <progress class="analysis{{if .Stage.Failed}} failed{{end}}" value="{{.Progress}}" max="100">{{.Progress}}%</progress>
    {{if .Stage.Startable}}
    <form method="post" action="/videos/{{.Video.ID}}/analyze">
        <button type="submit" class="primary" id="analyze">Analyze</button>
    </form>
    {{else if .Stage.Reanalyzable}}
    <form method="post" action="/videos/{{.Video.ID}}/reanalyze">
        <button type="submit" id="reanalyze">Re-analyze</button>
    </form>
    {{end}}
    {{range .Logs}}<p class="muted">{{.Step}}: {{.Status}}{{if .Message}} · {{.Message}}{{end}}</p>{{end}}
</div>
{{with .Summary}}
<div class="card" id="summary">
    <h2>Summary</h2>
    <p>{{.Text}}</p>
    {{if .Topics}}<h3>Main topics</h3><p>{{.Topics}}</p>{{end}}
    {{if .KeyPoints}}<h3>Key points</h3><p>{{.KeyPoints}}</p>{{end}}
    {{if .Conclusions}}<h3>Conclusions</h3><p>{{.Conclusions}}</p>{{end}}
</div>
{{end}}
{{if .Segments}}
<div class="card" id="segments">
    <h2>Segments</h2>
    {{range .Segments}}
    <div class="segment">
        <h3>{{.Start}} – {{.End}} · {{.Title}}</h3>
        {{if .Description}}<p>{{.Description}}</p>{{end}}
    </div>
    {{end}}
</div>
{{end}}
{{with .Transcript}}
<div class="card" id="transcript">
    <h2>Transcript</h2>
    {{if .Language}}<p class="muted">Language: {{.Language}}</p>{{end}}
    <p>{{.Text}}</p>
</div>
{{end}}
{{end}}`)

type videoDetailData struct {
	Video      *api.Video
	Source     string
	Stage      api.Stage
	Progress   int
	Logs       []api.ProcessingLog
	Summary    *api.Summary
	Segments   []api.Segment
	Transcript *api.Transcript
	Notice     string
}

func (h *Handler) Videos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.api.ListVideos(r.Context(), token(r))
	if err != nil {
		h.remoteFailure(w, r, "Videos", err)
		return
	}
	videoListView.Render(w, r, shell.Page{Title: "Videos", Active: "videos", Data: videos})
}

func (h *Handler) VideoDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Video", msgVideoNotFound)
		return
	}
	ctx := r.Context()
	bearer := token(r)

	video, err := h.api.GetVideo(ctx, bearer, id)
	if err != nil {
		if isNotFound(err) {
			h.renderError(w, r, http.StatusNotFound, "Video", msgVideoNotFound)
			return
		}
		h.remoteFailure(w, r, "Video", err)
		return
	}

	data := videoDetailData{
		Video:  video,
		Source: sourceLabel(video.Source),
		Stage:  video.Stage,
		Notice: r.URL.Query().Get("notice"),
	}

	if status, err := h.api.ProcessingStatus(ctx, bearer, id); err != nil {
		slog.Warn("failed to load processing status", "video_id", id, "error", err)
	} else {
		data.Stage = status.Stage
		data.Logs = status.Logs
	}
	data.Progress = data.Stage.Progress()

	if video.HasSummary || data.Stage == api.StageCompleted {
		summary, err := h.api.Summary(ctx, bearer, id)
		switch {
		case err == nil:
			data.Summary = summary
		case !isNotFound(err):
			slog.Warn("failed to load summary", "video_id", id, "error", err)
		}
	}

	if video.SegmentCount > 0 {
		segments, err := h.api.Segments(ctx, bearer, id)
		switch {
		case err == nil:
			data.Segments = segments
		case !isNotFound(err):
			slog.Warn("failed to load segments", "video_id", id, "error", err)
		}
	}

	if video.HasTranscript {
		transcript, err := h.api.Transcript(ctx, bearer, id)
		switch {
		case err == nil:
			data.Transcript = transcript
		case !isNotFound(err):
			slog.Warn("failed to load transcript", "video_id", id, "error", err)
		}
	}

	videoDetailView.Render(w, r, shell.Page{
		Title:   video.Title,
		Active:  "videos",
		Refresh: data.Stage.InFlight(),
		Data:    data,
	})
}

// Analyze asks the API to start processing and returns to the detail page.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Video", msgVideoNotFound)
		return
	}

	notice := "started"
	if _, err := h.api.StartProcessing(r.Context(), token(r), id); err != nil {
		slog.Error("failed to start processing", "video_id", id, "error", err)
		notice = "failed"
	}
	http.Redirect(w, r, fmt.Sprintf("/videos/%d?notice=%s", id, notice), http.StatusSeeOther)
}

// Reanalyze reruns analysis on a finished or failed video.
func (h *Handler) Reanalyze(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Video", msgVideoNotFound)
		return
	}

	notice := "reanalyzing"
	if _, err := h.api.Reanalyze(r.Context(), token(r), id); err != nil {
		slog.Error("failed to start re-analysis", "video_id", id, "error", err)
		notice = "failed"
	}
	http.Redirect(w, r, fmt.Sprintf("/videos/%d?notice=%s", id, notice), http.StatusSeeOther)
}
