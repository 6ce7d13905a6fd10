package pages

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aulavid/aulavid/internal/api"
	"github.com/aulavid/aulavid/internal/shell"
	"github.com/aulavid/aulavid/internal/validate"
)

// Multipart parts above this size spill to temporary files.
const uploadMemory = 32 << 20

var uploadView = shell.NewView(`{{define "content"}}
<h1>Upload a video</h1>
{{if .Error}}<div class="error" role="alert">{{.Error}}</div>{{end}}
<div class="card">
    <form method="post" action="/upload" enctype="multipart/form-data">
        <label for="title">Title</label>
        <input id="title" name="title" type="text" value="{{.Title}}" maxlength="{{.Limits.title}}" required>
        <label for="source">Source</label>
        <select id="source" name="source">
            {{range .Sources}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
        </select>
        <label for="url">Video URL</label>
        <input id="url" name="url" type="url" value="{{.URL}}" maxlength="{{.Limits.url}}" placeholder="https://">
        <label for="file">Or a file{{with .MaxSize}} (up to {{.}}){{end}}</label>
        <input id="file" name="file" type="file" accept="video/*">
        <button type="submit" class="primary">Upload</button>
    </form>
</div>
{{end}}`)

type sourceOption struct {
	Value    string
	Label    string
	Selected bool
}

type uploadData struct {
	Title   string
	URL     string
	Error   string
	Sources []sourceOption
	MaxSize string
	Limits  map[string]int
}

func (h *Handler) renderUpload(w http.ResponseWriter, r *http.Request, status int, data uploadData, source string) {
	if source == "" {
		source = api.SourceYouTube
	}
	for _, s := range api.Sources {
		data.Sources = append(data.Sources, sourceOption{Value: s, Label: sourceLabel(s), Selected: s == source})
	}
	data.MaxSize = validate.SizeLimit(h.maxUploadBytes)
	data.Limits = validate.FieldLimits()
	uploadView.Render(w, r, shell.Page{Title: "Upload", Active: "upload", Status: status, Data: data})
}

func (h *Handler) UploadPage(w http.ResponseWriter, r *http.Request) {
	h.renderUpload(w, r, http.StatusOK, uploadData{}, "")
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+uploadMemory)
	}
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderUpload(w, r, http.StatusRequestEntityTooLarge, uploadData{
				Error: fmt.Sprintf("file must be %s or smaller", validate.SizeLimit(h.maxUploadBytes)),
			}, "")
			return
		}
		h.renderUpload(w, r, http.StatusBadRequest, uploadData{Error: "invalid form"}, "")
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	title := strings.TrimSpace(r.FormValue("title"))
	source := r.FormValue("source")
	videoURL := strings.TrimSpace(r.FormValue("url"))
	form := uploadData{Title: title, URL: videoURL}

	file, header, err := r.FormFile("file")
	hasFile := err == nil
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		form.Error = "invalid file"
		h.renderUpload(w, r, http.StatusBadRequest, form, source)
		return
	}
	if hasFile {
		defer file.Close()
	}

	var size int64
	if hasFile {
		size = header.Size
	}
	for _, msg := range []string{
		validate.Title(title),
		validate.Source(source, api.Sources),
		validate.VideoURL(videoURL),
		validate.UploadOrigin(videoURL, hasFile, size, h.maxUploadBytes),
	} {
		if msg != "" {
			form.Error = msg
			h.renderUpload(w, r, http.StatusUnprocessableEntity, form, source)
			return
		}
	}

	in := api.UploadInput{Title: title, Source: source, URL: videoURL}
	if hasFile {
		in.File = file
		in.FileName = fileName(header)
	}

	video, err := h.api.CreateVideo(r.Context(), token(r), in)
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusBadRequest && se.Message != "" {
			form.Error = se.Message
			h.renderUpload(w, r, http.StatusUnprocessableEntity, form, source)
			return
		}
		slog.Error("failed to create video", "error", err)
		form.Error = msgGeneric
		h.renderUpload(w, r, http.StatusBadGateway, form, source)
		return
	}

	slog.Info("video uploaded", "video_id", video.ID, "source", source, "has_file", hasFile)
	http.Redirect(w, r, fmt.Sprintf("/videos/%d", video.ID), http.StatusSeeOther)
}

func fileName(header *multipart.FileHeader) string {
	if header.Filename == "" {
		return "video"
	}
	return header.Filename
}
