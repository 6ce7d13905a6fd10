package pages

import (
	"net/http"
	"sort"

	"github.com/aulavid/aulavid/internal/api"
	"github.com/aulavid/aulavid/internal/shell"
)

var dashboardView = shell.NewView(`{{define "content"}}
<h1>Dashboard</h1>
<div class="grid">
    <div class="card"><div class="counter" id="total-videos">{{.Stats.TotalVideos}}</div><div class="muted">Videos</div></div>
    <div class="card"><div class="counter" id="total-duration">{{if .Stats.TotalDuration}}{{.Stats.TotalDuration}}{{else}}0:00{{end}}</div><div class="muted">Total duration</div></div>
    <div class="card"><div class="counter" id="completed">{{.Completed}}</div><div class="muted">Analyzed</div></div>
</div>
<div class="grid">
    <div class="card">
        <h2>By state</h2>
        {{range .ByStage}}<p><span class="muted">{{.Label}}</span> {{.Count}}</p>{{else}}<p class="muted">No videos yet.</p>{{end}}
    </div>
    <div class="card">
        <h2>By source</h2>
        {{range .BySource}}<p><span class="muted">{{.Label}}</span> {{.Count}}</p>{{else}}<p class="muted">No videos yet.</p>{{end}}
    </div>
</div>
{{end}}`)

type counter struct {
	Label string
	Count int
}

type dashboardData struct {
	Stats     *api.Stats
	Completed int
	ByStage   []counter
	BySource  []counter
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.api.Stats(r.Context(), token(r))
	if err != nil {
		h.remoteFailure(w, r, "Dashboard", err)
		return
	}

	dashboardView.Render(w, r, shell.Page{
		Title:  "Dashboard",
		Active: "dashboard",
		Data: dashboardData{
			Stats:     stats,
			Completed: stats.ByStage[string(api.StageCompleted)],
			ByStage:   counters(stats.ByStage, func(k string) string { return api.Stage(k).Label() }),
			BySource:  counters(stats.BySource, sourceLabel),
		},
	})
}

// counters sorts by count descending, then label, and drops empty buckets.
func counters(m map[string]int, label func(string) string) []counter {
	out := make([]counter, 0, len(m))
	for k, n := range m {
		if n == 0 {
			continue
		}
		out = append(out, counter{Label: label(k), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func sourceLabel(source string) string {
	switch source {
	case api.SourceYouTube:
		return "YouTube"
	case api.SourceVimeo:
		return "Vimeo"
	case api.SourceLocal:
		return "Local file"
	case api.SourceOther:
		return "Other"
	default:
		return source
	}
}
