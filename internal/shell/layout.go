package shell

import (
	"html/template"
	"net/http"

	"github.com/aulavid/aulavid/internal/auth"
	"github.com/aulavid/aulavid/internal/httputil"
)

var layoutTemplate = template.Must(template.New("layout").Parse(`{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    {{if .Refresh}}<meta http-equiv="refresh" content="5">{{end}}
    <title>{{.Title}} · AulaVid</title>
    <link rel="icon" href="/static/favicon.svg" type="image/svg+xml">
    <style nonce="{{.Nonce}}">
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            background: #f4f6fb;
            color: #1e293b;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            min-height: 100vh;
        }
        header {
            display: flex;
            align-items: center;
            justify-content: space-between;
            padding: 0.75rem 1.5rem;
            background: #1e3a8a;
            color: #ffffff;
        }
        header .brand { font-weight: 700; font-size: 1.125rem; }
        header .status { font-size: 0.75rem; color: #c7d2fe; margin-right: 1rem; }
        header form { display: inline; }
        header button {
            background: transparent;
            border: 1px solid #c7d2fe;
            color: #ffffff;
            padding: 0.25rem 0.75rem;
            border-radius: 4px;
            cursor: pointer;
        }
        .frame { display: flex; min-height: calc(100vh - 3rem); }
        nav.sidebar { width: 200px; background: #ffffff; border-right: 1px solid #e2e8f0; padding: 1rem 0; }
        nav.sidebar a { display: block; padding: 0.5rem 1.5rem; color: #334155; text-decoration: none; }
        nav.sidebar a.active { background: #e0e7ff; color: #1e3a8a; font-weight: 600; }
        main { flex: 1; padding: 2rem; max-width: 1100px; }
        h1 { font-size: 1.5rem; margin-bottom: 1rem; }
        .card { background: #ffffff; border-radius: 8px; padding: 1.25rem; margin-bottom: 1rem; box-shadow: 0 1px 2px rgba(0,0,0,0.06); }
        .card.narrow { max-width: 420px; }
        .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 1rem; }
        .counter { font-size: 2rem; font-weight: 700; color: #1e3a8a; }
        .muted { color: #64748b; font-size: 0.875rem; }
        .error { background: #fee2e2; color: #991b1b; padding: 0.75rem 1rem; border-radius: 6px; margin-bottom: 1rem; }
        .notice { background: #dcfce7; color: #166534; padding: 0.75rem 1rem; border-radius: 6px; margin-bottom: 1rem; }
        progress.analysis { width: 100%; height: 0.75rem; accent-color: #2563eb; }
        progress.analysis.failed { accent-color: #dc2626; }
        label { display: block; margin: 0.75rem 0 0.25rem; font-weight: 600; }
        input, select { width: 100%; padding: 0.5rem; border: 1px solid #cbd5e1; border-radius: 4px; }
        button.primary { margin-top: 1rem; background: #1e3a8a; color: #ffffff; border: 0; padding: 0.5rem 1.25rem; border-radius: 4px; cursor: pointer; }
        img.thumb { width: 100%; border-radius: 6px; background: #cbd5e1; aspect-ratio: 16 / 9; object-fit: cover; }
        a.video { color: inherit; text-decoration: none; }
    </style>
</head>
<body>
    <header>
        <span class="brand">AulaVid</span>
        <span>
            <span class="status" data-session="{{.Nav.Status}}">{{.Nav.Status}}{{if .Nav.User}} · {{.Nav.User}}{{end}}</span>
            {{if .Nav.ShowLogout}}<form method="post" action="/logout"><button type="submit" id="logout">Log out</button></form>{{end}}
        </span>
    </header>
    <div class="frame">
        {{if .Nav.Authenticated}}
        <nav class="sidebar">
            <a href="/" {{if eq .Nav.Active "dashboard"}}class="active"{{end}}>Dashboard</a>
            <a href="/videos" {{if eq .Nav.Active "videos"}}class="active"{{end}}>Videos</a>
            <a href="/upload" {{if eq .Nav.Active "upload"}}class="active"{{end}}>Upload</a>
        </nav>
        {{end}}
        <main>{{template "content" .Data}}</main>
    </div>
</body>
</html>{{end}}`))

// Page describes one render of a view inside the layout. Refresh reloads
// the page every few seconds.
type Page struct {
	Title   string
	Active  string
	Status  int
	Refresh bool
	Data    any
}

type layoutData struct {
	Title   string
	Refresh bool
	Nonce   string
	Nav     *Nav
	Data    any
}

// View is a content template bound to the shared layout.
type View struct {
	tmpl *template.Template
}

// NewView parses content, which must define a "content" template, on top of
// a copy of the layout.
func NewView(content string) *View {
	tmpl := template.Must(template.Must(layoutTemplate.Clone()).Parse(content))
	return &View{tmpl: tmpl}
}

// Render writes the page. It must run below auth.Provider.
func (v *View) Render(w http.ResponseWriter, r *http.Request, p Page) {
	nav := NewNav(auth.FromContext(r.Context()), p.Active)
	defer nav.Close()

	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	httputil.WriteHTML(w, status, v.tmpl, "layout", layoutData{
		Title:   p.Title,
		Refresh: p.Refresh,
		Nonce:   httputil.NonceFromContext(r.Context()),
		Nav:     nav,
		Data:    p.Data,
	})
}
