package server

import (
	"html/template"
	"io"

	"github.com/rekindle-dev/rekindle/internal/dev"
	"github.com/rekindle-dev/rekindle/pkg/assets"
)

// ClientScript is the asset name of the hydration client bundle.
const ClientScript = "rekindle.js"

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{range .Styles}}<link rel="stylesheet" href="{{.}}">
{{end}}</head>
<body>
{{.Body}}
<script type="module" src="{{.Script}}"></script>
{{.Reload}}</body>
</html>
`))

// Shell describes one HTML document shell around annotated markup.
type Shell struct {
	Title  string
	Styles []string
	// Markup is trusted annotator output; everything else is escaped.
	Markup     string
	Assets     assets.Resolver
	LiveReload bool
}

type shellData struct {
	Title  string
	Styles []string
	Body   template.HTML
	Script string
	Reload template.HTML
}

// WriteShell wraps annotated markup in the HTML document shell. The
// prerenderer uses the same shell as the live server so static and
// dynamic pages hydrate identically.
func WriteShell(w io.Writer, sh Shell) error {
	resolver := sh.Assets
	if resolver == nil {
		resolver = assets.NewPassthroughResolver("/assets/")
	}
	data := shellData{
		Title:  sh.Title,
		Body:   template.HTML(sh.Markup),
		Script: resolver.Asset(ClientScript),
	}
	for _, style := range sh.Styles {
		data.Styles = append(data.Styles, resolver.Asset(style))
	}
	if sh.LiveReload {
		data.Reload = template.HTML(dev.ClientScript + "\n")
	}
	return shellTemplate.Execute(w, data)
}

func (s *Server) writeShell(w io.Writer, page Page, markup string) error {
	return WriteShell(w, Shell{
		Title:      page.Title,
		Styles:     page.Styles,
		Markup:     markup,
		Assets:     s.cfg.Assets,
		LiveReload: s.cfg.LiveReload != nil,
	})
}
