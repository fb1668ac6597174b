package devbackend

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"movierec-web/internal/dom"
	"movierec-web/internal/render"

	"golang.org/x/net/html"
)

// Rutas de los scripts de los widgets; la página solo los referencia.
const (
	JQueryScript   = "/static/vendor/jquery/jquery.min.js"
	Select2Script  = "/static/vendor/select2/select2.min.js"
	NoUISliderJS   = "/static/vendor/nouislider/nouislider.min.js"
	PageScriptPath = "/static/js/index.js"
)

const layoutTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="csrf-token" content="{{.CSRFToken}}">
  <title>{{.Title}}</title>
</head>
<body>
  <form id="filters" action="/recommend" method="post" class="space-y-4">
    <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
    <textarea name="description" id="description">{{.Description}}</textarea>
    <select id="genre" name="genres" data-ajax-url="/genre_search" multiple></select>
    <select id="studio" name="studios" data-ajax-url="/studio_search" multiple></select>
    <select id="director" name="directors" data-ajax-url="/director_search" multiple></select>
    <select id="producer" name="producers" data-ajax-url="/producer_search" multiple></select>
    <select id="cast_member" name="cast_member" data-ajax-url="/cast_search" multiple></select>
    <div id="year-slider"></div>
    <input type="number" id="year_from" name="year_from" value="{{.YearFrom}}">
    <input type="number" id="year_to" name="year_to" value="{{.YearTo}}">
    <div id="rating-slider"></div>
    <input type="number" step="0.1" id="rating_from" name="rating_from" value="{{.RatingFrom}}">
    <input type="number" step="0.1" id="rating_to" name="rating_to" value="{{.RatingTo}}">
    <button type="submit">Recommend</button>
  </form>
  {{- if .Results}}
  <div id="rec-container">
    {{- range .Cards}}
    {{.}}
    {{- end}}
  </div>
  {{- if .HasMore}}
  <button type="button" id="load-more" data-offset="{{.NextOffset}}" class="mt-4">Load More</button>
  {{- end}}
  {{- end}}
  {{- range .Scripts}}
  <script src="{{.}}"></script>
  {{- end}}
</body>
</html>`

var layout = template.Must(template.New("layout").Parse(layoutTpl))

type pageData struct {
	Title       string
	CSRFToken   string
	Description string
	YearFrom    int
	YearTo      int
	RatingFrom  string
	RatingTo    string
	Results     bool
	Cards       []template.HTML
	HasMore     bool
	NextOffset  int
	Scripts     []string
}

func renderPage(data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// legacyCard reescribe los data-action de una tarjeta a los onclick
// que usaban las plantillas antiguas.
func legacyCard(markup string) (string, error) {
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, n := range nodes {
		dom.Walk(n, func(el *html.Node) bool {
			switch dom.Attr(el, "data-action") {
			case render.ActionToggleFavorite:
				dom.SetAttr(el, "onclick", "toggleFavorite(this)")
			case render.ActionToggleDetails:
				dom.SetAttr(el, "onclick", fmt.Sprintf("toggleDetails('%s', this)", dom.Attr(el, "data-target")))
				dom.RemoveAttr(el, "data-target")
			default:
				return true
			}
			dom.RemoveAttr(el, "data-action")
			return true
		})
		sb.WriteString(dom.Render(n))
	}
	return sb.String(), nil
}
