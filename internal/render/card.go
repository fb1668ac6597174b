// Package render produce la tarjeta de una recomendación como nodos DOM.
//
// El markup sale de html/template (escapado automático) y se parsea con
// x/net/html para poder insertarlo en la página. Los botones no llevan
// onclick: usan data-action y el dispatcher de la página los enruta.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"math/big"
	"strconv"
	"strings"

	"movierec-web/internal/dom"
	"movierec-web/internal/models"

	"golang.org/x/net/html"
)

// Acciones que entiende el dispatcher de la página
const (
	ActionToggleFavorite = "toggle-favorite"
	ActionToggleDetails  = "toggle-details"
)

// Textos de los botones
const (
	LabelAddFavorite    = "Add Favorite"
	LabelRemoveFavorite = "Remove Favorite"
	LabelMoreInfo       = "More Info"
	LabelLessInfo       = "Less Info"
)

const DefaultRatingAction = "/rate_model"

const cardTpl = `<div class="flex bg-gray-100 dark:bg-gray-800 rounded shadow overflow-hidden mb-6" data-card="{{.MovieID}}">
  <img src="{{.PosterURL}}" alt="{{.Title}} poster" class="w-1/3 object-cover">
  <div class="p-6 flex-1 flex flex-col justify-between">
    <div>
      <div class="flex items-baseline justify-between mb-2">
        <h2 class="text-xl font-semibold">{{.Title}}</h2>
        <div class="text-sm text-gray-600 dark:text-gray-400 space-x-4">
          <span>Similarity: {{fixed .Sim 2}}</span>
          <span>Rating: {{fixed .AvgRating 1}}</span>
        </div>
      </div>
      <p class="mb-4">{{.Description}}</p>
      <form action="{{$.RatingAction}}" method="post" class="model-rating-form mb-4 text-sm">
        <input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
        <input type="hidden" name="movie_id" value="{{.MovieID}}">
        <div class="font-medium mb-1">Rate performance of recommendation</div>
        <div class="star-rating">
          {{- range stars}}
          <input type="radio" id="star-{{$.MovieID}}-{{.}}" name="model_rating" value="{{.}}">
          <label for="star-{{$.MovieID}}-{{.}}"></label>
          {{- end}}
        </div>
      </form>
      <button type="button" class="text-blue-500 hover:underline mb-4" data-action="toggle-details" data-target="det-{{.MovieID}}">More Info</button>
      <div id="det-{{.MovieID}}" class="hidden text-sm space-y-1 text-gray-700 dark:text-gray-300 mb-4">
        <p><strong>Year:</strong> {{.Year}}</p>
        <p><strong>Genre:</strong> {{join .Genres}}</p>
        <p><strong>Studios:</strong> {{join .Studios}}</p>
        <p><strong>Director:</strong> {{.Director}}</p>
        <p><strong>Producers:</strong> {{join .Producers}}</p>
        <p><strong>Cast:</strong> {{join .Cast}}</p>
        <p><strong>Duration:</strong> {{.Duration}} min</p>
        <a href="{{.PageURL}}" target="_blank" class="text-blue-500 hover:underline">View on site</a>
      </div>
    </div>
    <button type="button" class="text-red-500 hover:underline" data-action="toggle-favorite" data-mid="{{.MovieID}}" data-faved="{{.Faved.Attr}}">{{favLabel .Faved}}</button>
  </div>
</div>`

var tpl = template.Must(template.New("card").Funcs(template.FuncMap{
	"join":     func(s []string) string { return strings.Join(s, ", ") },
	"fixed":    func(v models.LooseFloat, prec int) string { return Fixed(float64(v), prec) },
	"stars":    Stars,
	"favLabel": FavoriteLabel,
}).Parse(cardTpl))

// Renderer sabe el token CSRF y la acción del formulario de rating.
type Renderer struct {
	csrfToken    string
	ratingAction string
}

func NewRenderer(csrfToken string) *Renderer {
	return &Renderer{csrfToken: csrfToken, ratingAction: DefaultRatingAction}
}

// WithRatingAction cambia el action del formulario (p.e. con prefijo).
func (r *Renderer) WithRatingAction(action string) *Renderer {
	cp := *r
	cp.ratingAction = action
	return &cp
}

type cardData struct {
	models.RecommendationItem
	CSRFToken    string
	RatingAction string
}

// HTML devuelve el markup de la tarjeta.
func (r *Renderer) HTML(item models.RecommendationItem) (string, error) {
	var buf bytes.Buffer
	err := tpl.Execute(&buf, cardData{
		RecommendationItem: item,
		CSRFToken:          r.csrfToken,
		RatingAction:       r.ratingAction,
	})
	if err != nil {
		return "", fmt.Errorf("render movie %d: %w", item.MovieID, err)
	}
	return buf.String(), nil
}

// Card devuelve la tarjeta como nodos listos para dom.Append.
func (r *Renderer) Card(item models.RecommendationItem) ([]*html.Node, error) {
	markup, err := r.HTML(item)
	if err != nil {
		return nil, err
	}
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return nil, fmt.Errorf("render movie %d: %w", item.MovieID, err)
	}
	return nodes, nil
}

// Fixed redondea como Number.prototype.toFixed: sobre el valor binario
// exacto y con los empates hacia arriba (strconv usa half-even).
func Fixed(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || prec < 0 {
		return strconv.FormatFloat(v, 'f', prec, 64)
	}
	neg := v < 0
	exact := new(big.Float).SetFloat64(math.Abs(v)).Text('f', 1100)
	dot := strings.IndexByte(exact, '.')
	intPart, frac := exact[:dot], exact[dot+1:]

	digits := []byte(intPart + frac[:prec])
	if frac[prec] >= '5' {
		i := len(digits) - 1
		for ; i >= 0; i-- {
			if digits[i] == '9' {
				digits[i] = '0'
				continue
			}
			digits[i]++
			break
		}
		if i < 0 {
			digits = append([]byte{'1'}, digits...)
		}
	}

	n := len(digits) - prec
	out := string(digits[:n])
	if prec > 0 {
		out += "." + string(digits[n:])
	}
	if neg {
		out = "-" + out
	}
	return out
}

// Stars son los valores del formulario, de 10 a 1.
func Stars() []int {
	out := make([]int, 0, models.MaxModelRating)
	for v := models.MaxModelRating; v >= models.MinModelRating; v-- {
		out = append(out, v)
	}
	return out
}

func FavoriteLabel(faved models.Flag) string {
	if faved {
		return LabelRemoveFavorite
	}
	return LabelAddFavorite
}
