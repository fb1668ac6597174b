// Package widgets arma la configuración de los widgets de terceros de la
// página de filtros (Select2 y noUiSlider). No los implementa: solo
// produce los parámetros con los que se inicializarían.
package widgets

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"movierec-web/internal/dom"
	"movierec-web/internal/logging"
	"movierec-web/internal/render"

	"golang.org/x/net/html"
)

// Parámetros comunes de los selects remotos
const (
	MinimumInputLength = 2
	AjaxDelayMS        = 250
	QueryParam         = "q"
	TypingPlaceholder  = "Start typing to add/select…"
)

var (
	// placeholder = id con mayúscula inicial
	namedSelects = []string{"genre", "studio", "director"}
	// placeholder genérico
	typingSelects = []string{"producer", "cast_member"}
)

type AjaxConfig struct {
	URL      string `json:"url"`
	DataType string `json:"dataType"`
	Delay    int    `json:"delay"`
	// nombre del parámetro de la consulta (?q=term)
	QueryParam string `json:"-"`
}

type Select2Config struct {
	Multiple           bool       `json:"multiple"`
	Tags               bool       `json:"tags"`
	TokenSeparators    []string   `json:"tokenSeparators"`
	Placeholder        string     `json:"placeholder"`
	AllowClear         bool       `json:"allowClear"`
	MinimumInputLength int        `json:"minimumInputLength"`
	Ajax               AjaxConfig `json:"ajax"`
}

type Select struct {
	ID     string        `json:"id"`
	Config Select2Config `json:"config"`
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type SliderConfig struct {
	Start   [2]float64 `json:"start"`
	Connect bool       `json:"connect"`
	Range   Range      `json:"range"`
	Step    float64    `json:"step"`
	// 0 = Math.round, 1 = toFixed(1)
	Decimals int `json:"decimals"`
}

// Format es el formatter de tooltips y valores del slider.
func (c SliderConfig) Format(v float64) string {
	if c.Decimals == 0 {
		return strconv.FormatFloat(math.Floor(v+0.5), 'f', 0, 64)
	}
	return render.Fixed(v, c.Decimals)
}

type Slider struct {
	ID     string       `json:"id"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Config SliderConfig `json:"config"`
}

// Setup es lo que se inicializaría en la página. Cada widget aparece solo
// si están su elemento y su librería.
type Setup struct {
	Select2Loaded    bool     `json:"select2_loaded"`
	NoUISliderLoaded bool     `json:"nouislider_loaded"`
	Selects          []Select `json:"selects"`
	Sliders          []Slider `json:"sliders"`
}

// Discover recorre el documento y arma la configuración de los widgets.
func Discover(doc *html.Node) Setup {
	s := Setup{
		Select2Loaded:    scriptLoaded(doc, "jquery") && scriptLoaded(doc, "select2"),
		NoUISliderLoaded: scriptLoaded(doc, "nouislider"),
	}

	if s.Select2Loaded {
		for _, id := range namedSelects {
			if el := dom.ByID(doc, id); el != nil {
				s.Selects = append(s.Selects, Select{ID: id, Config: NewSelect2(dom.Data(el, "ajax-url"), capitalize(id))})
			}
		}
		for _, id := range typingSelects {
			if el := dom.ByID(doc, id); el != nil {
				s.Selects = append(s.Selects, Select{ID: id, Config: NewSelect2(dom.Data(el, "ajax-url"), TypingPlaceholder)})
			}
		}
	}

	if s.NoUISliderLoaded {
		if sl, ok := discoverSlider(doc, "year-slider", "year_from", "year_to", 1, 0); ok {
			s.Sliders = append(s.Sliders, sl)
		}
		if sl, ok := discoverSlider(doc, "rating-slider", "rating_from", "rating_to", 0.1, 1); ok {
			s.Sliders = append(s.Sliders, sl)
		}
	}
	return s
}

func NewSelect2(ajaxURL, placeholder string) Select2Config {
	return Select2Config{
		Multiple:           true,
		Tags:               false,
		TokenSeparators:    []string{","},
		Placeholder:        placeholder,
		AllowClear:         true,
		MinimumInputLength: MinimumInputLength,
		Ajax: AjaxConfig{
			URL:        ajaxURL,
			DataType:   "json",
			Delay:      AjaxDelayMS,
			QueryParam: QueryParam,
		},
	}
}

func discoverSlider(doc *html.Node, id, fromID, toID string, step float64, decimals int) (Slider, bool) {
	if dom.ByID(doc, id) == nil {
		return Slider{}, false
	}
	from, to := dom.ByID(doc, fromID), dom.ByID(doc, toID)
	if from == nil || to == nil {
		logging.Warn().Str("slider", id).Msg("[widgets] faltan los inputs from/to")
		return Slider{}, false
	}

	parse := parseFloatPrefix
	if decimals == 0 {
		parse = parseIntPrefix
	}
	lo, ok1 := parse(dom.Attr(from, "value"))
	hi, ok2 := parse(dom.Attr(to, "value"))
	if !ok1 || !ok2 {
		logging.Warn().Str("slider", id).Msg("[widgets] valores from/to no numéricos")
		return Slider{}, false
	}

	return Slider{
		ID:   id,
		From: fromID,
		To:   toID,
		Config: SliderConfig{
			Start:    [2]float64{lo, hi},
			Connect:  true,
			Range:    Range{Min: lo, Max: hi},
			Step:     step,
			Decimals: decimals,
		},
	}, true
}

func scriptLoaded(doc *html.Node, name string) bool {
	return dom.Find(doc, func(n *html.Node) bool {
		return n.Data == "script" && strings.Contains(strings.ToLower(dom.Attr(n, "src")), name)
	}) != nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// parseIntPrefix y parseFloatPrefix leen el prefijo numérico como
// parseInt(v, 10) y parseFloat(v): "1990abc" → 1990, "abc" → inválido.
func parseIntPrefix(v string) (float64, bool) {
	m := intPrefix.FindString(strings.TrimSpace(v))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	return n, err == nil
}

func parseFloatPrefix(v string) (float64, bool) {
	m := floatPrefix.FindString(strings.TrimSpace(v))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	return n, err == nil
}
