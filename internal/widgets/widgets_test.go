package widgets

import (
	"strings"
	"testing"

	"movierec-web/internal/dom"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const filtersPage = `<html><head>
<script src="/static/vendor/jquery/jquery.min.js"></script>
<script src="/static/vendor/select2/select2.min.js"></script>
<script src="/static/vendor/noUiSlider/nouislider.min.js"></script>
</head><body>
<select id="genre" data-ajax-url="/genre_search"></select>
<select id="studio" data-ajax-url="/studio_search"></select>
<select id="director" data-ajax-url="/director_search"></select>
<select id="producer" data-ajax-url="/producer_search"></select>
<select id="cast_member" data-ajax-url="/cast_search"></select>
<div id="year-slider"></div>
<input id="year_from" value="1972"><input id="year_to" value="2021.7">
<div id="rating-slider"></div>
<input id="rating_from" value="1.5"><input id="rating_to" value="9.25">
</body></html>`

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestDiscover_Selects(t *testing.T) {
	s := Discover(parse(t, filtersPage))
	require.True(t, s.Select2Loaded)
	require.Len(t, s.Selects, 5)

	want := map[string][2]string{
		"genre":       {"Genre", "/genre_search"},
		"studio":      {"Studio", "/studio_search"},
		"director":    {"Director", "/director_search"},
		"producer":    {TypingPlaceholder, "/producer_search"},
		"cast_member": {TypingPlaceholder, "/cast_search"},
	}
	for _, sel := range s.Selects {
		w, ok := want[sel.ID]
		require.True(t, ok, sel.ID)
		require.Equal(t, w[0], sel.Config.Placeholder, sel.ID)
		require.Equal(t, w[1], sel.Config.Ajax.URL, sel.ID)

		require.True(t, sel.Config.Multiple)
		require.False(t, sel.Config.Tags)
		require.True(t, sel.Config.AllowClear)
		require.Equal(t, []string{","}, sel.Config.TokenSeparators)
		require.Equal(t, 2, sel.Config.MinimumInputLength)
		require.Equal(t, 250, sel.Config.Ajax.Delay)
		require.Equal(t, "json", sel.Config.Ajax.DataType)
		require.Equal(t, "q", sel.Config.Ajax.QueryParam)
	}
}

func TestDiscover_Sliders(t *testing.T) {
	s := Discover(parse(t, filtersPage))
	require.True(t, s.NoUISliderLoaded)
	require.Len(t, s.Sliders, 2)

	year := s.Sliders[0]
	require.Equal(t, "year-slider", year.ID)
	require.Equal(t, [2]float64{1972, 2021}, year.Config.Start)
	require.Equal(t, Range{Min: 1972, Max: 2021}, year.Config.Range)
	require.Equal(t, 1.0, year.Config.Step)
	require.True(t, year.Config.Connect)
	require.Equal(t, "1990", year.Config.Format(1989.5))
	require.Equal(t, "1989", year.Config.Format(1989.49))

	rating := s.Sliders[1]
	require.Equal(t, "rating-slider", rating.ID)
	require.Equal(t, [2]float64{1.5, 9.25}, rating.Config.Start)
	require.Equal(t, 0.1, rating.Config.Step)
	require.Equal(t, "9.3", rating.Config.Format(9.25))
	require.Equal(t, "7.0", rating.Config.Format(7))
}

func TestDiscover_NoLibrariesNoWidgets(t *testing.T) {
	markup := strings.NewReplacer(
		`<script src="/static/vendor/jquery/jquery.min.js"></script>`, "",
		`<script src="/static/vendor/noUiSlider/nouislider.min.js"></script>`, "",
	).Replace(filtersPage)

	s := Discover(parse(t, markup))
	require.False(t, s.Select2Loaded)
	require.False(t, s.NoUISliderLoaded)
	require.Empty(t, s.Selects)
	require.Empty(t, s.Sliders)
}

func TestDiscover_MissingElements(t *testing.T) {
	markup := `<html><head>
<script src="jquery.js"></script><script src="select2.js"></script><script src="nouislider.js"></script>
</head><body>
<select id="genre" data-ajax-url="/genre_search"></select>
<div id="year-slider"></div><input id="year_from" value="abc"><input id="year_to" value="2000">
<div id="rating-slider"></div><input id="rating_from" value="2">
</body></html>`

	s := Discover(parse(t, markup))
	require.Len(t, s.Selects, 1)
	require.Equal(t, "genre", s.Selects[0].ID)
	require.Empty(t, s.Sliders)
}

func TestParsePrefixes(t *testing.T) {
	cases := []struct {
		in      string
		intV    float64
		intOK   bool
		floatV  float64
		floatOK bool
	}{
		{"1990", 1990, true, 1990, true},
		{" 7.5abc", 7, true, 7.5, true},
		{"-3", -3, true, -3, true},
		{".5", 0, false, 0.5, true},
		{"1e3", 1, true, 1000, true},
		{"", 0, false, 0, false},
		{"x1", 0, false, 0, false},
	}
	for _, tc := range cases {
		v, ok := parseIntPrefix(tc.in)
		require.Equal(t, tc.intOK, ok, tc.in)
		require.Equal(t, tc.intV, v, tc.in)

		v, ok = parseFloatPrefix(tc.in)
		require.Equal(t, tc.floatOK, ok, tc.in)
		require.Equal(t, tc.floatV, v, tc.in)
	}
}
