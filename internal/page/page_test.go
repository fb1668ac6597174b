package page

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"movierec-web/internal/client"
	"movierec-web/internal/config"
	"movierec-web/internal/devbackend"
	"movierec-web/internal/dom"
	"movierec-web/internal/models"
	"movierec-web/internal/render"
	"movierec-web/internal/service"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// shell es una página de resultados todavía vacía con el control en 0.
const shell = `<!DOCTYPE html><html><head>
<meta name="csrf-token" content="dev-csrf-token">
</head><body>
<div id="rec-container"></div>
<button type="button" id="load-more" data-offset="0">Load More</button>
</body></html>`

type env struct {
	srv    *devbackend.Server
	ts     *httptest.Server
	client *client.Client
}

func newEnv(t *testing.T, opts ...devbackend.Option) *env {
	t.Helper()
	srv := devbackend.New(devbackend.NewStore(devbackend.SampleMovies()), opts...)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	c, err := client.New(&config.Config{BaseURL: ts.URL, SessionCookieName: "session", HTTPTimeout: 5 * time.Second})
	require.NoError(t, err)
	return &env{srv: srv, ts: ts, client: c}
}

// shellPage monta shell como si se hubiera cargado desde ref.
func (e *env) shellPage(t *testing.T, markup, ref string, opts ...Option) *Page {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	u, err := url.Parse(e.ts.URL + ref)
	require.NoError(t, err)
	token := CSRFToken(doc)
	return New(doc, u, token, e.client.WithCSRFToken(token), opts...)
}

func (e *env) open(t *testing.T, ref string) *Page {
	t.Helper()
	p, err := Open(context.Background(), e.client, ref)
	require.NoError(t, err)
	return p
}

func TestLoadMore_FromZeroToExhausted(t *testing.T) {
	e := newEnv(t)
	p := e.shellPage(t, shell, "/recommend?description=space&offset=99&limit=50")
	ctx := context.Background()

	n, err := p.LoadMore(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []int{11, 42, 7, 3, 19}, p.CardIDs())
	off, ok := p.Offset()
	require.True(t, ok)
	require.Equal(t, 5, off)

	n, err = p.LoadMore(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []int{11, 42, 7, 3, 19, 23, 31, 5}, p.CardIDs())
	require.True(t, p.Exhausted())

	_, err = p.LoadMore(ctx)
	require.ErrorIs(t, err, ErrExhausted)

	reqs := e.srv.RequestsTo("/recommend")
	require.Len(t, reqs, 2)
	for i, want := range []string{"0", "5"} {
		require.Equal(t, want, reqs[i].Query.Get("offset"))
		require.Equal(t, "5", reqs[i].Query.Get("limit"))
		require.Equal(t, "space", reqs[i].Query.Get("description"))
		require.Equal(t, "XMLHttpRequest", reqs[i].Header.Get("X-Requested-With"))
	}
}

func TestLoadMore_FailureKeepsOffset(t *testing.T) {
	e := newEnv(t)
	p := e.shellPage(t, shell, "/recommend")
	ctx := context.Background()

	e.srv.FailNext("/recommend", http.StatusInternalServerError)
	_, err := p.LoadMore(ctx)
	require.ErrorIs(t, err, client.ErrUnexpectedStatus)

	off, ok := p.Offset()
	require.True(t, ok)
	require.Zero(t, off)
	require.Empty(t, p.CardIDs())
	require.False(t, strings.Contains(p.HTML(), "disabled"))

	n, err := p.LoadMore(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	reqs := e.srv.RequestsTo("/recommend")
	require.Len(t, reqs, 2)
	require.Equal(t, reqs[0].Query.Get("offset"), reqs[1].Query.Get("offset"))
	require.Equal(t, reqs[0].Query.Get("limit"), reqs[1].Query.Get("limit"))
}

func TestLoadMore_ServerRenderedPage(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/recommend")

	require.Equal(t, devbackend.DefaultCSRFToken, p.CSRFToken())
	require.Len(t, p.CardIDs(), 5)

	n, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, p.CardIDs(), 8)
	require.True(t, p.Exhausted())

	// las tarjetas nuevas funcionan igual que las del servidor
	require.NoError(t, p.ToggleFavorite(context.Background(), 23))
	require.True(t, e.srv.Store().IsFavorite(23))
}

func TestLoadMore_ClickOnControl(t *testing.T) {
	e := newEnv(t)
	p := e.shellPage(t, shell, "/recommend")

	btn := dom.ByID(p.doc, LoadMoreID)
	require.NoError(t, p.Click(context.Background(), btn.FirstChild))
	require.Len(t, p.CardIDs(), 5)
}

func TestLoadMore_MissingContainer(t *testing.T) {
	e := newEnv(t)
	p := e.shellPage(t, strings.Replace(shell, `<div id="rec-container"></div>`, "", 1), "/recommend")

	_, err := p.LoadMore(context.Background())
	require.ErrorIs(t, err, dom.ErrElementNotFound)
	require.Empty(t, e.srv.RequestsTo("/recommend"))
}

func TestLoadMore_BadOffset(t *testing.T) {
	e := newEnv(t)
	p := e.shellPage(t, strings.Replace(shell, `data-offset="0"`, `data-offset="x"`, 1), "/recommend")

	_, err := p.LoadMore(context.Background())
	require.ErrorIs(t, err, ErrBadOffset)
	require.Empty(t, e.srv.RequestsTo("/recommend"))
}

// scriptedBackend devuelve páginas fijas y puede bloquear en Recommendations.
type scriptedBackend struct {
	mu      sync.Mutex
	pages   []*models.RecommendationPage
	errs    []error
	calls   []url.Values
	started chan struct{}
	release chan struct{}
}

func (b *scriptedBackend) ToggleFavorite(context.Context, int) error { return nil }

func (b *scriptedBackend) SubmitRating(context.Context, models.RatingForm) error { return nil }

func (b *scriptedBackend) Search(context.Context, string, string) ([]models.SearchOption, error) {
	return nil, nil
}

func (b *scriptedBackend) Recommendations(ctx context.Context, params url.Values) (*models.RecommendationPage, error) {
	b.mu.Lock()
	i := len(b.calls)
	b.calls = append(b.calls, params)
	b.mu.Unlock()

	if b.started != nil {
		b.started <- struct{}{}
		<-b.release
	}
	if i < len(b.errs) && b.errs[i] != nil {
		return nil, b.errs[i]
	}
	return b.pages[i], nil
}

func items(ids ...int) []models.RecommendationItem {
	out := make([]models.RecommendationItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.RecommendationItem{MovieID: id, Title: "m"})
	}
	return out
}

func scriptedPage(t *testing.T, b *scriptedBackend) *Page {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(shell))
	require.NoError(t, err)
	u, _ := url.Parse("http://movierec.test/recommend?genre=Drama")
	return New(doc, u, CSRFToken(doc), b)
}

func TestLoadMore_OffsetComesFromServer(t *testing.T) {
	b := &scriptedBackend{pages: []*models.RecommendationPage{
		{Movies: items(1, 2), NextOffset: 17, HasMore: true},
		{Movies: items(3), NextOffset: 40, HasMore: true},
	}}
	p := scriptedPage(t, b)

	_, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	off, _ := p.Offset()
	require.Equal(t, 17, off)

	_, err = p.LoadMore(context.Background())
	require.NoError(t, err)
	off, _ = p.Offset()
	require.Equal(t, 40, off)

	require.Equal(t, "17", b.calls[1].Get("offset"))
	require.Equal(t, "Drama", b.calls[1].Get("genre"))
	require.Equal(t, []int{1, 2, 3}, p.CardIDs())
}

func TestLoadMore_DecodeErrorKeepsOffset(t *testing.T) {
	b := &scriptedBackend{
		errs:  []error{client.ErrInvalidPage, nil},
		pages: []*models.RecommendationPage{nil, {Movies: items(9), NextOffset: 5}},
	}
	p := scriptedPage(t, b)

	_, err := p.LoadMore(context.Background())
	require.ErrorIs(t, err, client.ErrInvalidPage)
	require.False(t, p.Exhausted())
	require.Empty(t, p.CardIDs())

	n, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.True(t, p.Exhausted())
	require.Equal(t, "0", b.calls[1].Get("offset"))
}

func TestLoadMore_OverlappingActivationIsRejected(t *testing.T) {
	b := &scriptedBackend{
		pages:   []*models.RecommendationPage{{Movies: items(1, 2, 3, 4, 5), NextOffset: 5, HasMore: true}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := scriptedPage(t, b)

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := p.LoadMore(context.Background())
		done <- result{n, err}
	}()

	<-b.started
	require.Contains(t, p.HTML(), "disabled")
	_, err := p.LoadMore(context.Background())
	require.ErrorIs(t, err, ErrControlBusy)

	close(b.release)
	r := <-done
	require.NoError(t, r.err)
	require.Equal(t, 5, r.n)
	require.Len(t, b.calls, 1)
	require.NotContains(t, p.HTML(), "disabled")
}

func TestFavorite_Movie42RoundTrip(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/recommend")
	ctx := context.Background()

	label, faved, err := p.FavoriteState(42)
	require.NoError(t, err)
	require.Equal(t, render.LabelAddFavorite, label)
	require.False(t, bool(faved))

	require.NoError(t, p.ToggleFavorite(ctx, 42))
	label, faved, err = p.FavoriteState(42)
	require.NoError(t, err)
	require.Equal(t, render.LabelRemoveFavorite, label)
	require.True(t, bool(faved))
	require.True(t, e.srv.Store().IsFavorite(42))

	require.NoError(t, p.ToggleFavorite(ctx, 42))
	label, faved, err = p.FavoriteState(42)
	require.NoError(t, err)
	require.Equal(t, render.LabelAddFavorite, label)
	require.False(t, bool(faved))

	reqs := e.srv.RequestsTo("/favorite/42")
	require.Len(t, reqs, 2)
	require.Equal(t, devbackend.DefaultCSRFToken, reqs[0].Header.Get("X-CSRFToken"))
	require.Equal(t, "XMLHttpRequest", reqs[0].Header.Get("X-Requested-With"))
}

func TestFavorite_FailureLeavesButton(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/recommend")

	e.srv.FailNext("/favorite/3", http.StatusInternalServerError)
	err := p.ToggleFavorite(context.Background(), 3)
	var se *client.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusInternalServerError, se.StatusCode)

	label, faved, err := p.FavoriteState(3)
	require.NoError(t, err)
	require.Equal(t, render.LabelRemoveFavorite, label)
	require.True(t, bool(faved))
}

func TestFavorite_NoCSRFToken(t *testing.T) {
	e := newEnv(t)
	markup := strings.Replace(shell, `<meta name="csrf-token" content="dev-csrf-token">`, "", 1)
	p := e.shellPage(t, markup, "/recommend")
	require.Empty(t, p.CSRFToken())

	_, err := p.LoadMore(context.Background())
	require.NoError(t, err)

	err = p.ToggleFavorite(context.Background(), 42)
	require.ErrorIs(t, err, client.ErrNoCSRFToken)
	err = p.Rate(context.Background(), 42, 5)
	require.ErrorIs(t, err, client.ErrNoCSRFToken)

	require.Empty(t, e.srv.RequestsTo("/favorite/42"))
	require.Empty(t, e.srv.RequestsTo("/rate_model"))
}

func TestDetails_Toggle(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/recommend")
	ctx := context.Background()

	hidden, label, err := p.DetailsState(7)
	require.NoError(t, err)
	require.True(t, hidden)
	require.Equal(t, render.LabelMoreInfo, label)

	require.NoError(t, p.ToggleDetails(ctx, 7))
	hidden, label, err = p.DetailsState(7)
	require.NoError(t, err)
	require.False(t, hidden)
	require.Equal(t, render.LabelLessInfo, label)

	require.NoError(t, p.ToggleDetails(ctx, 7))
	hidden, label, _ = p.DetailsState(7)
	require.True(t, hidden)
	require.Equal(t, render.LabelMoreInfo, label)

	// los detalles no van a la red
	require.Len(t, e.srv.Requests(), 1)
}

func TestDetails_MissingPanelNoOp(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/recommend")

	panel := dom.ByID(p.doc, "det-11")
	dom.Remove(panel)

	err := p.ToggleDetails(context.Background(), 11)
	require.ErrorIs(t, err, dom.ErrElementNotFound)
}

func TestLegacyMarkup(t *testing.T) {
	e := newEnv(t, devbackend.WithLegacyMarkup())
	p := e.open(t, "/recommend")
	ctx := context.Background()
	require.NotContains(t, p.HTML(), "data-action")

	require.NoError(t, p.ToggleFavorite(ctx, 42))
	label, _, err := p.FavoriteState(42)
	require.NoError(t, err)
	require.Equal(t, render.LabelRemoveFavorite, label)

	require.NoError(t, p.ToggleDetails(ctx, 42))
	hidden, label, err := p.DetailsState(42)
	require.NoError(t, err)
	require.False(t, hidden)
	require.Equal(t, render.LabelLessInfo, label)

	require.Equal(t, []int{11, 42, 7, 3, 19}, p.CardIDs())
}

func TestRate_SubmitsForm(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/recommend")

	require.NoError(t, p.Rate(context.Background(), 42, 8))

	v, ok := e.srv.Store().Rating(42)
	require.True(t, ok)
	require.Equal(t, 8, v)

	reqs := e.srv.RequestsTo("/rate_model")
	require.Len(t, reqs, 1)
	require.Equal(t, url.Values{
		"csrf_token":   {devbackend.DefaultCSRFToken},
		"movie_id":     {"42"},
		"model_rating": {"8"},
	}, reqs[0].Form)
	require.Equal(t, devbackend.DefaultCSRFToken, reqs[0].Header.Get("X-CSRFToken"))

	require.NoError(t, p.Rate(context.Background(), 42, 3))
	v, _ = e.srv.Store().Rating(42)
	require.Equal(t, 3, v)

	checked := dom.FindAll(p.doc, func(n *html.Node) bool {
		return dom.Attr(n, "name") == RatingInput && dom.HasAttr(n, "checked")
	})
	require.Len(t, checked, 1)
	require.Equal(t, "star-42-3", dom.Attr(checked[0], "id"))
}

func TestRate_FormActionResolvedAgainstPage(t *testing.T) {
	e := newEnv(t)
	markup := strings.Replace(shell, `<div id="rec-container"></div>`, `<div id="rec-container">
<form action="rate_model" class="model-rating-form">
<input type="hidden" name="csrf_token" value="dev-csrf-token">
<input type="hidden" name="movie_id" value="5">
<input type="radio" id="star-5-2" name="model_rating" value="2">
<input type="submit" name="go" value="Send">
</form></div>`, 1)
	p := e.shellPage(t, markup, "/recommend?offset=0")

	require.NoError(t, p.Rate(context.Background(), 5, 2))
	reqs := e.srv.RequestsTo("/rate_model")
	require.Len(t, reqs, 1)
	require.Empty(t, reqs[0].Form.Get("go"))
}

func TestRate_Failure(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/recommend")

	e.srv.FailNext("/rate_model", http.StatusBadGateway)
	err := p.Rate(context.Background(), 42, 8)
	require.ErrorIs(t, err, client.ErrUnexpectedStatus)
	_, ok := e.srv.Store().Rating(42)
	require.False(t, ok)
}

func TestChange_IgnoresOtherInputs(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/recommend")

	other := dom.Find(p.doc, func(n *html.Node) bool { return dom.Attr(n, "name") == "movie_id" })
	require.NotNil(t, other)
	require.NoError(t, p.Change(context.Background(), other))
	require.Empty(t, e.srv.RequestsTo("/rate_model"))
}

func TestClick_Dispatch(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/recommend")
	ctx := context.Background()

	// click sobre el texto del botón
	btn := dom.Find(p.doc, func(n *html.Node) bool { return dom.Data(n, "target") == "det-19" })
	require.NotNil(t, btn)
	require.NoError(t, p.Click(ctx, btn.FirstChild))
	hidden, _, _ := p.DetailsState(19)
	require.False(t, hidden)

	// click sin acción
	title := dom.Find(p.doc, func(n *html.Node) bool { return n.Data == "h2" })
	require.NoError(t, p.Click(ctx, title))
	require.Len(t, e.srv.Requests(), 1)
}

func TestWidgets_OnIndex(t *testing.T) {
	e := newEnv(t)
	p := e.open(t, "/")

	w := p.Widgets()
	require.Len(t, w.Selects, 5)
	require.Len(t, w.Sliders, 2)
}

func (e *env) searchPage(t *testing.T) *Page {
	t.Helper()
	svc := service.NewSearchService(e.client, nil, 0).WithDelay(20 * time.Millisecond)
	p, err := Open(context.Background(), e.client, "/", WithSearch(svc))
	require.NoError(t, err)
	t.Cleanup(p.StopSearch)
	return p
}

func TestSearch_UsesSelectAjaxURL(t *testing.T) {
	e := newEnv(t)
	p := e.searchPage(t)

	opts, err := p.Search(context.Background(), "director", "scott")
	require.NoError(t, err)
	require.Equal(t, []models.SearchOption{{ID: 7, Text: "Ridley Scott"}}, opts)

	reqs := e.srv.RequestsTo("/director_search")
	require.Len(t, reqs, 1)
	require.Equal(t, "scott", reqs[0].Query.Get("q"))

	// un solo carácter no consulta
	opts, err = p.Search(context.Background(), "genre", "d")
	require.NoError(t, err)
	require.Empty(t, opts)
	require.Empty(t, e.srv.RequestsTo("/genre_search"))
}

func TestSearch_TypeDebouncesKeystrokes(t *testing.T) {
	e := newEnv(t)
	p := e.searchPage(t)

	got := make(chan []models.SearchOption, 4)
	done := func(opts []models.SearchOption, err error) {
		if err != nil {
			t.Error(err)
		}
		got <- opts
	}
	for _, term := range []string{"s", "so", "son"} {
		require.NoError(t, p.Type(context.Background(), "cast_member", term, done))
	}

	select {
	case opts := <-got:
		require.Len(t, opts, 3)
	case <-time.After(time.Second):
		t.Fatal("la búsqueda no se disparó")
	}
	time.Sleep(60 * time.Millisecond)
	require.Empty(t, got)

	reqs := e.srv.RequestsTo("/cast_search")
	require.Len(t, reqs, 1)
	require.Equal(t, "son", reqs[0].Query.Get("q"))
}

func TestSearch_Unavailable(t *testing.T) {
	e := newEnv(t)

	_, err := e.open(t, "/").Search(context.Background(), "genre", "drama")
	require.ErrorIs(t, err, ErrNoSearch)

	p := e.searchPage(t)
	_, err = p.Search(context.Background(), "keywords", "drama")
	require.ErrorIs(t, err, dom.ErrElementNotFound)

	// sin Select2 en la página no hay selects remotos
	r := e.shellPage(t, shell, "/recommend", WithSearch(service.NewSearchService(e.client, nil, 0)))
	require.ErrorIs(t, r.Type(context.Background(), "genre", "drama", func([]models.SearchOption, error) {}), dom.ErrElementNotFound)
	require.Empty(t, e.srv.RequestsTo("/genre_search"))
}

func TestLoadMore_NewCardsKeepServerRatingAction(t *testing.T) {
	e := newEnv(t)
	markup := strings.Replace(shell, `<div id="rec-container"></div>`,
		`<div id="rec-container"><form action="/v2/rate_model" class="model-rating-form"></form></div>`, 1)
	p := e.shellPage(t, markup, "/recommend")

	_, err := p.LoadMore(context.Background())
	require.NoError(t, err)

	forms := dom.FindAll(p.doc, isRatingForm)
	require.Len(t, forms, 6)
	for _, f := range forms {
		require.Equal(t, "/v2/rate_model", dom.Attr(f, "action"))
	}
}

func TestClick_DetachedNodeIgnored(t *testing.T) {
	e := newEnv(t)
	p := e.shellPage(t, shell, "/recommend")

	btn := dom.ByID(p.doc, LoadMoreID)
	dom.Remove(btn)
	require.NoError(t, p.Click(context.Background(), btn))
	require.Empty(t, e.srv.Requests())
}
