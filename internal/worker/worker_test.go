package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/imgsearch-tui/internal/api"
	"github.com/altinukshini/imgsearch-tui/internal/config"
	"github.com/altinukshini/imgsearch-tui/internal/model"
)

type fakeClient struct {
	result    *model.SearchResult
	searchErr error
	thumbs    map[string]error
	panics    map[string]bool
	delay     time.Duration

	registerErr error
	fullErr     error

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	fetched     atomic.Int32
	fullFetched atomic.Int32
}

func (f *fakeClient) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.result, nil
}

func (f *fakeClient) FetchThumbnail(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	f.fetched.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panics[rawURL] {
		panic("decoder exploded")
	}
	if err := f.thumbs[rawURL]; err != nil {
		return nil, err
	}
	return []byte("thumb:" + rawURL), nil
}

func (f *fakeClient) RegisterDownload(ctx context.Context, loc string) error {
	return f.registerErr
}

func (f *fakeClient) FetchFull(ctx context.Context, fullURL string) ([]byte, error) {
	f.fullFetched.Add(1)
	if f.fullErr != nil {
		return nil, f.fullErr
	}
	return []byte("full:" + fullURL), nil
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(match func(Event) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if match(ev) {
			n++
		}
	}
	return n
}

func isLoaded(ev Event) bool {
	_, ok := ev.(ImageLoaded)
	return ok
}

func isFailed(ev Event) bool {
	_, ok := ev.(Failed)
	return ok
}

func isFinished(ev Event) bool {
	_, ok := ev.(Finished)
	return ok
}

func images(ids ...string) []model.ImageResult {
	out := make([]model.ImageResult, len(ids))
	for i, id := range ids {
		out[i] = model.ImageResult{ID: id, ThumbnailURL: "t/" + id, FullURL: "f/" + id, DownloadLocationURL: "d/" + id}
	}
	return out
}

var req = model.SearchRequest{Query: "sunset", Page: 1, PerPage: 10}

func TestSearchWorkerDeliversEveryThumbnail(t *testing.T) {
	client := &fakeClient{result: &model.SearchResult{TotalPages: 3, Items: images("a", "b")}}
	w := NewSearchWorker(client, req, config.Default().ThumbnailParams(), nil)

	var rec recorder
	out := w.Run(context.Background(), rec.emit)

	assert.Equal(t, 2, rec.count(isLoaded))
	assert.Zero(t, rec.count(isFailed))
	assert.Equal(t, 1, rec.count(isFinished))
	assert.True(t, out.Complete)
	assert.Equal(t, 2, out.Delivered())

	require.NotEmpty(t, rec.events)
	q, ok := rec.events[0].(Queried)
	require.True(t, ok, "first event must be Queried, got %T", rec.events[0])
	assert.Equal(t, 3, q.TotalPages)
	assert.Equal(t, w.ID(), q.ID)
	assert.IsType(t, Finished{}, rec.events[len(rec.events)-1])
}

func TestSearchWorkerAggregatesFailures(t *testing.T) {
	client := &fakeClient{
		result: &model.SearchResult{TotalPages: 1, Items: images("a", "b", "c")},
		thumbs: map[string]error{"t/b": errors.New("boom")},
	}
	w := NewSearchWorker(client, req, config.Default().ThumbnailParams(), nil)

	var rec recorder
	out := w.Run(context.Background(), rec.emit)

	assert.Equal(t, 2, rec.count(isLoaded))
	assert.Equal(t, 1, rec.count(isFailed))
	assert.Equal(t, 1, rec.count(isFinished))
	assert.Equal(t, 1, out.Failed)

	// The aggregate error follows every delivery and precedes Finished.
	n := len(rec.events)
	f, ok := rec.events[n-2].(Failed)
	require.True(t, ok)
	assert.Equal(t, ClassPartialFetch, f.Class)
	assert.Contains(t, f.Message, "1")
	var pf *PartialFetchFailure
	require.ErrorAs(t, f.Err, &pf)
	assert.Equal(t, 3, pf.Total)
}

func TestSearchWorkerRecoversPanickingFetch(t *testing.T) {
	client := &fakeClient{
		result: &model.SearchResult{TotalPages: 1, Items: images("a", "b")},
		panics: map[string]bool{"t/a": true},
	}
	var rec recorder
	out := NewSearchWorker(client, req, config.Default().ThumbnailParams(), nil).Run(context.Background(), rec.emit)

	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, 1, rec.count(isLoaded))
	assert.Equal(t, 1, rec.count(isFinished))
}

func TestSearchWorkerSearchFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		class   ErrorClass
		message string
	}{
		{
			name:    "rate limited",
			err:     &api.Error{Kind: api.KindRateLimited, Op: "search", Status: 429},
			class:   ClassRateLimited,
			message: MsgRateLimited,
		},
		{
			name:    "server error",
			err:     &api.Error{Kind: api.KindServerError, Op: "search", Status: 500},
			class:   ClassServerError,
			message: MsgServerError,
		},
		{
			name:    "other status",
			err:     &api.Error{Kind: api.KindStatus, Op: "search", Status: 404},
			class:   ClassServerError,
			message: MsgServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{searchErr: tt.err}
			var rec recorder
			out := NewSearchWorker(client, req, config.Default().ThumbnailParams(), nil).Run(context.Background(), rec.emit)

			require.Len(t, rec.events, 2)
			f, ok := rec.events[0].(Failed)
			require.True(t, ok)
			assert.Equal(t, tt.class, f.Class)
			assert.Equal(t, tt.message, f.Message)
			assert.IsType(t, Finished{}, rec.events[1])
			assert.Zero(t, client.fetched.Load(), "no thumbnail may be fetched after a failed search")
			assert.Nil(t, out.Result)
			assert.True(t, out.Complete)
		})
	}
}

func TestSearchWorkerEmptyResultStillFinishes(t *testing.T) {
	client := &fakeClient{result: &model.SearchResult{TotalPages: 0}}
	var rec recorder
	NewSearchWorker(client, req, config.Default().ThumbnailParams(), nil).Run(context.Background(), rec.emit)

	require.Len(t, rec.events, 2)
	assert.IsType(t, Queried{}, rec.events[0])
	assert.IsType(t, Finished{}, rec.events[1])
}

func TestSearchWorkerConcurrencyLimit(t *testing.T) {
	client := &fakeClient{
		result: &model.SearchResult{TotalPages: 1, Items: images("a", "b", "c", "d", "e", "f")},
		delay:  20 * time.Millisecond,
	}
	var rec recorder
	out := NewSearchWorker(client, req, config.Default().ThumbnailParams(), nil).
		WithConcurrency(2).
		Run(context.Background(), rec.emit)

	assert.Equal(t, 6, out.Delivered())
	assert.LessOrEqual(t, client.maxInFlight.Load(), int32(2))
	assert.Equal(t, 1, rec.count(isFinished))
}

func TestSearchWorkerStartClosesStream(t *testing.T) {
	client := &fakeClient{result: &model.SearchResult{TotalPages: 1, Items: images("a", "b", "c")}}
	w := NewSearchWorker(client, req, config.Default().ThumbnailParams(), nil)

	var got []Event
	for ev := range w.Start(context.Background()) {
		assert.Equal(t, w.ID(), ev.InvocationID())
		got = append(got, ev)
	}
	require.Len(t, got, 5)
	assert.IsType(t, Finished{}, got[4])
}

func TestWorkersGetDistinctInvocationIDs(t *testing.T) {
	a := NewSearchWorker(&fakeClient{}, req, config.ThumbnailParams{}, nil)
	b := NewDownloadWorker(&fakeClient{}, model.DownloadSession{}, nil)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestDownloadWorker(t *testing.T) {
	session := model.NewDownloadSession(images("a")[0])

	t.Run("registered", func(t *testing.T) {
		client := &fakeClient{}
		var rec recorder
		data, err := NewDownloadWorker(client, session, nil).Run(context.Background(), rec.emit)
		require.NoError(t, err)
		assert.Equal(t, []byte("full:f/a"), data)
		require.Len(t, rec.events, 2)
		loaded, ok := rec.events[0].(FullImageLoaded)
		require.True(t, ok)
		assert.Equal(t, session, loaded.Session)
		assert.IsType(t, Finished{}, rec.events[1])
	})

	t.Run("registration refused", func(t *testing.T) {
		client := &fakeClient{registerErr: &api.Error{Kind: api.KindStatus, Op: "register download", Status: 404}}
		var rec recorder
		data, err := NewDownloadWorker(client, session, nil).Run(context.Background(), rec.emit)
		require.Error(t, err)
		assert.Nil(t, data)
		assert.Zero(t, client.fullFetched.Load())
		assert.Equal(t, 1, rec.count(isFinished))
		assert.Equal(t, 1, rec.count(isFailed))
	})

	t.Run("full fetch fails", func(t *testing.T) {
		client := &fakeClient{fullErr: &api.Error{Kind: api.KindServerError, Op: "fetch full image", Status: 503}}
		var rec recorder
		_, err := NewDownloadWorker(client, session, nil).Run(context.Background(), rec.emit)
		require.Error(t, err)
		assert.Equal(t, 1, rec.count(isFinished))
		f, ok := rec.events[0].(Failed)
		require.True(t, ok)
		assert.Equal(t, MsgServerError, f.Message)
	})
}

// Runs the whole flow against a real client and a local server.
func TestSearchWorkerOverHTTP(t *testing.T) {
	var thumbHits atomic.Int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/api/unsplash/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "busy" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprintf(w, `{"total_pages":2,"results":[
			{"id":"a","urls":{"raw":"%[1]s/raw/a","full":"%[1]s/full/a"}},
			{"id":"b","urls":{"raw":"%[1]s/raw/b","full":"%[1]s/full/b"}},
			{"id":"c","urls":{"raw":"%[1]s/raw/missing","full":"%[1]s/full/c"}}]}`, srv.URL)
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		thumbHits.Add(1)
		if r.URL.Path == "/raw/missing" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "200", r.URL.Query().Get("w"))
		w.Write([]byte("img"))
	})

	cfg := config.Default()
	cfg.SearchBase = srv.URL + "/api/unsplash"
	cfg.ThumbnailCache = false
	client, err := api.NewClient(cfg, api.HTTPOptions{})
	require.NoError(t, err)

	var rec recorder
	out := NewSearchWorker(client, req, cfg.ThumbnailParams(), nil).Run(context.Background(), rec.emit)
	assert.Equal(t, 2, rec.count(isLoaded))
	assert.Equal(t, 1, rec.count(isFailed))
	assert.Equal(t, 1, rec.count(isFinished))
	assert.Equal(t, 1, out.Failed)

	busy := req
	busy.Query = "busy"
	thumbHits.Store(0)
	var busyRec recorder
	NewSearchWorker(client, busy, cfg.ThumbnailParams(), nil).Run(context.Background(), busyRec.emit)
	require.Len(t, busyRec.events, 2)
	assert.Equal(t, MsgRateLimited, busyRec.events[0].(Failed).Message)
	assert.Zero(t, thumbHits.Load())
}
