package worker

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/altinukshini/imgsearch-tui/internal/api"
	"github.com/altinukshini/imgsearch-tui/internal/config"
	"github.com/altinukshini/imgsearch-tui/internal/model"
)

const (
	MsgRateLimited = "Too many requests, please try again later"
	MsgServerError = "Server Error"
)

type SearchClient interface {
	Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error)
	FetchThumbnail(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// SearchWorker runs one search invocation: the query step followed by the
// thumbnail fan-out. A worker is single use.
type SearchWorker struct {
	id     uint64
	client SearchClient
	req    model.SearchRequest
	params url.Values
	limit  int
	logger *slog.Logger
}

func NewSearchWorker(client SearchClient, req model.SearchRequest, params config.ThumbnailParams, logger *slog.Logger) *SearchWorker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SearchWorker{
		id:     nextInvocation(),
		client: client,
		req:    req,
		params: params.Values(),
		logger: logger,
	}
}

// WithConcurrency bounds the number of in-flight thumbnail fetches. Zero
// means unbounded.
func (w *SearchWorker) WithConcurrency(n int) *SearchWorker {
	w.limit = n
	return w
}

func (w *SearchWorker) ID() uint64 { return w.id }

func (w *SearchWorker) Request() model.SearchRequest { return w.req }

// Start runs the invocation in the background.
func (w *SearchWorker) Start(ctx context.Context) <-chan Event {
	return start(ctx, w.req.PerPage+3, func(ctx context.Context, emit func(Event)) {
		w.Run(ctx, emit)
	})
}

// Run executes the invocation synchronously. Finished is always the last
// event emitted, exactly once.
func (w *SearchWorker) Run(ctx context.Context, emit func(Event)) (out model.SearchOutcome) {
	log := w.logger.With("invocation", w.id, "query", w.req.Query, "page", w.req.Page)
	out.Request = w.req
	defer func() {
		out.Complete = true
		emit(Finished{ID: w.id})
	}()

	res, err := w.client.Search(ctx, w.req)
	if err != nil {
		log.Error("search failed", "error", err)
		emit(classifyFailure(w.id, err))
		return out
	}
	out.Result = res
	emit(Queried{ID: w.id, Page: w.req.Page, TotalPages: res.TotalPages})

	outcomes := make(chan model.FetchOutcome)
	var g errgroup.Group
	if w.limit > 0 {
		g.SetLimit(w.limit)
	}
	go func() {
		for _, img := range res.Items {
			g.Go(func() error {
				outcomes <- w.fetch(ctx, img)
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	// Only this loop touches the outcome list and failure counter; the
	// channel closes after every task has settled.
	for o := range outcomes {
		out.Outcomes = append(out.Outcomes, o)
		if !o.OK() {
			out.Failed++
			log.Warn("thumbnail fetch failed", "image", o.Image.ID, "error", o.Reason)
			continue
		}
		emit(ImageLoaded{
			ID:               w.id,
			Bytes:            o.Bytes,
			FullURL:          o.Image.FullURL,
			DownloadLocation: o.Image.DownloadLocationURL,
			Image:            o.Image,
		})
	}

	if out.Failed > 0 {
		emit(Failed{
			ID:      w.id,
			Class:   ClassPartialFetch,
			Message: fmt.Sprintf("Cannot load %d image(s)", out.Failed),
			Err:     &PartialFetchFailure{Failed: out.Failed, Total: len(out.Outcomes)},
		})
	}
	log.Info("search finished", "total_pages", res.TotalPages, "delivered", out.Delivered(), "failed", out.Failed)
	return out
}

func (w *SearchWorker) fetch(ctx context.Context, img model.ImageResult) (o model.FetchOutcome) {
	defer func() {
		if r := recover(); r != nil {
			o = model.Failure(img, fmt.Errorf("thumbnail fetch panicked: %v", r))
		}
	}()
	data, err := w.client.FetchThumbnail(ctx, img.ThumbnailURL, w.params)
	if err != nil {
		return model.Failure(img, err)
	}
	return model.Success(img, data)
}

func classifyFailure(id uint64, err error) Failed {
	if api.KindOf(err) == api.KindRateLimited {
		return Failed{ID: id, Class: ClassRateLimited, Message: MsgRateLimited, Err: err}
	}
	return Failed{ID: id, Class: ClassServerError, Message: MsgServerError, Err: err}
}
