package worker

import (
	"context"
	"log/slog"

	"github.com/altinukshini/imgsearch-tui/internal/model"
)

const MsgRegistration = "Download could not be registered"

type DownloadClient interface {
	RegisterDownload(ctx context.Context, downloadLocation string) error
	FetchFull(ctx context.Context, fullURL string) ([]byte, error)
}

// DownloadWorker registers a download and then fetches the full image. The
// full fetch never starts unless registration returned 200.
type DownloadWorker struct {
	id      uint64
	client  DownloadClient
	session model.DownloadSession
	logger  *slog.Logger
}

func NewDownloadWorker(client DownloadClient, session model.DownloadSession, logger *slog.Logger) *DownloadWorker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DownloadWorker{
		id:      nextInvocation(),
		client:  client,
		session: session,
		logger:  logger,
	}
}

func (w *DownloadWorker) ID() uint64 { return w.id }

func (w *DownloadWorker) Session() model.DownloadSession { return w.session }

func (w *DownloadWorker) Start(ctx context.Context) <-chan Event {
	return start(ctx, 3, func(ctx context.Context, emit func(Event)) {
		_, _ = w.Run(ctx, emit)
	})
}

// Run executes the download flow synchronously and returns the full image
// bytes on success. Finished is always emitted last, exactly once.
func (w *DownloadWorker) Run(ctx context.Context, emit func(Event)) ([]byte, error) {
	log := w.logger.With("invocation", w.id, "image", w.session.Image.ID)
	defer emit(Finished{ID: w.id})

	if err := w.client.RegisterDownload(ctx, w.session.DownloadLocationURL); err != nil {
		log.Error("download registration failed", "location", w.session.DownloadLocationURL, "error", err)
		emit(Failed{ID: w.id, Class: ClassRegistration, Message: MsgRegistration, Err: err})
		return nil, err
	}

	data, err := w.client.FetchFull(ctx, w.session.FullURL)
	if err != nil {
		log.Error("full image fetch failed", "url", w.session.FullURL, "error", err)
		emit(classifyFailure(w.id, err))
		return nil, err
	}

	log.Info("full image downloaded", "bytes", len(data))
	emit(FullImageLoaded{ID: w.id, Bytes: data, Session: w.session})
	return data, nil
}
