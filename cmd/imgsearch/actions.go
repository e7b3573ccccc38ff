package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/altinukshini/imgsearch-tui/internal/cache"
	"github.com/altinukshini/imgsearch-tui/internal/host"
	"github.com/altinukshini/imgsearch-tui/internal/imageinfo"
	"github.com/altinukshini/imgsearch-tui/internal/model"
	"github.com/altinukshini/imgsearch-tui/internal/ops"
	"github.com/altinukshini/imgsearch-tui/internal/tui"
	"github.com/altinukshini/imgsearch-tui/internal/ui"
	"github.com/altinukshini/imgsearch-tui/internal/worker"
)

func TUIAction(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	client, err := e.client()
	if err != nil {
		return err
	}
	refs, err := e.references()
	if err != nil {
		return err
	}
	hist, err := e.history(c)
	if err != nil {
		// Suggestions are optional.
		e.logger.Warn("history unavailable", "error", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	app := tui.NewApp(e.cfg, tui.Deps{
		Client:   client,
		Host:     host.NewLibraryHost(refs, e.logger),
		Refs:     refs,
		History:  hist,
		Settings: e.settings,
		Logger:   e.logger,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func SearchAction(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return cli.Exit("a query is required", 1)
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	client, err := e.client()
	if err != nil {
		return err
	}

	req := model.SearchRequest{Query: query, Page: c.Int("page"), PerPage: e.cfg.PerPage}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	var (
		loaded  []model.ImageResult
		failure *worker.Failed
		total   int
	)
	w := worker.NewSearchWorker(client, req, e.cfg.ThumbnailParams(), e.logger).WithConcurrency(e.cfg.MaxConcurrent)
	outcome := w.Run(ctx, func(ev worker.Event) {
		switch ev := ev.(type) {
		case worker.Queried:
			total = ev.TotalPages
			fmt.Printf("%q page %d of %d\n\n", query, ev.Page, ev.TotalPages)
			fmt.Printf("%-4s %-14s %-28s %-11s %s\n", "#", "ID", "AUTHOR", "ORIGINAL", "THUMBNAIL")
			fmt.Println(strings.Repeat("-", 80))
		case worker.ImageLoaded:
			loaded = append(loaded, ev.Image)
			thumb := humanize.Bytes(uint64(len(ev.Bytes)))
			if info, err := imageinfo.Detect(ev.Bytes); err == nil {
				thumb = info.String() + " " + thumb
			}
			fmt.Printf("%-4d %-14s %-28s %-11s %s\n",
				len(loaded),
				ev.Image.ID,
				truncate(ev.Image.Author, 28),
				fmt.Sprintf("%dx%d", ev.Image.Width, ev.Image.Height),
				thumb,
			)
		case worker.Failed:
			failure = &ev
		}
	})

	if failure != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorMessage(failure.Message))
	}
	if outcome.Result == nil {
		return cli.Exit("", 1)
	}
	fmt.Printf("\n%d of %d images delivered\n", outcome.Delivered(), len(outcome.Result.Items))

	if hist, err := e.history(c); err == nil {
		if err := hist.Record(ctx, query, total); err != nil {
			e.logger.Warn("record query", "error", err)
		}
		hist.Close()
	}

	n := c.Int("save")
	if n == 0 {
		return nil
	}
	if n < 1 || n > len(loaded) {
		return fmt.Errorf("--save %d is out of range (1..%d)", n, len(loaded))
	}
	return saveReference(ctx, e, client, loaded[n-1], query)
}

func saveReference(ctx context.Context, e *env, client worker.DownloadClient, img model.ImageResult, query string) error {
	refs, err := e.references()
	if err != nil {
		return err
	}
	var failure *worker.Failed
	data, err := worker.NewDownloadWorker(client, model.NewDownloadSession(img), e.logger).Run(ctx, func(ev worker.Event) {
		if f, ok := ev.(worker.Failed); ok {
			failure = &f
		}
	})
	if err != nil {
		if failure != nil {
			return errors.New(ui.ErrorMessage(failure.Message))
		}
		return err
	}

	path, err := host.NewLibraryHost(refs, e.logger).PasteReference(ctx, host.Reference{Image: img, Bytes: data, Query: query})
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s (%s) to %s\n", img.ID, humanize.Bytes(uint64(len(data))), path)
	if link := img.ReferralURL(host.ReferralSource); link != "" {
		fmt.Printf("Photo by %s: %s\n", img.Author, link)
	}
	return nil
}

func RefsListAction(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	refs, err := e.references()
	if err != nil {
		return err
	}
	entries, err := refs.ListEntries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No references stored")
		return nil
	}
	printRefs(entries)

	size, _ := refs.TotalSize()
	fmt.Printf("\nTotal: %d references, %s in %s\n", len(entries), humanize.Bytes(uint64(size)), refs.Dir())
	return nil
}

func RefsPruneAction(c *cli.Context) error {
	filter := ops.PruneFilter{
		Query:     c.String("query"),
		Author:    c.String("author"),
		Format:    c.String("format"),
		OlderThan: c.Duration("older-than"),
	}
	if s := c.String("larger-than"); s != "" {
		n, err := humanize.ParseBytes(s)
		if err != nil {
			return fmt.Errorf("invalid --larger-than %q: %w", s, err)
		}
		filter.LargerThan = int64(n)
	}
	if filter.Empty() {
		return cli.Exit("refusing to prune without a filter; use 'refs clear --force' to delete everything", 1)
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	refs, err := e.references()
	if err != nil {
		return err
	}
	entries, err := refs.ListEntries()
	if err != nil {
		return err
	}
	matched := ops.FilterRefs(entries, filter)
	if len(matched) == 0 {
		fmt.Println("No references match")
		return nil
	}
	if c.Bool("dry-run") {
		printRefs(matched)
		fmt.Printf("\nWould delete %d references\n", len(matched))
		return nil
	}

	result, err := ops.BulkDeleteRefs(c.Context, refs, matched, func(done, total int) {
		fmt.Printf("\rDeleting %d/%d", done, total)
	})
	fmt.Println()
	if err != nil {
		return err
	}
	for _, err := range result.Errors {
		fmt.Fprintln(os.Stderr, err)
	}
	fmt.Printf("Deleted %d references, freed %s", result.Completed, humanize.Bytes(uint64(result.Freed)))
	if result.Failed > 0 {
		fmt.Printf(", %d failed", result.Failed)
	}
	fmt.Println()
	return nil
}

func RefsClearAction(c *cli.Context) error {
	if !c.Bool("force") {
		return cli.Exit("this deletes every stored reference; pass --force to confirm", 1)
	}
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	refs, err := e.references()
	if err != nil {
		return err
	}
	size, _ := refs.TotalSize()
	if err := refs.DeleteAll(); err != nil {
		return err
	}
	fmt.Printf("Cleared reference library, freed %s\n", humanize.Bytes(uint64(size)))
	return nil
}

func HistoryListAction(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	hist, err := e.history(c)
	if err != nil {
		return err
	}
	defer hist.Close()

	entries, err := hist.Recent(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No queries yet")
		return nil
	}
	fmt.Printf("%-32s %-6s %-6s %s\n", "QUERY", "USES", "PAGES", "LAST USED")
	fmt.Println(strings.Repeat("-", 64))
	for _, h := range entries {
		fmt.Printf("%-32s %-6d %-6d %s\n", truncate(h.Query, 32), h.Uses, h.TotalPages, humanize.Time(h.LastUsed))
	}
	return nil
}

func HistoryRemoveAction(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return cli.Exit("a query is required", 1)
	}
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	hist, err := e.history(c)
	if err != nil {
		return err
	}
	defer hist.Close()
	return hist.Delete(c.Context, query)
}

func HistoryClearAction(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	hist, err := e.history(c)
	if err != nil {
		return err
	}
	defer hist.Close()
	if err := hist.Clear(c.Context); err != nil {
		return err
	}
	fmt.Println("History cleared")
	return nil
}

func printRefs(entries []cache.RefEntry) {
	fmt.Printf("%-14s %-24s %-5s %-10s %-9s %s\n", "ID", "AUTHOR", "FMT", "SIZE", "DIMS", "STORED")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range entries {
		fmt.Printf("%-14s %-24s %-5s %-10s %-9s %s\n",
			r.ImageID,
			truncate(r.Author, 24),
			r.Format,
			humanize.Bytes(uint64(r.Size)),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			humanize.Time(r.StoredAt),
		)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
