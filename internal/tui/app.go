package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/imgsearch-tui/internal/api"
	"github.com/altinukshini/imgsearch-tui/internal/cache"
	"github.com/altinukshini/imgsearch-tui/internal/config"
	"github.com/altinukshini/imgsearch-tui/internal/dispatch"
	"github.com/altinukshini/imgsearch-tui/internal/history"
	"github.com/altinukshini/imgsearch-tui/internal/host"
	"github.com/altinukshini/imgsearch-tui/internal/model"
	"github.com/altinukshini/imgsearch-tui/internal/ops"
	"github.com/altinukshini/imgsearch-tui/internal/pagination"
	"github.com/altinukshini/imgsearch-tui/internal/settings"
	"github.com/altinukshini/imgsearch-tui/internal/tui/confirm"
	"github.com/altinukshini/imgsearch-tui/internal/tui/infoview"
	"github.com/altinukshini/imgsearch-tui/internal/tui/properties"
	"github.com/altinukshini/imgsearch-tui/internal/tui/refsview"
	"github.com/altinukshini/imgsearch-tui/internal/tui/searchview"
	"github.com/altinukshini/imgsearch-tui/internal/tui/tiles"
	"github.com/altinukshini/imgsearch-tui/internal/ui"
	"github.com/altinukshini/imgsearch-tui/internal/worker"
)

type View int

const (
	ViewSearch View = iota
	ViewReferences
)

type Pane int

const (
	PaneQuery Pane = iota
	PaneTiles
)

// suggestionLimit caps how many past queries feed the input's completion.
const suggestionLimit = 100

// Client is what the App needs from the network layer.
type Client interface {
	worker.SearchClient
	worker.DownloadClient
	RateLimit() api.RateLimit
}

// Deps are the collaborators handed to the App. History and Settings may be
// nil; the App then runs without suggestions or persistence.
type Deps struct {
	Client   Client
	Host     host.Host
	Refs     *cache.ReferenceCache
	History  *history.History
	Settings *settings.Store
	Logger   *slog.Logger
}

type invocationKind int

const (
	invNone invocationKind = iota
	invSearch
	invDownload
)

type invocation struct {
	kind  invocationKind
	query string
}

type App struct {
	cfg      config.Config
	client   Client
	host     host.Host
	refs     *cache.ReferenceCache
	history  *history.History
	settings *settings.Store
	logger   *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	tracker  *dispatch.Tracker
	inflight invocation

	// Views
	queryBar      searchview.Model
	tilesView     tiles.Model
	infoView      infoview.Model
	refsView      refsview.Model
	confirmDialog confirm.Model
	propsOverlay  properties.Model

	// State
	currentView View
	focusedPane Pane
	width       int
	height      int
	status      string
	rate        api.RateLimit

	// Pagination of the last submitted query
	query      string
	page       int
	totalPages int

	showHelp bool
}

func NewApp(cfg config.Config, deps Deps) App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	queryBar := searchview.New()
	queryBar.Focus()
	return App{
		cfg:         cfg,
		client:      deps.Client,
		host:        deps.Host,
		refs:        deps.Refs,
		history:     deps.History,
		settings:    deps.Settings,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		tracker:     &dispatch.Tracker{},
		queryBar:    queryBar,
		tilesView:   tiles.New(),
		infoView:    infoview.New(),
		refsView:    refsview.New(),
		currentView: ViewSearch,
		focusedPane: PaneQuery,
		status:      "Type a query and press enter",
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadSuggestions(), a.loadRefs())
}

// Close cancels every running invocation.
func (a App) Close() {
	a.cancel()
}

// --- Commands ---

// listen waits for the next event of one invocation. The App re-arms it
// after every event until the stream closes.
func listen(id uint64, stream <-chan worker.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-stream
		if !ok {
			return ui.StreamClosedMsg{ID: id}
		}
		return ui.EventMsg{Event: ev, Stream: stream}
	}
}

func (a App) loadSuggestions() tea.Cmd {
	if a.history == nil {
		return nil
	}
	h, ctx := a.history, a.ctx
	return func() tea.Msg {
		qs, err := h.Suggestions(ctx, "", suggestionLimit)
		return ui.HistoryLoadedMsg{Queries: qs, Err: err}
	}
}

func (a App) recordQuery(query string, totalPages int) tea.Cmd {
	if a.history == nil {
		return nil
	}
	h, ctx, logger := a.history, a.ctx, a.logger
	return func() tea.Msg {
		if err := h.Record(ctx, query, totalPages); err != nil {
			logger.Warn("record history failed", "query", query, "error", err)
		}
		qs, err := h.Suggestions(ctx, "", suggestionLimit)
		return ui.HistoryLoadedMsg{Queries: qs, Err: err}
	}
}

func (a App) loadRefs() tea.Cmd {
	refs := a.refs
	return func() tea.Msg {
		if refs == nil {
			return ui.RefsLoadedMsg{Err: errors.New("reference library unavailable")}
		}
		entries, err := refs.ListEntries()
		if err != nil {
			return ui.RefsLoadedMsg{Err: err}
		}
		total, err := refs.TotalSize()
		return ui.RefsLoadedMsg{Entries: entries, TotalSize: total, Err: err}
	}
}

func (a App) deleteRefs(entries []cache.RefEntry) tea.Cmd {
	refs, ctx := a.refs, a.ctx
	return func() tea.Msg {
		res, err := ops.BulkDeleteRefs(ctx, refs, entries, nil)
		return ui.RefsDeletedMsg{Result: res, Err: err}
	}
}

func (a App) clearRefs() tea.Cmd {
	refs := a.refs
	return func() tea.Msg {
		err := refs.DeleteAll()
		return ui.ActionResultMsg{Action: "clear-refs", Success: err == nil, Err: err}
	}
}

func (a App) pasteReference(ev worker.FullImageLoaded) tea.Cmd {
	ref := host.Reference{Image: ev.Session.Image, Bytes: ev.Bytes, Query: a.inflight.query}
	h, ctx := a.host, a.ctx
	return func() tea.Msg {
		path, err := h.PasteReference(ctx, ref)
		return ui.RefPastedMsg{ImageID: ref.Image.ID, Path: path, Err: err}
	}
}

func (a App) openURL(action, url string) tea.Cmd {
	h := a.host
	return func() tea.Msg {
		err := h.OpenURL(url)
		return ui.ActionResultMsg{Action: action, Success: err == nil, Err: err}
	}
}

// startSearch begins a search invocation for query at page. It is a no-op
// while another invocation runs.
func (a *App) startSearch(query string, page int) tea.Cmd {
	req := model.SearchRequest{Query: query, Page: page, PerPage: a.cfg.PerPage}
	if err := req.Validate(); err != nil {
		a.queryBar.SetError(ui.ErrorMessage(err.Error()))
		return nil
	}
	w := worker.NewSearchWorker(a.client, req, a.cfg.ThumbnailParams(), a.logger).
		WithConcurrency(a.cfg.MaxConcurrent)
	if err := a.tracker.Begin(w.ID()); err != nil {
		a.status = "Busy: wait for the current request to finish"
		return nil
	}

	a.inflight = invocation{kind: invSearch, query: query}
	a.query = query
	a.page = page
	a.totalPages = 0
	a.queryBar.ClearError()
	a.queryBar.SetPages(pagination.Window{})
	a.tilesView.Reset()
	a.infoView.SetTile(nil)
	a.focusedPane = PaneTiles
	a.status = fmt.Sprintf("Searching %q (page %d)...", query, page)
	a.logger.Info("search started", "invocation", w.ID(), "query", query, "page", page, "per_page", req.PerPage)

	return tea.Batch(a.queryBar.SetBusy(true), listen(w.ID(), w.Start(a.ctx)))
}

// startDownload registers and fetches the full image behind t.
func (a *App) startDownload(t *tiles.Tile) tea.Cmd {
	w := worker.NewDownloadWorker(a.client, model.NewDownloadSession(t.Image), a.logger)
	if err := a.tracker.Begin(w.ID()); err != nil {
		a.status = "Busy: wait for the current request to finish"
		return nil
	}

	a.inflight = invocation{kind: invDownload, query: a.query}
	a.queryBar.ClearError()
	a.tilesView.SetDisabled(true)
	a.status = fmt.Sprintf("Downloading %s by %s...", t.Image.ID, t.Image.Author)
	a.logger.Info("download started", "invocation", w.ID(), "image", t.Image.ID)

	return tea.Batch(a.queryBar.SetBusy(true), listen(w.ID(), w.Start(a.ctx)))
}

// finish re-enables the inputs once the current invocation is over.
func (a *App) finish() tea.Cmd {
	inv := a.inflight
	a.inflight = invocation{}
	a.queryBar.SetBusy(false)
	a.tilesView.SetDisabled(false)

	switch inv.kind {
	case invSearch:
		a.queryBar.SetPages(pagination.Compute(a.page, a.totalPages, config.PageOffset))
		a.status = a.searchStatus()
		a.syncInfo()
		return a.recordQuery(inv.query, a.totalPages)
	case invDownload:
		if a.queryBar.Error() != "" {
			a.status = "Download failed"
		}
	}
	return nil
}

func (a *App) handleEvent(msg ui.EventMsg) tea.Cmd {
	cmds := []tea.Cmd{listen(msg.Event.InvocationID(), msg.Stream)}
	if !a.tracker.Observe(msg.Event) {
		return cmds[0]
	}
	a.rate = a.client.RateLimit()

	switch ev := msg.Event.(type) {
	case worker.Queried:
		a.page = ev.Page
		a.totalPages = ev.TotalPages
		if ev.TotalPages == 0 {
			a.status = fmt.Sprintf("No images found for %q", a.query)
		}
	case worker.ImageLoaded:
		cmds = append(cmds, a.tilesView.Add(tiles.NewTile(ev.Image, ev.Bytes)))
		if a.tilesView.Len() == 1 {
			a.syncInfo()
		}
		a.status = fmt.Sprintf("Loading %q: %d images", a.query, a.tilesView.Len())
	case worker.Failed:
		a.queryBar.SetError(ui.ErrorMessage(ev.Message))
		a.logger.Warn("invocation error", "invocation", ev.ID, "class", ev.Class.String(), "error", ev.Err)
	case worker.FullImageLoaded:
		a.status = "Storing reference..."
		cmds = append(cmds, a.pasteReference(ev))
	case worker.Finished:
		cmds = append(cmds, a.finish())
	}
	return tea.Batch(cmds...)
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Confirm dialog result arrives after the dialog closed itself.
	if result, ok := msg.(confirm.ResultMsg); ok {
		if result.Confirmed {
			switch result.Action {
			case "delete-refs":
				entries := result.Data.([]cache.RefEntry)
				a.status = fmt.Sprintf("Deleting %d references...", len(entries))
				a.refsView.ClearSelection()
				cmds = append(cmds, a.deleteRefs(entries))
			case "clear-refs":
				a.status = "Deleting all references..."
				cmds = append(cmds, a.clearRefs())
			}
		}
		return &a, tea.Batch(cmds...)
	}

	// Overlays only take keys; worker events and async results fall through
	// so an invocation still reaches Finished behind an open dialog.
	_, isKey := msg.(tea.KeyMsg)
	if isKey && a.confirmDialog.IsActive() {
		var cmd tea.Cmd
		a.confirmDialog, cmd = a.confirmDialog.Update(msg)
		return &a, cmd
	}

	if result, ok := msg.(properties.ResultMsg); ok {
		if result.Applied {
			result.Values.ApplyTo(&a.cfg)
			a.status = "Properties apply from the next search"
			if a.settings != nil {
				if err := a.settings.Save(a.cfg); err != nil {
					a.status = "Could not save properties: " + err.Error()
					a.logger.Error("save settings failed", "error", err)
				}
			}
		}
		return &a, nil
	}

	if isKey && a.propsOverlay.IsActive() {
		var cmd tea.Cmd
		a.propsOverlay, cmd = a.propsOverlay.Update(msg)
		return &a, cmd
	}

	// Keys go straight to the focused query input.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && a.currentView == ViewSearch && a.queryBar.Focused() {
		switch keyMsg.String() {
		case "ctrl+c":
			a.cancel()
			return &a, tea.Quit
		case "tab":
			a.queryBar.Blur()
			a.focusedPane = PaneTiles
			return &a, nil
		}
		var cmd tea.Cmd
		a.queryBar, cmd = a.queryBar.Update(msg)
		if !a.queryBar.Focused() {
			a.focusedPane = PaneTiles
		}
		return &a, cmd
	}

	// Keys go straight to a filtering list.
	if isKey && a.isListFiltering() {
		var cmd tea.Cmd
		switch a.currentView {
		case ViewSearch:
			a.tilesView, cmd = a.tilesView.Update(msg)
			a.syncInfo()
		case ViewReferences:
			a.refsView, cmd = a.refsView.Update(msg)
		}
		return &a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()

	case searchview.SubmitMsg:
		cmds = append(cmds, a.startSearch(msg.Query, 1))

	case ui.EventMsg:
		cmds = append(cmds, a.handleEvent(msg))

	case ui.StreamClosedMsg:
		// Finished is dropped when the invocation was cancelled.
		if a.tracker.Finish(msg.ID) {
			cmds = append(cmds, a.finish())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.queryBar, cmd = a.queryBar.Update(msg)
		cmds = append(cmds, cmd)

	case ui.HistoryLoadedMsg:
		if msg.Err != nil {
			a.logger.Warn("load history failed", "error", msg.Err)
			break
		}
		a.queryBar.SetSuggestions(msg.Queries)

	case ui.RefsLoadedMsg:
		var cmd tea.Cmd
		a.refsView, cmd = a.refsView.Update(msg)
		cmds = append(cmds, cmd)
		if a.currentView == ViewReferences && msg.Err == nil {
			a.status = fmt.Sprintf("%d references", len(msg.Entries))
		}

	case ui.RefPastedMsg:
		if msg.Err != nil {
			a.queryBar.SetError(ui.ErrorMessage(msg.Err.Error()))
			a.status = "Could not store reference"
			a.logger.Error("paste reference failed", "image", msg.ImageID, "error", msg.Err)
			break
		}
		a.status = "Reference stored: " + msg.Path
		cmds = append(cmds, a.loadRefs())

	case ui.RefsDeletedMsg:
		switch {
		case msg.Err != nil:
			a.status = "Delete interrupted: " + msg.Err.Error()
		case msg.Result.Failed > 0:
			a.status = fmt.Sprintf("Deleted %d, failed %d", msg.Result.Completed, msg.Result.Failed)
		default:
			a.status = fmt.Sprintf("Deleted %d references", msg.Result.Completed)
		}
		cmds = append(cmds, a.loadRefs())

	case ui.ActionResultMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("%s failed: %v", msg.Action, msg.Err)
			a.logger.Warn("action failed", "action", msg.Action, "error", msg.Err)
		} else {
			a.status = msg.Action + " done"
		}
		if msg.Action == "clear-refs" {
			cmds = append(cmds, a.loadRefs())
		}

	case ui.StatusMsg:
		a.status = msg.Text

	case tea.KeyMsg:
		if a.showHelp {
			a.showHelp = false
			return &a, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			a.cancel()
			return &a, tea.Quit
		case "?":
			a.showHelp = true
			return &a, nil
		case "1":
			a.currentView = ViewSearch
			a.status = a.searchStatus()
			return &a, nil
		case "2":
			a.currentView = ViewReferences
			a.status = "Loading references..."
			return &a, a.loadRefs()
		case "p":
			a.propsOverlay = properties.New(properties.FromConfig(a.cfg))
			a.propsOverlay.SetSize(a.width, max(a.height-3, 1))
			return &a, nil
		}

		switch a.currentView {
		case ViewSearch:
			cmds = append(cmds, a.updateSearchKeys(msg))
		case ViewReferences:
			cmds = append(cmds, a.updateRefsKeys(msg))
		}
	}

	return &a, tea.Batch(cmds...)
}

func (a *App) updateSearchKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "/", "tab":
		a.focusedPane = PaneQuery
		return a.queryBar.Focus()
	case "esc":
		a.queryBar.ClearError()
		return nil
	case "enter":
		if a.tracker.Busy() {
			return nil
		}
		if t := a.tilesView.Selected(); t != nil {
			return a.startDownload(t)
		}
		return nil
	case "o":
		if t := a.tilesView.Selected(); t != nil {
			return a.openURL("open photo", t.Image.HTMLURL)
		}
		return nil
	case "a":
		if t := a.tilesView.Selected(); t != nil {
			return a.openURL("open author", t.Image.ReferralURL(host.ReferralSource))
		}
		return nil
	case "H", "home":
		return a.goToPage(pagination.First)
	case "h", "left":
		return a.goToPage(pagination.Prev)
	case "l", "right":
		return a.goToPage(pagination.Next)
	case "L", "end":
		return a.goToPage(pagination.Last)
	}

	var cmd tea.Cmd
	a.tilesView, cmd = a.tilesView.Update(msg)
	a.syncInfo()
	return cmd
}

func (a *App) updateRefsKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "r":
		a.status = "Loading references..."
		return a.loadRefs()
	case "d":
		entries := a.refsView.SelectedEntries()
		if len(entries) == 0 {
			if e := a.refsView.SelectedEntry(); e != nil {
				entries = []cache.RefEntry{*e}
			}
		}
		if len(entries) == 0 {
			return nil
		}
		a.confirmDialog = confirm.New("Delete references",
			fmt.Sprintf("Delete %d reference(s) from the library?", len(entries)),
			"delete-refs", entries)
		a.confirmDialog.SetSize(a.width, max(a.height-3, 1))
		return nil
	case "x":
		if len(a.refsView.Entries()) == 0 {
			return nil
		}
		a.confirmDialog = confirm.New("Clear library",
			fmt.Sprintf("Delete all %d references?", len(a.refsView.Entries())),
			"clear-refs", nil)
		a.confirmDialog.SetSize(a.width, max(a.height-3, 1))
		return nil
	case "o":
		if e := a.refsView.SelectedEntry(); e != nil {
			return a.openURL("open photo", e.PhotoURL)
		}
		return nil
	case "a":
		if e := a.refsView.SelectedEntry(); e != nil {
			return a.openURL("open author", e.AuthorURL)
		}
		return nil
	}

	var cmd tea.Cmd
	a.refsView, cmd = a.refsView.Update(msg)
	return cmd
}

// goToPage re-runs the last query on the page the control leads to. The
// page bar is disabled while an invocation runs.
func (a *App) goToPage(action pagination.Action) tea.Cmd {
	if a.tracker.Busy() || a.query == "" {
		return nil
	}
	page, ok := pagination.Compute(a.page, a.totalPages, config.PageOffset).Target(action)
	if !ok {
		return nil
	}
	return a.startSearch(a.query, page)
}

func (a *App) syncInfo() {
	a.infoView.SetTile(a.tilesView.Selected())
}

func (a App) searchStatus() string {
	if a.query == "" {
		return "Type a query and press enter"
	}
	if a.totalPages == 0 {
		return fmt.Sprintf("%q: no results", a.query)
	}
	return fmt.Sprintf("%q  |  page %d/%d  |  %d images", a.query, a.page, a.totalPages, a.tilesView.Len())
}

func (a App) isListFiltering() bool {
	switch a.currentView {
	case ViewSearch:
		return a.tilesView.IsFiltering()
	case ViewReferences:
		return a.refsView.IsFiltering()
	}
	return false
}

func (a *App) propagateSize() {
	// header(1) + tabs(1) + status(1) of chrome, plus two border lines.
	contentH := max(a.height-5, 1)
	// The query bar takes two lines and the page bar one.
	paneH := max(contentH-3, 1)

	leftW := a.width * 55 / 100
	rightW := max(a.width-leftW-4, 1)

	a.queryBar, _ = a.queryBar.Update(tea.WindowSizeMsg{Width: a.width, Height: 2})
	a.tilesView, _ = a.tilesView.Update(tea.WindowSizeMsg{Width: leftW, Height: paneH})
	a.infoView, _ = a.infoView.Update(tea.WindowSizeMsg{Width: rightW, Height: paneH})
	a.refsView, _ = a.refsView.Update(tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.confirmDialog.SetSize(a.width, contentH+2)
	a.propsOverlay.SetSize(a.width, contentH+2)
}

// --- View ---

func (a App) View() string {
	header := RenderHeader(a.query, a.rate, a.width)
	tabs := a.renderTabs()

	contentH := max(a.height-5, 1)
	var content string
	switch a.currentView {
	case ViewSearch:
		content = a.renderSearchLayout()
	case ViewReferences:
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		content = style.Render(a.refsView.View())
	}

	if a.showHelp {
		content = a.renderHelp()
	} else if a.confirmDialog.IsActive() {
		content = a.confirmDialog.View()
	} else if a.propsOverlay.IsActive() {
		content = a.propsOverlay.View()
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.width)

	maxContentLines := a.height - 3
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			content = strings.Join(lines[:maxContentLines], "\n")
		}
	}

	return header + "\n" + tabs + "\n" + content + "\n" + statusBar
}

func (a App) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Padding(0, 2)
	activeTab := tabStyle.Bold(true).Foreground(ui.ColorPrimary)
	inactiveTab := tabStyle.Foreground(ui.ColorMuted)

	searchLabel := "[1] Search"
	if a.query != "" && a.totalPages > 0 {
		searchLabel = fmt.Sprintf("[1] Search (%d/%d)", a.page, a.totalPages)
	}
	refsLabel := fmt.Sprintf("[2] References (%d)", len(a.refsView.Entries()))

	searchTab := inactiveTab.Render(searchLabel)
	refsTab := inactiveTab.Render(refsLabel)
	switch a.currentView {
	case ViewSearch:
		searchTab = activeTab.Render(searchLabel)
	case ViewReferences:
		refsTab = activeTab.Render(refsLabel)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, searchTab, refsTab)
}

func (a App) renderSearchLayout() string {
	contentH := max(a.height-5, 1)
	paneH := max(contentH-3, 1)
	leftW := a.width * 55 / 100
	rightW := max(a.width-leftW-4, 1)

	leftStyle := ui.StylePane.Width(leftW).Height(paneH)
	if a.focusedPane == PaneTiles {
		leftStyle = ui.StylePaneFocused.Width(leftW).Height(paneH)
	}
	rightStyle := ui.StylePane.Width(rightW).Height(paneH)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(a.tilesView.View()),
		rightStyle.Render(a.infoView.View()))

	return a.queryBar.View() + "\n" + panes + "\n" + a.queryBar.PagerView()
}

func (a App) contextHints() string {
	if a.confirmDialog.IsActive() {
		return "y/n:answer  tab:toggle  esc:cancel"
	}
	if a.propsOverlay.IsActive() {
		return "j/k:field  h/l:adjust  a:apply  esc:cancel"
	}

	switch a.currentView {
	case ViewSearch:
		if a.queryBar.Busy() {
			return "working...  q:quit"
		}
		if a.queryBar.Focused() {
			return "enter:search  tab:results  esc:leave input"
		}
		hints := "enter:add reference  o:photo  a:author  h/l:page  H/L:first/last  /:search  f:filter  p:properties  ?:help"
		if a.queryBar.Error() != "" {
			hints = "esc:dismiss error  " + hints
		}
		return hints
	case ViewReferences:
		return "space:select  d:delete  x:clear all  s:sort  o:photo  a:author  r:refresh  f:filter  ?:help"
	}
	return "?:help  q:quit"
}

func (a App) renderHelp() string {
	contentH := max(a.height-5, 1)

	bold := lipgloss.NewStyle().Bold(true)
	key := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + key.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Navigation") + "\n\n")
	b.WriteString(row("1 / 2", "Switch tab: Search, References"))
	b.WriteString(row("tab", "Toggle query input / results"))
	b.WriteString(row("j / k", "Move down / up"))
	b.WriteString(row("p", "Properties"))
	b.WriteString(row("q", "Quit"))

	b.WriteString("\n" + bold.Render("  Search") + "\n\n")
	b.WriteString(row("/", "Focus query input"))
	b.WriteString(row("enter", "Search (input) / add image as reference (results)"))
	b.WriteString(row("esc", "Dismiss error"))
	b.WriteString(row("h / l", "Previous / next page"))
	b.WriteString(row("H / L", "First / last page"))
	b.WriteString(row("o", "Open photo page"))
	b.WriteString(row("a", "Open author profile"))
	b.WriteString(row("f", "Filter loaded images"))

	b.WriteString("\n" + bold.Render("  References") + "\n\n")
	b.WriteString(row("space", "Toggle select"))
	b.WriteString(row("d", "Delete selected (or current)"))
	b.WriteString(row("x", "Clear library"))
	b.WriteString(row("s", "Cycle sort (stored / last used / size)"))
	b.WriteString(row("r", "Refresh"))

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close") + "\n")

	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
	return style.Render(b.String())
}
