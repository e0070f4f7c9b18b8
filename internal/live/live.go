// Package live serves a directory of quiz files as rendered HTML pages
// that reload themselves whenever a file changes. An fsnotify watcher
// coalesces save bursts and pings every open page over a websocket.
package live

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/export"
	appI18n "github.com/queckhq/queck/internal/i18n"
	"github.com/queckhq/queck/internal/queck"
)

//go:embed templates/index.html.tmpl
var indexFS embed.FS

var (
	indexOnce sync.Once
	indexErr  error
	indexTmpl *template.Template
)

func indexTemplate() (*template.Template, error) {
	indexOnce.Do(func() {
		indexTmpl, indexErr = template.ParseFS(indexFS, "templates/index.html.tmpl")
	})
	return indexTmpl, indexErr
}

// reloadScript connects a page to the reload websocket. The connection
// retries so pages survive server restarts.
const reloadScript = template.HTML(`<script>
(function () {
  function connect() {
    var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onmessage = function (ev) { if (ev.data === "reload") location.reload(); };
    ws.onclose = function () { setTimeout(connect, 1000); };
  }
  connect();
})();
</script>`)

// Options configure the preview server.
type Options struct {
	// Lang localizes the index page and answer-type labels.
	Lang string
	// Labels override the localized answer-type labels.
	Labels queck.Labels
	// Debounce is the quiet period after a file change before pages
	// reload. Zero selects 200ms.
	Debounce time.Duration
}

// Server is the live preview server for one directory of quiz files.
type Server struct {
	dir      string
	exporter *export.Exporter
	hub      *hub
	lang     string
	debounce time.Duration
}

// New returns a preview server for dir.
func New(dir string, opts Options) *Server {
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	return &Server{
		dir:      dir,
		exporter: export.New(opts.Labels),
		hub:      newHub(),
		lang:     opts.Lang,
		debounce: opts.Debounce,
	}
}

// Routes mounts the preview handlers.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Get("/q/{name}", s.handleQuiz)
	r.Get("/ws", s.handleWS)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(s.lang))
	s.Routes(r)

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go func() {
		if err := watch(watchCtx, s.dir, s.debounce, func() {
			s.hub.broadcast(watchCtx)
		}); err != nil {
			slog.Error("file watcher stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("live preview running", "addr", addr, "dir", s.dir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

type indexData struct {
	AppTitle string
	Dir      string
	Reload   string
	Entries  []indexEntry
	Script   template.HTML
}

type indexEntry struct {
	Name      string
	Title     string
	Questions string
	Err       string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := indexTemplate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()
	data := indexData{
		AppTitle: appI18n.T(ctx, "AppTitle"),
		Dir:      s.dir,
		Reload:   appI18n.T(ctx, "LiveReload"),
		Entries:  s.scan(ctx),
		Script:   reloadScript,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("render error", "error", err)
	}
}

// scan lists the quiz files of the watched directory with their titles
// and question counts. Files that fail to parse stay listed with the
// error so authors can click through and watch it resolve.
func (s *Server) scan(ctx context.Context) []indexEntry {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		slog.Warn("cannot read preview directory", "dir", s.dir, "error", err)
		return nil
	}
	var entries []indexEntry
	for _, de := range dirents {
		if de.IsDir() || !queck.IsQueckPath(de.Name()) {
			continue
		}
		entry := indexEntry{Name: de.Name()}
		q, err := queck.LoadFile(filepath.Join(s.dir, de.Name()), answer.Context{})
		if err != nil {
			entry.Err = err.Error()
			entries = append(entries, entry)
			continue
		}
		entry.Title = q.Title
		entry.Questions = appI18n.Tp(ctx, "QuestionsAvailable", q.QuestionCount())
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name != filepath.Base(name) || !queck.IsQueckPath(name) {
		http.NotFound(w, r)
		return
	}
	if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	q, err := queck.LoadFile(filepath.Join(s.dir, name), answer.Context{})
	if err != nil {
		// Show the error in the page itself: the author is mid-edit
		// and the page fixes itself on the next good save.
		s.writeErrorPage(w, name, err)
		return
	}
	page, err := s.exporter.HTML(q, export.Options{
		Format: export.FormatHTML,
		Style:  export.StyleInline,
		Dir:    s.dir,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(injectReload(page)); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (s *Server) writeErrorPage(w http.ResponseWriter, name string, loadErr error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head><body>\n", template.HTMLEscapeString(name))
	fmt.Fprintf(&buf, "<h1>%s</h1>\n<pre>%s</pre>\n", template.HTMLEscapeString(name), template.HTMLEscapeString(loadErr.Error()))
	buf.WriteString(string(reloadScript))
	buf.WriteString("\n</body></html>\n")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("render error", "error", err)
	}
}

// injectReload places the reload script at the end of a rendered page.
func injectReload(page []byte) []byte {
	script := []byte(reloadScript)
	if i := bytes.LastIndex(page, []byte("</body>")); i >= 0 {
		out := make([]byte, 0, len(page)+len(script))
		out = append(out, page[:i]...)
		out = append(out, script...)
		out = append(out, page[i:]...)
		return out
	}
	return append(page, script...)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept", "error", err)
		return
	}
	s.hub.add(c)
	defer s.hub.remove(c)

	// Pages never send anything; CloseRead watches for the browser
	// going away.
	ctx := c.CloseRead(r.Context())
	<-ctx.Done()
	_ = c.Close(websocket.StatusNormalClosure, "")
}
