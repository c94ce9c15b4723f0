package meter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"chunkmeter/internal/artifact"
)

// Reloader loads the model and rank artifacts into a meter and, for local
// file sources, watches them and reinstalls a fresh session when either is
// replaced. A failed reload leaves the currently served session untouched.
type Reloader struct {
	modelSource string
	rankSource  string
	meter       *Meter
	log         *slog.Logger

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

// NewReloader creates a reloader for the given artifact sources. Sources may
// be local paths or http(s) URLs; only local paths can be watched.
func NewReloader(modelSource, rankSource string, m *Meter, log *slog.Logger) *Reloader {
	if log == nil {
		log = slog.Default()
	}
	return &Reloader{
		modelSource: modelSource,
		rankSource:  rankSource,
		meter:       m,
		log:         log,
	}
}

// Load fetches both artifacts, builds a session, and installs it.
func (r *Reloader) Load(ctx context.Context) error {
	model, err := artifact.LoadModel(ctx, r.modelSource)
	if err != nil {
		return err
	}
	ranks, err := artifact.LoadRank(ctx, r.rankSource)
	if err != nil {
		return err
	}
	session, err := NewSession(model, ranks)
	if err != nil {
		return err
	}
	r.meter.Install(session)
	r.log.Info("artifacts loaded",
		"model", r.modelSource,
		"rank", r.rankSource,
		"max_guesses", session.MaxGuesses())
	return nil
}

// Watch starts watching local artifact files for replacement. Reloads are
// debounced so a writer replacing both files triggers one reload, not two.
func (r *Reloader) Watch(ctx context.Context) error {
	paths := localPaths(r.modelSource, r.rankSource)
	if len(paths) == 0 {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dirs := map[string]struct{}{}
	for _, p := range paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	r.watcher = watcher

	ctx, r.cancel = context.WithCancel(ctx)
	go r.watchLoop(ctx, paths)
	return nil
}

func (r *Reloader) watchLoop(ctx context.Context, paths []string) {
	watched := map[string]struct{}{}
	for _, p := range paths {
		watched[filepath.Base(p)] = struct{}{}
	}

	var debounce *time.Timer
	const debounceDelay = 250 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if _, mine := watched[filepath.Base(event.Name)]; !mine {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				if err := r.Load(ctx); err != nil {
					r.log.Error("artifact reload failed, keeping current session", "error", err)
				}
			})

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Warn("artifact watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (r *Reloader) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}

func localPaths(sources ...string) []string {
	var out []string
	for _, s := range sources {
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			continue
		}
		out = append(out, s)
	}
	return out
}
