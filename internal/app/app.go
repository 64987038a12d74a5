package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"clozedojo/internal/content"
	"clozedojo/internal/engine"
	"clozedojo/internal/packs"
	"clozedojo/internal/passage"
	"clozedojo/internal/session"
	"clozedojo/internal/state"
	"clozedojo/internal/telemetry"
	"clozedojo/internal/ui"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
)

type App struct {
	cfg  Config
	mode GameMode

	logger  *telemetry.JSONLogger
	metrics *telemetry.Metrics
	store   Store
	loader  *packs.FSLoader
	source  PassageSource
	view    ui.View
	clip    Clipboard

	sessionID string

	mu  sync.Mutex
	run activeRun

	devServer   *http.Server
	cancelWatch context.CancelFunc
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	loader := packs.NewLoader()
	source := content.NewPackSource(loader, cfg.PackDir)
	if _, err := source.Packs(context.Background()); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, fmt.Errorf("load packs: %w", err)
	}

	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.UI.ASCII,
		Debug:        cfg.Debug,
		NoMouse:      cfg.UI.NoMouse,
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
	})
	a := newApp(cfg, logger, store, source, view, systemClipboard{})
	a.loader = loader
	return a, nil
}

func newApp(cfg Config, logger *telemetry.JSONLogger, store Store, source PassageSource, view ui.View, clip Clipboard) *App {
	sessionID := uuid.NewString()
	a := &App{
		cfg:       cfg,
		mode:      normalizeMode(cfg.Mode),
		logger:    logger.With(map[string]any{"session": sessionID}),
		metrics:   telemetry.NewMetrics(),
		store:     store,
		source:    source,
		view:      view,
		clip:      clip,
		sessionID: sessionID,
	}
	view.SetController(a)
	view.SetCatalog(a.catalog(context.Background()))
	return a
}

func (a *App) Run(ctx context.Context) error {
	summary, _ := a.store.GetSummary(ctx)
	a.logger.Info("app.start", map[string]any{
		"mode":        string(a.mode),
		"layout":      string(a.cfg.AnswerLayout()),
		"pack_dir":    a.cfg.PackDir,
		"runs":        summary.Runs,
		"perfect":     summary.PerfectRuns,
		"time_sum":    summary.TimeSpentSum.String(),
		"watch":       a.cfg.WatchPacks,
		"dev":         a.cfg.Dev,
		"watchdog_ms": a.cfg.Focus.WatchdogMS,
	})

	a.restoreSelection(ctx)
	a.view.SetScreen(ui.ScreenPicker)

	if a.cfg.Dev {
		if err := a.startDevHTTP(); err != nil {
			return err
		}
	}
	if a.cfg.WatchPacks && a.loader != nil {
		a.startPackWatch(ctx)
	}
	return a.view.Run()
}

// restoreSelection puts the picker cursor on the last passage the learner
// opened, falling back to the last recorded run.
func (a *App) restoreSelection(ctx context.Context) {
	if settings, err := a.store.LoadSettings(ctx); err == nil && settings[settingLastPassage] != "" {
		a.view.SetSelection(settings[settingLastPack], settings[settingLastPassage])
		return
	}
	last, err := a.store.GetLastRun(ctx)
	if err != nil || last == nil {
		return
	}
	a.view.SetSelection(last.PackID, last.PassageID)
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.cancelWatch != nil {
		a.cancelWatch()
	}
	if a.devServer != nil {
		_ = a.devServer.Shutdown(ctx)
	}
	_ = a.store.Close()
	a.logger.Info("app.stop", nil)
	_ = a.logger.Close()
}

func (a *App) OnStartPassage(packID, passageID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := a.startPassage(ctx, packID, passageID); err != nil {
		a.logger.Error("passage.load_failed", map[string]any{"pack": packID, "passage": passageID, "error": err})
		a.view.SetSetupError("Could not load passage", err.Error())
	}
}

func (a *App) startPassage(ctx context.Context, packID, passageID string) error {
	ref := content.Ref{PackID: packID, PassageID: passageID}
	a.logger.Info("passage.load.begin", map[string]any{"ref": ref.String()})

	retry := a.cfg.RetryPolicy()
	retry.OnAttempt = func(attempt int, err error) {
		a.metrics.ContentAttempts.WithLabelValues("failed").Inc()
		a.logger.Warn("passage.fetch_failed", map[string]any{"ref": ref.String(), "attempt": attempt, "error": err})
	}
	p, err := content.FetchWithRetry(ctx, a.source, ref, retry)
	if err != nil {
		return err
	}
	a.metrics.ContentAttempts.WithLabelValues("ok").Inc()

	for _, issue := range passage.Check(p) {
		a.logger.Warn("passage.data_quality", map[string]any{"ref": ref.String(), "blank": issue.BlankID, "issue": issue.Message})
	}

	packName := packID
	if all, err := a.source.Packs(ctx); err == nil {
		for _, pk := range all {
			if pk.PackID == packID {
				packName = pk.Name
			}
		}
	}

	a.mu.Lock()
	a.run = activeRun{PackID: packID, PassageID: passageID, Started: time.Now().UTC()}
	a.mu.Unlock()

	a.view.StartExercise(ui.ExerciseSpec{
		Passage:   p,
		PackName:  packName,
		ModeLabel: a.mode.Label(),
		Layout:    a.cfg.AnswerLayout(),
		Focus:     a.cfg.FocusSettings(),
		TimeLimit: a.mode.timeLimit(p, a.cfg.TimeLimitSec),
	})
	if err := a.store.SaveSettings(ctx, map[string]string{settingLastPack: packID, settingLastPassage: passageID}); err != nil {
		a.logger.Warn("settings.save_failed", map[string]any{"error": err})
	}
	a.logger.Info("passage.load.done", map[string]any{"ref": ref.String(), "blanks": len(p.Blanks())})
	return nil
}

func (a *App) OnSubmit(res session.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.mu.Lock()
	run := a.run
	a.mu.Unlock()

	rec := state.RunResult{
		SessionID: a.sessionID,
		PackID:    res.PackID,
		PassageID: res.PassageID,
		Mode:      string(a.mode),
		Layout:    string(a.cfg.AnswerLayout()),
		StartTS:   run.Started,
		FinishTS:  time.Now().UTC(),
		Score:     res.Score,
		MaxScore:  res.MaxScore,
		TimeSpent: res.TimeSpent,
		Overtime:  res.Overtime,
		Blanks:    make([]state.BlankAnswer, 0, len(res.Blanks)),
	}
	if rec.StartTS.IsZero() {
		rec.StartTS = rec.FinishTS.Add(-res.TimeSpent)
	}
	for _, b := range res.Blanks {
		rec.Blanks = append(rec.Blanks, state.BlankAnswer{
			BlankID:  b.ID,
			Expected: b.Prefix + b.Expected,
			Given:    b.Prefix + b.Given,
			Correct:  b.Correct,
			Distance: b.Distance,
		})
	}

	runID, err := a.store.RecordResult(ctx, rec)
	if err != nil {
		a.metrics.Results.WithLabelValues("false").Inc()
		a.logger.Error("result.persist_failed", map[string]any{"passage": res.PassageID, "error": err})
		a.view.FlashStatus("Result not saved")
		return
	}
	a.metrics.Results.WithLabelValues("true").Inc()
	a.logger.Info("result.recorded", map[string]any{
		"run_id":   runID,
		"pack":     res.PackID,
		"passage":  res.PassageID,
		"score":    res.Score,
		"max":      res.MaxScore,
		"overtime": res.Overtime,
	})
	a.view.SetCatalog(a.catalog(ctx))
}

func (a *App) OnRetry() {
	a.mu.Lock()
	a.run.Started = time.Now().UTC()
	run := a.run
	a.mu.Unlock()
	a.logger.Info("passage.retry", map[string]any{"pack": run.PackID, "passage": run.PassageID})
}

func (a *App) OnNextPassage() {
	a.mu.Lock()
	run := a.run
	a.mu.Unlock()
	if !run.active() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	all, err := a.source.Packs(ctx)
	cancel()
	if err != nil {
		a.view.FlashStatus("Could not list passages")
		return
	}
	next, ok := packs.NextPassage(all, run.PackID, run.PassageID)
	if !ok {
		a.view.FlashStatus("No next passage")
		return
	}
	a.view.SetSelection(run.PackID, next)
	a.OnStartPassage(run.PackID, next)
}

func (a *App) OnBackToPicker() {
	a.mu.Lock()
	run := a.run
	a.run = activeRun{}
	a.mu.Unlock()
	a.logger.Info("ui.picker", map[string]any{"from": run.PassageID})
	a.view.SetSelection(run.PackID, run.PassageID)
	a.view.SetCatalog(a.catalog(context.Background()))
}

func (a *App) OnAction(kind engine.ActionKind, mutated bool) {
	a.metrics.Actions.WithLabelValues(kind.String()).Inc()
	if a.cfg.Debug {
		a.logger.Info("engine.action", map[string]any{"kind": kind.String(), "mutated": mutated})
	}
}

func (a *App) OnFocusCorrected(cell engine.Cell) {
	a.metrics.FocusCorrections.Inc()
	a.logger.Info("focus.drift", map[string]any{"restored": cell.String()})
}

func (a *App) OnTimeUp() {
	a.mu.Lock()
	run := a.run
	a.mu.Unlock()
	a.logger.Info("timer.expired", map[string]any{"pack": run.PackID, "passage": run.PassageID})
}

func (a *App) OnCopyResults(text string) {
	if a.clip == nil {
		return
	}
	if err := a.clip.WriteAll(text); err != nil {
		a.logger.Warn("clipboard.write_failed", map[string]any{"error": err})
	}
}

func (a *App) OnQuit() {
	a.view.Stop()
}

func (a *App) catalog(ctx context.Context) []ui.PackSummary {
	all, err := a.source.Packs(ctx)
	if err != nil {
		a.logger.Error("catalog.load_failed", map[string]any{"error": err})
		return nil
	}
	progress, err := a.store.GetProgressMap(ctx)
	if err != nil {
		a.logger.Warn("catalog.progress_failed", map[string]any{"error": err})
		progress = map[string]state.PassageProgress{}
	}

	out := make([]ui.PackSummary, 0, len(all))
	for _, pk := range all {
		ps := ui.PackSummary{
			PackID:        pk.PackID,
			Name:          pk.Name,
			DescriptionMD: pk.DescriptionMD,
			Passages:      make([]ui.PassageSummary, 0, len(pk.Passages)),
		}
		for _, spec := range pk.Passages {
			sum := ui.PassageSummary{
				PassageID:    spec.PassageID,
				Title:        spec.Title,
				TimeLimitSec: spec.TimeLimitSec,
			}
			if sum.TimeLimitSec == 0 {
				sum.TimeLimitSec = pk.Defaults.TimeLimitSec
			}
			if built, err := spec.Build(pk); err == nil {
				sum.Blanks = len(built.Blanks())
			}
			if pr, ok := progress[state.ProgressKey(pk.PackID, spec.PassageID)]; ok {
				sum.Attempts = pr.Attempts
				sum.BestScore = pr.BestScore
				sum.MaxScore = pr.MaxScore
				sum.LastPlayed = pr.LastPlayedTS
			}
			ps.Passages = append(ps.Passages, sum)
		}
		out = append(out, ps)
	}
	return out
}

func (a *App) startPackWatch(ctx context.Context) {
	watchCtx, cancel := context.WithCancel(ctx)
	a.cancelWatch = cancel
	go func() {
		err := a.loader.Watch(watchCtx, a.cfg.PackDir, 200*time.Millisecond, func(fresh []packs.Pack, err error) {
			if err != nil {
				a.logger.Warn("packs.reload_failed", map[string]any{"error": err})
				a.view.FlashStatus("Pack reload failed")
				return
			}
			a.source.SetPacks(fresh)
			a.view.SetCatalog(a.catalog(watchCtx))
			a.view.FlashStatus("Packs reloaded")
			a.logger.Info("packs.reloaded", map[string]any{"packs": len(fresh)})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("packs.watch_failed", map[string]any{"dir": a.cfg.PackDir, "error": err})
		}
	}()
}

func (a *App) devMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/__dev/ready", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		a.mu.Lock()
		run := a.run
		a.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session": a.sessionID,
			"mode":    string(a.mode),
			"active":  run.active(),
			"view":    a.view.Ready(),
		})
	})
	mux.Handle("/metrics", a.metrics.Handler())
	return mux
}

func (a *App) startDevHTTP() error {
	a.devServer = &http.Server{Addr: a.cfg.DevHTTP, Handler: a.devMux()}
	go func() {
		if err := a.devServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("dev_http.listen_failed", map[string]any{"error": err, "addr": a.cfg.DevHTTP})
		}
	}()
	a.logger.Info("dev_http.started", map[string]any{"addr": a.cfg.DevHTTP})
	return nil
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no system clipboard")
	}
	return clipboard.WriteAll(text)
}
