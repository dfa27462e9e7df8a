package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"trackmatch/internal/logging"
	"trackmatch/internal/matching"
	"trackmatch/internal/review"
	"trackmatch/internal/runctx"
)

// Match methods reported on an Outcome.
const (
	MethodISRC   = "isrc"
	MethodSearch = "search"
)

const (
	defaultWorkers = 4
	progressPhase  = "matching"
)

// ErrLocked is returned when another batch run holds the lock.
var ErrLocked = errors.New("another batch run is already running")

// Recorder persists declined tracks for manual follow-up.
type Recorder interface {
	Add(ctx context.Context, entry review.Entry) (*review.Entry, error)
}

// Outcome is the result for one source track.
type Outcome struct {
	Index      int                  `json:"index"`
	Source     matching.Track       `json:"source"`
	RequestID  string               `json:"request_id"`
	Method     string               `json:"method,omitempty"`
	Result     matching.Result      `json:"result"`
	Assessment *matching.Assessment `json:"assessment,omitempty"`
	ReviewID   int64                `json:"review_id,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Matched reports whether a candidate was selected without error.
func (o Outcome) Matched() bool {
	return o.Error == "" && o.Result.Matched()
}

// Summary aggregates a run.
type Summary struct {
	RunID        string                      `json:"run_id"`
	Total        int                         `json:"total"`
	Matched      int                         `json:"matched"`
	Declined     int                         `json:"declined"`
	Failed       int                         `json:"failed"`
	Recorded     int                         `json:"recorded"`
	ByIdentifier int                         `json:"by_identifier"`
	ByConfidence map[matching.Confidence]int `json:"by_confidence"`
	Elapsed      time.Duration               `json:"elapsed"`
}

// Report is the full output of Run.
type Report struct {
	Summary  Summary   `json:"summary"`
	Outcomes []Outcome `json:"outcomes"`
}

// Runner drives batch matching.
type Runner struct {
	matcher  *matching.Matcher
	search   matching.SearchProvider
	albums   matching.AlbumValidator
	recorder Recorder
	workers  int
	lockPath string
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithAlbums sets the album validator used when assessing declines.
func WithAlbums(v matching.AlbumValidator) Option {
	return func(r *Runner) { r.albums = v }
}

// WithRecorder records declined tracks.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithWorkers bounds concurrency. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLockPath holds an exclusive lock on path for the duration of a run.
func WithLockPath(path string) Option {
	return func(r *Runner) { r.lockPath = path }
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner constructs a Runner.
func NewRunner(m *matching.Matcher, search matching.SearchProvider, opts ...Option) (*Runner, error) {
	if m == nil {
		return nil, errors.New("batch runner requires a matcher")
	}
	if search == nil {
		return nil, errors.New("batch runner requires a search provider")
	}
	r := &Runner{
		matcher: m,
		search:  search,
		workers: defaultWorkers,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "batch")
	return r, nil
}

// Run matches every source track. Per-track search and record failures are
// reported on the Outcome; Run itself fails only when the lock cannot be
// taken or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, sources []matching.Track) (*Report, error) {
	runID := uuid.NewString()
	ctx = runctx.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	if r.lockPath != "" {
		if err := os.MkdirAll(filepath.Dir(r.lockPath), 0o755); err != nil {
			return nil, fmt.Errorf("create lock directory: %w", err)
		}
		lock := flock.New(r.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w (lock %s)", ErrLocked, r.lockPath)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logging.WarnWithContext(logger, "failed to release batch lock", "lock_release_failed",
					logging.Error(err),
					logging.String("lock_path", r.lockPath),
					logging.String(logging.FieldErrorHint, "remove the lock file if no batch is running"),
				)
			}
		}()
	}

	start := time.Now()
	logger.Info("batch started",
		logging.Int("tracks", len(sources)),
		logging.Int("workers", r.workers),
	)

	outcomes := make([]Outcome, len(sources))
	progress := newProgress(len(sources))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(r.workers, max(len(sources), 1)) {
		wg.Go(func() {
			for i := range jobs {
				outcomes[i] = r.process(ctx, i, sources[i])
				progress.advance(logger)
			}
		})
	}

feed:
	for i := range sources {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := summarize(runID, outcomes)
	summary.Elapsed = time.Since(start)
	logger.Info("batch complete",
		logging.Int("total", summary.Total),
		logging.Int("matched", summary.Matched),
		logging.Int("declined", summary.Declined),
		logging.Int("failed", summary.Failed),
		logging.Int("recorded", summary.Recorded),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return &Report{Summary: summary, Outcomes: outcomes}, nil
}

func (r *Runner) process(ctx context.Context, index int, src matching.Track) Outcome {
	requestID := uuid.NewString()
	ctx = runctx.WithRequestID(ctx, requestID)
	ctx = runctx.WithTrackKey(ctx, matching.TrackKey(src))
	logger := logging.WithContext(ctx, r.logger)

	out := Outcome{Index: index, Source: src, RequestID: requestID}
	cands, err := r.search.Search(ctx, src)
	if err != nil {
		out.Error = fmt.Sprintf("search: %v", err)
		logging.ErrorWithContext(logger, "candidate search failed", "search_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the catalog path and format"),
		)
		return out
	}

	out.Result = r.matcher.Match(src, cands)
	if out.Result.Matched() {
		out.Method = methodFor(out.Result)
		logger.Debug("track matched",
			logging.String("rule", out.Result.Rule),
			logging.String("confidence", string(out.Result.Confidence)),
			logging.String("method", out.Method),
		)
		return out
	}

	assessment := r.matcher.AssessWith(ctx, r.albums, src, cands)
	out.Assessment = &assessment
	logger.Info("track declined",
		logging.String("reason", out.Result.Reason),
		logging.Int("candidates", len(cands)),
		logging.Int("unavailable_confidence", assessment.Confidence),
	)
	if r.recorder == nil {
		return out
	}
	entry := review.NewEntry(src, out.Result, &assessment)
	entry.RunID, _ = runctx.RunIDFromContext(ctx)
	saved, err := r.recorder.Add(ctx, entry)
	if err != nil {
		logging.WarnWithContext(logger, "failed to record declined track", "review_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run trackmatch check to verify the review database"),
			logging.String(logging.FieldImpact, "track will not appear in the review queue"),
		)
		return out
	}
	out.ReviewID = saved.ID
	return out
}

func methodFor(result matching.Result) string {
	if result.Rule == matching.RuleIdentifier {
		return MethodISRC
	}
	return MethodSearch
}

func summarize(runID string, outcomes []Outcome) Summary {
	s := Summary{
		RunID:        runID,
		Total:        len(outcomes),
		ByConfidence: make(map[matching.Confidence]int),
	}
	for _, o := range outcomes {
		switch {
		case o.Error != "":
			s.Failed++
			continue
		case o.Result.Matched():
			s.Matched++
			if o.Method == MethodISRC {
				s.ByIdentifier++
			}
		default:
			s.Declined++
		}
		s.ByConfidence[o.Result.Confidence]++
		if o.ReviewID != 0 {
			s.Recorded++
		}
	}
	return s
}

type progress struct {
	mu      sync.Mutex
	sampler *logging.ProgressSampler
	done    int
	total   int
}

func newProgress(total int) *progress {
	return &progress{sampler: logging.NewProgressSampler(10), total: total}
}

func (p *progress) advance(logger *slog.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	percent := logging.Percent(p.done, p.total)
	if !p.sampler.ShouldLog(percent, progressPhase) {
		return
	}
	logger.Info("batch progress",
		logging.Int("done", p.done),
		logging.Int("total", p.total),
		logging.Float64("percent", percent),
	)
}
