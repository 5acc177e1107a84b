// Package orchestrator drives concurrent discovery pipelines over the
// queue of pending subjects with rate limiting and auto-continuation.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"partnerscout/internal/merge"
	"partnerscout/internal/progress"
	"partnerscout/internal/scout"
)

// Config controls batch sizing and pacing. Values are expected to be
// pre-clamped by the config package.
type Config struct {
	BatchSize   int
	Concurrency int
	Pause       time.Duration
	// Topic enables subject-completion publishing when non-empty.
	Topic string
}

// SubjectProber runs one full discovery pass. *prober.Prober satisfies it.
type SubjectProber interface {
	Probe(ctx context.Context, sub scout.Subject) scout.Outcome
}

// Orchestrator pulls pages of pending subjects and fans out per-subject
// pipelines in fixed-size sub-batches.
type Orchestrator struct {
	store     scout.SubjectStore
	prober    SubjectProber
	emitter   progress.Emitter
	publisher scout.Publisher
	clock     scout.Clock
	sleeper   scout.Sleeper
	cfg       Config
	logger    *zap.Logger

	mu   sync.Mutex
	last progress.Summary
}

// New constructs an Orchestrator. emitter and publisher may be nil.
func New(
	store scout.SubjectStore,
	prober SubjectProber,
	emitter progress.Emitter,
	publisher scout.Publisher,
	clock scout.Clock,
	sleeper scout.Sleeper,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.Pause <= 0 {
		cfg.Pause = 60 * time.Second
	}
	if clock == nil {
		clock = systemClock{}
	}
	if sleeper == nil {
		sleeper = systemSleeper{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     store,
		prober:    prober,
		emitter:   emitter,
		publisher: publisher,
		clock:     clock,
		sleeper:   sleeper,
		cfg:       cfg,
		logger:    logger,
	}
}

// LastSummary reports the most recently completed batch's accounting.
func (o *Orchestrator) LastSummary() progress.Summary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// RunBatch fetches one page of pending subjects and processes all of them,
// chunked into fixed-size sub-batches with full fan-out within each chunk.
// One subject's failure never aborts the batch.
func (o *Orchestrator) RunBatch(ctx context.Context) (progress.Summary, error) {
	return o.runBatch(ctx, 1)
}

func (o *Orchestrator) runBatch(ctx context.Context, batchNum int) (progress.Summary, error) {
	subjects, err := o.store.ListPending(ctx, o.cfg.BatchSize)
	if err != nil {
		return progress.Summary{}, fmt.Errorf("list pending subjects: %w", err)
	}

	summary := progress.Summary{Total: len(subjects)}
	o.emit(progress.Event{
		TS:    o.clock.Now(),
		Stage: progress.StageBatchStart,
		Batch: batchNum,
		Note:  fmt.Sprintf("%d subjects", len(subjects)),
	})

	var mu sync.Mutex
	for start := 0; start < len(subjects); start += o.cfg.Concurrency {
		end := min(start+o.cfg.Concurrency, len(subjects))

		var wg sync.WaitGroup
		for _, sub := range subjects[start:end] {
			wg.Add(1)
			go func(sub scout.Subject) {
				defer wg.Done()
				ok := o.processSubject(ctx, sub)
				mu.Lock()
				if ok {
					summary.Successful++
				} else {
					summary.Failed++
				}
				mu.Unlock()
			}(sub)
		}
		wg.Wait()
	}

	o.emit(progress.Event{
		TS:      o.clock.Now(),
		Stage:   progress.StageBatchDone,
		Batch:   batchNum,
		Summary: summary,
	})
	o.mu.Lock()
	o.last = summary
	o.mu.Unlock()
	return summary, nil
}

// RunAuto repeatedly executes batches until no pending subjects remain or
// the context is canceled, pausing between batches as a global throttle.
func (o *Orchestrator) RunAuto(ctx context.Context) (progress.Summary, error) {
	var total progress.Summary
	for batchNum := 1; ; batchNum++ {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("auto run stopped: %w", err)
		}

		summary, err := o.runBatch(ctx, batchNum)
		if err != nil {
			return total, err
		}
		total.Add(summary)
		if summary.Total == 0 {
			break
		}

		pending, err := o.store.CountPending(ctx)
		if err != nil {
			return total, fmt.Errorf("count pending subjects: %w", err)
		}
		if pending == 0 {
			break
		}

		o.emit(progress.Event{
			TS:      o.clock.Now(),
			Stage:   progress.StagePause,
			Dur:     o.cfg.Pause,
			Summary: progress.Summary{Total: pending},
			Note:    fmt.Sprintf("%d subjects still pending", pending),
		})
		if err := o.sleeper.Sleep(ctx, o.cfg.Pause); err != nil {
			return total, fmt.Errorf("inter-batch pause: %w", err)
		}
	}

	o.emit(progress.Event{
		TS:      o.clock.Now(),
		Stage:   progress.StageRunDone,
		Summary: total,
	})
	return total, nil
}

// processSubject runs one pipeline end to end and reports success. All
// failure modes are contained here: a panic or error becomes a failure
// count plus a best-effort defensive status write.
func (o *Orchestrator) processSubject(ctx context.Context, sub scout.Subject) (ok bool) {
	start := o.clock.Now()
	log := o.logger.With(zap.String("subject_id", sub.ID), zap.String("subject", sub.Name))

	defer func() {
		if r := recover(); r != nil {
			log.Error("subject pipeline panicked", zap.Any("panic", r))
			o.failSubject(ctx, sub, start, fmt.Sprintf("pipeline panic: %v", r))
			ok = false
		}
	}()

	o.emit(progress.Event{
		TS:          start,
		Stage:       progress.StageSubjectStart,
		SubjectID:   sub.ID,
		SubjectName: sub.Name,
	})

	outcome := o.prober.Probe(ctx, sub)

	// Fresh read before merge keeps repeated passes close to idempotent;
	// a concurrent external edit of the same row is an accepted race.
	stored, err := o.store.Get(ctx, sub.ID)
	if err != nil {
		log.Error("read subject before merge failed", zap.Error(err))
		o.failSubject(ctx, sub, start, fmt.Sprintf("read before merge: %v", err))
		return false
	}

	upd := merge.BuildUpdate(stored, outcome)
	if err := o.store.Update(ctx, sub.ID, upd); err != nil {
		log.Error("persist subject update failed", zap.Error(err))
		o.failSubject(ctx, sub, start, fmt.Sprintf("persist update: %v", err))
		return false
	}

	o.emit(progress.Event{
		TS:          o.clock.Now(),
		Stage:       progress.StageSubjectDone,
		SubjectID:   sub.ID,
		SubjectName: sub.Name,
		Dur:         o.clock.Now().Sub(start),
		Note:        string(outcome.Status),
	})
	o.publish(ctx, sub, outcome)
	return true
}

// failSubject records the failure and attempts a defensive write so the
// subject is not left silently stuck in Pending. The defensive write's own
// failure is logged and swallowed.
func (o *Orchestrator) failSubject(ctx context.Context, sub scout.Subject, start time.Time, note string) {
	o.emit(progress.Event{
		TS:          o.clock.Now(),
		Stage:       progress.StageSubjectError,
		SubjectID:   sub.ID,
		SubjectName: sub.Name,
		Dur:         o.clock.Now().Sub(start),
		Note:        note,
	})

	notFound := scout.StatusNotFound
	upd := scout.Update{
		Status: &notFound,
		Notes:  scout.StrPtr("Error: " + note),
	}
	if err := o.store.Update(ctx, sub.ID, upd); err != nil {
		o.logger.Warn("defensive status write failed",
			zap.String("subject_id", sub.ID), zap.Error(err))
	}
}

func (o *Orchestrator) publish(ctx context.Context, sub scout.Subject, outcome scout.Outcome) {
	if o.publisher == nil || o.cfg.Topic == "" {
		return
	}
	payload := map[string]any{
		"subject_id":    sub.ID,
		"name":          sub.Name,
		"status":        string(outcome.Status),
		"outreach":      string(outcome.Outreach),
		"affiliate_url": outcome.AffiliateURL,
		"source":        string(outcome.Source),
		"timestamp":     o.clock.Now().Format(time.RFC3339),
	}
	if _, err := o.publisher.Publish(ctx, o.cfg.Topic, payload); err != nil {
		o.logger.Warn("publish subject completion failed",
			zap.String("subject_id", sub.ID), zap.Error(err))
	}
}

func (o *Orchestrator) emit(evt progress.Event) {
	if o.emitter != nil {
		o.emitter.Emit(evt)
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type systemSleeper struct{}

// Sleep honors ctx cancellation so an auto run can be stopped during the
// inter-batch pause.
func (systemSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
