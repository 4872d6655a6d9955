package course

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BatchConfig holds script batch generator configuration.
type BatchConfig struct {
	// MaxConcurrency is the maximum number of parallel script generations.
	// Keep this low: each generation is a gateway completion call.
	MaxConcurrency int
	// Timeout per module script generation.
	Timeout time.Duration
}

// DefaultBatchConfig returns safe defaults for gateway-backed generation.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrency: 3,
		Timeout:        2 * time.Minute,
	}
}

// ScriptGenerator is the interface the batch generator drives. *Service
// satisfies it.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, req ScriptRequest) (*ScriptResponse, error)
}

// ModuleScript is the per-module outcome of a batch run. Err is set when
// that module's generation failed; the rest of the batch still completes.
type ModuleScript struct {
	Module Module
	Script *ScriptResponse
	Err    error
}

// BatchGenerator produces scripts for all modules of an outline in parallel
// using a bounded worker pool.
type BatchGenerator struct {
	generator ScriptGenerator
	config    BatchConfig
	logger    zerolog.Logger
}

// NewBatchGenerator creates a batch script generator.
func NewBatchGenerator(generator ScriptGenerator, config BatchConfig, logger zerolog.Logger) *BatchGenerator {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	return &BatchGenerator{
		generator: generator,
		config:    config,
		logger:    logger.With().Str("component", "batch-generator").Logger(),
	}
}

// GenerateAll generates scripts for every module of the outline. The result
// slice is index-aligned with outline.Modules. Failed modules carry their
// error in ModuleScript.Err; GenerateAll itself only fails when the context
// is cancelled before work completes.
func (bg *BatchGenerator) GenerateAll(ctx context.Context, outline OutlineResponse, base ScriptRequest) ([]ModuleScript, error) {
	start := time.Now()
	total := len(outline.Modules)

	bg.logger.Info().
		Str("course_title", base.CourseTitle).
		Int("modules", total).
		Msg("Starting batch script generation")

	results := make([]ModuleScript, total)
	for i, mod := range outline.Modules {
		results[i] = ModuleScript{Module: mod}
	}

	jobs := make(chan int, total)
	go func() {
		for i := 0; i < total; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	var mu sync.Mutex
	for w := 0; w < bg.config.MaxConcurrency; w++ {
		wg.Add(1)
		go bg.worker(ctx, outline, base, jobs, results, &mu, &wg, w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	bg.logger.Info().
		Str("course_title", base.CourseTitle).
		Int("modules", total).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Batch script generation complete")

	return results, nil
}

// worker processes module indexes from the job queue.
func (bg *BatchGenerator) worker(ctx context.Context, outline OutlineResponse, base ScriptRequest, jobs <-chan int, results []ModuleScript, mu *sync.Mutex, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for idx := range jobs {
		select {
		case <-ctx.Done():
			bg.logger.Debug().
				Int("worker_id", workerID).
				Int("processed", processed).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		mod := outline.Modules[idx]
		req := base
		req.ModuleTitle = mod.Title
		req.ModuleDescription = mod.Description

		modCtx, cancel := context.WithTimeout(ctx, bg.config.Timeout)
		script, err := bg.generator.GenerateScript(modCtx, req)
		cancel()

		if err != nil {
			bg.logger.Warn().
				Err(err).
				Int("worker_id", workerID).
				Str("module_title", mod.Title).
				Msg("Module script generation failed")
		}

		mu.Lock()
		results[idx].Script = script
		results[idx].Err = err
		mu.Unlock()

		processed++
	}

	if processed > 0 {
		bg.logger.Debug().
			Int("worker_id", workerID).
			Int("processed", processed).
			Msg("Worker completed")
	}
}
