package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/postforge/postforge/catalog"
	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/llm"
	"github.com/postforge/postforge/logger"
	"github.com/postforge/postforge/project"
	"github.com/postforge/postforge/session"
)

// StepType enumerates the stages of one generation run, in order.
type StepType int

const (
	AnalyzeProject StepType = iota
	GeneratePosts
	SaveSession
	Done
)

type StepPublisher interface {
	PublishStep(step StepType)
	Error(step StepType, err error)
}

type ExecutionRequest struct {
	RepoURL       string
	PlatformNames []string
	Instructions  string
	ResultChan    chan error
	CreatedAt     time.Time
}

// Engine runs generation requests on a background worker so the terminal UI
// stays responsive.
type Engine struct {
	cfg          *config.Config
	pub          StepPublisher
	logger       logger.Logger
	analyzer     *project.Analyzer
	store        session.Store
	requests     chan ExecutionRequest
	workerWG     sync.WaitGroup
	shutdownChan chan struct{}

	mu           sync.Mutex
	quotaWarning bool
}

func NewEngine(cfg *config.Config, pub StepPublisher, l logger.Logger, store session.Store) *Engine {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Engine{
		cfg:          cfg,
		pub:          pub,
		logger:       l,
		analyzer:     project.NewAnalyzer(),
		store:        store,
		requests:     make(chan ExecutionRequest, 16),
		shutdownChan: make(chan struct{}),
	}
}

func (e *Engine) Start(ctx context.Context) {
	e.workerWG.Add(1)
	go e.worker(ctx)
}

func (e *Engine) worker(ctx context.Context) {
	defer e.workerWG.Done()
	for {
		select {
		case req := <-e.requests:
			err := e.run(ctx, req)
			req.ResultChan <- err
			close(req.ResultChan)
		case <-ctx.Done():
			return
		case <-e.shutdownChan:
			return
		}
	}
}

func (e *Engine) run(ctx context.Context, req ExecutionRequest) error {
	proj, err := e.analyzer.Analyze(ctx, req.RepoURL)
	if err != nil {
		e.pub.Error(AnalyzeProject, err)
		return err
	}
	e.pub.PublishStep(AnalyzeProject)

	specs, err := resolvePlatforms(req.PlatformNames)
	if err != nil {
		e.pub.Error(GeneratePosts, err)
		return err
	}

	generator, err := llm.NewGenerator(llm.Config{
		Provider:       e.cfg.Provider,
		APIKey:         e.cfg.APIKey(),
		Model:          e.cfg.ModelName,
		RequestTimeout: time.Duration(e.cfg.RequestTimeoutSeconds) * time.Second,
		SessionCallCap: e.cfg.GeminiSessionCap,
		CallSpacing:    time.Duration(e.cfg.GeminiCallSpacingSeconds) * time.Second,
		Logger:         e.logger,
	})
	if err != nil {
		e.pub.Error(GeneratePosts, err)
		return err
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}

	posts, err := generator.GenerateSocialPosts(ctx, proj, specs, req.Instructions)
	if err != nil {
		e.pub.Error(GeneratePosts, err)
		return err
	}
	e.pub.PublishStep(GeneratePosts)

	if generator.QuotaExhausted() {
		e.mu.Lock()
		e.quotaWarning = true
		e.mu.Unlock()
	}

	if err := e.store.SaveProject(proj); err != nil {
		e.pub.Error(SaveSession, err)
		return err
	}
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	if err := e.store.SaveSelectedPlatforms(names); err != nil {
		e.pub.Error(SaveSession, err)
		return err
	}
	if err := e.store.SavePosts(posts); err != nil {
		e.pub.Error(SaveSession, err)
		return err
	}
	e.pub.PublishStep(SaveSession)
	e.pub.PublishStep(Done)
	return nil
}

// QuotaWarning reports whether the last run degraded to fallback content
// because the provider signaled quota exhaustion.
func (e *Engine) QuotaWarning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quotaWarning
}

func (e *Engine) AddRequest(repoURL string, platformNames []string, instructions string) chan error {
	resultChan := make(chan error, 1)
	e.requests <- ExecutionRequest{
		RepoURL:       repoURL,
		PlatformNames: platformNames,
		Instructions:  instructions,
		ResultChan:    resultChan,
		CreatedAt:     time.Now(),
	}
	return resultChan
}

func (e *Engine) Shutdown(timeout time.Duration) {
	close(e.shutdownChan)

	done := make(chan struct{})
	go func() {
		e.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine worker shut down gracefully")
	case <-time.After(timeout):
		e.logger.Warn("Shutdown timed out, worker may still be running")
	}
}

// resolvePlatforms maps user-supplied names onto catalog specs. Names are
// matched case-insensitively; an empty list selects every non-community
// platform.
func resolvePlatforms(names []string) ([]catalog.PlatformSpec, error) {
	all := catalog.Platforms()
	if len(names) == 0 {
		var specs []catalog.PlatformSpec
		for _, p := range all {
			if !p.Community {
				specs = append(specs, p)
			}
		}
		return specs, nil
	}

	var specs []catalog.PlatformSpec
	for _, name := range names {
		want := strings.TrimSpace(name)
		found := false
		for _, p := range all {
			if strings.EqualFold(p.Name, want) {
				specs = append(specs, p)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown platform %q, run 'postforge platforms' to list available ones", want)
		}
	}
	return specs, nil
}
