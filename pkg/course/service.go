// Package course implements the AI-backed course generation operations:
// title suggestions, outlines, module scripts, and structure analysis.
// All operations run through the aicache layer so identical requests within
// the TTL window do not pay for a second gateway call.
package course

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/svenska-creator/coursegen/pkg/aicache"
	"github.com/svenska-creator/coursegen/pkg/gateway"
)

// Operation names used as cache-key identity and in diagnostics.
const (
	OpGenerateTitles   = "generate-titles"
	OpGenerateOutline  = "generate-outline"
	OpGenerateScript   = "generate-script"
	OpAnalyzeStructure = "analyze-structure"
)

// Defaults applied to incomplete requests.
const (
	DefaultNumModules     = 5
	DefaultLanguage       = "sv"
	DefaultTone           = "professional"
	DefaultTargetDuration = 10
)

// Token budgets per operation, mirroring the cost profile of each prompt.
const (
	titleMaxTokens   = 4000
	outlineMaxTokens = 6000
	scriptMaxTokens  = 8000
)

// Completer is the slice of the gateway client the service needs.
type Completer interface {
	CompleteJSON(ctx context.Context, p gateway.Prompt) (json.RawMessage, error)
}

// Service generates course content via the AI gateway.
type Service struct {
	completer Completer
	cache     *aicache.Cache
	ttl       time.Duration
	logger    zerolog.Logger
}

// NewService creates a course generation service. ttl is the cache lifetime
// for generated content; non-positive values fall back to aicache.DefaultTTL.
func NewService(completer Completer, cache *aicache.Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	if completer == nil {
		panic("course: completer cannot be nil")
	}
	if cache == nil {
		panic("course: cache cannot be nil")
	}
	if ttl <= 0 {
		ttl = aicache.DefaultTTL
	}
	return &Service{
		completer: completer,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.With().Str("component", "course-service").Logger(),
	}
}

// GenerateTitles produces five alternative course titles for the topic.
func (s *Service) GenerateTitles(ctx context.Context, req TitleRequest) (*TitleResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("course title is required")
	}
	req.Language = normalizeLanguage(req.Language)

	params := struct {
		Title    string `json:"title"`
		Language string `json:"language"`
	}{req.Title, req.Language}

	result, err := s.cache.Fetch(ctx, OpGenerateTitles, params, s.ttl, req.SkipCache,
		func(ctx context.Context) (json.RawMessage, error) {
			system, user := titlePrompts(req)
			return s.completer.CompleteJSON(ctx, gateway.Prompt{
				System:    system,
				User:      user,
				MaxTokens: titleMaxTokens,
			})
		})
	if err != nil {
		return nil, err
	}

	var resp TitleResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("decode title suggestions: %w", err)
	}
	resp.FromCache = result.FromCache
	return &resp, nil
}

// GenerateOutline produces a module-by-module course outline.
func (s *Service) GenerateOutline(ctx context.Context, req OutlineRequest) (*OutlineResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("course title is required")
	}
	if req.NumModules <= 0 {
		req.NumModules = DefaultNumModules
	}
	req.Language = normalizeLanguage(req.Language)

	params := struct {
		Title             string `json:"title"`
		NumModules        int    `json:"num_modules"`
		Language          string `json:"language"`
		AdditionalContext string `json:"additional_context,omitempty"`
	}{req.Title, req.NumModules, req.Language, req.AdditionalContext}

	result, err := s.cache.Fetch(ctx, OpGenerateOutline, params, s.ttl, req.SkipCache,
		func(ctx context.Context) (json.RawMessage, error) {
			system, user := outlinePrompts(req)
			return s.completer.CompleteJSON(ctx, gateway.Prompt{
				System:    system,
				User:      user,
				MaxTokens: outlineMaxTokens,
			})
		})
	if err != nil {
		return nil, err
	}

	var resp OutlineResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("decode outline: %w", err)
	}
	resp.FromCache = result.FromCache
	return &resp, nil
}

// GenerateScript produces the spoken script for one module.
func (s *Service) GenerateScript(ctx context.Context, req ScriptRequest) (*ScriptResponse, error) {
	if strings.TrimSpace(req.ModuleTitle) == "" {
		return nil, fmt.Errorf("module title is required")
	}
	if req.TargetDuration <= 0 {
		req.TargetDuration = DefaultTargetDuration
	}
	if req.Tone == "" {
		req.Tone = DefaultTone
	}
	req.Language = normalizeLanguage(req.Language)

	params := struct {
		ModuleTitle       string `json:"module_title"`
		ModuleDescription string `json:"module_description"`
		CourseTitle       string `json:"course_title"`
		Language          string `json:"language"`
		TargetDuration    int    `json:"target_duration"`
		Tone              string `json:"tone"`
		AdditionalContext string `json:"additional_context,omitempty"`
	}{req.ModuleTitle, req.ModuleDescription, req.CourseTitle, req.Language,
		req.TargetDuration, req.Tone, req.AdditionalContext}

	result, err := s.cache.Fetch(ctx, OpGenerateScript, params, s.ttl, req.SkipCache,
		func(ctx context.Context) (json.RawMessage, error) {
			system, user := scriptPrompts(req)
			return s.completer.CompleteJSON(ctx, gateway.Prompt{
				System:    system,
				User:      user,
				MaxTokens: scriptMaxTokens,
			})
		})
	if err != nil {
		return nil, err
	}

	var resp ScriptResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	resp.FromCache = result.FromCache
	return &resp, nil
}

// AnalyzeStructure recommends module count, duration, and learning
// objectives for a course topic.
func (s *Service) AnalyzeStructure(ctx context.Context, req StructureRequest) (*StructureAnalysis, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("course title is required")
	}

	params := struct {
		Title          string `json:"title"`
		Description    string `json:"description,omitempty"`
		TargetAudience string `json:"target_audience,omitempty"`
	}{req.Title, req.Description, req.TargetAudience}

	result, err := s.cache.Fetch(ctx, OpAnalyzeStructure, params, s.ttl, req.SkipCache,
		func(ctx context.Context) (json.RawMessage, error) {
			system, user := structurePrompts(req)
			return s.completer.CompleteJSON(ctx, gateway.Prompt{
				System:    system,
				User:      user,
				MaxTokens: titleMaxTokens,
			})
		})
	if err != nil {
		return nil, err
	}

	var resp StructureAnalysis
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("decode structure analysis: %w", err)
	}
	resp.FromCache = result.FromCache
	return &resp, nil
}

func normalizeLanguage(lang string) string {
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}
