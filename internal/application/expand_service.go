package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/expand"
	"github.com/charmpack/charmpack/internal/domain/profiles"
)

// ExpandService orchestrates expansion of descriptors on disk:
// load config → read descriptor → decode → expand → encode.
type ExpandService struct {
	registry     *profiles.Registry
	codec        domain.DescriptorCodec
	configLoader domain.ConfigLoader
	finder       domain.DescriptorFinder
	cache        domain.ValidationCache
	revisions    domain.RevisionReader
	logger       *zap.Logger
}

func NewExpandService(
	registry *profiles.Registry,
	codec domain.DescriptorCodec,
	configLoader domain.ConfigLoader,
	finder domain.DescriptorFinder,
	cache domain.ValidationCache,
	revisions domain.RevisionReader,
	logger *zap.Logger,
) *ExpandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpandService{
		registry:     registry,
		codec:        codec,
		configLoader: configLoader,
		finder:       finder,
		cache:        cache,
		revisions:    revisions,
		logger:       logger,
	}
}

// ExpandOptions tunes a single expansion. Zero values defer to the
// project's .charmpack.yaml.
type ExpandOptions struct {
	Extension  string
	Format     domain.OutputFormat
	Descriptor string
}

// ExpandResult is a successful expansion and its encoded form.
type ExpandResult struct {
	Path     string
	Expanded *domain.ExpandedDescriptor
	Output   []byte
}

// Registry exposes the profiles the service expands against.
func (s *ExpandService) Registry() *profiles.Registry { return s.registry }

// ExpandProject expands the descriptor of the project at projectPath.
// Nothing on disk is modified.
func (s *ExpandService) ExpandProject(projectPath string, opts ExpandOptions) (*ExpandResult, error) {
	cfg, err := s.loadConfig(projectPath, opts)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(projectPath, cfg.Descriptor)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}

	expanded, out, err := s.expandBytes(data, opts.Extension, cfg)
	if err != nil {
		return nil, err
	}
	return &ExpandResult{Path: path, Expanded: expanded, Output: out}, nil
}

// ExpandDocument expands descriptor content supplied directly, using the
// default engine configuration.
func (s *ExpandService) ExpandDocument(data []byte, opts ExpandOptions) (*ExpandResult, error) {
	cfg := domain.DefaultConfig().Merge(domain.EngineConfig{Format: opts.Format})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	expanded, out, err := s.expandBytes(data, opts.Extension, cfg)
	if err != nil {
		return nil, err
	}
	return &ExpandResult{Expanded: expanded, Output: out}, nil
}

func (s *ExpandService) loadConfig(projectPath string, opts ExpandOptions) (domain.EngineConfig, error) {
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return domain.EngineConfig{}, fmt.Errorf("loading config: %w", err)
	}
	cfg = cfg.Merge(domain.EngineConfig{Descriptor: opts.Descriptor, Format: opts.Format})
	if err := cfg.Validate(); err != nil {
		return domain.EngineConfig{}, err
	}
	return cfg, nil
}

func (s *ExpandService) expandBytes(data []byte, tag string, cfg domain.EngineConfig) (*domain.ExpandedDescriptor, []byte, error) {
	d, err := s.codec.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("descriptor decoded",
		zap.Strings("extensions", d.Extensions),
		zap.Int("options", len(d.Options)),
		zap.Int("integrations", d.IntegrationCount()),
		zap.Int("services", len(d.Services)),
	)

	expanded, err := expand.New(s.registry, cfg.Limits).Expand(d, tag)
	if err != nil {
		s.logger.Debug("expansion failed", zap.Int("problems", len(domain.Problems(err))))
		return nil, nil, err
	}
	s.logger.Debug("descriptor expanded",
		zap.Strings("extensions", expanded.Extensions),
		zap.Int("bindings", len(expanded.Environment)),
		zap.Int("secrets", len(expanded.Secrets)),
	)

	out, err := s.codec.Encode(expanded, cfg.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding descriptor: %w", err)
	}
	return expanded, out, nil
}

// ValidateOptions tunes ValidateAll.
type ValidateOptions struct {
	// Recursive searches directories for descriptors instead of reading
	// the project descriptor directly inside them.
	Recursive bool
	NoCache   bool
}

// ValidateAll expands every descriptor reachable from paths concurrently
// and returns one result per descriptor, in path order. Expansion problems
// are recorded in the results; the error reports only failures to locate
// descriptors or cancellation.
func (s *ExpandService) ValidateAll(ctx context.Context, paths []string, opts ValidateOptions) ([]domain.ValidationResult, error) {
	targets, err := s.resolveTargets(paths, opts.Recursive)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("validating descriptors", zap.Int("count", len(targets)))

	results := make([]domain.ValidationResult, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.validateOne(target, opts.NoCache)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *ExpandService) resolveTargets(paths []string, recursive bool) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var targets []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			targets = append(targets, abs)
			continue
		}

		cfg, err := s.configLoader.Load(abs)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		if !recursive {
			targets = append(targets, filepath.Join(abs, cfg.Descriptor))
			continue
		}
		found, err := s.finder.Find(abs, filepath.Base(cfg.Descriptor), cfg.ExcludePaths...)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", p, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no %s found under %s", filepath.Base(cfg.Descriptor), p)
		}
		targets = append(targets, found...)
	}
	return targets, nil
}

func (s *ExpandService) validateOne(path string, noCache bool) domain.ValidationResult {
	dir := filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NewValidationResult(path, fmt.Errorf("reading descriptor: %w", err))
	}
	cfg, err := s.configLoader.Load(dir)
	if err != nil {
		return domain.NewValidationResult(path, fmt.Errorf("loading config: %w", err))
	}
	digest := digestOf(data, cfg.Limits)

	if !noCache {
		if record, err := s.cache.Load(dir); err == nil && record != nil && !record.IsInvalidated(digest, profiles.Version) {
			s.logger.Debug("validation cache hit", zap.String("path", path))
			return domain.ValidationResult{
				Path:      path,
				Extension: record.Extension,
				Bindings:  record.Bindings,
				Cached:    true,
			}
		}
	}

	expanded, _, err := s.expandBytes(data, "", cfg)
	if err != nil {
		if cacheErr := s.cache.Invalidate(dir); cacheErr != nil {
			s.logger.Warn("invalidating validation cache", zap.String("path", path), zap.Error(cacheErr))
		}
		return domain.NewValidationResult(path, err)
	}

	result := domain.ValidationResult{Path: path, Bindings: len(expanded.Environment)}
	if len(expanded.Extensions) > 0 {
		result.Extension = expanded.Extensions[0]
	}
	if !noCache {
		record := &domain.ValidationRecord{
			ProjectPath:     dir,
			Digest:          digest,
			RegistryVersion: profiles.Version,
			Extension:       result.Extension,
			Bindings:        result.Bindings,
		}
		if err := s.cache.Save(record); err != nil {
			s.logger.Warn("saving validation cache", zap.String("path", path), zap.Error(err))
		}
	}
	return result
}

// DiffResult holds two encoded expansions of the same descriptor.
type DiffResult struct {
	Path     string
	Revision string
	Before   []byte
	After    []byte
}

// Changed reports whether the expansions differ.
func (r *DiffResult) Changed() bool { return string(r.Before) != string(r.After) }

// Diff expands the project descriptor as committed at revision and as it
// is in the working tree. A descriptor that did not exist at revision
// diffs against an empty document; any other failure to read it, such as
// an unknown revision, is returned.
func (s *ExpandService) Diff(projectPath, revision string, opts ExpandOptions) (*DiffResult, error) {
	if !s.revisions.IsGitRepo(projectPath) {
		return nil, fmt.Errorf("%s is not inside a git repository", projectPath)
	}
	current, err := s.ExpandProject(projectPath, opts)
	if err != nil {
		return nil, err
	}

	cfg, err := s.loadConfig(projectPath, opts)
	if err != nil {
		return nil, err
	}

	result := &DiffResult{Path: current.Path, Revision: revision, After: current.Output}
	old, err := s.revisions.ReadAt(current.Path, revision)
	if errors.Is(err, domain.ErrNotAtRevision) {
		s.logger.Debug("no committed descriptor", zap.String("revision", revision), zap.Error(err))
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading descriptor at %s: %w", revision, err)
	}
	_, before, err := s.expandBytes(old, opts.Extension, cfg)
	if err != nil {
		return nil, fmt.Errorf("expanding descriptor at %s: %w", revision, err)
	}
	result.Before = before
	return result, nil
}

// ErrDescriptorExists is returned by Scaffold when the project already has
// a descriptor and overwriting was not requested.
var ErrDescriptorExists = errors.New("descriptor already exists")

// Scaffold writes a starter descriptor using extension to projectPath and
// checks that it expands. It returns the written path.
func (s *ExpandService) Scaffold(projectPath, extension, name string, force bool) (string, error) {
	if _, err := s.registry.Get(extension); err != nil {
		return "", err
	}
	if name == "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("resolving path: %w", err)
		}
		name = filepath.Base(abs)
	}

	cfg, err := s.loadConfig(projectPath, ExpandOptions{})
	if err != nil {
		return "", err
	}
	path := filepath.Join(projectPath, cfg.Descriptor)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s: %w (use --force to overwrite)", cfg.Descriptor, ErrDescriptorExists)
		}
	}

	content := starterDescriptor(name, extension)
	if _, _, err := s.expandBytes(content, "", cfg); err != nil {
		return "", fmt.Errorf("starter descriptor does not expand: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("writing descriptor: %w", err)
	}
	s.logger.Debug("descriptor scaffolded", zap.String("path", path), zap.String("extension", extension))
	return path, nil
}

func starterDescriptor(name, extension string) []byte {
	return []byte(fmt.Sprintf(`name: %s
type: charm
base: ubuntu@22.04
platforms:
  amd64:
summary: A very short one-line summary of the %s charm.
description: |
  A single sentence that says what the charm is, concisely and memorably.
extensions:
  - %s
# config:
#   options:
#     greeting:
#       type: string
#       default: hello
# requires:
#   database:
#     interface: postgresql_client
`, name, name, extension))
}

// digestOf identifies a descriptor together with the limits it was
// checked against.
func digestOf(data []byte, limits domain.Limits) string {
	h := sha256.New()
	h.Write(data)
	fmt.Fprintf(h, "\x00%d/%d/%d", limits.MaxOptions, limits.MaxIntegrations, limits.MaxServices)
	return hex.EncodeToString(h.Sum(nil))
}
