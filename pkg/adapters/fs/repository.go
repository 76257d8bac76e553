// Package fs implements the corpus repository on top of the local filesystem.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/git"
	"github.com/aretw0/regseek/pkg/loader"
)

const (
	// DefaultPattern matches documents one level below the corpus root.
	DefaultPattern = "*/*.{yml,yaml}"
	// DefaultOutput is the dataset file name used when Config.Output is empty.
	DefaultOutput = "artifacts.json"
)

// Config holds the configuration for the filesystem repository.
type Config struct {
	Root        string // corpus root, one subdirectory per category
	Pattern     string // doublestar glob relative to Root
	Output      string // dataset destination; its extension selects the format
	Versioning  bool   // record the git revision of the corpus in the dataset
	Debounce    time.Duration
	Logger      *slog.Logger
	Serializers map[string]Serializer // keyed by extension (e.g. ".yaml")
}

// Repository implements core.Repository using the filesystem.
type Repository struct {
	Root        string
	config      Config
	serializers map[string]Serializer
	git         *git.Client
	logger      *slog.Logger

	mu            sync.RWMutex
	watcherActive bool
	lastScan      *time.Time
	scanned       int
	published     int
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if config.Output == "" {
		config.Output = DefaultOutput
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	serializers := config.Serializers
	if serializers == nil {
		serializers = DefaultSerializers()
	}
	logger := config.Logger.With("component", "fs")
	return &Repository{
		Root:        config.Root,
		config:      config,
		serializers: serializers,
		git:         git.NewClient(config.Root, logger),
		logger:      logger,
	}
}

// Scan discovers and loads every non-template document below the root.
// Documents come back in lexical path order; the first document claiming an
// id keeps it and later claimants are reported as failures.
func (r *Repository) Scan(ctx context.Context) ([]core.Artifact, []core.LoadFailure, error) {
	if err := r.checkRoot(); err != nil {
		return nil, nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(r.Root), r.config.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid pattern %q: %w", r.config.Pattern, err)
	}
	slices.Sort(matches)

	var (
		docs     []core.Artifact
		failures []core.LoadFailure
		owners   = make(map[string]string)
	)
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if isTemplate(rel) {
			r.logger.Debug("skipping template", "source", rel)
			continue
		}

		doc, err := r.load(rel, groupOf(rel))
		if err != nil {
			failures = append(failures, core.LoadFailure{Source: rel, Err: err})
			continue
		}
		if owner, taken := owners[doc.ID]; taken {
			failures = append(failures, core.LoadFailure{
				Source: rel,
				Err:    fmt.Errorf("%w: %q is already defined by %s", core.ErrDuplicateID, doc.ID, owner),
			})
			continue
		}
		owners[doc.ID] = rel
		docs = append(docs, doc)
	}

	r.mu.Lock()
	now := time.Now()
	r.lastScan = &now
	r.scanned = len(docs)
	r.mu.Unlock()

	r.logger.Debug("corpus scanned", "root", r.Root, "documents", len(docs), "failures", len(failures))
	return docs, failures, nil
}

// Load reads a single document. Below the root, identity and group are
// derived exactly as Scan derives them; outside it the group is the parent
// directory. Relative paths are resolved against the working directory.
func (r *Repository) Load(ctx context.Context, p string) (core.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return core.Artifact{}, err
	}
	if strings.HasPrefix(filepath.Base(p), "_") {
		return core.Artifact{}, fmt.Errorf("%w: %s", core.ErrTemplate, p)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return core.Artifact{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return core.Artifact{}, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if info.IsDir() {
		return core.Artifact{}, fmt.Errorf("%s is a directory", p)
	}

	if rel, ok := r.relative(abs); ok {
		if isTemplate(rel) {
			return core.Artifact{}, fmt.Errorf("%w: %s", core.ErrTemplate, p)
		}
		return r.load(rel, groupOf(rel))
	}
	return r.decode(abs, filepath.ToSlash(p), filepath.Base(filepath.Dir(abs)))
}

// Publish encodes the dataset according to the output extension and writes it atomically.
func (r *Repository) Publish(ctx context.Context, ds *core.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(r.config.Output))
	ser, ok := r.serializers[ext]
	if !ok {
		return fmt.Errorf("unsupported output format %q", ext)
	}

	data, err := ser.Encode(ds)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := writeFileAtomic(r.config.Output, data, 0644); err != nil {
		return err
	}

	r.mu.Lock()
	r.published++
	r.mu.Unlock()

	r.logger.Info("dataset published", "path", r.config.Output, "bytes", len(data))
	return nil
}

// Revision implements core.Revisioned. It returns "" without error when
// versioning is disabled or the corpus is not under git.
func (r *Repository) Revision(ctx context.Context) (string, error) {
	if !r.config.Versioning || !git.IsInstalled() || !r.git.IsRepo(ctx) {
		return "", nil
	}
	return r.git.Revision(ctx)
}

// Output returns the dataset destination.
func (r *Repository) Output() string {
	return r.config.Output
}

func (r *Repository) checkRoot() error {
	info, err := os.Stat(r.Root)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", core.ErrCorpusNotFound, r.Root)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", core.ErrCorpusNotFound, r.Root)
	}
	return nil
}

// load reads a document addressed by its slash-separated path relative to Root.
func (r *Repository) load(rel, group string) (core.Artifact, error) {
	return r.decode(filepath.Join(r.Root, filepath.FromSlash(rel)), rel, group)
}

func (r *Repository) decode(file, source, group string) (core.Artifact, error) {
	ext := strings.ToLower(filepath.Ext(file))
	ser, ok := r.serializers[ext]
	if !ok {
		return core.Artifact{}, fmt.Errorf("%w: unsupported extension %q", core.ErrMalformedDocument, ext)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return core.Artifact{}, fmt.Errorf("failed to read %s: %w", source, err)
	}
	raw, err := ser.Parse(bytes.NewReader(data))
	if err != nil {
		return core.Artifact{}, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
	}

	return loader.Normalize(raw, loader.Source{
		ID:    strings.TrimSuffix(path.Base(source), path.Ext(source)),
		Group: group,
		Path:  source,
	})
}

// relative returns the slash path of abs below Root, if it is below Root.
func (r *Repository) relative(abs string) (string, bool) {
	root, err := filepath.Abs(r.Root)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// isTemplate reports whether any segment of a slash path starts with an underscore.
func isTemplate(rel string) bool {
	for seg := range strings.SplitSeq(rel, "/") {
		if strings.HasPrefix(seg, "_") {
			return true
		}
	}
	return false
}

// groupOf returns the first segment of a slash path, or "" for root-level files.
func groupOf(rel string) string {
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return ""
}
