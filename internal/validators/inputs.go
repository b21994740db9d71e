package validators

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stagegate-dev/stagegate/internal/config"
	"github.com/stagegate-dev/stagegate/pkg/erd"
	"github.com/stagegate-dev/stagegate/pkg/manifest"
	"github.com/stagegate-dev/stagegate/pkg/modgraph"
)

// manifestFile is the dependency manifest filename inside the generated root.
const manifestFile = "package.json"

// Inputs bundles everything a validation run consumes: the tree snapshot and
// the pipeline input documents. Missing documents stay nil; the stages that
// need them emit diagnostics instead of aborting the run.
type Inputs struct {
	// Root is the canonical root of the generated tree.
	Root string

	ERD     *erd.Document
	ERDRaw  []byte
	OpenAPI *erd.OpenAPI

	Manifest *manifest.Manifest

	Snapshot *modgraph.Snapshot

	// Baseline holds the previous-stage content baseline, nil when none was
	// recorded yet.
	Baseline       *Baseline
	BaselineDir    string
	BaselineCodec  string
	UpdateBaseline bool

	Logger *slog.Logger
}

// LoadInputs builds the snapshot and loads the pipeline documents for a run.
// Only a failure to snapshot the root itself is fatal; a missing or broken
// input document is logged and left nil.
func LoadInputs(cfg config.Config, logger *slog.Logger) (*Inputs, error) {
	opts := []modgraph.Option{
		modgraph.WithVendorFilter(cfg.Engine.VendorFilter),
	}

	if len(cfg.Engine.ExcludedDirs) > 0 {
		opts = append(opts, modgraph.WithExcludedDirs(cfg.Engine.ExcludedDirs))
	}

	if cfg.Engine.LoaderConcurrency > 0 {
		opts = append(opts, modgraph.WithLoaderConcurrency(cfg.Engine.LoaderConcurrency))
	}

	snap, err := modgraph.NewSnapshot(cfg.Root, opts...)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", cfg.Root, err)
	}

	in := &Inputs{
		Root:           snap.Root(),
		Snapshot:       snap,
		BaselineDir:    resolveUnder(snap.Root(), cfg.Baseline.Dir),
		BaselineCodec:  cfg.Baseline.Codec,
		UpdateBaseline: cfg.Baseline.Update,
		Logger:         logger,
	}

	doc, raw, err := erd.Load(resolveUnder(snap.Root(), cfg.ERDPath))
	if err != nil {
		logger.Warn("erd document unavailable", "path", cfg.ERDPath, "error", err)
	} else {
		in.ERD = doc
		in.ERDRaw = raw
	}

	contract, err := erd.LoadOpenAPI(resolveUnder(snap.Root(), cfg.OpenAPIPath))
	if err != nil {
		logger.Warn("openapi contract unavailable", "path", cfg.OpenAPIPath, "error", err)
	} else {
		in.OpenAPI = contract
	}

	mf, err := manifest.Load(filepath.Join(snap.Root(), manifestFile))
	if err != nil {
		logger.Warn("dependency manifest unavailable", "error", err)
	} else {
		in.Manifest = mf
	}

	baseline, err := LoadBaseline(in.BaselineDir, in.BaselineCodec)
	if err != nil {
		logger.Warn("baseline unavailable", "dir", in.BaselineDir, "error", err)
	} else {
		in.Baseline = baseline
	}

	return in, nil
}

// resolveUnder joins a possibly-relative path onto the root.
func resolveUnder(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(root, path)
}

// ReadFile returns the text of a root-relative file. Module files come from
// the snapshot; everything else (CSS, HTML, JSON, dotfiles) is read from disk.
func (in *Inputs) ReadFile(rel string) (string, bool) {
	path := filepath.Join(in.Root, filepath.FromSlash(rel))

	if mod, ok := in.Snapshot.Lookup(path); ok {
		return mod.Text, true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return string(data), true
}

// FileExists reports whether a root-relative file was seen by the snapshot.
func (in *Inputs) FileExists(rel string) bool {
	return in.Snapshot.FileExists(filepath.Join(in.Root, filepath.FromSlash(rel)))
}

// ModulesUnder returns snapshot modules whose relative path starts with the
// given slash-separated prefix, in stable order.
func (in *Inputs) ModulesUnder(prefix string) []*modgraph.Module {
	var out []*modgraph.Module

	for _, mod := range in.Snapshot.Modules() {
		if strings.HasPrefix(mod.Rel, prefix) {
			out = append(out, mod)
		}
	}

	return out
}

// AuthEnabled reports whether the ERD declares authentication.
func (in *Inputs) AuthEnabled() bool {
	return in.ERD != nil && in.ERD.BusinessLogic.Authentication.Enabled
}
