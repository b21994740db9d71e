package validators

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/stagegate-dev/stagegate/pkg/persist"
)

// baselineBasename is the state filename (extension added by the codec).
const baselineBasename = "stage_baseline"

// baselineFiles are the previous-stage artifacts the application-shell stage
// must leave untouched.
var baselineFiles = []string{
	"src/router/index.tsx",
	"src/router/routes.ts",
	"src/components/Layout.tsx",
	"src/components/Navbar.tsx",
	"src/services/api.ts",
}

// Baseline records previous-stage file content at the moment those stages
// were accepted. Later runs compare the tree against it to detect drift.
type Baseline struct {
	Files map[string]string `json:"files"`
}

// CaptureBaseline snapshots the current content of every baseline file that
// exists under the root.
func CaptureBaseline(in *Inputs) *Baseline {
	baseline := &Baseline{Files: make(map[string]string, len(baselineFiles))}

	for _, rel := range baselineFiles {
		text, ok := in.ReadFile(rel)
		if !ok {
			continue
		}

		baseline.Files[rel] = text
	}

	return baseline
}

// baselinePersister builds the persister for baseline snapshots with the
// named codec.
func baselinePersister(codecName string) (*persist.Persister[Baseline], error) {
	codec, err := persist.CodecFor(codecName)
	if err != nil {
		return nil, fmt.Errorf("baseline codec: %w", err)
	}

	return persist.NewPersister[Baseline](baselineBasename, codec), nil
}

// SaveBaseline persists a baseline under the given directory with the named
// codec.
func SaveBaseline(dir, codecName string, baseline *Baseline) error {
	persister, err := baselinePersister(codecName)
	if err != nil {
		return err
	}

	err = os.MkdirAll(dir, 0o750)
	if err != nil {
		return fmt.Errorf("create baseline dir: %w", err)
	}

	err = persister.Save(dir, baseline)
	if err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}

	return nil
}

// LoadBaseline loads a previously recorded baseline. A baseline that was
// never recorded is not an error; it returns nil.
func LoadBaseline(dir, codecName string) (*Baseline, error) {
	persister, err := baselinePersister(codecName)
	if err != nil {
		return nil, err
	}

	baseline, err := persister.Load(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}

	return baseline, nil
}
