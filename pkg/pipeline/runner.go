// Package pipeline orchestrates a full profiling run: group discovery,
// replicate validation, alignment and column profiling, one group at a time.
package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"chromaprof/internal/models"
	"chromaprof/pkg/align"
	"chromaprof/pkg/classify"
	"chromaprof/pkg/config"
	"chromaprof/pkg/profile"
)

// AlignedSubdir is the output subfolder receiving the aligned replicate
// images of every group.
const AlignedSubdir = "aligned_images"

// Stats summarizes a completed run.
type Stats struct {
	// FilesScanned is the number of regular files seen in the input folder.
	FilesScanned int

	// GroupsFound is the number of distinct group keys discovered.
	GroupsFound int

	// GroupsProcessed is the number of groups whose artifacts were written.
	GroupsProcessed int

	// GroupsSkipped is the number of groups abandoned after a group-local
	// failure. Skipped groups never abort the run.
	GroupsSkipped int
}

// Runner executes the profiling pipeline for one validated configuration.
// Groups are processed strictly sequentially in ascending key order; the
// images of a group are released before the next group starts, so peak
// memory stays bounded by a single triplet.
type Runner struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	stats Stats
}

// NewRunner creates a runner with its configuration and logging sink. The
// configuration must already be validated.
func NewRunner(cfg *config.Config, log *zap.SugaredLogger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Process runs the complete pipeline. It returns an error only for
// run-fatal conditions: an unreadable input folder, no matching files, a
// failed replicate-count validation, or an unusable output folder.
// Validation is run-global and happens before any group is touched.
func (r *Runner) Process() error {
	filenames, err := listFiles(r.cfg.InputDir)
	if err != nil {
		return fmt.Errorf("failed to read input folder: %w", err)
	}
	r.stats.FilesScanned = len(filenames)

	keys := classify.GroupKeys(filenames, r.cfg.Identifier)
	if len(keys) == 0 {
		return fmt.Errorf("no files matching identifier %q found in %s",
			r.cfg.Identifier, r.cfg.InputDir)
	}
	r.stats.GroupsFound = len(keys)
	r.log.Infof("Found %d groups for identifier %q", len(keys), r.cfg.Identifier)

	if err := classify.ValidateReplicates(filenames, keys, r.cfg.Identifier); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(r.cfg.OutputDir, AlignedSubdir), 0755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	for _, key := range keys {
		r.log.Infof("Processing group: %d", key)
		if err := r.processGroup(filenames, key); err != nil {
			r.log.Errorf("Skipping group %d: %v", key, err)
			r.stats.GroupsSkipped++
			continue
		}
		r.stats.GroupsProcessed++
	}

	return nil
}

// Stats returns the counters of the last Process call.
func (r *Runner) Stats() Stats {
	return r.stats
}

// processGroup runs alignment and profiling for one group. Its error means
// the group was skipped; the run continues with the next key.
func (r *Runner) processGroup(filenames []string, key int) error {
	names := classify.ReplicateFiles(filenames, r.cfg.Identifier, key)

	var images []image.Image
	var sources []string
	for _, name := range names {
		r.log.Infof("Loading image: %s", name)
		img, err := align.Load(filepath.Join(r.cfg.InputDir, name), r.cfg.BlurRadius)
		if err != nil {
			r.log.Errorf("Could not load image %s: %v", name, err)
			continue
		}
		b := img.Bounds()
		r.log.Debugf("Original image dimensions: %dx%d", b.Dx(), b.Dy())
		images = append(images, img)
		sources = append(sources, name)
	}

	if len(images) != models.ReplicatesPerGroup {
		return fmt.Errorf("unexpected number of readable images for group %d: expected %d, found %d",
			key, models.ReplicatesPerGroup, len(images))
	}

	group := &models.AlignedGroup{
		Identifier: r.cfg.Identifier,
		Key:        key,
	}
	for i, img := range align.Align(images) {
		group.Replicates = append(group.Replicates, models.Replicate{
			Image:    align.ToFloat(img),
			Filename: sources[i],
		})
	}
	r.log.Infof("Aligned group %d to %dx%d", key, group.Width(), group.Height())

	r.saveAligned(group)

	return r.writeProfile(group)
}

// saveAligned persists the aligned replicates. A failed save is reported and
// skipped; it blocks neither later images nor the tabular output.
func (r *Runner) saveAligned(group *models.AlignedGroup) {
	for i, rep := range group.Replicates {
		name := align.AlignedFilename(group.Identifier, group.Key, i+1,
			group.Width(), group.Height())
		path := filepath.Join(r.cfg.OutputDir, AlignedSubdir, name)
		if err := align.Save(path, rep.Image); err != nil {
			r.log.Errorf("Failed to save aligned image for group %d: %v", group.Key, err)
			continue
		}
		r.log.Infof("Saved aligned image to: %s", path)
	}
}

// writeProfile computes the column profile and writes the CSV artifact.
// The file is closed on every path, so partially written rows still reach
// disk if a later step fails.
func (r *Runner) writeProfile(group *models.AlignedGroup) error {
	ch, err := r.cfg.ParsedChannel()
	if err != nil {
		return fmt.Errorf("configuration was not validated: %w", err)
	}
	csvPath := filepath.Join(r.cfg.OutputDir, profile.CSVFilename(group.Identifier, group.Key, ch))

	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("could not create CSV file %s (aligned images for the group were already saved): %w",
			csvPath, err)
	}
	defer file.Close()

	rows := profile.ColumnProfile(group, ch, r.cfg.DistanceUpper, r.cfg.DistanceLower)
	if err := profile.WriteCSV(file, ch, rows); err != nil {
		return fmt.Errorf("failed writing CSV for group %d: %w", group.Key, err)
	}

	r.log.Infof("Processed group %d and saved %s data to: %s", group.Key, ch.Name(), csvPath)
	return nil
}

// listFiles returns the names of the regular files in dir, in the sorted
// order the directory listing provides. Nested folders are not traversed.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
