package testimonials

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

// ImportOptions configures a paste-import run.
type ImportOptions struct {
	JSONPath        string
	ImagesDir       string
	AIPagePath      string
	ImageSize       int
	OverwriteImages bool
	DryRun          bool
	// AutoAI appends new AI Expert ids to the page instead of only
	// suggesting them.
	AutoAI bool
	// AIIDs overrides the page id list entirely when non-nil.
	AIIDs []string
}

func (o *ImportOptions) applyDefaults() {
	if o.JSONPath == "" {
		o.JSONPath = DefaultJSONPath
	}
	if o.ImagesDir == "" {
		o.ImagesDir = DefaultImagesDir
	}
	if o.AIPagePath == "" {
		o.AIPagePath = DefaultAIPagePath
	}
	if o.ImageSize <= 0 {
		o.ImageSize = DefaultImageSize
	}
}

// ImportResult summarizes what an import run added or would add.
type ImportResult struct {
	Added        []Record
	Warnings     []string
	AICurrentIDs []string
	AINewIDs     []string
	AISuggested  []string
}

func (r *ImportResult) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	slog.Warn(msg)
}

// Import parses pasted rows, appends them to testimonials.json, processes
// their images, and reconciles the AI Expert page id list.
func Import(ctx context.Context, raw string, opts ImportOptions) (*ImportResult, error) {
	opts.applyDefaults()
	result := &ImportResult{}

	rows, err := ParseRows(raw)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to import")
	}

	records, err := LoadRecords(opts.JSONPath)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(records))
	for _, rec := range records {
		existing[rec.Key()] = true
	}

	var added []Record
	var imagePaths []string
	for _, row := range rows {
		rec, imagePath, err := RecordFromRow(row)
		if err != nil {
			result.warnf("skipping row %v: %v", row, err)
			continue
		}
		if imagePath != "" {
			if _, err := os.Stat(imagePath); err == nil {
				rec.ImageFilename = BuildImageFilename(rec.Name, rec.Title)
			} else {
				result.warnf("invalid image path: %s", imagePath)
				imagePath = ""
			}
		}
		if existing[rec.Key()] {
			result.warnf("possible duplicate by name/date: %s %s", rec.Name, rec.Date)
		}
		added = append(added, rec)
		imagePaths = append(imagePaths, imagePath)
	}
	if len(added) == 0 {
		return nil, fmt.Errorf("no valid testimonials to add")
	}

	ids := NextIDs(records, len(added))
	for i := range added {
		added[i].ID = ids[i]
	}
	result.Added = added

	if opts.DryRun {
		slog.Info("dry run, testimonials.json not written", "count", len(added))
	} else {
		records = append(records, added...)
		if err := SaveRecords(opts.JSONPath, records); err != nil {
			return nil, err
		}
	}

	for i, rec := range added {
		if rec.ImageFilename == "" || imagePaths[i] == "" {
			continue
		}
		outputPath := filepath.Join(opts.ImagesDir, rec.ImageFilename)
		if opts.DryRun {
			slog.Info("dry run, would crop image", "source", imagePaths[i], "output", outputPath)
			continue
		}
		if err := CropSquare(ctx, imagePaths[i], outputPath, opts.ImageSize, opts.OverwriteImages); err != nil {
			result.warnf("%v", err)
		}
	}

	reconcileAI(result, added, opts)
	return result, nil
}

// reconcileAI computes and optionally applies the AI Expert page id list.
func reconcileAI(result *ImportResult, added []Record, opts ImportOptions) {
	var aiNew []Record
	for _, rec := range added {
		if IsAIExpert(rec.Title) {
			aiNew = append(aiNew, rec)
		}
	}
	if len(aiNew) == 0 && opts.AIIDs == nil {
		return
	}

	currentIDs, err := ReadAIIDs(opts.AIPagePath)
	if err != nil {
		result.warnf("%v", err)
	}
	result.AICurrentIDs = currentIDs

	for _, rec := range aiNew {
		result.AINewIDs = append(result.AINewIDs, rec.ID)
	}
	suggested := append([]string{}, currentIDs...)
	for _, id := range result.AINewIDs {
		if !slices.Contains(suggested, id) {
			suggested = append(suggested, id)
		}
	}
	result.AISuggested = suggested

	target := opts.AIIDs
	if target == nil && opts.AutoAI {
		target = suggested
	}
	if target == nil || opts.DryRun {
		return
	}
	if err := WriteAIIDs(opts.AIPagePath, target); err != nil {
		result.warnf("%v", err)
	}
}
