package testimonials

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/devexpertio/skills/pkg/skills/config"
)

// SyncOptions configures a sheet-to-site sync run.
type SyncOptions struct {
	SheetID      string
	GID          *int
	SheetName    string
	SheetRange   string
	DownloadsDir string
	MarkValue    string
	DryRun       bool
	SkipMark     bool
	Import       ImportOptions
}

func (o *SyncOptions) applyDefaults(cfg config.Config) error {
	if o.SheetID == "" {
		o.SheetID = cfg.Testimonials.SheetID
	}
	if o.SheetID == "" {
		return fmt.Errorf("missing sheet id (pass --sheet-id or set devexpert_testimonials.sheet_id in config.json)")
	}
	if o.GID == nil {
		o.GID = cfg.Testimonials.GID
	}
	if o.SheetRange == "" {
		o.SheetRange = DefaultSheetRange
	}
	if o.DownloadsDir == "" {
		o.DownloadsDir = filepath.Join("tmp", "testimonials-sync")
	}
	if o.MarkValue == "" {
		o.MarkValue = DefaultMarkValue
	}
	o.Import.applyDefaults()
	o.Import.DryRun = o.DryRun
	return nil
}

// pendingRow is a sheet row queued for import, keeping its 1-based sheet
// position so the published cell can be marked afterwards.
type pendingRow struct {
	fields    []string
	sheetRow  int
	duplicate bool
}

// Sync pulls unpublished rows from the testimonials sheet, imports them into
// the site data, and marks the processed rows as published.
func Sync(ctx context.Context, sheet *Sheet, cfg config.Config, opts SyncOptions) error {
	if err := opts.applyDefaults(cfg); err != nil {
		return err
	}

	title := opts.SheetName
	if title == "" {
		var err error
		title, err = sheet.ResolveSheetTitle(ctx, opts.SheetID, opts.GID)
		if err != nil {
			return err
		}
	}

	rangeA1 := fmt.Sprintf("'%s'!%s", title, opts.SheetRange)
	values, err := sheet.FetchValues(ctx, opts.SheetID, rangeA1)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("sheet has no rows")
	}
	columns, err := ResolveColumns(values[0])
	if err != nil {
		return err
	}

	records, err := LoadRecords(opts.Import.JSONPath)
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(records))
	for _, rec := range records {
		existing[rec.Key()] = true
	}

	pending := collectRows(ctx, sheet, values, columns, existing, opts)
	var fresh []pendingRow
	for _, row := range pending {
		if !row.duplicate {
			fresh = append(fresh, row)
		}
	}
	if len(pending) == 0 {
		slog.Info("no new testimonials in sheet")
		return nil
	}

	if len(fresh) > 0 {
		slog.Info("importing testimonials from sheet", "count", len(fresh))
		tsvPath := filepath.Join(opts.DownloadsDir, "pending-testimonials.tsv")
		if err := writeTSV(tsvPath, fresh); err != nil {
			return err
		}
		raw := tsvContent(fresh)
		if _, err := Import(ctx, raw, opts.Import); err != nil {
			return fmt.Errorf("importing sheet rows (sheet left unmarked): %w", err)
		}
	} else {
		slog.Info("only duplicate rows found, marking without import")
	}

	if opts.DryRun || opts.SkipMark {
		slog.Info("dry run or skip-mark, sheet not updated")
		return nil
	}

	letter := ColumnLetter(columns.Published)
	for _, row := range pending {
		cell := fmt.Sprintf("'%s'!%s%d", title, letter, row.sheetRow)
		if err := sheet.MarkCell(ctx, opts.SheetID, cell, opts.MarkValue); err != nil {
			return err
		}
	}
	slog.Info("marked sheet rows as published", "count", len(pending))
	return nil
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// collectRows walks the data rows, skipping published or empty ones, and
// downloads Drive photo attachments for the rest. Rows already present in
// testimonials.json come back flagged as duplicates so they still get
// marked.
func collectRows(ctx context.Context, sheet *Sheet, values [][]string, columns ColumnMap, existing map[string]bool, opts SyncOptions) []pendingRow {
	var pending []pendingRow
	for i, row := range values[1:] {
		sheetRow := i + 2
		empty := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if empty || cell(row, columns.Published) != "" {
			continue
		}

		name := cell(row, columns.Name)
		text := cell(row, columns.Text)
		if name == "" || text == "" {
			slog.Warn("row missing name or text, skipping", "row", sheetRow)
			continue
		}

		rawDate := cell(row, columns.Date)
		key := Record{Name: name, Date: ParseDate(rawDate)}.Key()
		if existing[key] {
			slog.Warn("row already in testimonials.json, marking anyway", "row", sheetRow)
			pending = append(pending, pendingRow{sheetRow: sheetRow, duplicate: true})
			continue
		}

		position := cell(row, columns.Position)
		if position == "" {
			position = cell(row, columns.Company)
		}

		imagePath := resolveImage(ctx, sheet, cell(row, columns.Image), name, sheetRow, opts)

		pending = append(pending, pendingRow{
			sheetRow: sheetRow,
			fields: []string{
				rawDate,
				name,
				position,
				cell(row, columns.Title),
				text,
				cell(row, columns.Rating),
				imagePath,
			},
		})
	}
	return pending
}

func resolveImage(ctx context.Context, sheet *Sheet, imageURL, name string, sheetRow int, opts SyncOptions) string {
	if imageURL == "" {
		return ""
	}
	if strings.HasPrefix(imageURL, "http") && strings.Contains(imageURL, "drive.google") {
		if opts.DryRun {
			return ""
		}
		fileID := ExtractDriveID(imageURL)
		if fileID == "" {
			slog.Warn("invalid drive url", "row", sheetRow, "url", imageURL)
			return ""
		}
		short := fileID
		if len(short) > 6 {
			short = short[:6]
		}
		baseName := Slugify(name) + "-" + short
		path, err := sheet.DownloadDriveFile(ctx, fileID, opts.DownloadsDir, baseName)
		if err != nil {
			slog.Warn("could not download image", "row", sheetRow, "error", err)
			return ""
		}
		return path
	}
	if _, err := os.Stat(imageURL); err == nil {
		return imageURL
	}
	slog.Warn("unsupported image reference", "row", sheetRow, "value", imageURL)
	return ""
}

// tsvContent renders pending rows in the tab-separated layout Import parses.
func tsvContent(rows []pendingRow) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Comma = '\t'
	for _, row := range rows {
		_ = w.Write(row.fields)
	}
	w.Flush()
	return sb.String()
}

// writeTSV keeps a copy of the pending rows next to the downloads for
// inspection and reruns.
func writeTSV(path string, rows []pendingRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(tsvContent(rows)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
