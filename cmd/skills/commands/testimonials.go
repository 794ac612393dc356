package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devexpertio/skills/pkg/skills/config"
	"github.com/devexpertio/skills/pkg/skills/testimonials"
)

func newTestimonialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testimonials",
		Short: "Website testimonials: paste import and sheet sync",
	}
	cmd.AddCommand(newTestimonialsImportCmd(), newTestimonialsSyncCmd())
	return cmd
}

func addImportFlags(cmd *cobra.Command, opts *testimonials.ImportOptions) {
	cmd.Flags().StringVar(&opts.JSONPath, "testimonials-json", "", "testimonials JSON file (default "+testimonials.DefaultJSONPath+")")
	cmd.Flags().StringVar(&opts.ImagesDir, "images-dir", "", "processed images directory (default "+testimonials.DefaultImagesDir+")")
	cmd.Flags().StringVar(&opts.AIPagePath, "ai-astro", "", "AI Expert page holding the testimonial id list")
	cmd.Flags().IntVar(&opts.ImageSize, "image-size", 0, "square image size in pixels (default 400)")
	cmd.Flags().BoolVar(&opts.OverwriteImages, "overwrite-images", false, "re-crop images that already exist")
	cmd.Flags().BoolVar(&opts.AutoAI, "ai-auto", false, "append new AI Expert ids without asking")
}

func reportImport(cmd *cobra.Command, result *testimonials.ImportResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added %d testimonial(s)\n", len(result.Added))
	for _, r := range result.Added {
		fmt.Fprintf(out, "  %s | %s | %s\n", r.ID, r.Name, r.Date)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(out, "%d warning(s)\n", len(result.Warnings))
	}
}

// confirmAIIDs asks whether to apply the suggested AI Expert id list when
// the import found new candidates and stdout is a terminal.
func confirmAIIDs(result *testimonials.ImportResult, pagePath string) error {
	if len(result.AINewIDs) == 0 || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	apply := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Update AI Expert testimonial ids?").
				Description("New ids: "+strings.Join(result.AINewIDs, ", ")).
				Value(&apply),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	if err != nil || !apply {
		return err
	}
	return testimonials.WriteAIIDs(pagePath, result.AISuggested)
}

func newTestimonialsImportCmd() *cobra.Command {
	var (
		opts      testimonials.ImportOptions
		inputPath string
		aiIDs     []string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import pasted rows into testimonials.json and crop their photos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var raw []byte
			var err error
			if inputPath != "" {
				raw, err = os.ReadFile(inputPath)
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading rows: %w", err)
			}
			if len(aiIDs) > 0 {
				opts.AIIDs = aiIDs
			}

			result, err := testimonials.Import(cmd.Context(), string(raw), opts)
			if err != nil {
				return err
			}
			reportImport(cmd, result)

			if !opts.DryRun && !opts.AutoAI && opts.AIIDs == nil {
				pagePath := opts.AIPagePath
				if pagePath == "" {
					pagePath = testimonials.DefaultAIPagePath
				}
				if err := confirmAIIDs(result, pagePath); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addImportFlags(cmd, &opts)
	cmd.Flags().StringVar(&inputPath, "input", "", "file with the pasted rows (default stdin)")
	cmd.Flags().StringSliceVar(&aiIDs, "ai-ids", nil, "replace the AI Expert id list with these ids")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report without writing files")
	return cmd
}

func newTestimonialsSyncCmd() *cobra.Command {
	var (
		opts testimonials.SyncOptions
		gid  int
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull pending rows from the Google Sheet, import them and mark them published",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("gid") {
				opts.GID = &gid
			}
			cfg := config.Load()
			sheet, err := testimonials.NewSheet(cmd.Context(), testimonials.DefaultCredentials())
			if err != nil {
				return err
			}
			return testimonials.Sync(cmd.Context(), sheet, cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.SheetID, "sheet-id", "", "spreadsheet id (default from config)")
	cmd.Flags().IntVar(&gid, "gid", 0, "sheet tab gid")
	cmd.Flags().StringVar(&opts.SheetName, "sheet-name", "", "sheet tab title (overrides --gid)")
	cmd.Flags().StringVar(&opts.SheetRange, "range", "", "A1 range to read (default "+testimonials.DefaultSheetRange+")")
	cmd.Flags().StringVar(&opts.DownloadsDir, "downloads-dir", "", "directory for downloaded photos")
	cmd.Flags().StringVar(&opts.MarkValue, "mark-value", "", "value written to the published column (default x)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report without writing files or marking rows")
	cmd.Flags().BoolVar(&opts.SkipMark, "skip-mark", false, "import without marking rows as published")
	addImportFlags(cmd, &opts.Import)
	return cmd
}
