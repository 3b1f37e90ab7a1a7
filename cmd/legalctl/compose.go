package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"legal-assistant/config"
	"legal-assistant/internal/core/document"
	"legal-assistant/internal/core/source"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type composeOptions struct {
	meta document.Metadata
	out  string
	text bool
}

func composeCmd() *cobra.Command {
	var opts composeOptions
	cmd := &cobra.Command{
		Use:   "compose <pdf>...",
		Short: "Compose metadata-annotated artifacts from PDF documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(opts.meta.DocType) == "" || strings.TrimSpace(opts.meta.Parties) == "" {
				return errors.New("--doc-type and --parties are required")
			}
			return runCompose(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.meta.DocType, "doc-type", "", "document type, e.g. Contract or NDA")
	cmd.Flags().StringVar(&opts.meta.Parties, "parties", "", "parties involved")
	cmd.Flags().StringVar(&opts.meta.Jurisdiction, "jurisdiction", "", "jurisdiction")
	cmd.Flags().StringVar(&opts.meta.ImportantDates, "important-dates", "", "important dates, e.g. \"Filing deadline: 2024-01-31\"")
	cmd.Flags().StringVar(&opts.meta.Summary, "summary", "", "short summary")
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.text, "text", false, "also write the composed pages as plain text")
	return cmd
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func runCompose(ctx context.Context, cmd *cobra.Command, paths []string, opts composeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}
	profile := config.Cfg.Ingest.Document
	layout := document.LayoutFromConfig(config.Cfg.Ingest.Layout, profile)

	bar := getProgressBar(len(paths), "Composing")
	var failed int
	for _, p := range paths {
		bar.Describe(color.BlueString("Composing %s", filepath.Base(p)))
		line, err := composeOne(ctx, p, opts, layout, profile)
		_ = bar.Add(1)
		if err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("\n%s: %v", p, err))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(paths))
	}
	return nil
}

func composeOne(ctx context.Context, path string, opts composeOptions, layout document.Layout, profile config.ProfileConfig) (string, error) {
	local, cleanup, err := source.FetchToLocalTemp(ctx, path)
	if err != nil {
		return "", err
	}
	defer cleanup()

	text, err := source.PDFText(local)
	if err != nil {
		text = source.ExtractionFailed(path)
	}

	meta := opts.meta
	meta.UploadTime = time.Now()
	artifact, chunking := document.ComposeText(document.DocumentHeader(meta), text, layout, profile.ChunkSize, profile.MaxChunks)
	data, err := document.PDFBytes(artifact)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	target := filepath.Join(opts.out, base+"-composed.pdf")
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	if opts.text {
		txt := filepath.Join(opts.out, base+"-composed.txt")
		if err := os.WriteFile(txt, []byte(artifact.PlainText()), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", txt, err)
		}
	}

	summary := fmt.Sprintf("%s: %d pages, %d/%d parts", target, artifact.PageCount(), len(chunking.Chunks), chunking.Available)
	if chunking.Truncated() {
		summary += color.YellowString(" (%d parts dropped)", chunking.Dropped())
	}
	if n := len(artifact.Issues); n > 0 {
		summary += color.YellowString(" (%d issues)", n)
	}
	return color.GreenString("✓ ") + summary, nil
}
