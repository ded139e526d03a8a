package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/lockin/internal/classify"
	"github.com/Veraticus/lockin/internal/cli"
	"github.com/Veraticus/lockin/internal/model"
	"github.com/Veraticus/lockin/internal/youtube"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [url]",
		Short: "Classify content as educational or entertainment",
		Long: `Classify a single piece of content, or every line of a file with --file.

Results are cached in the server database exactly as API requests are.
YouTube URLs are enriched from the YouTube Data API when youtube.api_key is set.

File lines hold a URL, optionally followed by a tab and a title.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().String("title", "", "content title")
	cmd.Flags().String("channel", "", "channel name")
	cmd.Flags().String("description", "", "content description")
	cmd.Flags().StringP("file", "f", "", "classify every URL in this file")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file == "" && len(args) == 0 {
		return fmt.Errorf("provide a URL or --file")
	}

	ctx := cmd.Context()
	logger := slog.Default()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	orchestrator := newOrchestrator(store, logger)
	metadata := newMetadataSource(ctx, logger)
	out := cmd.OutOrStdout()

	if file != "" {
		return classifyFile(ctx, orchestrator, metadata, file, out)
	}

	title, _ := cmd.Flags().GetString("title")
	channel, _ := cmd.Flags().GetString("channel")
	description, _ := cmd.Flags().GetString("description")

	item := enrich(ctx, metadata, model.ContentItem{
		URL:         args[0],
		Title:       title,
		ChannelName: channel,
		Description: description,
	}, logger)

	result, err := orchestrator.ClassifyForUser(ctx, item)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}
	_, err = fmt.Fprintln(out, cli.RenderClassification(item, *result))
	return err
}

func classifyFile(ctx context.Context, orchestrator *classify.Orchestrator, metadata youtube.MetadataSource, path string, out io.Writer) error {
	items, err := readContentFile(path)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatWarning("No URLs in "+path))
		return err
	}

	handler := cli.NewInterruptHandler(out)
	ctx = handler.HandleInterrupts(ctx, "Classified items are cached; rerun to continue.")

	bar := cli.NewProgressBar(out, len(items), "Classifying content...")
	counts := make(map[model.Category]int)
	var educational, failed int

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		item = enrich(ctx, metadata, item, slog.Default())

		result, err := orchestrator.ClassifyForUser(ctx, item)
		if err != nil {
			failed++
			slog.Warn("Failed to classify", "url", item.URL, "error", err)
		} else {
			counts[result.Category]++
			if result.IsEducational {
				educational++
			}
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	lines := make([]string, 0, len(counts)+3)
	for _, c := range model.AllCategories() {
		if counts[c] > 0 {
			lines = append(lines, fmt.Sprintf("  • %-13s %d", c, counts[c]))
		}
	}
	lines = append(lines, fmt.Sprintf("  • Educational: %d of %d", educational, len(items)-failed))
	if failed > 0 {
		lines = append(lines, cli.FormatError(fmt.Sprintf("%d failed", failed)))
	}
	_, err = fmt.Fprintln(out, cli.RenderBox("Classification Complete", strings.Join(lines, "\n")))
	return err
}

// readContentFile parses one item per non-empty, non-comment line.
func readContentFile(path string) ([]model.ContentItem, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var items []model.ContentItem
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		url, title, _ := strings.Cut(line, "\t")
		items = append(items, model.ContentItem{URL: strings.TrimSpace(url), Title: strings.TrimSpace(title)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return items, nil
}

// newMetadataSource returns the YouTube Data API source when a key is
// configured, or nil.
func newMetadataSource(ctx context.Context, logger *slog.Logger) youtube.MetadataSource {
	key := viper.GetString("youtube.api_key")
	if key == "" {
		return nil
	}
	source, err := youtube.NewDataAPISource(ctx, key)
	if err != nil {
		logger.Warn("YouTube metadata unavailable", "error", err)
		return nil
	}
	return source
}

// enrich fills empty fields of a YouTube item from metadata.
func enrich(ctx context.Context, source youtube.MetadataSource, item model.ContentItem, logger *slog.Logger) model.ContentItem {
	id := youtube.VideoID(item.URL)
	if source == nil || id == "" {
		return item
	}

	meta, err := source.Fetch(ctx, id)
	if err != nil {
		logger.Debug("No metadata for video", "video_id", id, "error", err)
		return item
	}
	item.VideoID = id
	if item.Title == "" {
		item.Title = meta.Title
	}
	if item.ChannelName == "" {
		item.ChannelName = meta.ChannelName
	}
	if item.Description == "" {
		item.Description = meta.Description
	}
	return item
}
