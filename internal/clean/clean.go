// Package clean reduces mined snapshots to human-readable text for indexing.
//
// Only entities and literals survive. An element is kept when it contains a
// space and fewer digit runs than half its length; kept elements lose HTML
// markup, line breaks and repeated spaces.
package clean

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/rdfmine/api"
	"github.com/agentic-research/rdfmine/internal/ingest"
)

var (
	digitRuns = regexp.MustCompile(`[0-9]+`)
	markup    = regexp.MustCompile(`<[^<>]+>`)
	breaks    = regexp.MustCompile(`[\r\n]`)
	spaceRuns = regexp.MustCompile(` {2,}`)
)

// FileName returns the cleaned counterpart of a snapshot file name.
func FileName(snapshot string) string {
	return strings.TrimSuffix(snapshot, ".json") + "_clean.json"
}

// Element applies the keep rule to s and returns its cleaned form.
func Element(s string) (string, bool) {
	if !strings.Contains(s, " ") {
		return "", false
	}
	if 2*len(digitRuns.FindAllStringIndex(s, -1)) >= utf8.RuneCountInString(s) {
		return "", false
	}
	if markup.MatchString(s) {
		s = htmlText(s)
	}
	s = breaks.ReplaceAllString(s, " ")
	return spaceRuns.ReplaceAllString(s, " "), true
}

// htmlText joins the text nodes of an HTML fragment with spaces.
func htmlText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				parts = append(parts, c.Text())
				return
			}
			walk(c)
		})
	}
	walk(doc.Find("body"))
	return strings.Join(parts, " ")
}

// Snapshot returns the cleaned entities and literals of snap.
func Snapshot(snap *api.Snapshot) *api.CleanSnapshot {
	out := &api.CleanSnapshot{Entities: []string{}, Literals: []string{}}
	for _, v := range snap.Entities {
		if c, ok := Element(v); ok {
			out.Entities = append(out.Entities, c)
		}
	}
	for _, v := range snap.Literals {
		if c, ok := Element(v); ok {
			out.Literals = append(out.Literals, c)
		}
	}
	return out
}

// Stats summarizes a cleaning run.
type Stats struct {
	Cleaned int
	Missing int
	Failed  int
}

// Run cleans the snapshot of every dataset directory in fsys. A dataset whose
// snapshot is missing or unreadable is skipped with a warning.
func Run(ctx context.Context, fsys billy.Filesystem, dedup bool, logger *slog.Logger) (Stats, error) {
	var stats Stats
	if logger == nil {
		logger = slog.Default()
	}
	file := api.ContentFile
	if dedup {
		file = api.DedupContentFile
	}

	entries, err := fsys.ReadDir(".")
	if err != nil {
		return stats, fmt.Errorf("list datasets: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		name := entry.Name()
		snap, err := ingest.ReadSnapshot(fsys, name, file)
		if errors.Is(err, os.ErrNotExist) {
			stats.Missing++
			continue
		}
		if err == nil {
			err = ingest.WriteJSON(fsys, fsys.Join(name, FileName(file)), Snapshot(snap))
		}
		if err != nil {
			stats.Failed++
			logger.Warn("clean failed", slog.String("dataset", name), slog.Any("error", err))
			continue
		}
		stats.Cleaned++
	}

	logger.Info("snapshots cleaned",
		slog.Int("cleaned", stats.Cleaned),
		slog.Int("missing", stats.Missing),
		slog.Int("failed", stats.Failed))
	return stats, nil
}
