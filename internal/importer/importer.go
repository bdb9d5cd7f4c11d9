// Package importer drives one import pass: scan the downloads directory,
// rename files, resolve each one to a Sonarr series, and submit scan
// commands to the server.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/importarr/internal/config"
	"github.com/vmunix/importarr/internal/history"
	"github.com/vmunix/importarr/internal/match"
	"github.com/vmunix/importarr/internal/rename"
	"github.com/vmunix/importarr/internal/scanner"
	"github.com/vmunix/importarr/pkg/release"
	"github.com/vmunix/importarr/pkg/sonarr"
)

// SonarrClient is the slice of the Sonarr API the importer uses.
type SonarrClient interface {
	Ping(ctx context.Context) (*sonarr.SystemStatus, error)
	AllSeries(ctx context.Context) ([]sonarr.Series, error)
	ScanDownloads(ctx context.Context, path string, mode sonarr.ImportMode, downloadClientID string) (*sonarr.Command, error)
}

// Result summarizes one pass.
type Result struct {
	Scanned   int
	Submitted int
	Skipped   int
	Unmatched int
	Failed    int
	Learned   int
}

// Importer runs import passes.
type Importer struct {
	cfg      *config.Config
	cfgPath  string
	client   SonarrClient
	renamer  *rename.Engine
	resolver *match.Resolver
	history  *history.Store // nil disables the journal
	dryRun   bool
	log      *slog.Logger
}

// New builds an importer from config, compiling rename and mapping rules.
// cfgPath is where learned mappings get written back. history may be nil.
func New(cfg *config.Config, cfgPath string, client SonarrClient, hist *history.Store, dryRun bool, log *slog.Logger) (*Importer, error) {
	renameRules := make([]rename.Rule, 0, len(cfg.Rename))
	for _, r := range cfg.Rename {
		renameRules = append(renameRules, rename.Rule{Pattern: r.Pattern, Replace: r.Replace})
	}
	renamer, err := rename.NewEngine(renameRules)
	if err != nil {
		return nil, err
	}

	mappingRules := make([]match.Rule, 0, len(cfg.Mappings))
	for _, m := range cfg.Mappings {
		mappingRules = append(mappingRules, match.Rule{Pattern: m.Pattern, SeriesID: m.SeriesID, Comment: m.Comment})
	}
	resolver, err := match.NewResolver(mappingRules, cfg.AutoMatch.Enabled, cfg.AutoMatch.Threshold, log.With("component", "match"))
	if err != nil {
		return nil, err
	}

	return &Importer{
		cfg:      cfg,
		cfgPath:  cfgPath,
		client:   client,
		renamer:  renamer,
		resolver: resolver,
		history:  hist,
		dryRun:   dryRun,
		log:      log,
	}, nil
}

// Run performs one pass over the downloads directory.
// Per-file failures are counted, not fatal; an unreachable Sonarr is fatal
// and aborts before anything on disk is touched.
func (i *Importer) Run(ctx context.Context) (*Result, error) {
	status, err := i.client.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("sonarr unreachable: %w", err)
	}
	i.log.Debug("connected", "sonarr_version", status.Version)

	series, err := i.client.AllSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}

	if i.cfg.Import.TrimFolders && !i.dryRun {
		if _, err := scanner.TrimFolders(i.cfg.Import.Downloads, i.log.With("component", "trim")); err != nil {
			return nil, fmt.Errorf("trim folders: %w", err)
		}
	}

	files, err := scanner.FindVideos(i.cfg.Import.Downloads, i.cfg.Import.MinSizeMB*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("scan downloads: %w", err)
	}

	result := &Result{Scanned: len(files)}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		i.processFile(ctx, file, series, result)
	}

	if i.history != nil {
		if n, err := i.history.Prune(i.cfg.History.Retention.Duration); err != nil {
			i.log.Warn("history prune failed", "error", err)
		} else if n > 0 {
			i.log.Debug("pruned history", "entries", n)
		}
	}

	i.log.Info("pass complete",
		"scanned", result.Scanned,
		"submitted", result.Submitted,
		"skipped", result.Skipped,
		"unmatched", result.Unmatched,
		"failed", result.Failed,
		"learned", result.Learned)
	return result, nil
}

func (i *Importer) processFile(ctx context.Context, file string, series []sonarr.Series, result *Result) {
	size, err := scanner.FileSize(file)
	if err != nil {
		i.log.Warn("stat failed", "file", file, "error", err)
		result.Failed++
		return
	}

	if i.history != nil {
		seen, err := i.history.Seen(file, size)
		if err != nil {
			i.log.Warn("history lookup failed", "file", file, "error", err)
		} else if seen {
			i.log.Debug("already submitted", "file", file)
			result.Skipped++
			return
		}
	}

	path := file
	if i.dryRun {
		if newName := i.renamer.Apply(filepath.Base(file)); newName != filepath.Base(file) {
			i.log.Info("would rename", "from", filepath.Base(file), "to", newName)
			path = filepath.Join(filepath.Dir(file), newName)
		}
	} else {
		renamed, changed, err := i.renamer.Rename(file)
		if err != nil {
			i.log.Warn("rename failed", "file", file, "error", err)
			result.Failed++
			return
		}
		if changed {
			i.log.Info("renamed", "from", filepath.Base(file), "to", filepath.Base(renamed))
		}
		path = renamed
	}

	res := i.resolver.Resolve(filepath.Base(path), series)
	if res.Method == match.MethodNone {
		i.log.Info("no series match", "file", filepath.Base(path), "best_score", res.Score)
		result.Unmatched++
		return
	}
	i.log.Debug("resolved series",
		"file", filepath.Base(path),
		"series", res.SeriesTitle,
		"series_id", res.SeriesID,
		"method", res.Method.String())

	if res.Learned != nil {
		result.Learned++
		if !i.dryRun {
			mapping := config.MappingRule{
				Pattern:  res.Learned.Pattern,
				SeriesID: res.Learned.SeriesID,
				Comment:  res.Learned.Comment,
			}
			if err := i.cfg.AppendMapping(mapping, i.cfgPath); err != nil {
				i.log.Warn("persisting learned mapping failed", "error", err)
			}
		}
	}

	remotePath := MapRemote(path, i.cfg.Import.LocalPath, i.cfg.Import.RemotePath)
	info := release.Parse(filepath.Base(path))

	if i.dryRun {
		i.log.Info("would submit",
			"path", remotePath,
			"series", res.SeriesTitle,
			"mode", string(i.importMode()))
		result.Submitted++
		return
	}

	cmd, err := i.client.ScanDownloads(ctx, remotePath, i.importMode(), "")
	if err != nil {
		i.log.Warn("submit failed", "path", remotePath, "error", err)
		result.Failed++
		i.journal(path, size, res, info, 0, history.OutcomeFailed)
		return
	}

	i.log.Info("submitted",
		"path", remotePath,
		"series", res.SeriesTitle,
		"command_id", cmd.ID)
	result.Submitted++
	i.journal(path, size, res, info, cmd.ID, history.OutcomeSubmitted)

	i.sleep(ctx, i.cfg.Import.Delay.Duration)
}

func (i *Importer) journal(path string, size int64, res match.Resolution, info *release.Info, commandID int64, outcome string) {
	if i.history == nil {
		return
	}
	entry := &history.Entry{
		Path:      path,
		SizeBytes: size,
		SeriesID:  res.SeriesID,
		Season:    info.Season,
		Episodes:  episodesCSV(info.Episodes),
		CommandID: commandID,
		Outcome:   outcome,
	}
	if err := i.history.Add(entry); err != nil {
		i.log.Warn("journal write failed", "path", path, "error", err)
	}
}

func (i *Importer) importMode() sonarr.ImportMode {
	if i.cfg.Import.Mode == "copy" {
		return sonarr.ImportModeCopy
	}
	return sonarr.ImportModeMove
}

// sleep waits for the per-call delay unless the context is cancelled first.
func (i *Importer) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func episodesCSV(eps []int) string {
	if len(eps) == 0 {
		return ""
	}
	parts := make([]string, len(eps))
	for i, e := range eps {
		parts[i] = strconv.Itoa(e)
	}
	return strings.Join(parts, ",")
}
