package updater

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/mdmeta/internal/fileio"
	"git.home.luguber.info/inful/mdmeta/internal/logfields"
)

// Summary accumulates batch counters.
type Summary struct {
	Processed int
	Modified  int
	Errored   int
}

// ProcessFile reads, transforms, and (unless dry-run) rewrites one document.
func (u *Updater) ProcessFile(ctx context.Context, path string, req Request) (Result, error) {
	raw, err := fileio.ReadDocument(path)
	if err != nil {
		return Result{}, err
	}

	result, err := u.Apply(ctx, path, raw, req)
	if err != nil {
		return Result{}, err
	}

	if result.Modified && !req.DryRun {
		if err := fileio.WriteDocument(path, result.Content); err != nil {
			return Result{}, err
		}
	}
	return result, nil
}

// ProcessBatch runs the request over every path sequentially. A failure on
// one document is logged and counted; it never aborts the rest of the batch.
func (u *Updater) ProcessBatch(ctx context.Context, paths []string, req Request) (Summary, []Result) {
	var summary Summary
	results := make([]Result, 0, len(paths))

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}

		result, err := u.ProcessFile(ctx, path, req)
		summary.Processed++
		if err != nil {
			summary.Errored++
			slog.Error("document processing failed", logfields.Path(path), logfields.Error(err))
			continue
		}

		if result.Modified {
			summary.Modified++
		}
		logResult(result)
		results = append(results, result)
	}

	return summary, results
}

func logResult(r Result) {
	switch {
	case r.Action == ActionUnchanged:
		slog.Debug("no changes", logfields.Path(r.Path))
	case r.Action == ActionRemoved:
		slog.Info("metadata removed", logfields.Path(r.Path))
	case r.NewVersion != "":
		slog.Info("metadata updated",
			logfields.Path(r.Path),
			logfields.Tier(string(r.Tier)),
			logfields.Version(r.NewVersion))
	default:
		slog.Info("metadata updated", logfields.Path(r.Path))
	}
}
