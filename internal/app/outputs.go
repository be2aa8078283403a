package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitblends/scalametrics-sub000/internal/report"
	"github.com/bitblends/scalametrics-sub000/internal/rollup"
)

// WriteOutputs renders the configured report formats. A format with an empty
// path is skipped. The first write failure aborts; a partial set of outputs
// on disk is acceptable, a silently missing one is not.
func (a *App) WriteOutputs(project rollup.ProjectResult) error {
	out := a.Config.Output

	if out.JSON != "" {
		doc := report.FromProject(project)
		data, err := doc.EncodeJSON()
		if err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		if err := writeFileAtomic(out.JSON, append(data, '\n')); err != nil {
			return fmt.Errorf("write json report: %w", err)
		}
	}

	if out.CSV != "" {
		doc := report.FromProject(project)
		if err := writeFileAtomic(out.CSV, []byte(report.FlattenedCSV(doc))); err != nil {
			return fmt.Errorf("write csv report: %w", err)
		}
	}

	if out.TSV != "" {
		if err := writeFileAtomic(out.TSV, []byte(report.GenerateTSV(project))); err != nil {
			return fmt.Errorf("write tsv report: %w", err)
		}
	}

	if out.Markdown != "" {
		gen := report.NewMarkdownGenerator()
		text, err := gen.Generate(project, report.MarkdownOptions{})
		if err != nil {
			return fmt.Errorf("generate markdown report: %w", err)
		}
		if err := writeFileAtomic(out.Markdown, []byte(text)); err != nil {
			return fmt.Errorf("write markdown report: %w", err)
		}
	}

	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
