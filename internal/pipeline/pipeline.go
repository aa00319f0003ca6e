// Package pipeline runs one report generation pass: read the result
// document, extract host records, render both artifacts and replace them.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"patchreport/internal/ansible"
	"patchreport/internal/apperr"
	"patchreport/internal/config"
	"patchreport/internal/extract"
	"patchreport/internal/metrics"
	"patchreport/internal/models"
	"patchreport/internal/report"
	"patchreport/internal/storage"
)

// Pipeline holds what a single pass needs.
type Pipeline struct {
	cfg    config.Config
	logger logrus.FieldLogger
	out    io.Writer
	now    func() time.Time
}

// New creates a pipeline writing confirmation lines to out.
func New(cfg config.Config, logger logrus.FieldLogger, out io.Writer) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger, out: out, now: time.Now}
}

// Run executes the pass. Nothing is written unless both artifacts rendered.
func (p *Pipeline) Run() error {
	data, err := os.ReadFile(p.cfg.InputFile)
	if errors.Is(err, os.ErrNotExist) {
		return &apperr.InputNotFoundError{Path: p.cfg.InputFile}
	}
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	doc, err := ansible.Parse(data)
	if err != nil {
		return err
	}
	reports, err := extract.New(p.logger).Extract(doc)
	if err != nil {
		return err
	}
	p.logSummary(reports)

	csvData, err := report.CSV(reports)
	if err != nil {
		return err
	}
	mdData := report.Markdown(reports, p.now())

	confirmations := map[string]string{
		p.cfg.CSVOutputFile:      "CSV report generated",
		p.cfg.MarkdownOutputFile: "Markdown report generated",
	}
	return storage.ReplaceAll([]storage.Artifact{
		{Path: p.cfg.CSVOutputFile, Data: csvData},
		{Path: p.cfg.MarkdownOutputFile, Data: mdData},
	}, func(path string) {
		fmt.Fprintf(p.out, "%s: %s\n", confirmations[path], path)
	})
}

func (p *Pipeline) logSummary(reports *models.HostReports) {
	cutoff, err := p.cfg.PatchCutoff()
	if err != nil {
		p.logger.WithError(err).Warn("ignoring expected patch date")
	}
	summary := metrics.Summarize(reports, cutoff)
	fields := logrus.Fields{
		"input":          p.cfg.InputFile,
		"hosts":          summary.Hosts,
		"pkg_reported":   summary.PackagesReported,
		"av_reported":    summary.AVReported,
		"java_running":   summary.JavaRunning,
		"patched_pct":    summary.PatchedPercent,
		"patched_recent": summary.PatchedSinceCutoff,
		"av_recent":      summary.AVSinceCutoff,
	}
	if !cutoff.IsZero() {
		fields["cutoff"] = cutoff.Format("2006-01-02")
	}
	p.logger.WithFields(fields).Info("extracted host records")
}
