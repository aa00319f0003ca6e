// Package extract turns an Ansible validation run into per-host report records.
package extract

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"patchreport/internal/ansible"
	"patchreport/internal/models"
)

const (
	pkgHistoryUnknown = "N/A - Could not determine from DNF history."
	clamAVMissingDB   = "database file not found"
	javaFound         = "Yes, Java processes found."
)

// Extractor builds host report records from a result document.
type Extractor struct {
	rules  []ansible.TaskRule
	logger logrus.FieldLogger
}

// New creates an extractor using the validation playbook's diagnostic tasks.
func New(logger logrus.FieldLogger) *Extractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Extractor{rules: ansible.DiagnosticTasks, logger: logger}
}

// Extract produces one record per host of the document's aggregation task,
// in document order. A host with no recognisable lines still gets a record.
func (e *Extractor) Extract(doc *ansible.Document) (*models.HostReports, error) {
	group, err := doc.AggregationTask()
	if err != nil {
		return nil, err
	}

	reports := models.NewHostReports()
	for _, host := range group.Hosts {
		lines, err := ansible.CollectLines(host, e.rules)
		if err != nil {
			return nil, errors.Wrap(err, "extract")
		}
		report := BuildReport(host.Host, ParseFacts(lines))
		e.logger.WithFields(logrus.Fields{
			"host":  host.Host,
			"lines": len(lines),
		}).Debug("extracted host facts")
		reports.Set(report)
	}
	return reports, nil
}

// BuildReport derives the report fields from raw facts.
func BuildReport(host string, facts Facts) models.HostReport {
	report := models.HostReport{
		Host:          host,
		RockyUpdated:  models.NotAvailable,
		ClamAVUpdated: models.NotAvailable,
		LastReboot:    facts.LastReboot,
		KernelVersion: facts.KernelVersion,
		JavaRunning:   "No",
	}
	// A missing line yields "N/A", which still passes both checks below and
	// is reported as "Last Pkg: N/A" / "Last AV: N/A".
	if facts.LastPkgUpgrade != pkgHistoryUnknown {
		report.RockyUpdated = "Last Pkg: " + firstToken(facts.LastPkgUpgrade)
	}
	if !strings.Contains(facts.ClamAVUpdate, clamAVMissingDB) {
		report.ClamAVUpdated = "Last AV: " + firstToken(facts.ClamAVUpdate)
	}
	if strings.Contains(facts.JavaStatus, javaFound) {
		report.JavaRunning = "Yes"
	}
	return report
}
