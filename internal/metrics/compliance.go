package metrics

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"

	"patchreport/internal/models"
)

// Summary aggregates compliance counts across all reported hosts.
type Summary struct {
	Hosts              int     `json:"hosts"`
	PackagesReported   int     `json:"packages_reported"`
	PatchedSinceCutoff int     `json:"patched_since_cutoff"`
	AVReported         int     `json:"av_reported"`
	AVSinceCutoff      int     `json:"av_since_cutoff"`
	JavaRunning        int     `json:"java_running"`
	PatchedPercent     float64 `json:"patched_percent"`
}

// Summarize counts hosts whose last package upgrade and AV update carry a
// parsable date, and how many of those are on or after cutoff. A zero cutoff
// accepts every parsable date.
func Summarize(reports *models.HostReports, cutoff time.Time) Summary {
	records := reports.Records()
	summary := Summary{Hosts: len(records)}

	for _, record := range records {
		if when, ok := statusDate(record.RockyUpdated, "Last Pkg:"); ok {
			summary.PackagesReported++
			if cutoff.IsZero() || !when.Before(cutoff) {
				summary.PatchedSinceCutoff++
			}
		}
		if when, ok := statusDate(record.ClamAVUpdated, "Last AV:"); ok {
			summary.AVReported++
			if cutoff.IsZero() || !when.Before(cutoff) {
				summary.AVSinceCutoff++
			}
		}
	}
	summary.JavaRunning = lo.CountBy(records, func(r models.HostReport) bool {
		return r.JavaRunning == "Yes"
	})
	if summary.Hosts > 0 {
		summary.PatchedPercent = round2(float64(summary.PatchedSinceCutoff) / float64(summary.Hosts) * 100)
	}
	return summary
}

func statusDate(status, prefix string) (time.Time, bool) {
	value, found := strings.CutPrefix(status, prefix)
	if !found {
		return time.Time{}, false
	}
	value = strings.TrimSpace(value)
	if value == "" || value == models.NotAvailable {
		return time.Time{}, false
	}
	when, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}, false
	}
	return when, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
