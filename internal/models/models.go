package models

import (
	"github.com/Velocidex/ordereddict"
)

// NotAvailable marks a fact that could not be located for a host.
const NotAvailable = "N/A"

// HostReport is the normalized six-field record for one host.
type HostReport struct {
	Host          string `json:"host"`
	RockyUpdated  string `json:"rocky_updated"`
	ClamAVUpdated string `json:"clamav_updated"`
	LastReboot    string `json:"last_reboot"`
	KernelVersion string `json:"kernel_version"`
	JavaRunning   string `json:"java_running"`
}

// Columns lists the report headers in declared order.
var Columns = []string{"Host", "Rocky Updated", "ClamAV Updated", "Last Reboot", "Kernel Version", "Java Running"}

// Row returns the record's fields in Columns order.
func (r HostReport) Row() []string {
	return []string{r.Host, r.RockyUpdated, r.ClamAVUpdated, r.LastReboot, r.KernelVersion, r.JavaRunning}
}

// HostReports maps host identifiers to records, iterating in insertion order.
type HostReports struct {
	dict *ordereddict.Dict
}

// NewHostReports creates an empty mapping.
func NewHostReports() *HostReports {
	return &HostReports{dict: ordereddict.NewDict()}
}

// Set stores a record under its host. Re-setting a host keeps its original position.
func (h *HostReports) Set(report HostReport) {
	if _, pres := h.dict.Get(report.Host); pres {
		h.dict.Update(report.Host, report)
		return
	}
	h.dict.Set(report.Host, report)
}

// Get returns the record for host.
func (h *HostReports) Get(host string) (HostReport, bool) {
	value, pres := h.dict.Get(host)
	if !pres {
		return HostReport{}, false
	}
	report, ok := value.(HostReport)
	return report, ok
}

// Len reports the number of hosts.
func (h *HostReports) Len() int {
	return h.dict.Len()
}

// Hosts returns host identifiers in insertion order.
func (h *HostReports) Hosts() []string {
	return h.dict.Keys()
}

// Records returns a copy of all records in insertion order.
func (h *HostReports) Records() []HostReport {
	keys := h.dict.Keys()
	out := make([]HostReport, 0, len(keys))
	for _, key := range keys {
		if report, ok := h.Get(key); ok {
			out = append(out, report)
		}
	}
	return out
}
