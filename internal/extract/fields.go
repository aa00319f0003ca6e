package extract

import (
	"strings"

	"patchreport/internal/models"
)

// Labels prefixing the diagnostic lines printed by the validation playbook.
const (
	LabelLastReboot     = "Last System Reboot Date/Time:"
	LabelLastPkgUpgrade = "Date of Last Package Upgrade:"
	LabelKernelVersion  = "Current Active Kernel Version and Build Date:"
	LabelClamAVUpdate   = "ClamAV Freshclam Last Database Update:"
	LabelJavaStatus     = "Java Running Status:"
)

// Facts holds the raw values recovered from a host's diagnostic lines.
type Facts struct {
	LastReboot     string
	LastPkgUpgrade string
	KernelVersion  string
	ClamAVUpdate   string
	JavaStatus     string
}

// Value returns the text after the first colon of the first line starting
// with label, trimmed. It returns models.NotAvailable when no line matches.
func Value(lines []string, label string) string {
	for _, line := range lines {
		if !strings.HasPrefix(line, label) {
			continue
		}
		_, value, _ := strings.Cut(line, ":")
		return strings.TrimSpace(value)
	}
	return models.NotAvailable
}

// ParseFacts looks up every label in lines.
func ParseFacts(lines []string) Facts {
	return Facts{
		LastReboot:     Value(lines, LabelLastReboot),
		LastPkgUpgrade: Value(lines, LabelLastPkgUpgrade),
		KernelVersion:  Value(lines, LabelKernelVersion),
		ClamAVUpdate:   Value(lines, LabelClamAVUpdate),
		JavaStatus:     Value(lines, LabelJavaStatus),
	}
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
