package ansible

import (
	"fmt"
	"strings"

	"github.com/Jeffail/gabs/v2"

	"patchreport/internal/apperr"
)

// LineMode selects how a task's msg payload becomes diagnostic lines.
type LineMode int

const (
	// WholeMessage appends the payload verbatim as one line.
	WholeMessage LineMode = iota
	// SplitLines trims the payload and appends each of its lines.
	SplitLines
)

// TaskRule binds a debug task name to the way its message is collected.
type TaskRule struct {
	Name string
	Mode LineMode
}

// DiagnosticTasks are the debug tasks of the validation playbook whose
// messages carry the report facts, in the order their lines are collected.
var DiagnosticTasks = []TaskRule{
	{Name: "Display Last System Reboot Date and Time", Mode: WholeMessage},
	{Name: "Display Date of Last Package Upgrade", Mode: WholeMessage},
	{Name: "Display Current Active Kernel Version and Build Date", Mode: WholeMessage},
	{Name: "Display Date of Last ClamAV Freshclam Update", Mode: SplitLines},
	{Name: "Display Java Running Status", Mode: SplitLines},
}

// CollectLines builds the diagnostic line set for one host. Rules are applied
// in order and each appends the lines of every outcome carrying its task name.
// Task names that never ran contribute nothing.
func CollectLines(host HostOutcome, rules []TaskRule) ([]string, error) {
	outcomes, err := host.Outcomes()
	if err != nil {
		return nil, err
	}
	for i, outcome := range outcomes {
		if _, ok := outcome.Data().(map[string]interface{}); !ok {
			return nil, &apperr.PartialExtractionError{
				Host:   host.Host,
				Reason: fmt.Sprintf("task outcome %d is not an object", i),
			}
		}
	}

	var lines []string
	for _, rule := range rules {
		for _, outcome := range outcomes {
			if name, _ := outcome.Search("task", "name").Data().(string); name != rule.Name {
				continue
			}
			collected, err := rule.collect(host.Host, outcome)
			if err != nil {
				return nil, err
			}
			lines = append(lines, collected...)
		}
	}
	return lines, nil
}

func (r TaskRule) collect(host string, outcome *gabs.Container) ([]string, error) {
	payload := outcome.Search("result", "msg").Data()
	switch r.Mode {
	case SplitLines:
		if payload == nil {
			return nil, nil
		}
		msg, ok := payload.(string)
		if !ok {
			return nil, &apperr.PartialExtractionError{Host: host, Task: r.Name, Reason: "msg is not a string"}
		}
		msg = strings.TrimSpace(msg)
		if msg == "" {
			return nil, nil
		}
		return splitLines(msg), nil
	default:
		msg, ok := payload.(string)
		if !ok {
			return nil, &apperr.PartialExtractionError{Host: host, Task: r.Name, Reason: "msg is missing or not a string"}
		}
		return []string{msg}, nil
	}
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
