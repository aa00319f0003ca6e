package ansible

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchreport/internal/apperr"
)

const twoHostRun = `{
  "plays": [
    {
      "play": {"name": "Validate patching"},
      "tasks": [
        {"task": {"name": "Gather facts"}, "hosts": {"zeta": {}, "alpha": {}}},
        {
          "task": {"name": "Summarise"},
          "hosts": {
            "zeta": {
              "tasks": [
                {"task": {"name": "Display Java Running Status"},
                 "result": {"msg": "  Java Running Status: No, Java processes not found.\nextra  "}},
                {"task": {"name": "Display Last System Reboot Date and Time"},
                 "result": {"msg": "Last System Reboot Date/Time: 2024-03-01 10:00:00"}},
                {"task": {"name": "Unrelated"}, "result": {"msg": ["a", "list"]}}
              ]
            },
            "alpha": {}
          }
        }
      ]
    }
  ]
}`

func TestAggregationTaskKeepsHostOrder(t *testing.T) {
	doc, err := Parse([]byte(twoHostRun))
	require.NoError(t, err)

	group, err := doc.AggregationTask()
	require.NoError(t, err)
	assert.Equal(t, "Summarise", group.Name)
	require.Len(t, group.Hosts, 2)
	assert.Equal(t, "zeta", group.Hosts[0].Host)
	assert.Equal(t, "alpha", group.Hosts[1].Host)
}

func TestCollectLinesFollowsRuleOrder(t *testing.T) {
	doc, err := Parse([]byte(twoHostRun))
	require.NoError(t, err)
	group, err := doc.AggregationTask()
	require.NoError(t, err)

	lines, err := CollectLines(group.Hosts[0], DiagnosticTasks)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Last System Reboot Date/Time: 2024-03-01 10:00:00",
		"Java Running Status: No, Java processes not found.",
		"extra",
	}, lines)

	lines, err = CollectLines(group.Hosts[1], DiagnosticTasks)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAggregationTaskWithoutHosts(t *testing.T) {
	doc, err := Parse([]byte(`{"plays": [{"tasks": [{"task": {"name": "noop"}}]}]}`))
	require.NoError(t, err)

	group, err := doc.AggregationTask()
	require.NoError(t, err)
	assert.Empty(t, group.Hosts)
}

func TestStructureErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"not an object":  `[1, 2]`,
		"no plays":       `{"stats": {}}`,
		"empty plays":    `{"plays": []}`,
		"no tasks":       `{"plays": [{"play": {}}]}`,
		"empty tasks":    `{"plays": [{"tasks": []}]}`,
		"hosts is list":  `{"plays": [{"tasks": [{"hosts": ["web01"]}]}]}`,
		"truncated json": `{"plays": [`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(body))
			if err == nil {
				_, err = doc.AggregationTask()
			}
			var structural *apperr.StructureError
			assert.True(t, errors.As(err, &structural), "got %v", err)
		})
	}
}

func TestCollectLinesRejectsMalformedHost(t *testing.T) {
	cases := map[string]string{
		"host is scalar":      `"web01"`,
		"tasks is object":     `{"tasks": {}}`,
		"outcome is scalar":   `{"tasks": ["oops"]}`,
		"single line no msg":  `{"tasks": [{"task": {"name": "Display Date of Last Package Upgrade"}, "result": {"skipped": true}}]}`,
		"split lines non str": `{"tasks": [{"task": {"name": "Display Java Running Status"}, "result": {"msg": ["a"]}}]}`,
	}
	for name, host := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(`{"plays": [{"tasks": [{"hosts": {"web01": ` + host + `}}]}]}`))
			require.NoError(t, err)
			group, err := doc.AggregationTask()
			require.NoError(t, err)

			_, err = CollectLines(group.Hosts[0], DiagnosticTasks)
			var partial *apperr.PartialExtractionError
			require.True(t, errors.As(err, &partial), "got %v", err)
			assert.Equal(t, "web01", partial.Host)
		})
	}
}

func TestCollectLinesMissingSplitMessage(t *testing.T) {
	host := `{"tasks": [{"task": {"name": "Display Date of Last ClamAV Freshclam Update"}, "result": {}}]}`
	doc, err := Parse([]byte(`{"plays": [{"tasks": [{"hosts": {"web01": ` + host + `}}]}]}`))
	require.NoError(t, err)
	group, err := doc.AggregationTask()
	require.NoError(t, err)

	lines, err := CollectLines(group.Hosts[0], DiagnosticTasks)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParseAcceptsEscapedSlash(t *testing.T) {
	host := `{"tasks": [{"task": {"name": "Display Last System Reboot Date and Time"}, "result": {"msg": "Last System Reboot Date\/Time: 2024-03-01 10:00:00"}}]}`
	doc, err := Parse([]byte(`{"plays": [{"tasks": [{"hosts": {"web\/01": ` + host + `}}]}]}`))
	require.NoError(t, err)
	group, err := doc.AggregationTask()
	require.NoError(t, err)
	require.Len(t, group.Hosts, 1)
	assert.Equal(t, "web/01", group.Hosts[0].Host)

	lines, err := CollectLines(group.Hosts[0], DiagnosticTasks)
	require.NoError(t, err)
	assert.Equal(t, []string{"Last System Reboot Date/Time: 2024-03-01 10:00:00"}, lines)
}

func TestDuplicateKeysKeepLastValue(t *testing.T) {
	first := `{"tasks": [{"task": {"name": "Display Current Active Kernel Version and Build Date"}, "result": {"msg": "Current Active Kernel Version and Build Date: old"}}]}`
	second := `{"tasks": [], "tasks": [{"task": {"name": "Display Current Active Kernel Version and Build Date"}, "result": {"msg": "Current Active Kernel Version and Build Date: 5.14.0"}}]}`
	doc, err := Parse([]byte(`{"plays": [{"tasks": [{"hosts": {"web01": ` + first + `, "db02": {}, "web01": ` + second + `}}]}]}`))
	require.NoError(t, err)
	group, err := doc.AggregationTask()
	require.NoError(t, err)

	require.Len(t, group.Hosts, 2)
	assert.Equal(t, "web01", group.Hosts[0].Host)
	assert.Equal(t, "db02", group.Hosts[1].Host)

	lines, err := CollectLines(group.Hosts[0], DiagnosticTasks)
	require.NoError(t, err)
	assert.Equal(t, []string{"Current Active Kernel Version and Build Date: 5.14.0"}, lines)
}

func TestNullHostsIsStructureError(t *testing.T) {
	doc, err := Parse([]byte(`{"plays": [{"tasks": [{"hosts": null}]}]}`))
	require.NoError(t, err)
	_, err = doc.AggregationTask()
	var structural *apperr.StructureError
	assert.True(t, errors.As(err, &structural), "got %v", err)
}
