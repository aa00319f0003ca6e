// Package ansible decodes the JSON result document written by an Ansible
// playbook run and exposes the pieces the report is built from.
package ansible

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Jeffail/gabs/v2"
	"github.com/Velocidex/ordereddict"

	"patchreport/internal/apperr"
)

// Document is a decoded automation-run result.
type Document struct {
	root map[string]json.RawMessage
}

// TaskGroup is one task of a play together with its per-host outcomes.
type TaskGroup struct {
	Name  string
	Hosts []HostOutcome
}

// HostOutcome is the raw entry recorded for one host under a task group.
type HostOutcome struct {
	Host string
	raw  json.RawMessage
}

// Parse decodes a result document. Only the top level is decoded here; the
// play/task chain is resolved lazily by AggregationTask.
func Parse(data []byte) (*Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, apperr.Structure("", "top level is not an object")
		}
		return nil, apperr.Structure("", "decode: %v", err)
	}
	if root == nil {
		return nil, apperr.Structure("", "top level is not an object")
	}
	return &Document{root: root}, nil
}

// AggregationTask returns the last task group of the first play. Runs that
// collect every diagnostic in a final reporting task list each host there once.
func (d *Document) AggregationTask() (TaskGroup, error) {
	var plays []json.RawMessage
	if err := decodeField(d.root, "plays", &plays); err != nil || len(plays) == 0 {
		return TaskGroup{}, apperr.Structure("plays", "expected a non-empty list")
	}
	var play map[string]json.RawMessage
	if err := json.Unmarshal(plays[0], &play); err != nil || play == nil {
		return TaskGroup{}, apperr.Structure("plays[0]", "expected an object")
	}
	var tasks []json.RawMessage
	if err := decodeField(play, "tasks", &tasks); err != nil || len(tasks) == 0 {
		return TaskGroup{}, apperr.Structure("plays[0].tasks", "expected a non-empty list")
	}
	last := len(tasks) - 1
	path := fmt.Sprintf("plays[0].tasks[%d]", last)
	var task map[string]json.RawMessage
	if err := json.Unmarshal(tasks[last], &task); err != nil || task == nil {
		return TaskGroup{}, apperr.Structure(path, "expected an object")
	}

	group := TaskGroup{Name: taskName(task["task"])}
	raw, pres := task["hosts"]
	if !pres {
		return group, nil
	}
	hosts, err := orderedObject(raw)
	if err != nil {
		return TaskGroup{}, apperr.Structure(path+".hosts", "expected an object: %v", err)
	}
	for _, host := range hosts.Keys() {
		value, _ := hosts.Get(host)
		body, _ := value.(json.RawMessage)
		group.Hosts = append(group.Hosts, HostOutcome{Host: host, raw: body})
	}
	return group, nil
}

// Outcomes returns the host's own recorded task outcomes. A host entry
// without a tasks list has no outcomes.
func (h HostOutcome) Outcomes() ([]*gabs.Container, error) {
	record, err := gabs.ParseJSON(h.raw)
	if err != nil {
		return nil, &apperr.PartialExtractionError{Host: h.Host, Reason: err.Error()}
	}
	if _, ok := record.Data().(map[string]interface{}); !ok {
		return nil, &apperr.PartialExtractionError{Host: h.Host, Reason: "host entry is not an object"}
	}

	tasks := record.Search("tasks")
	if tasks.Data() == nil {
		return nil, nil
	}
	if _, ok := tasks.Data().([]interface{}); !ok {
		return nil, &apperr.PartialExtractionError{Host: h.Host, Reason: "tasks is not a list"}
	}
	return tasks.Children(), nil
}

// orderedObject decodes a JSON object keeping its keys in document order.
// A repeated key keeps its first position and takes the last value.
func orderedObject(raw json.RawMessage) (*ordereddict.Dict, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("found %v", tok)
	}

	result := ordereddict.NewDict()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if _, pres := result.Get(key); pres {
			result.Update(key, value)
		} else {
			result.Set(key, value)
		}
	}
	return result, nil
}

func decodeField(object map[string]json.RawMessage, key string, out interface{}) error {
	raw, pres := object[key]
	if !pres {
		return fmt.Errorf("%s is missing", key)
	}
	return json.Unmarshal(raw, out)
}

func taskName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	parsed, err := gabs.ParseJSON(raw)
	if err != nil {
		return ""
	}
	name, _ := parsed.Search("name").Data().(string)
	return name
}
