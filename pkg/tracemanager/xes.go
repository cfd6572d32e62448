// Package tracemanager reads XES event logs and turns them into the
// labeled sequences the learner consumes. One file holds one log; a
// log holds traces; each event contributes the string value of its
// concept:name attribute. Whether a file's traces are accepted or
// rejected is a naming convention: files with "OK" in their name carry
// positive examples.
package tracemanager

import (
	"encoding/xml"
	"fmt"
	"os"
)

// conceptName is the XES attribute naming an event.
const conceptName = "concept:name"

type xesLog struct {
	XMLName xml.Name   `xml:"log"`
	Traces  []xesTrace `xml:"trace"`
}

type xesTrace struct {
	Events []xesEvent `xml:"event"`
}

type xesEvent struct {
	Strings []xesAttribute `xml:"string"`
}

type xesAttribute struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

func (e xesEvent) name() (string, bool) {
	for _, attr := range e.Strings {
		if attr.Key == conceptName {
			return attr.Value, true
		}
	}
	return "", false
}

// ReadTraces parses one XES file and returns its traces, each a list
// of event names. Events without a concept:name attribute are skipped.
func ReadTraces(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var log xesLog
	if err := xml.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	traces := make([][]string, 0, len(log.Traces))
	for _, tr := range log.Traces {
		trace := make([]string, 0, len(tr.Events))
		for _, ev := range tr.Events {
			if name, ok := ev.name(); ok {
				trace = append(trace, name)
			}
		}
		traces = append(traces, trace)
	}
	return traces, nil
}
