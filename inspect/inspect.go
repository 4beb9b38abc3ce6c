// Package inspect renders point-in-time snapshots of an emitx.Emitter as
// JSON, YAML or Graphviz DOT.
package inspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/emitx"
)

// Entry describes one event name in a Snapshot.
type Entry struct {
	Name        string   `json:"name" yaml:"name"`
	PayloadType string   `json:"payloadType" yaml:"payloadType"`
	Listeners   int      `json:"listeners" yaml:"listeners"`
	Connections []string `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// Snapshot is the serializable state of an emitter.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Events    []Entry   `json:"events" yaml:"events"`
}

// Take captures the current events and connections of em.
func Take(em *emitx.Emitter) Snapshot {
	infos := em.Inspect()
	snap := Snapshot{
		Timestamp: time.Now().UTC(),
		Events:    make([]Entry, 0, len(infos)),
	}
	for _, info := range infos {
		e := Entry{
			Name:        info.Name,
			PayloadType: info.PayloadType,
			Listeners:   info.Listeners,
		}
		for _, id := range info.Connections {
			e.Connections = append(e.Connections, id.String())
		}
		snap.Events = append(snap.Events, e)
	}
	return snap
}

// Listeners returns the total number of active connections.
func (s Snapshot) Listeners() int {
	n := 0
	for _, e := range s.Events {
		n += e.Listeners
	}
	return n
}

// JSON encodes the snapshot as indented JSON.
func (s Snapshot) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return data, nil
}

// YAML encodes the snapshot as YAML.
func (s Snapshot) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// ParseJSON decodes a snapshot produced by Snapshot.JSON.
func ParseJSON(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return s, nil
}

// ParseYAML decodes a snapshot produced by Snapshot.YAML.
func ParseYAML(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return s, nil
}

// DOT renders the snapshot as a Graphviz digraph: one box per event name and
// one edge per active connection. Events without listeners are greyed out.
func (s Snapshot) DOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph Emitter {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")

	for _, e := range s.Events {
		style := ""
		if e.Listeners == 0 {
			style = " style=\"rounded,filled\" fillcolor=lightgrey"
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", e.Name, fmt.Sprintf("%s\n%s", e.Name, e.PayloadType), style)
		for _, id := range e.Connections {
			fmt.Fprintf(&buf, "  %q [label=%q shape=ellipse];\n", id, shortID(id))
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Name, id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// Format selects a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDOT  Format = "dot"
)

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatDOT:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown snapshot format %q", name)
	}
}

// Write encodes s in format f to w.
func Write(w io.Writer, s Snapshot, f Format) error {
	var data []byte
	var err error
	switch f {
	case FormatJSON:
		data, err = s.JSON()
	case FormatYAML:
		data, err = s.YAML()
	case FormatDOT:
		data = []byte(s.DOT())
	default:
		return fmt.Errorf("unknown snapshot format %q", f)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
