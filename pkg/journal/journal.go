// Package journal writes container change notifications to a stream, one
// line per callback, as plain text or as JSON objects.
package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bisegni/sds/pkg/container"
)

// Format selects the line encoding.
type Format int

const (
	Text Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "text"
}

// ParseFormat accepts "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return Text, fmt.Errorf("unknown event format %q (want text or json)", s)
	}
}

// Journal is a container.Delegate that logs every callback.
type Journal struct {
	w      io.Writer
	format Format
	batch  int
	open   bool
	count  int
	err    error
}

func New(w io.Writer, format Format) *Journal {
	return &Journal{w: w, format: format}
}

// Count returns the number of lines written.
func (j *Journal) Count() int {
	return j.count
}

// Err returns the first write or encoding error; later lines are dropped.
func (j *Journal) Err() error {
	return j.err
}

func (j *Journal) WillChangeContent(c container.ContainerInfo) {
	j.batch++
	j.open = true
	j.emit(map[string]interface{}{"event": container.WillChange.String()})
}

func (j *Journal) DidChangeObject(c container.ContainerInfo, obj any, from *container.Position, kind container.ChangeType, to *container.Position) {
	fields := map[string]interface{}{
		"event":  container.ObjectChanged.String(),
		"change": kind.String(),
	}
	if from != nil {
		fields["from"] = position(*from)
	}
	if to != nil {
		fields["to"] = position(*to)
	}
	if obj != nil {
		fields["object"] = obj
	}
	j.emitChange(fields)
}

func (j *Journal) DidChangeSection(c container.ContainerInfo, s container.SectionInfo, index int, kind container.ChangeType) {
	j.emitChange(map[string]interface{}{
		"event":   container.SectionChanged.String(),
		"change":  kind.String(),
		"index":   index,
		"name":    s.Name(),
		"objects": s.NumberOfObjects(),
	})
}

func (j *Journal) DidChangeContent(c container.ContainerInfo) {
	j.open = false
	j.emit(map[string]interface{}{
		"event":    container.DidChange.String(),
		"sections": c.NumberOfSections(),
	})
}

func position(p container.Position) []interface{} {
	return []interface{}{p.Section, p.Row}
}

// emitChange numbers an event delivered outside a WillChange/DidChange pair
// as a batch of its own and flags it unbracketed.
func (j *Journal) emitChange(fields map[string]interface{}) {
	if !j.open {
		j.batch++
		fields["unbracketed"] = true
	}
	j.emit(fields)
}

func (j *Journal) emit(fields map[string]interface{}) {
	if j.err != nil {
		return
	}
	fields["batch"] = j.batch

	var line string
	var err error
	if j.format == JSON {
		line, err = encodeJSON(fields)
	} else {
		line, err = encodeText(fields)
	}
	if err == nil {
		_, err = fmt.Fprintln(j.w, line)
	}
	if err != nil {
		glog.Errorf("journal: %v", err)
		j.err = err
		return
	}
	j.count++
	glog.V(1).Infof("journal: %s", line)
}

// encodeJSON goes through structpb so objects of any shape end up as plain
// JSON values.
func encodeJSON(fields map[string]interface{}) (string, error) {
	if obj, ok := fields["object"]; ok {
		v, err := normalize(obj)
		if err != nil {
			return "", err
		}
		fields["object"] = v
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}
	return string(b), nil
}

func normalize(obj any) (interface{}, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encode object: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("encode object: %w", err)
	}
	return v, nil
}

func encodeText(fields map[string]interface{}) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", fields["batch"], fields["event"])
	if change, ok := fields["change"]; ok {
		fmt.Fprintf(&b, " %s", change)
	}
	if index, ok := fields["index"]; ok {
		fmt.Fprintf(&b, " %d %q (%d objects)", index, fields["name"], fields["objects"])
	}
	for _, key := range []string{"from", "to"} {
		if p, ok := fields[key].([]interface{}); ok {
			fmt.Fprintf(&b, " %s=(%d,%d)", key, p[0], p[1])
		}
	}
	if obj, ok := fields["object"]; ok {
		v, err := json.Marshal(obj)
		if err != nil {
			return "", fmt.Errorf("encode object: %w", err)
		}
		b.WriteString(" ")
		b.Write(v)
	}
	if n, ok := fields["sections"]; ok {
		fmt.Fprintf(&b, " sections=%d", n)
	}
	if fields["unbracketed"] == true {
		b.WriteString(" unbracketed")
	}
	return b.String(), nil
}

var _ container.Delegate = (*Journal)(nil)
