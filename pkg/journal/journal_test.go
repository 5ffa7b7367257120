package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/bisegni/sds/pkg/container"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	assert.Equal(t, err, nil)
	assert.Equal(t, f, JSON)
	f, err = ParseFormat("")
	assert.Equal(t, err, nil)
	assert.Equal(t, f, Text)
	_, err = ParseFormat("xml")
	assert.NotEqual(t, err, nil)
}

func TestTextJournal(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf, Text)
	a := container.NewArray(container.WithDelegate[map[string]interface{}](j))

	assert.Equal(t, a.AppendSection(nil, container.Named("fruit")), nil)
	assert.Equal(t, a.Insert(map[string]interface{}{"n": 1}, container.Position{}), nil)
	assert.Equal(t, a.Remove(container.Position{}), nil)

	want := []string{
		"#1 willChange",
		`#1 section insert 0 "fruit" (0 objects)`,
		"#1 didChange sections=1",
		"#2 willChange",
		`#2 object insert to=(0,0) {"n":1}`,
		"#2 didChange sections=1",
		"#3 willChange",
		`#3 object delete from=(0,0) {"n":1}`,
		"#3 didChange sections=1",
	}
	assert.Equal(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), want)
	assert.Equal(t, j.Count(), 9)
}

func TestJSONJournal(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf, JSON)
	a := container.NewArray(
		container.WithObjects([]string{"a"}, container.SectionOptions{}),
		container.WithDelegate[string](j),
	)

	assert.Equal(t, a.Replace("b", container.Position{}, true), nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 3)

	var ev map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("line is not JSON: %v: %s", err, lines[1])
	}
	assert.Equal(t, ev["event"], "object")
	assert.Equal(t, ev["change"], "reload")
	assert.Equal(t, ev["object"], "b")
	assert.Equal(t, ev["from"], []interface{}{float64(0), float64(0)})
	assert.Equal(t, ev["batch"], float64(1))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestUnbracketedReplaceGetsOwnBatch(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf, Text)
	a := container.NewArray(
		container.WithObjects([]string{"a"}, container.Named("")),
		container.WithDelegate[string](j),
		container.WithLegacyReplaceBracketing[string](),
	)

	assert.Equal(t, a.Replace("b", container.Position{}, false), nil)
	assert.Equal(t, a.Insert("c", container.Position{Row: 1}), nil)

	want := []string{
		`#1 object update from=(0,0) to=(0,0) "b" unbracketed`,
		"#2 willChange",
		`#2 object insert to=(0,1) "c"`,
		"#2 didChange sections=1",
	}
	assert.Equal(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), want)

	buf.Reset()
	j = New(&buf, JSON)
	a.SetDelegate(j)
	assert.Equal(t, a.Replace("d", container.Position{}, true), nil)
	var ev map[string]interface{}
	assert.Equal(t, json.Unmarshal(buf.Bytes(), &ev), nil)
	assert.Equal(t, ev["unbracketed"], true)
	assert.Equal(t, ev["batch"], 1.0)
}

func TestWriteErrorStopsJournal(t *testing.T) {
	j := New(failingWriter{}, Text)
	a := container.NewArray(container.WithDelegate[int](j))

	assert.Equal(t, a.Insert(1, container.Position{}), nil)
	assert.NotEqual(t, j.Err(), nil)
	assert.Equal(t, j.Count(), 0)
}
