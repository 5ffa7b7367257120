package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

// IDField is the record key holding the record identity.
const IDField = "_id"

// Record represents a single JSON object
type Record map[string]interface{}

// ID returns the record identity, or "" when the record has none.
func (r Record) ID() string {
	switch v := r[IDField].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// AssignIDs gives every record without an identity a fresh ULID.
func AssignIDs(records []Record) {
	for _, r := range records {
		if r.ID() == "" {
			r[IDField] = NewID()
		}
	}
}

// NewID returns a new sortable record identity.
func NewID() string {
	return ulid.Make().String()
}

// Format is the encoding of a record source.
type Format int

const (
	FormatJSON Format = iota
	FormatJSONL
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSONL:
		return "JSONL"
	case FormatYAML:
		return "YAML"
	default:
		return "JSON"
	}
}

// Parser handles reading JSON, JSONL and YAML record sources
type Parser struct {
	file   io.ReadCloser
	format Format
}

// NewParser creates a new parser for the given source
// Special cases:
// - Empty string or "-" reads from stdin
// - Strings starting with '{' or '[' are treated as inline JSON
func NewParser(source string) (*Parser, error) {
	if len(source) > 0 && (source[0] == '{' || source[0] == '[') {
		return &Parser{file: io.NopCloser(strings.NewReader(source)), format: FormatJSON}, nil
	}
	if source == "" || source == "-" {
		return &Parser{file: io.NopCloser(os.Stdin), format: FormatJSON}, nil
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &Parser{file: file, format: DetectFormat(source)}, nil
}

// DetectFormat picks a format from the file extension, defaulting to JSON.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Close closes the underlying source
func (p *Parser) Close() error {
	return p.file.Close()
}

// Format returns the detected source format
func (p *Parser) Format() Format {
	return p.format
}

// IsJSONL returns whether the parser is treating the source as JSONL
func (p *Parser) IsJSONL() bool {
	return p.format == FormatJSONL
}

// ReadAll reads all records from the source
func (p *Parser) ReadAll() ([]Record, error) {
	switch p.format {
	case FormatJSONL:
		return readJSONL(p.file)
	case FormatYAML:
		return readYAML(p.file)
	default:
		return readJSON(p.file)
	}
}

// Load opens source, reads every record and closes it.
func Load(source string) ([]Record, Format, error) {
	p, err := NewParser(source)
	if err != nil {
		return nil, FormatJSON, err
	}
	defer p.Close()

	records, err := p.ReadAll()
	if err != nil {
		return nil, p.format, err
	}
	return records, p.format, nil
}

// readJSON reads a stream of JSON values: objects or arrays of objects
func readJSON(r io.Reader) ([]Record, error) {
	decoder := json.NewDecoder(r)

	var allRecords []Record
	for {
		var data interface{}
		if err := decoder.Decode(&data); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		records, err := toRecords(data)
		if err != nil {
			return nil, err
		}
		allRecords = append(allRecords, records...)
	}
	return allRecords, nil
}

// readJSONL reads a JSONL (JSON Lines) source
func readJSONL(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(text, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSONL record on line %d: %w", line, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading JSONL file: %w", err)
	}
	return records, nil
}

// readYAML reads one or more YAML documents, each an object or a list of objects
func readYAML(r io.Reader) ([]Record, error) {
	decoder := yaml.NewDecoder(r)

	var allRecords []Record
	for {
		var data interface{}
		if err := decoder.Decode(&data); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		if data == nil {
			continue
		}
		records, err := toRecords(data)
		if err != nil {
			return nil, err
		}
		allRecords = append(allRecords, records...)
	}
	return allRecords, nil
}

func toRecords(data interface{}) ([]Record, error) {
	switch v := data.(type) {
	case map[string]interface{}:
		return []Record{v}, nil
	case []interface{}:
		records := make([]Record, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("array element %d is not an object", i)
			}
			records = append(records, obj)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unexpected document type: %T", v)
	}
}

// WriteJSON writes records as a JSON array
func WriteJSON(w io.Writer, records []Record, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(records)
}

// WriteJSONL writes records as JSON Lines
func WriteJSONL(w io.Writer, records []Record) error {
	encoder := json.NewEncoder(w)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return err
		}
	}
	return nil
}
