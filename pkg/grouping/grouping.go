// Package grouping splits a flat record list into named container sections.
package grouping

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bisegni/sds/pkg/container"
	"github.com/bisegni/sds/pkg/parser"
	"github.com/bisegni/sds/pkg/query"
)

// Group is one section worth of records.
type Group struct {
	Name    string
	Records []parser.Record
}

// Options control how records are grouped.
type Options struct {
	// Field is the dot path whose value names the section. Empty puts every
	// record in a single unnamed section.
	Field string
	// IndexTitles derives an index title from the first letter of each name.
	IndexTitles bool
}

// By groups records by the value at opts.Field, keeping first-seen order of
// both groups and records. Records missing the field land in a group named "".
func By(records []parser.Record, opts Options) []Group {
	if opts.Field == "" {
		return []Group{{Records: records}}
	}
	path := query.ParsePath(opts.Field)

	var groups []Group
	index := map[string]int{}
	for _, r := range records {
		name := ""
		if v, err := path.Extract(map[string]interface{}(r)); err == nil && v != nil {
			name = fmt.Sprint(v)
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// IndexTitle returns the upper-cased first letter of name, or "#" when the
// name does not start with a letter.
func IndexTitle(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "#"
	}
	return string(unicode.ToUpper(r))
}

// Options returns the section options for g.
func (g Group) Options(indexTitles bool) container.SectionOptions {
	opts := container.Named(g.Name)
	if indexTitles {
		opts = opts.WithIndexTitle(IndexTitle(g.Name))
	}
	return opts
}

// Build creates an array container with one section per group.
func Build(records []parser.Record, opts Options, arrayOpts ...container.ArrayOption[parser.Record]) *container.Array[parser.Record] {
	for _, g := range By(records, opts) {
		arrayOpts = append(arrayOpts, container.WithObjects(g.Records, g.Options(opts.IndexTitles)))
	}
	return container.NewArray(arrayOpts...)
}
