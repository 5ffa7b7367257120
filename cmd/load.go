package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bisegni/sds/pkg/container"
	"github.com/bisegni/sds/pkg/grouping"
	"github.com/bisegni/sds/pkg/parser"
)

// loadContainer reads a record source and groups it into sections.
func loadContainer(source string) (*container.Array[parser.Record], parser.Format, error) {
	records, format, err := parser.Load(source)
	if err != nil {
		return nil, format, err
	}
	parser.AssignIDs(records)

	opts := grouping.Options{}
	var arrayOpts []container.ArrayOption[parser.Record]
	if settings != nil {
		opts.Field = settings.GroupBy
		opts.IndexTitles = settings.IndexTitles
		if settings.LegacyReplace {
			arrayOpts = append(arrayOpts, container.WithLegacyReplaceBracketing[parser.Record]())
		}
	}
	return grouping.Build(records, opts, arrayOpts...), format, nil
}

// recordLabel renders a record by its name field, falling back to JSON
// without the identity field.
func recordLabel(o any) string {
	r, ok := o.(parser.Record)
	if !ok {
		return fmt.Sprint(o)
	}
	field := "name"
	if settings != nil {
		field = settings.NameField
	}
	if v, ok := r[field]; ok {
		return fmt.Sprint(v)
	}
	r = r.Clone()
	delete(r, parser.IDField)
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprint(o)
	}
	return string(b)
}

func sourceName(source string) string {
	if source == "" || source == "-" {
		return "<stdin>"
	}
	return source
}
