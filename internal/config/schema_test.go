// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// cueFieldNames returns the regular (non-hidden, non-definition) field names
// of a CUE struct definition.
func cueFieldNames(t *testing.T, def string) map[string]bool {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}
	val := schema.LookupPath(cue.ParsePath(def))
	if val.Err() != nil {
		t.Fatalf("failed to lookup %s: %v", def, val.Err())
	}

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	fields := make(map[string]bool)
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = true
	}
	return fields
}

// structTagNames returns the names carried by the given tag key on typ's
// exported fields.
func structTagNames(typ reflect.Type, key string) map[string]bool {
	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name != "" && name != "-" {
			fields[name] = true
		}
	}
	return fields
}

func assertFieldsSync(t *testing.T, def string, typ reflect.Type) {
	t.Helper()

	cueFields := cueFieldNames(t, def)
	for _, key := range []string{"json", "mapstructure", "toml"} {
		goFields := structTagNames(typ, key)
		for field := range cueFields {
			if !goFields[field] {
				t.Errorf("[%s] CUE field %q has no %s tag on %s", def, field, key, typ.Name())
			}
		}
		for field := range goFields {
			if !cueFields[field] {
				t.Errorf("[%s] %s tag %q on %s is missing from the schema", def, key, field, typ.Name())
			}
		}
	}
}

func TestConfigSchemaSync(t *testing.T) {
	t.Parallel()
	assertFieldsSync(t, "#Config", reflect.TypeFor[Config]())
}

func TestUIConfigSchemaSync(t *testing.T) {
	t.Parallel()
	assertFieldsSync(t, "#UIConfig", reflect.TypeFor[UIConfig]())
}
