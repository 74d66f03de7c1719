package store

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/kasuganosora/campaign-table/apperr"
	"gorm.io/gorm/schema"
)

// immutable lists JSON paths a patch may never touch.
var immutable = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

type column struct {
	name string
	typ  reflect.Type
}

// fieldSet maps the JSON paths of a model onto its database columns,
// following gorm's embedded-struct flattening.
type fieldSet struct {
	columns map[string]column
	groups  map[string]bool // JSON paths of embedded blocks
}

func newFieldSet(doc any) *fieldSet {
	fs := &fieldSet{columns: map[string]column{}, groups: map[string]bool{}}
	fs.walk(reflect.TypeOf(doc), "", "")
	return fs
}

var naming = schema.NamingStrategy{}

func (fs *fieldSet) walk(t reflect.Type, jsonPrefix, dbPrefix string) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Anonymous {
			fs.walk(f.Type, jsonPrefix, dbPrefix)
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		settings := schema.ParseTagSetting(f.Tag.Get("gorm"), ";")
		if _, embedded := settings["EMBEDDED"]; embedded {
			fs.groups[jsonPrefix+name] = true
			fs.walk(f.Type, jsonPrefix+name+".", dbPrefix+settings["EMBEDDEDPREFIX"])
			continue
		}
		col := settings["COLUMN"]
		if col == "" {
			col = naming.ColumnName("", f.Name)
		}
		fs.columns[jsonPrefix+name] = column{name: dbPrefix + col, typ: f.Type}
	}
}

// resolve turns a patch into a column → value map, converting each value to
// the Go type of its field. Unknown and immutable paths are rejected.
func (fs *fieldSet) resolve(patch map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(patch))
	if err := fs.flatten("", patch, out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperr.InvalidArgument("no fields to update")
	}
	return out, nil
}

func (fs *fieldSet) flatten(prefix string, patch map[string]any, out map[string]any) error {
	for key, raw := range patch {
		path := prefix + key
		if immutable[path] {
			return apperr.InvalidArgumentf("field %q cannot be changed", path)
		}
		if col, ok := fs.columns[path]; ok {
			v, err := convert(raw, col.typ)
			if err != nil {
				return apperr.InvalidArgumentf("field %q: %v", path, err)
			}
			out[col.name] = v
			continue
		}
		if fs.groups[path] {
			nested, ok := raw.(map[string]any)
			if !ok {
				return apperr.InvalidArgumentf("field %q must be an object", path)
			}
			if err := fs.flatten(path+".", nested, out); err != nil {
				return err
			}
			continue
		}
		return apperr.InvalidArgumentf("unknown field %q", path)
	}
	return nil
}

// convert round-trips v through JSON into a fresh value of typ.
func convert(v any, typ reflect.Type) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	ptr := reflect.New(typ)
	if err := json.Unmarshal(b, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}
