// Package processor translates ORM annotations into property metadata.
// Processing is total: unsupported annotations and column types never produce errors.
package processor

import (
	"strings"

	"github.com/m4gshm/ormaccessor/annotation"
	"github.com/m4gshm/ormaccessor/model/property"
)

// Process applies one annotation to the property information.
func Process(a annotation.Annotation, info *property.Info) {
	switch a := a.(type) {
	case annotation.Column:
		processColumn(a, info)
	case annotation.GeneratedValue:
		// database generated values have no setter
		info.SetGenerateSet(false)
	case annotation.ManyToMany:
		processOwningCollection(a.Relation, info)
	case annotation.ManyToOne:
		processOwningCollection(a.Relation, info)
	case annotation.OneToMany:
		processTarget(a.Relation, info)
	case annotation.OneToOne:
		processTarget(a.Relation, info)
	}
}

// ProcessAll applies annotations in order and returns the info.
func ProcessAll(info *property.Info, annotations ...annotation.Annotation) *property.Info {
	for _, a := range annotations {
		Process(a, info)
	}
	return info
}

func processOwningCollection(r annotation.Relation, info *property.Info) {
	info.SetCollection(true)
	processTarget(r, info)
}

func processTarget(r annotation.Relation, info *property.Info) {
	info.SetType(NormalizeReferenceName(r.TargetEntity))
}

func processColumn(column annotation.Column, info *property.Info) {
	// a relationship target type is never replaced by a column type
	if !info.IsReference() {
		info.SetType(TransformColumnType(column.Type))
	}
	info.SetFixedPointNumber(strings.ToLower(column.Type) == "decimal")
	info.SetLength(column.Length)
	info.SetPrecision(column.Precision)
	info.SetScale(column.Scale)
	info.SetUnique(column.Unique)
	info.SetNullable(column.Nullable)
	info.SetIntegerSize(IntegerSizeFor(column.Type))
}

// NormalizeReferenceName returns the name in the fully-qualified form.
func NormalizeReferenceName(name string) string {
	if len(name) > 0 && !strings.HasPrefix(name, property.ReferenceMarker) {
		return property.ReferenceMarker + name
	}
	return name
}

// TransformColumnType maps a column type to a semantic value type.
// Unknown column types are returned as is.
func TransformColumnType(dbType string) string {
	switch dbType {
	case "boolean":
		return property.TypeBoolean
	case "smallint", "bigint", "integer":
		return property.TypeInteger
	case "decimal", "float":
		return property.TypeFloat
	case "text", "guid", "string":
		return property.TypeString
	case "blob":
		return property.TypeResource
	case "datetime", "datetimetz", "date", "time":
		return property.TypeDateTime
	case "simple_array", "json_array", "array":
		return property.TypeArray
	case "object":
		return property.TypeObject
	default:
		return dbType
	}
}

// IntegerSizeFor returns the bit width of an integer column type.
// Any type that is not boolean, smallint or bigint gets 32.
func IntegerSizeFor(dbType string) int {
	switch dbType {
	case "bool", "boolean":
		return 1
	case "smallint":
		return 16
	case "bigint":
		return 64
	default:
		return 32
	}
}
