package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m4gshm/ormaccessor/annotation"
	"github.com/m4gshm/ormaccessor/model/property"
)

func Test_TransformColumnType(t *testing.T) {
	for dbType, expected := range map[string]string{
		"boolean":      property.TypeBoolean,
		"smallint":     property.TypeInteger,
		"bigint":       property.TypeInteger,
		"integer":      property.TypeInteger,
		"decimal":      property.TypeFloat,
		"float":        property.TypeFloat,
		"text":         property.TypeString,
		"guid":         property.TypeString,
		"string":       property.TypeString,
		"blob":         property.TypeResource,
		"datetime":     property.TypeDateTime,
		"datetimetz":   property.TypeDateTime,
		"date":         property.TypeDateTime,
		"time":         property.TypeDateTime,
		"simple_array": property.TypeArray,
		"json_array":   property.TypeArray,
		"array":        property.TypeArray,
		"object":       property.TypeObject,
		"geometry":     "geometry",
	} {
		assert.Equal(t, expected, TransformColumnType(dbType), dbType)

		info := ProcessAll(property.New(), annotation.Column{Type: dbType})
		assert.Equal(t, expected, info.Type(), dbType)
	}
}

func Test_IntegerSizeFor(t *testing.T) {
	assert.Equal(t, 1, IntegerSizeFor("bool"))
	assert.Equal(t, 1, IntegerSizeFor("boolean"))
	assert.Equal(t, 16, IntegerSizeFor("smallint"))
	assert.Equal(t, 32, IntegerSizeFor("int"))
	assert.Equal(t, 32, IntegerSizeFor("integer"))
	assert.Equal(t, 64, IntegerSizeFor("bigint"))
	assert.Equal(t, 32, IntegerSizeFor("unknown-type"))
	assert.Equal(t, 32, IntegerSizeFor("string"))
}

func Test_NormalizeReferenceName(t *testing.T) {
	assert.Equal(t, `\Foo\Bar`, NormalizeReferenceName(`Foo\Bar`))
	assert.Equal(t, `\Foo\Bar`, NormalizeReferenceName(`\Foo\Bar`))
	assert.Equal(t, `\Foo\Bar`, NormalizeReferenceName(NormalizeReferenceName(`Foo\Bar`)))
	assert.Equal(t, "", NormalizeReferenceName(""))
}

func Test_GeneratedValue(t *testing.T) {
	info := property.New()
	info.SetType(property.TypeInteger)
	info.SetCollection(true)

	Process(annotation.GeneratedValue{}, info)
	assert.False(t, info.GenerateSet())

	Process(annotation.GeneratedValue{Strategy: "AUTO"}, info)
	assert.False(t, info.GenerateSet())
	assert.Equal(t, property.TypeInteger, info.Type())
	assert.True(t, info.IsCollection())
}

func Test_Relations(t *testing.T) {
	tests := []struct {
		annotation annotation.Annotation
		collection bool
	}{
		{annotation.ManyToMany{Relation: annotation.Relation{TargetEntity: "Tag"}}, true},
		{annotation.ManyToOne{Relation: annotation.Relation{TargetEntity: "Tag"}}, true},
		{annotation.OneToMany{Relation: annotation.Relation{TargetEntity: "Tag"}}, false},
		{annotation.OneToOne{Relation: annotation.Relation{TargetEntity: `\Tag`}}, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.annotation.Kind()), func(t *testing.T) {
			info := ProcessAll(property.New(), tt.annotation)
			assert.Equal(t, `\Tag`, info.Type())
			assert.True(t, info.IsReference())
			assert.Equal(t, tt.collection, info.IsCollection())
		})
	}
}

func Test_OneToManyKeepsCollection(t *testing.T) {
	info := property.New()
	info.SetCollection(true)
	Process(annotation.OneToMany{Relation: annotation.Relation{TargetEntity: "Item"}}, info)
	assert.True(t, info.IsCollection())
}

func Test_ColumnDoesNotReplaceReference(t *testing.T) {
	relation := annotation.ManyToOne{Relation: annotation.Relation{TargetEntity: "Customer"}}
	column := annotation.Column{Type: "integer", Nullable: true}

	relationFirst := ProcessAll(property.New(), relation, column)
	columnFirst := ProcessAll(property.New(), column, relation)

	for _, info := range []*property.Info{relationFirst, columnFirst} {
		assert.Equal(t, `\Customer`, info.Type())
		assert.True(t, info.IsReference())
		assert.True(t, info.IsCollection())
		assert.True(t, info.Nullable())
		assert.Equal(t, 32, info.IntegerSize())
	}
}

func Test_ColumnReplacesScalarType(t *testing.T) {
	info := property.New()
	info.SetType(property.TypeString)
	Process(annotation.Column{Type: "smallint"}, info)
	assert.Equal(t, property.TypeInteger, info.Type())
	assert.Equal(t, 16, info.IntegerSize())
}

func Test_ColumnBigint(t *testing.T) {
	info := ProcessAll(property.New(), annotation.Column{Type: "bigint", Length: 0, Nullable: false, Unique: true})
	assert.Equal(t, property.TypeInteger, info.Type())
	assert.Equal(t, 64, info.IntegerSize())
	assert.Equal(t, 0, info.Length())
	assert.False(t, info.Nullable())
	assert.True(t, info.Unique())
	assert.False(t, info.FixedPointNumber())
	assert.True(t, info.GenerateSet())
}

func Test_ColumnDecimal(t *testing.T) {
	for _, dbType := range []string{"decimal", "DECIMAL"} {
		info := ProcessAll(property.New(), annotation.Column{Type: dbType, Precision: 10, Scale: 2})
		assert.True(t, info.FixedPointNumber(), dbType)
		assert.Equal(t, 10, info.Precision())
		assert.Equal(t, 2, info.Scale())
	}
	info := ProcessAll(property.New(), annotation.Column{Type: "decimal"})
	assert.Equal(t, property.TypeFloat, info.Type())

	info = ProcessAll(property.New(), annotation.Column{Type: "float"})
	assert.False(t, info.FixedPointNumber())
}

func Test_ColumnLength(t *testing.T) {
	info := ProcessAll(property.New(), annotation.Column{Type: "string", Length: 255})
	assert.Equal(t, 255, info.Length())
	Process(annotation.Column{Type: "string"}, info)
	assert.Equal(t, 0, info.Length())
}

func Test_OneToOneWithoutColumn(t *testing.T) {
	info := ProcessAll(property.New(), annotation.OneToOne{Relation: annotation.Relation{TargetEntity: "Address"}})
	assert.Equal(t, `\Address`, info.Type())
	assert.False(t, info.IsCollection())
	assert.Equal(t, property.Reference, info.Classification())
}

func Test_ManyToMany(t *testing.T) {
	info := ProcessAll(property.New(), annotation.ManyToMany{Relation: annotation.Relation{TargetEntity: "Tag"}})
	assert.Equal(t, `\Tag`, info.Type())
	assert.True(t, info.IsCollection())
	assert.Equal(t, property.ReferenceCollection, info.Classification())
}

func Test_UnknownIgnored(t *testing.T) {
	info := property.New()
	info.SetType(property.TypeString)
	Process(annotation.Unknown{Name: "index"}, info)
	Process(nil, info)
	assert.Equal(t, property.TypeString, info.Type())
	assert.True(t, info.GenerateSet())
	assert.False(t, info.IsCollection())
	assert.Equal(t, 0, info.IntegerSize())
}
