package annotation

// Annotation is one parsed ORM annotation of an entity field.
// The set of implementations is closed.
type Annotation interface {
	Kind() Kind
	annotation()
}

type Kind string

const (
	KindColumn         Kind = "Column"
	KindGeneratedValue Kind = "GeneratedValue"
	KindManyToMany     Kind = "ManyToMany"
	KindManyToOne      Kind = "ManyToOne"
	KindOneToMany      Kind = "OneToMany"
	KindOneToOne       Kind = "OneToOne"
)

// Column describes a scalar column. Zero numeric attributes mean "not set".
type Column struct {
	Name      string
	Type      string
	Length    int
	Precision int
	Scale     int
	Unique    bool
	Nullable  bool
}

type GeneratedValue struct {
	Strategy string
}

// Relation holds the attributes shared by all relationship kinds.
type Relation struct {
	TargetEntity string
	MappedBy     string
	InversedBy   string
}

type (
	ManyToMany struct{ Relation }
	ManyToOne  struct{ Relation }
	OneToMany  struct{ Relation }
	OneToOne   struct{ Relation }
)

// Unknown keeps an annotation of an unsupported kind as written.
type Unknown struct {
	Name       string
	Attributes map[string]string
}

func (Column) Kind() Kind         { return KindColumn }
func (GeneratedValue) Kind() Kind { return KindGeneratedValue }
func (ManyToMany) Kind() Kind     { return KindManyToMany }
func (ManyToOne) Kind() Kind      { return KindManyToOne }
func (OneToMany) Kind() Kind      { return KindOneToMany }
func (OneToOne) Kind() Kind       { return KindOneToOne }
func (u Unknown) Kind() Kind      { return Kind(u.Name) }

func (Column) annotation()         {}
func (GeneratedValue) annotation() {}
func (Relation) annotation()       {}
func (Unknown) annotation()        {}

// RelationOf returns the relation attributes of a relationship annotation.
func RelationOf(a Annotation) (Relation, bool) {
	switch r := a.(type) {
	case ManyToMany:
		return r.Relation, true
	case ManyToOne:
		return r.Relation, true
	case OneToMany:
		return r.Relation, true
	case OneToOne:
		return r.Relation, true
	default:
		return Relation{}, false
	}
}
