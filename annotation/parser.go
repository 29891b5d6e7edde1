package annotation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/pkg/errors"
)

const (
	annotationSeparator = ';'
	attributeSeparator  = ','
	valueSeparator      = "="
)

var identRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type ParseError struct {
	Tag string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse annotations %q: %v", e.Tag, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser reads annotations from a tag value like
// `column(type=bigint, unique=true); generated_value`.
// Attribute values are expressions evaluated against Env.
type Parser struct {
	Env map[string]any
}

func NewParser(env map[string]any) *Parser {
	if env == nil {
		env = map[string]any{}
	}
	return &Parser{Env: env}
}

// Parse parses the tag without constants.
func Parse(tag string) ([]Annotation, error) {
	return NewParser(nil).Parse(tag)
}

func (p *Parser) Parse(tag string) ([]Annotation, error) {
	parts, err := split(tag, annotationSeparator)
	if err != nil {
		return nil, &ParseError{Tag: tag, Err: err}
	}
	result := make([]Annotation, 0, len(parts))
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		a, err := p.parseAnnotation(part)
		if err != nil {
			return nil, &ParseError{Tag: tag, Err: err}
		}
		result = append(result, a)
	}
	return result, nil
}

func (p *Parser) parseAnnotation(text string) (Annotation, error) {
	name, attrs := text, ""
	if open := strings.IndexByte(text, '('); open >= 0 {
		if !strings.HasSuffix(text, ")") {
			return nil, errors.Errorf("unclosed attribute list of '%s'", text)
		}
		name, attrs = strings.TrimSpace(text[:open]), text[open+1:len(text)-1]
	}
	if !identRegexp.MatchString(strings.ReplaceAll(name, "-", "_")) {
		return nil, errors.Errorf("invalid annotation name '%s'", name)
	}
	attributes, err := parseAttributes(attrs)
	if err != nil {
		return nil, errors.Wrapf(err, "annotation '%s'", name)
	}

	switch normalize(name) {
	case "column":
		return p.column(attributes)
	case "generatedvalue":
		g := GeneratedValue{}
		err := p.each(attributes, func(key string, raw string) error {
			switch key {
			case "strategy":
				return p.str(raw, &g.Strategy)
			default:
				return unknownAttribute(name, key)
			}
		})
		return g, err
	case "manytomany":
		r, err := p.relation(name, attributes)
		return ManyToMany{r}, err
	case "manytoone":
		r, err := p.relation(name, attributes)
		return ManyToOne{r}, err
	case "onetomany":
		r, err := p.relation(name, attributes)
		return OneToMany{r}, err
	case "onetoone":
		r, err := p.relation(name, attributes)
		return OneToOne{r}, err
	default:
		raw := make(map[string]string, len(attributes))
		for _, a := range attributes {
			raw[a.key] = a.value
		}
		return Unknown{Name: name, Attributes: raw}, nil
	}
}

func (p *Parser) column(attributes []attribute) (Annotation, error) {
	c := Column{Type: "string"}
	err := p.each(attributes, func(key string, raw string) error {
		switch key {
		case "name":
			return p.str(raw, &c.Name)
		case "type":
			return p.str(raw, &c.Type)
		case "length":
			return p.int(raw, &c.Length)
		case "precision":
			return p.int(raw, &c.Precision)
		case "scale":
			return p.int(raw, &c.Scale)
		case "unique":
			return p.bool(raw, &c.Unique)
		case "nullable":
			return p.bool(raw, &c.Nullable)
		default:
			return unknownAttribute("column", key)
		}
	})
	return c, err
}

func (p *Parser) relation(name string, attributes []attribute) (Relation, error) {
	r := Relation{}
	err := p.each(attributes, func(key string, raw string) error {
		switch key {
		case "target", "targetentity":
			return p.str(raw, &r.TargetEntity)
		case "mappedby":
			return p.str(raw, &r.MappedBy)
		case "inversedby":
			return p.str(raw, &r.InversedBy)
		default:
			return unknownAttribute(name, key)
		}
	})
	return r, err
}

func (p *Parser) each(attributes []attribute, f func(key, raw string) error) error {
	for _, a := range attributes {
		if err := f(normalize(a.key), a.value); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) eval(raw string) (any, error) {
	if identRegexp.MatchString(raw) && raw != "true" && raw != "false" && raw != "nil" {
		if _, ok := p.Env[raw]; !ok {
			return raw, nil
		}
	}
	value, err := expr.Eval(raw, p.Env)
	if err != nil {
		return nil, errors.Wrapf(err, "evaluate '%s'", raw)
	}
	return value, nil
}

func (p *Parser) str(raw string, dest *string) error {
	value, err := p.eval(raw)
	if err != nil {
		return err
	}
	s, ok := value.(string)
	if !ok {
		return errors.Errorf("'%s' must be a string, actual %T", raw, value)
	}
	*dest = s
	return nil
}

func (p *Parser) int(raw string, dest *int) error {
	value, err := p.eval(raw)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case int:
		*dest = v
	case int64:
		*dest = int(v)
	case float64:
		if v != float64(int(v)) {
			return errors.Errorf("'%s' must be an integer, actual %v", raw, v)
		}
		*dest = int(v)
	default:
		return errors.Errorf("'%s' must be an integer, actual %T", raw, value)
	}
	if *dest < 0 {
		return errors.Errorf("'%s' must not be negative", raw)
	}
	return nil
}

func (p *Parser) bool(raw string, dest *bool) error {
	value, err := p.eval(raw)
	if err != nil {
		return err
	}
	b, ok := value.(bool)
	if !ok {
		return errors.Errorf("'%s' must be a boolean, actual %T", raw, value)
	}
	*dest = b
	return nil
}

type attribute struct {
	key, value string
}

func parseAttributes(attrs string) ([]attribute, error) {
	parts, err := split(attrs, attributeSeparator)
	if err != nil {
		return nil, err
	}
	result := make([]attribute, 0, len(parts))
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		key, value, ok := strings.Cut(part, valueSeparator)
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || len(key) == 0 || len(value) == 0 {
			return nil, errors.Errorf("invalid attribute '%s', expected key%svalue", part, valueSeparator)
		}
		result = append(result, attribute{key: key, value: value})
	}
	return result, nil
}

// split cuts text by the separator outside of quotes and brackets.
func split(text string, separator byte) ([]string, error) {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			depth--
			if depth < 0 {
				return nil, errors.Errorf("unexpected '%c' at %d", ch, i)
			}
		case ch == separator && depth == 0:
			parts = append(parts, strings.TrimSpace(text[start:i]))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, errors.Errorf("unclosed quote %c", quote)
	} else if depth != 0 {
		return nil, errors.New("unbalanced brackets")
	}
	return append(parts, strings.TrimSpace(text[start:])), nil
}

func normalize(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(name))
}

func unknownAttribute(annotation, key string) error {
	return errors.Errorf("unsupported attribute '%s' of '%s'", key, annotation)
}
