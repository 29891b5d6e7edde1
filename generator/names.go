package generator

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"github.com/m4gshm/gollections/slice"
)

const Autoname = "."

var initialisms = []string{"ID", "URL", "URI", "UUID", "HTTP", "JSON", "SQL", "API"}

// IdentName makes the name exported or unexported; a leading initialism changes the case as a whole.
func IdentName(name string, export bool) string {
	if len(name) == 0 {
		return name
	}
	if initialism, ok := leadingInitialism(name); ok {
		rest := name[len(initialism):]
		if export {
			return initialism + rest
		}
		return strings.ToLower(initialism) + rest
	}
	runes := []rune(name)
	if export {
		runes[0] = unicode.ToUpper(runes[0])
	} else {
		runes[0] = unicode.ToLower(runes[0])
	}
	return string(runes)
}

func leadingInitialism(name string) (string, bool) {
	return slice.First(initialisms, func(initialism string) bool {
		if len(name) < len(initialism) || !strings.EqualFold(name[:len(initialism)], initialism) {
			return false
		}
		rest := name[len(initialism):]
		return len(rest) == 0 || !unicode.IsLower(rune(rest[0]))
	})
}

// LegalIdentName avoids Go keywords.
func LegalIdentName(name string) string {
	if token.IsKeyword(name) {
		return name + "_"
	}
	return name
}

func IsExported(name string) bool {
	return token.IsExported(name)
}

// Singular returns the singular form of a field name, like Tags -> Tag.
func Singular(name string) string {
	if singular := inflect.Singularize(name); len(singular) > 0 {
		return singular
	}
	return name
}

func TypeReceiverVar(typeName string) string {
	if parts := strings.Split(typeName, "."); len(parts) > 1 {
		if converted := slice.Convert(parts, TypeReceiverVar); len(converted) > 1 {
			if len(converted[1]) > 0 {
				return converted[1]
			} else if len(converted[0]) > 0 {
				return converted[0]
			}
		}
	} else if f, ok := slice.First([]rune(typeName), unicode.IsLetter); ok {
		return string(unicode.ToLower(f))
	}
	return "r"
}
