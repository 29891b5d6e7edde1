package unique

import (
	"strconv"

	"github.com/m4gshm/gollections/collection/mutable"
	"github.com/m4gshm/gollections/seq"
)

func NewNamesWith(opts ...func(*Names)) *Names {
	u := &Names{uniques: mutable.NewSet[string]()}
	for _, o := range opts {
		o(u)
	}
	return u
}

// PreInit reserves the names, like a method receiver.
func PreInit(names ...string) func(*Names) {
	return func(un *Names) {
		seq.ForEach(seq.Of(names...), un.Add)
	}
}

// Names issues identifiers that do not clash with each other; a clashed name gets a numeric suffix.
type Names struct {
	uniques *mutable.Set[string]
}

func (u *Names) Get(name string) string {
	if u == nil {
		return name
	}
	unique := name
	for i := 1; !u.uniques.AddNew(unique); i++ {
		unique = name + strconv.Itoa(i)
	}
	return unique
}

func (u *Names) Add(name string) {
	u.Get(name)
}
