package accessor

import (
	"github.com/m4gshm/gollections/slice"
)

// Inverse updates the inverse side of a bidirectional relationship.
// Implementations write the inverse field directly and must not call owning side accessors.
type Inverse[Owner, Related comparable] interface {
	// ClearInverse detaches the owner from the previously related entity.
	ClearInverse(old Related, owner Owner)
	// SetInverse attaches the owner to the newly related entity.
	SetInverse(related Related, owner Owner)
}

// Relink moves a single-valued relationship of the owner from old to related.
func Relink[Owner, Related comparable](inverse Inverse[Owner, Related], owner Owner, old, related Related) {
	if old == related {
		return
	}
	var zero Related
	if old != zero {
		inverse.ClearInverse(old, owner)
	}
	if related != zero {
		inverse.SetInverse(related, owner)
	}
}

// Link attaches the related entity of a collection to the owner.
func Link[Owner, Related comparable](inverse Inverse[Owner, Related], owner Owner, related Related) {
	var zero Related
	if related != zero {
		inverse.SetInverse(related, owner)
	}
}

// Unlink detaches the related entity of a collection from the owner.
func Unlink[Owner, Related comparable](inverse Inverse[Owner, Related], owner Owner, related Related) {
	var zero Related
	if related != zero {
		inverse.ClearInverse(related, owner)
	}
}

// Contains reports whether the item is in the items.
func Contains[T comparable](items []T, item T) bool {
	_, ok := slice.First(items, func(e T) bool { return e == item })
	return ok
}

// AddUnique appends the item if it is absent; the flag reports whether the items were changed.
func AddUnique[T comparable](items []T, item T) ([]T, bool) {
	if Contains(items, item) {
		return items, false
	}
	return append(items, item), true
}

// Remove drops all occurrences of the item; the flag reports whether the items were changed.
func Remove[T comparable](items []T, item T) ([]T, bool) {
	if !Contains(items, item) {
		return items, false
	}
	return slice.Filter(items, func(e T) bool { return e != item }), true
}
