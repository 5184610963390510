package dictmap

import "github.com/arloliu/packedstore/internal/hash"

// Entry is one chained hash map slot. Chains are LIFO: a newly inserted
// entry always becomes its bucket's head.
type Entry struct {
	key  any
	val  any
	next *Entry
}

// Key returns the entry's key.
func (e *Entry) Key() any { return e.key }

// Value returns the entry's current value.
func (e *Entry) Value() any { return e.val }

// SetValue overwrites the entry's value in place, useful when iterating
// and updating without a second lookup.
func (e *Entry) SetValue(v any) { e.val = v }

// Type supplies the callbacks a Dict needs to treat keys and values as
// opaque data: hashing, duplication on insert, equality comparison, and
// destruction on overwrite or delete. HashKey is required. Any other
// callback left nil falls back to a default (KeyDup/ValDup store the value
// as given; KeyCompare uses Go's == ; KeyDestroy/ValDestroy do nothing).
type Type struct {
	HashKey    func(key any) uint32
	KeyDup     func(privdata any, key any) any
	ValDup     func(privdata any, val any) any
	KeyCompare func(privdata any, a, b any) bool
	KeyDestroy func(privdata any, key any)
	ValDestroy func(privdata any, val any)
}

// StringType returns a Type for string keys, hashed with internal/hash's
// default case-sensitive string hash. Values are stored and
// compared as opaque interface values.
func StringType() *Type {
	return &Type{
		HashKey: func(key any) uint32 { return hash.String(key.(string)) },
		KeyCompare: func(_ any, a, b any) bool {
			return a.(string) == b.(string)
		},
	}
}

// StringTypeFoldCase is StringType but hashes with ASCII case folded, so
// keys that differ only by ASCII case hash identically. KeyCompare still
// performs an exact comparison; pair it with a case-insensitive compare
// if true case-insensitive membership is wanted.
func StringTypeFoldCase() *Type {
	t := StringType()
	t.HashKey = func(key any) uint32 { return hash.FoldedString(key.(string)) }

	return t
}
