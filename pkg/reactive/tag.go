package reactive

import (
	"github.com/vango-dev/livetree/internal/errors"
)

// Revision is a point on the global timeline.
type Revision uint64

// Tag is the invalidation unit behind every mutable value.
type Tag struct {
	id       uint64
	label    string
	revision Revision
}

// timeline holds the process-wide tag state.
type timeline struct {
	now       Revision
	frames    []*frame
	hooks     []hookEntry
	nextTagID uint64
	nextHook  uint64
	quiet     int
}

type hookEntry struct {
	id uint64
	fn func()
}

var tl = &timeline{now: 1}

// NewTag creates a tag. The label is used in error messages only.
func NewTag(label string) *Tag {
	tl.nextTagID++
	return &Tag{id: tl.nextTagID, label: label}
}

// ID returns the tag's unique identifier.
func (t *Tag) ID() uint64 {
	return t.id
}

// Label returns the tag's label.
func (t *Tag) Label() string {
	return t.label
}

// Revision returns the revision at which the tag was last dirtied.
func (t *Tag) Revision() Revision {
	return t.revision
}

// Now returns the current revision of the timeline.
func Now() Revision {
	return tl.now
}

// Consume records t in the innermost active tracking frame.
// Outside a frame it does nothing.
func Consume(t *Tag) {
	if n := len(tl.frames); n > 0 {
		tl.frames[n-1].add(t)
	}
}

// Dirty advances the timeline, stamps t with the new revision and calls
// every registered dirty hook.
//
// Dirtying a tag that an active frame already consumed panics: the frame
// would otherwise finish with a value that is stale the moment it is
// recorded.
func Dirty(t *Tag) {
	for _, f := range tl.frames {
		if f.has(t) {
			panic(errors.New(errors.CodeWriteAfterRead).WithDetailf("tag %q", t.label))
		}
	}

	tl.now++
	t.revision = tl.now
	if tl.quiet > 0 {
		return
	}

	hooks := make([]hookEntry, len(tl.hooks))
	copy(hooks, tl.hooks)
	for _, h := range hooks {
		h.fn()
	}
}

// Quietly runs fn with dirty hooks suppressed. Writes inside fn still
// advance the timeline and invalidate their readers; they just do not
// ask for a revalidation. Use it for writes made by a poll that polls
// the readers itself.
func Quietly(fn func()) {
	tl.quiet++
	defer func() { tl.quiet-- }()
	fn()
}

// OnDirty registers fn to be called after every Dirty.
// The returned func removes the hook; calling it more than once is safe.
func OnDirty(fn func()) (remove func()) {
	tl.nextHook++
	id := tl.nextHook
	tl.hooks = append(tl.hooks, hookEntry{id: id, fn: fn})

	return func() {
		for i, h := range tl.hooks {
			if h.id == id {
				tl.hooks = append(tl.hooks[:i], tl.hooks[i+1:]...)
				return
			}
		}
	}
}
