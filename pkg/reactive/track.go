package reactive

// frame collects the tags consumed while it is active.
type frame struct {
	tags []*Tag
	seen map[*Tag]struct{}
}

func (f *frame) add(t *Tag) {
	if f.seen == nil {
		f.seen = make(map[*Tag]struct{})
	}
	if _, ok := f.seen[t]; ok {
		return
	}
	f.seen[t] = struct{}{}
	f.tags = append(f.tags, t)
}

func (f *frame) has(t *Tag) bool {
	_, ok := f.seen[t]
	return ok
}

// Snapshot is the set of tags a tracked computation consumed, together
// with the revision at which it finished.
type Snapshot struct {
	tags []*Tag
	at   Revision
}

// Track runs fn inside a new tracking frame and returns what it consumed.
// Consumed tags are also forwarded to the enclosing frame, so an outer
// computation depends on everything its inner computations read.
func Track(fn func()) *Snapshot {
	f := &frame{}
	tl.frames = append(tl.frames, f)
	defer func() {
		tl.frames = tl.frames[:len(tl.frames)-1]
		if n := len(tl.frames); n > 0 {
			parent := tl.frames[n-1]
			for _, t := range f.tags {
				parent.add(t)
			}
		}
	}()

	fn()
	return &Snapshot{tags: f.tags, at: tl.now}
}

// Valid reports whether none of the consumed tags changed since the
// snapshot was taken.
func (s *Snapshot) Valid() bool {
	if s == nil {
		return false
	}
	for _, t := range s.tags {
		if t.revision > s.at {
			return false
		}
	}
	return true
}

// Constant reports whether the computation consumed no tags at all,
// which means it can never be invalidated.
func (s *Snapshot) Constant() bool {
	return s != nil && len(s.tags) == 0
}

// Revision returns the revision at which the snapshot was taken.
func (s *Snapshot) Revision() Revision {
	return s.at
}

// MaxRevision returns the newest revision among the consumed tags.
func (s *Snapshot) MaxRevision() Revision {
	var max Revision
	for _, t := range s.tags {
		if t.revision > max {
			max = t.revision
		}
	}
	return max
}

// Tags returns the consumed tags in first-read order.
func (s *Snapshot) Tags() []*Tag {
	return s.tags
}

// Consume replays the snapshot's tags into the active frame.
func (s *Snapshot) Consume() {
	for _, t := range s.tags {
		Consume(t)
	}
}

// Untracked runs fn with tracking suspended: reads inside fn are not
// recorded by any enclosing frame.
//
// Example:
//
//	Untracked(func() {
//	    // Reading count here won't make the enclosing Derived depend on it
//	    log.Println(count.Current())
//	})
func Untracked(fn func()) {
	saved := tl.frames
	tl.frames = nil
	defer func() { tl.frames = saved }()
	fn()
}

// Tracking reports whether a tracking frame is active.
func Tracking() bool {
	return len(tl.frames) > 0
}
