package content

import (
	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Variant is a tagged value: the discriminant selects a branch and the
// payload is handed to it.
type Variant[P any] struct {
	Discriminant string
	Payload      P
}

// Case builds a Variant.
func Case[P any](discriminant string, payload P) Variant[P] {
	return Variant[P]{Discriminant: discriminant, Payload: payload}
}

// Match maps each discriminant to the branch template rendering it.
type Match[P any] map[string]func(payload reactive.Reactive[P]) Content

// ChoiceContent renders exactly one branch, selected by a reactive
// discriminant.
type ChoiceContent struct {
	discriminant func() string
	instantiate  func(discriminant string) Content
	sourceStatic bool
	initial      Content
	static       bool
}

// Choice returns content rendering the branch of match selected by the
// current discriminant of value. Switching discriminants replaces the
// rendered branch; a discriminant with no branch is a programmer error.
func Choice[P any](value reactive.Reactive[Variant[P]], match Match[P]) *ChoiceContent {
	c := &ChoiceContent{
		sourceStatic: value.IsStatic(),
		discriminant: func() string { return value.Current().Discriminant },
	}
	c.instantiate = func(d string) Content {
		branch, ok := match[d]
		if !ok {
			panic(errors.New(errors.CodeMissingBranch).WithDetailf("discriminant %q", d))
		}
		payload := reactive.Map(value, func(v Variant[P]) P { return v.Payload })
		return branch(payload)
	}

	reactive.Untracked(func() {
		c.initial = c.instantiate(c.discriminant())
	})
	c.static = computeStatic(c)
	return c
}

// If renders then while cond is true and otherwise. otherwise may be nil,
// in which case an empty placeholder stands in.
func If(cond reactive.Reactive[bool], then, otherwise Content) *ChoiceContent {
	if otherwise == nil {
		otherwise = Fragment()
	}
	value := reactive.Map(cond, func(b bool) Variant[struct{}] {
		if b {
			return Case("then", struct{}{})
		}
		return Case("else", struct{}{})
	})
	return Choice(value, Match[struct{}]{
		"then": func(reactive.Reactive[struct{}]) Content { return then },
		"else": func(reactive.Reactive[struct{}]) Content { return otherwise },
	})
}

func (c *ChoiceContent) Kind() Kind     { return KindChoice }
func (c *ChoiceContent) IsStatic() bool { return c.static }
func (c *ChoiceContent) content()       {}

type choiceState struct {
	def     *ChoiceContent
	current string
	slot    slot
}

func (s *choiceState) bounds() Bounds { return s.slot.bounds() }

func (s *choiceState) poll() {
	d := s.def.discriminant()
	if d == s.current {
		s.slot.poll()
		return
	}
	branch := s.def.instantiate(d)
	s.current = d
	s.slot.replace(branch)
}

func renderChoice(c *ChoiceContent, cur Cursor) Result {
	if c.static {
		r := Render(c.initial, cur)
		return static(r.Bounds())
	}

	s := &choiceState{def: c, current: c.discriminant()}
	s.slot.fill(c.instantiate(s.current), cur)
	return dynamic(KindChoice, s)
}
