package content

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// ModifierKind identifies a modifier variant.
type ModifierKind uint8

const (
	ModAttribute ModifierKind = iota + 1
	ModToggle
	ModTokens
	ModEffect
)

// Modifier changes the element it is applied to. The set of
// implementations is closed.
type Modifier interface {
	ModifierKind() ModifierKind
	IsStatic() bool
	modifier()
}

// tokenListAttrs are attributes whose value is a space-separated token
// set. Attr routes them to a token modifier.
var tokenListAttrs = map[string]bool{
	"class": true,
	"rel":   true,
	"part":  true,
}

// AttributeModifier sets one attribute to a string value.
type AttributeModifier struct {
	Namespace string
	Name      string
	value     reactive.Reactive[string]
}

// Attr sets the attribute name to value. Token-list attributes such as
// class are merged with other modifiers on the same element instead of
// overwritten.
func Attr(name string, value reactive.Reactive[string]) Modifier {
	if tokenListAttrs[name] {
		return TokenAttr(name, value)
	}
	return &AttributeModifier{Name: name, value: value}
}

// AttrNS sets a namespaced attribute.
func AttrNS(namespace, name string, value reactive.Reactive[string]) Modifier {
	return &AttributeModifier{Namespace: namespace, Name: name, value: value}
}

// StaticAttr sets an attribute to a fixed value.
func StaticAttr(name, value string) Modifier {
	return Attr(name, reactive.NewStatic(value))
}

func (m *AttributeModifier) ModifierKind() ModifierKind { return ModAttribute }
func (m *AttributeModifier) IsStatic() bool             { return m.value.IsStatic() }
func (m *AttributeModifier) modifier()                  {}

// ToggleModifier adds or removes a boolean attribute.
type ToggleModifier struct {
	Name    string
	present reactive.Reactive[bool]
}

// Toggle makes the attribute name present exactly while present is true.
func Toggle(name string, present reactive.Reactive[bool]) Modifier {
	return &ToggleModifier{Name: name, present: present}
}

func (m *ToggleModifier) ModifierKind() ModifierKind { return ModToggle }
func (m *ToggleModifier) IsStatic() bool             { return m.present.IsStatic() }
func (m *ToggleModifier) modifier()                  {}

// TokenModifier contributes space-separated tokens to a token-list
// attribute. Several token modifiers may share one attribute; each owns
// only the tokens it contributed.
type TokenModifier struct {
	Name  string
	value reactive.Reactive[string]
}

// TokenAttr contributes the tokens of value to the attribute name.
func TokenAttr(name string, value reactive.Reactive[string]) Modifier {
	return &TokenModifier{Name: name, value: value}
}

// Class contributes the tokens of value to the class attribute.
func Class(value reactive.Reactive[string]) Modifier {
	return TokenAttr("class", value)
}

// StaticClass contributes fixed class tokens.
func StaticClass(tokens string) Modifier {
	return Class(reactive.NewStatic(tokens))
}

func (m *TokenModifier) ModifierKind() ModifierKind { return ModTokens }
func (m *TokenModifier) IsStatic() bool             { return m.value.IsStatic() }
func (m *TokenModifier) modifier()                  {}

// EffectModifier runs a side effect against the element. It runs once
// at render and again on any poll after a value it read has changed.
type EffectModifier struct {
	fn func(dom.Element)
}

// Effect returns a modifier running fn against the element.
func Effect(fn func(el dom.Element)) Modifier {
	return &EffectModifier{fn: fn}
}

func (m *EffectModifier) ModifierKind() ModifierKind { return ModEffect }
func (m *EffectModifier) IsStatic() bool             { return false }
func (m *EffectModifier) modifier()                  {}

// modifierState is a dynamic modifier applied to a rendered element.
type modifierState interface {
	poll()
}

// apply installs m on the element and returns its state, or nil when m
// is static.
func (e *elementState) apply(m Modifier) modifierState {
	switch m := m.(type) {
	case *AttributeModifier:
		v := m.value.Current()
		e.el.SetAttributeNS(m.Namespace, m.Name, v)
		if m.IsStatic() {
			return nil
		}
		return &attrState{el: e.el, mod: m, last: v}

	case *ToggleModifier:
		on := m.present.Current()
		if on {
			e.el.SetAttributeNS("", m.Name, "")
		}
		if m.IsStatic() {
			return nil
		}
		return &toggleState{el: e.el, mod: m, last: on}

	case *TokenModifier:
		tokens := splitTokens(m.value.Current())
		owner := e.tokens(m.Name)
		for _, t := range tokens {
			owner.acquire(t)
		}
		if m.IsStatic() {
			return nil
		}
		return &tokenState{owner: owner, mod: m, last: tokens}

	case *EffectModifier:
		s := &effectState{el: e.el, fn: m.fn}
		s.run()
		return s

	default:
		panic(fmt.Sprintf("content: unknown modifier %T", m))
	}
}

type attrState struct {
	el   dom.Element
	mod  *AttributeModifier
	last string
}

func (s *attrState) poll() {
	v := s.mod.value.Current()
	if v == s.last {
		return
	}
	s.el.SetAttributeNS(s.mod.Namespace, s.mod.Name, v)
	s.last = v
}

type toggleState struct {
	el   dom.Element
	mod  *ToggleModifier
	last bool
}

func (s *toggleState) poll() {
	on := s.mod.present.Current()
	if on == s.last {
		return
	}
	if on {
		s.el.SetAttributeNS("", s.mod.Name, "")
	} else {
		s.el.RemoveAttributeNS("", s.mod.Name)
	}
	s.last = on
}

// tokenOwners counts, per token, how many modifiers of one element
// contribute it to one attribute.
type tokenOwners struct {
	list  dom.TokenList
	count map[string]int
}

func (o *tokenOwners) acquire(t string) {
	o.count[t]++
	if o.count[t] == 1 {
		o.list.Add(t)
	}
}

func (o *tokenOwners) release(t string) {
	o.count[t]--
	if o.count[t] <= 0 {
		delete(o.count, t)
		o.list.Remove(t)
	}
}

// swap moves one ownership from one token to another, replacing the
// token in place when from is no longer owned and to was not present.
func (o *tokenOwners) swap(from, to string) {
	if o.count[from] == 1 && o.count[to] == 0 {
		delete(o.count, from)
		o.count[to] = 1
		o.list.Replace(from, to)
		return
	}
	o.release(from)
	o.acquire(to)
}

type tokenState struct {
	owner *tokenOwners
	mod   *TokenModifier
	last  []string
}

func (s *tokenState) poll() {
	next := splitTokens(s.mod.value.Current())
	removed := tokenDiff(s.last, next)
	added := tokenDiff(next, s.last)

	paired := min(len(removed), len(added))
	for i := 0; i < paired; i++ {
		s.owner.swap(removed[i], added[i])
	}
	for _, t := range removed[paired:] {
		s.owner.release(t)
	}
	for _, t := range added[paired:] {
		s.owner.acquire(t)
	}
	s.last = next
}

// splitTokens returns the distinct tokens of value in first-seen order.
// A modifier owns each token once, however often it repeats it.
func splitTokens(value string) []string {
	fields := strings.Fields(value)
	out := fields[:0]
	for _, t := range fields {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// tokenDiff returns the tokens of a that are not in b, in order.
func tokenDiff(a, b []string) []string {
	var out []string
	for _, t := range a {
		if !slices.Contains(b, t) {
			out = append(out, t)
		}
	}
	return out
}

type effectState struct {
	el       dom.Element
	fn       func(dom.Element)
	snapshot *reactive.Snapshot
}

func (s *effectState) run() {
	s.snapshot = reactive.Track(func() { s.fn(s.el) })
}

func (s *effectState) poll() {
	if s.snapshot.Valid() {
		return
	}
	s.run()
}
