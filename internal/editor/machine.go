// Package editor is the interaction core of the canvas editor: a pure state
// machine that turns semantic pointer and command events into a new editing
// Context, plus the Engine that hosts one machine for a session.
package editor

import (
	"slices"
)

// rule is one guarded transition. Rules for a mode and event kind are tried in
// order and the first whose guard passes fires.
type rule struct {
	name   string
	guard  func(Context, Event) bool
	action func(*Machine, Context, Event) Context
	target Mode
}

type ruleTable map[Mode]map[EventKind][]rule

// Machine holds the transition table and the tuning it applies.
type Machine struct {
	settings Settings
	rules    ruleTable
}

// NewMachine builds a machine for the given settings.
func NewMachine(s Settings) *Machine {
	return &Machine{settings: s, rules: newRuleTable()}
}

var defaultMachine = NewMachine(DefaultSettings())

// Transition applies ev to c with the default settings.
func Transition(c Context, ev Event) Context {
	return defaultMachine.Transition(c, ev)
}

// Settings returns the tuning the machine was built with.
func (m *Machine) Settings() Settings {
	return m.settings
}

// Transition returns the context after ev. Events with no matching rule in the
// current mode leave the context unchanged.
func (m *Machine) Transition(c Context, ev Event) Context {
	r, ok := m.match(c, ev)
	if !ok {
		return c
	}
	next := c
	if r.action != nil {
		next = r.action(m, c, ev)
	}
	next.Mode = r.target
	return next
}

// Accepts reports whether ev would fire a rule in c.
func (m *Machine) Accepts(c Context, ev Event) bool {
	_, ok := m.match(c, ev)
	return ok
}

// RuleName returns the name of the rule ev would fire in c, or "" if none.
func (m *Machine) RuleName(c Context, ev Event) string {
	r, _ := m.match(c, ev)
	return r.name
}

func (m *Machine) match(c Context, ev Event) (rule, bool) {
	if ev == nil {
		return rule{}, false
	}
	for _, r := range m.rules[c.Mode][ev.Kind()] {
		if r.guard == nil || r.guard(c, ev) {
			return r, true
		}
	}
	return rule{}, false
}

func newRuleTable() ruleTable {
	return ruleTable{
		ModeNormal: {
			KindClick: {
				{name: "clickCanvas", guard: hitRole(RoleBackground), action: (*Machine).clickCanvas, target: ModeNormal},
				{name: "clickObject", guard: hitRole(RoleDrawObject), action: (*Machine).clickObject, target: ModeNormal},
			},
			KindPointerDown: {
				{name: "startResize", guard: hitRole(RoleControlHandle), action: (*Machine).startResize, target: ModeResizing},
				{name: "startAddOnObject", guard: all(hitRole(RoleDrawObject), canAdd), action: (*Machine).startAdd, target: ModeAdding},
				{name: "startMoveGroup", guard: all(hitRole(RoleDrawObject), toolIs(ToolSelector), hitInSelection), action: (*Machine).startMoveSelection, target: ModeMoving},
				{name: "startMoveObject", guard: all(hitRole(RoleDrawObject), toolIs(ToolSelector)), action: (*Machine).startMoveObject, target: ModeMoving},
				{name: "startMoveFrame", guard: all(hitRole(RoleControlFrame), toolIs(ToolSelector), hasTargets), action: (*Machine).startMoveSelection, target: ModeMoving},
				{name: "startAdd", guard: all(hitRole(RoleBackground), canAdd), action: (*Machine).startAdd, target: ModeAdding},
				{name: "startSelect", guard: all(hitRole(RoleBackground), toolIs(ToolSelector)), action: (*Machine).startSelect, target: ModeSelecting},
			},
			KindSelectTool:   {{name: "selectTool", action: (*Machine).selectTool, target: ModeNormal}},
			KindDeleteObject: {{name: "deleteObject", action: (*Machine).deleteObject, target: ModeNormal}},
			KindCopyObject:   {{name: "copyObject", action: (*Machine).copyObject, target: ModeNormal}},
			KindDisable:      {{name: "disable", target: ModeDisabled}},
		},
		ModeDisabled: {
			KindEnable: {{name: "enable", target: ModeNormal}},
		},
		ModeAdding: {
			KindPointerMove: {{name: "growObject", action: (*Machine).growObject, target: ModeAdding}},
			KindPointerUp:   {{name: "finishAdd", action: (*Machine).finishAdd, target: ModeNormal}},
		},
		ModeResizing: {
			KindPointerMove: {{name: "resizeObjects", action: (*Machine).resizeObjects, target: ModeResizing}},
			KindPointerUp:   {{name: "finishResize", action: (*Machine).finishResize, target: ModeNormal}},
		},
		ModeMoving: {
			KindPointerMove: {{name: "moveObjects", action: (*Machine).moveObjects, target: ModeMoving}},
			KindPointerUp:   {{name: "finishMove", action: (*Machine).finishMove, target: ModeNormal}},
		},
		ModeSelecting: {
			KindPointerMove: {{name: "selectObjects", action: (*Machine).selectObjects, target: ModeSelecting}},
			KindPointerUp:   {{name: "finishSelect", action: (*Machine).finishSelect, target: ModeNormal}},
		},
	}
}

// Guards.

func all(guards ...func(Context, Event) bool) func(Context, Event) bool {
	return func(c Context, ev Event) bool {
		for _, g := range guards {
			if !g(c, ev) {
				return false
			}
		}
		return true
	}
}

func hitOf(ev Event) (Hit, bool) {
	switch e := ev.(type) {
	case Click:
		return e.Hit, true
	case PointerDown:
		return e.Hit, true
	}
	return Hit{}, false
}

func hitRole(role Role) func(Context, Event) bool {
	return func(_ Context, ev Event) bool {
		h, ok := hitOf(ev)
		return ok && h.Role == role
	}
}

func toolIs(t Tool) func(Context, Event) bool {
	return func(c Context, _ Event) bool {
		return c.Tool == t
	}
}

// canAdd holds when a content tool is armed and no object is active.
func canAdd(c Context, _ Event) bool {
	return c.Tool.Armed() && c.ActiveIndex == -1
}

func hitInSelection(c Context, ev Event) bool {
	h, ok := hitOf(ev)
	return ok && slices.Contains(c.Selected, h.ObjectIndex)
}

func hasTargets(c Context, _ Event) bool {
	return len(c.Targets()) > 0
}
