// Package fsm is the hierarchical state machine driving the game client's
// screen/mode transitions. States are registered by name; at most one is
// active, and only the active state receives per-frame and network callbacks.
package fsm

import "github.com/leoddeng/2dgame-server/pkg/types"

// Frame is the per-tick input handed to the active state.
type Frame struct {
	Jump bool
}

// State is one mode of the client. Each state owns the resources it
// allocates in Enter and must release them in Exit; the machine does not do
// that for it.
type State interface {
	Enter(args any)
	Exit()
	Update(frame Frame)
	Render()
	HandleMessage(msg types.ServerMessage)
}

type entry struct {
	name string
	args any
}

type Machine struct {
	states  map[string]State
	current State
	name    string
	history []entry
}

func NewMachine() *Machine {
	return &Machine{states: make(map[string]State)}
}

func (m *Machine) Register(name string, s State) {
	m.states[name] = s
}

// Current returns the active state's registered name, "" before the first
// transition.
func (m *Machine) Current() string { return m.name }

// HistoryDepth is the navigation stack depth. Test hook.
func (m *Machine) HistoryDepth() int { return len(m.history) }

// Lookup returns the registered state for name, nil if unregistered. Callers
// use it to reach intent methods on concrete states.
func (m *Machine) Lookup(name string) State { return m.states[name] }

// ClearHistory empties the navigation stack. Used when navigation jumps to a
// root state; entries left behind would otherwise resurface under later
// forward flows with arguments from an abandoned context.
func (m *Machine) ClearHistory() { m.history = m.history[:0] }

// ChangeState transitions to the named state. Redundant transitions (same
// name as the active state) and unregistered names are silently ignored; in
// both cases the active state is untouched. Otherwise the transition is
// recorded on the history stack when push is true, the active state exits,
// and the new state enters with args.
func (m *Machine) ChangeState(name string, args any, push bool) {
	if m.current != nil && m.name == name {
		return
	}
	next, ok := m.states[name]
	if !ok {
		return
	}
	if push {
		m.history = append(m.history, entry{name: name, args: args})
	}
	if m.current != nil {
		m.current.Exit()
	}
	m.current = next
	m.name = name
	next.Enter(args)
}

// Back discards the current history entry and re-enters the previous one
// with its original args. Not re-pushed, so repeated Back calls walk the
// stack down without growing it. No-op below depth 2.
func (m *Machine) Back() {
	if len(m.history) < 2 {
		return
	}
	m.history = m.history[:len(m.history)-1]
	top := m.history[len(m.history)-1]
	m.ChangeState(top.name, top.args, false)
}

func (m *Machine) Update(frame Frame) {
	if m.current != nil {
		m.current.Update(frame)
	}
}

func (m *Machine) Render() {
	if m.current != nil {
		m.current.Render()
	}
}

// HandleMessage delivers an inbound frame to whatever state is current at
// delivery time. Dispatch is immediate, not buffered to frame boundaries, so
// a message arriving mid-frame can change the active state before that
// frame's Render runs.
func (m *Machine) HandleMessage(msg types.ServerMessage) {
	if m.current != nil {
		m.current.HandleMessage(msg)
	}
}
