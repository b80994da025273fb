// Package animator flattens an animator controller's state machine into
// an ordered, JSON-serializable document.
package animator

import (
	"fmt"
	"strings"
)

// Controller is the animator graph as loaded from the asset, pointers
// and all. It is read once and never mutated.
type Controller struct {
	Name       string
	Parameters []Parameter
	Layers     []*Layer
}

// Parameter is a named input of the state machine.
type Parameter struct {
	Name         string
	Type         ParameterType
	DefaultFloat float64
	DefaultInt   int
	DefaultBool  bool
}

// Layer owns one state machine.
type Layer struct {
	Name                string
	DefaultState        *State
	States              []*State
	AnyStateTransitions []*Transition
}

// State is a node of the state machine bound to a motion.
type State struct {
	Name        string
	Motion      *Motion
	Transitions []*Transition
}

// Motion is the clip or blend tree a state plays.
type Motion struct {
	Name   string
	Length float64
	Loop   bool
}

// Transition is an edge of the state machine. A nil Destination leads
// to the state machine's exit node.
type Transition struct {
	Destination *State
	HasExitTime bool
	ExitTime    float64
	Duration    float64
	Conditions  []Condition
}

// Condition is one test a transition requires.
type Condition struct {
	Parameter string
	Mode      ConditionMode
	Threshold float64
}

// ParameterType is the type of a Parameter.
type ParameterType int

// Values follow the serialized m_Type of controller assets.
const (
	ParameterFloat   ParameterType = 1
	ParameterInt     ParameterType = 3
	ParameterBool    ParameterType = 4
	ParameterTrigger ParameterType = 9
)

var parameterTypeNames = map[ParameterType]string{
	ParameterFloat:   "Float",
	ParameterInt:     "Int",
	ParameterBool:    "Bool",
	ParameterTrigger: "Trigger",
}

func (t ParameterType) String() string {
	if s, ok := parameterTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ParameterType(%d)", int(t))
}

func (t ParameterType) MarshalText() ([]byte, error) {
	if _, ok := parameterTypeNames[t]; !ok {
		return nil, fmt.Errorf("animator: unknown parameter type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *ParameterType) UnmarshalText(text []byte) error {
	for k, v := range parameterTypeNames {
		if strings.EqualFold(v, string(text)) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("animator: unknown parameter type %q", text)
}

// ConditionMode is the comparison a Condition performs.
type ConditionMode int

// Values follow the serialized m_ConditionMode of controller assets.
// Always never appears in assets; it marks unconditional transitions.
const (
	ModeIf       ConditionMode = 1
	ModeIfNot    ConditionMode = 2
	ModeGreater  ConditionMode = 3
	ModeLess     ConditionMode = 4
	ModeEquals   ConditionMode = 6
	ModeNotEqual ConditionMode = 7
	ModeAlways   ConditionMode = 100
)

var conditionModeNames = map[ConditionMode]string{
	ModeIf:       "If",
	ModeIfNot:    "IfNot",
	ModeGreater:  "Greater",
	ModeLess:     "Less",
	ModeEquals:   "Equals",
	ModeNotEqual: "NotEqual",
	ModeAlways:   "Always",
}

func (m ConditionMode) String() string {
	if s, ok := conditionModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ConditionMode(%d)", int(m))
}

func (m ConditionMode) MarshalText() ([]byte, error) {
	if _, ok := conditionModeNames[m]; !ok {
		return nil, fmt.Errorf("animator: unknown condition mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *ConditionMode) UnmarshalText(text []byte) error {
	for k, v := range conditionModeNames {
		if v == string(text) {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("animator: unknown condition mode %q", text)
}
