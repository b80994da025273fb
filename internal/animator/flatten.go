package animator

import (
	"github.com/alacrity-engine/sprite-tool/internal/errs"
)

const (
	// ExitState names the destination of transitions into the exit node.
	ExitState = "Exit"
	// NoExitTime is written instead of the exit time of transitions
	// that do not use one.
	NoExitTime = -1.0
)

// Graph is the flattened controller document.
type Graph struct {
	ControllerName      string                   `json:"controllerName"`
	Parameters          []ParameterInfo          `json:"parameters"`
	DefaultState        string                   `json:"defaultState"`
	States              []StateInfo              `json:"states"`
	AnyStateTransitions []AnyStateTransitionInfo `json:"anyStateTransitions"`
}

type ParameterInfo struct {
	Name         string        `json:"name"`
	Type         ParameterType `json:"type"`
	DefaultFloat float64       `json:"defaultFloat"`
	DefaultInt   int           `json:"defaultInt"`
	DefaultBool  bool          `json:"defaultBool"`
}

type StateInfo struct {
	Name        string           `json:"name"`
	MotionName  string           `json:"motionName"`
	ClipLength  float64          `json:"clipLength"`
	Loop        bool             `json:"loop"`
	Transitions []TransitionInfo `json:"transitions"`
}

// TransitionInfo keeps all of a transition's conditions together; every
// one of them must hold for the transition to fire.
type TransitionInfo struct {
	FromState   string          `json:"fromState"`
	ToState     string          `json:"toState"`
	ExitTime    float64         `json:"exitTime"`
	HasExitTime bool            `json:"hasExitTime"`
	Duration    float64         `json:"duration"`
	Conditions  []ConditionInfo `json:"conditions"`
}

type AnyStateTransitionInfo struct {
	ToState    string          `json:"toState"`
	Duration   float64         `json:"duration"`
	Conditions []ConditionInfo `json:"conditions"`
}

type ConditionInfo struct {
	Parameter string        `json:"parameter"`
	Mode      ConditionMode `json:"mode"`
	Threshold float64       `json:"threshold"`
}

// Flatten converts one layer of the controller into a Graph. Parameters,
// states, transitions and conditions keep their declared order.
func Flatten(src *Controller, layer int) (*Graph, error) {
	if src == nil {
		return nil, &errs.InvalidSelectionError{Reason: "no animator controller selected"}
	}
	if len(src.Layers) == 0 {
		return nil, &errs.NoLayersError{Controller: src.Name}
	}
	if layer < 0 || layer >= len(src.Layers) {
		return nil, &errs.InvalidSelectionError{
			Path:   src.Name,
			Reason: "layer index out of range",
		}
	}

	l := src.Layers[layer]
	g := &Graph{
		ControllerName:      src.Name,
		Parameters:          flattenParameters(src.Parameters),
		DefaultState:        stateName(l.DefaultState, ""),
		States:              make([]StateInfo, 0, len(l.States)),
		AnyStateTransitions: make([]AnyStateTransitionInfo, 0, len(l.AnyStateTransitions)),
	}

	for _, st := range l.States {
		info := StateInfo{
			Name:        st.Name,
			Transitions: make([]TransitionInfo, 0, len(st.Transitions)),
		}
		if st.Motion != nil {
			info.MotionName = st.Motion.Name
			info.ClipLength = st.Motion.Length
			info.Loop = st.Motion.Loop
		}

		for _, tr := range st.Transitions {
			info.Transitions = append(info.Transitions, TransitionInfo{
				FromState:   st.Name,
				ToState:     stateName(tr.Destination, ExitState),
				ExitTime:    exitTime(tr),
				HasExitTime: tr.HasExitTime,
				Duration:    tr.Duration,
				Conditions:  flattenConditions(tr.Conditions),
			})
		}

		g.States = append(g.States, info)
	}

	for _, tr := range l.AnyStateTransitions {
		if tr.Destination == nil {
			continue
		}
		g.AnyStateTransitions = append(g.AnyStateTransitions, AnyStateTransitionInfo{
			ToState:    tr.Destination.Name,
			Duration:   tr.Duration,
			Conditions: flattenConditions(tr.Conditions),
		})
	}

	return g, nil
}

func flattenParameters(params []Parameter) []ParameterInfo {
	out := make([]ParameterInfo, 0, len(params))
	for _, p := range params {
		out = append(out, ParameterInfo{
			Name:         p.Name,
			Type:         p.Type,
			DefaultFloat: p.DefaultFloat,
			DefaultInt:   p.DefaultInt,
			DefaultBool:  p.DefaultBool,
		})
	}
	return out
}

// flattenConditions never returns an empty list: an unconditional
// transition gets a single Always entry.
func flattenConditions(conds []Condition) []ConditionInfo {
	if len(conds) == 0 {
		return []ConditionInfo{{Mode: ModeAlways}}
	}

	out := make([]ConditionInfo, 0, len(conds))
	for _, c := range conds {
		out = append(out, ConditionInfo{
			Parameter: c.Parameter,
			Mode:      c.Mode,
			Threshold: c.Threshold,
		})
	}
	return out
}

func exitTime(tr *Transition) float64 {
	if !tr.HasExitTime {
		return NoExitTime
	}
	return tr.ExitTime
}

func stateName(s *State, fallback string) string {
	if s == nil {
		return fallback
	}
	return s.Name
}
