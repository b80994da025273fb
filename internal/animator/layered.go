package animator

import (
	"github.com/alacrity-engine/sprite-tool/internal/errs"
)

// FlatTransition is one condition of a transition with the transition's
// endpoints and timing copied next to it. Rows coming from the same
// transition cannot be told apart from separate single-condition
// transitions.
type FlatTransition struct {
	FromState          string        `json:"fromState"`
	ToState            string        `json:"toState"`
	ConditionParameter string        `json:"conditionParameter"`
	ConditionMode      ConditionMode `json:"conditionMode"`
	Threshold          float64       `json:"threshold"`
	ExitTime           float64       `json:"exitTime"`
	Duration           float64       `json:"duration"`
	HasExitTime        bool          `json:"hasExitTime"`
}

// Expand denormalizes the transition into one row per condition.
func (t TransitionInfo) Expand() []FlatTransition {
	rows := make([]FlatTransition, 0, len(t.Conditions))
	for _, c := range t.Conditions {
		rows = append(rows, FlatTransition{
			FromState:          t.FromState,
			ToState:            t.ToState,
			ConditionParameter: c.Parameter,
			ConditionMode:      c.Mode,
			Threshold:          c.Threshold,
			ExitTime:           t.ExitTime,
			Duration:           t.Duration,
			HasExitTime:        t.HasExitTime,
		})
	}
	return rows
}

// FlatAnyStateTransition is the any-state counterpart of FlatTransition.
type FlatAnyStateTransition struct {
	ToState            string        `json:"toState"`
	ConditionParameter string        `json:"conditionParameter"`
	ConditionMode      ConditionMode `json:"conditionMode"`
	Threshold          float64       `json:"threshold"`
	Duration           float64       `json:"duration"`
}

// Expand denormalizes the any-state transition into one row per condition.
func (t AnyStateTransitionInfo) Expand() []FlatAnyStateTransition {
	rows := make([]FlatAnyStateTransition, 0, len(t.Conditions))
	for _, c := range t.Conditions {
		rows = append(rows, FlatAnyStateTransition{
			ToState:            t.ToState,
			ConditionParameter: c.Parameter,
			ConditionMode:      c.Mode,
			Threshold:          c.Threshold,
			Duration:           t.Duration,
		})
	}
	return rows
}

// LayeredDocument is the per-layer layout with denormalized transitions
// that older consumers read.
type LayeredDocument struct {
	ControllerName string          `json:"controllerName"`
	Parameters     []ParameterInfo `json:"parameters"`
	Layers         []LayerInfo     `json:"layers"`
}

type LayerInfo struct {
	LayerName           string                   `json:"layerName"`
	DefaultState        string                   `json:"defaultState"`
	States              []LayeredStateInfo       `json:"states"`
	AnyStateTransitions []FlatAnyStateTransition `json:"anyStateTransitions"`
}

type LayeredStateInfo struct {
	Name        string           `json:"name"`
	MotionName  string           `json:"motionName"`
	Transitions []FlatTransition `json:"transitions"`
}

// FlattenLayers builds the layered document covering every layer.
func FlattenLayers(src *Controller) (*LayeredDocument, error) {
	if src == nil {
		return nil, &errs.InvalidSelectionError{Reason: "no animator controller selected"}
	}
	if len(src.Layers) == 0 {
		return nil, &errs.NoLayersError{Controller: src.Name}
	}

	doc := &LayeredDocument{
		ControllerName: src.Name,
		Parameters:     flattenParameters(src.Parameters),
		Layers:         make([]LayerInfo, 0, len(src.Layers)),
	}

	for i, l := range src.Layers {
		g, err := Flatten(src, i)
		if err != nil {
			return nil, err
		}

		info := LayerInfo{
			LayerName:           l.Name,
			DefaultState:        g.DefaultState,
			States:              make([]LayeredStateInfo, 0, len(g.States)),
			AnyStateTransitions: make([]FlatAnyStateTransition, 0, len(g.AnyStateTransitions)),
		}
		for _, st := range g.States {
			ls := LayeredStateInfo{
				Name:        st.Name,
				MotionName:  st.MotionName,
				Transitions: make([]FlatTransition, 0, len(st.Transitions)),
			}
			for _, tr := range st.Transitions {
				ls.Transitions = append(ls.Transitions, tr.Expand()...)
			}
			info.States = append(info.States, ls)
		}
		for _, tr := range g.AnyStateTransitions {
			info.AnyStateTransitions = append(info.AnyStateTransitions, tr.Expand()...)
		}

		doc.Layers = append(doc.Layers, info)
	}

	return doc, nil
}
