package assetdb

import (
	"fmt"
	"log"
	"os"
	"path"
	"strings"

	"github.com/alacrity-engine/sprite-tool/internal/animator"
	"github.com/alacrity-engine/sprite-tool/internal/unityyaml"
)

type controllerYAML struct {
	Name       string `yaml:"m_Name"`
	Parameters []struct {
		Name         string  `yaml:"m_Name"`
		Type         int     `yaml:"m_Type"`
		DefaultFloat float64 `yaml:"m_DefaultFloat"`
		DefaultInt   int     `yaml:"m_DefaultInt"`
		DefaultBool  int     `yaml:"m_DefaultBool"`
	} `yaml:"m_AnimatorParameters"`
	Layers []struct {
		Name         string        `yaml:"m_Name"`
		StateMachine unityyaml.Ref `yaml:"m_StateMachine"`
	} `yaml:"m_AnimatorLayers"`
}

type stateMachineYAML struct {
	Name        string `yaml:"m_Name"`
	ChildStates []struct {
		State unityyaml.Ref `yaml:"m_State"`
	} `yaml:"m_ChildStates"`
	AnyStateTransitions []unityyaml.Ref `yaml:"m_AnyStateTransitions"`
	DefaultState        unityyaml.Ref   `yaml:"m_DefaultState"`
}

type stateYAML struct {
	Name        string          `yaml:"m_Name"`
	Transitions []unityyaml.Ref `yaml:"m_Transitions"`
	Motion      unityyaml.Ref   `yaml:"m_Motion"`
}

type transitionYAML struct {
	Conditions []struct {
		Mode      int     `yaml:"m_ConditionMode"`
		Event     string  `yaml:"m_ConditionEvent"`
		Threshold float64 `yaml:"m_EventTreshold"`
	} `yaml:"m_Conditions"`
	DstState    unityyaml.Ref `yaml:"m_DstState"`
	Duration    float64       `yaml:"m_TransitionDuration"`
	ExitTime    float64       `yaml:"m_ExitTime"`
	HasExitTime int           `yaml:"m_HasExitTime"`
}

type namedYAML struct {
	Name string `yaml:"m_Name"`
}

// LoadController reads an animator controller and resolves its object
// graph: states, transitions and the clips states play.
func (db *DB) LoadController(assetPath string) (*animator.Controller, error) {
	data, err := os.ReadFile(db.Abs(assetPath))
	if err != nil {
		return nil, fmt.Errorf("assetdb: controller: %w", err)
	}
	f, err := unityyaml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("assetdb: %s: %w", assetPath, err)
	}

	doc, ok := f.First(unityyaml.ClassAnimatorController)
	if !ok {
		return nil, fmt.Errorf("assetdb: %s: no AnimatorController object", assetPath)
	}
	var cy controllerYAML
	if err := doc.Decode(&cy); err != nil {
		return nil, err
	}

	name := cy.Name
	if name == "" {
		name = strings.TrimSuffix(path.Base(assetPath), path.Ext(assetPath))
	}
	ctrl := &animator.Controller{Name: name}

	for _, p := range cy.Parameters {
		ctrl.Parameters = append(ctrl.Parameters, animator.Parameter{
			Name:         p.Name,
			Type:         animator.ParameterType(p.Type),
			DefaultFloat: p.DefaultFloat,
			DefaultInt:   p.DefaultInt,
			DefaultBool:  p.DefaultBool != 0,
		})
	}

	g := &graphLoader{db: db, file: f, path: assetPath, states: map[int64]*animator.State{}}
	if err := g.loadStates(); err != nil {
		return nil, err
	}

	for _, ly := range cy.Layers {
		layer := &animator.Layer{Name: ly.Name}
		if !ly.StateMachine.IsZero() {
			if err := g.fillLayer(layer, ly.StateMachine.FileID); err != nil {
				return nil, err
			}
		}
		ctrl.Layers = append(ctrl.Layers, layer)
	}

	return ctrl, nil
}

type graphLoader struct {
	db     *DB
	file   *unityyaml.File
	path   string
	states map[int64]*animator.State
}

// loadStates creates every state first so transitions can point at
// states declared later in the file or in sub-state machines.
func (g *graphLoader) loadStates() error {
	raw := map[int64]stateYAML{}
	for _, d := range g.file.Docs {
		if d.ClassID != unityyaml.ClassAnimatorState {
			continue
		}
		var sy stateYAML
		if err := d.Decode(&sy); err != nil {
			return err
		}
		raw[d.FileID] = sy
		g.states[d.FileID] = &animator.State{Name: sy.Name, Motion: g.motion(sy.Motion)}
	}

	for id, sy := range raw {
		st := g.states[id]
		for _, ref := range sy.Transitions {
			tr, err := g.transition(ref)
			if err != nil {
				return err
			}
			if tr != nil {
				st.Transitions = append(st.Transitions, tr)
			}
		}
	}
	return nil
}

func (g *graphLoader) fillLayer(layer *animator.Layer, machineID int64) error {
	d, ok := g.file.Lookup(machineID)
	if !ok {
		return fmt.Errorf("assetdb: %s: state machine &%d not found", g.path, machineID)
	}
	var sm stateMachineYAML
	if err := d.Decode(&sm); err != nil {
		return err
	}

	for _, cs := range sm.ChildStates {
		if st, ok := g.states[cs.State.FileID]; ok {
			layer.States = append(layer.States, st)
		}
	}
	if !sm.DefaultState.IsZero() {
		layer.DefaultState = g.states[sm.DefaultState.FileID]
	}
	for _, ref := range sm.AnyStateTransitions {
		tr, err := g.transition(ref)
		if err != nil {
			return err
		}
		if tr != nil {
			layer.AnyStateTransitions = append(layer.AnyStateTransitions, tr)
		}
	}
	return nil
}

func (g *graphLoader) transition(ref unityyaml.Ref) (*animator.Transition, error) {
	d, ok := g.file.Lookup(ref.FileID)
	if !ok {
		log.Printf("%s: transition &%d not found, skipped", g.path, ref.FileID)
		return nil, nil
	}
	var ty transitionYAML
	if err := d.Decode(&ty); err != nil {
		return nil, err
	}

	tr := &animator.Transition{
		HasExitTime: ty.HasExitTime != 0,
		ExitTime:    ty.ExitTime,
		Duration:    ty.Duration,
	}
	if !ty.DstState.IsZero() {
		tr.Destination = g.states[ty.DstState.FileID]
	}
	for _, c := range ty.Conditions {
		tr.Conditions = append(tr.Conditions, animator.Condition{
			Parameter: c.Event,
			Mode:      animator.ConditionMode(c.Mode),
			Threshold: c.Threshold,
		})
	}
	return tr, nil
}

func (g *graphLoader) motion(ref unityyaml.Ref) *animator.Motion {
	switch {
	case ref.IsZero():
		return nil
	case ref.Local():
		d, ok := g.file.Lookup(ref.FileID)
		if !ok {
			return nil
		}
		var n namedYAML
		if err := d.Decode(&n); err != nil {
			log.Printf("%s: motion &%d: %v", g.path, ref.FileID, err)
			return nil
		}
		return &animator.Motion{Name: n.Name}
	}

	p, ok := g.db.PathOf(ref.GUID)
	if !ok {
		log.Printf("%s: motion asset %s not found in project", g.path, ref.GUID)
		return nil
	}
	c, err := g.db.LoadClip(p)
	if err != nil {
		log.Printf("%s: motion %s: %v", g.path, p, err)
		return nil
	}
	return &animator.Motion{Name: c.Name, Length: c.Length(), Loop: c.Loop}
}
