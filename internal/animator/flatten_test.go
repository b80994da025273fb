package animator

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/alacrity-engine/sprite-tool/internal/errs"
)

func heroController() *Controller {
	idle := &State{Name: "Idle", Motion: &Motion{Name: "Hero_Idle", Length: 0.5, Loop: true}}
	run := &State{Name: "Run", Motion: &Motion{Name: "Hero_Run", Length: 0.75, Loop: true}}
	hurt := &State{Name: "Hurt"}

	idle.Transitions = []*Transition{{
		Destination: run,
		HasExitTime: false,
		ExitTime:    0.93,
		Duration:    0.1,
		Conditions: []Condition{
			{Parameter: "speed", Mode: ModeGreater, Threshold: 0.1},
			{Parameter: "grounded", Mode: ModeIf},
		},
	}}
	run.Transitions = []*Transition{
		{Destination: idle, HasExitTime: true, ExitTime: 0.75, Duration: 0.25},
		{Destination: nil, HasExitTime: true, ExitTime: 1, Duration: 0},
	}

	return &Controller{
		Name: "Hero",
		Parameters: []Parameter{
			{Name: "speed", Type: ParameterFloat, DefaultFloat: 0.5},
			{Name: "grounded", Type: ParameterBool, DefaultBool: true},
			{Name: "combo", Type: ParameterInt, DefaultInt: 2},
			{Name: "hit", Type: ParameterTrigger},
		},
		Layers: []*Layer{{
			Name:         "Base Layer",
			DefaultState: idle,
			States:       []*State{idle, run, hurt},
			AnyStateTransitions: []*Transition{
				{Destination: hurt, Duration: 0.05, Conditions: []Condition{{Parameter: "hit", Mode: ModeIf}}},
				{Destination: nil, Duration: 0.05},
			},
		}},
	}
}

func TestFlatten(t *testing.T) {
	g, err := Flatten(heroController(), 0)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	if g.ControllerName != "Hero" || g.DefaultState != "Idle" {
		t.Fatalf("unexpected header %q %q", g.ControllerName, g.DefaultState)
	}

	gotParams := make([]string, len(g.Parameters))
	for i, p := range g.Parameters {
		gotParams[i] = p.Name + ":" + p.Type.String()
	}
	wantParams := []string{"speed:Float", "grounded:Bool", "combo:Int", "hit:Trigger"}
	if !reflect.DeepEqual(gotParams, wantParams) {
		t.Fatalf("parameters %v, want %v", gotParams, wantParams)
	}

	gotStates := []string{}
	for _, s := range g.States {
		gotStates = append(gotStates, s.Name)
	}
	if !reflect.DeepEqual(gotStates, []string{"Idle", "Run", "Hurt"}) {
		t.Fatalf("states out of order: %v", gotStates)
	}

	idle := g.States[0]
	if idle.MotionName != "Hero_Idle" || idle.ClipLength != 0.5 || !idle.Loop {
		t.Fatalf("unexpected motion fields %+v", idle)
	}
	if len(idle.Transitions) != 1 || len(idle.Transitions[0].Conditions) != 2 {
		t.Fatalf("expected one transition with two conditions, got %+v", idle.Transitions)
	}
	if idle.Transitions[0].ExitTime != NoExitTime {
		t.Fatalf("exit time without hasExitTime = %v", idle.Transitions[0].ExitTime)
	}

	run := g.States[1]
	want := []TransitionInfo{
		{FromState: "Run", ToState: "Idle", ExitTime: 0.75, HasExitTime: true, Duration: 0.25,
			Conditions: []ConditionInfo{{Mode: ModeAlways}}},
		{FromState: "Run", ToState: ExitState, ExitTime: 1, HasExitTime: true,
			Conditions: []ConditionInfo{{Mode: ModeAlways}}},
	}
	if !reflect.DeepEqual(run.Transitions, want) {
		t.Fatalf("run transitions:\n%+v\nwant\n%+v", run.Transitions, want)
	}

	hurt := g.States[2]
	if hurt.MotionName != "" || hurt.Transitions == nil || len(hurt.Transitions) != 0 {
		t.Fatalf("state without motion: %+v", hurt)
	}

	if len(g.AnyStateTransitions) != 1 || g.AnyStateTransitions[0].ToState != "Hurt" {
		t.Fatalf("any-state transitions %+v", g.AnyStateTransitions)
	}
}

func TestFlattenExitTimeSentinel(t *testing.T) {
	for _, raw := range []float64{0, 0.5, 0.93, 12} {
		src := heroController()
		src.Layers[0].States[0].Transitions[0].ExitTime = raw

		g, err := Flatten(src, 0)
		if err != nil {
			t.Fatalf("Flatten: %v", err)
		}
		if got := g.States[0].Transitions[0].ExitTime; got != -1 {
			t.Fatalf("raw exit time %v leaked as %v", raw, got)
		}
	}
}

func TestExpandSharesTransitionFields(t *testing.T) {
	g, err := Flatten(heroController(), 0)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	rows := g.States[0].Transitions[0].Expand()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.FromState != "Idle" || r.ToState != "Run" || r.Duration != 0.1 || r.ExitTime != -1 {
			t.Fatalf("row does not carry the parent transition: %+v", r)
		}
	}
	if rows[0].ConditionParameter != "speed" || rows[1].ConditionParameter != "grounded" {
		t.Fatalf("conditions out of order: %+v", rows)
	}
}

func TestFlattenErrors(t *testing.T) {
	var noLayers *errs.NoLayersError
	if _, err := Flatten(&Controller{Name: "Empty"}, 0); !errors.As(err, &noLayers) {
		t.Fatalf("expected NoLayersError, got %v", err)
	}
	if _, err := FlattenLayers(&Controller{Name: "Empty"}); !errors.As(err, &noLayers) {
		t.Fatalf("expected NoLayersError, got %v", err)
	}

	var invalid *errs.InvalidSelectionError
	if _, err := Flatten(nil, 0); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSelectionError, got %v", err)
	}
	if _, err := Flatten(heroController(), 3); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSelectionError for a bad layer, got %v", err)
	}
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g, err := Flatten(heroController(), 0)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	data, err := json.MarshalIndent(g, "", "    ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Graph
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(*g, back) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", *g, back)
	}
}

func TestGraphJSONShape(t *testing.T) {
	g, err := Flatten(heroController(), 0)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	data, err := json.Marshal(g.States[1].Transitions[1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"fromState":"Run","toState":"Exit","exitTime":1,"hasExitTime":true,"duration":0,` +
		`"conditions":[{"parameter":"","mode":"Always","threshold":0}]}`
	if string(data) != want {
		t.Fatalf("got %s\nwant %s", data, want)
	}
}

func TestFlattenLayers(t *testing.T) {
	src := heroController()
	src.Layers = append(src.Layers, &Layer{Name: "Upper"})

	doc, err := FlattenLayers(src)
	if err != nil {
		t.Fatalf("FlattenLayers: %v", err)
	}
	if len(doc.Layers) != 2 || doc.Layers[1].LayerName != "Upper" || doc.Layers[1].DefaultState != "" {
		t.Fatalf("unexpected layers %+v", doc.Layers)
	}

	base := doc.Layers[0]
	if n := len(base.States[0].Transitions); n != 2 {
		t.Fatalf("two-condition transition expanded into %d rows", n)
	}
	if n := len(base.States[1].Transitions); n != 2 {
		t.Fatalf("unconditional transitions expanded into %d rows", n)
	}
	if base.States[1].Transitions[0].ConditionMode != ModeAlways {
		t.Fatalf("unconditional transition mode = %v", base.States[1].Transitions[0].ConditionMode)
	}
	if len(base.AnyStateTransitions) != 1 || base.AnyStateTransitions[0].ConditionParameter != "hit" {
		t.Fatalf("any-state rows %+v", base.AnyStateTransitions)
	}
}

func TestModeTextRoundTrip(t *testing.T) {
	for m := range conditionModeNames {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", m, err)
		}
		var back ConditionMode
		if err := back.UnmarshalText(text); err != nil || back != m {
			t.Fatalf("mode %v came back as %v (%v)", m, back, err)
		}
	}
	if _, err := ConditionMode(5).MarshalText(); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
}
