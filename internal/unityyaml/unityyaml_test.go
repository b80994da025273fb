package unityyaml

import (
	"strings"
	"testing"
)

const controllerSample = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!1102 &-7048326345124346130
AnimatorState:
  serializedVersion: 6
  m_Name: Idle
  m_Motion: {fileID: 7400000, guid: 5f1c1b1e0e2a4e4c9a7d2f1b3c4d5e6f, type: 2}
--- !u!91 &9100000
AnimatorController:
  m_Name: Hero
  m_AnimatorLayers:
  - serializedVersion: 5
    m_Name: Base Layer
    m_StateMachine: {fileID: 1107000011}
--- !u!1107 &1107000011 stripped
AnimatorStateMachine:
  m_Name: Base Layer
`

func TestParseDocuments(t *testing.T) {
	f, err := Parse([]byte(controllerSample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(f.Docs))
	}

	cases := []struct {
		fileID   int64
		classID  int
		typ      string
		stripped bool
	}{
		{-7048326345124346130, ClassAnimatorState, "AnimatorState", false},
		{9100000, ClassAnimatorController, "AnimatorController", false},
		{1107000011, ClassAnimatorStateMachine, "AnimatorStateMachine", true},
	}
	for _, c := range cases {
		d, ok := f.Lookup(c.fileID)
		if !ok {
			t.Fatalf("document &%d not found", c.fileID)
		}
		if d.ClassID != c.classID || d.Type != c.typ || d.Stripped != c.stripped {
			t.Fatalf("&%d: got class %d type %q stripped %v", c.fileID, d.ClassID, d.Type, d.Stripped)
		}
	}
}

func TestDecodeRef(t *testing.T) {
	f, err := Parse([]byte(controllerSample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d, ok := f.First(ClassAnimatorState)
	if !ok {
		t.Fatalf("state not found")
	}

	var state struct {
		Name   string `yaml:"m_Name"`
		Motion Ref    `yaml:"m_Motion"`
	}
	if err := d.Decode(&state); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if state.Name != "Idle" {
		t.Fatalf("name = %q", state.Name)
	}
	if state.Motion.FileID != 7400000 || state.Motion.GUID != "5f1c1b1e0e2a4e4c9a7d2f1b3c4d5e6f" || state.Motion.Type != 2 {
		t.Fatalf("unexpected motion ref %+v", state.Motion)
	}
	if state.Motion.Local() || state.Motion.IsZero() {
		t.Fatalf("external ref reported as local or zero")
	}
}

func TestParseRejectsBadHeader(t *testing.T) {
	_, err := Parse([]byte("--- !x!74 &1\nAnimationClip:\n  m_Name: a\n"))
	if err == nil {
		t.Fatalf("expected an error for a non-Unity tag")
	}
}

func TestEncodeParses(t *testing.T) {
	type clip struct {
		Name   string `yaml:"m_Name"`
		Sprite Ref    `yaml:"m_Sprite"`
	}

	data, err := Encode(EncodeDoc{
		ClassID: ClassAnimationClip,
		FileID:  7400000,
		Type:    "AnimationClip",
		Body:    clip{Name: "Walk", Sprite: Ref{FileID: 21300000, GUID: "abc", Type: 3}},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "{fileID: 21300000, guid: abc, type: 3}") {
		t.Fatalf("reference not written in flow style:\n%s", data)
	}

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d, ok := f.Lookup(7400000)
	if !ok {
		t.Fatalf("encoded document not found")
	}
	var got clip
	if err := d.Decode(&got); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "Walk" || got.Sprite.FileID != 21300000 || got.Sprite.GUID != "abc" {
		t.Fatalf("unexpected round trip %+v", got)
	}
}
