// Package testproject writes a small Unity project to disk for tests.
package testproject

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// GUIDs of the fixture assets.
const (
	HeroTextureGUID  = "0d5b5e0c1f7a4b3c8e2d9a6b4c3d2e1f"
	IdleClipGUID     = "a1b2c3d4e5f60718293a4b5c6d7e8f90"
	RunClipGUID      = "b2c3d4e5f60718293a4b5c6d7e8f90a1"
	ControllerGUID   = "c3d4e5f60718293a4b5c6d7e8f90a1b2"
	SingleSpriteGUID = "d4e5f60718293a4b5c6d7e8f90a1b2c3"
)

const heroMeta = `fileFormatVersion: 2
guid: ` + HeroTextureGUID + `
TextureImporter:
  internalIDToNameTable: []
  serializedVersion: 12
  spriteMode: 2
  alignment: 0
  spritePivot: {x: 0.5, y: 0.5}
  spriteSheet:
    serializedVersion: 2
    sprites:
    - serializedVersion: 2
      name: Walk_Left_1
      rect:
        serializedVersion: 2
        x: 32
        y: 32
        width: 32
        height: 32
      alignment: 7
      pivot: {x: 0.5, y: 0}
      internalID: 21300002
    - serializedVersion: 2
      name: Walk_Left_0
      rect:
        serializedVersion: 2
        x: 0
        y: 32
        width: 32
        height: 32
      alignment: 9
      pivot: {x: 0.25, y: 0.125}
      internalID: 21300000
    - serializedVersion: 2
      name: Jump_Up_x
      rect:
        serializedVersion: 2
        x: 0
        y: 0
        width: 32
        height: 32
      alignment: 0
      pivot: {x: 0.5, y: 0.5}
      internalID: 21300004
    - serializedVersion: 2
      name: Jump_Up_0
      rect:
        serializedVersion: 2
        x: 32
        y: 0
        width: 32
        height: 32
      alignment: 0
      pivot: {x: 0.5, y: 0.5}
      internalID: 21300006
    - serializedVersion: 2
      name: Sword
      rect:
        serializedVersion: 2
        x: 64
        y: 0
        width: 32
        height: 64
      alignment: 0
      pivot: {x: 0.5, y: 0.5}
      internalID: 21300008
    outline: []
    physicsShape: []
  spritePackingTag:
  userData:
`

const singleMeta = `fileFormatVersion: 2
guid: ` + SingleSpriteGUID + `
TextureImporter:
  spriteMode: 1
  alignment: 6
  spritePivot: {x: 0.5, y: 0.5}
`

const plainMeta = `fileFormatVersion: 2
guid: %s
NativeFormatImporter:
  externalObjects: {}
  mainObjectFileID: 7400000
  userData:
`

const idleClip = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!74 &7400000
AnimationClip:
  m_ObjectHideFlags: 0
  m_Name: Hero_Idle
  serializedVersion: 7
  m_PPtrCurves:
  - curve:
    - time: 0
      value: {fileID: 21300000, guid: ` + HeroTextureGUID + `, type: 3}
    - time: 0.5
      value: {fileID: 21300002, guid: ` + HeroTextureGUID + `, type: 3}
    attribute: m_Sprite
    path:
    classID: 212
    script: {fileID: 0}
  m_SampleRate: 12
  m_AnimationClipSettings:
    serializedVersion: 2
    m_StartTime: 0
    m_StopTime: 1
    m_LoopTime: 1
  m_Events:
  - time: 0.5
    functionName: Blink
    data: eyes
    objectReferenceParameter: {fileID: 0}
    floatParameter: 0
    intParameter: 0
    messageOptions: 0
`

const runClip = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!74 &7400000
AnimationClip:
  m_Name: Hero_Run
  m_PPtrCurves:
  - curve:
    - time: 0
      value: {fileID: 21300002, guid: ` + HeroTextureGUID + `, type: 3}
    attribute: m_Sprite
    path:
    classID: 212
    script: {fileID: 0}
  m_SampleRate: 12
  m_AnimationClipSettings:
    m_StartTime: 0
    m_StopTime: 0.75
    m_LoopTime: 0
  m_Events: []
`

const controller = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!91 &9100000
AnimatorController:
  m_ObjectHideFlags: 0
  m_Name: Hero
  serializedVersion: 5
  m_AnimatorParameters:
  - m_Name: speed
    m_Type: 1
    m_DefaultFloat: 0.5
    m_DefaultInt: 0
    m_DefaultBool: 0
    m_Controller: {fileID: 9100000}
  - m_Name: grounded
    m_Type: 4
    m_DefaultFloat: 0
    m_DefaultInt: 0
    m_DefaultBool: 1
    m_Controller: {fileID: 9100000}
  - m_Name: hit
    m_Type: 9
    m_DefaultFloat: 0
    m_DefaultInt: 0
    m_DefaultBool: 0
    m_Controller: {fileID: 9100000}
  m_AnimatorLayers:
  - serializedVersion: 5
    m_Name: Base Layer
    m_StateMachine: {fileID: 1107100000}
    m_Mask: {fileID: 0}
--- !u!1101 &1101100001
AnimatorStateTransition:
  m_Name:
  m_Conditions:
  - m_ConditionMode: 3
    m_ConditionEvent: speed
    m_EventTreshold: 0.1
  - m_ConditionMode: 1
    m_ConditionEvent: grounded
    m_EventTreshold: 0
  m_DstStateMachine: {fileID: 0}
  m_DstState: {fileID: 1102100002}
  m_Solo: 0
  m_Mute: 0
  m_IsExit: 0
  serializedVersion: 3
  m_TransitionDuration: 0.1
  m_TransitionOffset: 0
  m_ExitTime: 0.9
  m_HasExitTime: 0
  m_HasFixedDuration: 1
--- !u!1101 &1101100002
AnimatorStateTransition:
  m_Name:
  m_Conditions: []
  m_DstStateMachine: {fileID: 0}
  m_DstState: {fileID: 0}
  m_IsExit: 1
  m_TransitionDuration: 0
  m_ExitTime: 1
  m_HasExitTime: 1
--- !u!1101 &1101100003
AnimatorStateTransition:
  m_Name:
  m_Conditions:
  - m_ConditionMode: 1
    m_ConditionEvent: hit
    m_EventTreshold: 0
  m_DstStateMachine: {fileID: 0}
  m_DstState: {fileID: 1102100003}
  m_TransitionDuration: 0.05
  m_ExitTime: 0.75
  m_HasExitTime: 0
--- !u!1102 &1102100001
AnimatorState:
  serializedVersion: 6
  m_Name: Idle
  m_Speed: 1
  m_Transitions:
  - {fileID: 1101100001}
  m_Motion: {fileID: 7400000, guid: ` + IdleClipGUID + `, type: 2}
--- !u!1102 &1102100002
AnimatorState:
  serializedVersion: 6
  m_Name: Run
  m_Speed: 1
  m_Transitions:
  - {fileID: 1101100002}
  m_Motion: {fileID: 7400000, guid: ` + RunClipGUID + `, type: 2}
--- !u!1102 &1102100003
AnimatorState:
  serializedVersion: 6
  m_Name: Hurt
  m_Speed: 1
  m_Transitions: []
  m_Motion: {fileID: 20600000}
--- !u!206 &20600000
BlendTree:
  m_Name: HurtBlend
  m_Childs: []
--- !u!1107 &1107100000
AnimatorStateMachine:
  serializedVersion: 6
  m_Name: Base Layer
  m_ChildStates:
  - serializedVersion: 1
    m_State: {fileID: 1102100001}
    m_Position: {x: 200, y: 0, z: 0}
  - serializedVersion: 1
    m_State: {fileID: 1102100002}
    m_Position: {x: 200, y: 100, z: 0}
  - serializedVersion: 1
    m_State: {fileID: 1102100003}
    m_Position: {x: 200, y: 200, z: 0}
  m_ChildStateMachines: []
  m_AnyStateTransitions:
  - {fileID: 1101100003}
  m_EntryTransitions: []
  m_DefaultState: {fileID: 1102100001}
`

// Write creates the fixture project under t.TempDir and returns its root:
//
//	Assets/Art/hero.png        96x64, five sprites (multiple mode)
//	Assets/Art/coin.png        16x16, single sprite
//	Assets/Anim/Hero_Idle.anim looping, two keys, one event
//	Assets/Anim/Hero_Run.anim  one key, not looping
//	Assets/Anim/Hero.controller
func Write(t testing.TB) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"Assets/Art/hero.png.meta":         heroMeta,
		"Assets/Art/coin.png.meta":         singleMeta,
		"Assets/Anim/Hero_Idle.anim":       idleClip,
		"Assets/Anim/Hero_Idle.anim.meta":  fmt.Sprintf(plainMeta, IdleClipGUID),
		"Assets/Anim/Hero_Run.anim":        runClip,
		"Assets/Anim/Hero_Run.anim.meta":   fmt.Sprintf(plainMeta, RunClipGUID),
		"Assets/Anim/Hero.controller":      controller,
		"Assets/Anim/Hero.controller.meta": fmt.Sprintf(plainMeta, ControllerGUID),
		"Assets/readme.txt":                "not an asset kind the tool handles\n",
	}
	for name, content := range files {
		WriteFile(t, root, name, content)
	}

	writePNG(t, filepath.Join(root, "Assets/Art/hero.png"), 96, 64)
	writePNG(t, filepath.Join(root, "Assets/Art/coin.png"), 16, 16)

	return root
}

// WriteFile writes content to root/name, creating parent folders.
func WriteFile(t testing.TB, root, name, content string) {
	t.Helper()

	p := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t testing.TB, p string, w, h int) {
	t.Helper()

	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}
