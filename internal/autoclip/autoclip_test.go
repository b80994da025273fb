package autoclip

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/alacrity-engine/sprite-tool/internal/assetdb"
	"github.com/alacrity-engine/sprite-tool/internal/clip"
	"github.com/alacrity-engine/sprite-tool/internal/sheet"
	"github.com/alacrity-engine/sprite-tool/internal/testproject"
)

func createHero(t *testing.T, opts Options) (*assetdb.DB, *Result) {
	t.Helper()

	db, err := assetdb.Open(testproject.Write(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s, err := db.LoadSprites("Assets/Art/hero.png")
	if err != nil {
		t.Fatalf("LoadSprites: %v", err)
	}
	res, err := Create(db, s, "Assets/Gen", opts)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return db, res
}

func TestCreate(t *testing.T) {
	db, res := createHero(t, Options{Grouper: sheet.NewGrouper()})

	if !reflect.DeepEqual(res.Created, []string{"Walk_Left"}) {
		t.Fatalf("created = %v", res.Created)
	}
	if !reflect.DeepEqual(res.Rejected, []string{"Jump_Up"}) {
		t.Fatalf("rejected = %v", res.Rejected)
	}
	if !reflect.DeepEqual(res.Skipped, []string{"Jump_Up"}) {
		t.Fatalf("skipped = %v", res.Skipped)
	}

	if _, ok := db.GUIDOf("Assets/Gen/Walk_Left.anim"); !ok {
		t.Fatalf("created clip was not registered")
	}
	meta, err := os.ReadFile(db.Abs("Assets/Gen/Walk_Left.anim.meta"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(meta), "mainObjectFileID: 7400000") {
		t.Fatalf("unexpected meta:\n%s", meta)
	}

	c, err := db.LoadClip("Assets/Gen/Walk_Left.anim")
	if err != nil {
		t.Fatalf("LoadClip: %v", err)
	}
	if c.Name != "Walk_Left" || c.Loop || c.SampleRate != 12 {
		t.Fatalf("unexpected clip %+v", c)
	}
	if got, want := c.Length(), 2.0/12; got != want {
		t.Fatalf("length = %v, want %v", got, want)
	}

	doc, err := clip.Export(c, "Assets/Gen/Walk_Left.anim", db)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := []clip.FrameRecord{
		{Sprite: "Walk_Left_0", Time: 0},
		{Sprite: "Walk_Left_1", Time: 1.0 / 12},
	}
	if !reflect.DeepEqual(doc.Frames, want) {
		t.Fatalf("frames = %+v, want %+v", doc.Frames, want)
	}
	if doc.TexturePath != "Assets/Art/hero.png" {
		t.Fatalf("texture path = %q", doc.TexturePath)
	}
}

func TestCreateSkipsExisting(t *testing.T) {
	db, _ := createHero(t, Options{Grouper: sheet.NewGrouper()})

	s, err := db.LoadSprites("Assets/Art/hero.png")
	if err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(db.Abs("Assets/Gen/Walk_Left.anim"))
	if err != nil {
		t.Fatal(err)
	}

	res, err := Create(db, s, "Assets/Gen", Options{Grouper: sheet.NewGrouper(), Loop: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(res.Created) != 0 {
		t.Fatalf("created = %v, want none", res.Created)
	}
	if !reflect.DeepEqual(res.Skipped, []string{"Jump_Up", "Walk_Left"}) {
		t.Fatalf("skipped = %v", res.Skipped)
	}

	after, err := os.ReadFile(db.Abs("Assets/Gen/Walk_Left.anim"))
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatalf("existing clip was rewritten")
	}
}

func TestCreateLoopAndRate(t *testing.T) {
	db, res := createHero(t, Options{
		Grouper: sheet.Grouper{MinSeparators: 2, FrameRate: 24},
		Loop:    true,
	})
	if len(res.Created) != 1 {
		t.Fatalf("created = %v", res.Created)
	}

	c, err := db.LoadClip("Assets/Gen/Walk_Left.anim")
	if err != nil {
		t.Fatalf("LoadClip: %v", err)
	}
	if !c.Loop || c.SampleRate != 24 {
		t.Fatalf("unexpected clip %+v", c)
	}
	curve, ok := c.SpriteCurve()
	if !ok || len(curve.Keys) != 2 || curve.Keys[1].Time != 1.0/24 {
		t.Fatalf("unexpected curve %+v", curve)
	}
}

func TestRenderHeader(t *testing.T) {
	g := &sheet.Group{
		Key:       "Idle",
		Frames:    []sheet.Sprite{{Name: "Idle_0", FileID: 5}},
		FrameRate: 12,
	}
	data, err := Render(g, "feed", false)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	s := string(data)
	for _, want := range []string{
		"--- !u!74 &7400000\nAnimationClip:\n",
		"m_Name: Idle",
		"{fileID: 5, guid: feed, type: 3}",
		"attribute: m_Sprite",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("rendered clip lacks %q:\n%s", want, s)
		}
	}
}
