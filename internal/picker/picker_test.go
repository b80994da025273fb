package picker

import (
	"bytes"
	"log"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultSaveFile(t *testing.T) {
	cases := []struct {
		name string
		req  SaveRequest
		want string
	}{
		{"adds_ext", SaveRequest{StartDir: "/out", DefaultName: "hero_sprites", Ext: "json"}, "/out/hero_sprites.json"},
		{"keeps_ext", SaveRequest{StartDir: "/out", DefaultName: "Hero.JSON", Ext: "json"}, "/out/Hero.JSON"},
		{"no_ext", SaveRequest{StartDir: "/out", DefaultName: "stage.res"}, "/out/stage.res"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Default{}.SaveFile(c.req)
			if err != nil {
				t.Fatalf("SaveFile: %v", err)
			}
			if got != filepath.FromSlash(c.want) {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestSaveRequestFile(t *testing.T) {
	req := SaveRequest{Title: "Save clip JSON", StartDir: "/exports", DefaultName: "Hero_Idle_AniClip", Ext: "json"}
	if got, want := req.file(), filepath.FromSlash("/exports/Hero_Idle_AniClip.json"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := Log{Logger: log.New(&buf, "", 0)}

	n.Info("Saved", "hero.json")
	n.Error("No layers", "controller Hero")

	out := buf.String()
	if !strings.Contains(out, "Saved: hero.json") || !strings.Contains(out, "error: No layers: controller Hero") {
		t.Fatalf("unexpected log output %q", out)
	}
}
