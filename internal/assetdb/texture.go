package assetdb

import (
	"encoding/binary"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"

	"github.com/alacrity-engine/sprite-tool/internal/errs"
	"github.com/alacrity-engine/sprite-tool/internal/sheet"
)

// Sprite import modes of the texture importer.
const (
	spriteModeNone     = 0
	spriteModeSingle   = 1
	spriteModeMultiple = 2
)

// singleSpriteFileID is the local ID Unity gives the only sprite of a
// texture imported in single mode.
const singleSpriteFileID = 21300000

type vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type rectMeta struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type spriteMeta struct {
	Name       string   `yaml:"name"`
	Rect       rectMeta `yaml:"rect"`
	Alignment  int      `yaml:"alignment"`
	Pivot      vec2     `yaml:"pivot"`
	InternalID int64    `yaml:"internalID"`
}

type idNamePair struct {
	First  map[int]int64 `yaml:"first"`
	Second string        `yaml:"second"`
}

type textureMeta struct {
	GUID            string `yaml:"guid"`
	TextureImporter struct {
		FileIDToRecycleName   map[int64]string `yaml:"fileIDToRecycleName"`
		InternalIDToNameTable []idNamePair     `yaml:"internalIDToNameTable"`
		SpriteMode            int              `yaml:"spriteMode"`
		Alignment             int              `yaml:"alignment"`
		SpritePivot           vec2             `yaml:"spritePivot"`
		SpriteSheet           struct {
			Sprites         []spriteMeta     `yaml:"sprites"`
			NameFileIDTable map[string]int64 `yaml:"nameFileIdTable"`
		} `yaml:"spriteSheet"`
	} `yaml:"TextureImporter"`
}

// LoadSheet reads the sprites sliced from a texture. Results are cached
// for the lifetime of the DB.
func (db *DB) LoadSheet(assetPath string) (*sheet.Sheet, error) {
	if s, ok := db.sheets[assetPath]; ok {
		return s, nil
	}

	data, err := os.ReadFile(db.Abs(assetPath) + ".meta")
	if err != nil {
		return nil, fmt.Errorf("assetdb: texture meta: %w", err)
	}

	var meta textureMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("assetdb: unmarshal %s.meta: %w", assetPath, err)
	}

	s := &sheet.Sheet{
		Texture: path.Base(assetPath),
		Path:    assetPath,
		GUID:    meta.GUID,
	}

	if w, h, err := textureSize(db.Abs(assetPath)); err == nil {
		s.Width, s.Height = w, h
	} else {
		log.Printf("texture size of %s unavailable: %v", assetPath, err)
	}

	ti := &meta.TextureImporter
	switch ti.SpriteMode {
	case spriteModeSingle:
		name := strings.TrimSuffix(path.Base(assetPath), path.Ext(assetPath))
		r := sheet.Rect{Width: float64(s.Width), Height: float64(s.Height)}
		s.Sprites = []sheet.Sprite{{
			Name:   name,
			Rect:   r,
			Pivot:  sheet.AlignmentPivot(sheet.Alignment(ti.Alignment), sheet.Pivot(ti.SpritePivot)),
			FileID: singleSpriteFileID,
		}}
	case spriteModeMultiple:
		recycled := make(map[string]int64, len(ti.FileIDToRecycleName))
		for id, name := range ti.FileIDToRecycleName {
			recycled[name] = id
		}
		for _, pair := range ti.InternalIDToNameTable {
			for _, id := range pair.First {
				recycled[pair.Second] = id
			}
		}

		for _, sm := range ti.SpriteSheet.Sprites {
			id := sm.InternalID
			if id == 0 {
				id = ti.SpriteSheet.NameFileIDTable[sm.Name]
			}
			if id == 0 {
				id = recycled[sm.Name]
			}

			s.Sprites = append(s.Sprites, sheet.Sprite{
				Name: sm.Name,
				Rect: sheet.Rect{
					X:      sm.Rect.X,
					Y:      sm.Rect.Y,
					Width:  sm.Rect.Width,
					Height: sm.Rect.Height,
				},
				Pivot:  sheet.AlignmentPivot(sheet.Alignment(sm.Alignment), sheet.Pivot(sm.Pivot)),
				FileID: id,
			})
		}
	}

	db.sheets[assetPath] = s
	return s, nil
}

// LoadSprites is LoadSheet for commands that need sliced sprites: a
// texture without any fails with NoSpriteDataError.
func (db *DB) LoadSprites(assetPath string) (*sheet.Sheet, error) {
	s, err := db.LoadSheet(assetPath)
	if err != nil {
		return nil, err
	}
	if len(s.Sprites) == 0 {
		return nil, &errs.NoSpriteDataError{
			Path:   assetPath,
			Reason: "the texture has no sprites; set Sprite Mode to Multiple and slice it",
		}
	}
	return s, nil
}

// textureSize reads the pixel size from the image header.
func textureSize(file string) (int, int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	var cfg image.Config
	switch strings.ToLower(filepath.Ext(file)) {
	case ".tga":
		cfg, err = tgaConfig(f)
	case ".psd":
		cfg, err = psdConfig(f)
	default:
		cfg, _, err = image.DecodeConfig(f)
	}
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// tgaConfig reads the 18-byte TGA header. The format has no magic
// number, so the image type stands in for one.
func tgaConfig(r io.Reader) (image.Config, error) {
	var h [18]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return image.Config{}, fmt.Errorf("tga: header: %w", err)
	}

	switch imageType := h[2]; imageType {
	case 1, 2, 3, 9, 10, 11:
	default:
		return image.Config{}, fmt.Errorf("tga: unsupported image type %d", imageType)
	}

	return image.Config{
		Width:  int(binary.LittleEndian.Uint16(h[12:14])),
		Height: int(binary.LittleEndian.Uint16(h[14:16])),
	}, nil
}

// psdConfig reads the Photoshop file header. Version 2 is the large
// document format, which keeps the same layout.
func psdConfig(r io.Reader) (image.Config, error) {
	var h [26]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return image.Config{}, fmt.Errorf("psd: header: %w", err)
	}

	if string(h[:4]) != "8BPS" {
		return image.Config{}, fmt.Errorf("psd: bad signature %q", h[:4])
	}
	if v := binary.BigEndian.Uint16(h[4:6]); v != 1 && v != 2 {
		return image.Config{}, fmt.Errorf("psd: unsupported version %d", v)
	}

	return image.Config{
		Width:  int(binary.BigEndian.Uint32(h[18:22])),
		Height: int(binary.BigEndian.Uint32(h[14:18])),
	}, nil
}
