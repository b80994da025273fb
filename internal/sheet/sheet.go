// Package sheet models sprites sliced from a texture and the JSON
// document describing a whole sprite sheet.
package sheet

// Rect is a sprite's bounding box in texture pixels, origin bottom-left.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Pivot is a normalized pivot point, both axes in [0, 1].
type Pivot struct {
	X float64
	Y float64
}

// Sprite is one named region of a texture.
type Sprite struct {
	Name  string
	Rect  Rect
	Pivot Pivot
	// FileID is the sprite's local identifier inside the texture asset.
	FileID int64
}

// Sheet is a texture together with every sprite sliced from it.
type Sheet struct {
	// Texture is the texture's file name, e.g. "hero.png".
	Texture string
	// Path is the project-relative asset path.
	Path    string
	GUID    string
	Width   int
	Height  int
	Sprites []Sprite
}

// Document is the exported sprite-sheet JSON.
type Document struct {
	Texture       string         `json:"texture"`
	TextureWidth  int            `json:"textureWidth"`
	TextureHeight int            `json:"textureHeight"`
	Sprites       []SpriteRecord `json:"sprites"`
}

// SpriteRecord is one sprite entry of a Document.
type SpriteRecord struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	PivotX float64 `json:"pivotX"`
	PivotY float64 `json:"pivotY"`
}

// Document builds the export document, sprites in sheet order.
func (s *Sheet) Document() *Document {
	doc := &Document{
		Texture:       s.Texture,
		TextureWidth:  s.Width,
		TextureHeight: s.Height,
		Sprites:       make([]SpriteRecord, 0, len(s.Sprites)),
	}

	for _, sp := range s.Sprites {
		doc.Sprites = append(doc.Sprites, SpriteRecord{
			Name:   sp.Name,
			X:      sp.Rect.X,
			Y:      sp.Rect.Y,
			Width:  sp.Rect.Width,
			Height: sp.Rect.Height,
			PivotX: sp.Pivot.X,
			PivotY: sp.Pivot.Y,
		})
	}

	return doc
}

// Alignment is the importer's pivot preset.
type Alignment int

const (
	AlignCenter Alignment = iota
	AlignTopLeft
	AlignTopCenter
	AlignTopRight
	AlignLeftCenter
	AlignRightCenter
	AlignBottomLeft
	AlignBottomCenter
	AlignBottomRight
	AlignCustom
)

// AlignmentPivot resolves a pivot preset. custom is used only for
// AlignCustom and for unknown presets.
func AlignmentPivot(a Alignment, custom Pivot) Pivot {
	switch a {
	case AlignCenter:
		return Pivot{0.5, 0.5}
	case AlignTopLeft:
		return Pivot{0, 1}
	case AlignTopCenter:
		return Pivot{0.5, 1}
	case AlignTopRight:
		return Pivot{1, 1}
	case AlignLeftCenter:
		return Pivot{0, 0.5}
	case AlignRightCenter:
		return Pivot{1, 0.5}
	case AlignBottomLeft:
		return Pivot{0, 0}
	case AlignBottomCenter:
		return Pivot{0.5, 0}
	case AlignBottomRight:
		return Pivot{1, 0}
	default:
		return custom
	}
}
