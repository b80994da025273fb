package sheet

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultFrameRate is the playback rate assigned to generated groups.
	DefaultFrameRate = 12.0
	// DefaultMinSeparators is the number of underscores a sprite name
	// needs to take part in a frame sequence, e.g. "Walk_Left_0".
	DefaultMinSeparators = 2
)

// Group is a frame sequence: sprites sharing a name prefix, ordered by
// their trailing index.
type Group struct {
	Key       string
	Frames    []Sprite
	FrameRate float64
}

// FrameDuration is the display time of one frame in seconds.
func (g *Group) FrameDuration() float64 {
	return 1 / g.FrameRate
}

// KeyTime is the timestamp of frame i in seconds.
func (g *Group) KeyTime(i int) float64 {
	return float64(i) * g.FrameDuration()
}

// Length is the playback length of the whole sequence in seconds.
func (g *Group) Length() float64 {
	return float64(len(g.Frames)) * g.FrameDuration()
}

// Grouper partitions sprites into frame sequences.
type Grouper struct {
	MinSeparators int
	FrameRate     float64
}

// NewGrouper returns a Grouper with the default naming rule and rate.
func NewGrouper() Grouper {
	return Grouper{
		MinSeparators: DefaultMinSeparators,
		FrameRate:     DefaultFrameRate,
	}
}

// GroupAndOrder partitions sprites by the prefix before their last
// underscore and orders every group by its numeric suffix. Groups where
// any member lacks a numeric suffix are returned by key in rejected.
// Names without enough underscores are ignored. Groups and rejections
// keep the order in which their key first appears.
func (gr Grouper) GroupAndOrder(sprites []Sprite) (groups []Group, rejected []string) {
	minSep := gr.MinSeparators
	if minSep < 1 {
		minSep = 1
	}
	rate := gr.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}

	type candidate struct {
		members []Sprite
		indices []int
		invalid bool
	}

	var order []string
	candidates := map[string]*candidate{}

	for _, sp := range sprites {
		key, suffix, ok := splitFrameName(sp.Name, minSep)
		if !ok {
			continue
		}

		c, exists := candidates[key]
		if !exists {
			c = &candidate{}
			candidates[key] = c
			order = append(order, key)
		}

		idx, valid := parseIndex(suffix)
		if !valid {
			c.invalid = true
		}
		c.members = append(c.members, sp)
		c.indices = append(c.indices, idx)
	}

	for _, key := range order {
		c := candidates[key]
		if c.invalid {
			rejected = append(rejected, key)
			continue
		}

		sort.Stable(byIndex{c.members, c.indices})
		groups = append(groups, Group{
			Key:       key,
			Frames:    c.members,
			FrameRate: rate,
		})
	}

	return groups, rejected
}

// GroupAndOrder runs the default Grouper.
func GroupAndOrder(sprites []Sprite) ([]Group, []string) {
	return NewGrouper().GroupAndOrder(sprites)
}

// InvalidNames lists the members of the key's group whose suffix is not
// a frame index.
func (gr Grouper) InvalidNames(sprites []Sprite, key string) []string {
	minSep := gr.MinSeparators
	if minSep < 1 {
		minSep = 1
	}

	var names []string
	for _, sp := range sprites {
		k, suffix, ok := splitFrameName(sp.Name, minSep)
		if !ok || k != key {
			continue
		}
		if _, valid := parseIndex(suffix); !valid {
			names = append(names, sp.Name)
		}
	}
	return names
}

func splitFrameName(name string, minSep int) (key, suffix string, ok bool) {
	last := strings.LastIndexByte(name, '_')
	if last < 0 {
		return "", "", false
	}
	if strings.Count(name, "_") < minSep {
		return "", "", false
	}
	return name[:last], name[last+1:], true
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

type byIndex struct {
	sprites []Sprite
	indices []int
}

func (b byIndex) Len() int           { return len(b.sprites) }
func (b byIndex) Less(i, j int) bool { return b.indices[i] < b.indices[j] }
func (b byIndex) Swap(i, j int) {
	b.sprites[i], b.sprites[j] = b.sprites[j], b.sprites[i]
	b.indices[i], b.indices[j] = b.indices[j], b.indices[i]
}
