// Package unityyaml reads the YAML dialect Unity uses for serialized
// assets: a stream of documents introduced by "--- !u!<classID> &<fileID>"
// whose single top-level key names the object type.
package unityyaml

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Class IDs of the objects this tool reads or writes.
const (
	ClassAnimationClip        = 74
	ClassAnimatorController   = 91
	ClassAnimatorStateTrans   = 1101
	ClassAnimatorState        = 1102
	ClassAnimatorStateMachine = 1107
	ClassAnimatorTransition   = 1109
	ClassBlendTree            = 206
	ClassSpriteRenderer       = 212
)

// Ref is a PPtr: a reference to an object in this file (GUID empty)
// or in another asset.
type Ref struct {
	FileID int64  `yaml:"fileID"`
	GUID   string `yaml:"guid,omitempty"`
	Type   int    `yaml:"type,omitempty"`
}

// IsZero reports whether the reference points nowhere.
func (r Ref) IsZero() bool {
	return r.FileID == 0 && r.GUID == ""
}

// Local reports whether the reference targets an object in the same file.
func (r Ref) Local() bool {
	return r.GUID == "" && r.FileID != 0
}

// MarshalYAML writes the reference in flow style, the way Unity does.
func (r Ref) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	add := func(k, v string) {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: v})
	}
	add("fileID", strconv.FormatInt(r.FileID, 10))
	if r.GUID != "" {
		add("guid", r.GUID)
		add("type", strconv.Itoa(r.Type))
	}
	return n, nil
}

// Document is one object of a Unity-YAML stream.
type Document struct {
	ClassID  int
	FileID   int64
	Stripped bool
	// Type is the object type key, e.g. "AnimationClip".
	Type string

	body *yaml.Node
}

// Decode unmarshals the object body into v.
func (d *Document) Decode(v interface{}) error {
	if d.body == nil {
		return nil
	}
	if err := d.body.Decode(v); err != nil {
		return fmt.Errorf("unityyaml: decode %s &%d: %w", d.Type, d.FileID, err)
	}
	return nil
}

// File is a parsed Unity-YAML asset.
type File struct {
	Docs []*Document
	byID map[int64]*Document
}

// Lookup returns the document with the given local file ID.
func (f *File) Lookup(fileID int64) (*Document, bool) {
	d, ok := f.byID[fileID]
	return d, ok
}

// First returns the first document of the given class.
func (f *File) First(classID int) (*Document, bool) {
	for _, d := range f.Docs {
		if d.ClassID == classID {
			return d, true
		}
	}
	return nil, false
}

// Parse splits data into documents and decodes every body.
func Parse(data []byte) (*File, error) {
	f := &File{byID: map[int64]*Document{}}

	var (
		cur  *Document
		body bytes.Buffer
	)

	flush := func() error {
		if cur == nil {
			return nil
		}
		if err := cur.parseBody(body.Bytes()); err != nil {
			return err
		}
		f.Docs = append(f.Docs, cur)
		f.byID[cur.FileID] = cur
		body.Reset()
		return nil
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0

	for sc.Scan() {
		line++
		text := sc.Text()

		switch {
		case strings.HasPrefix(text, "%"):
			continue
		case strings.HasPrefix(text, "---"):
			if err := flush(); err != nil {
				return nil, err
			}
			doc, err := parseHeader(text)
			if err != nil {
				return nil, fmt.Errorf("unityyaml: line %d: %w", line, err)
			}
			cur = doc
		default:
			if cur == nil {
				if strings.TrimSpace(text) == "" {
					continue
				}
				return nil, fmt.Errorf("unityyaml: line %d: content before first document", line)
			}
			body.WriteString(text)
			body.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("unityyaml: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return f, nil
}

func parseHeader(text string) (*Document, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 || fields[0] != "---" {
		return nil, fmt.Errorf("malformed document header %q", text)
	}

	tag, ok := strings.CutPrefix(fields[1], "!u!")
	if !ok {
		return nil, fmt.Errorf("unknown tag in header %q", text)
	}
	classID, err := strconv.Atoi(tag)
	if err != nil {
		return nil, fmt.Errorf("class id in header %q: %w", text, err)
	}

	anchor, ok := strings.CutPrefix(fields[2], "&")
	if !ok {
		return nil, fmt.Errorf("missing anchor in header %q", text)
	}
	fileID, err := strconv.ParseInt(anchor, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("file id in header %q: %w", text, err)
	}

	return &Document{
		ClassID:  classID,
		FileID:   fileID,
		Stripped: len(fields) > 3 && fields[3] == "stripped",
	}, nil
}

func (d *Document) parseBody(data []byte) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("unityyaml: document &%d: %w", d.FileID, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}

	m := root.Content[0]
	if m.Kind != yaml.MappingNode || len(m.Content) < 2 {
		return fmt.Errorf("unityyaml: document &%d: expected a single object mapping", d.FileID)
	}

	d.Type = m.Content[0].Value
	d.body = m.Content[1]
	return nil
}

// Encode renders objects as a Unity-YAML stream with the standard
// directives in front.
func Encode(docs ...EncodeDoc) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("%YAML 1.1\n%TAG !u! tag:unity3d.com,2011:\n")

	for _, doc := range docs {
		fmt.Fprintf(&buf, "--- !u!%d &%d\n", doc.ClassID, doc.FileID)

		var out bytes.Buffer
		enc := yaml.NewEncoder(&out)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]interface{}{doc.Type: doc.Body}); err != nil {
			return nil, fmt.Errorf("unityyaml: encode %s: %w", doc.Type, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("unityyaml: encode %s: %w", doc.Type, err)
		}
		buf.Write(out.Bytes())
	}

	return buf.Bytes(), nil
}

// EncodeDoc is one object handed to Encode.
type EncodeDoc struct {
	ClassID int
	FileID  int64
	Type    string
	Body    interface{}
}
