package scenario

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/boxflow/api/schemas"
)

const pageJSON = `{
  "name": "page",
  "available": {"width": "800", "height": "600"},
  "root": {
    "id": "root",
    "style": {"flex_direction": "column", "width": "800", "height": "600"},
    "children": [
      {"id": "header", "style": {"height": "100"}},
      {"id": "body", "style": {"flex_grow": 1}, "text": "hello"}
    ]
  }
}`

const pagesYAML = `name: first
root:
  style:
    width: "100"
---
name: second
available:
  width: min-content
root:
  id: box
  image:
    width: 40
    height: 20
`

func TestDecodeJSON(t *testing.T) {
	got, err := Decode(strings.NewReader(pageJSON), FormatJSON)
	require.NoError(t, err)
	require.Len(t, got, 1)

	sc := got[0]
	assert.Equal(t, "page", sc.Name)
	assert.Equal(t, schemas.AvailableSpace{Width: "800", Height: "600"}, sc.Available)
	assert.Equal(t, "column", sc.Root.Style.FlexDirection)
	require.Len(t, sc.Root.Children, 2)
	require.NotNil(t, sc.Root.Children[1].Style.FlexGrow)
	assert.Equal(t, 1.0, *sc.Root.Children[1].Style.FlexGrow)
	assert.Equal(t, "hello", sc.Root.Children[1].Text)
	assert.Nil(t, sc.Root.Children[0].Style.FlexShrink, "absent numbers stay unset")
}

func TestDecodeJSONArray(t *testing.T) {
	got, err := Decode(strings.NewReader("[\n"+pageJSON+","+pageJSON+"]"), FormatJSON)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDecodeYAMLStream(t *testing.T) {
	got, err := Decode(strings.NewReader(pagesYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "100", got[0].Root.Style.Width)
	assert.Equal(t, "min-content", got[1].Available.Width)
	require.NotNil(t, got[1].Root.Image)
	assert.Equal(t, schemas.ImageSpec{Width: 40, Height: 20}, *got[1].Root.Image)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		format  Format
		wantErr error
		wantMsg string
	}{
		{"empty json", "  ", FormatJSON, ErrNoScenarios, ""},
		{"empty yaml", "", FormatYAML, ErrNoScenarios, ""},
		{"unknown json key", `{"root": {"style": {"widht": "1"}}}`, FormatJSON, nil, "widht"},
		{"unknown yaml key", "root:\n  colour: red\n", FormatYAML, nil, "colour"},
		{"malformed json", `{"root":`, FormatJSON, nil, "decode json"},
		{"unknown format", "{}", Format("toml"), ErrUnknownFormat, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in), tt.format)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json":      FormatJSON,
		"dir/b.YAML":  FormatYAML,
		"c.yml":       FormatYAML,
		"/abs/d.json": FormatJSON,
	} {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := DetectFormat("notes.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: {}\n---\nname: named\nroot: {}\n"), 0o600))

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cards#0", got[0].Name, "unnamed scenarios are named after the file")
	assert.Equal(t, "named", got[1].Name)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeResults(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeResults(&buf, []*schemas.Result{{
		RunID:    "run",
		Scenario: "page",
		Root:     &schemas.NodeResult{ID: "root", Width: 800, Height: 600},
	}})
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[\n"))
	assert.Contains(t, out, `"run_id": "run"`)
	assert.Contains(t, out, `"width": 800`)
	assert.NotContains(t, out, `"children"`)
	assert.True(t, strings.HasSuffix(out, "]\n"))
}
