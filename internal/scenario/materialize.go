package scenario

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/font"

	"github.com/xkilldash9x/boxflow/api/schemas"
	"github.com/xkilldash9x/boxflow/internal/config"
	"github.com/xkilldash9x/boxflow/pkg/builder"
	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/layout"
	"github.com/xkilldash9x/boxflow/pkg/measure"
)

// ErrInvalidNode is returned for node specs that cannot be built.
var ErrInvalidNode = errors.New("invalid node")

// Materializer turns scenarios into layout trees. It owns a font face in font
// text mode and must not be shared between goroutines.
type Materializer struct {
	engine config.EngineConfig
	face   font.Face
	logger *zap.Logger
}

// NewMaterializer prepares leaf measurement for the engine settings.
func NewMaterializer(engine config.EngineConfig, logger *zap.Logger) (*Materializer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Materializer{engine: engine, logger: logger}
	if strings.EqualFold(engine.TextMode, config.TextModeFont) {
		face, err := measure.NewGoFace(engine.FontSize)
		if err != nil {
			return nil, fmt.Errorf("scenario: load font: %w", err)
		}
		m.face = face
	}
	return m, nil
}

// Close releases the font face, if any.
func (m *Materializer) Close() error {
	if m.face == nil {
		return nil
	}
	return m.face.Close()
}

// Document is a scenario materialized into a tree.
type Document struct {
	Name      string
	Tree      *layout.Tree
	Root      layout.NodeID
	Available geom.Size[layout.AvailableSpace]
	nodes     *docNode
}

// docNode mirrors the spec tree so results keep the document's ids and order.
type docNode struct {
	id       string
	handle   *builder.Handle
	children []*docNode
}

// Build creates the scenario's nodes in tree.
func (m *Materializer) Build(tree *layout.Tree, sc schemas.Scenario) (*Document, error) {
	available, err := parseAvailableSize(sc.Available)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	b, nodes, err := m.node(sc.Root, "root")
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	root, err := b.Build(tree)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	return &Document{Name: sc.Name, Tree: tree, Root: root, Available: available, nodes: nodes}, nil
}

// node converts one spec into a builder. path locates it in error messages.
func (m *Materializer) node(spec schemas.NodeSpec, path string) (*builder.StyleBuilder, *docNode, error) {
	if spec.ID != "" {
		path = spec.ID
	}
	st, err := ParseStyle(spec.Style)
	if err != nil {
		return nil, nil, fmt.Errorf("node %s: %w", path, err)
	}

	ctx, err := m.context(spec)
	if err != nil {
		return nil, nil, fmt.Errorf("node %s: %w", path, err)
	}
	h := builder.NewHandle()
	b := builder.FromStyle(st).Handle(h)
	if ctx != nil {
		b.Context(ctx)
	}

	dn := &docNode{id: spec.ID, handle: h}
	for i, c := range spec.Children {
		cb, cn, err := m.node(c, fmt.Sprintf("%s/%d", path, i))
		if err != nil {
			return nil, nil, err
		}
		b.Child(cb)
		dn.children = append(dn.children, cn)
	}
	return b, dn, nil
}

func (m *Materializer) context(spec schemas.NodeSpec) (any, error) {
	switch {
	case spec.Text != "" && spec.Image != nil:
		return nil, fmt.Errorf("%w: text and image are exclusive", ErrInvalidNode)
	case (spec.Text != "" || spec.Image != nil) && len(spec.Children) > 0:
		return nil, fmt.Errorf("%w: a measured leaf cannot have children", ErrInvalidNode)
	case spec.Image != nil:
		if spec.Image.Width < 0 || spec.Image.Height < 0 {
			return nil, fmt.Errorf("%w: image size must not be negative", ErrInvalidNode)
		}
		return measure.Fixed{Width: spec.Image.Width, Height: spec.Image.Height}, nil
	case spec.Text == "":
		return nil, nil
	case m.face != nil:
		return measure.FontText{Content: spec.Text, Face: m.face}, nil
	default:
		return measure.TerminalText{Content: spec.Text}, nil
	}
}

// Compute lays out a scenario on a fresh tree configured from the engine
// settings.
func (m *Materializer) Compute(sc schemas.Scenario) (*Document, error) {
	opts := append(m.engine.Options(), layout.WithLogger(m.logger))
	doc, err := m.Build(layout.New(opts...), sc)
	if err != nil {
		return nil, err
	}
	if err := doc.Tree.ComputeLayoutWithMeasure(doc.Root, doc.Available, measure.Func()); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	return doc, nil
}
