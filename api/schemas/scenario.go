package schemas

// -- Scenario Schemas --

// Scenario is a layout problem: a style tree and the space it is laid out in.
// It is the document format read by `boxflow compute`.
type Scenario struct {
	Name      string         `json:"name" yaml:"name"`
	Available AvailableSpace `json:"available" yaml:"available"`
	Root      NodeSpec       `json:"root" yaml:"root"`
}

// AvailableSpace holds the root's available space per axis. Each value is a
// number, "min-content" or "max-content". Empty means max-content.
type AvailableSpace struct {
	Width  string `json:"width,omitempty" yaml:"width,omitempty"`
	Height string `json:"height,omitempty" yaml:"height,omitempty"`
}

// NodeSpec describes one node. Text and Image make the node a measured leaf
// and are mutually exclusive.
type NodeSpec struct {
	ID       string     `json:"id,omitempty" yaml:"id,omitempty"`
	Style    StyleSpec  `json:"style" yaml:"style"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Image    *ImageSpec `json:"image,omitempty" yaml:"image,omitempty"`
	Children []NodeSpec `json:"children,omitempty" yaml:"children,omitempty"`
}

// ImageSpec is a replaced element with an intrinsic size.
type ImageSpec struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// StyleSpec carries style properties in CSS-like string form, for example
// "10", "10px", "50%" or "auto" for dimensions and "1 / span 2" for grid lines.
// Unset fields keep their defaults.
type StyleSpec struct {
	Display        string   `json:"display,omitempty" yaml:"display,omitempty"`
	BoxSizing      string   `json:"box_sizing,omitempty" yaml:"box_sizing,omitempty"`
	Position       string   `json:"position,omitempty" yaml:"position,omitempty"`
	Overflow       string   `json:"overflow,omitempty" yaml:"overflow,omitempty"`
	ScrollbarWidth *float64 `json:"scrollbar_width,omitempty" yaml:"scrollbar_width,omitempty"`
	ItemIsTable    bool     `json:"item_is_table,omitempty" yaml:"item_is_table,omitempty"`

	Width       string   `json:"width,omitempty" yaml:"width,omitempty"`
	Height      string   `json:"height,omitempty" yaml:"height,omitempty"`
	MinWidth    string   `json:"min_width,omitempty" yaml:"min_width,omitempty"`
	MinHeight   string   `json:"min_height,omitempty" yaml:"min_height,omitempty"`
	MaxWidth    string   `json:"max_width,omitempty" yaml:"max_width,omitempty"`
	MaxHeight   string   `json:"max_height,omitempty" yaml:"max_height,omitempty"`
	AspectRatio *float64 `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty"`

	Inset   string `json:"inset,omitempty" yaml:"inset,omitempty"`
	Margin  string `json:"margin,omitempty" yaml:"margin,omitempty"`
	Padding string `json:"padding,omitempty" yaml:"padding,omitempty"`
	Border  string `json:"border,omitempty" yaml:"border,omitempty"`
	Gap     string `json:"gap,omitempty" yaml:"gap,omitempty"`

	AlignItems     string `json:"align_items,omitempty" yaml:"align_items,omitempty"`
	AlignSelf      string `json:"align_self,omitempty" yaml:"align_self,omitempty"`
	JustifyItems   string `json:"justify_items,omitempty" yaml:"justify_items,omitempty"`
	JustifySelf    string `json:"justify_self,omitempty" yaml:"justify_self,omitempty"`
	AlignContent   string `json:"align_content,omitempty" yaml:"align_content,omitempty"`
	JustifyContent string `json:"justify_content,omitempty" yaml:"justify_content,omitempty"`
	TextAlign      string `json:"text_align,omitempty" yaml:"text_align,omitempty"`

	FlexDirection string   `json:"flex_direction,omitempty" yaml:"flex_direction,omitempty"`
	FlexWrap      string   `json:"flex_wrap,omitempty" yaml:"flex_wrap,omitempty"`
	FlexBasis     string   `json:"flex_basis,omitempty" yaml:"flex_basis,omitempty"`
	FlexGrow      *float64 `json:"flex_grow,omitempty" yaml:"flex_grow,omitempty"`
	FlexShrink    *float64 `json:"flex_shrink,omitempty" yaml:"flex_shrink,omitempty"`

	GridTemplateRows    string   `json:"grid_template_rows,omitempty" yaml:"grid_template_rows,omitempty"`
	GridTemplateColumns string   `json:"grid_template_columns,omitempty" yaml:"grid_template_columns,omitempty"`
	GridTemplateAreas   []string `json:"grid_template_areas,omitempty" yaml:"grid_template_areas,omitempty"`
	GridAutoRows        string   `json:"grid_auto_rows,omitempty" yaml:"grid_auto_rows,omitempty"`
	GridAutoColumns     string   `json:"grid_auto_columns,omitempty" yaml:"grid_auto_columns,omitempty"`
	GridAutoFlow        string   `json:"grid_auto_flow,omitempty" yaml:"grid_auto_flow,omitempty"`
	GridRow             string   `json:"grid_row,omitempty" yaml:"grid_row,omitempty"`
	GridColumn          string   `json:"grid_column,omitempty" yaml:"grid_column,omitempty"`
	GridArea            string   `json:"grid_area,omitempty" yaml:"grid_area,omitempty"`
}
