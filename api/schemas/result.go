package schemas

// -- Result Schemas --

// Result is the computed layout of one scenario.
type Result struct {
	RunID    string      `json:"run_id" yaml:"run_id"`
	Scenario string      `json:"scenario" yaml:"scenario"`
	Source   string      `json:"source,omitempty" yaml:"source,omitempty"`
	Root     *NodeResult `json:"root" yaml:"root"`
}

// NodeResult is a node's final layout. X and Y are relative to the parent's
// content box.
type NodeResult struct {
	ID            string        `json:"id,omitempty" yaml:"id,omitempty"`
	X             float64       `json:"x" yaml:"x"`
	Y             float64       `json:"y" yaml:"y"`
	Width         float64       `json:"width" yaml:"width"`
	Height        float64       `json:"height" yaml:"height"`
	ContentWidth  float64       `json:"content_width" yaml:"content_width"`
	ContentHeight float64       `json:"content_height" yaml:"content_height"`
	Children      []*NodeResult `json:"children,omitempty" yaml:"children,omitempty"`
}
