// Package results defines the structured output format for compilations.
// The bundle is the fixed schema handed to presentation layers: a graph
// projection, register minimum, three-address code, and allocation steps
// for both the original and the rearranged DAG.
package results

const SchemaVersion = "1.0.0"

// Bundle contains the complete output for one expression. On failure only
// Success and Error are set; no partial bundle is ever produced.
type Bundle struct {
	Version    string  `json:"version"`
	Success    bool    `json:"success"`
	Error      string  `json:"error,omitempty"`
	Expression string  `json:"expression,omitempty"`
	Original   *Report `json:"original,omitempty"`
	Rearranged *Report `json:"rearranged,omitempty"`
}

// Report is one half of the bundle: everything derived from one DAG.
type Report struct {
	Graph            Graph       `json:"graph"`
	MinRegisters     int         `json:"min_registers"`
	ThreeAddressCode []string    `json:"three_address_code"`
	Steps            []string    `json:"steps"`
	LiveRanges       []LiveRange `json:"live_ranges,omitempty"`
}

// Graph is the read-only node/edge projection of a DAG. Edges point in
// operand-to-result direction: the operand feeds into the operation.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is a single rendered node.
type GraphNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"` // "variable" or "operation"
}

// GraphEdge is a directed edge between node ids.
type GraphEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// LiveRange is the instruction-index span a value spends in a register.
type LiveRange struct {
	Node     int    `json:"node"`
	Register string `json:"register"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Failure builds the error form of a bundle.
func Failure(expression string, err error) *Bundle {
	return &Bundle{
		Version:    SchemaVersion,
		Success:    false,
		Error:      err.Error(),
		Expression: expression,
	}
}
