package dag

// Label fills the Sethi-Ullman register label of every node in place.
//
// A leaf is labeled 1 when it occupies the leftmost operand slot of its
// first-encountered parent and 0 otherwise: a right-hand leaf can be read
// straight from memory, a left-hand operand must already sit in a
// register. An internal node with operand labels L1, L2 needs
// max(L1, L2) registers when they differ and L1+1 when they are equal.
// A node shared between parents is labeled exactly once.
//
// The root label is the minimum register count sufficient to evaluate the
// expression under the heavier-subtree-first order.
func Label(g *Graph) *Graph {
	// First-encountered parent and slot per node. Arena order is creation
	// order, so scanning ascending finds the first parent reference.
	firstSlot := make([]int, len(g.Nodes))
	seen := make([]bool, len(g.Nodes))
	for id := range g.Nodes {
		for slot, operand := range g.Nodes[id].Operands {
			if !seen[operand] {
				seen[operand] = true
				firstSlot[operand] = slot
			}
		}
	}

	// Operands always precede their users in the arena, so one ascending
	// pass is a pass in dependency order.
	for id := range g.Nodes {
		n := &g.Nodes[id]
		if n.IsLeaf() {
			switch {
			case !seen[id]:
				// Root leaf: the bare value still needs a register.
				n.Label = 1
			case firstSlot[id] == 0:
				n.Label = 1
			default:
				n.Label = 0
			}
			continue
		}

		if len(n.Operands) == 1 {
			operand := g.Nodes[n.Operands[0]].Label
			n.Label = max(operand, 1)
			continue
		}

		left := g.Nodes[n.Operands[0]].Label
		right := g.Nodes[n.Operands[1]].Label
		if left == right {
			n.Label = left + 1
		} else {
			n.Label = max(left, right)
		}
	}
	return g
}
