package value

// visiting marks a node whose operands are still being explored
const visiting = -1

type frame struct {
	node *Value
	next int
}

// topo linearizes the graph reachable from root in post-order, so every node
// comes after all of its operands and root comes last. pos maps each node to
// its index in order.
func topo(root *Value) (order []*Value, pos map[*Value]int, err error) {
	if root == nil {
		return nil, nil, &StructuralError{Err: ErrNilOperand}
	}
	pos = map[*Value]int{root: visiting}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		node := top.node
		if top.next == 0 && len(node.operands) != node.op.arity() {
			return nil, nil, &StructuralError{Node: node, Err: ErrMalformed}
		}
		if top.next < len(node.operands) {
			child := node.operands[top.next]
			top.next++
			if child == nil {
				return nil, nil, &StructuralError{Node: node, Err: ErrNilOperand}
			}
			p, seen := pos[child]
			if !seen {
				pos[child] = visiting
				stack = append(stack, frame{node: child})
			} else if p == visiting {
				return nil, nil, &StructuralError{Node: child, Err: ErrCycle}
			}
			continue
		}
		pos[node] = len(order)
		order = append(order, node)
		stack = stack[:len(stack)-1]
	}
	return order, pos, nil
}

// Topo returns every node reachable from root in topological order, operands
// before the nodes consuming them. Root is the last element.
func Topo(root *Value) ([]*Value, error) {
	order, _, err := topo(root)
	return order, err
}

// Backward computes the gradient of v with respect to every node reachable
// from it and adds it to that node's grad. The seed is dv/dv = 1.
//
// Each node pushes its gradient to its operands exactly once, after all of
// its consumers have contributed. Gradients of one call are summed into the
// nodes only when the walk is complete, so calling Backward twice without
// ZeroGrad yields exactly twice the gradients. Call ZeroGrad before an
// unrelated pass.
//
// A cyclic or malformed graph is reported as a *StructuralError and leaves
// all gradients untouched.
func (v *Value) Backward() error {
	order, pos, err := topo(v)
	if err != nil {
		return err
	}
	grads := make([]float32, len(order))
	grads[len(order)-1] = 1
	for i := len(order) - 1; i >= 0; i-- {
		node := order[i]
		g := grads[i]
		for j, operand := range node.operands {
			grads[pos[operand]] += g * node.local(j)
		}
	}
	for i, node := range order {
		node.grad += grads[i]
	}
	return nil
}

// ZeroGrad resets grad to 0 on every node reachable from v.
func (v *Value) ZeroGrad() error {
	order, _, err := topo(v)
	if err != nil {
		return err
	}
	for _, node := range order {
		node.grad = 0
	}
	return nil
}
