package mdast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// The callback walkFunc is called for each node. If walkFunc returns a non-nil error,
// the walk stops immediately and returns that error.
//
// The traversal keeps its own stack, so tree depth is limited by memory only.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	stack := []*Node{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := walkFunc(current); err != nil {
			return err
		}

		stack = pushReversed(stack, current.Children)
	}

	return nil
}

// WalkContextFunc is the function signature for WalkWithContext callbacks.
type WalkContextFunc func(n *Node) error

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting children, leave is called after.
// Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkContextFunc) error {
	if root == nil {
		return nil
	}

	type frame struct {
		node     *Node
		childIdx int
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.childIdx < len(top.node.Children) {
			child := top.node.Children[top.childIdx]
			top.childIdx++
			if enter != nil {
				if err := enter(child); err != nil {
					return err
				}
			}
			stack = append(stack, frame{node: child})
			continue
		}

		if leave != nil {
			if err := leave(top.node); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
	}

	return nil
}

// Walk returns n (when includeSelf is set) followed by all of its
// descendants in depth-first pre-order.
func (n *Node) Walk(includeSelf bool) []*Node {
	if n == nil {
		return nil
	}

	var result []*Node
	if includeSelf {
		result = append(result, n)
	}

	stack := pushReversed(nil, n.Children)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, current)
		stack = pushReversed(stack, current.Children)
	}

	return result
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

func pushReversed(stack, children []*Node) []*Node {
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, children[i])
	}
	return stack
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
