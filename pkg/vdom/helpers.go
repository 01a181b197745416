package vdom

// If returns node when cond holds. A nil result is dropped by the builder.
func If(cond bool, node *VNode) *VNode {
	if !cond {
		return nil
	}
	return node
}

// Map builds one child per item, in order.
func Map[T any](items []T, fn func(item T, i int) *VNode) []*VNode {
	out := make([]*VNode, len(items))
	for i := range items {
		out[i] = fn(items[i], i)
	}
	return out
}
