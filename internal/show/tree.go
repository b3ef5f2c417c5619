package show

import (
	"time"

	"github.com/QuesmaOrg/worklog/internal/worklog"
)

// Tree represents the hierarchical tree of nodes
type Tree struct {
	Roots        []Node // One node per reported day
	TotalDays    int
	TotalBlocks  int
	TotalMinutes float64
	TotalPrompts int
}

// BuildTree builds a day → block → prompt tree from a report.
// grouped supplies the prompt instants; it may be nil, in which case
// blocks have no children.
func BuildTree(rep *worklog.Report, grouped []worklog.DayEvents) *Tree {
	prompts := make(map[string][]time.Time, len(grouped))
	for _, de := range grouped {
		prompts[de.Date] = de.Prompts
	}

	tree := &Tree{
		TotalDays:    len(rep.Days),
		TotalMinutes: rep.TotalMinutes,
		TotalPrompts: rep.TotalPrompts,
	}

	for _, day := range rep.Days {
		dayNode := NewDayNode(day, 0)
		for i, block := range day.Blocks {
			blockNode := buildBlockNode(i+1, block, day.MaxBlockMinutes, prompts[day.Date], 1)
			dayNode.children = append(dayNode.children, blockNode)
			tree.TotalBlocks++
		}
		tree.Roots = append(tree.Roots, dayNode)
	}

	return tree
}

// buildBlockNode creates a block node with the day's prompts that fall inside it
func buildBlockNode(index int, block worklog.Block, dayMax float64, dayPrompts []time.Time, depth int) *BlockNode {
	blockNode := NewBlockNode(index, block, dayMax, depth)
	span := worklog.Span{Start: block.Start, End: block.End}

	var prev time.Time
	for _, p := range dayPrompts {
		if !span.Contains(p) {
			continue
		}
		var gap time.Duration
		if !prev.IsZero() {
			gap = p.Sub(prev)
		}
		blockNode.PromptTimes = append(blockNode.PromptTimes, p)
		blockNode.children = append(blockNode.children, NewPromptNode(p, gap, depth+1))
		prev = p
	}

	return blockNode
}

// FlattenVisible returns all currently visible nodes in display order
func (t *Tree) FlattenVisible() []Node {
	var result []Node
	for _, root := range t.Roots {
		result = flattenNode(root, result)
	}
	return result
}

func flattenNode(n Node, result []Node) []Node {
	result = append(result, n)

	if n.IsExpandable() && n.IsExpanded() {
		for _, child := range n.Children() {
			result = flattenNode(child, result)
		}
	}

	return result
}

// ToggleExpand toggles the expansion state of the node at the given index
func (t *Tree) ToggleExpand(visible []Node, index int) {
	if index < 0 || index >= len(visible) {
		return
	}
	n := visible[index]
	if n.IsExpandable() {
		n.SetExpanded(!n.IsExpanded())
	}
}

// Expand expands the node at the given index
func (t *Tree) Expand(visible []Node, index int) {
	if index < 0 || index >= len(visible) {
		return
	}
	n := visible[index]
	if n.IsExpandable() && !n.IsExpanded() {
		n.SetExpanded(true)
	}
}

// Collapse collapses the node at the given index
func (t *Tree) Collapse(visible []Node, index int) {
	if index < 0 || index >= len(visible) {
		return
	}
	n := visible[index]
	if n.IsExpandable() && n.IsExpanded() {
		n.SetExpanded(false)
	}
}

// ExpandAll expands all expandable nodes
func (t *Tree) ExpandAll() {
	for _, root := range t.Roots {
		expandAllRecursive(root)
	}
}

func expandAllRecursive(n Node) {
	if n.IsExpandable() {
		n.SetExpanded(true)
		for _, child := range n.Children() {
			expandAllRecursive(child)
		}
	}
}

// CollapseAll collapses every block, keeping days expanded
func (t *Tree) CollapseAll() {
	for _, root := range t.Roots {
		collapseAllRecursive(root)
	}
}

func collapseAllRecursive(n Node) {
	switch n.Type() {
	case NodeTypeDay:
		n.SetExpanded(true)
		for _, child := range n.Children() {
			collapseAllRecursive(child)
		}
	default:
		n.SetExpanded(false)
	}
}
