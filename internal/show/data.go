package show

import (
	"fmt"
	"time"

	"github.com/QuesmaOrg/worklog/internal/display"
	"github.com/QuesmaOrg/worklog/internal/worklog"
)

// NodeType represents the type of node in the tree
type NodeType int

const (
	NodeTypeDay NodeType = iota
	NodeTypeBlock
	NodeTypePrompt
)

// Node represents a node in the tree hierarchy
type Node interface {
	Type() NodeType
	Label() string      // Short label for the tree view
	Depth() int         // Indentation level
	IsExpandable() bool // Can this node be expanded?
	IsExpanded() bool   // Is this node currently expanded?
	SetExpanded(bool)   // Set expansion state
	Children() []Node   // Child nodes (nil for leaves)
}

// BaseNode provides common fields for all node types
type BaseNode struct {
	depth    int
	expanded bool
	children []Node
}

func (b *BaseNode) Depth() int         { return b.depth }
func (b *BaseNode) IsExpanded() bool   { return b.expanded }
func (b *BaseNode) SetExpanded(e bool) { b.expanded = e }
func (b *BaseNode) Children() []Node   { return b.children }

// DayNode represents one calendar day of the report
type DayNode struct {
	BaseNode
	Day worklog.Day
}

func NewDayNode(day worklog.Day, depth int) *DayNode {
	return &DayNode{
		BaseNode: BaseNode{depth: depth, expanded: true},
		Day:      day,
	}
}

func (d *DayNode) Type() NodeType     { return NodeTypeDay }
func (d *DayNode) IsExpandable() bool { return len(d.children) > 0 }

func (d *DayNode) Label() string {
	return fmt.Sprintf("%s  %s", display.DayHeader(d.Day.Date), display.DurationLabel(d.Day.TotalMinutes))
}

// BlockNode represents a work block within a day
type BlockNode struct {
	BaseNode
	Index       int // 1-based position within the day
	Block       worklog.Block
	DayMaximum  float64 // longest block of the day, for the bar
	PromptTimes []time.Time
}

func NewBlockNode(index int, block worklog.Block, dayMax float64, depth int) *BlockNode {
	return &BlockNode{
		BaseNode:   BaseNode{depth: depth, expanded: false},
		Index:      index,
		Block:      block,
		DayMaximum: dayMax,
	}
}

func (b *BlockNode) Type() NodeType     { return NodeTypeBlock }
func (b *BlockNode) IsExpandable() bool { return len(b.children) > 0 }

func (b *BlockNode) Label() string {
	return fmt.Sprintf("#%d %s-%s %s",
		b.Index, display.Clock(b.Block.Start), display.Clock(b.Block.End), display.DurationLabel(b.Block.ActiveMinutes))
}

// PromptNode represents a genuine prompt inside a block
type PromptNode struct {
	BaseNode
	At  time.Time
	Gap time.Duration // since the previous prompt of the block; 0 for the first
}

func NewPromptNode(at time.Time, gap time.Duration, depth int) *PromptNode {
	return &PromptNode{
		BaseNode: BaseNode{depth: depth},
		At:       at,
		Gap:      gap,
	}
}

func (p *PromptNode) Type() NodeType     { return NodeTypePrompt }
func (p *PromptNode) IsExpandable() bool { return false }

func (p *PromptNode) Label() string {
	label := fmt.Sprintf("%s %s", display.PromptMark, p.At.Format("15:04:05"))
	if p.Gap > 0 {
		label += " +" + display.GapLabel(p.Gap.Seconds())
	}
	return label
}
