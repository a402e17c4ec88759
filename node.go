package planar

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// nodeIDCounter is a plain counter (no atomic — nodes are created on the
// game goroutine).
var nodeIDCounter uint64

func nextNodeID() uint64 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is
// used for all node types to avoid interface dispatch on the hot path;
// Type selects which fields the renderer reads.
type Node struct {
	// Identity
	ID   uint64
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64

	// Computed (unexported, updated during the scene's transform pass)
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Visibility
	Alpha      float64
	Visible    bool
	Renderable bool

	// Ordering
	ZIndex      int
	RenderLayer uint8
	GlobalOrder int

	// Metadata
	UserData any

	// Sprite fields (NodeTypeSprite). The quad is Width x Height world
	// units; a nil image renders solid Color.
	Width, Height float64
	BlendMode     BlendMode
	Color         Color
	image         *ebiten.Image

	// Mesh fields (NodeTypeMesh)
	Vertices         []ebiten.Vertex
	Indices          []uint16
	MeshImage        *ebiten.Image
	transformedVerts []ebiten.Vertex // preallocated transform buffer
	meshAABB         Rect            // cached local-space AABB
	meshAABBDirty    bool

	// Behavior hooks, run during the scene's update pass.
	OnUpdate func(dt float64)
	controls []Control

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node // reused buffer for ZIndex-sorted traversal order
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = Color{1, 1, 1, 1}
	n.Visible = true
	n.Renderable = true
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node rendering a Width x Height quad.
// The quad is solid Color until SetImage is called.
// Panics if either dimension is not positive.
func NewSprite(name string, width, height float64) *Node {
	if width <= 0 || height <= 0 {
		panic("planar: sprite dimensions must be positive")
	}
	n := &Node{Name: name, Type: NodeTypeSprite, Width: width, Height: height}
	nodeDefaults(n)
	return n
}

// NewMesh creates a mesh node that uses DrawTriangles for rendering.
// Vertices are in local space; img may be nil for untextured geometry.
func NewMesh(name string, img *ebiten.Image, vertices []ebiten.Vertex, indices []uint16) *Node {
	n := &Node{
		Name:          name,
		Type:          NodeTypeMesh,
		MeshImage:     img,
		Vertices:      vertices,
		Indices:       indices,
		meshAABBDirty: true,
	}
	nodeDefaults(n)
	return n
}

// SetImage sets the sprite's source image, stretched to Width x Height
// at draw time. Nil reverts to a solid Color quad.
func (n *Node) SetImage(img *ebiten.Image) {
	n.image = img
}

// Image returns the sprite's source image, or nil if not set.
func (n *Node) Image() *ebiten.Image {
	return n.image
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("planar: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("planar: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("planar: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("planar: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("planar: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.Parent != n {
		panic("planar: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("planar: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	n.children = n.children[:0]
	n.childrenSorted = true
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// SetChildIndex moves child to the given index among this node's
// children. Panics if child is not a child of this node or index is out
// of range.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child == nil || child.Parent != n {
		panic("planar: child's parent is not this node")
	}
	if index < 0 || index >= len(n.children) {
		panic("planar: child index out of range")
	}
	cur := -1
	for i, c := range n.children {
		if c == child {
			cur = i
			break
		}
	}
	if cur == index {
		return
	}
	copy(n.children[cur:], n.children[cur+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childrenSorted = false
}

// sortedChildrenList returns the children ordered by ZIndex, rebuilt
// lazily. Stable for equal ZIndex values.
func (n *Node) sortedChildrenList() []*Node {
	if n.childrenSorted && len(n.sortedChildren) == len(n.children) {
		return n.sortedChildren
	}
	n.sortedChildren = n.sortedChildren[:0]
	n.sortedChildren = append(n.sortedChildren, n.children...)
	// Insertion sort: sibling lists are small and usually nearly sorted.
	for i := 1; i < len(n.sortedChildren); i++ {
		c := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > c.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = c
	}
	n.childrenSorted = true
	return n.sortedChildren
}

// --- Behavior attachment ---

// AddControl attaches a behavior to this node and notifies it via
// SetNode. Panics if c is nil.
func (n *Node) AddControl(c Control) {
	if c == nil {
		panic("planar: cannot add nil control")
	}
	n.controls = append(n.controls, c)
	c.SetNode(n)
}

// RemoveControl detaches a behavior, notifying it with SetNode(nil).
// Returns false if the control is not attached to this node.
func (n *Node) RemoveControl(c Control) bool {
	for i, cc := range n.controls {
		if cc == c {
			copy(n.controls[i:], n.controls[i+1:])
			n.controls[len(n.controls)-1] = nil
			n.controls = n.controls[:len(n.controls)-1]
			c.SetNode(nil)
			return true
		}
	}
	return false
}

// Controls returns the attached behaviors. The returned slice MUST NOT
// be mutated by the caller.
func (n *Node) Controls() []Control {
	return n.controls
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Attached controls are
// notified with SetNode(nil).
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, c := range n.controls {
		c.SetNode(nil)
	}
	n.controls = nil
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.image = nil
	n.MeshImage = nil
	n.transformedVerts = nil
	n.OnUpdate = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
