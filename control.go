package planar

// Control is a per-node behavior, updated once per tick during the
// scene's update pass.
type Control interface {
	// SetNode is called when the control is attached to a node, and
	// with nil when detached or when the node is disposed.
	SetNode(n *Node)
	// Update runs once per tick with the tick duration in seconds.
	Update(dt float64)
}

// BodyControl binds a scene node to a physics body.
//
// In the default mode the body drives the node: position and rotation
// from the last completed step are copied into the node every tick.
// With Kinematic set the node drives the body: the node's position and
// rotation are queued as a transform request that the space applies
// right before its next step.
//
// The binding copies between the body's world coordinates and the
// node's local fields, so bound nodes should live under ancestors with
// identity transforms.
type BodyControl struct {
	body      *Body
	node      *Node
	Kinematic bool
}

// NewBodyControl creates a control for the given body. Attach it with
// Node.AddControl. Panics if b is nil.
func NewBodyControl(b *Body) *BodyControl {
	if b == nil {
		panic("planar: nil body")
	}
	return &BodyControl{body: b}
}

// Body returns the bound body.
func (c *BodyControl) Body() *Body { return c.body }

// Node returns the node the control is attached to, or nil.
func (c *BodyControl) Node() *Node { return c.node }

// SetNode implements Control. Attaching binds the node to the body so
// OnReady can fire; detaching clears the binding.
func (c *BodyControl) SetNode(n *Node) {
	if n == nil {
		if c.node != nil && c.body.node == c.node {
			c.body.unbindNode()
		}
		c.node = nil
		return
	}
	c.node = n
	c.body.bindNode(n)
}

// Update implements Control.
func (c *BodyControl) Update(dt float64) {
	if c.node == nil {
		return
	}
	if c.Kinematic {
		c.body.QueueTransform(c.node.X, c.node.Y, c.node.Rotation)
		return
	}
	x, y := c.body.Position()
	c.node.X = x
	c.node.Y = y
	c.node.Rotation = c.body.Angle()
	c.node.MarkDirty()
}
