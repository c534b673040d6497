// Package rengine is a minimal runtime the generated classes are built
// and run against.
package rengine

// SignalHandler is notified when a signal it is connected to is emitted.
type SignalHandler interface{ Handle() }

// HandlerFunc adapts a function to SignalHandler.
type HandlerFunc func()

// Handle calls f.
func (f HandlerFunc) Handle() { f() }

type connection struct {
	target  any
	handler SignalHandler
}

// Signal is a zero-argument notification. Handlers are connected for one
// target and run when the signal is emitted by that target.
type Signal struct{ connections []connection }

// Connect runs h whenever target emits s.
func (s *Signal) Connect(target any, h SignalHandler) {
	s.connections = append(s.connections, connection{target: target, handler: h})
}

// Emit runs the handlers connected for owner, in connection order.
func (s *Signal) Emit(owner any) {
	for _, c := range s.connections {
		if c.target == owner {
			c.handler.Handle()
		}
	}
}

// TypedSignal is a signal carrying a payload of type T.
type TypedSignal[T any] struct{ Signal }

// ResourceManager loads resources by key.
type ResourceManager interface {
	Load(key string) error
}

// Acquire loads key through m and returns the resource.
func Acquire[T any](m ResourceManager, key string) (*T, error) {
	if err := m.Load(key); err != nil {
		return nil, err
	}
	return new(T), nil
}

// Image is an image resource.
type Image struct{}

// RectangleNode is a scene-graph node with a size.
type RectangleNode struct {
	width, height               float64
	widthChanged, heightChanged Signal
	children                    []any
}

// NewRectangleNode returns an empty node.
func NewRectangleNode() *RectangleNode { return &RectangleNode{} }

func (n *RectangleNode) Width() float64  { return n.width }
func (n *RectangleNode) Height() float64 { return n.height }

func (n *RectangleNode) SetWidth(v float64) {
	if n.width == v {
		return
	}
	n.width = v
	n.widthChanged.Emit(n)
}

func (n *RectangleNode) SetHeight(v float64) {
	if n.height == v {
		return
	}
	n.height = v
	n.heightChanged.Emit(n)
}

func (n *RectangleNode) OnWidthChanged() *Signal  { return &n.widthChanged }
func (n *RectangleNode) OnHeightChanged() *Signal { return &n.heightChanged }

// Append adds child under n.
func (n *RectangleNode) Append(child any) { n.children = append(n.children, child) }

// Children returns the appended children in order.
func (n *RectangleNode) Children() []any { return n.children }
