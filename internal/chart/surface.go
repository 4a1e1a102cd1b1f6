package chart

// Surface is a drawable target with a logical (display) size and a
// backing resolution that may be denser. Renderers key per-surface
// state by the Surface value, so implementations are pointer types.
type Surface interface {
	// Size is the current backing size.
	Size() Size
	// Resize sets the backing resolution and the displayed logical size.
	Resize(backing, display Size)
	// PixelRatio is backing pixels per logical unit the device prefers.
	PixelRatio() float64
	// Paint executes a frame.
	Paint(Frame) error
}
