// Package typedarray implements typed-array views over resizable byte buffers.
//
// A [View] never caches its length. Every element access and every bulk
// operation derives the view's effective length from the backing
// [ResizableBuffer] at the moment of the access, through [Evaluate]. Argument
// coercion ([Coercer], [ToIndex]) can run user code that resizes the
// buffer, so the operations in this package re-evaluate bounds after each
// coercion step and before any write.
package typedarray
