// Package decl annotates dynamically shaped Go values with external
// declaration files that carry a richer type algebra than the host language:
// overloaded signatures, nullable types, unions, capability intersections,
// and generic containers. A wrapped function validates its arguments against
// the declared overload set before it runs and its return value after, and
// raises a diagnosable violation on any mismatch.
//
//	add(a: int, b: int) -> int
//	add(a: float, b: float) -> float
//	log(messages: list<str>, buffer: Readable & Writeable)
//	interface Readable { read, close }
//
// Declarations validate values, they never coerce them, and a function with
// no declaration is simply left unchecked. The checker is synchronous: each
// checked call runs precheck, invoke, and postcheck on the calling
// goroutine, sharing nothing across calls except the immutable declaration
// index built at load time.
package decl
