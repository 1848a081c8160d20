// Package member models the shapes the oracle matches against.
//
// A Member is an explicit descriptor of an event or method: declaring
// type, static/instance scope, input parameters, by-ref outputs, and
// return type. Descriptors are built once at registration time; the
// calling-convention resolver operates purely over descriptors and the
// reflected type of the checker callable, never over live runtime
// introspection of the system under test.
//
// ARCHITECTURE:
//
// Adapter classification:
// A target instance is required by a member only when it is
// instance-scoped and its declaring type is not an adapter. A type is
// an adapter when it implements the AdapterMarker interface (directly
// or through embedding) or was registered explicitly. Classification is
// memoized in a process-wide cache guarded by a single lock; the cache
// lifecycle is tied to test-run setup and teardown via ResetAdapterCache.
//
// Calling conventions:
// Resolve is a pure function of (member shape, checker shape). The four
// valid conventions form a closed union; Invoke dispatches on the
// resolved variant with a uniform (target, args) capability, so no
// shape decisions remain on the matching hot path.
package member
