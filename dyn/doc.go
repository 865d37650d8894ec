// Package dyn implements a dynamic value model with a structural deep clone
// engine. Values form a closed tagged universe covering the shapes of dynamic
// data:
//   - Primitives: undefined, null, bool, int, float, big integer, string, and
//     symbol (an immutable identity token, passed by reference).
//   - Containers: sparse arrays, property-table objects with accessor
//     properties and prototypes, insertion-ordered sets and maps.
//   - Stateful atoms: dates, regex patterns, byte buffers, typed numeric
//     views over buffers.
//   - Host escape hatches: named functions and opaque foreign values.
//
// Clone copies a value graph depth-first with identity tracking, so cycles
// terminate and shared references stay shared; no composite node of the clone
// aliases the input. Equal compares graphs structurally with the same cycle
// safety. JSON and YAML bridges convert the serializable subset of the model
// while preserving key order.
package dyn
