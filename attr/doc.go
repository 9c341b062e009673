// Package attr implements validated attributes: typed fields with optional
// numeric bounds and one-time-write semantics.
//
// A Rule is a stateless type predicate plus inclusive bounds and can be
// shared freely. A Field is owned by a single instance and carries the
// value together with its "assigned" flag, so immutability is tracked per
// instance without any side table.
//
// Assignment order:
//   - an immutable field that already holds a value rejects the write with
//     IMMUTABLE_FIELD, whatever the new value is;
//   - a value failing the type predicate is rejected with TYPE_MISMATCH;
//   - a numeric value outside [min, max] is rejected with OUT_OF_RANGE.
//
// Every Get and Set emits a TRACE entry through the field logger.
package attr
