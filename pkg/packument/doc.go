// Package packument defines the typed shape of npm packuments: the
// per-package JSON metadata documents served by GET and submitted by PUT.
//
// All top-level fields are optional pointers or zero-value-safe so that the
// same type can represent both a full document served to a client and a
// partial document submitted as part of a publish diff.
package packument
