// Package ir provides the boxed-type model consumed by the LLVM prelude
// generator.
//
// This package contains type definitions, content hashing, and canonical
// encoding only. All other internal packages import ir; ir imports nothing
// internal. This keeps the model the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Tables and field lists preserve insertion order; output layout depends on it
//   - Signedness is a three-valued enumeration, never a nullable bool
//   - Nothing in this package mutates a table after it is built
package ir
