// Package prelude generates the LLVM IR prelude declaring one struct type per
// boxed runtime type.
//
// Generation is a pure function of the table and Config: no I/O, no globals,
// no caches. Identical input always produces byte-identical output, so the
// artifact can be diffed and cached by content hash.
//
// # Output Format
//
//	;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;
//	;; This file is generated by typegen. Do not edit manually. ;;
//	;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;
//
//	; {supertype, unsigned length}
//	%string = type {%datum, i32}
//
// LLVM types carry no signedness, so it is recorded in the comment above each
// declaration. Inheritance is modeled by embedding the supertype as the first
// member.
package prelude
