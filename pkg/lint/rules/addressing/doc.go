// Package addressing provides lint rules for operand addressing.
// Rules in this package:
//   - AD01: Memory referenced via a decimal address
package addressing
