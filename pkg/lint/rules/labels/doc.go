// Package labels provides lint rules for label declarations.
//
// Rules in this package:
//   - LB01: Label is declared but never referenced
package labels
