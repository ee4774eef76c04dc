// Package rules provides the built-in ca65 lint rules.
//
// Rules are organized by category:
//   - addressing: Rules about how operands reference memory (AD01)
//   - labels: Rules about label declarations and references (LB01)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/ca65lint/pkg/lint/rules"
package rules
