// Package lint provides the rule engine for ca65 source linting.
//
// # Architecture
//
// The root package holds the shared contracts: the Rule interface, the
// data-driven RuleDef, the global rule registry, Config and the Analyzer.
// Rule implementations live in pkg/lint/rules and its category subpackages.
//
// # Rule Registration
//
// Built-in rules register themselves from init() when their package is
// imported:
//
//	import _ "github.com/leapstack-labs/ca65lint/pkg/lint/rules"
//
// # Rule Categories
//
//   - AD (Addressing): Rules about how operands reference memory
//   - LB (Labels): Rules about label declarations and references
//
// # Using the Registry
//
//	rules := lint.AllRules()
//	rule, ok := lint.GetRuleByID("LB01")
//	labelRules := lint.GetRulesByGroup("labels")
//
// # Configuration
//
//	config := lint.NewConfig()
//	config.Disable("AD01")
//	config.SetSeverity("LB01", lint.SeverityError)
//	config.SetRuleOptions("LB01", map[string]any{"ignore": []string{"reset"}})
//
// # Creating Custom Rules
//
//	var MyRule = lint.RuleDef{
//		ID:          "MY01",
//		Name:        "custom.my_rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    lint.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
//
// Rules that are not registered globally, such as scripted rules, are passed
// to NewAnalyzer directly.
package lint
