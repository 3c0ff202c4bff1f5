// Package rules implements the touchable accessibility rules.
//
// Two rules are provided:
//
// accessible-touchable: every element whose tag starts with `Touchable`
// must declare accessibilityLabel, directly or through a spread of an
// inline object literal.
//
// tsx-a11y-touchables: every element whose tag starts with `touchable` in
// any case must declare `accessible={...}`; unless that expression is
// `false`, it must also declare accessibilityLabel and accessibilityRole.
//
// # Basic Usage
//
//	file, err := parser.NewParser().Parse("App.tsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, v := range rules.ApplyAll(rules.DefaultRegistry().All(), file) {
//	    fmt.Println(v)
//	}
//
// Rules are stateless and may be applied to different files concurrently.
package rules
