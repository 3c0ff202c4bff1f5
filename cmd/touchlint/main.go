// Touchlint checks React Native JSX for touchable components that are
// not exposed to assistive technology.
//
// Usage:
//
//	# Lint the current module
//	touchlint lint ./...
//
//	# Lint with a custom configuration file
//	touchlint lint --config touchlint.yaml src/...
//
//	# Re-lint on every change and serve the latest report
//	touchlint watch src/...
//
//	# Browse recorded runs
//	touchlint history list --limit 20
//
//	# List the available rules
//	touchlint rules
package main

func main() {
	Execute()
}
