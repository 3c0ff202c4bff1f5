// Package errors provides the error types returned while loading, parsing
// and linting source files.
//
// Lint findings are not errors; they are rules.Violation values. This
// package covers the conditions that stop a file or a run from being
// linted: unreadable files, malformed JSX in strict mode, unknown rule
// names and invalid configuration.
//
// # Error Types
//
// ErrorTypeSyntax: malformed JSX (strict parsing only)
//
// ErrorTypeIO: file I/O errors
//
// ErrorTypeConfig: invalid configuration values
//
// ErrorTypeRule: unknown or duplicate rule names
//
// # Basic Usage
//
//	err := &errors.Error{
//	    Type:     errors.ErrorTypeSyntax,
//	    Message:  "unterminated element <TouchableOpacity>",
//	    Location: loc,
//	}
//	err = errors.WithSourceContext(err, src, 2)
//	fmt.Println(err.Error())
//
// Accumulate several errors and return them as one:
//
//	errList := errors.NewErrorList()
//	errList.AddError(errors.ErrorTypeRule, "unknown rule \"foo\"", ast.Location{})
//	return errList.ToError()
//
// # Suggestions
//
// SuggestName uses Levenshtein distance to propose the closest valid name:
//
//	errors.SuggestName("acessible-touchable", registry.Names())
//	// Returns: "Did you mean 'accessible-touchable'?"
package errors
