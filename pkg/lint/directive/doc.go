// Package directive implements suppression comments.
//
//	// touchlint:disable-next-line accessible-touchable
//	<TouchableOpacity />
//
//	<TouchableOpacity /> {/* touchlint:disable-line */}
//
//	/* touchlint:disable tsx-a11y-touchables */
//	...
//	/* touchlint:enable tsx-a11y-touchables */
//
// A directive without rule names applies to every rule. The `tslint:`
// prefix and its `disable:rule` form are accepted so existing sources keep
// working.
package directive
