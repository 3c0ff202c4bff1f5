// Package query validates run history queries before they reach a storage
// backend and fills in defaults for interactive use.
//
//	q := &evidence.Query{Trigger: "watch"}
//	if err := query.Validate(q); err != nil {
//	    return err
//	}
//	query.ApplyDefaults(q) // Limit 100, newest first
package query
