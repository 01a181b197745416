// Package errors provides coded, structured errors for the retained runtime.
//
// Every error carries a registry code that maps to a category, a short
// message and a longer explanation:
//
//   - R0xx: reconciler and loop errors
//   - P0xx: wire protocol errors
//   - C0xx: configuration errors
//   - L0xx: live session errors
//
// # Usage
//
//	err := errors.New("C002").
//	    WithDetail("port 70000 is out of range").
//	    WithSuggestion("Use a port between 1 and 65535")
//
//	fmt.Println(err.Format())
package errors
