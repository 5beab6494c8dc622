// Package shared holds helpers used across internal packages. Test helpers
// live in shared/testutil.
package shared
