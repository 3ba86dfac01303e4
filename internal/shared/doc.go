// Package shared holds helpers used by more than one internal package.
//
// The testutil subpackage provides a capturing slog handler and builders for
// fundraising workbooks so loader, store and HTTP tests can share fixtures:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteWorkbook(t, testutil.StandardSheet())
//	    ...
//	}
package shared
