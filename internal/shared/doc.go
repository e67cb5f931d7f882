// Package shared holds helpers used by more than one layer of the
// ghost-payroll service. Only test utilities live here today, under
// testutil: a capturing slog handler and small workforce CSV fixtures.
//
// Nothing in this package may import internal domain packages.
package shared
