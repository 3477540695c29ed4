// SPDX-License-Identifier: ISC

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
package fault
