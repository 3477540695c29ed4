// SPDX-License-Identifier: ISC

package fault_test

import (
	"testing"

	"github.com/cpniemand/layerkv/fault"
)

var (
	ErrInvalidOne  = fault.InvalidError("invalid one")
	ErrInvalidTwo  = fault.InvalidError("invalid two")
	ErrNotFoundOne = fault.NotFoundError("not found one")
	ErrNotFoundTwo = fault.NotFoundError("not found two")
	ErrProcessOne  = fault.ProcessError("process one")
	ErrProcessTwo  = fault.ProcessError("process two")
)

// test that the various error classes can be distinguished
func TestClassification(t *testing.T) {
	errorList := []struct {
		err      error
		invalid  bool
		notFound bool
		process  bool
	}{
		{ErrInvalidOne, true, false, false},
		{ErrInvalidTwo, true, false, false},
		{ErrNotFoundOne, false, true, false},
		{ErrNotFoundTwo, false, true, false},
		{ErrProcessOne, false, false, true},
		{ErrProcessTwo, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
	}
}
