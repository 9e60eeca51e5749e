/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package utils

import (
	"errors"
	"fmt"
)

// InputError marks errors caused by the content of the provisioning request
// itself. They are terminal for the request: retrying cannot fix them.
type InputError struct {
	err error
}

func (i *InputError) Error() string {
	return i.err.Error()
}

func NewInputError(format string, args ...interface{}) *InputError {
	return &InputError{
		err: fmt.Errorf(format, args...),
	}
}

func IsInputError(err error) bool {
	var inputErr *InputError

	return errors.As(err, &inputErr)
}
