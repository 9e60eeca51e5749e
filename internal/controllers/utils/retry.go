/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package utils

import (
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/util/net"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"
)

// isConflictOrRetriable matches the API server failures that a status write
// can safely be retried through: optimistic-concurrency conflicts and
// transient server errors.
func isConflictOrRetriable(err error) bool {
	return errors.IsConflict(err) || errors.IsInternalError(err) || errors.IsServiceUnavailable(err) || net.IsConnectionRefused(err)
}

func RetryOnConflictOrRetriable(backoff wait.Backoff, fn func() error) error {
	// nolint: wrapcheck
	return retry.OnError(backoff, isConflictOrRetriable, fn)
}
