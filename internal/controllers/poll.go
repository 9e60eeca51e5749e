/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package controllers

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// pollPolicy says how a poll loop treats probe errors. The two loops of the
// state machine deliberately differ: rendering aborts on the first gateway
// error, cluster creation keeps polling through them until its deadline.
type pollPolicy int

const (
	// failFastOnError aborts the loop as soon as the probe reports an error.
	failFastOnError pollPolicy = iota

	// tolerateErrors treats probe errors as "not done yet" and keeps polling.
	tolerateErrors
)

// pollUntilDone runs the probe once per interval, starting immediately, until
// it reports done, the budget elapses, the surrounding context is cancelled,
// or (under failFastOnError) the probe reports an error.
//
// The returned error is nil when the probe completed, the probe's error when
// it aborted, and a context deadline/cancellation error otherwise. Callers
// use pollTimedOut to tell a spent budget from an external cancellation.
func pollUntilDone(ctx context.Context, interval, budget time.Duration, policy pollPolicy, probe func(context.Context) (bool, error)) error {
	// nolint: wrapcheck
	return wait.PollUntilContextTimeout(ctx, interval, budget, true,
		func(ctx context.Context) (bool, error) {
			done, err := probe(ctx)
			if err != nil {
				if policy == failFastOnError {
					return false, err
				}
				return false, nil
			}
			return done, nil
		})
}

// pollTimedOut reports whether the poll loop stopped because its own budget
// elapsed rather than because the surrounding reconciliation was cancelled.
func pollTimedOut(ctx context.Context, err error) bool {
	return wait.Interrupted(err) && ctx.Err() == nil
}
