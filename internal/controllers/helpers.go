/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package controllers

import (
	"time"

	ctrl "sigs.k8s.io/controller-runtime"
)

func doNotRequeue() ctrl.Result {
	return ctrl.Result{}
}

func requeueWithError(err error) (ctrl.Result, error) {
	// When a reconciliation fails with an internal error the controller
	// runtime requeues with its own rate limiting.
	return ctrl.Result{}, err
}

func requeueWithShortInterval() ctrl.Result {
	return ctrl.Result{RequeueAfter: 15 * time.Second}
}
