/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package utils

import (
	"context"
	"time"

	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"

	provisioningv1alpha1 "github.com/nephio-project/o2ims-operator/api/provisioning/v1alpha1"
)

// TimeFormat is the wire format of provisioningUpdateTime, always in UTC.
const TimeFormat = "2006-01-02T15:04:05Z"

// CurrentTimestamp returns the current time in the status wire format.
func CurrentTimestamp() string {
	return time.Now().UTC().Format(TimeFormat)
}

// SetProvisioningStateProgressing moves the request to the progressing state
// with the given message.
func SetProvisioningStateProgressing(cr *provisioningv1alpha1.ProvisioningRequest, message string) {
	setProvisioningStatus(cr, provisioningv1alpha1.StateProgressing, message)
}

// SetProvisioningStateFailed moves the request to the terminal failed state
// with the given message.
func SetProvisioningStateFailed(cr *provisioningv1alpha1.ProvisioningRequest, message string) {
	setProvisioningStatus(cr, provisioningv1alpha1.StateFailed, message)
}

// SetProvisioningStateFulfilled moves the request to the terminal fulfilled
// state and records the provisioned resources.
func SetProvisioningStateFulfilled(cr *provisioningv1alpha1.ProvisioningRequest, message string, resources *provisioningv1alpha1.ProvisionedResourceSet) {
	setProvisioningStatus(cr, provisioningv1alpha1.StateFulfilled, message)
	cr.Status.ProvisionedResourceSet = resources
}

func setProvisioningStatus(cr *provisioningv1alpha1.ProvisioningRequest, state provisioningv1alpha1.ProvisioningState, message string) {
	cr.Status.ProvisioningStatus = provisioningv1alpha1.ProvisioningStatus{
		ProvisioningState:      state,
		ProvisioningMessage:    message,
		ProvisioningUpdateTime: CurrentTimestamp(),
	}
}

// IsStateTerminal reports whether the request already reached fulfilled or
// failed. Terminal requests are not re-driven by the reconciler.
func IsStateTerminal(cr *provisioningv1alpha1.ProvisioningRequest) bool {
	state := cr.Status.ProvisioningStatus.ProvisioningState
	return state == provisioningv1alpha1.StateFulfilled || state == provisioningv1alpha1.StateFailed
}

// UpdateK8sCRStatus writes the status subresource, retrying through conflicts
// and transient server errors so concurrent writers are serialized by the
// resource version.
func UpdateK8sCRStatus(ctx context.Context, c client.Client, object client.Object) error {
	return RetryOnConflictOrRetriable(retry.DefaultRetry, func() error {
		return c.Status().Update(ctx, object) // nolint: wrapcheck
	})
}
