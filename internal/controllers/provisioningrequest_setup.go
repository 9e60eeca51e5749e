/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package controllers

import (
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	provisioningv1alpha1 "github.com/nephio-project/o2ims-operator/api/provisioning/v1alpha1"
)

// SetupWithManager sets up the controller with the Manager. Status updates do
// not change the generation, so the predicate keeps the controller's own
// status writes from triggering another reconciliation.
func (r *ProvisioningRequestReconciler) SetupWithManager(mgr ctrl.Manager) error {
	//nolint:wrapcheck
	return ctrl.NewControllerManagedBy(mgr).
		Named("o2ims-provisioning-request").
		For(
			&provisioningv1alpha1.ProvisioningRequest{},
			// Watch for create and update events for ProvisioningRequest.
			builder.WithPredicates(predicate.GenerationChangedPredicate{}),
		).
		Complete(r)
}
