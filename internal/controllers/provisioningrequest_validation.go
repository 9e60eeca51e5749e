/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package controllers

import (
	"encoding/json"

	provisioningv1alpha1 "github.com/nephio-project/o2ims-operator/api/provisioning/v1alpha1"
	"github.com/nephio-project/o2ims-operator/internal/controllers/utils"
)

// validateTemplateParameters checks the template parameters of a provisioning
// request and extracts the target cluster name. Every failure is an
// InputError: the request itself is wrong and retrying cannot help.
func validateTemplateParameters(object *provisioningv1alpha1.ProvisioningRequest) (clusterName string, parameters map[string]any, err error) {
	raw := object.Spec.TemplateParameters.Raw
	if len(raw) == 0 {
		return "", nil, utils.NewInputError("clusterName is missing in template parameters")
	}
	if err := json.Unmarshal(raw, &parameters); err != nil {
		return "", nil, utils.NewInputError("templateParameters is not an object: %v", err)
	}
	value, ok := parameters["clusterName"]
	if !ok {
		return "", nil, utils.NewInputError("clusterName is missing in template parameters")
	}
	clusterName, ok = value.(string)
	if !ok || clusterName == "" {
		return "", nil, utils.NewInputError("clusterName in template parameters must be a non-empty string")
	}
	// The cluster name is consumed by the downstream package, not rendered as
	// a template parameter.
	delete(parameters, "clusterName")
	return clusterName, parameters, nil
}
