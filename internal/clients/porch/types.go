/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package porch

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// API groups of the porch resources reached through the remote client.
const (
	PackageVariantGroup    = "config.porch.kpt.dev"
	PackageRevisionGroup   = "porch.kpt.dev"
	PorchVersion           = "v1alpha1"
	packageVariantsPlural  = "packagevariants"
	packageRevisionsPlural = "packagerevisions"
)

// DownstreamRepository is the management repository that rendered packages are
// written to.
const DownstreamRepository = "mgmt"

// SetLabelsImage is the kpt function used for label mutators derived from the
// template parameters.
const SetLabelsImage = "gcr.io/kpt-fn/set-labels:v0.2.0"

// ApprovalPolicyAnnotation marks created package variants for initial
// approval by the specializer.
const ApprovalPolicyAnnotation = "approval.nephio.org/policy"

// OwnerLabel marks resources created on behalf of a provisioning request.
var OwnerLabel = map[string]string{
	"owner": "o2ims.provisioning.oran.org.provisioningrequests",
}

// PackageVariant is the rendering job that instantiates a template package
// against a target cluster. Only the fields the reconciler interprets are
// modelled; the rest of the porch schema passes through untouched.
type PackageVariant struct {
	APIVersion string               `json:"apiVersion,omitempty"`
	Kind       string               `json:"kind,omitempty"`
	Metadata   metav1.ObjectMeta    `json:"metadata,omitempty"`
	Spec       PackageVariantSpec   `json:"spec,omitempty"`
	Status     PackageVariantStatus `json:"status,omitempty"`
}

// PackageVariantSpec defines the desired rendering.
type PackageVariantSpec struct {
	Upstream   PackageLocation `json:"upstream"`
	Downstream PackageLocation `json:"downstream"`
	Pipeline   *Pipeline       `json:"pipeline,omitempty"`
}

// PackageLocation identifies a package within a repository. Revision is the
// upstream key carrying the template version; porch also accepts
// workspaceName but revision is the one the catalog repositories use.
type PackageLocation struct {
	Repo     string `json:"repo"`
	Package  string `json:"package"`
	Revision string `json:"revision,omitempty"`
}

// Pipeline carries the mutators applied during rendering.
type Pipeline struct {
	Mutators []Mutator `json:"mutators,omitempty"`
}

// Mutator is one kpt function invocation.
type Mutator struct {
	Image     string            `json:"image"`
	ConfigMap map[string]string `json:"configMap,omitempty"`
}

// PackageVariantStatus holds the rendering conditions. The last element of
// the list is the authoritative one.
type PackageVariantStatus struct {
	Conditions []Condition `json:"conditions,omitempty"`
}

// Condition mirrors the porch condition shape. Status is the string "True" or
// "False", not a boolean.
type Condition struct {
	Type    string `json:"type,omitempty"`
	Status  string `json:"status,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// PackageRevisionSummary is the projection of one package revision that the
// reconciler consumes.
type PackageRevisionSummary struct {
	Name      string `json:"name"`
	Lifecycle string `json:"lifecycle"`
}

// packageRevisionList is the wire shape of the package revisions collection.
type packageRevisionList struct {
	Items []struct {
		Metadata metav1.ObjectMeta `json:"metadata"`
		Spec     struct {
			PackageName string `json:"packageName"`
			Lifecycle   string `json:"lifecycle"`
		} `json:"spec"`
	} `json:"items"`
}
