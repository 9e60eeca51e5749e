/*
Copyright 2023.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// ProvisioningState is the value of the provisioningState status field. The
// empty string is the transient "received" state before the first status write.
type ProvisioningState string

const (
	StateProgressing ProvisioningState = "progressing"
	StateFulfilled   ProvisioningState = "fulfilled"
	StateFailed      ProvisioningState = "failed"
)

// ProvisioningRequestSpec defines the desired state of ProvisioningRequest
type ProvisioningRequestSpec struct {
	// Name is the human readable name of the provisioning request.
	Name string `json:"name,omitempty"`

	// Description is the details about the provisioning request.
	Description string `json:"description,omitempty"`

	// ProvisioningRequestId is the identity of the request assigned by the SMO.
	ProvisioningRequestId string `json:"provisioningRequestId,omitempty"`

	// TemplateName is the name of the package in the upstream repository that
	// is rendered for this request.
	TemplateName string `json:"templateName"`

	// TemplateVersion is the branch, tag or commit of the upstream repository
	// used when rendering the template.
	TemplateVersion string `json:"templateVersion"`

	// TemplateParameters is the free-form set of parameters handed to the
	// template. It must contain a clusterName entry.
	// +kubebuilder:validation:Type=object
	// +kubebuilder:pruning:PreserveUnknownFields
	TemplateParameters runtime.RawExtension `json:"templateParameters"`
}

// ProvisioningStatus is the view of one provisioning attempt that the SMO
// observes. All three fields are rewritten together at every transition.
type ProvisioningStatus struct {
	// +kubebuilder:validation:Enum=progressing;fulfilled;failed
	ProvisioningState ProvisioningState `json:"provisioningState,omitempty"`

	ProvisioningMessage string `json:"provisioningMessage,omitempty"`

	// ProvisioningUpdateTime is the UTC time of the last transition, formatted
	// as 2006-01-02T15:04:05Z.
	ProvisioningUpdateTime string `json:"provisioningUpdateTime,omitempty"`
}

// ProvisionedResourceSet identifies the resources that were created for a
// fulfilled request.
type ProvisionedResourceSet struct {
	OCloudNodeClusterId string `json:"oCloudNodeClusterId,omitempty"`

	OCloudInfrastructureResourceIds []string `json:"oCloudInfrastructureResourceIds,omitempty"`
}

// ProvisioningRequestStatus defines the observed state of ProvisioningRequest
type ProvisioningRequestStatus struct {
	ProvisioningStatus ProvisioningStatus `json:"provisioningStatus,omitempty"`

	// ProvisionedResourceSet is only populated when the provisioning state is
	// fulfilled.
	ProvisionedResourceSet *ProvisionedResourceSet `json:"provisionedResourceSet,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:resource:scope=Cluster,shortName=oranpr

// ProvisioningRequest is the Schema for the provisioningrequests API
// +kubebuilder:printcolumn:name="State",type="string",JSONPath=".status.provisioningStatus.provisioningState"
// +kubebuilder:printcolumn:name="Message",type="string",JSONPath=".status.provisioningStatus.provisioningMessage"
type ProvisioningRequest struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ProvisioningRequestSpec   `json:"spec,omitempty"`
	Status ProvisioningRequestStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// ProvisioningRequestList contains a list of ProvisioningRequest
type ProvisioningRequestList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ProvisioningRequest `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ProvisioningRequest{}, &ProvisioningRequestList{})
}
