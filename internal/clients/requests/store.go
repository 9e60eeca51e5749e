/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

// Package requests contains the provisioning request store: the authoritative
// read of a provisioning request's status through the remote client. Status
// writes go through the controller-runtime client instead; this package only
// covers the reads the reconciler needs before its first write.
package requests

import (
	"context"
	"log/slog"

	provisioningv1alpha1 "github.com/nephio-project/o2ims-operator/api/provisioning/v1alpha1"
	"github.com/nephio-project/o2ims-operator/internal/clients/porch"
	"github.com/nephio-project/o2ims-operator/internal/clients/remote"
)

const (
	provisioningGroup   = "o2ims.provisioning.oran.org"
	provisioningVersion = "v1alpha1"
	requestsPlural      = "provisioningrequests"
)

// ReceivedMessage is the synthesized message for a request that exists but
// has not been written to yet.
const ReceivedMessage = "Cluster provisioning request received"

// Status is the result of one status read.
type Status struct {
	// ProvisioningStatus is the current status. When the resource exists but
	// carries no status yet, a progressing "request received" status is
	// synthesized to cover the window before the first reconciliation write.
	ProvisioningStatus provisioningv1alpha1.ProvisioningStatus

	ProvisionedResourceSet *provisioningv1alpha1.ProvisionedResourceSet

	// PackageVariantExists is only meaningful on a NotFound outcome: it says
	// whether a package variant of the same name already exists, which the
	// reconciler uses to detect out-of-band provisioning.
	PackageVariantExists bool
}

// Store reads provisioning requests. Don't create instances of this type
// directly, use the NewStore function instead.
type Store struct {
	logger           *slog.Logger
	client           *remote.Client
	packages         *porch.Gateway
	packageNamespace string
}

// NewStore creates a provisioning request store backed by the given remote
// client. The porch gateway is consulted on NotFound to detect pre-existing
// package variants.
func NewStore(logger *slog.Logger, client *remote.Client, packages *porch.Gateway, packageNamespace string) *Store {
	return &Store{
		logger:           logger,
		client:           client,
		packages:         packages,
		packageNamespace: packageNamespace,
	}
}

// wire shape of the provisioning request read through the raw API.
type provisioningRequest struct {
	Status *provisioningv1alpha1.ProvisioningRequestStatus `json:"status,omitempty"`
}

// ReadStatus returns the current provisioning status of the named request.
// The status is only valid when the outcome is OK. On NotFound the result
// additionally reports whether the package variant of the same name exists.
func (s *Store) ReadStatus(ctx context.Context, name string) (*Status, remote.Outcome) {
	path := remote.ResourcePath(provisioningGroup, provisioningVersion, "", requestsPlural, name)
	outcome := s.client.Get(ctx, path)
	switch outcome.Kind {
	case remote.OK:
		request := &provisioningRequest{}
		if err := outcome.Decode(request); err != nil {
			return nil, remote.Outcome{
				Kind:   remote.Unknown,
				Reason: err.Error(),
			}
		}
		result := &Status{}
		if request.Status == nil || request.Status.ProvisioningStatus.ProvisioningState == "" {
			result.ProvisioningStatus = provisioningv1alpha1.ProvisioningStatus{
				ProvisioningState:   provisioningv1alpha1.StateProgressing,
				ProvisioningMessage: ReceivedMessage,
			}
		} else {
			result.ProvisioningStatus = request.Status.ProvisioningStatus
			result.ProvisionedResourceSet = request.Status.ProvisionedResourceSet
		}
		return result, outcome
	case remote.NotFound:
		// The request may have been provisioned out-of-band: report whether
		// its package variant already exists so the reconciler can refuse to
		// provision twice.
		_, packageOutcome := s.packages.GetPackageVariant(ctx, name, s.packageNamespace)
		result := &Status{
			PackageVariantExists: packageOutcome.OK(),
		}
		return result, outcome
	default:
		return nil, outcome
	}
}
