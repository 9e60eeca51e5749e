/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package controllers

import (
	"context"

	"github.com/nephio-project/o2ims-operator/internal/clients/porch"
	"github.com/nephio-project/o2ims-operator/internal/clients/remote"
	"github.com/nephio-project/o2ims-operator/internal/clients/requests"
)

// PackageGateway is the package rendering surface the reconciler drives. It
// is implemented by the porch gateway; tests substitute their own.
type PackageGateway interface {
	GetPackageVariant(ctx context.Context, name, namespace string) (*porch.PackageVariant, remote.Outcome)
	EnsurePackageVariant(ctx context.Context, request *porch.RenderRequest) remote.Outcome
	DeletePackageVariant(ctx context.Context, name, namespace string) remote.Outcome
	ListPackageRevisions(ctx context.Context, nameFilter, namespace string) ([]porch.PackageRevisionSummary, remote.Outcome)
	DeletePackageRevision(ctx context.Context, name, namespace string) remote.Outcome
}

// ClusterGateway is the cluster lifecycle surface the reconciler polls.
type ClusterGateway interface {
	GetClusterPhase(ctx context.Context, name, namespace string) (string, remote.Outcome)
}

// StatusReader is the authoritative read of a provisioning request's status,
// including the package-variant existence check on NotFound.
type StatusReader interface {
	ReadStatus(ctx context.Context, name string) (*requests.Status, remote.Outcome)
}
