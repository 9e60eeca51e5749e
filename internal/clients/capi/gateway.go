/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

// Package capi contains the cluster lifecycle gateway: a read-only view of
// the Cluster API cluster resource, built on the generic remote client.
package capi

import (
	"context"
	"log/slog"

	"github.com/nephio-project/o2ims-operator/internal/clients/remote"
)

const (
	clusterGroup   = "cluster.x-k8s.io"
	clusterVersion = "v1beta1"
	clustersPlural = "clusters"
)

// ProvisionedPhase is the cluster phase that marks bring-up as complete.
const ProvisionedPhase = "Provisioned"

// cluster is the subset of the Cluster API cluster the reconciler interprets.
type cluster struct {
	Status struct {
		Phase      string `json:"phase"`
		Conditions []struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"conditions"`
	} `json:"status"`
}

// Gateway reads cluster lifecycle state. Don't create instances of this type
// directly, use the NewGateway function instead.
type Gateway struct {
	logger *slog.Logger
	client *remote.Client
}

// NewGateway creates a cluster lifecycle gateway backed by the given remote
// client.
func NewGateway(logger *slog.Logger, client *remote.Client) *Gateway {
	return &Gateway{
		logger: logger,
		client: client,
	}
}

// GetClusterPhase returns the phase of the named cluster. The phase is only
// valid when the outcome is OK. For Unknown outcomes the first condition
// message, when present, replaces the raw body as the outcome reason to give
// the operator something readable.
func (g *Gateway) GetClusterPhase(ctx context.Context, name, namespace string) (string, remote.Outcome) {
	path := remote.ResourcePath(clusterGroup, clusterVersion, namespace, clustersPlural, name)
	outcome := g.client.Get(ctx, path)
	switch outcome.Kind {
	case remote.OK:
		result := &cluster{}
		if err := outcome.Decode(result); err != nil {
			g.logger.DebugContext(
				ctx,
				"Failed to decode cluster",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
			return "", remote.Outcome{
				Kind:   remote.Unknown,
				Reason: err.Error(),
			}
		}
		return result.Status.Phase, outcome
	case remote.Unknown:
		result := &cluster{}
		if err := outcome.Decode(result); err == nil && len(result.Status.Conditions) > 0 {
			outcome.Reason = result.Status.Conditions[0].Message
		}
		return "", outcome
	default:
		return "", outcome
	}
}
