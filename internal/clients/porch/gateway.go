/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

// Package porch contains the package rendering gateway: the domain specific
// operations on porch package variants and package revisions, built on the
// generic remote client. All failures are structured outcomes; the
// reconciler decides what is retryable.
package porch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nephio-project/o2ims-operator/internal/clients/remote"
)

// Gateway performs package rendering operations. Don't create instances of
// this type directly, use the NewGateway function instead.
type Gateway struct {
	logger     *slog.Logger
	client     *remote.Client
	repository string
}

// NewGateway creates a package rendering gateway backed by the given remote
// client. The repository is the upstream template repository identifier.
func NewGateway(logger *slog.Logger, client *remote.Client, repository string) *Gateway {
	return &Gateway{
		logger:     logger,
		client:     client,
		repository: repository,
	}
}

// RenderRequest carries the inputs needed to create a package variant for one
// provisioning request.
type RenderRequest struct {
	Name            string
	Namespace       string
	TemplateName    string
	TemplateVersion string
	ClusterName     string
	Mutators        []Mutator
}

// GetPackageVariant fetches one package variant. The returned value is only
// valid when the outcome is OK.
func (g *Gateway) GetPackageVariant(ctx context.Context, name, namespace string) (*PackageVariant, remote.Outcome) {
	path := remote.ResourcePath(PackageVariantGroup, PorchVersion, namespace, packageVariantsPlural, name)
	outcome := g.client.Get(ctx, path)
	if !outcome.OK() {
		return nil, outcome
	}
	variant := &PackageVariant{}
	if err := outcome.Decode(variant); err != nil {
		g.logger.ErrorContext(
			ctx,
			"Failed to decode package variant",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, remote.Outcome{
			Kind:   remote.Unknown,
			Reason: fmt.Sprintf("failed to decode package variant %s: %v", name, err),
		}
	}
	return variant, outcome
}

// EnsurePackageVariant creates the package variant for the given render
// request unless it already exists. The check runs first so that the call is
// idempotent: an existing variant is an OK outcome and no POST is issued.
func (g *Gateway) EnsurePackageVariant(ctx context.Context, request *RenderRequest) remote.Outcome {
	_, outcome := g.GetPackageVariant(ctx, request.Name, request.Namespace)
	if outcome.Kind != remote.NotFound {
		return outcome
	}

	g.logger.DebugContext(
		ctx,
		"Package variant does not exist, creating it",
		slog.String("name", request.Name),
		slog.String("namespace", request.Namespace),
	)
	body := g.packageVariantBody(request)
	path := remote.ResourcePath(PackageVariantGroup, PorchVersion, request.Namespace, packageVariantsPlural, "")
	return g.client.Post(ctx, path, body)
}

// packageVariantBody builds the package variant sent to porch: the template
// package as upstream, the management repository as downstream, and the
// mutators derived from the template parameters.
func (g *Gateway) packageVariantBody(request *RenderRequest) map[string]any {
	spec := PackageVariantSpec{
		Upstream: PackageLocation{
			Repo:     g.repository,
			Package:  request.TemplateName,
			Revision: request.TemplateVersion,
		},
		Downstream: PackageLocation{
			Repo:    DownstreamRepository,
			Package: request.ClusterName,
		},
	}
	if len(request.Mutators) > 0 {
		spec.Pipeline = &Pipeline{Mutators: request.Mutators}
	}
	return map[string]any{
		"apiVersion": PackageVariantGroup + "/" + PorchVersion,
		"kind":       "PackageVariant",
		"metadata": map[string]any{
			"name":   request.Name,
			"labels": OwnerLabel,
			"annotations": map[string]string{
				ApprovalPolicyAnnotation: "initial",
			},
		},
		"spec": spec,
	}
}

// DeletePackageVariant deletes one package variant.
func (g *Gateway) DeletePackageVariant(ctx context.Context, name, namespace string) remote.Outcome {
	path := remote.ResourcePath(PackageVariantGroup, PorchVersion, namespace, packageVariantsPlural, name)
	return g.client.Delete(ctx, path)
}

// ListPackageRevisions returns the name and lifecycle of every package
// revision whose package name contains the given filter. Order follows the
// server's return order and is not guaranteed stable.
func (g *Gateway) ListPackageRevisions(ctx context.Context, nameFilter, namespace string) ([]PackageRevisionSummary, remote.Outcome) {
	path := remote.ResourcePath(PackageRevisionGroup, PorchVersion, namespace, packageRevisionsPlural, "")
	outcome := g.client.Get(ctx, path)
	if !outcome.OK() {
		return nil, outcome
	}
	list := &packageRevisionList{}
	if err := outcome.Decode(list); err != nil {
		return nil, remote.Outcome{
			Kind:   remote.Unknown,
			Reason: fmt.Sprintf("failed to decode package revisions: %v", err),
		}
	}
	var revisions []PackageRevisionSummary
	for _, item := range list.Items {
		if strings.Contains(item.Spec.PackageName, nameFilter) {
			revisions = append(revisions, PackageRevisionSummary{
				Name:      item.Metadata.Name,
				Lifecycle: item.Spec.Lifecycle,
			})
		}
	}
	return revisions, outcome
}

// DeletePackageRevision deletes one package revision.
func (g *Gateway) DeletePackageRevision(ctx context.Context, name, namespace string) remote.Outcome {
	path := remote.ResourcePath(PackageRevisionGroup, PorchVersion, namespace, packageRevisionsPlural, name)
	return g.client.Delete(ctx, path)
}

// BuildMutators derives the mutator list from the template parameters. Every
// key containing "labels" contributes a set-labels function fed with the
// labels map.
func BuildMutators(parameters map[string]any) []Mutator {
	var keys []string
	for key := range parameters {
		if strings.Contains(key, "labels") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var mutators []Mutator
	for _, key := range keys {
		labels, ok := stringMap(parameters[key])
		if !ok {
			continue
		}
		mutators = append(mutators, Mutator{
			Image:     SetLabelsImage,
			ConfigMap: labels,
		})
	}
	return mutators
}

func stringMap(value any) (map[string]string, bool) {
	raw, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	result := make(map[string]string, len(raw))
	for key, element := range raw {
		text, ok := element.(string)
		if !ok {
			return nil, false
		}
		result[key] = text
	}
	return result, true
}
