/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package porch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/ginkgo/v2/dsl/table"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
	"golang.org/x/oauth2"

	"github.com/nephio-project/o2ims-operator/internal/clients/remote"
	"github.com/nephio-project/o2ims-operator/internal/logging"
	. "github.com/nephio-project/o2ims-operator/internal/testing"
)

var _ = Describe("Gateway", func() {
	var (
		ctx     context.Context
		logger  *slog.Logger
		server  *ghttp.Server
		gateway *Gateway
	)

	BeforeEach(func() {
		var err error

		ctx = context.Background()

		logger, err = logging.NewLogger().
			SetWriter(GinkgoWriter).
			SetLevel("debug").
			Build()
		Expect(err).ToNot(HaveOccurred())

		server = MakeTCPServer()
		client, err := remote.NewClient().
			SetLogger(logger).
			SetBaseURL(server.URL()).
			SetTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: "my-token",
			})).
			Build()
		Expect(err).ToNot(HaveOccurred())
		gateway = NewGateway(logger, client, "catalog-infra-capi")
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Get package variant", func() {
		It("Decodes the conditions", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(
					http.MethodGet,
					"/apis/config.porch.kpt.dev/v1alpha1/namespaces/default/packagevariants/my-request",
				),
				RespondWithJSON(http.StatusOK, `{
					"metadata": {"name": "my-request"},
					"status": {
						"conditions": [
							{"type": "Stalled", "status": "False"},
							{"type": "Ready", "status": "True", "reason": "NoErrors"}
						]
					}
				}`),
			))
			variant, outcome := gateway.GetPackageVariant(ctx, "my-request", "default")
			Expect(outcome.OK()).To(BeTrue())
			Expect(variant.Metadata.Name).To(Equal("my-request"))
			Expect(variant.Status.Conditions).To(HaveLen(2))
			Expect(variant.Status.Conditions[1].Status).To(Equal("True"))
			Expect(variant.Status.Conditions[1].Reason).To(Equal("NoErrors"))
		})

		It("Passes a not found outcome through", func() {
			server.AppendHandlers(RespondWithJSON(http.StatusNotFound, `{}`))
			variant, outcome := gateway.GetPackageVariant(ctx, "my-request", "default")
			Expect(outcome.Kind).To(Equal(remote.NotFound))
			Expect(variant).To(BeNil())
		})
	})

	Describe("Ensure package variant", func() {
		It("Creates the variant when it doesn't exist", func() {
			server.AppendHandlers(
				RespondWithJSON(http.StatusNotFound, `{}`),
				ghttp.CombineHandlers(
					ghttp.VerifyRequest(
						http.MethodPost,
						"/apis/config.porch.kpt.dev/v1alpha1/namespaces/default/packagevariants",
					),
					ghttp.VerifyJSON(`{
						"apiVersion": "config.porch.kpt.dev/v1alpha1",
						"kind": "PackageVariant",
						"metadata": {
							"name": "my-request",
							"labels": {
								"owner": "o2ims.provisioning.oran.org.provisioningrequests"
							},
							"annotations": {
								"approval.nephio.org/policy": "initial"
							}
						},
						"spec": {
							"upstream": {
								"repo": "catalog-infra-capi",
								"package": "my-template",
								"revision": "v1"
							},
							"downstream": {
								"repo": "mgmt",
								"package": "my-cluster"
							}
						}
					}`),
					RespondWithJSON(http.StatusCreated, `{}`),
				),
			)
			outcome := gateway.EnsurePackageVariant(ctx, &RenderRequest{
				Name:            "my-request",
				Namespace:       "default",
				TemplateName:    "my-template",
				TemplateVersion: "v1",
				ClusterName:     "my-cluster",
			})
			Expect(outcome.OK()).To(BeTrue())
			Expect(server.ReceivedRequests()).To(HaveLen(2))
		})

		It("Doesn't create the variant when it already exists", func() {
			server.AppendHandlers(RespondWithJSON(http.StatusOK, `{
				"metadata": {"name": "my-request"}
			}`))
			outcome := gateway.EnsurePackageVariant(ctx, &RenderRequest{
				Name:      "my-request",
				Namespace: "default",
			})
			Expect(outcome.OK()).To(BeTrue())
			Expect(server.ReceivedRequests()).To(HaveLen(1))
		})

		It("Includes the mutators in the created variant", func() {
			server.AppendHandlers(
				RespondWithJSON(http.StatusNotFound, `{}`),
				ghttp.CombineHandlers(
					ghttp.VerifyRequest(
						http.MethodPost,
						"/apis/config.porch.kpt.dev/v1alpha1/namespaces/default/packagevariants",
					),
					func(w http.ResponseWriter, r *http.Request) {
						var body struct {
							Spec PackageVariantSpec `json:"spec"`
						}
						err := json.NewDecoder(r.Body).Decode(&body)
						Expect(err).ToNot(HaveOccurred())
						Expect(body.Spec.Pipeline).ToNot(BeNil())
						Expect(body.Spec.Pipeline.Mutators).To(HaveLen(1))
						Expect(body.Spec.Pipeline.Mutators[0].Image).To(Equal(SetLabelsImage))
						Expect(body.Spec.Pipeline.Mutators[0].ConfigMap).To(HaveKeyWithValue("size", "small"))
					},
					RespondWithJSON(http.StatusCreated, `{}`),
				),
			)
			outcome := gateway.EnsurePackageVariant(ctx, &RenderRequest{
				Name:      "my-request",
				Namespace: "default",
				Mutators: []Mutator{{
					Image:     SetLabelsImage,
					ConfigMap: map[string]string{"size": "small"},
				}},
			})
			Expect(outcome.OK()).To(BeTrue())
		})

		It("Passes a failure of the existence check through without creating", func() {
			server.AppendHandlers(RespondWithJSON(http.StatusInternalServerError, `{}`))
			outcome := gateway.EnsurePackageVariant(ctx, &RenderRequest{
				Name:      "my-request",
				Namespace: "default",
			})
			Expect(outcome.Kind).To(Equal(remote.ServerUnavailable))
			Expect(server.ReceivedRequests()).To(HaveLen(1))
		})
	})

	Describe("List package revisions", func() {
		It("Filters by package name and projects name and lifecycle", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(
					http.MethodGet,
					"/apis/porch.kpt.dev/v1alpha1/namespaces/default/packagerevisions",
				),
				RespondWithJSON(http.StatusOK, `{
					"items": [
						{
							"metadata": {"name": "mgmt-abc"},
							"spec": {"packageName": "my-cluster", "lifecycle": "Published"}
						},
						{
							"metadata": {"name": "mgmt-def"},
							"spec": {"packageName": "other-cluster", "lifecycle": "Draft"}
						},
						{
							"metadata": {"name": "mgmt-ghi"},
							"spec": {"packageName": "my-cluster-extras", "lifecycle": "Draft"}
						}
					]
				}`),
			))
			revisions, outcome := gateway.ListPackageRevisions(ctx, "my-cluster", "default")
			Expect(outcome.OK()).To(BeTrue())
			Expect(revisions).To(ConsistOf(
				PackageRevisionSummary{Name: "mgmt-abc", Lifecycle: "Published"},
				PackageRevisionSummary{Name: "mgmt-ghi", Lifecycle: "Draft"},
			))
		})
	})

	Describe("Mutators", func() {
		DescribeTable(
			"Derives set-labels mutators from the template parameters",
			func(parameters map[string]any, expected []Mutator) {
				Expect(BuildMutators(parameters)).To(Equal(expected))
			},
			Entry(
				"No parameters",
				map[string]any{},
				nil,
			),
			Entry(
				"No label parameters",
				map[string]any{"size": "small"},
				nil,
			),
			Entry(
				"One labels map",
				map[string]any{
					"labels": map[string]any{"app": "my-app"},
				},
				[]Mutator{{
					Image:     SetLabelsImage,
					ConfigMap: map[string]string{"app": "my-app"},
				}},
			),
			Entry(
				"Multiple labels maps, sorted by key",
				map[string]any{
					"extraLabels":   map[string]any{"zone": "b"},
					"clusterLabels": map[string]any{"tier": "edge"},
				},
				[]Mutator{
					{
						Image:     SetLabelsImage,
						ConfigMap: map[string]string{"tier": "edge"},
					},
					{
						Image:     SetLabelsImage,
						ConfigMap: map[string]string{"zone": "b"},
					},
				},
			),
			Entry(
				"Labels value that isn't a map of strings is skipped",
				map[string]any{
					"labels": map[string]any{"replicas": 3},
				},
				nil,
			),
		)
	})
})
