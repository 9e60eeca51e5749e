/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package remote

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/ginkgo/v2/dsl/table"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
	"golang.org/x/oauth2"

	"github.com/nephio-project/o2ims-operator/internal/logging"
	. "github.com/nephio-project/o2ims-operator/internal/testing"
)

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		logger *slog.Logger
		tokens oauth2.TokenSource
	)

	BeforeEach(func() {
		var err error

		ctx = context.Background()

		logger, err = logging.NewLogger().
			SetWriter(GinkgoWriter).
			SetLevel("debug").
			Build()
		Expect(err).ToNot(HaveOccurred())

		tokens = oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: "my-token",
		})
	})

	Describe("Creation", func() {
		It("Can't be created without a logger", func() {
			client, err := NewClient().
				SetBaseURL("https://my-server.example.com").
				SetTokenSource(tokens).
				Build()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger"))
			Expect(client).To(BeNil())
		})

		It("Can't be created without a base URL", func() {
			client, err := NewClient().
				SetLogger(logger).
				SetTokenSource(tokens).
				Build()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("base URL"))
			Expect(client).To(BeNil())
		})

		It("Can't be created without a token source", func() {
			client, err := NewClient().
				SetLogger(logger).
				SetBaseURL("https://my-server.example.com").
				Build()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("token"))
			Expect(client).To(BeNil())
		})
	})

	Describe("Classification", func() {
		var server *ghttp.Server
		var client *Client

		BeforeEach(func() {
			var err error

			server = MakeTCPServer()
			client, err = NewClient().
				SetLogger(logger).
				SetBaseURL(server.URL()).
				SetTokenSource(tokens).
				Build()
			Expect(err).ToNot(HaveOccurred())
		})

		AfterEach(func() {
			server.Close()
		})

		DescribeTable(
			"Maps response status codes to outcome kinds",
			func(status int, expected Kind) {
				server.AppendHandlers(RespondWithJSON(status, `{}`))
				outcome := client.Get(ctx, "/apis/things/v1/things")
				Expect(outcome.Kind).To(Equal(expected))
				Expect(outcome.Status).To(Equal(status))
			},
			Entry("200 is OK", http.StatusOK, OK),
			Entry("201 is OK", http.StatusCreated, OK),
			Entry("202 is OK", http.StatusAccepted, OK),
			Entry("204 is OK", http.StatusNoContent, OK),
			Entry("401 is unauthorized", http.StatusUnauthorized, Unauthorized),
			Entry("403 is unauthorized", http.StatusForbidden, Unauthorized),
			Entry("404 is not found", http.StatusNotFound, NotFound),
			Entry("400 is bad request", http.StatusBadRequest, BadRequest),
			Entry("500 is server unavailable", http.StatusInternalServerError, ServerUnavailable),
			Entry("409 is unknown", http.StatusConflict, Unknown),
			Entry("503 is unknown", http.StatusServiceUnavailable, Unknown),
		)

		It("Keeps the body of a 200 response", func() {
			server.AppendHandlers(RespondWithJSON(
				http.StatusOK,
				`{"metadata": {"name": "my-thing"}}`,
			))
			outcome := client.Get(ctx, "/apis/things/v1/things/my-thing")
			Expect(outcome.OK()).To(BeTrue())
			var object struct {
				Metadata struct {
					Name string `json:"name"`
				} `json:"metadata"`
			}
			err := outcome.Decode(&object)
			Expect(err).ToNot(HaveOccurred())
			Expect(object.Metadata.Name).To(Equal("my-thing"))
		})

		It("Extracts the message of a 400 response", func() {
			server.AppendHandlers(RespondWithJSON(
				http.StatusBadRequest,
				`{"kind": "Status", "message": "spec.upstream is invalid"}`,
			))
			outcome := client.Get(ctx, "/apis/things/v1/things")
			Expect(outcome.Kind).To(Equal(BadRequest))
			Expect(outcome.Reason).To(Equal("spec.upstream is invalid"))
			Expect(outcome.Message()).To(Equal("spec.upstream is invalid"))
		})

		It("Keeps the raw body of a 400 response without a message field", func() {
			server.AppendHandlers(RespondWithJSON(
				http.StatusBadRequest,
				`{"oops": true}`,
			))
			outcome := client.Get(ctx, "/apis/things/v1/things")
			Expect(outcome.Kind).To(Equal(BadRequest))
			Expect(outcome.Reason).To(Equal(`{"oops": true}`))
		})

		It("Sends the bearer token and the content type", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodGet, "/apis/things/v1/things"),
				ghttp.VerifyHeaderKV("Authorization", "Bearer my-token"),
				ghttp.VerifyHeaderKV("Accept", "application/json"),
				RespondWithJSON(http.StatusOK, `{}`),
			))
			outcome := client.Get(ctx, "/apis/things/v1/things")
			Expect(outcome.OK()).To(BeTrue())
		})

		It("Serializes the body of a POST", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/apis/things/v1/things"),
				ghttp.VerifyJSON(`{"name": "my-thing"}`),
				RespondWithJSON(http.StatusCreated, `{}`),
			))
			outcome := client.Post(ctx, "/apis/things/v1/things", map[string]any{
				"name": "my-thing",
			})
			Expect(outcome.Kind).To(Equal(OK))
			Expect(outcome.Status).To(Equal(http.StatusCreated))
		})

		It("Classifies a transport failure as unreachable", func() {
			// Closing the server before the call guarantees a connection
			// error instead of an HTTP response.
			server.Close()
			outcome := client.Get(ctx, "/apis/things/v1/things")
			Expect(outcome.Kind).To(Equal(Unreachable))
			Expect(outcome.Reason).ToNot(BeEmpty())
			Expect(outcome.Message()).ToNot(BeEmpty())
		})

		It("Classifies a failing token source as unreachable", func() {
			broken, err := NewClient().
				SetLogger(logger).
				SetBaseURL(server.URL()).
				SetTokenSource(brokenTokenSource{}).
				Build()
			Expect(err).ToNot(HaveOccurred())
			outcome := broken.Get(ctx, "/apis/things/v1/things")
			Expect(outcome.Kind).To(Equal(Unreachable))
			Expect(outcome.Reason).To(ContainSubstring("token"))
		})
	})

	Describe("TLS", func() {
		It("Connects to a server with an unknown certificate when verification is disabled", func() {
			server, ca := MakeTCPTLSServer()
			defer func() {
				server.Close()
				err := os.Remove(ca)
				Expect(err).ToNot(HaveOccurred())
			}()
			server.AppendHandlers(RespondWithJSON(http.StatusOK, `{}`))
			client, err := NewClient().
				SetLogger(logger).
				SetBaseURL(server.URL()).
				SetTokenSource(tokens).
				SetHTTPSVerify(false).
				Build()
			Expect(err).ToNot(HaveOccurred())
			outcome := client.Get(ctx, "/apis/things/v1/things")
			Expect(outcome.OK()).To(BeTrue())
		})

		It("Rejects a server with an unknown certificate when verification is enabled", func() {
			server, ca := MakeTCPTLSServer()
			defer func() {
				server.Close()
				err := os.Remove(ca)
				Expect(err).ToNot(HaveOccurred())
			}()
			client, err := NewClient().
				SetLogger(logger).
				SetBaseURL(server.URL()).
				SetTokenSource(tokens).
				SetHTTPSVerify(true).
				Build()
			Expect(err).ToNot(HaveOccurred())
			outcome := client.Get(ctx, "/apis/things/v1/things")
			Expect(outcome.Kind).To(Equal(Unreachable))
		})
	})

	Describe("Resource paths", func() {
		DescribeTable(
			"Builds the expected path",
			func(group, version, namespace, resource, name, expected string) {
				Expect(ResourcePath(group, version, namespace, resource, name)).To(Equal(expected))
			},
			Entry(
				"Namespaced resource",
				"config.porch.kpt.dev", "v1alpha1", "default", "packagevariants", "my-pv",
				"/apis/config.porch.kpt.dev/v1alpha1/namespaces/default/packagevariants/my-pv",
			),
			Entry(
				"Namespaced collection",
				"porch.kpt.dev", "v1alpha1", "default", "packagerevisions", "",
				"/apis/porch.kpt.dev/v1alpha1/namespaces/default/packagerevisions",
			),
			Entry(
				"Cluster scoped resource",
				"o2ims.provisioning.oran.org", "v1alpha1", "", "provisioningrequests", "my-request",
				"/apis/o2ims.provisioning.oran.org/v1alpha1/provisioningrequests/my-request",
			),
			Entry(
				"Cluster scoped collection",
				"o2ims.provisioning.oran.org", "v1alpha1", "", "provisioningrequests", "",
				"/apis/o2ims.provisioning.oran.org/v1alpha1/provisioningrequests",
			),
		)
	})
})

// brokenTokenSource always fails, used to exercise the token retrieval error path.
type brokenTokenSource struct{}

func (s brokenTokenSource) Token() (*oauth2.Token, error) {
	return nil, os.ErrNotExist
}
