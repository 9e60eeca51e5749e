/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/oauth2"
)

const (
	// DefaultTokenFile is where the service account token is mounted in-cluster.
	DefaultTokenFile = "/var/run/secrets/kubernetes.io/serviceaccount/token"

	// DefaultCreationTimeout bounds the cluster creation poll loop.
	DefaultCreationTimeout = 1800 * time.Second
)

// Config holds the process wide settings consumed by the remote client and the
// reconciler. It is loaded once at startup and treated as immutable afterwards;
// leaf functions receive it by reference instead of reading the environment.
type Config struct {
	// BaseURL is the address of the Kubernetes API server hosting the
	// provisioning, porch and cluster-api resources.
	BaseURL string `envconfig:"KUBERNETES_BASE_URL" default:"http://127.0.0.1:8080"`

	// TokenFile is the path of the bearer token presented to the API server.
	TokenFile string `envconfig:"TOKEN" default:"/var/run/secrets/kubernetes.io/serviceaccount/token"`

	// HTTPSVerify controls verification of the API server certificate.
	HTTPSVerify bool `envconfig:"HTTPS_VERIFY" default:"false"`

	// GitRepository is the upstream repository that holds the cluster templates.
	GitRepository string `envconfig:"GIT_REPOSITORY" default:"catalog-infra-capi"`

	// ClusterProvisioner selects the downstream cluster lifecycle system.
	// Only "capi" is supported.
	ClusterProvisioner string `envconfig:"CLUSTER_PROVISIONER" default:"capi"`

	// CreationTimeoutSeconds bounds the cluster creation poll loop.
	CreationTimeoutSeconds int `envconfig:"CREATION_TIMEOUT" default:"1800"`

	// PackageNamespace is the namespace in which package variants are created.
	PackageNamespace string `envconfig:"PACKAGE_NAMESPACE" default:"default"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return config, nil
}

// CreationTimeout returns the cluster creation budget as a duration.
func (c *Config) CreationTimeout() time.Duration {
	if c.CreationTimeoutSeconds <= 0 {
		return DefaultCreationTimeout
	}
	return time.Duration(c.CreationTimeoutSeconds) * time.Second
}

// TokenSource returns a token source that rereads the token file on every
// request so that kubelet initiated token rotation is picked up without a
// restart.
func (c *Config) TokenSource() oauth2.TokenSource {
	return &fileTokenSource{file: c.TokenFile}
}

type fileTokenSource struct {
	file string
}

func (s *fileTokenSource) Token() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file %s: %w", s.file, err)
	}
	return &oauth2.Token{AccessToken: strings.TrimSpace(string(data))}, nil
}

// StaticTokenSource wraps a literal token. Tests and out of cluster runs use
// it instead of a mounted file.
func StaticTokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
}
