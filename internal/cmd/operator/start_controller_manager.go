/*
Copyright 2024 Red Hat Inc.

Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in
compliance with the License. You may obtain a copy of the License at

  http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software distributed under the License is
distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
implied. See the License for the specific language governing permissions and limitations under the
License.
*/

package operator

import (
	"log/slog"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	// to ensure that exec-entrypoint and run can make use of them.
	_ "k8s.io/client-go/plugin/pkg/client/auth"
	"k8s.io/klog/v2"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	provisioningv1alpha1 "github.com/nephio-project/o2ims-operator/api/provisioning/v1alpha1"
	"github.com/nephio-project/o2ims-operator/internal"
	"github.com/nephio-project/o2ims-operator/internal/clients/capi"
	"github.com/nephio-project/o2ims-operator/internal/clients/porch"
	"github.com/nephio-project/o2ims-operator/internal/clients/remote"
	"github.com/nephio-project/o2ims-operator/internal/clients/requests"
	"github.com/nephio-project/o2ims-operator/internal/config"
	"github.com/nephio-project/o2ims-operator/internal/controllers"
	"github.com/nephio-project/o2ims-operator/internal/exit"
	"github.com/nephio-project/o2ims-operator/internal/logging"
)

// ControllerManager creates and returns the `start controller-manager` command.
func ControllerManager() *cobra.Command {
	c := NewControllerManager()
	result := &cobra.Command{
		Use:   "controller-manager",
		Short: "Starts the controller manager",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	flags := result.Flags()
	flags.StringVar(
		&c.metricsAddr,
		"metrics-bind-address",
		":8080",
		"The address the metric endpoint binds to.",
	)
	flags.StringVar(
		&c.probeAddr,
		"health-probe-bind-address",
		":8081",
		"The address the probe endpoint binds to.",
	)
	flags.BoolVar(
		&c.enableLeaderElection,
		"leader-elect",
		false,
		"Enable leader election for controller manager. "+
			"Enabling this will ensure there is only one active controller manager.",
	)
	return result
}

// ControllerManagerCommand contains the data and logic needed to run the `start controller-manager`
// command.
type ControllerManagerCommand struct {
	metricsAddr          string
	enableLeaderElection bool
	probeAddr            string
}

// NewControllerManager creates a new runner that knows how to execute the `start
// controller-manager` command.
func NewControllerManager() *ControllerManagerCommand {
	return &ControllerManagerCommand{}
}

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(provisioningv1alpha1.AddToScheme(scheme))
}

// run executes the `start controller-manager` command.
func (c *ControllerManagerCommand) run(cmd *cobra.Command, argv []string) error {
	// Get the context:
	ctx := cmd.Context()

	// Get the dependencies from the context. The logger is wrapped so that
	// attributes attached to the context travel into every log record:
	logger := internal.LoggerFromContext(ctx)
	logger = slog.New(logging.NewLoggingContextHandler(logger.Handler(), slog.LevelDebug))

	// Configure the controller runtime library to use our logger:
	adapter := logr.FromSlogHandler(logger.Handler())
	ctrl.SetLogger(adapter)
	klog.SetLogger(adapter)

	// Load the environment configuration:
	cfg, err := config.Load()
	if err != nil {
		logger.ErrorContext(
			ctx,
			"Unable to load configuration",
			slog.String("error", err.Error()),
		)
		return exit.Error(1)
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: c.metricsAddr},
		HealthProbeBindAddress: c.probeAddr,
		LeaderElection:         c.enableLeaderElection,
		LeaderElectionID:       "f1bd2cfa.o2ims.provisioning.oran.org",
	})
	if err != nil {
		logger.ErrorContext(
			ctx,
			"Unable to start manager",
			slog.String("error", err.Error()),
		)
		return exit.Error(1)
	}

	// Create the remote client used to read porch and cluster API resources:
	remoteClient, err := remote.NewClient().
		SetLogger(logger).
		SetBaseURL(cfg.BaseURL).
		SetTokenSource(cfg.TokenSource()).
		SetHTTPSVerify(cfg.HTTPSVerify).
		Build()
	if err != nil {
		logger.ErrorContext(
			ctx,
			"Unable to create remote client",
			slog.String("error", err.Error()),
		)
		return exit.Error(1)
	}

	// Create the gateways:
	packages := porch.NewGateway(logger, remoteClient, cfg.GitRepository)
	clusters := capi.NewGateway(logger, remoteClient)
	store := requests.NewStore(logger, remoteClient, packages, cfg.PackageNamespace)

	// Start the ProvisioningRequest controller.
	if err = (&controllers.ProvisioningRequestReconciler{
		Client:   mgr.GetClient(),
		Logger:   logger.With(slog.String("controller", "ProvisioningRequest")),
		Recorder: mgr.GetEventRecorderFor("provisioning-request-controller"),
		Packages: packages,
		Clusters: clusters,
		Requests: store,
		Options:  controllers.OptionsFromConfig(cfg),
	}).SetupWithManager(mgr); err != nil {
		logger.ErrorContext(
			ctx,
			"Unable to create controller",
			slog.String("controller", "ProvisioningRequest"),
			slog.String("error", err.Error()),
		)
		return exit.Error(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		logger.ErrorContext(
			ctx,
			"Unable to set up health check",
			slog.String("error", err.Error()),
		)
		return exit.Error(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		logger.ErrorContext(
			ctx,
			"Unable to set up ready check",
			slog.String("error", err.Error()),
		)
		return exit.Error(1)
	}

	logger.InfoContext(
		ctx,
		"Starting manager",
		slog.String("baseURL", cfg.BaseURL),
		slog.String("repository", cfg.GitRepository),
	)
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		logger.ErrorContext(
			ctx,
			"Problem running manager",
			slog.String("error", err.Error()),
		)
		return exit.Error(1)
	}

	return nil
}
