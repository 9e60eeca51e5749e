/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	provisioningv1alpha1 "github.com/nephio-project/o2ims-operator/api/provisioning/v1alpha1"
	"github.com/nephio-project/o2ims-operator/internal/clients/capi"
	"github.com/nephio-project/o2ims-operator/internal/clients/porch"
	"github.com/nephio-project/o2ims-operator/internal/clients/remote"
	"github.com/nephio-project/o2ims-operator/internal/config"
	"github.com/nephio-project/o2ims-operator/internal/controllers/utils"
	"github.com/nephio-project/o2ims-operator/internal/logging"
)

const provisioningRequestFinalizer = "provisioningrequests.o2ims.provisioning.oran.org"

// Status messages observed by the SMO. The wording is part of the external
// contract and must not drift.
const (
	messageValidationFailed  = "Provisioning request validation failed; reason: "
	messageValidationDone    = "Provisioning request validation done"
	messageVariantConflict   = "Provisioning request creation failed, package variant already exist"
	messageRenderingOngoing  = "Cluster instance rendering ongoing"
	messageRenderingComplete = "Cluster instance rendering completed"
	messageRenderingFailed   = "Cluster instance rendering failed"
	messageCreationOngoing   = "Cluster resource creation ongoing"
	messageCreationTimeout   = "Cluster resource creation failed reached timeout"
	messageClusterCreated    = "Cluster resource created"
)

// Options carries the reconciler settings derived from the process
// configuration. They are fixed for the lifetime of the process.
type Options struct {
	// PackageNamespace is where package variants and clusters live.
	PackageNamespace string

	// ClusterProvisioner identifies the downstream cluster lifecycle system.
	ClusterProvisioner string

	// RenderTimeout bounds the rendering poll loop. It is deliberately short:
	// package variant problems show up quickly.
	RenderTimeout time.Duration

	// CreationTimeout bounds the cluster creation poll loop.
	CreationTimeout time.Duration

	// PollInterval is the tick of both poll loops.
	PollInterval time.Duration
}

// OptionsFromConfig derives the reconciler options from the process
// configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PackageNamespace:   cfg.PackageNamespace,
		ClusterProvisioner: cfg.ClusterProvisioner,
		RenderTimeout:      30 * time.Second,
		CreationTimeout:    cfg.CreationTimeout(),
		PollInterval:       time.Second,
	}
}

// ProvisioningRequestReconciler reconciles a ProvisioningRequest object by
// driving its package variant to rendered and the resulting cluster to
// provisioned, via the remote gateways.
type ProvisioningRequestReconciler struct {
	client.Client
	Logger   *slog.Logger
	Recorder record.EventRecorder
	Packages PackageGateway
	Clusters ClusterGateway
	Requests StatusReader
	Options  Options
}

// provisioningRequestReconcilerTask is the per-invocation state of one
// reconciliation. All provisioning state lives in the remote resources, so a
// task can be abandoned and resumed at any suspension point.
type provisioningRequestReconcilerTask struct {
	logger   *slog.Logger
	client   client.Client
	recorder record.EventRecorder
	packages PackageGateway
	clusters ClusterGateway
	requests StatusReader
	object   *provisioningv1alpha1.ProvisioningRequest
	options  Options
}

//+kubebuilder:rbac:groups=o2ims.provisioning.oran.org,resources=provisioningrequests,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=o2ims.provisioning.oran.org,resources=provisioningrequests/status,verbs=get;update;patch
//+kubebuilder:rbac:groups=o2ims.provisioning.oran.org,resources=provisioningrequests/finalizers,verbs=update
//+kubebuilder:rbac:groups=config.porch.kpt.dev,resources=packagevariants,verbs=get;list;watch;create;delete
//+kubebuilder:rbac:groups=porch.kpt.dev,resources=packagerevisions,verbs=get;list;watch;delete
//+kubebuilder:rbac:groups=cluster.x-k8s.io,resources=clusters,verbs=get;list;watch
//+kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// Reconcile drives one provisioning request to a terminal state. The whole
// state machine runs inside a single invocation; the poll loops block here,
// which is accepted because every request reconciles on its own goroutine and
// all waiting is cancellable through the context.
func (r *ProvisioningRequestReconciler) Reconcile(
	ctx context.Context, req ctrl.Request) (result ctrl.Result, err error) {
	result = doNotRequeue()

	object := &provisioningv1alpha1.ProvisioningRequest{}
	if err = r.Client.Get(ctx, req.NamespacedName, object); err != nil {
		if errors.IsNotFound(err) {
			// The provisioning request could have been deleted
			err = nil
			return
		}
		r.Logger.ErrorContext(
			ctx,
			"Unable to fetch ProvisioningRequest",
			slog.String("error", err.Error()),
		)
		return
	}

	// Attach the request name to the context so it shows up in every log
	// record written below, including the ones from the poll loops.
	ctx = logging.AppendCtx(ctx, slog.String("request", object.Name))

	r.Logger.InfoContext(ctx, "[Reconcile ProvisioningRequest]",
		"name", object.Name)

	if res, stop, err := r.handleFinalizer(ctx, object); !res.IsZero() || stop || err != nil {
		if err != nil {
			r.Logger.ErrorContext(
				ctx,
				"Encountered error while handling the ProvisioningRequest finalizer",
				slog.String("error", err.Error()))
		}
		return res, err
	}

	// A request that already reached fulfilled or failed is never re-driven:
	// re-running the creation steps for it would not be idempotent.
	if utils.IsStateTerminal(object) {
		r.Logger.InfoContext(
			ctx,
			"ProvisioningRequest is in a terminal state, nothing to do",
			slog.String("name", object.Name),
			slog.String("state", string(object.Status.ProvisioningStatus.ProvisioningState)),
		)
		return
	}

	task := &provisioningRequestReconcilerTask{
		logger:   r.Logger,
		client:   r.Client,
		recorder: r.Recorder,
		packages: r.Packages,
		clusters: r.Clusters,
		requests: r.Requests,
		object:   object,
		options:  r.Options,
	}
	result, err = task.run(ctx)
	return
}

// run executes the provisioning state machine: conflict check, validation,
// rendering, cluster creation. Every transition writes the status before the
// next step starts so external watchers see intermediate progress.
func (t *provisioningRequestReconcilerTask) run(ctx context.Context) (ctrl.Result, error) {
	conflict, err := t.checkPackageVariantConflict(ctx)
	if err != nil {
		return requeueWithError(err)
	}
	if conflict {
		return doNotRequeue(), nil
	}

	clusterName, parameters, err := t.handleValidation(ctx)
	if err != nil {
		if utils.IsInputError(err) {
			// Terminal: the request itself is invalid.
			return doNotRequeue(), nil
		}
		return requeueWithError(err)
	}

	rendered, err := t.handleRendering(ctx, clusterName, parameters)
	if err != nil {
		return requeueWithError(err)
	}
	if !rendered {
		return doNotRequeue(), nil
	}

	if err := t.handleClusterCreation(ctx, clusterName); err != nil {
		return requeueWithError(err)
	}
	return doNotRequeue(), nil
}

// checkPackageVariantConflict detects out-of-band provisioning: the request
// is not visible in the store yet but a package variant with its name already
// exists. Proceeding would adopt a package this request never created, so the
// request fails instead.
func (t *provisioningRequestReconcilerTask) checkPackageVariantConflict(ctx context.Context) (bool, error) {
	status, outcome := t.requests.ReadStatus(ctx, t.object.Name)
	if outcome.Kind == remote.NotFound && status != nil && status.PackageVariantExists {
		t.logger.ErrorContext(
			ctx,
			"Package variant already exists for ProvisioningRequest",
			slog.String("name", t.object.Name),
		)
		utils.SetProvisioningStateFailed(t.object, messageVariantConflict)
		t.recorder.Event(t.object, corev1.EventTypeWarning, "Provisioning", messageVariantConflict)
		if err := t.updateStatus(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// handleValidation checks the template parameters. The returned error is an
// InputError for request-level problems, which are terminal, and a plain
// error for status write failures, which are retried.
func (t *provisioningRequestReconcilerTask) handleValidation(ctx context.Context) (string, map[string]any, error) {
	clusterName, parameters, err := validateTemplateParameters(t.object)
	if err != nil {
		t.logger.ErrorContext(
			ctx,
			"Failed to validate the ProvisioningRequest",
			slog.String("name", t.object.Name),
			slog.String("error", err.Error()),
		)
		message := messageValidationFailed + err.Error()
		utils.SetProvisioningStateFailed(t.object, message)
		t.recorder.Event(t.object, corev1.EventTypeWarning, "Validation", message)
		if updateErr := t.updateStatus(ctx); updateErr != nil {
			return "", nil, updateErr
		}
		return "", nil, err
	}

	t.logger.InfoContext(
		ctx,
		"Validated the ProvisioningRequest",
		slog.String("name", t.object.Name),
		slog.String("clusterName", clusterName),
	)
	utils.SetProvisioningStateProgressing(t.object, messageValidationDone)
	t.recorder.Event(t.object, corev1.EventTypeNormal, "Validation", messageValidationDone)
	if err := t.updateStatus(ctx); err != nil {
		return "", nil, err
	}
	return clusterName, parameters, nil
}

// handleRendering creates the package variant if needed and polls it until
// its latest condition settles. Rendering fails fast: any gateway error while
// polling is terminal, since the package variant lives in the same API server
// the status write goes to.
func (t *provisioningRequestReconcilerTask) handleRendering(ctx context.Context, clusterName string, parameters map[string]any) (bool, error) {
	utils.SetProvisioningStateProgressing(t.object, messageRenderingOngoing)
	if err := t.updateStatus(ctx); err != nil {
		return false, err
	}

	request := &porch.RenderRequest{
		Name:            t.object.Name,
		Namespace:       t.options.PackageNamespace,
		TemplateName:    t.object.Spec.TemplateName,
		TemplateVersion: t.object.Spec.TemplateVersion,
		ClusterName:     clusterName,
		Mutators:        porch.BuildMutators(parameters),
	}
	outcome := t.packages.EnsurePackageVariant(ctx, request)
	if !outcome.OK() {
		return false, t.failRendering(ctx, outcome.Message())
	}

	err := pollUntilDone(ctx, t.options.PollInterval, t.options.RenderTimeout, failFastOnError,
		func(ctx context.Context) (bool, error) {
			variant, outcome := t.packages.GetPackageVariant(ctx, t.object.Name, t.options.PackageNamespace)
			if !outcome.OK() {
				return false, fmt.Errorf("failed to fetch package variant: %s", outcome.Message())
			}
			conditions := variant.Status.Conditions
			if len(conditions) == 0 {
				return false, nil
			}
			// The most recent condition is appended last and wins; earlier
			// entries are history, not merged.
			latest := conditions[len(conditions)-1]
			switch latest.Status {
			case "True":
				return true, nil
			case "False":
				return false, utils.NewInputError("%s", latest.Reason)
			default:
				return false, nil
			}
		})
	switch {
	case err == nil:
		utils.SetProvisioningStateProgressing(t.object, messageRenderingComplete)
		t.recorder.Event(t.object, corev1.EventTypeNormal, "Rendering", messageRenderingComplete)
		if err := t.updateStatus(ctx); err != nil {
			return false, err
		}
		return true, nil
	case pollTimedOut(ctx, err):
		if failErr := t.failWith(ctx, messageCreationTimeout); failErr != nil {
			return false, failErr
		}
		return false, nil
	case ctx.Err() != nil:
		// Reconciliation was cancelled; leave the status as is and let the
		// next invocation resume from the remote state.
		return false, fmt.Errorf("rendering poll cancelled: %w", err)
	default:
		return false, t.failRendering(ctx, err.Error())
	}
}

// failRendering marks the request failed with the rendering message and the
// given reason appended when present.
func (t *provisioningRequestReconcilerTask) failRendering(ctx context.Context, reason string) error {
	message := messageRenderingFailed
	if reason != "" {
		message = messageRenderingFailed + " " + reason
	}
	return t.failWith(ctx, message)
}

// handleClusterCreation polls the cluster lifecycle resource until the
// cluster is provisioned or the creation budget elapses. Unlike rendering,
// gateway errors are tolerated here: cluster bring-up takes tens of minutes
// and transient API blips must not fail the whole request.
func (t *provisioningRequestReconcilerTask) handleClusterCreation(ctx context.Context, clusterName string) error {
	if t.options.ClusterProvisioner != "capi" {
		message := fmt.Sprintf("Cluster resource creation failed, unsupported cluster provisioner %q", t.options.ClusterProvisioner)
		return t.failWith(ctx, message)
	}

	utils.SetProvisioningStateProgressing(t.object, messageCreationOngoing)
	if err := t.updateStatus(ctx); err != nil {
		return err
	}

	err := pollUntilDone(ctx, t.options.PollInterval, t.options.CreationTimeout, tolerateErrors,
		func(ctx context.Context) (bool, error) {
			phase, outcome := t.clusters.GetClusterPhase(ctx, clusterName, t.options.PackageNamespace)
			if !outcome.OK() {
				return false, fmt.Errorf("failed to fetch cluster phase: %s", outcome.Message())
			}
			return phase == capi.ProvisionedPhase, nil
		})
	switch {
	case err == nil:
		resources := &provisioningv1alpha1.ProvisionedResourceSet{
			OCloudNodeClusterId:             uuid.NewString(),
			OCloudInfrastructureResourceIds: []string{uuid.NewString()},
		}
		utils.SetProvisioningStateFulfilled(t.object, messageClusterCreated, resources)
		t.recorder.Event(t.object, corev1.EventTypeNormal, "ClusterCreation", messageClusterCreated)
		t.logger.InfoContext(
			ctx,
			"Cluster resource created",
			slog.String("name", t.object.Name),
			slog.String("cluster", clusterName),
		)
		return t.updateStatus(ctx)
	case pollTimedOut(ctx, err):
		return t.failWith(ctx, messageCreationTimeout)
	default:
		return fmt.Errorf("cluster creation poll cancelled: %w", err)
	}
}

// failWith writes a terminal failed status with the given message.
func (t *provisioningRequestReconcilerTask) failWith(ctx context.Context, message string) error {
	t.logger.ErrorContext(
		ctx,
		"ProvisioningRequest failed",
		slog.String("name", t.object.Name),
		slog.String("message", message),
	)
	utils.SetProvisioningStateFailed(t.object, message)
	t.recorder.Event(t.object, corev1.EventTypeWarning, "Provisioning", message)
	return t.updateStatus(ctx)
}

func (t *provisioningRequestReconcilerTask) updateStatus(ctx context.Context) error {
	if err := utils.UpdateK8sCRStatus(ctx, t.client, t.object); err != nil {
		return fmt.Errorf("failed to update status for ProvisioningRequest %s: %w", t.object.Name, err)
	}
	return nil
}

// finalizeProvisioningRequest removes the downstream resources created for
// the request: its package variant and the package revisions rendered from
// it. NotFound from either delete means the work is already done.
func (r *ProvisioningRequestReconciler) finalizeProvisioningRequest(
	ctx context.Context, object *provisioningv1alpha1.ProvisioningRequest) error {

	namespace := r.Options.PackageNamespace
	outcome := r.Packages.DeletePackageVariant(ctx, object.Name, namespace)
	if !outcome.OK() && outcome.Kind != remote.NotFound {
		return fmt.Errorf("failed to delete package variant %s: %s", object.Name, outcome.Message())
	}

	revisions, outcome := r.Packages.ListPackageRevisions(ctx, object.Name, namespace)
	if !outcome.OK() && outcome.Kind != remote.NotFound {
		return fmt.Errorf("failed to list package revisions for %s: %s", object.Name, outcome.Message())
	}
	for _, revision := range revisions {
		outcome := r.Packages.DeletePackageRevision(ctx, revision.Name, namespace)
		if !outcome.OK() && outcome.Kind != remote.NotFound {
			return fmt.Errorf("failed to delete package revision %s: %s", revision.Name, outcome.Message())
		}
	}

	r.Logger.InfoContext(
		ctx,
		"Cleaned up downstream resources for ProvisioningRequest",
		slog.String("name", object.Name),
		slog.Int("revisions", len(revisions)),
	)
	return nil
}

// handleFinalizer adds the finalizer on live objects and runs the cleanup on
// deleted ones. The bool result tells the caller to stop reconciling.
func (r *ProvisioningRequestReconciler) handleFinalizer(
	ctx context.Context, object *provisioningv1alpha1.ProvisioningRequest) (ctrl.Result, bool, error) {

	if object.DeletionTimestamp.IsZero() {
		if !controllerutil.ContainsFinalizer(object, provisioningRequestFinalizer) {
			controllerutil.AddFinalizer(object, provisioningRequestFinalizer)
			// Update and requeue since the finalizer has been added.
			if err := r.Update(ctx, object); err != nil {
				return ctrl.Result{}, true, fmt.Errorf("failed to update ProvisioningRequest with finalizer: %w", err)
			}
			return ctrl.Result{Requeue: true}, true, nil
		}
		return ctrl.Result{}, false, nil
	} else if controllerutil.ContainsFinalizer(object, provisioningRequestFinalizer) {
		// If the cleanup fails the finalizer stays so the next
		// reconciliation retries it.
		if err := r.finalizeProvisioningRequest(ctx, object); err != nil {
			return requeueWithShortInterval(), true, err
		}

		r.Logger.InfoContext(ctx, "Removing ProvisioningRequest finalizer",
			"name", object.Name)
		patch := client.MergeFrom(object.DeepCopy())
		if controllerutil.RemoveFinalizer(object, provisioningRequestFinalizer) {
			if err := r.Patch(ctx, object, patch); err != nil {
				return ctrl.Result{}, true, fmt.Errorf("failed to patch ProvisioningRequest: %w", err)
			}
			return ctrl.Result{}, true, nil
		}
	}
	return ctrl.Result{}, false, nil
}
