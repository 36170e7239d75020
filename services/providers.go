package services

import (
	"github.com/l3montree-dev/policyguard/shared"
	"go.uber.org/fx"
)

func newLeaderElector(lc fx.Lifecycle, locker shared.Locker) shared.LeaderElector {
	elector := NewLockLeaderElector(locker)
	lc.Append(fx.StopHook(elector.Stop))
	return elector
}

// Module provides all service-layer constructors. EvaluationConfig, shared.Locker,
// shared.NoteStore and shared.PubSubBroker are supplied by the caller.
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewRelatedPipelinesResolver, fx.As(new(shared.RelatedPipelinesResolver)))),
	fx.Provide(fx.Annotate(NewFindingDiffService, fx.As(new(shared.FindingDiffService)))),
	fx.Provide(fx.Annotate(NewLicenseViolationChecker, fx.As(new(shared.LicenseViolationChecker)))),
	fx.Provide(fx.Annotate(NewLicenseReportProvider, fx.As(new(shared.LicenseReportProvider)))),
	fx.Provide(NewViolationService),
	fx.Provide(fx.Annotate(NewPolicyViolationCommentService, fx.As(new(shared.PolicyViolationCommentService)))),
	fx.Provide(fx.Annotate(NewApprovalService, fx.As(new(shared.ApprovalService)))),
	fx.Provide(fx.Annotate(NewPolicyService, fx.As(new(shared.PolicyService)))),
	fx.Provide(fx.Annotate(NewReportIngestionService, fx.As(new(shared.ReportIngestionService)))),
	fx.Provide(newLeaderElector),
)
