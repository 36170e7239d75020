// Copyright (C) 2024 Tim Bastin, l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package repositories

import (
	"github.com/l3montree-dev/policyguard/shared"
	"go.uber.org/fx"
)

// Module provides all repository constructors as their interfaces
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewPipelineRepository, fx.As(new(shared.PipelineRepository)))),
	fx.Provide(fx.Annotate(NewSecurityFindingRepository, fx.As(new(shared.SecurityFindingRepository)))),
	fx.Provide(fx.Annotate(NewVulnerabilityRepository, fx.As(new(shared.VulnerabilityRepository)))),
	fx.Provide(fx.Annotate(NewPipelineSBOMRepository, fx.As(new(shared.PipelineSBOMRepository)))),
	fx.Provide(fx.Annotate(NewMergeRequestRepository, fx.As(new(shared.MergeRequestRepository)))),
	fx.Provide(fx.Annotate(NewApprovalRuleRepository, fx.As(new(shared.ApprovalRuleRepository)))),
	fx.Provide(fx.Annotate(NewViolationRepository, fx.As(new(shared.ViolationRepository)))),
	fx.Provide(fx.Annotate(NewPolicyRepository, fx.As(new(shared.PolicyRepository)))),
)
