// Copyright (C) 2025 l3montree GmbH
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
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package daemons

import (
	"go.uber.org/fx"
)

// RegisterLifecycle starts the daemon together with the fx app.
func RegisterLifecycle(lc fx.Lifecycle, daemon *EvaluationDaemon) {
	lc.Append(fx.StartStopHook(daemon.Start, daemon.Stop))
}

// Module provides the evaluation daemon. The daemons.Config is supplied by the caller.
var Module = fx.Module("daemons",
	fx.Provide(NewEvaluationDaemon),
)
