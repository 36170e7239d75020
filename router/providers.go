package router

import "go.uber.org/fx"

// Module provides the health router. BrokerHealth is supplied by the caller.
var Module = fx.Options(
	fx.Provide(NewHealthRouter),
)
