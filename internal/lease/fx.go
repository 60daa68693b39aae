package lease

import (
	"github.com/nyumba/nyumba/internal/lease/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lease.service",
	fx.Provide(service.NewService),
)
