package fx

import (
	"github.com/orgball2608/deface/internal/repositories/timeline"
	"go.uber.org/fx"
)

var Module = fx.Options(
	timeline.Module,
)
