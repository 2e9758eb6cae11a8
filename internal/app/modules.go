package app

import (
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/modules/constant"
	"github.com/vk/flowgrid/modules/math"
	"github.com/vk/flowgrid/modules/printer"
)

// coreModules is the definitive list of all node type modules compiled
// into the flowgrid binary, on top of the registry's built-in control
// types.
var coreModules = []registry.Module{
	&constant.Module{},
	&math.Module{},
	&printer.Module{},
}
