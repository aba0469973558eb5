package app

import (
	"github.com/vk/partgrid/internal/registry"
	"github.com/vk/partgrid/modules/console"
	"github.com/vk/partgrid/modules/envvars"
	"github.com/vk/partgrid/modules/httpclient"
	"github.com/vk/partgrid/modules/s3"
	"github.com/vk/partgrid/modules/socketio"
)

// coreModules is the definitive list of all constructor modules compiled
// into the partgrid binary.
var coreModules = []registry.Module{
	&console.Module{},
	&envvars.Module{},
	&httpclient.Module{},
	&s3.Module{},
	&socketio.Module{},
}
