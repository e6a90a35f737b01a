package agent

import (
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrActionNotFound   = goerr.Wrap(model.ErrNotFound, "action not found")
	ErrActionNotPending = goerr.Wrap(model.ErrConflict, "action is not pending")
	ErrScenarioNotFound = goerr.Wrap(model.ErrNotFound, "scenario not found")
	ErrMemoryNotFound   = goerr.Wrap(model.ErrNotFound, "medical memory not found")
)
