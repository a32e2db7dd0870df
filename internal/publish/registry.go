package publish

import (
	"github.com/blogward/blogward-backend/internal/application/errs"
)

// EngineRegistry maps a site's engine id to its implementation. Populated once
// at startup, read-only afterwards.
type EngineRegistry struct {
	engines map[string]RenderEngine
}

func NewEngineRegistry() *EngineRegistry {
	return &EngineRegistry{engines: make(map[string]RenderEngine)}
}

func (r *EngineRegistry) Register(id string, engine RenderEngine) {
	r.engines[id] = engine
}

func (r *EngineRegistry) Get(id string) (RenderEngine, error) {
	engine, ok := r.engines[id]
	if !ok {
		return nil, errs.EngineNotFoundError{Engine: id}
	}
	return engine, nil
}

// DeployerRegistry maps a site's deployment id to its implementation.
type DeployerRegistry struct {
	deployers map[string]Deployer
}

func NewDeployerRegistry() *DeployerRegistry {
	return &DeployerRegistry{deployers: make(map[string]Deployer)}
}

func (r *DeployerRegistry) Register(id string, deployer Deployer) {
	r.deployers[id] = deployer
}

func (r *DeployerRegistry) Get(id string) (Deployer, error) {
	deployer, ok := r.deployers[id]
	if !ok {
		return nil, errs.DeployerNotFoundError{Deployer: id}
	}
	return deployer, nil
}
