package model

// Registry is a name-keyed lookup of ready-to-serve models. It is built once
// at startup and read-only afterwards, so lookups need no synchronization.
type Registry struct {
	models map[string]Model
}

// NewRegistry builds the registry from an explicit list of models.
// On a name collision the last registration wins.
func NewRegistry(models ...Model) *Registry {
	byName := make(map[string]Model, len(models))
	for _, m := range models {
		byName[m.Name()] = m
	}
	return &Registry{models: byName}
}

func (r *Registry) Exists(name string) bool {
	_, ok := r.models[name]
	return ok
}

// Resolve returns the model registered under name. The second return value
// reports whether it exists; an unknown name is not an error here, callers
// decide what a miss means.
func (r *Registry) Resolve(name string) (Model, bool) {
	m, ok := r.models[name]
	return m, ok
}
