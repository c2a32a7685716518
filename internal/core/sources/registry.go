package sources

import "sync"

// Registry mapea perfiles de descubrimiento a conjuntos ordenados de fuentes.
// Las fuentes se registran por nombre y capacidad (Kind): añadir una no
// requiere cambios en la selección ni en el resto del pipeline.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]Source
}

// NewRegistry crea un registro vacío.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Source)}
}

// Register añade una fuente. Un nombre repetido reemplaza la anterior
// conservando su posición.
func (r *Registry) Register(s Source) {
	if s == nil || s.Name() == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[s.Name()]; !exists {
		r.order = append(r.order, s.Name())
	}
	r.byName[s.Name()] = s
}

// Get busca una fuente por nombre.
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	return s, ok
}

// Names devuelve los nombres registrados en orden de registro.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// ForProfile devuelve el conjunto ordenado de fuentes a invocar para un
// perfil. Las fuentes no disponibles nunca se invocan; el motor las reporta
// aparte como "unavailable".
//
//   - quick: solo fuentes baratas (lookup + wordlist reducida).
//   - default/passive: lookups, wordlist, patrones y binarios detectados.
//   - comprehensive: todo lo registrado que esté disponible.
func (r *Registry) ForProfile(profile Profile) []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var selected []Source
	for _, name := range r.order {
		s := r.byName[name]
		if !s.Available() {
			continue
		}
		if profile == ProfileQuick {
			if s.Kind() != KindLookup && s.Kind() != KindWordlist {
				continue
			}
		}
		selected = append(selected, s)
	}
	return selected
}

// Unavailable devuelve los nombres de fuentes registradas que no pueden
// ejecutarse (binario ausente). No es un error: es un flag de capacidad.
func (r *Registry) Unavailable() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []string
	for _, name := range r.order {
		if !r.byName[name].Available() {
			missing = append(missing, name)
		}
	}
	return missing
}
