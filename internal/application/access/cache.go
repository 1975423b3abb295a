package access

import "sync"

// PermissionCache memoriza la resolución de permisos por (tenant, usuario).
// Invalidate debe llamarse de forma síncrona después de CADA mutación de
// roles o permisos del tenant: no se tolera ventana de lectura obsoleta.
type PermissionCache interface {
	Get(teamID, userID string) ([]string, bool)
	Set(teamID, userID string, permissions []string)
	Invalidate(teamID string)
}

// MemoryCache implementación en memoria, segura para uso concurrente.
type MemoryCache struct {
	mu     sync.RWMutex
	byTeam map[string]map[string][]string
}

// NewMemoryCache construye la caché vacía.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{byTeam: make(map[string]map[string][]string)}
}

// Get devuelve los permisos memorizados del usuario en el tenant.
func (c *MemoryCache) Get(teamID, userID string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	users, ok := c.byTeam[teamID]
	if !ok {
		return nil, false
	}
	perms, ok := users[userID]
	return perms, ok
}

// Set memoriza los permisos del usuario en el tenant.
func (c *MemoryCache) Set(teamID, userID string, permissions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	users, ok := c.byTeam[teamID]
	if !ok {
		users = make(map[string][]string)
		c.byTeam[teamID] = users
	}
	users[userID] = permissions
}

// Invalidate descarta todas las resoluciones del tenant.
func (c *MemoryCache) Invalidate(teamID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byTeam, teamID)
}
