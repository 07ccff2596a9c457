package authz

import (
	"strings"

	"github.com/MarcGrol/equipmentshop/services/backendapi"
)

// Policy maps each role to the route prefixes it may visit. Public prefixes are
// open to everybody, including anonymous visitors. Task prefixes are public but
// only accept calls delivered by the task queue.
type Policy struct {
	Public []string
	Tasks  []string
	Roles  map[backendapi.Role][]string
}

func DefaultPolicy() Policy {
	return Policy{
		Public: []string{"/session", "/pubsub", "/api", "/_ah"},
		Tasks:  []string{"/api/checkout/statuscheck"},
		Roles: map[backendapi.Role][]string{
			backendapi.RoleAdmin:    {"/admin"},
			backendapi.RoleVendor:   {"/vendor"},
			backendapi.RoleCustomer: {"/cart", "/checkout", "/orders"},
		},
	}
}

func (p Policy) IsPublic(path string) bool {
	return matchesAny(path, p.Public)
}

func (p Policy) IsTask(path string) bool {
	return matchesAny(path, p.Tasks)
}

func (p Policy) Allows(role backendapi.Role, path string) bool {
	if p.IsPublic(path) {
		return true
	}
	return matchesAny(path, p.Roles[role])
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
