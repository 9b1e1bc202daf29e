package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

// EnforceRequest asks whether a role may perform an action on a
// resource. Roles are the fixed employee/manager/admin set, so
// policies ship with the binary instead of a policy store.
type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies: role, resource, action. Managers inherit employee
// permissions, admins inherit manager permissions.
var policies = [][]string{
	{"employee", "attendance", "create"},
	{"employee", "attendance", "read"},
	{"employee", "geolocation", "verify"},
	{"employee", "salary", "read"},
	{"employee", "salary", "calculate"},
	{"employee", "request", "create"},
	{"employee", "request", "read"},

	{"manager", "attendance", "read_all"},
	{"manager", "request", "review"},

	{"admin", "salary", "mark_paid"},
	{"admin", "penalty", "create"},
}

var roleInheritance = [][]string{
	{"manager", "employee"},
	{"admin", "manager"},
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range roleInheritance {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
