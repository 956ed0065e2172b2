package rbac

import (
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
)

type mockRepo struct {
	userRoles map[string][]UserRole
	rolePerms map[string][]RolePermission
}

func (m *mockRepo) GetUserRoles(companyID string) ([]UserRole, error) {
	return m.userRoles[companyID], nil
}

func (m *mockRepo) GetRolePermissions(companyID string) ([]RolePermission, error) {
	return m.rolePerms[companyID], nil
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	m, err := model.NewModelFromString(`
[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`)
	assert.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)
	return e
}

func TestRBACService_Enforce(t *testing.T) {
	companyID := "company-1"
	repo := &mockRepo{
		userRoles: map[string][]UserRole{
			companyID: {{UserID: "user-1", RoleID: "role-manager"}},
		},
		rolePerms: map[string][]RolePermission{
			companyID: {
				{RoleID: "role-manager", Resource: "time_entry", Action: "approve"},
				{RoleID: "role-manager", Resource: "invoice", Action: "read"},
			},
		},
	}

	svc := NewService(repo, newTestEnforcer(t))

	allowed, err := svc.Enforce(EnforceRequest{
		UserID: "user-1", CompanyID: companyID, Resource: "time_entry", Action: "approve",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.Enforce(EnforceRequest{
		UserID: "user-1", CompanyID: companyID, Resource: "invoice", Action: "issue",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestRBACService_Enforce_UserWithoutRole(t *testing.T) {
	companyID := "company-1"
	repo := &mockRepo{
		userRoles: map[string][]UserRole{
			companyID: {{UserID: "user-1", RoleID: "role-owner"}},
		},
		rolePerms: map[string][]RolePermission{
			companyID: {{RoleID: "role-owner", Resource: "company", Action: "update"}},
		},
	}

	svc := NewService(repo, newTestEnforcer(t))

	allowed, err := svc.Enforce(EnforceRequest{
		UserID: "user-2", CompanyID: companyID, Resource: "company", Action: "update",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestRBACService_Enforce_ReloadsPerCompany(t *testing.T) {
	repo := &mockRepo{
		userRoles: map[string][]UserRole{
			"company-a": {{UserID: "user-1", RoleID: "role-owner"}},
			"company-b": {{UserID: "user-2", RoleID: "role-owner"}},
		},
		rolePerms: map[string][]RolePermission{
			"company-a": {{RoleID: "role-owner", Resource: "project", Action: "create"}},
			"company-b": {{RoleID: "role-owner", Resource: "project", Action: "create"}},
		},
	}

	svc := NewService(repo, newTestEnforcer(t))

	allowed, err := svc.Enforce(EnforceRequest{
		UserID: "user-1", CompanyID: "company-a", Resource: "project", Action: "create",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	// user-1 has no role in company-b; the previous load must not leak.
	allowed, err = svc.Enforce(EnforceRequest{
		UserID: "user-1", CompanyID: "company-b", Resource: "project", Action: "create",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)
}
