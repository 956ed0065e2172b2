package rbac

import (
	"gorm.io/gorm"
)

type Repository interface {
	GetUserRoles(companyID string) ([]UserRole, error)
	GetRolePermissions(companyID string) ([]RolePermission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUserRoles(companyID string) ([]UserRole, error) {
	var rows []UserRole
	err := r.db.
		Table("user_roles").
		Select("user_roles.user_id::text AS user_id, user_roles.role_id::text AS role_id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.company_id = ?", companyID).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) GetRolePermissions(companyID string) ([]RolePermission, error) {
	var rows []RolePermission
	err := r.db.
		Table("role_permissions").
		Select("role_permissions.role_id::text AS role_id, role_permissions.resource, role_permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.company_id = ?", companyID).
		Scan(&rows).Error
	return rows, err
}
