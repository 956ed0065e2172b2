package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer builds an enforcer from the model file only; policies are
// loaded per company at runtime, never from a policy csv.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
