package repo

import "context"

type SchemaTxQueryer interface {
	CreateRoleIfNotExists(ctx context.Context, role Role) error
	GrantPrivileges(ctx context.Context, role Role) error
	ChangePasswords(ctx context.Context, roles []Role, passwords []string) error
}

type Schema interface {
	Tx(Tx) SchemaTxQueryer
}
