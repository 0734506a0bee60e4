package admin

import (
	"context"

	"liyu1981.xyz/home-controller-schema/pkg/db"
	"liyu1981.xyz/home-controller-schema/pkg/migrate"
)

//go:generate mockgen -source=admin.go -destination=mocks/mock_admin.go -package=mocks

type ISchema interface {
	Status(ctx context.Context) (*migrate.SchemaStatus, error)
	Up(ctx context.Context) ([]uint, error)
	Down(ctx context.Context, steps int) ([]uint, error)
	DDL(ctx context.Context) (string, error)
}

type Admin struct {
	Db     db.DB
	Schema ISchema
}

type ServiceOpts struct {
	Schema ISchema
}

func (a *Admin) WithServices(opts ServiceOpts) *Admin {
	if opts.Schema != nil {
		a.Schema = opts.Schema
	}
	return a
}
