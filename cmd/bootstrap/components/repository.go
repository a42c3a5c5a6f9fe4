package components

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"spa-loyalty/internal/infra/db"
	"spa-loyalty/internal/infra/readstore"
	"spa-loyalty/internal/infra/uow"
	"spa-loyalty/internal/usecase/queries"
	"spa-loyalty/internal/usecase/shared"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		NewRateLimitRepository,
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(queries.CouponReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewRateLimitRepository(u shared.UnitOfWork) shared.RateLimitRepository {
	return u.RateLimits()
}
