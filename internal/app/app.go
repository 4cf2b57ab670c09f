package app

import (
	"log/slog"

	"github.com/addy/pointing-poker-api/internal/config"
	http_health "github.com/addy/pointing-poker-api/internal/delivery/http/health"
	http_init "github.com/addy/pointing-poker-api/internal/delivery/http/init"
	http_room "github.com/addy/pointing-poker-api/internal/delivery/http/room"
	http_voting "github.com/addy/pointing-poker-api/internal/delivery/http/voting"
	ws_room "github.com/addy/pointing-poker-api/internal/delivery/ws/room"
	infra_pg_init "github.com/addy/pointing-poker-api/internal/infra/postgres/init"
	infra_postgres_room "github.com/addy/pointing-poker-api/internal/infra/postgres/room"
	infra_postgres_vote "github.com/addy/pointing-poker-api/internal/infra/postgres/vote"
	infra_redis_activity "github.com/addy/pointing-poker-api/internal/infra/redis/activity"
	infra_redis_init "github.com/addy/pointing-poker-api/internal/infra/redis/init"
	usecase_room "github.com/addy/pointing-poker-api/internal/usecase/room"
	usecase_vote "github.com/addy/pointing-poker-api/internal/usecase/vote"
)

func Go(cfg *config.Config) {
	const activityKey = "room_activity"

	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
	infra_pg_init.MustMigrate(pgConn)

	roomRepo := infra_postgres_room.New(pgConn)
	voteRepo := infra_postgres_vote.New(pgConn)
	activity := infra_redis_activity.New(redisConn, activityKey)

	hub := ws_room.NewHub(slog.Default())

	roomUC := usecase_room.New(roomRepo, hub, activity, cfg.Rooms.CleanupEvery, cfg.Rooms.IdleTTL)
	voteUC := usecase_vote.New(voteRepo, roomRepo, hub,
		usecase_vote.WithActivityToucher(activity))

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_health.New())
	controllerPool.Add(http_room.New(roomUC))
	controllerPool.Add(http_voting.New(voteUC))
	controllerPool.Add(ws_room.NewController(hub, roomUC))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
