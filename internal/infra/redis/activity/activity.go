package infra_redis_activity

import (
	"context"
	"strconv"
	"time"

	"github.com/addy/pointing-poker-api/internal/model"
	"github.com/go-redis/redis"
)

// Driver keeps a sorted set of room ids scored by their last activity
// time. The idle sweep reads everything below a cutoff.
type Driver struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

func (d *Driver) Touch(_ context.Context, roomID model.RoomID) error {
	member := redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: roomID.String(),
	}

	return d.client.ZAdd(d.key, member).Err()
}

func (d *Driver) IdleBefore(_ context.Context, cutoff time.Time) ([]model.RoomID, error) {
	members, err := d.client.ZRangeByScore(d.key, redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	roomIDs := make([]model.RoomID, 0, len(members))
	for _, member := range members {
		roomID, err := model.ParseRoomID(member)
		if err != nil {
			// A garbage member is dropped rather than blocking the sweep.
			d.client.ZRem(d.key, member)
			continue
		}
		roomIDs = append(roomIDs, roomID)
	}

	return roomIDs, nil
}

func (d *Driver) Forget(_ context.Context, roomID model.RoomID) error {
	return d.client.ZRem(d.key, roomID.String()).Err()
}
