package cache

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis client. It backs the profile number
// counters and public view counts. A nil Client degrades gracefully:
// profiles can still be created, they just cannot be published until
// Redis is back.
var Client *redis.Client

const globalPrefix = "HS"

func Init() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	if opts, err := redis.ParseURL(addr); err == nil {
		Client = redis.NewClient(opts)
	} else {
		Client = redis.NewClient(&redis.Options{Addr: addr})
	}

	if err := Client.Ping(context.Background()).Err(); err != nil {
		log.Println("redis unavailable, profile numbering disabled:", err)
	}
}

// NextGlobalNumber allocates the next directory-wide profile number,
// e.g. HS-00023. Numbers are allocated once and never reused.
func NextGlobalNumber(ctx context.Context) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("redis not initialized")
	}
	n, err := Client.Incr(ctx, "profileno:global").Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d", globalPrefix, n), nil
}

// NextGroupNumber allocates the next number within one group, using the
// group's short code, e.g. JPR-0042.
func NextGroupNumber(ctx context.Context, groupID uint, code string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("redis not initialized")
	}
	n, err := Client.Incr(ctx, fmt.Sprintf("profileno:group:%d", groupID)).Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", strings.ToUpper(code), n), nil
}

// BumpViews increments the public view count for a profile number.
// Best-effort: callers ignore the error.
func BumpViews(ctx context.Context, globalNo string) error {
	if Client == nil || globalNo == "" {
		return nil
	}
	return Client.Incr(ctx, "views:profile:"+globalNo).Err()
}

// Views returns the public view count for a profile number, zero when
// unknown.
func Views(ctx context.Context, globalNo string) int64 {
	if Client == nil || globalNo == "" {
		return 0
	}
	n, err := Client.Get(ctx, "views:profile:"+globalNo).Int64()
	if err != nil {
		return 0
	}
	return n
}
