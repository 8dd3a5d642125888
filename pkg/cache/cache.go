// Package cache Redis üzerinde ilan görüntülenme sayaçlarını tutar.
// Sayaçlar cron ile periyodik olarak ListingStats tablosuna aktarılır.
// Redis'e ulaşılamazsa client nil kalır ve sayaçlar devre dışı kalır;
// görüntülenme kayıtları yine de veritabanına yazılır.
package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

const viewKeyPrefix = "basera:views:"

func InitRedis(addr, password string) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, view counters disabled: %v", err)
		return
	}

	Client = client
	log.Println("Redis connected successfully!")
}

func viewKey(listingID uint) string {
	return viewKeyPrefix + strconv.FormatUint(uint64(listingID), 10)
}

// IncrementViews ilanın günlük sayaç değerini artırır
func IncrementViews(ctx context.Context, listingID uint) error {
	if Client == nil {
		return nil
	}
	return Client.Incr(ctx, viewKey(listingID)).Err()
}

// DrainViews tüm bekleyen sayaçları okuyup sıfırlar ve
// listing id -> görüntülenme sayısı haritası döner
func DrainViews(ctx context.Context) (map[uint]int64, error) {
	if Client == nil {
		return nil, nil
	}

	counts := make(map[uint]int64)

	iter := Client.Scan(ctx, 0, viewKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		val, err := Client.GetDel(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return counts, fmt.Errorf("could not drain view counter %s: %v", key, err)
		}

		id, err := strconv.ParseUint(key[len(viewKeyPrefix):], 10, 32)
		if err != nil {
			continue
		}
		n, _ := strconv.ParseInt(val, 10, 64)
		counts[uint(id)] += n
	}
	if err := iter.Err(); err != nil {
		return counts, err
	}

	return counts, nil
}
