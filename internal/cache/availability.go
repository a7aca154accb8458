package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
)

// Memoização de curta duração dos horários livres de um dia. Invalidada
// explicitamente em toda escrita que pode mudar a agenda; nunca é usada
// como mecanismo de consistência.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{
		rdb: rdb,
		ttl: 60 * time.Second,
	}
}

func slotsKey(barbershopID, barberID, serviceID uint, date string) string {
	return fmt.Sprintf("availability:%d:%d:%d:%s", barbershopID, barberID, serviceID, date)
}

func dayPattern(barbershopID, barberID uint, date string) string {
	return fmt.Sprintf("availability:%d:%d:*:%s", barbershopID, barberID, date)
}

func (c *AvailabilityCache) GetSlots(
	ctx context.Context,
	barbershopID, barberID, serviceID uint,
	date string,
) ([]domain.TimeSlot, bool) {

	raw, err := c.rdb.Get(ctx, slotsKey(barbershopID, barberID, serviceID, date)).Result()
	if err != nil {
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}

	return slots, true
}

func (c *AvailabilityCache) SetSlots(
	ctx context.Context,
	barbershopID, barberID, serviceID uint,
	date string,
	slots []domain.TimeSlot,
) {
	b, err := json.Marshal(slots)
	if err != nil {
		return
	}

	// cache é best-effort: erro de Redis nunca propaga
	c.rdb.Set(ctx, slotsKey(barbershopID, barberID, serviceID, date), b, c.ttl)
}

// InvalidateDay remove os horários memorizados de um barbeiro em uma data.
func (c *AvailabilityCache) InvalidateDay(
	ctx context.Context,
	barbershopID, barberID uint,
	date string,
) {
	iter := c.rdb.Scan(ctx, 0, dayPattern(barbershopID, barberID, date), 50).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}

// InvalidateBarber remove tudo de um barbeiro (mudança de working hours).
func (c *AvailabilityCache) InvalidateBarber(
	ctx context.Context,
	barbershopID, barberID uint,
) {
	pattern := fmt.Sprintf("availability:%d:%d:*", barbershopID, barberID)
	iter := c.rdb.Scan(ctx, 0, pattern, 50).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}

// InvalidateShop remove tudo da barbearia (bloqueios de agenda).
func (c *AvailabilityCache) InvalidateShop(
	ctx context.Context,
	barbershopID uint,
) {
	pattern := fmt.Sprintf("availability:%d:*", barbershopID)
	iter := c.rdb.Scan(ctx, 0, pattern, 50).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}
