package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/PranaviDevireddy/cs212project/internal/domain"
)

// claimScript performs the duplicate checks and both claims as one atomic
// unit server-side, mirroring what the memory registry does under its mutex.
var claimScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 'roll'
end
if redis.call('EXISTS', KEYS[2]) == 1 then
  return 'addr'
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[2])
return 'ok'
`)

// Registry is a Redis-backed implementation of app.Registry. Claims live as
// plain keys, recorded results as a list so completion order survives.
type Registry struct {
	client *redis.Client
	rng    domain.RollRange
}

func NewRegistry(client *redis.Client, rng domain.RollRange) *Registry {
	return &Registry{client: client, rng: rng}
}

func (r *Registry) TryRegister(ctx context.Context, address, roll string) error {
	if !r.rng.Contains(roll) {
		return domain.ErrUnauthorizedRoll
	}

	verdict, err := claimScript.Run(ctx, r.client,
		[]string{r.rollKey(roll), r.addrKey(address)},
		address, roll,
	).Text()
	if err != nil {
		return fmt.Errorf("claim script: %w", err)
	}
	switch verdict {
	case "ok":
		return nil
	case "roll":
		return domain.ErrDuplicateRoll
	case "addr":
		return domain.ErrDuplicateAddress
	default:
		return fmt.Errorf("claim script: unexpected verdict %q", verdict)
	}
}

func (r *Registry) RecordResult(ctx context.Context, res domain.Result) error {
	exists, err := r.client.Exists(ctx, r.rollKey(res.Roll)).Result()
	if err != nil {
		return fmt.Errorf("check claim: %w", err)
	}
	if exists == 0 {
		return domain.ErrResultNotRegistered
	}

	set, err := r.client.SetNX(ctx, r.recordedKey(res.Roll), "1", 0).Result()
	if err != nil {
		return fmt.Errorf("mark recorded: %w", err)
	}
	if !set {
		return domain.ErrDuplicateRoll
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := r.client.RPush(ctx, r.resultsKey(), raw).Err(); err != nil {
		return fmt.Errorf("push result: %w", err)
	}
	return nil
}

func (r *Registry) Results(ctx context.Context) ([]domain.Result, error) {
	raws, err := r.client.LRange(ctx, r.resultsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	results := make([]domain.Result, 0, len(raws))
	for _, raw := range raws {
		var res domain.Result
		if err := json.Unmarshal([]byte(raw), &res); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Registry) rollKey(roll string) string {
	return "quiz:claim:roll:" + roll
}

func (r *Registry) addrKey(address string) string {
	return "quiz:claim:addr:" + address
}

func (r *Registry) recordedKey(roll string) string {
	return "quiz:recorded:" + roll
}

func (r *Registry) resultsKey() string {
	return "quiz:results"
}
