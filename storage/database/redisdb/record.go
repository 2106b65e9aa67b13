// Package redisdb stores records in redis: a set of ids per collection and one JSON
// document per record.
package redisdb

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/core/collection"
)

const keyPrefix = "frontier:"

// Open connects to redis and pings it.
func Open(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return rdb, nil
}

func idsKey(name string) string {
	return keyPrefix + name
}

func recordKey(name, id string) string {
	return keyPrefix + name + ":" + id
}

type recordRepository struct {
	rdb *redis.Client
}

func NewRecordRepository(rdb *redis.Client) collection.Repository {
	return &recordRepository{rdb: rdb}
}

func (repo *recordRepository) All(ctx context.Context, name string) ([]core.Record, error) {
	ids, err := repo.rdb.SMembers(ctx, idsKey(name)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, errors.Wrap(err, "reading ids")
	}
	if len(ids) == 0 {
		return []core.Record{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, recordKey(name, id))
	}
	docs, err := repo.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "reading records")
	}

	recs := make([]core.Record, 0, len(docs))
	for i, doc := range docs {
		s, ok := doc.(string)
		if !ok {
			continue // id without a document: deleted concurrently
		}
		rec, err := decode(s)
		if err != nil {
			return nil, errors.Wrap(err, ids[i])
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo *recordRepository) Get(ctx context.Context, name, id string) (core.Record, error) {
	doc, err := repo.rdb.Get(ctx, recordKey(name, id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, collection.ErrNotFound
		}
		return nil, errors.Wrap(err, "reading record")
	}
	return decode(doc)
}

func (repo *recordRepository) Insert(ctx context.Context, name, id string, rec core.Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	_, err = repo.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, idsKey(name), id)
		pipe.Set(ctx, recordKey(name, id), doc, 0)
		return nil
	})
	return errors.Wrap(err, "inserting record")
}

func (repo *recordRepository) Replace(ctx context.Context, name, id string, rec core.Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	// SET XX only writes an existing key
	ok, err := repo.rdb.SetXX(ctx, recordKey(name, id), doc, 0).Result()
	if err != nil {
		return errors.Wrap(err, "replacing record")
	}
	if !ok {
		return collection.ErrNotFound
	}
	return nil
}

func (repo *recordRepository) Delete(ctx context.Context, name string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, recordKey(name, id))
		members = append(members, id)
	}
	_, err := repo.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, idsKey(name), members...)
		pipe.Del(ctx, keys...)
		return nil
	})
	return errors.Wrap(err, "deleting records")
}

func decode(doc string) (core.Record, error) {
	var rec core.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, errors.Wrap(err, "decoding record")
	}
	return rec, nil
}
