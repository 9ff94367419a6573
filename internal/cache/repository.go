package cache

import (
	"context"
	"log/slog"
	"strconv"

	"gorm.io/gorm"

	"github.com/yukikurage/tree-api/internal/metrics"
	"github.com/yukikurage/tree-api/internal/models"
	"github.com/yukikurage/tree-api/internal/repository"
	"github.com/yukikurage/tree-api/internal/utils"
)

const eagerSuffix = "eager"

// Repository decorates a repository with read-through caching of single
// record lookups. Writes evict the record; listings always hit the store.
// Cache failures are logged and the call falls through to the store.
//
// A write made through WithTx is not visible to other readers until the
// transaction commits, and a reader in between may cache the old row again.
// Callers that write inside a transaction call Evict once it has committed.
type Repository[T any, P models.EntityPtr[T]] struct {
	next   repository.Repository[T]
	store  *Store
	log    *slog.Logger
	entity string
}

// Wrap returns next decorated with store. A nil store returns next unchanged.
func Wrap[T any, P models.EntityPtr[T]](next repository.Repository[T], store *Store, log *slog.Logger) repository.Repository[T] {
	if store == nil {
		return next
	}
	if log == nil {
		log = slog.Default()
	}
	return &Repository[T, P]{
		next:   next,
		store:  store,
		log:    log,
		entity: P(new(T)).EntityName(),
	}
}

func (r *Repository[T, P]) WithTx(tx *gorm.DB) repository.Repository[T] {
	return &Repository[T, P]{
		next:   r.next.WithTx(tx),
		store:  r.store,
		log:    r.log,
		entity: r.entity,
	}
}

func (r *Repository[T, P]) Save(ctx context.Context, ent *T) error {
	if err := r.next.Save(ctx, ent); err != nil {
		return err
	}
	r.evict(ctx, P(ent).GetID())
	return nil
}

func (r *Repository[T, P]) DeleteByID(ctx context.Context, id uint64) error {
	if err := r.next.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

// Evict drops the cached entries of ids.
func (r *Repository[T, P]) Evict(ctx context.Context, ids ...uint64) {
	for _, id := range ids {
		r.evict(ctx, id)
	}
}

func (r *Repository[T, P]) FindByID(ctx context.Context, id uint64) (*T, error) {
	return r.readThrough(ctx, r.key(id), func() (*T, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *Repository[T, P]) FindOneWithEagerRelationships(ctx context.Context, id uint64) (*T, error) {
	return r.readThrough(ctx, r.key(id)+":"+eagerSuffix, func() (*T, error) {
		return r.next.FindOneWithEagerRelationships(ctx, id)
	})
}

// FindByIDForUpdate must observe the locked row, so it never reads the cache.
func (r *Repository[T, P]) FindByIDForUpdate(ctx context.Context, id uint64) (*T, error) {
	return r.next.FindByIDForUpdate(ctx, id)
}

func (r *Repository[T, P]) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return r.next.ExistsByID(ctx, id)
}

func (r *Repository[T, P]) FindAll(ctx context.Context, sort utils.Sort) ([]T, error) {
	return r.next.FindAll(ctx, sort)
}

func (r *Repository[T, P]) FindAllPaged(ctx context.Context, page utils.Pageable) ([]T, int64, error) {
	return r.next.FindAllPaged(ctx, page)
}

func (r *Repository[T, P]) FindAllWithEagerRelationships(ctx context.Context, sort utils.Sort) ([]T, error) {
	return r.next.FindAllWithEagerRelationships(ctx, sort)
}

func (r *Repository[T, P]) FindAllWithEagerRelationshipsPaged(ctx context.Context, page utils.Pageable) ([]T, int64, error) {
	return r.next.FindAllWithEagerRelationshipsPaged(ctx, page)
}

func (r *Repository[T, P]) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx)
}

func (r *Repository[T, P]) readThrough(ctx context.Context, key string, load func() (*T, error)) (*T, error) {
	cached := new(T)
	found, err := r.store.Get(ctx, key, cached)
	switch {
	case err != nil:
		metrics.RecordCacheRequest(r.entity, metrics.CacheError)
		r.log.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
	case found:
		metrics.RecordCacheRequest(r.entity, metrics.CacheHit)
		return cached, nil
	default:
		metrics.RecordCacheRequest(r.entity, metrics.CacheMiss)
	}

	ent, err := load()
	if err != nil {
		return nil, err
	}

	if err := r.store.Set(ctx, key, ent); err != nil {
		r.log.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return ent, nil
}

func (r *Repository[T, P]) evict(ctx context.Context, id uint64) {
	key := r.key(id)
	if err := r.store.Delete(ctx, key, key+":"+eagerSuffix); err != nil {
		r.log.Warn("cache eviction failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (r *Repository[T, P]) key(id uint64) string {
	return r.store.Key(r.entity, strconv.FormatUint(id, 10))
}
