package iointegration

import (
	"context"
	"log/slog"

	"github.com/fayvad/fbs/internal/iodiscovery"
	"github.com/fayvad/fbs/pkg/cache"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/fayvad/fbs/pkg/schema"
)

// RefreshDiscovery runs a discovery against the reference database and
// replaces the stored and cached results.
func (s *Service) RefreshDiscovery(
	ctx context.Context,
	domain, kind string,
) (*discovery.Result, error) {
	k, err := discovery.ParseKind(kind)
	if err != nil {
		return nil, iodiscovery.UnknownKindError(kind)
	}
	res, err := s.discoverer.Discover(ctx, s.reference, domain, k)
	if err != nil {
		return nil, err
	}
	err = s.saveDiscovery(ctx, domain, s.reference.Database(), s.cfg.Schema.TablePrefix, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CachedDiscovery returns the latest result of a discovery without
// calling Odoo. Empty name means the reference database.
func (s *Service) CachedDiscovery(
	ctx context.Context,
	domain, kind, name string,
) (*discovery.Result, error) {
	k, err := discovery.ParseKind(kind)
	if err != nil {
		return nil, iodiscovery.UnknownKindError(kind)
	}
	if name == "" {
		name = s.reference.Database()
	}
	return s.loadDiscovery(ctx, domain, k, name)
}

// saveDiscovery upserts the durable record of a result and puts it into
// the cache. Table names of models use the prefix of the solution.
// Cache failures are logged only. If the new result cannot be cached,
// the old entry is evicted so that reads fall back to the store.
func (s *Service) saveDiscovery(
	ctx context.Context,
	domain, name, tablePrefix string,
	res *discovery.Result,
) error {
	var def schema.Definition
	if res.Type == discovery.Models {
		def = make(schema.Definition)
		for _, m := range res.Models {
			table, _, td := schema.ModelTable(tablePrefix, m)
			def[table] = td
		}
	}
	rec, err := records.NewDiscovery(string(res.Type), domain, name, res, def)
	if err != nil {
		return err
	}
	if err = s.store.UpsertDiscovery(ctx, rec); err != nil {
		return err
	}
	key := cache.Key(domain, string(res.Type), name)
	if err = s.cache.Set(ctx, key, res); err != nil {
		slog.Warn("Cannot cache discovery", "key", key, "error", err)
		if err = s.cache.Delete(ctx, key); err != nil {
			slog.Warn("Cannot evict stale discovery", "key", key, "error", err)
		}
	}
	return nil
}

// loadDiscovery reads a result from the cache, falling back to the
// store.
func (s *Service) loadDiscovery(
	ctx context.Context,
	domain string,
	kind discovery.Kind,
	name string,
) (*discovery.Result, error) {
	key := cache.Key(domain, string(kind), name)
	var res discovery.Result
	ok, err := s.cache.Get(ctx, key, &res)
	if err != nil {
		slog.Warn("Discovery cache read failed", "key", key, "error", err)
	}
	if ok {
		return &res, nil
	}

	rec, err := s.store.Discovery(ctx, string(kind), domain, name, records.DefaultVersion)
	if isNotFound(err) {
		return nil, DiscoveryNotFoundError(domain, string(kind), name)
	}
	if err != nil {
		return nil, err
	}
	if err = records.Decode(rec.Metadata, &res); err != nil {
		return nil, err
	}
	if err = s.cache.Set(ctx, key, &res); err != nil {
		slog.Warn("Cannot cache discovery", "key", key, "error", err)
	}
	return &res, nil
}

// solutionDiscoveries collects stored results of all kinds for a
// solution. Kinds that were never discovered are skipped.
func (s *Service) solutionDiscoveries(
	ctx context.Context,
	sol *records.SolutionSchema,
) (discovery.Discoveries, error) {
	var res discovery.Discoveries
	for _, k := range discovery.Kinds {
		r, err := s.loadDiscovery(ctx, sol.Domain, k, sol.SolutionName)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			return res, err
		}
		res.Merge(r)
	}
	return res, nil
}
