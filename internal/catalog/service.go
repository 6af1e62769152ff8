package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-kanopi/internal/common"
	"github.com/noah-isme/backend-kanopi/internal/obs"
	"github.com/noah-isme/backend-kanopi/internal/pricing"
	"github.com/noah-isme/backend-kanopi/internal/repo"
)

type materialSource interface {
	Get(ctx context.Context, id uuid.UUID) (pricing.Material, error)
	List(ctx context.Context, limit, offset int) ([]pricing.Material, error)
	Count(ctx context.Context) (int64, error)
	Set(ctx context.Context) (pricing.MaterialSet, error)
}

type catalogSource interface {
	Get(ctx context.Context, id uuid.UUID) (pricing.Catalog, error)
	List(ctx context.Context, limit, offset int) ([]pricing.Catalog, error)
	Count(ctx context.Context) (int64, error)
}

type zoneSource interface {
	Get(ctx context.Context, id uuid.UUID) (pricing.Zone, error)
	List(ctx context.Context) ([]pricing.Zone, error)
}

// Service assembles the engine's read-only snapshots and serves reference
// listings. It is the only layer that touches storage; the engine below it
// never loads anything lazily.
type Service struct {
	materials materialSource
	catalogs  catalogSource
	zones     zoneSource
	cache     *Cache

	defaultPage  int
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Materials    materialSource
	Catalogs     catalogSource
	Zones        zoneSource
	Cache        *Cache
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service with sane listing defaults.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Materials == nil || cfg.Catalogs == nil || cfg.Zones == nil {
		return nil, errors.New("catalog: missing data sources")
	}
	s := &Service{
		materials:    cfg.Materials,
		catalogs:     cfg.Catalogs,
		zones:        cfg.Zones,
		cache:        cfg.Cache,
		defaultPage:  cfg.DefaultPage,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
	if s.defaultPage <= 0 {
		s.defaultPage = 1
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = 20
	}
	if s.maxLimit <= 0 {
		s.maxLimit = 100
	}
	return s, nil
}

// Page clamps pagination inputs to the configured bounds.
func (s *Service) Page(page, limit int) (int, int) {
	if page <= 0 {
		page = s.defaultPage
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return page, limit
}

type materialPage struct {
	Items []pricing.Material `json:"items"`
	Total int64              `json:"total"`
}

// ListMaterials returns a page of materials plus the total count.
func (s *Service) ListMaterials(ctx context.Context, page, limit int) ([]pricing.Material, int64, error) {
	page, limit = s.Page(page, limit)
	key := ListingKey("materials", strconv.Itoa(page), strconv.Itoa(limit))

	var cached materialPage
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached.Items, cached.Total, nil
	}

	items, err := s.materials.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.materials.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	_ = s.cache.SetJSON(ctx, key, materialPage{Items: items, Total: total})
	return items, total, nil
}

type catalogPage struct {
	Items []pricing.Catalog `json:"items"`
	Total int64             `json:"total"`
}

// ListCatalogs returns a page of catalog headers plus the total count.
func (s *Service) ListCatalogs(ctx context.Context, page, limit int) ([]pricing.Catalog, int64, error) {
	page, limit = s.Page(page, limit)
	key := ListingKey("catalogs", strconv.Itoa(page), strconv.Itoa(limit))

	var cached catalogPage
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached.Items, cached.Total, nil
	}

	items, err := s.catalogs.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.catalogs.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	_ = s.cache.SetJSON(ctx, key, catalogPage{Items: items, Total: total})
	return items, total, nil
}

// GetCatalog returns one catalog with components and addons.
func (s *Service) GetCatalog(ctx context.Context, id uuid.UUID) (pricing.Catalog, error) {
	cat, err := s.catalogs.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return pricing.Catalog{}, common.NewAppError("NOT_FOUND", "catalog not found", http.StatusNotFound, err)
	}
	return cat, err
}

// ListZones returns every zone.
func (s *Service) ListZones(ctx context.Context) ([]pricing.Zone, error) {
	return s.zones.List(ctx)
}

// LoadSnapshot resolves everything a pricing evaluation needs into one
// immutable snapshot: the full material set, the requested catalog (when any)
// and the requested zone (when any). A zone that does not exist is left nil on
// the snapshot so the engine can apply its own unresolved-zone policy.
func (s *Service) LoadSnapshot(ctx context.Context, catalogID, zoneID *uuid.UUID) (pricing.Snapshot, error) {
	key := snapshotCacheKey(catalogID, zoneID)
	var snap pricing.Snapshot
	if hit, err := s.cache.GetJSON(ctx, key, &snap); err == nil && hit {
		obs.SnapshotCacheTotal.WithLabelValues("hit").Inc()
		return snap, nil
	}
	obs.SnapshotCacheTotal.WithLabelValues("miss").Inc()

	mats, err := s.materials.Set(ctx)
	if err != nil {
		return pricing.Snapshot{}, err
	}
	snap.Materials = mats

	if catalogID != nil {
		cat, err := s.catalogs.Get(ctx, *catalogID)
		if errors.Is(err, repo.ErrNotFound) {
			return pricing.Snapshot{}, common.NewAppError("NOT_FOUND", "catalog not found", http.StatusNotFound, err)
		}
		if err != nil {
			return pricing.Snapshot{}, err
		}
		snap.Catalog = &cat
	}

	if zoneID != nil {
		zone, err := s.zones.Get(ctx, *zoneID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			// leave nil; the engine decides whether zoneless pricing is allowed
		case err != nil:
			return pricing.Snapshot{}, err
		default:
			snap.Zone = &zone
		}
	}

	_ = s.cache.SetJSON(ctx, key, snap)
	return snap, nil
}

func snapshotCacheKey(catalogID, zoneID *uuid.UUID) string {
	cat, zone := "none", "none"
	if catalogID != nil {
		cat = catalogID.String()
	}
	if zoneID != nil {
		zone = zoneID.String()
	}
	return SnapshotKey(cat, zone)
}

// InvalidateSnapshots flushes all cached snapshots. Called after admin
// mutations of materials, catalogs or zones so stale prices never leak into
// new evaluations. Issued documents are unaffected: they keep their own
// stored copies.
func (s *Service) InvalidateSnapshots(ctx context.Context) error {
	return s.cache.InvalidatePrefix(ctx, keyPrefixSnapshot)
}

// InvalidateListings flushes cached listing pages.
func (s *Service) InvalidateListings(ctx context.Context) error {
	return s.cache.InvalidatePrefix(ctx, keyPrefixListing)
}
