package dedupe

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobby-engine/internal/domain"
)

// ListingStore is the slice of the store the resolver needs.
type ListingStore interface {
	FindBySourceID(ctx context.Context, source, sourceJobID string) (*domain.Listing, error)
	FindByCanonicalURL(ctx context.Context, canonical string) (*domain.Listing, error)
	FindByFingerprint(ctx context.Context, fingerprint string) (*domain.Listing, error)
	CreateListing(ctx context.Context, l *domain.Listing) (int64, error)
}

// Result is the dedup verdict for one incoming posting.
type Result struct {
	ListingID int64
	IsNew     bool
}

type Resolver struct {
	Store ListingStore
}

// Resolve matches an incoming posting against the store, tier by tier, and
// inserts it when nothing matches. Malformed input never fails resolution; it
// just drops the tiers that can't be computed. Store errors propagate so the
// caller can treat the posting as skipped without aborting its run.
func (r Resolver) Resolve(ctx context.Context, l domain.Listing) (Result, error) {
	l.CanonicalURL = CanonicalURL(l.ApplyURL)
	l.Fingerprint = Fingerprint(l.Company, l.Title, l.Location, postedAtKey(l.PostedAt))

	// Tier 1: upstream identity, when the source provided one.
	if l.SourceJobID != "" {
		existing, err := r.Store.FindBySourceID(ctx, l.Source, l.SourceJobID)
		if err != nil {
			return Result{}, fmt.Errorf("find by source id: %w", err)
		}
		if existing != nil {
			return Result{ListingID: existing.ID}, nil
		}
	}

	// Tier 2: canonical apply URL.
	if l.CanonicalURL != "" {
		existing, err := r.Store.FindByCanonicalURL(ctx, l.CanonicalURL)
		if err != nil {
			return Result{}, fmt.Errorf("find by canonical url: %w", err)
		}
		if existing != nil {
			return Result{ListingID: existing.ID}, nil
		}
	}

	// Tier 3: content fingerprint.
	existing, err := r.Store.FindByFingerprint(ctx, l.Fingerprint)
	if err != nil {
		return Result{}, fmt.Errorf("find by fingerprint: %w", err)
	}
	if existing != nil {
		return Result{ListingID: existing.ID}, nil
	}

	if l.FirstSeenAt.IsZero() {
		l.FirstSeenAt = time.Now().UTC()
	}
	id, err := r.Store.CreateListing(ctx, &l)
	if err != nil {
		return Result{}, fmt.Errorf("create listing: %w", err)
	}
	log.Printf("[dedupe] new listing id=%d title=%q company=%q", id, l.Title, l.Company)
	return Result{ListingID: id, IsNew: true}, nil
}

func postedAtKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
