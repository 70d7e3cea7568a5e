// Package orchestrator implements spec §4.5: fan-out to active providers,
// governor-gated concurrent search, dedup/merge of the unified stream,
// enrichment, and aggregated statistics for the probe.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/merge"
	"github.com/scholarfed/engine/app/domain/provider"
	"github.com/scholarfed/engine/app/utils/logger"
	"github.com/scholarfed/engine/config/environment_variables"
)

// channelCapacity is the recommended bounded multi-producer channel
// capacity (spec §5).
const channelCapacity = 256

var enrichmentBackoff = []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}

// Governor is the subset of governor.Governor the orchestrator depends
// on, narrowed to an interface so tests can inject a fake.
type Governor interface {
	Acquire(ctx context.Context, providerID document.ProviderTag) error
	HasBudget(providerID document.ProviderTag) bool
	RecordUsage(providerID document.ProviderTag, n int)
}

// Orchestrator fans a SearchIntent to every active provider and merges
// their outputs into one deduplicated stream.
type Orchestrator struct {
	registry  *provider.Registry
	governor  Governor
	threshold float64
}

// New builds an Orchestrator over registry, gated by governor, with the
// given fuzzy-dedup threshold (spec §9 Open Question), which merge.SameWork
// applies as the minimum author-name Jaccard overlap.
func New(registry *provider.Registry, governor Governor, titleSimilarityThreshold float64) *Orchestrator {
	return &Orchestrator{registry: registry, governor: governor, threshold: titleSimilarityThreshold}
}

// NewFromEnv builds an Orchestrator using the configured fuzzy
// title-similarity threshold (wire entrypoint; spec §9 Open Question
// default 0.90).
func NewFromEnv(registry *provider.Registry, governor Governor) *Orchestrator {
	return New(registry, governor, environment_variables.EnvironmentVariables.TitleSimilarityThreshold)
}

// activeProviders resolves the providers whose capability set supports
// intent AND whose governor currently has budget (spec §4.5 step 1).
func (o *Orchestrator) activeProviders(intent document.SearchIntent) []provider.Adapter {
	var active []provider.Adapter
	for _, adapter := range o.registry.All() {
		if !provider.SupportsIntent(adapter, intent) {
			continue
		}
		if !o.governor.HasBudget(adapter.ID()) {
			continue
		}
		active = append(active, adapter)
	}
	return active
}

// Search executes intent across every active provider concurrently and
// streams deduplicated, fused documents to emit until every producer task
// completes or ctx is cancelled (spec §4.5).
func (o *Orchestrator) Search(ctx context.Context, intent document.SearchIntent, emit func(document.ScholarlyDocument) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	active := o.activeProviders(intent)
	if len(active) == 0 {
		return nil
	}

	frames := make(chan frame, channelCapacity)
	var wg sync.WaitGroup
	for _, adapter := range active {
		wg.Add(1)
		go func(a provider.Adapter) {
			defer wg.Done()
			o.runProvider(ctx, a, intent, frames)
		}(adapter)
	}

	go func() {
		wg.Wait()
		close(frames)
	}()

	dedup := newDedupTable(o.threshold)
	for f := range frames {
		if f.err != nil {
			// Discovery mode already absorbed per-provider errors inside
			// runProvider; any error reaching here is an enrichment-mode
			// error that was either not retry-permitted or exhausted its
			// retries. Log and continue with remaining providers (spec §7).
			logger.GetLogger().WithField("provider", f.err.Provider).
				Warnf("orchestrator: provider error: %v", f.err)
			continue
		}
		for _, doc := range f.docs {
			fused, _ := dedup.Ingest(doc)
			if err := emit(fused); err != nil {
				cancel()
				return err
			}
		}
	}
	return ctx.Err()
}

type frame struct {
	docs []document.ScholarlyDocument
	err  *document.ProviderError
}

// runProvider drives one adapter's search stream, applying the governor
// permit, discovery-mode error absorption, and enrichment-mode retry
// policy (spec §4.5 step 3, §7).
func (o *Orchestrator) runProvider(ctx context.Context, adapter provider.Adapter, intent document.SearchIntent, out chan<- frame) {
	attempt := 0
	for {
		if err := o.governor.Acquire(ctx, adapter.ID()); err != nil {
			return
		}

		sendErr := adapter.Search(ctx, intent, func(result document.ProviderResult) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if result.IsError() {
				return providerFrameError{err: result.Err}
			}
			o.governor.RecordUsage(adapter.ID(), len(result.Documents))
			select {
			case out <- frame{docs: result.Documents}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		var perr *document.ProviderError
		if pfe, ok := sendErr.(providerFrameError); ok {
			perr = pfe.err
		} else if sendErr != nil {
			perr = &document.ProviderError{Kind: document.ErrorTransient, Provider: adapter.ID(), Cause: sendErr, RetryPermitted: true}
		}

		if perr == nil {
			return
		}

		logger.GetLogger().WithField("provider", adapter.ID()).
			Warnf("provider error (kind=%s retryPermitted=%v): %v", perr.Kind, perr.RetryPermitted, perr)

		if intent.Mode == document.ModeDiscovery {
			// Discovery mode absorbs the error silently from the output
			// stream (spec §4.5 step 3, §7).
			return
		}

		// Enrichment mode: retry up to three times with exponential
		// backoff before surfacing.
		if attempt >= len(enrichmentBackoff) || !perr.RetryPermitted {
			select {
			case out <- frame{err: perr}:
			case <-ctx.Done():
			}
			return
		}
		wait := enrichmentBackoff[attempt]
		attempt++
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}

type providerFrameError struct {
	err *document.ProviderError
}

func (e providerFrameError) Error() string {
	return e.err.Error()
}

// Enrich looks up document's originating provider, calls FetchDetails on
// it, and merges the returned deep record into the input (spec §4.5
// "Enrichment"). If the originating provider lacks enrichment capability,
// falls back to any other provider that has the document's DOI, via a
// single-result search by DOI.
func (o *Orchestrator) Enrich(ctx context.Context, doc document.ScholarlyDocument) (*document.ScholarlyDocument, error) {
	source, ok := o.registry.Get(doc.SourceProvider)
	if ok && source.Capabilities().Has(document.CapabilityAbstracts) {
		nativeID := stripProviderPrefix(doc.InternalID, doc.SourceProvider)
		deep, err := source.FetchDetails(ctx, nativeID)
		if err != nil {
			return nil, err
		}
		if deep != nil {
			fused := fuseEnrichment(doc, *deep)
			return &fused, nil
		}
	}

	if !doc.DOI.Valid() {
		return nil, nil
	}
	for _, adapter := range o.registry.All() {
		if adapter.ID() == doc.SourceProvider {
			continue
		}
		if !adapter.Capabilities().Has(document.CapabilityAbstracts) {
			continue
		}
		found, err := searchByDOI(ctx, adapter, doc.DOI.String())
		if err != nil || found == nil {
			continue
		}
		fused := fuseEnrichment(doc, *found)
		return &fused, nil
	}
	return nil, nil
}

// fuseEnrichment merges a deep record fetched via enrichment into the
// existing discovery-layer document, using the same fusion rules as
// cross-provider dedup (spec §4.5 "Enrichment": "merges the returned deep
// record into the input, and returns the fused result").
func fuseEnrichment(existing, deep document.ScholarlyDocument) document.ScholarlyDocument {
	return merge.Fuse(existing, deep)
}

// batchFetcher is the optional multi-id fetch an adapter may implement
// (only Semantic Scholar's /paper/batch does today). EnrichBatch prefers
// it over repeated FetchDetails calls whenever several documents to
// enrich share the same originating provider.
type batchFetcher interface {
	FetchBatch(ctx context.Context, nativeIDs []string) ([]document.ScholarlyDocument, error)
}

// EnrichBatch enriches many documents at once, grouping by originating
// provider and preferring a batchFetcher over per-document Enrich calls
// for any provider whose adapter implements one (spec §4.2 supplemented
// capability CapabilityBatchLookup). Results preserve docs' input order;
// a document that fails to enrich yields a nil entry at its position.
func (o *Orchestrator) EnrichBatch(ctx context.Context, docs []document.ScholarlyDocument) ([]*document.ScholarlyDocument, error) {
	out := make([]*document.ScholarlyDocument, len(docs))

	byProvider := make(map[document.ProviderTag][]int)
	for i, doc := range docs {
		byProvider[doc.SourceProvider] = append(byProvider[doc.SourceProvider], i)
	}

	for providerTag, indices := range byProvider {
		adapter, ok := o.registry.Get(providerTag)
		fetcher, supportsBatch := adapter.(batchFetcher)
		if !ok || !supportsBatch || !adapter.Capabilities().Has(document.CapabilityBatchLookup) || len(indices) < 2 {
			for _, i := range indices {
				enriched, err := o.Enrich(ctx, docs[i])
				if err != nil {
					continue
				}
				out[i] = enriched
			}
			continue
		}

		nativeIDs := make([]string, len(indices))
		for j, i := range indices {
			nativeIDs[j] = stripProviderPrefix(docs[i].InternalID, providerTag)
		}
		deep, err := fetcher.FetchBatch(ctx, nativeIDs)
		if err != nil || len(deep) != len(indices) {
			for _, i := range indices {
				enriched, err := o.Enrich(ctx, docs[i])
				if err != nil {
					continue
				}
				out[i] = enriched
			}
			continue
		}
		for j, i := range indices {
			fused := fuseEnrichment(docs[i], deep[j])
			out[i] = &fused
		}
	}

	return out, nil
}

func stripProviderPrefix(internalID string, tag document.ProviderTag) string {
	prefix := tag.IDPrefix()
	if len(internalID) > len(prefix) && internalID[:len(prefix)] == prefix {
		return internalID[len(prefix):]
	}
	return internalID
}

func searchByDOI(ctx context.Context, adapter provider.Adapter, doiValue string) (*document.ScholarlyDocument, error) {
	var found *document.ScholarlyDocument
	intent := document.SearchIntent{Query: doiValue, Mode: document.ModeEnrichment, PerProviderCap: 1}
	err := adapter.Search(ctx, intent, func(result document.ProviderResult) error {
		if result.IsError() {
			return nil
		}
		for i := range result.Documents {
			if result.Documents[i].DOI.Valid() && result.Documents[i].DOI.String() == doiValue {
				found = &result.Documents[i]
				return errStopIteration
			}
		}
		return nil
	})
	if err != nil && err != errStopIteration {
		return nil, err
	}
	return found, nil
}

var errStopIteration = stopIteration{}

type stopIteration struct{}

func (stopIteration) Error() string { return "stop iteration" }
