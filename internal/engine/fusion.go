package engine

import (
	"context"
	"math"
	"sort"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FusedDoc is one candidate document after rank fusion and re-ranking.
type FusedDoc struct {
	domain.RankedDoc
	RRF      float64
	Rerank   float64
	BestRank int
}

// Fusion merges ranked lexical and vector result lists, re-ranks them and
// extracts sentence-level evidence. Either backend may be nil or fail; the
// merge proceeds with whatever returned, and total failure yields an empty
// evidence set instead of blocking the turn.
type Fusion struct {
	lexical domain.Retriever
	vector  domain.Retriever
	cfg     Config
	logger  *zap.Logger
}

func NewFusion(lexical, vector domain.Retriever, cfg Config, logger *zap.Logger) *Fusion {
	return &Fusion{lexical: lexical, vector: vector, cfg: cfg, logger: logger}
}

// Available reports whether any retrieval backend is wired in.
func (f *Fusion) Available() bool {
	return f.lexical != nil || f.vector != nil
}

// Retrieve issues both backend calls concurrently, each with its own
// bounded timeout and at most RetrievalRetries retries, then fuses and
// re-ranks the results. It never returns an error: retrieval failure is a
// valid, empty response.
func (f *Fusion) Retrieve(ctx context.Context, query string) []FusedDoc {
	var lexHits, vecHits []domain.RankedDoc

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lexHits = f.searchWithRetry(gctx, f.lexical, "lexical", query)
		return nil
	})
	g.Go(func() error {
		vecHits = f.searchWithRetry(gctx, f.vector, "vector", query)
		return nil
	})
	_ = g.Wait()

	fused := FuseRRF(lexHits, vecHits, f.cfg.RRFK)
	f.rerank(query, fused)
	if len(fused) > f.cfg.TopDocs {
		fused = fused[:f.cfg.TopDocs]
	}
	return fused
}

func (f *Fusion) searchWithRetry(ctx context.Context, r domain.Retriever, backend, query string) []domain.RankedDoc {
	if r == nil {
		return nil
	}
	attempts := 1 + f.cfg.RetrievalRetries
	for attempt := 0; attempt < attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, f.cfg.RetrievalTimeout)
		hits, err := r.Search(callCtx, query, f.cfg.TopDocs*2)
		cancel()
		if err == nil {
			return hits
		}
		f.logger.Warn("retrieval backend failed",
			zap.String("backend", backend),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil
}

// FuseRRF merges two ranked lists with Reciprocal Rank Fusion:
// score(d) = Σ_lists 1/(k + rank). A document absent from a list contributes
// nothing for that list. Ties break by best rank across lists, then by id.
func FuseRRF(lexical, vector []domain.RankedDoc, k float64) []FusedDoc {
	byID := make(map[string]*FusedDoc)
	merge := func(hits []domain.RankedDoc) {
		for _, h := range hits {
			if h.Rank <= 0 {
				continue
			}
			d, ok := byID[h.ID]
			if !ok {
				d = &FusedDoc{RankedDoc: h, BestRank: h.Rank}
				byID[h.ID] = d
			}
			d.RRF += 1 / (k + float64(h.Rank))
			if h.Rank < d.BestRank {
				d.BestRank = h.Rank
			}
			if d.Snippet == "" {
				d.Snippet = h.Snippet
			}
		}
	}
	merge(lexical)
	merge(vector)

	out := make([]FusedDoc, 0, len(byID))
	for _, d := range byID {
		out = append(out, *d)
	}
	sortFused(out, func(d FusedDoc) float64 { return d.RRF })
	return out
}

// rerank adjusts each fused score by a clipped linear combination of query
// term overlap and a cheap token-cosine similarity, then re-sorts.
func (f *Fusion) rerank(query string, docs []FusedDoc) {
	qTokens := Tokenize(query)
	for i := range docs {
		dTokens := Tokenize(docs[i].Snippet)
		adj := f.cfg.RerankAlpha*TermOverlap(qTokens, dTokens) + f.cfg.RerankBeta*TokenCosine(qTokens, dTokens)
		if adj > f.cfg.RerankClip {
			adj = f.cfg.RerankClip
		}
		if adj < -f.cfg.RerankClip {
			adj = -f.cfg.RerankClip
		}
		docs[i].Rerank = docs[i].RRF + adj
	}
	sortFused(docs, func(d FusedDoc) float64 { return d.Rerank })
}

func sortFused(docs []FusedDoc, score func(FusedDoc) float64) {
	sort.Slice(docs, func(i, j int) bool {
		si, sj := score(docs[i]), score(docs[j])
		if si != sj {
			return si > sj
		}
		if docs[i].BestRank != docs[j].BestRank {
			return docs[i].BestRank < docs[j].BestRank
		}
		return docs[i].ID < docs[j].ID
	})
}

// ExtractEvidence selects sentence-level spans from the top re-ranked
// documents whose similarity to the query clears the configured overlap
// threshold. Each span becomes one retrieval-sourced Evidence record
// attributed to the target slots.
func (f *Fusion) ExtractEvidence(query string, slots []string, docs []FusedDoc) []domain.Evidence {
	qTokens := Tokenize(query)
	var out []domain.Evidence
	for _, doc := range docs {
		for _, sent := range SplitSentences(doc.Snippet) {
			sTokens := Tokenize(sent)
			if len(sTokens) == 0 || TermOverlap(qTokens, sTokens) == 0 {
				continue
			}
			sim := TokenCosine(qTokens, sTokens)
			if sim < f.cfg.MinSentenceOverlap {
				continue
			}
			redundancy := math.Min(1, float64(len(out))/4)
			out = append(out, domain.Evidence{
				ID:         uuid.New(),
				Text:       sent,
				SourceRef:  doc.ID,
				SourceKind: domain.SourceRetrieval,
				Confidence: sim,
				SlotNames:  slots,
				Features: domain.FeatureVector{
					LexicalSimilarity:  sim,
					SourceTrust:        0.5,
					Recency:            0.5,
					LogicalConsistency: 1,
					RedundancyPenalty:  redundancy,
					PolaritySign:       1,
				},
			})
			if len(out) >= f.cfg.MaxEvidenceSentences {
				return out
			}
		}
	}
	return out
}
