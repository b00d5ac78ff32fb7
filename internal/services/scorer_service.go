package services

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"go.uber.org/zap"

	"tripforge/internal/models/db_models"
	"tripforge/pkg/utils"
)

// Tags that mark a POI as effectively outdoor for weather penalties.
var outdoorHints = map[string]struct{}{
	"park": {}, "garden": {}, "viewpoint": {}, "beach": {}, "lake": {}, "outdoor": {},
}

var rainKeywords = []string{"rain", "storm", "mưa"}

// QueryContext bundles everything one scoring pass needs.
type QueryContext struct {
	City         string
	Query        string
	TasteTags    []string
	ActivityTags []string
	TagFilter    []string
	BudgetPerDay float64
	WeatherDesc  string

	// Rand breaks score ties without positional bias. Nil falls back to the
	// process-wide source; tests inject a seeded one.
	Rand *rand.Rand
}

// POIScorerInterface ranks a candidate pool for a query context. The input
// slice is never mutated; scored copies come back ordered by final score
// descending.
type POIScorerInterface interface {
	Score(pois []db_models.POI, qc QueryContext) []db_models.POI
}

type poiScorer struct {
	logger *zap.Logger
}

func NewPOIScorer(logger *zap.Logger) POIScorerInterface {
	return &poiScorer{logger: logger}
}

func (s *poiScorer) Score(pois []db_models.POI, qc QueryContext) []db_models.POI {
	if len(pois) == 0 {
		return nil
	}

	scored := make([]db_models.POI, len(pois))
	copy(scored, pois)

	scored = softTagFilter(scored, qc.TagFilter)

	sims := tfidfSimilarities(scored, buildQueryText(qc))
	budgets := budgetScores(scored, qc.BudgetPerDay)

	taste := make(map[string]struct{}, len(qc.TasteTags))
	for _, t := range qc.TasteTags {
		taste[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	for i := range scored {
		p := &scored[i]
		p.Similarity = sims[i]
		p.BudgetScore = budgets[i]
		p.WeatherScore = weatherPenalty(p, qc.WeatherDesc)

		rating := 0.0
		if p.Rating != nil {
			rating = clamp01(*p.Rating / 5.0)
		}
		hasImage := 0.0
		if p.HasImage() {
			hasImage = 1.0
		}

		p.FinalScore = 0.55*p.Similarity +
			0.20*p.BudgetScore +
			0.15*p.WeatherScore +
			0.10*rating +
			0.05*hasImage

		if (p.Category == db_models.CategoryFood || p.Category == db_models.CategoryCafe) && len(taste) > 0 {
			for _, tag := range p.Tags {
				if _, ok := taste[tag]; ok {
					p.FinalScore += 0.05
					break
				}
			}
		}
	}

	// Shuffle before the stable sort so equal scores are not ordered by
	// input position.
	shuffle(qc.Rand, len(scored), func(i, j int) {
		scored[i], scored[j] = scored[j], scored[i]
	})
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})
	return scored
}

func shuffle(rng *rand.Rand, n int, swap func(i, j int)) {
	if rng != nil {
		rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// softTagFilter keeps POIs whose tag set intersects the filter or whose raw
// tag text contains a filter term. A filter that would empty the pool is
// dropped entirely.
func softTagFilter(pois []db_models.POI, filter []string) []db_models.POI {
	var wants []string
	for _, f := range filter {
		if t := strings.ToLower(strings.TrimSpace(f)); t != "" {
			wants = append(wants, t)
		}
	}
	if len(wants) == 0 {
		return pois
	}

	var kept []db_models.POI
	for _, p := range pois {
		if tagMatches(p, wants) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return pois
	}
	return kept
}

func tagMatches(p db_models.POI, wants []string) bool {
	rawTag := strings.ToLower(p.RawTag)
	for _, w := range wants {
		if strings.Contains(rawTag, w) {
			return true
		}
		for _, tag := range p.Tags {
			if tag == w {
				return true
			}
		}
	}
	return false
}

func buildQueryText(qc QueryContext) string {
	parts := []string{qc.Query}
	parts = append(parts, qc.TasteTags...)
	parts = append(parts, qc.ActivityTags...)
	parts = append(parts, qc.City)
	return strings.Join(parts, " ")
}

// tfidfSimilarities builds a term-frequency/inverse-document-frequency vector
// space over name+tags+description and returns the cosine similarity of each
// POI against the query. A vocabulary that collapses to nothing informative
// scores everything 0.
func tfidfSimilarities(pois []db_models.POI, query string) []float64 {
	sims := make([]float64, len(pois))

	docs := make([][]string, len(pois))
	df := make(map[string]int)
	for i, p := range pois {
		docs[i] = tokenize(p.Name + " " + p.RawTag + " " + p.Description)
		for _, t := range uniqueTerms(docs[i]) {
			df[t]++
		}
	}
	if len(df) == 0 {
		return sims
	}

	n := float64(len(pois))
	idf := make(map[string]float64, len(df))
	for t, d := range df {
		idf[t] = math.Log((1+n)/(1+float64(d))) + 1
	}

	queryVec := tfidfVector(tokenize(query), idf)
	if len(queryVec) == 0 {
		return sims
	}

	for i := range pois {
		docVec := tfidfVector(docs[i], idf)
		sims[i] = cosine(queryVec, docVec)
	}
	return sims
}

func tokenize(s string) []string {
	folded := utils.Fold(s)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}

func uniqueTerms(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	var out []string
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// tfidfVector builds an L2-normalized tf-idf vector restricted to the
// corpus vocabulary.
func tfidfVector(tokens []string, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64)
	for _, t := range tokens {
		if w, ok := idf[t]; ok {
			vec[t] += w
		}
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, v := range a {
		dot += v * b[t]
	}
	return dot
}

// budgetScores fits each POI's cost against a target of one third of the
// daily budget: a day typically spends on three paid activities. Absent cost
// data scores a neutral 0.5.
func budgetScores(pois []db_models.POI, budgetPerDay float64) []float64 {
	scores := make([]float64, len(pois))
	target := budgetPerDay / 3.0

	maxDev := 0.0
	anyCost := false
	for _, p := range pois {
		if p.AvgCost != nil {
			anyCost = true
			if dev := math.Abs(*p.AvgCost - target); dev > maxDev {
				maxDev = dev
			}
		}
	}
	denom := math.Max(maxDev, 1)

	for i, p := range pois {
		if !anyCost || p.AvgCost == nil {
			scores[i] = 0.5
			continue
		}
		scores[i] = clamp01(1 - math.Abs(*p.AvgCost-target)/denom)
	}
	return scores
}

// weatherPenalty drops attraction and outdoor-tagged POIs to 0.6 when the
// weather description mentions rain or storms.
func weatherPenalty(p *db_models.POI, weatherDesc string) float64 {
	if weatherDesc == "" {
		return 1.0
	}
	desc := strings.ToLower(weatherDesc)
	rainy := false
	for _, kw := range rainKeywords {
		if strings.Contains(desc, kw) {
			rainy = true
			break
		}
	}
	if !rainy {
		return 1.0
	}
	if p.Category == db_models.CategoryAttraction {
		return 0.6
	}
	for _, tag := range p.Tags {
		if _, ok := outdoorHints[tag]; ok {
			return 0.6
		}
	}
	return 1.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
