// Package anomaly flags bookmaker quotes whose implied probability is a
// statistical outlier within their own market group.
package anomaly

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/stats"
)

// degenerateStd is the floor below which a group is considered to have no
// price dispersion at all
const degenerateStd = 1e-9

// Detector performs cross-bookmaker outlier detection on a quote batch
type Detector struct {
	zThreshold float64
	minBooks   int
	logger     *logrus.Logger
}

// NewDetector creates an anomaly detector with the given z-score threshold
// and minimum bookmaker count per group
func NewDetector(zThreshold float64, minBooks int, logger *logrus.Logger) *Detector {
	if minBooks < 2 {
		minBooks = 2
	}
	return &Detector{
		zThreshold: zThreshold,
		minBooks:   minBooks,
		logger:     logger,
	}
}

// Detect partitions the batch into market groups and returns every quote
// whose implied probability deviates from its group mean by at least the
// configured number of standard deviations. Groups with too few bookmakers
// or no price dispersion produce no hits.
func (d *Detector) Detect(batch []*models.OddsQuote) []models.AnomalyHit {
	groups := models.GroupQuotes(batch)

	var hits []models.AnomalyHit
	for _, group := range groups {
		hits = append(hits, d.detectGroup(group)...)
	}
	return hits
}

// DetectGroup evaluates a single prepared market group
func (d *Detector) DetectGroup(group *models.MarketGroup) []models.AnomalyHit {
	return d.detectGroup(group)
}

func (d *Detector) detectGroup(group *models.MarketGroup) []models.AnomalyHit {
	if len(group.Quotes) < d.minBooks {
		return nil
	}

	probs := make([]float64, 0, len(group.Quotes))
	for _, q := range group.Quotes {
		if q.Odds > 1.0 {
			probs = append(probs, q.ImpliedProbability())
		}
	}
	if len(probs) < d.minBooks {
		return nil
	}

	mean := stats.Mean(probs)
	std := stats.SampleStd(probs)
	if std <= degenerateStd {
		// All books agree; nothing can be an outlier
		return nil
	}

	var hits []models.AnomalyHit
	for _, q := range group.Quotes {
		if q.Odds <= 1.0 {
			continue
		}
		z := (q.ImpliedProbability() - mean) / std
		if z >= d.zThreshold || z <= -d.zThreshold {
			d.logger.WithFields(logrus.Fields{
				"event":     q.Event(),
				"market":    q.Market,
				"selection": q.Selection,
				"bookmaker": q.Bookmaker,
				"odds":      q.Odds,
				"z_score":   z,
			}).Debug("Anomalous quote detected")
			hits = append(hits, models.AnomalyHit{Quote: q, ZScore: z})
		}
	}
	return hits
}
