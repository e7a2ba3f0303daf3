package sampler

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"fjacquet/gl-audit/internal/accounts"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/stats"
)

// Smart-sample stage names and shares of the target.
const (
	StageMateriality = "materiality"
	StageRecent      = "recent"
	StageOutliers    = "outliers"
	StageMonthly     = "monthly"
	StageRandom      = "random"
	StageBackfill    = "backfill"
	StageSystematic  = "systematic"
	StageAll         = "all"

	outlierSigma = 2.0
)

type stageShare struct {
	name  string
	share float64
}

// smartStages run in this order; later stages skip rows earlier ones took.
var smartStages = []stageShare{
	{StageMateriality, 0.30},
	{StageRecent, 0.20},
	{StageOutliers, 0.10},
	{StageMonthly, 0.30},
	{StageRandom, 0.10},
}

// Sampler draws samples. It is not safe for concurrent use because it owns
// its random source.
type Sampler struct {
	rng        *rand.Rand
	classifier *accounts.Classifier
	logger     logging.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithRand sets the random source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Sampler) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed seeds the random source; zero keeps the time-based seed.
func WithSeed(seed int64) Option {
	return func(s *Sampler) {
		if seed != 0 {
			s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- sampling, not security
		}
	}
}

// WithClassifier sets the account classifier used for side-aware amounts.
func WithClassifier(c *accounts.Classifier) Option {
	return func(s *Sampler) {
		if c != nil {
			s.classifier = c
		}
	}
}

// New creates a Sampler. Without options it uses an unseeded source.
func New(logger logging.Logger, opts ...Option) *Sampler {
	s := &Sampler{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- sampling, not security
		classifier: accounts.NewClassifier(),
		logger:     logging.OrDefault(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample sizes the sample with policy and runs the algorithm paired with it:
// SmartSample for the smart policy, HybridSample otherwise.
func (s *Sampler) Sample(txs []models.Transaction, policy SizePolicy) models.SampleSet {
	if policy == nil {
		policy = SmartPolicy{}
	}
	target := policy.Target(len(txs))
	var set models.SampleSet
	if policy.Name() == PolicySmart {
		set = s.SmartSample(txs, target)
	} else {
		set = s.HybridSample(txs, target)
	}
	set.Policy = policy.Name()

	s.logger.Info("Sampled transactions",
		logging.F(logging.FieldPolicy, set.Policy),
		logging.F(logging.FieldTarget, target),
		logging.F(logging.FieldCount, set.Size()),
		logging.F("total", len(txs)))
	return set
}

// SmartSample composes a sample of at most target transactions from
// materiality, recency, outlier, monthly-stratified and random stages, then
// backfills any shortfall at random. No transaction is taken twice.
func (s *Sampler) SmartSample(txs []models.Transaction, target int) models.SampleSet {
	set := models.SampleSet{Target: target, Total: len(txs), Policy: PolicySmart}
	if target <= 0 || len(txs) == 0 {
		set.Method = "empty sample"
		return set
	}
	if len(txs) <= target {
		set.Transactions = append([]models.Transaction(nil), txs...)
		set.Method = fmt.Sprintf("full population (%d ≤ target %d)", len(txs), target)
		set.Composition = []models.SampleStage{{Name: StageAll, Count: len(txs)}}
		return set
	}

	amount := stats.SideAwareAmount(s.classifier)
	pick := newPicker(len(txs))

	for _, stage := range smartStages {
		quota := int(math.Floor(float64(target) * stage.share))
		var taken int
		switch stage.name {
		case StageMateriality:
			taken = pick.take(byAmountDesc(txs, amount), quota)
		case StageRecent:
			taken = pick.take(byDateDesc(txs), quota)
		case StageOutliers:
			taken = pick.take(outliers(txs, amount), quota)
		case StageMonthly:
			taken = s.takeMonthly(pick, txs, quota)
		case StageRandom:
			taken = pick.take(s.shuffled(pick.unused()), quota)
		}
		set.Composition = append(set.Composition, models.SampleStage{Name: stage.name, Count: taken})
	}

	if short := target - pick.count(); short > 0 {
		taken := pick.take(s.shuffled(pick.unused()), short)
		set.Composition = append(set.Composition, models.SampleStage{Name: StageBackfill, Count: taken})
	}

	set.Transactions = pick.collect(txs)
	set.Method = "smart sample: 30% highest side-aware amounts, 20% most recent, " +
		"10% outliers beyond 2σ, 30% stratified by month, 10% random, random backfill"
	return set
}

// HybridSample splits target between the largest amounts and a systematic
// fixed-stride walk over the rest. When the population fits in target it is
// returned whole, sorted by date ascending.
func (s *Sampler) HybridSample(txs []models.Transaction, target int) models.SampleSet {
	set := models.SampleSet{Target: target, Total: len(txs), Policy: PolicyHybrid}
	if target <= 0 || len(txs) == 0 {
		set.Method = "empty sample"
		return set
	}
	if len(txs) <= target {
		set.Transactions = SortByDate(txs)
		set.Method = fmt.Sprintf("full population sorted by date (%d ≤ target %d)", len(txs), target)
		set.Composition = []models.SampleStage{{Name: StageAll, Count: len(txs)}}
		return set
	}

	materialCount := target / 2
	systematicCount := target - materialCount

	pick := newPicker(len(txs))
	taken := pick.take(byAmountDesc(txs, stats.GrossAmount), materialCount)
	set.Composition = append(set.Composition, models.SampleStage{Name: StageMateriality, Count: taken})

	remaining := pick.unused()
	stride := float64(len(remaining)) / float64(systematicCount)
	systematic := make([]int, 0, systematicCount)
	for i := 0; i < systematicCount; i++ {
		idx := int(math.Floor(float64(i) * stride))
		if idx >= len(remaining) {
			break
		}
		systematic = append(systematic, remaining[idx])
	}
	taken = pick.take(systematic, systematicCount)
	set.Composition = append(set.Composition, models.SampleStage{Name: StageSystematic, Count: taken})

	set.Transactions = pick.collect(txs)
	set.Method = fmt.Sprintf("hybrid sample: %d largest amounts + %d systematic (stride %.2f)",
		materialCount, systematicCount, stride)
	return set
}

// takeMonthly allocates quota across calendar months in proportion to each
// month's unused rows and picks at random within each month.
func (s *Sampler) takeMonthly(pick *picker, txs []models.Transaction, quota int) int {
	if quota <= 0 {
		return 0
	}
	byMonth := make(map[string][]int)
	dated := 0
	for _, i := range pick.unused() {
		if m := txs[i].Month(); m != "" {
			byMonth[m] = append(byMonth[m], i)
			dated++
		}
	}
	if dated == 0 {
		return 0
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	taken := 0
	for _, m := range months {
		if taken >= quota {
			break
		}
		share := int(math.Round(float64(quota) * float64(len(byMonth[m])) / float64(dated)))
		share = max(1, min(share, quota-taken))
		taken += pick.take(s.shuffled(byMonth[m]), share)
	}
	return taken
}

func (s *Sampler) shuffled(indices []int) []int {
	out := append([]int(nil), indices...)
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortByDate returns a copy sorted by date ascending; undated rows go last
// and ties keep their input order.
func SortByDate(txs []models.Transaction) []models.Transaction {
	out := append([]models.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Date, out[j].Date
		if di == "" || dj == "" {
			return di != "" && dj == ""
		}
		return di < dj
	})
	return out
}

func byAmountDesc(txs []models.Transaction, amount stats.AmountFunc) []int {
	idx := indices(len(txs))
	sort.SliceStable(idx, func(a, b int) bool {
		return amount(txs[idx[a]]) > amount(txs[idx[b]])
	})
	return idx
}

func byDateDesc(txs []models.Transaction) []int {
	idx := make([]int, 0, len(txs))
	for i, tx := range txs {
		if tx.Date != "" {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return txs[idx[a]].Date > txs[idx[b]].Date
	})
	return idx
}

// outliers returns rows whose amount deviates from the mean by more than
// two standard deviations, largest deviation first.
func outliers(txs []models.Transaction, amount stats.AmountFunc) []int {
	values := make([]float64, len(txs))
	for i, tx := range txs {
		values[i] = amount(tx)
	}
	summary, err := stats.Describe(values)
	if err != nil || summary.StdDev == 0 {
		return nil
	}
	var idx []int
	for i, v := range values {
		if v > 0 && math.Abs(v-summary.Mean) > outlierSigma*summary.StdDev {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(values[idx[a]]-summary.Mean) > math.Abs(values[idx[b]]-summary.Mean)
	})
	return idx
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// picker tracks which rows have been chosen, in choice order.
type picker struct {
	used  []bool
	order []int
}

func newPicker(n int) *picker {
	return &picker{used: make([]bool, n)}
}

// take adds up to n unused candidates and returns how many it added.
func (p *picker) take(candidates []int, n int) int {
	taken := 0
	for _, i := range candidates {
		if taken >= n {
			break
		}
		if p.used[i] {
			continue
		}
		p.used[i] = true
		p.order = append(p.order, i)
		taken++
	}
	return taken
}

func (p *picker) unused() []int {
	out := make([]int, 0, len(p.used)-len(p.order))
	for i, u := range p.used {
		if !u {
			out = append(out, i)
		}
	}
	return out
}

func (p *picker) count() int { return len(p.order) }

func (p *picker) collect(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(p.order))
	for k, i := range p.order {
		out[k] = txs[i]
	}
	return out
}
