package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/hitcluster/internal/blur"
	"github.com/banshee-data/hitcluster/internal/cluster"
	"github.com/banshee-data/hitcluster/internal/config"
	"github.com/banshee-data/hitcluster/internal/hits"
	"github.com/banshee-data/hitcluster/internal/timeutil"
	"github.com/google/uuid"
)

// Stage names used for timings.
const (
	StageImage   = "image"
	StageBlur    = "blur"
	StageCluster = "cluster"
	StageRecover = "recover"
)

// BlurredClustering groups hits of one readout plane into clusters by
// blurring them into a charge image and growing clusters on it.
type BlurredClustering struct {
	geom      hits.Geometry
	blurCfg   blur.Config
	clusterer cluster.ClustererInterface
	clock     timeutil.Clock
}

// Option customises a BlurredClustering.
type Option func(*BlurredClustering)

// WithClusterer replaces the density clusterer.
func WithClusterer(c cluster.ClustererInterface) Option {
	return func(b *BlurredClustering) { b.clusterer = c }
}

// WithClock sets the clock used for stage timings.
func WithClock(c timeutil.Clock) Option {
	return func(b *BlurredClustering) { b.clock = c }
}

// New validates cfg and returns a ready pipeline. A nil cfg uses the
// built-in defaults.
func New(cfg *config.TuningConfig, geom hits.Geometry, opts ...Option) (*BlurredClustering, error) {
	if geom == nil {
		return nil, errors.New("geometry is required")
	}
	if cfg == nil {
		cfg = config.DefaultTuningConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning config: %w", err)
	}

	params := cluster.ParamsFromTuning(cfg)
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cluster params: %w", err)
	}

	b := &BlurredClustering{
		geom:      geom,
		blurCfg:   blur.ConfigFromTuning(cfg),
		clusterer: cluster.NewDensityClusterer(params),
		clock:     timeutil.RealClock{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// MinSize returns the minimum cluster size in hits.
func (b *BlurredClustering) MinSize() int {
	return b.clusterer.GetParams().MinSize
}

// RunStats summarises one invocation.
type RunStats struct {
	Hits              int                      `json:"hits"`
	OccupiedCells     int                      `json:"occupied_cells"`
	Candidates        int                      `json:"candidates"`
	Clusters          int                      `json:"clusters"`
	DroppedAtRecovery int                      `json:"dropped_at_recovery"`
	Bounds            blur.Bounds              `json:"bounds"`
	Blur              blur.Params              `json:"blur"`
	Degenerate        bool                     `json:"degenerate_direction"`
	Stages            map[string]time.Duration `json:"stages"`
	Elapsed           time.Duration            `json:"elapsed"`
}

// Result is the output of one invocation.
type Result struct {
	RunID    string            `json:"run_id"`
	Clusters []cluster.Cluster `json:"clusters"`
	Stats    RunStats          `json:"stats"`
}

// Run clusters hs, which must all belong to one plane. Every returned hit
// is one of the input pointers and appears in at most one cluster.
func (b *BlurredClustering) Run(hs []*hits.Hit) (*Result, error) {
	runID := uuid.New().String()
	start := b.clock.Now()
	st := timeutil.NewStageTimes(b.clock)

	done := st.Start(StageImage)
	img, err := blur.BuildImage(hs, b.geom)
	done()
	if err != nil {
		return nil, fmt.Errorf("run %s: build image: %w", runID, err)
	}

	done = st.Start(StageBlur)
	blurred, params, dir, err := blur.GaussianBlur(img, b.blurCfg)
	done()
	if err != nil {
		return nil, fmt.Errorf("run %s: blur: %w", runID, err)
	}
	if dir.Degenerate {
		diagf("run %s: degenerate direction, blur params %+v", runID, params)
	}

	done = st.Start(StageCluster)
	candidates := b.clusterer.FindClusters(blurred, img)
	done()

	done = st.Start(StageRecover)
	clusters := cluster.RecoverHits(img, candidates, b.MinSize())
	done()

	stats := RunStats{
		Hits:              countHits(hs),
		OccupiedCells:     img.OccupiedCells(),
		Candidates:        len(candidates),
		Clusters:          len(clusters),
		DroppedAtRecovery: len(candidates) - len(clusters),
		Bounds:            img.Bounds,
		Blur:              params,
		Degenerate:        dir.Degenerate,
		Stages:            make(map[string]time.Duration),
		Elapsed:           b.clock.Since(start),
	}
	for _, name := range st.Names() {
		stats.Stages[name] = st.Get(name)
		tracef("run %s: stage %s took %v", runID, name, st.Get(name))
	}
	diagf("run %s: %d hits -> %d candidates -> %d clusters in %v",
		runID, stats.Hits, stats.Candidates, stats.Clusters, stats.Elapsed)

	return &Result{RunID: runID, Clusters: clusters, Stats: stats}, nil
}

// countHits returns the number of non-nil hits, matching what BuildImage
// places.
func countHits(hs []*hits.Hit) int {
	n := 0
	for _, h := range hs {
		if h != nil {
			n++
		}
	}
	return n
}

// PlaneResult is the outcome of one plane in RunPlanes. Skipped planes
// have a nil Result.
type PlaneResult struct {
	Plane   hits.PlaneID `json:"plane"`
	Result  *Result      `json:"result,omitempty"`
	Skipped bool         `json:"skipped,omitempty"`
}

// RunPlanes splits hs by plane, merging the TPCs of a cryostat onto one
// global wire axis through the geometry, and runs one invocation per plane
// concurrently. Planes with fewer than MinSize hits are skipped. Results
// are ordered by plane; all plane errors are joined.
func (b *BlurredClustering) RunPlanes(hs []*hits.Hit) ([]PlaneResult, error) {
	byPlane, planes := hits.GroupByPlane(hs)
	results := make([]PlaneResult, len(planes))
	errs := make([]error, len(planes))
	minSize := b.MinSize()

	var wg sync.WaitGroup
	for i, plane := range planes {
		results[i].Plane = plane
		planeHits := byPlane[plane]
		if len(planeHits) < minSize {
			diagf("plane %s: %d hits below minimum %d, skipped", plane, len(planeHits), minSize)
			results[i].Skipped = true
			continue
		}

		wg.Add(1)
		go func(i int, plane hits.PlaneID, planeHits []*hits.Hit) {
			defer wg.Done()
			res, err := b.Run(planeHits)
			if err != nil {
				errs[i] = fmt.Errorf("plane %s: %w", plane, err)
				return
			}
			results[i].Result = res
		}(i, plane, planeHits)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		opsf("clustering failed: %v", err)
		return results, err
	}
	return results, nil
}
