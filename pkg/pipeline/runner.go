package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slfkit/pkg/cache"
	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/graph"
	slfio "github.com/matzehuels/slfkit/pkg/io"
	"github.com/matzehuels/slfkit/pkg/observability"
	"github.com/matzehuels/slfkit/pkg/verify"
)

// DefaultMaxCachedTarget is the largest target encoding, in bytes, that a
// conversion stores in the cache.
const DefaultMaxCachedTarget = 32 << 20

// Runner encapsulates conversions with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options, which
// is how the experiment runner converts query graphs in parallel.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// MaxCachedTarget bounds the size of cached target encodings. Zero
	// means DefaultMaxCachedTarget; negative disables target caching.
	MaxCachedTarget int
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Convert converts opts.Source into opts.Target.
//
// On success the target file has been replaced atomically. When
// verification is requested and finds a mismatch, Convert returns the
// result (with its Report) together with a VERIFICATION_MISMATCH error.
func (r *Runner) Convert(ctx context.Context, opts ConvertOptions) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Convert()
	hooks.OnConvertStart(ctx, opts.Source)
	start := time.Now()

	res, err := r.convert(ctx, opts)
	if err != nil {
		hooks.OnConvertComplete(ctx, opts.Source, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnConvertComplete(ctx, opts.Source, res.Stats.Vertices, res.Stats.Edges, time.Since(start), nil)

	opts.Logger.Info("converted",
		"source", opts.Source,
		"target", opts.Target,
		"vertices", res.Stats.Vertices,
		"edges", res.Stats.Edges,
		"cached", res.CacheInfo.TargetHit,
		"duration", res.Timing.Total())

	if !opts.Verify {
		return res, nil
	}

	verifyStart := time.Now()
	report, err := verify.RoundTrip(opts.Source, opts.Target, opts.verifyOptions())
	res.Timing.Verify = time.Since(verifyStart)
	if err != nil {
		hooks.OnVerifyComplete(ctx, opts.Target, false, err)
		return nil, err
	}
	res.Report = report
	hooks.OnVerifyComplete(ctx, opts.Target, report.OK(), nil)

	if err := report.Err(); err != nil {
		opts.Logger.Warn("verification failed",
			"target", opts.Target,
			"only_in_source", report.OnlyInSourceTotal,
			"only_in_target", report.OnlyInTargetTotal,
			"unmirrored", report.UnmirroredTotal)
		return res, err
	}
	opts.Logger.Debug("verified", "target", opts.Target, "edges", report.SourceEdges)
	return res, nil
}

func (r *Runner) convert(ctx context.Context, opts ConvertOptions) (*Result, error) {
	res := &Result{Source: opts.Source, Target: opts.Target}
	keyOpts := cache.ConvertKeyOpts{Directed: opts.Directed}

	hashStart := time.Now()
	hash, err := cache.HashFile(opts.Source)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIORead, err, "hash source").At(opts.Source, 0)
	}
	res.SourceHash = hash
	res.Timing.Hash = time.Since(hashStart)

	targetKey := r.Keyer.TargetKey(hash, keyOpts)
	if data, ok := r.lookup(ctx, "target", targetKey, opts.Refresh); ok {
		writeStart := time.Now()
		if err := slfio.WriteBytesAtomic(opts.Target, data); err != nil {
			return nil, err
		}
		res.Timing.Write = time.Since(writeStart)
		res.TargetBytes = len(data)
		res.CacheInfo.TargetHit = true

		stats, hit, err := r.statsFor(ctx, opts, hash, nil)
		if err != nil {
			return nil, err
		}
		res.Stats = stats
		res.CacheInfo.StatsHit = hit
		return res, nil
	}

	parseStart := time.Now()
	g, err := slfio.ImportSource(opts.Source)
	if err != nil {
		return nil, err
	}
	res.Timing.Parse = time.Since(parseStart)
	opts.Logger.Debug("parsed source", "source", opts.Source,
		"vertices", g.VertexCount(), "edges", g.EdgeCount(), "duration", res.Timing.Parse)

	buildStart := time.Now()
	adj := graph.BuildAdjacency(g, opts.Directed)
	res.Timing.Build = time.Since(buildStart)

	writeStart := time.Now()
	kept := &capture{limit: r.maxCachedTarget()}
	if err := slfio.WriteFileAtomic(opts.Target, func(w io.Writer) error {
		return slfio.WriteTarget(io.MultiWriter(w, kept), g, adj)
	}); err != nil {
		return nil, err
	}
	res.Timing.Write = time.Since(writeStart)
	res.TargetBytes = kept.n
	if kept.over {
		opts.Logger.Debug("target too large to cache", "target", opts.Target,
			"bytes", kept.n, "limit", kept.limit)
	} else {
		r.store(ctx, "target", targetKey, kept.buf.Bytes(), cache.TTLTarget)
	}

	stats, hit, err := r.statsFor(ctx, opts, hash, g)
	if err != nil {
		return nil, err
	}
	res.Stats = stats
	res.CacheInfo.StatsHit = hit
	return res, nil
}

// statsFor returns the statistics of the source with content hash hash,
// from the cache if possible. g is parsed from opts.Source when nil and the
// cache misses.
func (r *Runner) statsFor(ctx context.Context, opts ConvertOptions, hash string, g *graph.Graph) (graph.Stats, bool, error) {
	key := r.Keyer.StatsKey(hash, cache.ConvertKeyOpts{Directed: opts.Directed})
	if data, ok := r.lookup(ctx, "stats", key, opts.Refresh); ok {
		var st graph.Stats
		if err := json.Unmarshal(data, &st); err == nil {
			return st, true, nil
		}
		opts.Logger.Debug("discarding unreadable stats entry", "key", key)
	}

	if g == nil {
		var err error
		if g, err = slfio.ImportSource(opts.Source); err != nil {
			return graph.Stats{}, false, err
		}
	}
	st := graph.ComputeStats(g, opts.Directed)
	if data, err := json.Marshal(st); err == nil {
		r.store(ctx, "stats", key, data, cache.TTLStats)
	}
	return st, false, nil
}

// Inspect computes statistics for the source at path, using the cache.
func (r *Runner) Inspect(ctx context.Context, path string, directed, refresh bool) (graph.Stats, error) {
	if err := errs.ValidatePath(path); err != nil {
		return graph.Stats{}, err
	}
	hash, err := cache.HashFile(path)
	if err != nil {
		return graph.Stats{}, errs.Wrap(errs.ErrCodeIORead, err, "hash source").At(path, 0)
	}
	opts := ConvertOptions{Source: path, Directed: directed, Refresh: refresh, Logger: r.Logger}
	st, _, err := r.statsFor(ctx, opts, hash, nil)
	return st, err
}

// ImportSNAP reads the SNAP edge list at in and writes it to out as a
// source description. It returns the statistics of the imported graph.
func (r *Runner) ImportSNAP(ctx context.Context, in, out string, directed bool) (graph.Stats, error) {
	for _, p := range []string{in, out} {
		if err := errs.ValidatePath(p); err != nil {
			return graph.Stats{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return graph.Stats{}, err
	}
	g, err := slfio.ImportSNAP(in, directed)
	if err != nil {
		return graph.Stats{}, err
	}
	if err := slfio.ExportSource(g, out); err != nil {
		return graph.Stats{}, err
	}
	st := graph.ComputeStats(g, directed)
	r.Logger.Info("imported edge list", "input", in, "output", out,
		"vertices", st.Vertices, "edges", st.Edges)
	return st, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key from the cache unless refresh is set. Backend errors are
// logged and treated as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) maxCachedTarget() int {
	switch {
	case r.MaxCachedTarget == 0:
		return DefaultMaxCachedTarget
	case r.MaxCachedTarget < 0:
		return -1
	}
	return r.MaxCachedTarget
}

// capture counts the bytes written to it and keeps a copy while the total
// stays within limit.
type capture struct {
	limit int
	n     int
	over  bool
	buf   bytes.Buffer
}

func (c *capture) Write(p []byte) (int, error) {
	c.n += len(p)
	switch {
	case c.over:
	case c.n > c.limit:
		c.over = true
		c.buf = bytes.Buffer{}
	default:
		c.buf.Write(p)
	}
	return len(p), nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *ConvertOptions) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
