// Package pipeline chains the loader, slicer and consumer stages into a
// bounded, back-pressured producer/consumer pipeline that overlaps file
// I/O, decoding, cleaning, conversion and slicing, and exposes the
// resulting segments as a lazy finite stream.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/Rheadawn/stars/internal/channel"
	"github.com/Rheadawn/stars/internal/cleaner"
	"github.com/Rheadawn/stars/internal/convert"
	"github.com/Rheadawn/stars/internal/kinematics"
	"github.com/Rheadawn/stars/internal/model"
	"github.com/Rheadawn/stars/internal/model/core"
	"github.com/Rheadawn/stars/internal/parser"
	"github.com/Rheadawn/stars/internal/roadnet"
	"github.com/Rheadawn/stars/internal/segmenter"
)

// Logger is the minimal logging surface the pipeline needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Config is the pipeline option surface.
type Config struct {
	// MapToDynamicFiles maps one static map file to its dynamic files.
	// Every map file must have a network in the map passed to New.
	MapToDynamicFiles map[string][]string

	UseEveryVehicleAsEgo bool
	OrderFilesBySeed     bool

	// SimulationRunPrefetchSize bounds the segment channel; the slicer
	// blocks once this many segments are outstanding.
	SimulationRunPrefetchSize int

	Segmentation segmenter.Options

	// RngSeed drives the rotating window-size sampling.
	RngSeed int64
}

// runDescriptor identifies one dynamic file of one map.
type runDescriptor struct {
	mapFile     string
	dynamicFile string
	seed        int
}

// rawRun is the loader's product: a decoded tick list plus provenance.
type rawRun struct {
	descriptor runDescriptor
	runID      string
	ticks      []model.RawTick
}

// Pipeline wires the stages over the loaded road networks.
type Pipeline struct {
	nets    map[string]*roadnet.Network
	cfg     Config
	logger  Logger
	metrics *Metrics
	rng     *rand.Rand

	rawCh *channel.Unbounded[rawRun]
	segCh *channel.Buffered[*core.Segment]
}

// New creates a pipeline. nets maps each map file of
// cfg.MapToDynamicFiles to its loaded network. The prefetch size falls
// back to 500 when unset.
func New(nets map[string]*roadnet.Network, cfg Config, logger Logger) (*Pipeline, error) {
	if cfg.SimulationRunPrefetchSize <= 0 {
		cfg.SimulationRunPrefetchSize = 500
	}
	for mapFile := range cfg.MapToDynamicFiles {
		if nets[mapFile] == nil {
			return nil, fmt.Errorf("no road network loaded for map file %q", mapFile)
		}
	}

	p := &Pipeline{
		nets:   nets,
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(cfg.RngSeed)),
		rawCh:  channel.NewUnbounded[rawRun](),
		segCh:  channel.NewBuffered[*core.Segment](cfg.SimulationRunPrefetchSize),
	}

	metrics, err := newMetrics(uuid.NewString(), p.rawCh.Len, p.segCh.Len)
	if err != nil {
		return nil, err
	}
	p.metrics = metrics
	return p, nil
}

// Metrics exposes the throughput counters, e.g. for the status monitor.
func (p *Pipeline) Metrics() *Metrics {
	return p.metrics
}

// Stream is the lazy finite sequence of segments the pipeline produces.
// Closing it cancels the producing stages.
type Stream struct {
	out    chan *core.Segment
	cancel context.CancelFunc
}

// Segments returns the stream's receive channel. It is closed once the
// pipeline finishes or fails.
func (s *Stream) Segments() <-chan *core.Segment {
	return s.out
}

// Close cancels the pipeline. Safe to call while the stream is live.
func (s *Stream) Close() {
	s.cancel()
}

// Run starts the loader and slicer stages and returns the consumer
// stream.
func (p *Pipeline) Run(ctx context.Context) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	stream := &Stream{
		out:    make(chan *core.Segment),
		cancel: cancel,
	}

	go p.loaderTask(ctx)
	go p.slicerTask(ctx)
	go p.consumerPump(ctx, stream)

	return stream
}

// loaderTask decodes every dynamic file and pushes raw runs onto the
// unbounded raw channel. A decode failure is terminal for the pipeline.
func (p *Pipeline) loaderTask(ctx context.Context) {
	defer p.rawCh.Close()

	for _, desc := range p.descriptors() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		ticks, err := parser.ReadDynamicFile(desc.dynamicFile)
		if err != nil {
			p.logger.Error("failed to decode dynamic file, aborting pipeline",
				"path", desc.dynamicFile, "error", err)
			return
		}
		p.rawCh.Send(rawRun{
			descriptor: desc,
			runID:      filepath.Base(desc.dynamicFile),
			ticks:      ticks,
		})
		p.metrics.RunRead()
	}
}

// descriptors iterates the map-grouped run descriptors, optionally
// flattened and reordered by seed.
func (p *Pipeline) descriptors() []runDescriptor {
	mapFiles := make([]string, 0, len(p.cfg.MapToDynamicFiles))
	for mapFile := range p.cfg.MapToDynamicFiles {
		mapFiles = append(mapFiles, mapFile)
	}
	sort.Strings(mapFiles)

	var descs []runDescriptor
	for _, mapFile := range mapFiles {
		for _, dynamicFile := range p.cfg.MapToDynamicFiles[mapFile] {
			seed, err := parser.SeedFromFile(dynamicFile)
			if err != nil {
				seed = 0
			}
			descs = append(descs, runDescriptor{
				mapFile:     mapFile,
				dynamicFile: dynamicFile,
				seed:        seed,
			})
		}
	}
	if p.cfg.OrderFilesBySeed {
		sort.SliceStable(descs, func(i, j int) bool { return descs[i].seed < descs[j].seed })
	}
	return descs
}

// slicerTask cleans, converts, kinematics-fills and segments every raw
// run, pushing segments onto the bounded segment channel. A nil sentinel
// closes the stream.
func (p *Pipeline) slicerTask(ctx context.Context) {
	defer func() {
		p.metrics.Finish()
		p.segCh.SendContext(ctx, nil)
		p.segCh.Close()
	}()

	for raw := range p.rawCh.Receive() {
		if err := p.sliceRun(ctx, raw); err != nil {
			p.logger.Error("run processing failed, aborting pipeline",
				"simulationRunId", raw.runID, "error", err)
			return
		}
		p.metrics.RunSliced()
	}
}

func (p *Pipeline) sliceRun(ctx context.Context, raw rawRun) error {
	net := p.nets[raw.descriptor.mapFile]

	if err := cleaner.New(net, p.logger).Clean(raw.ticks); err != nil {
		return err
	}
	runs, err := convert.New(net, p.logger).ConvertRun(raw.ticks, raw.runID, p.cfg.UseEveryVehicleAsEgo)
	if err != nil {
		return err
	}
	slicer := segmenter.New(net, p.logger, p.rng)
	for i := range runs {
		if err := kinematics.Fill(&runs[i]); err != nil {
			return err
		}
		segments, err := slicer.Segment(runs[i], p.cfg.Segmentation)
		if err != nil {
			return err
		}
		for _, seg := range segments {
			if !p.segCh.SendContext(ctx, seg) {
				return ctx.Err()
			}
			p.metrics.SegmentEmitted()
		}
	}
	return nil
}

// consumerPump forwards segments from the bounded channel to the public
// stream until the nil sentinel arrives.
func (p *Pipeline) consumerPump(ctx context.Context, stream *Stream) {
	defer close(stream.out)
	for seg := range p.segCh.Receive() {
		if seg == nil {
			return
		}
		select {
		case stream.out <- seg:
		case <-ctx.Done():
			go func() {
				for range p.segCh.Receive() {
				}
			}()
			return
		}
	}
}
