package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/pprof"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	"github.com/ivoryduke/quadindex/featureflag"
	"github.com/ivoryduke/quadindex/geom"
	quadindexhttp "github.com/ivoryduke/quadindex/http"
	"github.com/ivoryduke/quadindex/models"
	"github.com/ivoryduke/quadindex/trees"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

// The quadindex version number. Set at build.
var version = "v0.1.0"

type config struct {
	WorldHalfSize float64       `cli:""        env:"QUADINDEX_WORLD_HALF_SIZE" help:"Half side length of the indexed world."`
	Entities      int           `cli:""        env:"QUADINDEX_ENTITIES"        help:"The number of entities seeded into the index."`
	Frames        int           `cli:""        env:"QUADINDEX_FRAMES"          help:"The number of simulated editor frames."`
	FrameDuration time.Duration `cli:",hidden" env:"QUADINDEX_FRAME_DURATION"  help:"The duration of a simulated frame."`
	Seed          int64         `cli:""        env:"QUADINDEX_SEED"            help:"Seed for the entity and query generator."`
	AdminAddr     string        `cli:""        env:"QUADINDEX_ADMIN_ADDR"      help:"Admin listening address."`
	LogLevel      string        `cli:""        env:"QUADINDEX_LOG_LEVEL"       help:"Log level (debug|info|warning|error)."`
	LogIndent     bool          `cli:""        env:"QUADINDEX_LOG_INDENT"      help:"Indent logs."`
	FeatureFlags  []string      `cli:",hidden" env:"QUADINDEX_FEATURE_FLAGS"   help:"Comma separated feature flags."`
	Version       bool          `cli:""        env:"-"                         help:"Show version."`
	Help          bool          `cli:""        env:"-"                         help:"Show help."`
}

// box is a placed entity driven by the soak session.
type box struct {
	id   models.Identifier
	hull geom.Hull
}

func (b *box) ID() models.Identifier { return b.id }
func (b *box) Hull() geom.Hull       { return b.hull }

func main() {
	conf := config{
		WorldHalfSize: 16384,
		Entities:      2048,
		Frames:        1024,
		FrameDuration: time.Millisecond * 15,
		Seed:          1,
		AdminAddr:     ":18190",
		LogLevel:      logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Runs a quadindex soak session.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	snap := &statsSnapshot{}

	var admin http.ServeMux
	admin.HandleFunc("/health", quadindexhttp.HandleHealthCheck)
	admin.Handle("/version", quadindexhttp.HandleVersion(version))
	admin.Handle("/stats", quadindexhttp.HandleStats(snap.get))
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))

	go quadindexhttp.ListenAndServe(ctx, &http.Server{
		Addr:    conf.AdminAddr,
		Handler: &admin,
	})

	runID := uuid.NewString()
	logs.WithTag("version", version).
		WithTag("run_id", runID).
		WithTag("log_level", conf.LogLevel).
		WithTag("world_half_size", conf.WorldHalfSize).
		WithTag("entities", conf.Entities).
		WithTag("frames", conf.Frames).
		Info("starting quadindex soak session")

	flags := featureflag.New(conf.FeatureFlags)

	start := time.Now()
	if err := run(ctx, conf, flags, snap); err != nil {
		logs.Fatal(errors.New("soak session failed").WithTag("run_id", runID).Wrap(err))
	}

	logs.WithTag("run_id", runID).
		WithTag("duration", time.Since(start).String()).
		Info("soak session completed")
}

// statsSnapshot decouples the admin stats endpoint from the soak loop,
// which owns the index and must not be read concurrently.
type statsSnapshot struct {
	mu    sync.Mutex
	stats trees.Stats
}

func (s *statsSnapshot) set(v trees.Stats) {
	s.mu.Lock()
	s.stats = v
	s.mu.Unlock()
}

func (s *statsSnapshot) get() trees.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func run(ctx context.Context, conf config, flags featureflag.FeatureFlag, snap *statsSnapshot) error {
	rng := rand.New(rand.NewSource(conf.Seed))
	worldHalf := float32(conf.WorldHalfSize)
	index := trees.NewSized(worldHalf)

	var (
		brushes []*box
		things  []*box
		sprites []*box
		ids     models.IDGenerator
	)

	randomHull := func() geom.Hull {
		// Keep hulls well inside the world so corners stay
		// addressable.
		cx := (rng.Float32()*2 - 1) * worldHalf * 0.9
		cy := (rng.Float32()*2 - 1) * worldHalf * 0.9
		w := rng.Float32()*worldHalf*0.05 + 1
		h := rng.Float32()*worldHalf*0.05 + 1
		return geom.NewHull(cy+h, cy-h, cx-w, cx+w)
	}

	for i := 0; i < conf.Entities; i++ {
		b := &box{id: ids.New(), hull: randomHull()}

		switch i % 4 {
		case 0, 1:
			index.InsertBrushHull(b)
			brushes = append(brushes, b)
		case 2:
			index.InsertThingHull(b)
			things = append(things, b)
		default:
			index.InsertSpriteHull(b.id, b.Hull)
			sprites = append(sprites, b)
		}
	}

	snap.set(index.Stats())

	viewport := geom.NewHull(worldHalf/8, -worldHalf/8, -worldHalf/8, worldHalf/8)

	for frame := 0; frame < conf.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		flags.IfSet(featureflag.FlagDisableQueryCaches, func() {
			index.SetBrushesDirty()
			index.SetThingsDirty()
			index.SetSpritesDirty()
		})

		pan := geom.Vec{
			X: (rng.Float32()*2 - 1) * worldHalf / 64,
			Y: (rng.Float32()*2 - 1) * worldHalf / 64,
		}
		viewport = viewport.Translated(pan)

		index.VisibleBrushes(viewport, 1)
		index.VisibleThings(viewport, 1)
		index.VisibleSprites(viewport, 1)
		index.VisibleAnchors(viewport, 1)

		cursor := geom.Vec{
			X: (rng.Float32()*2 - 1) * worldHalf,
			Y: (rng.Float32()*2 - 1) * worldHalf,
		}
		index.BrushesAtPos(cursor, 1)
		index.ThingsAtPos(cursor, 0)
		index.SpritesAtPos(cursor)

		flags.IfNotSet(featureflag.FlagDisableMutationPhase, func() {
			if len(brushes) == 0 {
				return
			}

			b := brushes[rng.Intn(len(brushes))]
			previous := b.hull
			b.hull = randomHull()
			index.ReplaceBrushHull(b.id, b.hull, previous)
		})

		flags.IfNotSet(featureflag.FlagDisableSpriteChurn, func() {
			if len(sprites) == 0 {
				return
			}

			s := sprites[rng.Intn(len(sprites))]
			index.RemoveSpriteHull(s.id, s.hull)
			s.hull = randomHull()
			index.InsertSpriteHull(s.id, s.Hull)
		})

		var validationErr error
		flags.IfSet(featureflag.FlagValidateWorldRange, func() {
			got := index.BrushesInRange(index.WorldHull()).Len()
			if got != len(brushes) {
				validationErr = errors.New("world range is missing brushes").
					WithTag("frame", frame).
					WithTag("got", got).
					WithTag("want", len(brushes))
			}
		})
		if validationErr != nil {
			return validationErr
		}

		snap.set(index.Stats())

		if conf.FrameDuration > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(conf.FrameDuration):
			}
		}
	}

	logs.WithTag("brushes", len(brushes)).
		WithTag("things", len(things)).
		WithTag("sprites", len(sprites)).
		Debug("soak entities settled")

	return nil
}

func validateConfig(conf config) error {
	if conf.WorldHalfSize <= 0 {
		return errors.New("world half size must be positive")
	}

	if conf.Entities <= 0 {
		return errors.New("entity count must be positive")
	}

	if conf.Frames <= 0 {
		return errors.New("frame count must be positive")
	}

	return nil
}
