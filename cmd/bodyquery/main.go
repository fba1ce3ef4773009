package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/mshafiee/jpleph"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/bodygeom/core"
	"github.com/signalsfoundry/bodygeom/internal/ephem"
	"github.com/signalsfoundry/bodygeom/internal/logging"
	"github.com/signalsfoundry/bodygeom/internal/observability"
	"github.com/signalsfoundry/bodygeom/kb"
	"github.com/signalsfoundry/bodygeom/model"
)

const tracerName = "github.com/signalsfoundry/bodygeom/cmd/bodyquery"

func main() {
	meshPath := flag.String("mesh", "configs/earth_mesh.json", "path to the JSON triangle mesh")
	kernelPath := flag.String("kernel", "", "optional path to a JPL DE binary kernel for sun states")
	tle1 := flag.String("tle1", "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990", "viewpoint TLE line 1")
	tle2 := flag.String("tle2", "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760", "viewpoint TLE line 2")
	step := flag.Duration("step", 30*time.Second, "sampling step of the viewpoint ephemeris")
	count := flag.Int("count", 120, "number of sampled viewpoint states")
	fovHalfAngle := flag.Float64("fov-half-angle", 5.0, "circular field-of-view half aperture in degrees")
	pixelFOV := flag.Float64("pixel-fov", 1e-5, "per-pixel field of view in radians")
	metricsAddr := flag.String("metrics-addr", ":9090", "address of the /metrics endpoint, empty to disable")
	flag.Parse()

	ctx := context.Background()
	log := logging.NewFromEnv()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewGeometryCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
	}

	// ==== Frames and registry ====

	icrf := core.NewRootFrame("ICRF")

	registry := kb.NewRegistry()
	if err := kb.WithIAU2009Bodies(registry); err != nil {
		panic(err)
	}
	registry.Freeze()

	earthOrientation, err := registry.Orientation("Earth")
	if err != nil {
		panic(err)
	}
	earthFixed, err := core.NewFrame("Earth/rotating", icrf, earthOrientation.TransformProvider())
	if err != nil {
		panic(err)
	}

	// ==== Body shape ====

	f, err := os.Open(*meshPath)
	if err != nil {
		panic(fmt.Errorf("failed to open mesh %q: %w", *meshPath, err))
	}
	vertices, triangles, summary, err := core.LoadMesh(f)
	f.Close()
	if err != nil {
		panic(fmt.Errorf("failed to load mesh: %w", err))
	}
	log.Info(ctx, "mesh loaded",
		logging.String("body", summary.Name),
		logging.Int("vertices", summary.Vertices),
		logging.Int("triangles", summary.Triangles),
	)

	body, err := core.NewFacetBodyShape(summary.Name, earthFixed, vertices, triangles)
	if err != nil {
		panic(err)
	}
	wgs84, err := model.NewOneAxisEllipsoid(6378.137, 1/298.257223563)
	if err != nil {
		panic(err)
	}
	inscribed, err := model.NewOneAxisEllipsoid(body.MinRadius(), 0)
	if err != nil {
		panic(err)
	}
	body.AttachEllipsoid(model.ShapeFittedEllipsoid, wgs84)
	body.AttachEllipsoid(model.ShapeInscribedSphere, inscribed)
	collector.SetMeshSize(summary.Name, summary.Triangles)

	// ==== Sun provider: DE kernel when available, Meeus series otherwise ====

	var sun core.PVProvider = ephem.NewAnalyticSun(icrf)
	if *kernelPath != "" {
		kernel, err := ephem.OpenKernel(*kernelPath)
		if err != nil {
			panic(fmt.Errorf("failed to open kernel: %w", err))
		}
		defer kernel.Close()
		if err := kernel.LinkAt(icrf); err != nil {
			panic(err)
		}
		sun = kernel.Provider(jpleph.Sun, jpleph.CenterEarth)
		log.Info(ctx, "using DE kernel sun states",
			logging.Float64("start_jd", kernel.StartJD()),
			logging.Float64("end_jd", kernel.EndJD()),
		)
	}

	// ==== Viewpoint ephemeris and query loop ====

	states, err := ephem.SampleViewpointStates(*tle1, *tle2, time.Now().UTC(), *step, *count)
	if err != nil {
		panic(fmt.Errorf("failed to sample viewpoint states: %w", err))
	}

	tracer := otel.Tracer(tracerName)
	eclipsed := 0
	for _, st := range states {
		sctx, span := tracer.Start(ctx, "bodyquery/state",
			trace.WithAttributes(attribute.String("epoch", st.Epoch.String())))
		runQueries(sctx, body, st, sun, collector, log, *fovHalfAngle, *pixelFOV, &eclipsed)
		span.End()
	}

	fmt.Printf("Processed %d states, %d in eclipse.\n", len(states), eclipsed)

	stats, err := body.StatisticsForAltitude(model.ShapeFittedEllipsoid)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Facet altitude over reference ellipsoid: min=%.3f km mean=%.3f km max=%.3f km sigma=%.3f km\n",
		stats.Min(), stats.Mean(), stats.Max(), stats.StandardDeviation())
}

func runQueries(ctx context.Context, body *core.FacetBodyShape, st core.ViewpointState,
	sun core.PVProvider, collector *observability.GeometryCollector, log logging.Logger,
	fovHalfAngleDeg, pixelFOV float64, eclipsed *int) {
	start := time.Now()
	inEclipse, err := body.IsInEclipse(st.Epoch, st.Position, body.Frame(), sun)
	if err != nil {
		collector.EphemerisErrors.Inc()
		collector.ObserveQuery("eclipse", "error", time.Since(start))
		log.Warn(ctx, "eclipse query failed",
			logging.String("epoch", st.Epoch.String()),
			logging.String("error", err.Error()),
		)
		return
	}
	collector.ObserveQuery("eclipse", "ok", time.Since(start))
	if inEclipse {
		*eclipsed++
	}

	fov, err := core.NewCircularFieldOfView(st.LOS, fovHalfAngleDeg*math.Pi/180)
	if err != nil {
		panic(err)
	}
	start = time.Now()
	field, err := body.FieldData(st, fov, core.FastFieldScan)
	if err != nil {
		collector.ObserveQuery("field_data", "error", time.Since(start))
		log.Warn(ctx, "field query failed", logging.String("error", err.Error()))
		return
	}
	collector.ObserveQuery("field_data", "ok", time.Since(start))

	start = time.Now()
	pointed, err := body.SurfacePointedDataEphemeris([]core.ViewpointState{st}, sun, pixelFOV)
	if err != nil {
		collector.ObserveQuery("surface_pointed", "miss", time.Since(start))
		return
	}
	collector.ObserveQuery("surface_pointed", "ok", time.Since(start))

	log.Debug(ctx, "state processed",
		logging.String("epoch", st.Epoch.String()),
		logging.Any("eclipse", inEclipse),
		logging.Int("visible_triangles", len(field.VisibleTriangles)),
		logging.Float64("visible_surface_km2", field.VisibleSurface),
		logging.Float64("boresight_distance_km", pointed[0].Distance),
		logging.Float64("resolution_km", pointed[0].Resolution),
	)
}
