package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/paulmach/orb"

	"github.com/Hufung/map/cache"
	"github.com/Hufung/map/config"
	"github.com/Hufung/map/fetch"
	"github.com/Hufung/map/internal"
	"github.com/Hufung/map/layers"
	"github.com/Hufung/map/roadnet"
	"github.com/Hufung/map/speed"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: search conventional locations)")
	mode := flag.String("mode", "oneshot", "oneshot|watch")
	lang := flag.String("lang", "en_US", "en_US|zh_TW|zh_CN")
	bbox := flag.String("bbox", "", "south,west,north,east viewport for on-demand layers")
	onDemand := flag.String("layers", "", "comma-separated on-demand layers: meters,traffic,toilets,retailers,attractions,viewing,fuel")
	roads := flag.Bool("roads", false, "stream the road network geometry")
	flag.Parse()

	internal.InitLogging()
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	client := fetch.NewClient(fetch.Options{
		Proxies:   cfg.Fetch.Proxies,
		Timeout:   time.Duration(cfg.Fetch.TimeoutMS) * time.Millisecond,
		Attempts:  cfg.Fetch.RetryAttempts,
		BaseDelay: time.Duration(cfg.Fetch.RetryBaseDelayMS) * time.Millisecond,
	})

	store, err := cache.Open(cfg.RoadNetwork.CachePath, time.Duration(cfg.RoadNetwork.CacheTTLDays)*24*time.Hour)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	loader := roadnet.NewLoader(client, store, roadnet.Options{
		BulkURL:   cfg.Sources.RoadNetworkURL,
		PagedURL:  cfg.Sources.RoadNetworkURL,
		PageSize:  cfg.RoadNetwork.PageSize,
		ChunkSize: cfg.RoadNetwork.ChunkSize,
		RecordTag: cfg.RoadNetwork.RecordTag,
	})
	engine := speed.NewEngine(client, cfg.Sources.TrafficSpeedURL)
	app := layers.New(client, &consoleRenderer{}, cfg.Sources, layers.Lang(*lang), loader, engine)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := app.LoadEssentialData(ctx)
	log.Printf("essential load: %d carparks, %d permits, %d prohibitions, %d turn restrictions, %d speed readings",
		len(out.Carparks), len(out.Permits), len(out.Prohibitions), len(out.TurnRestrictions), len(out.Speeds))

	if err := app.LoadMeterStatus(ctx); err != nil {
		log.Printf("meter status unavailable: %v", err)
	}

	if *roads {
		if err := app.LoadRoadNetwork(ctx); err != nil {
			log.Printf("traffic layer unavailable: %v", err)
		} else {
			log.Printf("road network: %d segments total", app.DrawnSegmentCount())
		}
	}

	var b orb.Bound
	hasBBox := *bbox != ""
	if hasBBox {
		b, err = parseBBox(*bbox)
		if err != nil {
			panic(err)
		}
	}
	fetchOnDemand(ctx, app, b, hasBBox, *onDemand)

	switch *mode {
	case "oneshot":
	case "watch":
		if cfg.Server.Port > 0 {
			status := startStatusServer(cfg.Server.Port, app, engine)
			defer status.shutdown()
		}
		interval := time.Duration(cfg.Speed.RefreshSeconds) * time.Second
		log.Printf("refreshing traffic speeds every %s", interval)
		engine.Run(ctx, interval, app)
	default:
		panic("unknown mode")
	}
}

// parseBBox reads "south,west,north,east" into a bound.
func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, flag.ErrHelp
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, err
		}
		vals[i] = v
	}
	return orb.Bound{
		Min: orb.Point{vals[1], vals[0]},
		Max: orb.Point{vals[3], vals[2]},
	}, nil
}

func fetchOnDemand(ctx context.Context, app *layers.App, b orb.Bound, hasBBox bool, selection string) {
	want := map[string]bool{}
	for _, l := range strings.Split(selection, ",") {
		if l = strings.TrimSpace(strings.ToLower(l)); l != "" {
			want[l] = true
		}
	}
	for _, viewportLayer := range []string{"meters", "traffic", "toilets", "retailers"} {
		if want[viewportLayer] && !hasBBox {
			log.Printf("%s needs -bbox, skipping", viewportLayer)
			want[viewportLayer] = false
		}
	}
	if want["meters"] {
		features, err := app.FetchParkingMetersInView(ctx, b)
		if err != nil {
			log.Printf("parking meters unavailable: %v", err)
		} else {
			groups := app.GroupMeters(features)
			log.Printf("parking meters: %d meters in %d street sections", len(features), len(groups))
		}
	}
	if want["traffic"] {
		features, err := app.FetchTrafficFeaturesInView(ctx, b)
		if err != nil {
			log.Printf("traffic features unavailable: %v", err)
		} else {
			log.Printf("traffic features: %d in view", len(features))
		}
	}
	if want["toilets"] {
		features, err := app.FetchToiletsInView(ctx, b)
		if err != nil {
			log.Printf("toilets unavailable: %v", err)
		} else {
			log.Printf("toilets: %d in view", len(features))
		}
	}
	if want["attractions"] {
		features, err := app.LoadAttractions(ctx)
		if err != nil {
			log.Printf("attractions unavailable: %v", err)
		} else {
			log.Printf("attractions: %d", len(features))
		}
	}
	if want["viewing"] {
		features, err := app.LoadViewingPoints(ctx)
		if err != nil {
			log.Printf("viewing points unavailable: %v", err)
		} else {
			log.Printf("viewing points: %d", len(features))
		}
	}
	if want["fuel"] {
		stations, err := app.LoadFuelStations(ctx)
		if err != nil {
			log.Printf("fuel stations unavailable: %v", err)
		} else {
			prices, err := app.LoadFuelPrices(ctx)
			if err != nil {
				log.Printf("fuel prices unavailable: %v", err)
			}
			log.Printf("fuel: %d stations, prices for %d vendors", len(stations), len(prices))
		}
	}
	if want["retailers"] {
		features, err := app.FetchRetailersInView(ctx, b)
		if err != nil {
			log.Printf("retailers unavailable: %v", err)
		} else {
			groups := layers.GroupRetailers(features)
			log.Printf("retailers: %d shops at %d locations, categories: %s",
				len(features), len(groups), strings.Join(layers.RetailerCategories(features), ", "))
		}
	}
}
