package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"
	_ "modernc.org/sqlite"

	"hgsvrptw/internal/adapters/cache"
	"hgsvrptw/internal/adapters/policy"
	"hgsvrptw/internal/adapters/store"
	"hgsvrptw/internal/cli"
	"hgsvrptw/internal/domain"
	"hgsvrptw/internal/genetic"
	"hgsvrptw/internal/io"
	"hgsvrptw/internal/platform/db"
	"hgsvrptw/internal/ports"
	"hgsvrptw/internal/report"
)

// hgsvrptw mirrors original_source/src/main.cpp's flow: parse the command
// line, load the instance, run the genetic algorithm, write the solution,
// and (when configured) update the best-known-solution record.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Usage())
		log.Fatal(err)
	}

	if err := run(args); err != nil {
		log.Fatal(err)
	}
}

func run(args *cli.Args) error {
	ctx := context.Background()
	printer := report.NewPrinter(reportLocale())

	log.Printf("----- READING DATA SET FROM: %s", args.InstancePath)

	var matrixCache *matrixCacheHandle
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		matrixCache = newMatrixCacheHandle(addr)
		defer matrixCache.Close()
	}

	var source ports.InstanceSource = io.FileInstanceSource{Cfg: args.Cfg, Cache: matrixCache.lookup()}
	inst, err := source.Read(ctx, args.InstancePath)
	if err != nil {
		return fmt.Errorf("hgsvrptw: %w", err)
	}

	if inst.Cfg.UseDynamicParameters {
		if err := tuneDynamicParameters(inst); err != nil {
			return fmt.Errorf("hgsvrptw: dynamic parameters: %w", err)
		}
	}

	log.Print(printer.InstanceLoadedBanner(inst.NbClients(), inst.NbVehicles))
	log.Println("----- BUILDING INITIAL POPULATION")

	driver := genetic.New(inst)

	if inst.Cfg.InitialSolution != "" {
		tour, err := io.ParseInitialGiantTour(inst.Cfg.InitialSolution)
		if err != nil {
			return fmt.Errorf("hgsvrptw: initial solution: %w", err)
		}
		if err := driver.SeedInitialSolution(tour); err != nil {
			return fmt.Errorf("hgsvrptw: initial solution: %w", err)
		}
	}

	progressStore, err := newProgressStoreHandle()
	if err != nil {
		return fmt.Errorf("hgsvrptw: progress store: %w", err)
	}
	if progressStore != nil {
		defer progressStore.Close()
	}
	runID := filepath.Base(args.InstancePath)

	var poolFile *os.File
	if inst.Cfg.LogPoolInterval > 0 {
		poolPath := args.SolutionPath + ".POP.csv"
		poolFile, err = os.Create(poolPath)
		if err != nil {
			return fmt.Errorf("hgsvrptw: open pool dump %q: %w", poolPath, err)
		}
		defer poolFile.Close()
	}

	log.Println("----- STARTING GENETIC ALGORITHM")
	best := driver.Run(func(iteration int, row ports.ProgressRow) {
		row.Iteration = iteration
		row.ElapsedSeconds = inst.ElapsedSeconds()
		log.Print(printer.ProgressLine(row))
		if progressStore != nil {
			if err := progressStore.store.AppendProgress(ctx, runID, row); err != nil {
				log.Printf("progress store: append: %v", err)
			}
		}
	}, func(iteration int) {
		log.Printf("----- EXPORTING POOL IN : %s", poolFile.Name())
		if err := driver.ExportPopulationCSV(poolFile, iteration); err != nil {
			log.Printf("pool dump: %v", err)
		}
	})
	log.Print(printer.FinishedBanner(inst.ElapsedSeconds()))

	if best == nil {
		return fmt.Errorf("hgsvrptw: no feasible solution found")
	}
	log.Print(printer.SolutionSummary(best.IsFeasible, best.Cost.NbRoutes, best.Cost.PenalizedCost, inst.ElapsedSeconds()))

	var sink ports.SolutionSink = io.CVRPLibSolutionSink{}
	if err := sink.Write(ctx, args.SolutionPath, best, inst.ElapsedSeconds()); err != nil {
		return fmt.Errorf("hgsvrptw: write solution: %w", err)
	}

	if inst.Cfg.BksPath != "" {
		if err := updateBKSFile(inst.Cfg.BksPath, best, inst.ElapsedSeconds()); err != nil {
			log.Printf("bks file: %v", err)
		}
	}

	instanceName := strings.TrimSuffix(filepath.Base(args.InstancePath), filepath.Ext(args.InstancePath))
	if err := updateBKSStore(ctx, instanceName, best); err != nil {
		log.Printf("bks store: %v", err)
	}

	return nil
}

// reportLocale picks the message.Printer locale from HGSVRPTW_LOCALE
// (e.g. "fr", "de"), defaulting to English when unset or unparseable.
func reportLocale() language.Tag {
	if tag := os.Getenv("HGSVRPTW_LOCALE"); tag != "" {
		if t, err := language.Parse(tag); err == nil {
			return t
		}
	}
	return language.English
}

// tuneDynamicParameters applies either the operator-supplied Lua policy
// (DYNAMIC_PARAMS_SCRIPT) or the built-in Go heuristic, matching
// Params.cpp's "isDimacsRun || useDynamicParameters" branch.
func tuneDynamicParameters(inst *domain.Instance) error {
	var p ports.DynamicParameterPolicy
	if script := os.Getenv("DYNAMIC_PARAMS_SCRIPT"); script != "" {
		p = policy.NewLuaDynamicParameterPolicy(script)
	} else {
		p = policy.NewGoHeuristicDynamicParameterPolicy()
	}
	return p.Tune(inst.NbClients(), inst)
}

// matrixCacheHandle owns the optional Redis connection backing the
// travel-time matrix cache (SPEC_FULL DOMAIN STACK).
type matrixCacheHandle struct {
	rdb   *redis.Client
	cache *cache.RedisMatrixCache
}

func newMatrixCacheHandle(addr string) *matrixCacheHandle {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &matrixCacheHandle{rdb: rdb, cache: cache.NewRedisMatrixCache(rdb)}
}

// lookup adapts the handle to io.MatrixCacheLookup; a nil receiver (no
// REDIS_ADDR configured) yields a nil lookup, which io.ReadInstance
// treats as "always recompute the matrix".
func (h *matrixCacheHandle) lookup() *io.MatrixCacheLookup {
	if h == nil {
		return nil
	}
	return &io.MatrixCacheLookup{Fingerprint: cache.Fingerprint, Cache: h.cache}
}

func (h *matrixCacheHandle) Close() {
	if h == nil {
		return
	}
	_ = h.rdb.Close()
}

// progressStoreHandle owns the optional SQLite connection backing the
// search-progress log (SPEC_FULL "Search-progress / population export").
type progressStoreHandle struct {
	db    *sql.DB
	store *store.SqliteProgressStore
}

func newProgressStoreHandle() (*progressStoreHandle, error) {
	path := os.Getenv("PROGRESS_DB_PATH")
	if path == "" {
		return nil, nil
	}
	conn, err := db.OpenSqlite(path)
	if err != nil {
		return nil, err
	}
	s := store.NewSqliteProgressStore(conn)
	if err := s.InitSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return &progressStoreHandle{db: conn, store: s}, nil
}

func (h *progressStoreHandle) Close() {
	if h == nil {
		return
	}
	_ = h.db.Close()
}

// updateBKSFile mirrors Population::exportBKS: read the current
// best-known solution from bksPath and overwrite it only if best
// strictly improves on it. A missing or unreadable file is treated as
// "no BKS yet" and written unconditionally.
func updateBKSFile(bksPath string, best *domain.Individual, elapsedSeconds float64) error {
	log.Println("----- CHECKING FOR POSSIBLE BKS UPDATE")
	_, existingCost, err := io.ReadCVRPLibSolution(bksPath)
	if err != nil {
		return io.WriteCVRPLibSolution(bksPath, best, elapsedSeconds)
	}
	if best.Cost.PenalizedCost >= existingCost {
		return nil
	}
	log.Printf("----- NEW BKS: %.2f !!!", best.Cost.PenalizedCost)
	return io.WriteCVRPLibSolution(bksPath, best, elapsedSeconds)
}

// updateBKSStore mirrors updateBKSFile against the shared Postgres
// history (SPEC_FULL DOMAIN STACK), when DATABASE_URL is configured.
func updateBKSStore(ctx context.Context, instanceName string, best *domain.Individual) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil
	}
	conn, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	s := store.NewPostgresBKSStore(conn)
	existingCost, _, ok, err := s.GetBest(ctx, instanceName)
	if err != nil {
		return err
	}
	if ok && existingCost <= best.Cost.PenalizedCost {
		return nil
	}
	log.Print(report.BKSUpdate(instanceName, best.Cost.PenalizedCost))
	return s.PutBest(ctx, instanceName, best.Cost.PenalizedCost, best.Routes)
}
