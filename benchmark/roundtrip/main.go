package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"liyu1981.xyz/home-controller-schema/pkg/common"
	"liyu1981.xyz/home-controller-schema/pkg/db"
	"liyu1981.xyz/home-controller-schema/pkg/schema"
)

var (
	rounds    = flag.Int("rounds", 200, "apply/revert round trips per database")
	databases = flag.Int("databases", 8, "independent in-memory databases worked in parallel")
	pure      = flag.Bool("pure", false, "use the pure go sqlite driver")
)

func roundTrips(ctx context.Context, n int) (time.Duration, error) {
	dialector := db.UseMemorySqliteDialector()
	if *pure {
		dialector = db.UsePureSqliteDialector("file:bench-" + uuid.NewString() + "?mode=memory&cache=shared")
	}

	instance, err := db.Open(dialector)
	if err != nil {
		return 0, err
	}
	defer instance.Close()

	sqlDB, err := instance.SqlDB()
	if err != nil {
		return 0, err
	}

	start := time.Now()
	for range n {
		if err := schema.Apply(ctx, sqlDB); err != nil {
			return 0, err
		}
		if err := schema.Revert(ctx, sqlDB); err != nil {
			return 0, err
		}
	}
	return time.Since(start), nil
}

func main() {
	flag.Parse()
	common.SetLoggerNop()

	ctx := context.Background()
	startTime := time.Now()

	var wg sync.WaitGroup
	errs := make(chan error, *databases)
	for i := range *databases {
		wg.Add(1)
		go func() {
			defer wg.Done()
			used, err := roundTrips(ctx, *rounds)
			if err != nil {
				errs <- err
				return
			}
			fmt.Printf("database %d: %d round trips in %v\n", i, *rounds, used)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		log.Fatal(err)
	}

	usedTime := time.Since(startTime)
	total := *rounds * *databases
	fmt.Printf(
		"%d round trips (%d statements): used time=%v seconds, throughput=%v round trips/second\n",
		total, total*2*len(schema.TableNames()), usedTime.Seconds(), float64(total)/usedTime.Seconds(),
	)
}
