package app

import (
	"context"
	"sync"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/camera"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/mission"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/projection"
)

// projectAnnotations runs the polygon projections of one asset on a bounded
// worker pool. Results land in a slice indexed like the input, so output
// order matches input order regardless of worker scheduling. Cancellation
// leaves the untouched slots as zero results, which read as "not
// georeferenced".
func projectAnnotations(
	ctx context.Context,
	annotations []*mission.Annotation,
	pose *camera.Pose,
	projector *projection.Projector,
	workers int,
) []projection.PolygonResult {
	results := make([]projection.PolygonResult, len(annotations))

	if workers > len(annotations) {
		workers = len(annotations)
	}
	if workers <= 1 {
		for i, annotation := range annotations {
			if ctx.Err() != nil {
				break
			}
			results[i] = projection.ProjectPolygon(annotation.Pixels, pose, projector)
		}
		return results
	}

	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = projection.ProjectPolygon(annotations[i].Pixels, pose, projector)
			}
		}()
	}

	for i := range annotations {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
