/*
Package workers sizes and runs small goroutine pools.

Go 1.19+ sets GOMAXPROCS from the container CPU limit, while runtime.NumCPU
still reports the host. [Count] and [ForCPU] size pools from GOMAXPROCS:

	numWorkers := workers.ForCPU(8) // one per available CPU, at most 8

Operators can pin the count with THUMBNAIL_WORKERS:

	THUMBNAIL_WORKERS=2 galleryctl thumbnails --out ./thumbs

[Each] runs a function over a slice on a bounded pool built on errgroup:

	err := workers.Each(ctx, workers.ForCPU(8), catalog, func(ctx context.Context, e media.ImageEntry) error {
		return export(e)
	})
*/
package workers
