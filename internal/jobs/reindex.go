package jobs

import (
	"context"
	"fmt"

	searchService "anoa.com/vidspace/internal/modules/search/service"
	"anoa.com/vidspace/internal/storage"
	"github.com/rs/zerolog"
)

const ReindexJobName = "search-reindex"

// ReindexJob pushes every video back into the search index so counters
// such as views stay current in ranked results.
type ReindexJob struct {
	store    storage.VideoStore
	index    searchService.VideoIndex
	schedule string
	log      zerolog.Logger
}

func NewReindexJob(store storage.VideoStore, index searchService.VideoIndex, schedule string, log zerolog.Logger) *ReindexJob {
	return &ReindexJob{store: store, index: index, schedule: schedule, log: log}
}

func (j *ReindexJob) Name() string     { return ReindexJobName }
func (j *ReindexJob) Schedule() string { return j.schedule }

// Run keeps going past single-video failures and returns the count of them.
func (j *ReindexJob) Run(ctx context.Context) error {
	videos, err := j.store.GetVideos(ctx, 0, "")
	if err != nil {
		return fmt.Errorf("list videos: %w", err)
	}

	failed := 0
	for i := range videos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.index.IndexVideo(ctx, &videos[i]); err != nil {
			failed++
			j.log.Warn().Err(err).Str("video_id", videos[i].ID).Msg("reindex failed")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d videos failed to index", failed, len(videos))
	}
	return nil
}
