package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytfetch/internal/output"
	"github.com/tanq16/ytfetch/internal/utils"
)

// Registry maps job types to the downloader that handles them.
type Registry map[string]utils.Downloader

// NewRegistry registers d for every workflow.
func NewRegistry(d utils.Downloader) Registry {
	return Registry{
		utils.JobTypeVideo: d,
		utils.JobTypeAudio: d,
		utils.JobTypeMerge: d,
	}
}

// Run takes each job through validate, build and download, one at a time.
// A failed job does not stop the ones after it; all failures are returned
// joined.
func Run(ctx context.Context, jobs []utils.YtfetchJob, registry Registry, outputMgr *output.Manager) error {
	outputMgr.StartDisplay()
	defer outputMgr.StopDisplay()

	var errs []error
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := processJob(ctx, &jobs[i], registry, outputMgr); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func processJob(ctx context.Context, job *utils.YtfetchJob, registry Registry, outputMgr *output.Manager) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	funcID := outputMgr.RegisterJob(fmt.Sprintf("%s %s", job.JobType, job.URL))
	fail := func(stage string, err error) error {
		log.Error().Str("op", "scheduler/"+stage).Str("job", job.ID).Err(err).Msg("job failed")
		outputMgr.SetMessage(funcID, fmt.Sprintf("%s failed for %s", stage, job.URL))
		outputMgr.ReportError(funcID, err)
		return fmt.Errorf("%s: %w", stage, err)
	}

	downloader, exists := registry[job.JobType]
	if !exists {
		return fail("validation", fmt.Errorf("unknown job type: %s", job.JobType))
	}

	outputMgr.SetStatus(funcID, "pending")
	outputMgr.SetMessage(funcID, fmt.Sprintf("Validating %s job", job.JobType))
	if err := downloader.ValidateJob(job); err != nil {
		return fail("validation", err)
	}

	outputMgr.SetMessage(funcID, fmt.Sprintf("Building %s job", job.JobType))
	if err := downloader.BuildJob(ctx, job); err != nil {
		return fail("build", err)
	}

	name := filepath.Base(job.OutputPath)
	job.ProgressFunc = func(_, downloaded, total int64) {
		outputMgr.UpdateProgress(funcID, downloaded, total)
	}
	job.StreamFunc = func(line string) {
		outputMgr.AddStreamLine(funcID, line)
	}
	outputMgr.UpdateProgress(funcID, 0, job.TotalBytes)
	outputMgr.SetMessage(funcID, fmt.Sprintf("Downloading %s", name))
	if err := downloader.Download(ctx, job); err != nil {
		return fail("download", err)
	}

	outputMgr.Complete(funcID, fmt.Sprintf("Saved %s", job.OutputPath))
	return nil
}
