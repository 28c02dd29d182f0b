package trainer

import (
	"context"
	"fmt"
	"time"

	"qgxf-trainer/internal/display"
	"qgxf-trainer/internal/randomness"
	"qgxf-trainer/models"
)

// WatchAll walks every lesson, video and resource on the platform and
// simulates playback for each resource of every unfinished video. Resource
// workers run through the scheduler; a worker failure is reported on its
// own line and does not abort the walk.
func (t *Trainer) WatchAll(ctx context.Context) error {
	t.display.RemoveAll()
	t.display.AddLine(display.Text("Fetching lesson list...", display.StyleMagenta))

	lessons, err := t.api.GetLessonList(ctx)
	if err != nil {
		return fmt.Errorf("fetch lesson list: %w", err)
	}

	for _, lesson := range lessons {
		t.display.AddLinef(display.StyleCyan, "(lesson %d) `%s`", lesson.LessonID, lesson.LessonTitle)

		videos, err := t.api.GetVideoList(ctx, lesson.LessonID)
		if err != nil {
			return fmt.Errorf("fetch videos of lesson %d: %w", lesson.LessonID, err)
		}
		for _, video := range videos {
			t.display.AddLinef(display.StyleCyan, "  (video %d) `%s`", video.VideoID, video.VideoTitle)
			if video.Complete {
				continue
			}

			resources, err := t.api.GetResourceList(ctx, video.VideoID)
			if err != nil {
				return fmt.Errorf("fetch resources of video %d: %w", video.VideoID, err)
			}
			for _, res := range resources {
				t.enqueueWatch(ctx, res)
				t.sleep(startPlayingInterval)
			}
		}
	}

	waiting := t.display.AddLine(display.Text("Waiting for the remaining playback workers...", display.StyleMagenta))
	t.sched.Wait()
	waiting.Set(display.Text("All playback tasks complete!", display.StyleGreen))
	return nil
}

// enqueueWatch fetches the resource detail, then hands the playback
// simulation to the scheduler. While the scheduler is at capacity the
// submission blocks behind a "queued" line so the user can see it.
func (t *Trainer) enqueueWatch(ctx context.Context, res models.Resource) {
	queued := t.display.AddLinef(display.StyleWhite, "    (resource %d) queued...", res.ResourceID)

	detail, err := t.api.GetResourceDetail(ctx, res.ResourceID)
	if err != nil {
		queued.Setf(display.StyleRed, "    (resource %d) failed: %v", res.ResourceID, err)
		t.log.Error().Err(err).Int64("resource_id", res.ResourceID).Msg("fetch resource detail")
		return
	}

	t.sched.Submit(func() {
		t.runWatch(ctx, res.ResourceID, detail)
	})
	t.display.RemoveLine(queued)
}

// runWatch is the playback worker body. Failures and panics stay on the
// worker's line.
func (t *Trainer) runWatch(ctx context.Context, resourceID int64, detail models.ResourceDetail) {
	line := t.display.AddLinef(display.StyleWhite, "    (resource %d) starting...", resourceID)
	defer func() {
		if r := recover(); r != nil {
			line.Setf(display.StyleRed, "    (resource %d) failed: %v", resourceID, r)
			t.log.Error().Int64("resource_id", resourceID).Interface("panic", r).Msg("playback worker panicked")
		}
	}()

	if err := t.simulatePlayback(ctx, resourceID, detail, line); err != nil {
		line.Setf(display.StyleRed, "    (resource %d) failed: %v", resourceID, err)
		t.log.Error().Err(err).Int64("resource_id", resourceID).Msg("playback worker failed")
	}
}

func (t *Trainer) simulatePlayback(ctx context.Context, resourceID int64, detail models.ResourceDetail, line *display.Line) error {
	start, err := HHMMSSToSeconds(detail.ResourceTime)
	if err != nil {
		return fmt.Errorf("resource position: %w", err)
	}
	total, err := HHMMSSToSeconds(detail.ResourceDuration)
	if err != nil {
		return fmt.Errorf("resource duration: %w", err)
	}

	step := t.opts.ReportInterval
	pacing := time.Duration(float64(step) * playingTimeScale * float64(time.Second))
	if step < 1 {
		step = 1
		pacing = 0
	}

	totalStr := SecondsToHHMMSS(float64(total))
	for now := start; now < total; now += step {
		jittered := randomness.About(float64(now), t.opts.ReportRandomness, 0, float64(total))
		percent := 100.0
		if total > 0 {
			percent = jittered / float64(total) * 100
		}
		line.Setf(display.StyleWhite, "    (resource %d) watching %s / %s (%.0f%%)",
			resourceID, SecondsToHHMMSS(jittered), totalStr, percent)

		if err := t.api.SetResourceProgress(ctx, resourceID, SecondsToHHMMSS(jittered)); err != nil {
			return err
		}
		if pacing > 0 {
			t.sleep(pacing)
		}
	}

	line.Setf(display.StyleWhite, "    (resource %d) wrapping up...", resourceID)
	for i := 0; i < finishingReports; i++ {
		if err := t.api.SetResourceProgress(ctx, resourceID, totalStr); err != nil {
			return err
		}
		if pacing > 0 {
			t.sleep(pacing)
		}
	}

	line.Setf(display.StyleGreen, "    (resource %d) complete", resourceID)
	return nil
}
