// Package trainer drives the two automated study tasks against the remote
// platform: simulated video playback and lesson exams. It renders progress
// through the display engine and keeps reference answers in the config
// memory between runs.
package trainer

import (
	"context"
	"time"

	"qgxf-trainer/internal/display"
	"qgxf-trainer/internal/logger"
	"qgxf-trainer/models"
)

const (
	// playingTimeScale slows reporting slightly below real time so the
	// simulated clock never runs ahead of the wall clock.
	playingTimeScale = 0.95

	// finishingReports is how many times the full duration is reported
	// once playback reaches the end.
	finishingReports = 2

	// startPlayingInterval spaces out worker submissions.
	startPlayingInterval = 3 * time.Second
)

// RemoteAPI is the slice of the platform client the trainer calls. The
// production implementation is *api.Client.
type RemoteAPI interface {
	GetLessonList(ctx context.Context) ([]models.Lesson, error)
	GetVideoList(ctx context.Context, lessonID int64) ([]models.Video, error)
	GetResourceList(ctx context.Context, videoID int64) ([]models.Resource, error)
	GetResourceDetail(ctx context.Context, resourceID int64) (models.ResourceDetail, error)
	SetResourceProgress(ctx context.Context, resourceID int64, videoTime string) error
	GetLessonExamList(ctx context.Context) ([]models.ExamLesson, error)
	StartLessonExam(ctx context.Context, lessonID, stageID int64) (models.ExamPaper, error)
	SaveExamAnswer(ctx context.Context, recordID int64, answers map[string]string) error
	SubmitExam(ctx context.Context, recordID int64, answers map[string]string) (models.ExamResult, error)
	GetExamReport(ctx context.Context, recordID int64, rightType int) (models.ExamReport, error)
}

// MemoryStore persists reference answers between runs. The production
// implementation is *config.Store.
type MemoryStore interface {
	Memory() map[string]models.QuestionRecord
	SetMemory(map[string]models.QuestionRecord)
	Save() error
}

// Options tunes a Trainer. Zero values select the defaults.
type Options struct {
	// MaxJobs bounds concurrent playback workers. Default 5, minimum 1.
	MaxJobs int

	// ReportInterval is the simulated playback step in seconds. Values
	// below 1 report every second with no pacing sleep; the interval is
	// used as given, so callers wanting paced playback pass
	// DefaultReportInterval explicitly.
	ReportInterval int

	// ReportRandomness is the jitter, in seconds, applied to each
	// reported position. Default 1.
	ReportRandomness float64

	// PassScore is the score at or above which an exam counts as passed.
	// Default 60.
	PassScore int

	// ExamAttempts bounds retries per lesson exam. Default 5, minimum 1.
	ExamAttempts int
}

// DefaultReportInterval is the playback step, in seconds, the application
// wiring uses. It is not applied implicitly: a zero ReportInterval is the
// legal "report every second, no pacing" degenerate case.
const DefaultReportInterval = 10

const (
	defaultMaxJobs          = 5
	defaultReportRandomness = 1.0
	defaultPassScore        = 60
	defaultExamAttempts     = 5
)

// Trainer runs the study tasks.
type Trainer struct {
	api     RemoteAPI
	memory  MemoryStore
	display *display.Engine
	sched   *Scheduler
	log     *logger.Logger
	opts    Options

	sleep func(time.Duration)
}

// New builds a Trainer. Option fields left at zero take their defaults.
func New(remote RemoteAPI, memory MemoryStore, eng *display.Engine, log *logger.Logger, opts Options) *Trainer {
	if opts.MaxJobs < 1 {
		opts.MaxJobs = defaultMaxJobs
	}
	if opts.ReportRandomness == 0 {
		opts.ReportRandomness = defaultReportRandomness
	}
	if opts.PassScore == 0 {
		opts.PassScore = defaultPassScore
	}
	if opts.ExamAttempts < 1 {
		opts.ExamAttempts = defaultExamAttempts
	}
	return &Trainer{
		api:     remote,
		memory:  memory,
		display: eng,
		sched:   NewScheduler(opts.MaxJobs),
		log:     log,
		opts:    opts,
		sleep:   time.Sleep,
	}
}
