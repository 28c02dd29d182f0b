package api

import (
	"context"
	"encoding/json"
	"fmt"

	"qgxf-trainer/models"
)

const (
	pathGetCaptcha       = "/trainingApi/v1/user/getCaptcha"
	pathLogin            = "/trainingApi/v1/user/login"
	pathUserInfo         = "/trainingApi/v1/user/userInfo"
	pathMyLessons        = "/trainingApi/v1/lesson/myLesson"
	pathLessonVideos     = "/trainingApi/v1/lesson/lessonVideos"
	pathVideoDetail      = "/trainingApi/v1/lesson/lessonVideoDetail"
	pathResourceDetail   = "/trainingApi/v1/lesson/lessonVideoResourceDetail"
	pathSetResourceTime  = "/trainingApi/v1/lesson/setResourceTime"
	pathExamLessonList   = "/trainingApi/v1/exam/examLessonList"
	pathStartLessonExam  = "/trainingApi/v1/exam/startLessonExam"
	pathSaveExamAnswer   = "/trainingApi/v1/exam/saveExamAnswer"
	pathSubmitExam       = "/trainingApi/v1/exam/submitExam"
	pathExamRecordDetail = "/trainingApi/v1/exam/examRecordDetail"
)

// Page sizes the platform web client uses for its own listings.
const (
	lessonPageSize = 8
	videoPageSize  = 10
)

// GetCaptcha fetches a fresh captcha challenge.
func (c *Client) GetCaptcha(ctx context.Context) (models.Captcha, error) {
	var captcha models.Captcha
	data, err := c.call(ctx, pathGetCaptcha, nil, callOpts{get: true})
	if err != nil {
		return captcha, fmt.Errorf("get captcha: %w", err)
	}
	if err := json.Unmarshal(data, &captcha); err != nil {
		return captcha, fmt.Errorf("decode captcha: %w", err)
	}
	return captcha, nil
}

// Login authenticates with the RSA-encrypted password and the solved
// captcha, and stores the returned session token. The call is never retried:
// a captcha code is single-use, so re-issuing the same request cannot
// succeed.
func (c *Client) Login(ctx context.Context, userSid, password, captchaID, captchaCode string) (models.LoginResult, error) {
	var result models.LoginResult

	encrypted, err := EncryptPassword(password)
	if err != nil {
		return result, fmt.Errorf("encrypt password: %w", err)
	}

	data, err := c.call(ctx, pathLogin, map[string]any{
		"userSid":  userSid,
		"password": encrypted,
		"id":       captchaID,
		"code":     captchaCode,
	}, callOpts{noRetry: true})
	if err != nil {
		return result, fmt.Errorf("login: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("decode login result: %w", err)
	}

	c.SetToken(result.Token)
	return result, nil
}

// GetUserInfo returns the account owning the current session. A non-empty
// newToken is adopted first, which is how a token restored from the config
// file is validated.
func (c *Client) GetUserInfo(ctx context.Context, newToken string) (models.UserInfo, error) {
	if newToken != "" {
		c.SetToken(newToken)
	}

	var info models.UserInfo
	data, err := c.call(ctx, pathUserInfo, nil, callOpts{})
	if err != nil {
		return info, fmt.Errorf("get user info: %w", err)
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("decode user info: %w", err)
	}
	return info, nil
}

// GetLessonList fetches every enrolled lesson.
func (c *Client) GetLessonList(ctx context.Context) ([]models.Lesson, error) {
	lessons, err := paginate[models.Lesson](ctx, c, pathMyLessons, nil, lessonPageSize, callOpts{})
	if err != nil {
		return nil, fmt.Errorf("get lesson list: %w", err)
	}
	return lessons, nil
}

// GetVideoList fetches every video of a lesson.
func (c *Client) GetVideoList(ctx context.Context, lessonID int64) ([]models.Video, error) {
	videos, err := paginate[models.Video](ctx, c, pathLessonVideos, map[string]any{
		"lessonId": lessonID,
		"showType": 0,
	}, videoPageSize, callOpts{asJSON: true})
	if err != nil {
		return nil, fmt.Errorf("get video list: %w", err)
	}
	return videos, nil
}

// GetResourceList fetches the playable resources of a video.
func (c *Client) GetResourceList(ctx context.Context, videoID int64) ([]models.Resource, error) {
	data, err := c.call(ctx, pathVideoDetail, map[string]any{"videoId": videoID}, callOpts{})
	if err != nil {
		return nil, fmt.Errorf("get resource list: %w", err)
	}

	var detail models.VideoDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("decode resource list: %w", err)
	}
	return detail.ResourceList, nil
}

// GetResourceDetail fetches the playback position and duration of a
// resource.
func (c *Client) GetResourceDetail(ctx context.Context, resourceID int64) (models.ResourceDetail, error) {
	var detail models.ResourceDetail
	data, err := c.call(ctx, pathResourceDetail, map[string]any{"resourceId": resourceID}, callOpts{})
	if err != nil {
		return detail, fmt.Errorf("get resource detail: %w", err)
	}
	if err := json.Unmarshal(data, &detail); err != nil {
		return detail, fmt.Errorf("decode resource detail: %w", err)
	}
	return detail, nil
}

// SetResourceProgress reports the watched position (HH:MM:SS) of a resource.
func (c *Client) SetResourceProgress(ctx context.Context, resourceID int64, hhmmss string) error {
	_, err := c.call(ctx, pathSetResourceTime, map[string]any{
		"resourceId": resourceID,
		"videoTime":  hhmmss,
	}, callOpts{})
	if err != nil {
		return fmt.Errorf("set resource progress: %w", err)
	}
	return nil
}

// GetLessonExamList fetches every lesson exam with its best score so far.
func (c *Client) GetLessonExamList(ctx context.Context) ([]models.ExamLesson, error) {
	data, err := c.call(ctx, pathExamLessonList, nil, callOpts{})
	if err != nil {
		return nil, fmt.Errorf("get lesson exam list: %w", err)
	}

	var exams []models.ExamLesson
	if err := json.Unmarshal(data, &exams); err != nil {
		return nil, fmt.Errorf("decode lesson exam list: %w", err)
	}
	return exams, nil
}

// StartLessonExam opens a new exam attempt and returns the paper.
func (c *Client) StartLessonExam(ctx context.Context, lessonID, stageID int64) (models.ExamPaper, error) {
	var paper models.ExamPaper
	data, err := c.call(ctx, pathStartLessonExam, map[string]any{
		"stageId":  stageID,
		"lessonId": lessonID,
	}, callOpts{})
	if err != nil {
		return paper, fmt.Errorf("start lesson exam: %w", err)
	}
	if err := json.Unmarshal(data, &paper); err != nil {
		return paper, fmt.Errorf("decode exam paper: %w", err)
	}
	return paper, nil
}

// SaveExamAnswer persists the answers written so far. answers maps question
// IDs to "|"-separated answer IDs and always carries the full accumulated
// set, matching how the web client saves drafts.
func (c *Client) SaveExamAnswer(ctx context.Context, recordID int64, answers map[string]string) error {
	_, err := c.call(ctx, pathSaveExamAnswer, map[string]any{
		"recordId":   recordID,
		"answerList": answers,
	}, callOpts{asJSON: true})
	if err != nil {
		return fmt.Errorf("save exam answer: %w", err)
	}
	return nil
}

// SubmitExam finalizes the attempt and returns its score.
func (c *Client) SubmitExam(ctx context.Context, recordID int64, answers map[string]string) (models.ExamResult, error) {
	var result models.ExamResult
	data, err := c.call(ctx, pathSubmitExam, map[string]any{
		"recordId":   recordID,
		"answerList": answers,
	}, callOpts{asJSON: true})
	if err != nil {
		return result, fmt.Errorf("submit exam: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("decode exam result: %w", err)
	}
	return result, nil
}

// GetExamReport fetches the graded paper of a finished attempt. rightType
// filters by correctness on the server side; -1 returns everything.
func (c *Client) GetExamReport(ctx context.Context, recordID int64, rightType int) (models.ExamReport, error) {
	var report models.ExamReport
	data, err := c.call(ctx, pathExamRecordDetail, map[string]any{
		"recordId":  recordID,
		"rightType": rightType,
	}, callOpts{})
	if err != nil {
		return report, fmt.Errorf("get exam report: %w", err)
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("decode exam report: %w", err)
	}
	return report, nil
}
