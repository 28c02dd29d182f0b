package trainer

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"qgxf-trainer/internal/display"
	"qgxf-trainer/internal/randomness"
	"qgxf-trainer/models"
)

// DoLessonExamAll takes every lesson exam whose best score is still below
// the pass score, retrying each up to the attempt budget. Questions with a
// memorized right answer are answered from memory, the rest are guessed;
// the graded report is merged back into memory after every submission, so
// a second attempt knows this paper's answers.
func (t *Trainer) DoLessonExamAll(ctx context.Context) error {
	t.display.RemoveAll()
	t.display.AddLine(display.Text("Fetching lesson exam list...", display.StyleMagenta))

	exams, err := t.api.GetLessonExamList(ctx)
	if err != nil {
		return fmt.Errorf("fetch lesson exam list: %w", err)
	}

	for _, exam := range exams {
		t.display.AddLinef(display.StyleCyan, "(lesson %d) best score %d `%s`",
			exam.LessonID, exam.MaxScore, exam.LessonTitle)
		if exam.MaxScore >= t.opts.PassScore {
			t.display.AddLine(display.Text("  already passed, skipping", display.StyleGreen))
			continue
		}

		passed := false
		for attempt := 1; attempt <= t.opts.ExamAttempts && !passed; attempt++ {
			t.sleep(randomness.DurationBetween(time.Second, 2*time.Second))
			t.display.AddLinef(display.StyleMagenta, "  starting exam attempt #%d", attempt)

			paper, err := t.api.StartLessonExam(ctx, exam.LessonID, exam.StageID)
			if err != nil {
				return fmt.Errorf("start exam of lesson %d: %w", exam.LessonID, err)
			}
			passed, err = t.doExam(ctx, paper)
			if err != nil {
				return fmt.Errorf("exam of lesson %d: %w", exam.LessonID, err)
			}
		}
		if !passed {
			t.display.AddLine(display.Text("  giving up on this lesson, attempt budget exhausted", display.StyleYellow))
		}
	}

	t.display.AddLine(display.Text("Exam task complete!", display.StyleGreen))
	return nil
}

// doExam answers one started paper and reports whether it passed.
func (t *Trainer) doExam(ctx context.Context, paper models.ExamPaper) (bool, error) {
	questions := models.QuestionsFromWeb(paper.QuestionList)
	t.display.AddLinef(display.StyleWhite, "  (paper %d) %d questions", paper.RecordID, len(questions))

	memory := models.QuestionsFromKV(t.memory.Memory())
	known := make(map[int64]string, len(memory))
	for _, q := range memory {
		if q.RightAnswer != "" {
			known[q.ID] = q.RightAnswer
		}
	}

	answers := make(map[string]string, len(questions))
	remembered := 0
	for _, q := range questions {
		key := strconv.FormatInt(q.ID, 10)
		if right, ok := known[q.ID]; ok {
			answers[key] = right
			remembered++
			continue
		}
		guess, err := guessAnswer(q)
		if err != nil {
			return false, err
		}
		answers[key] = guess
	}
	t.display.AddLinef(display.StyleWhite, "  (paper %d) answers remembered for %d of them",
		paper.RecordID, remembered)

	progress := t.display.AddLinef(display.StyleWhite, "  (paper %d) filling in answers...", paper.RecordID)
	saved := make(map[string]string, len(answers))
	for i, key := range sortedAnswerKeys(answers) {
		t.sleep(randomness.DurationBetween(3*time.Second, 5*time.Second))
		saved[key] = answers[key]
		if err := t.api.SaveExamAnswer(ctx, paper.RecordID, saved); err != nil {
			return false, fmt.Errorf("save answers: %w", err)
		}
		progress.Setf(display.StyleWhite, "  (paper %d) filling in answers, %d of %d written",
			paper.RecordID, i+1, len(answers))
	}

	t.sleep(randomness.DurationBetween(3*time.Second, 5*time.Second))
	result, err := t.api.SubmitExam(ctx, paper.RecordID, saved)
	if err != nil {
		return false, fmt.Errorf("submit exam: %w", err)
	}

	report, err := t.api.GetExamReport(ctx, paper.RecordID, -1)
	if err != nil {
		return false, fmt.Errorf("fetch exam report: %w", err)
	}
	graded := models.QuestionsFromWeb(report.List)
	for i := range graded {
		graded[i].StageID = paper.StageID
	}

	// Graded entries come after the old memory so they win on duplicates.
	t.memory.SetMemory(models.QuestionsToKV(append(memory, graded...)))
	if err := t.memory.Save(); err != nil {
		t.log.Warn().Err(err).Msg("persist answer memory")
	}
	t.display.AddLinef(display.StyleWhite, "  (paper %d) reference answers saved", paper.RecordID)

	if result.Score >= t.opts.PassScore {
		t.display.AddLinef(display.StyleGreen, "  (paper %d) passed with score %d", paper.RecordID, result.Score)
		return true, nil
	}
	t.display.AddLinef(display.StyleRed, "  (paper %d) failed with score %d", paper.RecordID, result.Score)
	return false, nil
}

// guessAnswer picks random option IDs for a question with no memorized
// answer: two for multiple choice, one otherwise.
func guessAnswer(q models.Question) (string, error) {
	if len(q.Answers) == 0 {
		return "", fmt.Errorf("question %d has no options", q.ID)
	}

	var k int
	switch q.Type {
	case models.QuestionSingleChoice, models.QuestionJudge:
		k = 1
	case models.QuestionMultipleChoice:
		k = 2
	default:
		return "", fmt.Errorf("question %d has unsupported type %d", q.ID, q.Type)
	}

	ids := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		ids = append(ids, strconv.FormatInt(a.ID, 10))
	}
	picked := randomness.Choose(ids, k)
	sort.Strings(picked)
	return strings.Join(picked, "|"), nil
}

func sortedAnswerKeys(answers map[string]string) []string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.ParseInt(keys[i], 10, 64)
		b, _ := strconv.ParseInt(keys[j], 10, 64)
		return a < b
	})
	return keys
}
