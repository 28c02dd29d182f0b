package trainer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qgxf-trainer/models"
)

func examPaper(recordID, stageID int64, qs ...models.WebQuestion) models.ExamPaper {
	return models.ExamPaper{RecordID: recordID, StageID: stageID, QuestionList: qs}
}

func choiceQuestion(id int64, qType int, rightAnswer string) models.WebQuestion {
	return models.WebQuestion{
		QuestionID:    id,
		QuestionTitle: "question",
		QuestionType:  qType,
		AnswerList: []models.WebAnswer{
			{AnswerID: 1, AnswerTitle: "A"},
			{AnswerID: 2, AnswerTitle: "B"},
			{AnswerID: 3, AnswerTitle: "C"},
			{AnswerID: 4, AnswerTitle: "D"},
		},
		RightAnswer: rightAnswer,
	}
}

func TestDoLessonExamAllAnswersFromMemory(t *testing.T) {
	remote := newFakeRemote()
	remote.exams = []models.ExamLesson{{LessonID: 1, StageID: 7, MaxScore: 40}}
	remote.papers[1] = []models.ExamPaper{examPaper(500, 7,
		choiceQuestion(21, models.QuestionSingleChoice, ""),
		choiceQuestion(22, models.QuestionJudge, ""),
	)}
	remote.scores[500] = 100
	remote.reports[500] = models.ExamReport{List: []models.WebQuestion{
		choiceQuestion(21, models.QuestionSingleChoice, "2"),
		choiceQuestion(22, models.QuestionJudge, "1"),
	}}

	mem := &fakeMemory{table: models.QuestionsToKV([]models.Question{
		{ID: 21, Type: models.QuestionSingleChoice, RightAnswer: "2"},
		{ID: 22, Type: models.QuestionJudge, RightAnswer: "1"},
	})}

	tr := newTestTrainer(t, remote, mem, Options{})
	require.NoError(t, tr.DoLessonExamAll(context.Background()))

	// One progressive save per question, each carrying the answers so far.
	require.Len(t, remote.savedCalls, 2)
	assert.Equal(t, map[string]string{"21": "2"}, remote.savedCalls[0])
	assert.Equal(t, map[string]string{"21": "2", "22": "1"}, remote.savedCalls[1])

	assert.Equal(t, 1, remote.started[1], "a passed exam must not be retried")
	assert.Equal(t, 1, mem.saves)
}

func TestDoLessonExamAllSkipsPassedLessons(t *testing.T) {
	remote := newFakeRemote()
	remote.exams = []models.ExamLesson{
		{LessonID: 1, MaxScore: 60},
		{LessonID: 2, MaxScore: 95},
	}

	tr := newTestTrainer(t, remote, &fakeMemory{}, Options{})
	require.NoError(t, tr.DoLessonExamAll(context.Background()))
	assert.Empty(t, remote.started)
}

func TestDoLessonExamAllRetriesWithLearnedAnswers(t *testing.T) {
	remote := newFakeRemote()
	remote.exams = []models.ExamLesson{{LessonID: 1, StageID: 7, MaxScore: 0}}
	remote.papers[1] = []models.ExamPaper{
		examPaper(500, 7, choiceQuestion(21, models.QuestionSingleChoice, "")),
		examPaper(501, 7, choiceQuestion(21, models.QuestionSingleChoice, "")),
	}
	remote.scores[500] = 0
	remote.scores[501] = 100
	remote.reports[500] = models.ExamReport{List: []models.WebQuestion{
		choiceQuestion(21, models.QuestionSingleChoice, "3"),
	}}
	remote.reports[501] = remote.reports[500]

	mem := &fakeMemory{}
	tr := newTestTrainer(t, remote, mem, Options{})
	require.NoError(t, tr.DoLessonExamAll(context.Background()))

	require.Equal(t, 2, remote.started[1])
	// The second attempt must answer from the report learned on the first.
	last := remote.savedCalls[len(remote.savedCalls)-1]
	assert.Equal(t, "3", last["21"])
	assert.Equal(t, 2, mem.saves)
}

func TestDoLessonExamAllStopsAfterAttemptBudget(t *testing.T) {
	remote := newFakeRemote()
	remote.exams = []models.ExamLesson{{LessonID: 1, StageID: 7}}
	remote.papers[1] = []models.ExamPaper{examPaper(500, 7,
		choiceQuestion(21, models.QuestionSingleChoice, ""),
	)}
	remote.scores[500] = 0
	remote.reports[500] = models.ExamReport{List: []models.WebQuestion{
		// The report teaches nothing, so every attempt fails.
		choiceQuestion(21, models.QuestionSingleChoice, ""),
	}}

	tr := newTestTrainer(t, remote, &fakeMemory{}, Options{ExamAttempts: 3})
	require.NoError(t, tr.DoLessonExamAll(context.Background()))
	assert.Equal(t, 3, remote.started[1])
}

func TestDoExamGuessesAreValidOptions(t *testing.T) {
	remote := newFakeRemote()
	remote.exams = []models.ExamLesson{{LessonID: 1, StageID: 7}}
	remote.papers[1] = []models.ExamPaper{examPaper(500, 7,
		choiceQuestion(21, models.QuestionSingleChoice, ""),
		choiceQuestion(22, models.QuestionMultipleChoice, ""),
	)}
	remote.scores[500] = 100
	remote.reports[500] = models.ExamReport{List: []models.WebQuestion{
		choiceQuestion(21, models.QuestionSingleChoice, "1"),
		choiceQuestion(22, models.QuestionMultipleChoice, "1|2"),
	}}

	tr := newTestTrainer(t, remote, &fakeMemory{}, Options{})
	require.NoError(t, tr.DoLessonExamAll(context.Background()))

	final := remote.savedCalls[len(remote.savedCalls)-1]
	for id, answer := range final {
		require.NotEmpty(t, answer, "question %s", id)
		for _, part := range strings.Split(answer, "|") {
			assert.Contains(t, []string{"1", "2", "3", "4"}, part, "question %s", id)
		}
	}
	assert.Len(t, strings.Split(final["22"], "|"), 2, "multiple choice picks two options")
}

func TestDoExamRejectsUnsupportedQuestionType(t *testing.T) {
	remote := newFakeRemote()
	remote.exams = []models.ExamLesson{{LessonID: 1, StageID: 7}}
	remote.papers[1] = []models.ExamPaper{examPaper(500, 7,
		choiceQuestion(21, models.QuestionFillBlank, ""),
	)}

	tr := newTestTrainer(t, remote, &fakeMemory{}, Options{})
	err := tr.DoLessonExamAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestDoExamMergesReportIntoMemory(t *testing.T) {
	remote := newFakeRemote()
	remote.exams = []models.ExamLesson{{LessonID: 1, StageID: 7}}
	remote.papers[1] = []models.ExamPaper{examPaper(500, 7,
		choiceQuestion(21, models.QuestionSingleChoice, ""),
	)}
	remote.scores[500] = 100
	remote.reports[500] = models.ExamReport{List: []models.WebQuestion{
		choiceQuestion(21, models.QuestionSingleChoice, "4"),
	}}

	mem := &fakeMemory{table: models.QuestionsToKV([]models.Question{
		{ID: 99, Type: models.QuestionJudge, RightAnswer: "1"},
	})}
	tr := newTestTrainer(t, remote, mem, Options{})
	require.NoError(t, tr.DoLessonExamAll(context.Background()))

	require.Contains(t, mem.table, "21")
	assert.Equal(t, "4", mem.table["21"].RightAnswer)
	assert.Equal(t, int64(7), mem.table["21"].StageID, "graded questions carry the paper's stage id into memory")
	require.Contains(t, mem.table, "99", "old memory entries survive the merge")
	assert.Equal(t, "1", mem.table["99"].RightAnswer)
}
