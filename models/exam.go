package models

// ExamLesson is one entry of the lesson-exam list: the lesson it belongs to,
// the stage used to start a paper, and the best score achieved so far.
type ExamLesson struct {
	LessonID    int64  `json:"lessonId"`
	StageID     int64  `json:"stageId"`
	LessonTitle string `json:"lessonTitle"`
	MaxScore    int    `json:"maxScore"`
}

// ExamPaper is a started exam attempt: the record to submit answers against
// and the questions of this paper.
type ExamPaper struct {
	RecordID     int64         `json:"recordId"`
	StageID      int64         `json:"stageId"`
	QuestionList []WebQuestion `json:"questionList"`
}

// WebQuestion is the wire shape of a question as the platform sends it, both
// in papers and in graded reports. RightAnswer is only populated in reports.
type WebQuestion struct {
	QuestionID    int64       `json:"questionId"`
	QuestionTitle string      `json:"questionTitle"`
	QuestionType  int         `json:"questionType"`
	AnswerList    []WebAnswer `json:"answerList"`
	RightAnswer   string      `json:"rightAnswer"`
}

// WebAnswer is the wire shape of one answer option.
type WebAnswer struct {
	AnswerID    int64  `json:"answerId"`
	AnswerTitle string `json:"answerTitle"`
}

// ExamResult is the payload of a final submission.
type ExamResult struct {
	Score int `json:"score"`
}

// ExamReport is the graded paper, with the right answers filled in.
type ExamReport struct {
	List []WebQuestion `json:"list"`
}
