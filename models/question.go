package models

import (
	"sort"
	"strconv"
)

// Question types used by the platform.
const (
	QuestionSingleChoice   = 1
	QuestionMultipleChoice = 2
	QuestionJudge          = 3
	QuestionFillBlank      = 4
)

// Answer is one option of a choice question.
type Answer struct {
	ID    int64
	Title string
}

// Question is the domain form of a platform question, used both for papers
// being answered and for the persisted answer memory. RightAnswer is a
// "|"-separated list of answer IDs; empty when unknown.
type Question struct {
	ID          int64
	Title       string
	Type        int
	Answers     []Answer
	RightAnswer string

	// StageID records which exam stage the question was graded under. It
	// is not part of the web wire shape but is persisted in the memory
	// table.
	StageID int64
}

// QuestionFromWeb converts a wire question into its domain form.
func QuestionFromWeb(w WebQuestion) Question {
	answers := make([]Answer, 0, len(w.AnswerList))
	for _, a := range w.AnswerList {
		answers = append(answers, Answer{ID: a.AnswerID, Title: a.AnswerTitle})
	}
	return Question{
		ID:          w.QuestionID,
		Title:       w.QuestionTitle,
		Type:        w.QuestionType,
		Answers:     answers,
		RightAnswer: w.RightAnswer,
	}
}

// QuestionsFromWeb converts a slice of wire questions, sorted by question ID.
func QuestionsFromWeb(ws []WebQuestion) []Question {
	qs := make([]Question, 0, len(ws))
	for _, w := range ws {
		qs = append(qs, QuestionFromWeb(w))
	}
	SortQuestions(qs)
	return qs
}

// SortQuestions orders questions by ID in place.
func SortQuestions(qs []Question) {
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
}

// AnswerRecord is the persisted form of one answer option, keyed by its ID in
// the parent question record.
type AnswerRecord struct {
	Title string `json:"title"`
}

// QuestionRecord is the persisted form of one memorized question. The answer
// memory in the config file is a map of question ID (as a string) to this
// record.
type QuestionRecord struct {
	Title       string                  `json:"title"`
	Type        int                     `json:"type"`
	Answers     map[string]AnswerRecord `json:"answers"`
	RightAnswer string                  `json:"rightAnswer"`
	StageID     int64                   `json:"stageId"`
}

// QuestionsFromKV expands a persisted answer-memory table into domain
// questions, sorted by ID. Entries whose key is not numeric are skipped.
func QuestionsFromKV(table map[string]QuestionRecord) []Question {
	qs := make([]Question, 0, len(table))
	for k, rec := range table {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		answers := make([]Answer, 0, len(rec.Answers))
		for ak, av := range rec.Answers {
			aid, err := strconv.ParseInt(ak, 10, 64)
			if err != nil {
				continue
			}
			answers = append(answers, Answer{ID: aid, Title: av.Title})
		}
		sort.Slice(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
		qs = append(qs, Question{
			ID:          id,
			Title:       rec.Title,
			Type:        rec.Type,
			Answers:     answers,
			RightAnswer: rec.RightAnswer,
			StageID:     rec.StageID,
		})
	}
	SortQuestions(qs)
	return qs
}

// QuestionsToKV collapses domain questions into the persisted answer-memory
// table. Later duplicates of the same question ID overwrite earlier ones.
func QuestionsToKV(qs []Question) map[string]QuestionRecord {
	table := make(map[string]QuestionRecord, len(qs))
	for _, q := range qs {
		answers := make(map[string]AnswerRecord, len(q.Answers))
		for _, a := range q.Answers {
			answers[strconv.FormatInt(a.ID, 10)] = AnswerRecord{Title: a.Title}
		}
		table[strconv.FormatInt(q.ID, 10)] = QuestionRecord{
			Title:       q.Title,
			Type:        q.Type,
			Answers:     answers,
			RightAnswer: q.RightAnswer,
			StageID:     q.StageID,
		}
	}
	return table
}
