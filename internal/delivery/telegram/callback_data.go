package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz = "quiz"
)

// Quiz sub-actions.
const (
	quizJump         = "jump"
	quizSubmit       = "submit"
	quizRetry        = "retry"
	quizNext         = "next"
	quizEarly        = "early"
	quizEarlyConfirm = "early_confirm"
	quizEarlyCancel  = "early_cancel"
	quizReview       = "review"
	quizRestart      = "restart"
	quizLogout       = "logout"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// subAction returns the first parameter, or "" when there is none.
func (cd callbackData) subAction() string {
	if len(cd.Params) == 0 {
		return ""
	}
	return cd.Params[0]
}

// intParam parses the parameter at position i.
func (cd callbackData) intParam(i int) (int, bool) {
	if i >= len(cd.Params) {
		return 0, false
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// buildQuizCallback builds callback data for a quiz control.
func buildQuizCallback(subAction string) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{subAction},
	}.encode()
}

// buildJumpCallback builds callback data for a palette button; index is 0-based.
func buildJumpCallback(index int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizJump, strconv.Itoa(index)},
	}.encode()
}
