package quiz

// SlideData is the per-slide navigation snapshot.
type SlideData struct {
	Index              int
	IsFirst            bool
	IsLast             bool
	IsQuestion         bool
	IsResult           bool
	IsAnsweredQuestion bool
	AllowedPrev        *int
	AllowedNext        *int
}

// QuizData is the quiz-wide navigation snapshot.
type QuizData struct {
	ResultIndex      int
	Answered         []int
	Unanswered       []int
	FirstUnanswered  *int
	IsFinalized      bool
	LastElementIndex int
	SelectionMode    SelectionMode
}

// ComputeSlideData derives the navigation rules for slideIndex. It only reads
// instance state.
func ComputeSlideData(instances []Instance, slideIndex int, mode SelectionMode) (SlideData, QuizData, error) {
	n := len(instances)
	if slideIndex < 0 || slideIndex >= n {
		return SlideData{}, QuizData{}, &IndexError{What: "slide", Index: slideIndex, Len: n}
	}

	quiz := QuizData{
		ResultIndex:      n - 1,
		LastElementIndex: n - 1,
		SelectionMode:    mode,
	}
	for i, inst := range instances {
		if inst.Type != TypeQuestion {
			continue
		}
		if inst.Question.IsAnswered() {
			quiz.Answered = append(quiz.Answered, i)
		} else {
			quiz.Unanswered = append(quiz.Unanswered, i)
		}
	}
	if len(quiz.Unanswered) > 0 {
		quiz.FirstUnanswered = intPtr(quiz.Unanswered[0])
	}
	if r := resultOf(instances); r != nil {
		quiz.IsFinalized = r.IsFinalized()
	}

	current := instances[slideIndex]
	slide := SlideData{
		Index:      slideIndex,
		IsFirst:    slideIndex == 0,
		IsLast:     slideIndex == n-1,
		IsQuestion: current.Type == TypeQuestion,
		IsResult:   current.Type == TypeResult,
	}
	slide.IsAnsweredQuestion = slide.IsQuestion && current.Question.IsAnswered()

	if !slide.IsFirst {
		slide.AllowedPrev = intPtr(slideIndex - 1)
	}
	slide.AllowedNext = allowedNext(instances, slideIndex, quiz)

	return slide, quiz, nil
}

func allowedNext(instances []Instance, i int, quiz QuizData) *int {
	if i == len(instances)-1 {
		return nil
	}
	// The result is only reachable through submission until the quiz is final.
	if instances[i+1].Type == TypeResult && !quiz.IsFinalized {
		return nil
	}
	if quiz.IsFinalized {
		return intPtr(i + 1)
	}

	switch quiz.SelectionMode {
	case ModeFree:
		return intPtr(i + 1)
	case ModeSequential:
		if quiz.FirstUnanswered != nil && i >= *quiz.FirstUnanswered {
			return nil
		}
		return intPtr(i + 1)
	default:
		panic("quiz: unknown selection mode " + string(quiz.SelectionMode))
	}
}

// HighestEnabledLevel returns the furthest slide reachable by direct jump.
// Nil means unrestricted, which is the case once the quiz is finalized.
func HighestEnabledLevel(quiz QuizData) *int {
	if quiz.IsFinalized {
		return nil
	}
	lastInquiry := quiz.ResultIndex - 1
	if quiz.SelectionMode == ModeSequential && quiz.FirstUnanswered != nil && *quiz.FirstUnanswered < lastInquiry {
		return intPtr(*quiz.FirstUnanswered)
	}
	return intPtr(lastInquiry)
}

// ResolvedLevels returns the slide indices shown as done in the progress
// indicator: answered questions, plus the result once finalized.
func ResolvedLevels(quiz QuizData) []int {
	levels := make([]int, 0, len(quiz.Answered)+1)
	levels = append(levels, quiz.Answered...)
	if quiz.IsFinalized {
		levels = append(levels, quiz.ResultIndex)
	}
	return levels
}

// CanSubmit reports whether the submit action may be offered.
func CanSubmit(quiz QuizData) bool {
	return !quiz.IsFinalized && len(quiz.Unanswered) == 0
}

// CanReach reports whether a direct jump to target is allowed.
func CanReach(quiz QuizData, target int) bool {
	if target < 0 || target > quiz.LastElementIndex {
		return false
	}
	highest := HighestEnabledLevel(quiz)
	return highest == nil || target <= *highest
}

func intPtr(v int) *int { return &v }
